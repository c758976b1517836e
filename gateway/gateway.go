// Package gateway delivers notifications to browser push services.
//
// Payload encryption, VAPID request signing and the push wire protocol are
// handled by github.com/SherClockHolmes/webpush-go. This package only adapts it
// to interfaces.PushGateway and folds every failure (transport error, expired or
// revoked subscription, malformed subscription keys) into ErrRejected.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/ruteri/push-notification-server/interfaces"
)

// ErrRejected wraps every failed delivery.
var ErrRejected = errors.New("push delivery rejected")

const (
	// DefaultTTL is four weeks, the retention most push services allow.
	DefaultTTL = 2419200

	DefaultSubject = "https://example.com/"

	// drainLimit caps how much of a push service response body is read before closing.
	drainLimit = 4096
)

type Config struct {
	Keys interfaces.VAPIDKeys

	// Subject is the contact URI sent in the VAPID claims (https: or mailto:).
	Subject string

	// TTL is how long, in seconds, the push service should retain an undelivered message.
	TTL int

	// Urgency is an optional RFC 8030 urgency ("very-low", "low", "normal", "high").
	Urgency string

	// Payload is sent to every subscription. Empty sends an empty encrypted record.
	Payload []byte

	// Timeout bounds a single request to the push service. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// WebPushGateway implements interfaces.PushGateway on top of webpush-go.
type WebPushGateway struct {
	options webpush.Options
	payload []byte
}

var _ interfaces.PushGateway = (*WebPushGateway)(nil)

func New(cfg *Config) (*WebPushGateway, error) {
	if !cfg.Keys.Complete() {
		return nil, errors.New("VAPID keys are required")
	}

	subject := cfg.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &WebPushGateway{
		options: webpush.Options{
			HTTPClient:      client,
			Subscriber:      subject,
			TTL:             ttl,
			Urgency:         webpush.Urgency(cfg.Urgency),
			VAPIDPublicKey:  cfg.Keys.PublicKey,
			VAPIDPrivateKey: cfg.Keys.PrivateKey,
		},
		payload: cfg.Payload,
	}, nil
}

// Deliver sends the configured payload to sub. Any non-2xx response is a rejection.
func (g *WebPushGateway) Deliver(ctx context.Context, sub interfaces.Subscription) error {
	var target webpush.Subscription
	if err := json.Unmarshal(sub.Raw, &target); err != nil {
		return fmt.Errorf("%w: malformed subscription: %v", ErrRejected, err)
	}

	options := g.options
	resp, err := webpush.SendNotificationWithContext(ctx, g.payload, &target, &options)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: push service responded %s", ErrRejected, resp.Status)
	}

	return nil
}
