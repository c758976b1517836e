package interfaces

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidSubscription is returned for subscription documents that cannot be stored.
	ErrInvalidSubscription = errors.New("invalid subscription")
)

// Subscription is a push subscription as produced by the browser's PushManager.
// Endpoint is the storage identity; Raw holds the complete JSON object
// (endpoint, keys, expirationTime) exactly as it was received.
type Subscription struct {
	Endpoint string
	Raw      json.RawMessage
}

// NewSubscription validates a raw subscription document and extracts its endpoint.
// The document must be a JSON object with a non-empty string "endpoint" field.
func NewSubscription(raw json.RawMessage) (Subscription, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Subscription{}, fmt.Errorf("%w: expected a JSON object", ErrInvalidSubscription)
	}

	var fields struct {
		Endpoint *string `json:"endpoint"`
	}
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Subscription{}, fmt.Errorf("%w: %v", ErrInvalidSubscription, err)
	}
	if fields.Endpoint == nil || *fields.Endpoint == "" {
		return Subscription{}, fmt.Errorf("%w: missing endpoint", ErrInvalidSubscription)
	}

	return Subscription{
		Endpoint: *fields.Endpoint,
		Raw:      append(json.RawMessage(nil), trimmed...),
	}, nil
}

// MarshalJSON returns the original subscription document.
func (s Subscription) MarshalJSON() ([]byte, error) {
	if len(s.Raw) == 0 {
		return json.Marshal(map[string]string{"endpoint": s.Endpoint})
	}
	return s.Raw, nil
}

// UnmarshalJSON accepts a subscription document and validates it like NewSubscription.
func (s *Subscription) UnmarshalJSON(data []byte) error {
	sub, err := NewSubscription(data)
	if err != nil {
		return err
	}
	*s = sub
	return nil
}

// VAPIDKeys is the application server key pair, both halves base64url encoded
// as produced by webpush key generation.
type VAPIDKeys struct {
	PublicKey  string
	PrivateKey string
}

// Complete reports whether both halves of the key pair are present.
func (k VAPIDKeys) Complete() bool {
	return k.PublicKey != "" && k.PrivateKey != ""
}
