package kms

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/ruteri/push-notification-server/interfaces"
)

var (
	// ErrMissingVAPIDKeys is returned when the key source lacks either half of the pair.
	ErrMissingVAPIDKeys = errors.New("VAPID public and private keys must be configured")

	// ErrInvalidVAPIDKeys is returned when a configured key does not decode to a P-256 key.
	ErrInvalidVAPIDKeys = errors.New("invalid VAPID key")
)

const (
	publicKeyLen  = 65
	privateKeyLen = 32
)

// GenerateVAPIDKeys creates a new random key pair.
func GenerateVAPIDKeys() (interfaces.VAPIDKeys, error) {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return interfaces.VAPIDKeys{}, fmt.Errorf("failed to generate VAPID keys: %w", err)
	}
	return interfaces.VAPIDKeys{PublicKey: publicKey, PrivateKey: privateKey}, nil
}

// LoadVAPIDKeys reads the key pair from source and validates it.
// If either key is missing a suggested pair is logged and ErrMissingVAPIDKeys returned.
func LoadVAPIDKeys(ctx context.Context, source interfaces.KeySource, log *slog.Logger) (interfaces.VAPIDKeys, error) {
	keys, err := source.Load(ctx)
	if err != nil {
		return interfaces.VAPIDKeys{}, fmt.Errorf("failed to load VAPID keys from %s: %w", source.Name(), err)
	}

	if !keys.Complete() {
		suggestion, genErr := GenerateVAPIDKeys()
		if genErr != nil {
			log.Error("VAPID keys are not configured", "source", source.Name(), "err", genErr)
		} else {
			log.Error("VAPID keys are not configured, you can use the following ones",
				"source", source.Name(),
				"publicKey", suggestion.PublicKey,
				"privateKey", suggestion.PrivateKey)
		}
		return interfaces.VAPIDKeys{}, ErrMissingVAPIDKeys
	}

	if err := ValidateVAPIDKeys(keys); err != nil {
		return interfaces.VAPIDKeys{}, err
	}

	log.Info("VAPID keys loaded", "source", source.Name(), "publicKey", keys.PublicKey)
	return keys, nil
}

// ValidateVAPIDKeys checks that both keys decode to the expected lengths.
func ValidateVAPIDKeys(keys interfaces.VAPIDKeys) error {
	pub, err := decodeKey(keys.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: public key: %v", ErrInvalidVAPIDKeys, err)
	}
	if len(pub) != publicKeyLen || pub[0] != 0x04 {
		return fmt.Errorf("%w: public key must be an uncompressed P-256 point", ErrInvalidVAPIDKeys)
	}

	priv, err := decodeKey(keys.PrivateKey)
	if err != nil {
		return fmt.Errorf("%w: private key: %v", ErrInvalidVAPIDKeys, err)
	}
	if len(priv) != privateKeyLen {
		return fmt.Errorf("%w: private key must be %d bytes", ErrInvalidVAPIDKeys, privateKeyLen)
	}

	return nil
}

// decodeKey accepts padded and unpadded base64url, which is what browsers and
// key generators emit in practice.
func decodeKey(key string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(key), "="))
}
