package kms

import (
	"context"
	"fmt"
	"os"

	"github.com/ruteri/push-notification-server/interfaces"
)

const (
	DefaultPublicKeyEnv  = "VAPID_PUBLIC_KEY"
	DefaultPrivateKeyEnv = "VAPID_PRIVATE_KEY"
)

// EnvSource reads the key pair from process environment variables.
type EnvSource struct {
	PublicKeyVar  string
	PrivateKeyVar string
}

// NewEnvSource returns a source reading VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY.
func NewEnvSource() *EnvSource {
	return &EnvSource{
		PublicKeyVar:  DefaultPublicKeyEnv,
		PrivateKeyVar: DefaultPrivateKeyEnv,
	}
}

func (s *EnvSource) Load(ctx context.Context) (interfaces.VAPIDKeys, error) {
	return interfaces.VAPIDKeys{
		PublicKey:  os.Getenv(s.PublicKeyVar),
		PrivateKey: os.Getenv(s.PrivateKeyVar),
	}, nil
}

func (s *EnvSource) Name() string {
	return fmt.Sprintf("env(%s,%s)", s.PublicKeyVar, s.PrivateKeyVar)
}
