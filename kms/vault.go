package kms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/api"
	"github.com/ruteri/push-notification-server/interfaces"
)

const (
	publicKeyField  = "public_key"
	privateKeyField = "private_key"
)

// VaultSource reads the key pair from a HashiCorp Vault KV v2 secret.
type VaultSource struct {
	client *api.Client
	mount  string
	path   string
}

// NewVaultSource creates a Vault source for the secret at mount/path.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - token: Vault token, may be empty if VAULT_TOKEN is set
//   - mount: KV v2 mount path (e.g. "secret")
//   - path: secret path within the mount (e.g. "push-server/vapid")
func NewVaultSource(address, token, mount, path string) (*VaultSource, error) {
	if address == "" {
		return nil, errors.New("vault address is required")
	}

	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	if token != "" {
		client.SetToken(token)
	}

	mount = strings.Trim(mount, "/")
	if mount == "" {
		mount = "secret"
	}

	return &VaultSource{
		client: client,
		mount:  mount,
		path:   strings.Trim(path, "/"),
	}, nil
}

func (s *VaultSource) Load(ctx context.Context) (interfaces.VAPIDKeys, error) {
	secret, err := s.client.KVv2(s.mount).Get(ctx, s.path)
	if err != nil {
		if errors.Is(err, api.ErrSecretNotFound) {
			return interfaces.VAPIDKeys{}, nil
		}
		return interfaces.VAPIDKeys{}, fmt.Errorf("failed to read secret %s: %w", s.path, err)
	}

	if secret == nil || secret.Data == nil {
		return interfaces.VAPIDKeys{}, nil
	}

	return interfaces.VAPIDKeys{
		PublicKey:  stringField(secret.Data, publicKeyField),
		PrivateKey: stringField(secret.Data, privateKeyField),
	}, nil
}

func (s *VaultSource) Name() string {
	return fmt.Sprintf("vault(%s/%s)", s.mount, s.path)
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
