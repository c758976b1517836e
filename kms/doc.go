// Package kms resolves the VAPID key pair that identifies this application
// server to browser push services.
//
// Keys are read once at startup from a KeySource:
//
//   - EnvSource: VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY environment variables (default)
//   - VaultSource: a HashiCorp Vault KV v2 secret with public_key and private_key fields
//   - AWSSecretsManagerSource: an AWS Secrets Manager secret holding a JSON document
//     {"public_key": "...", "private_key": "..."}
//
// When either half of the pair is missing, LoadVAPIDKeys logs a freshly generated
// pair the operator can copy into the configured source and returns
// ErrMissingVAPIDKeys. The server must not start serving in that case.
//
// Keys use the unpadded base64url encoding produced by webpush key generation:
// the public key is an uncompressed P-256 point (65 bytes), the private key a
// 32-byte scalar.
package kms
