// Package interfaces defines the core types and contracts of the push notification
// server, separating interface definitions from implementations.
//
// # Types
//
//   - Subscription: a browser push subscription keyed by its endpoint URL. The
//     original JSON document is kept verbatim and only decoded by the push gateway.
//   - VAPIDKeys: the application server key pair used to identify this server
//     to push services.
//
// # Interfaces
//
// SubscriptionStore: Holds at most one subscription per endpoint. Implementations
// must be safe for concurrent use since HTTP handlers and delivery goroutines
// mutate it independently.
//
// PushGateway: Performs encrypted delivery of a notification to a single
// subscription. A nil error means the push service accepted the message; any
// error is treated as the subscription being expired or revoked.
//
// KeySource: Resolves the VAPID key pair at startup (environment, Vault, AWS
// Secrets Manager).
package interfaces
