// Package storage provides the subscription store used by the HTTP surface and
// the notifier.
//
// MemoryStore keeps subscriptions in a map keyed by endpoint and guarded by a
// read-write mutex. State lives for the lifetime of the process only; a restart
// drops every registration and browsers are expected to re-register.
//
// # Semantics
//
//   - Put is insert-if-absent: registering the same endpoint twice keeps the
//     first document.
//   - Remove is a no-op for unknown endpoints.
//   - All returns a copy, so callers may iterate while other goroutines mutate
//     the store. A subscription removed after the copy was taken may still be
//     delivered to once.
//
// # Example Usage
//
//	store := storage.NewMemoryStore()
//	sub, _ := interfaces.NewSubscription(raw)
//	if store.Put(sub) {
//		log.Info("Subscription registered", "endpoint", sub.Endpoint)
//	}
package storage
