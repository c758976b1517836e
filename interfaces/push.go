package interfaces

import "context"

// SubscriptionStore keeps push subscriptions keyed by endpoint.
type SubscriptionStore interface {
	// Put inserts the subscription unless its endpoint is already present.
	// Returns true if the subscription was inserted.
	Put(sub Subscription) bool

	// Remove deletes the subscription with the given endpoint if present.
	// Returns true if a subscription was removed.
	Remove(endpoint string) bool

	// All returns the currently stored subscriptions in no particular order.
	All() []Subscription

	// Count returns the number of stored subscriptions.
	Count() int
}

// PushGateway delivers a notification to a single subscription.
type PushGateway interface {
	// Deliver sends one notification. A nil error means the push service
	// accepted the message; any error means the delivery was rejected.
	Deliver(ctx context.Context, sub Subscription) error
}

// KeySource resolves the VAPID key pair.
type KeySource interface {
	// Load returns the key pair. Missing values are returned as empty strings
	// rather than as an error so the caller can decide how to report them.
	Load(ctx context.Context) (VAPIDKeys, error)

	// Name identifies the source in logs.
	Name() string
}
