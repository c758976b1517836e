package storage

import (
	"sync"

	"github.com/ruteri/push-notification-server/interfaces"
)

// MemoryStore implements interfaces.SubscriptionStore with an in-process map.
type MemoryStore struct {
	mu            sync.RWMutex
	subscriptions map[string]interfaces.Subscription
}

var _ interfaces.SubscriptionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subscriptions: make(map[string]interfaces.Subscription),
	}
}

func (s *MemoryStore) Put(sub interfaces.Subscription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscriptions[sub.Endpoint]; ok {
		return false
	}
	s.subscriptions[sub.Endpoint] = sub
	return true
}

func (s *MemoryStore) Remove(endpoint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscriptions[endpoint]; !ok {
		return false
	}
	delete(s.subscriptions, endpoint)
	return true
}

func (s *MemoryStore) All() []interfaces.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := make([]interfaces.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		subs = append(subs, sub)
	}
	return subs
}

func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscriptions)
}
