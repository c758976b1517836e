package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ruteri/push-notification-server/interfaces"
	"github.com/ruteri/push-notification-server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPushGateway implements interfaces.PushGateway for testing
type MockPushGateway struct {
	mock.Mock
}

func (m *MockPushGateway) Deliver(ctx context.Context, sub interfaces.Subscription) error {
	args := m.Called(ctx, sub.Endpoint)
	return args.Error(0)
}

// blockingGateway holds every delivery until release is closed.
type blockingGateway struct {
	release  chan struct{}
	started  chan string
	rejected map[string]bool
}

func newBlockingGateway(rejected ...string) *blockingGateway {
	g := &blockingGateway{
		release:  make(chan struct{}),
		started:  make(chan string, 100),
		rejected: make(map[string]bool),
	}
	for _, endpoint := range rejected {
		g.rejected[endpoint] = true
	}
	return g
}

func (g *blockingGateway) Deliver(ctx context.Context, sub interfaces.Subscription) error {
	g.started <- sub.Endpoint
	select {
	case <-g.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	if g.rejected[sub.Endpoint] {
		return errors.New("410 Gone")
	}
	return nil
}

func newTestStore(t *testing.T, endpoints ...string) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	for _, endpoint := range endpoints {
		sub, err := interfaces.NewSubscription(json.RawMessage(fmt.Sprintf(`{"endpoint":%q}`, endpoint)))
		require.NoError(t, err)
		store.Put(sub)
	}
	return store
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyAll_NoSubscriptions(t *testing.T) {
	gw := new(MockPushGateway)
	n := NewNotifier(storage.NewMemoryStore(), gw, nil, testLogger())

	assert.Equal(t, 0, n.NotifyAll())
	require.NoError(t, n.Shutdown(context.Background()))
	gw.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestNotifyAll_DeliversToEverySubscription(t *testing.T) {
	endpoints := []string{"https://push.example/A", "https://push.example/B", "https://push.example/C"}
	store := newTestStore(t, endpoints...)

	gw := new(MockPushGateway)
	for _, endpoint := range endpoints {
		gw.On("Deliver", mock.Anything, endpoint).Return(nil).Once()
	}

	n := NewNotifier(store, gw, nil, testLogger())
	assert.Equal(t, len(endpoints), n.NotifyAll())
	require.NoError(t, n.Shutdown(context.Background()))

	gw.AssertExpectations(t)
	assert.Equal(t, len(endpoints), store.Count())
}

func TestNotifyAll_DoesNotWaitForDeliveries(t *testing.T) {
	endpoints := []string{"https://push.example/A", "https://push.example/B"}
	store := newTestStore(t, endpoints...)
	gw := newBlockingGateway()

	n := NewNotifier(store, gw, nil, testLogger())

	returned := make(chan int, 1)
	go func() { returned <- n.NotifyAll() }()

	select {
	case dispatched := <-returned:
		assert.Equal(t, 2, dispatched)
	case <-time.After(5 * time.Second):
		t.Fatal("NotifyAll blocked on delivery")
	}

	// both deliveries are in flight at the same time
	started := map[string]bool{}
	for i := 0; i < len(endpoints); i++ {
		started[<-gw.started] = true
	}
	assert.Len(t, started, len(endpoints))

	close(gw.release)
	require.NoError(t, n.Shutdown(context.Background()))
}

func TestNotifyAll_PrunesRejectedSubscriptions(t *testing.T) {
	store := newTestStore(t, "https://push.example/A", "https://push.example/B")
	gw := newBlockingGateway("https://push.example/B")

	n := NewNotifier(store, gw, nil, testLogger())
	require.Equal(t, 2, n.NotifyAll())

	<-gw.started
	<-gw.started
	// still present while the outcome is pending
	assert.Equal(t, 2, store.Count())

	close(gw.release)
	require.NoError(t, n.Shutdown(context.Background()))

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, "https://push.example/A", all[0].Endpoint)
}

func TestNotifyAll_RejectionOfUnregisteredSubscription(t *testing.T) {
	store := newTestStore(t, "https://push.example/A")
	gw := newBlockingGateway("https://push.example/A")

	n := NewNotifier(store, gw, nil, testLogger())
	require.Equal(t, 1, n.NotifyAll())
	<-gw.started

	// unregistered while the delivery was in flight
	store.Remove("https://push.example/A")

	close(gw.release)
	require.NoError(t, n.Shutdown(context.Background()))
	assert.Zero(t, store.Count())
}

func TestShutdown_CancelsInFlightDeliveries(t *testing.T) {
	store := newTestStore(t, "https://push.example/A")
	gw := newBlockingGateway()

	n := NewNotifier(store, gw, nil, testLogger())
	require.Equal(t, 1, n.NotifyAll())
	<-gw.started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := n.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// cancellation is not a rejection
	assert.Equal(t, 1, store.Count())
}

func TestNotifyAll_ConcurrentWithRegistration(t *testing.T) {
	store := newTestStore(t, "https://push.example/seed")
	gw := new(MockPushGateway)
	gw.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("expired"))

	n := NewNotifier(store, gw, nil, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			n.NotifyAll()
		}()
		go func(i int) {
			defer wg.Done()
			sub, err := interfaces.NewSubscription(json.RawMessage(fmt.Sprintf(`{"endpoint":"https://push.example/%d"}`, i)))
			assert.NoError(t, err)
			store.Put(sub)
		}(i)
	}
	wg.Wait()
	require.NoError(t, n.Shutdown(context.Background()))

	// every subscription still stored was never delivered to
	for _, sub := range store.All() {
		for _, call := range gw.Calls {
			assert.NotEqual(t, sub.Endpoint, call.Arguments.Get(1))
		}
	}
}
