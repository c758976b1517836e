// Package notifications fans a notification out to every stored subscription and
// prunes subscriptions the push service rejects.
package notifications

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ruteri/push-notification-server/interfaces"
	"github.com/ruteri/push-notification-server/metrics"
)

// Notifier dispatches deliveries without waiting for their outcome.
// Each delivery runs in its own goroutine; a rejected delivery removes the
// subscription from the store.
type Notifier struct {
	store   interfaces.SubscriptionStore
	gateway interfaces.PushGateway
	metrics *metrics.PushMetrics
	log     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNotifier creates a notifier. pushMetrics may be nil.
func NewNotifier(store interfaces.SubscriptionStore, gateway interfaces.PushGateway, pushMetrics *metrics.PushMetrics, log *slog.Logger) *Notifier {
	ctx, cancel := context.WithCancel(context.Background())
	return &Notifier{
		store:   store,
		gateway: gateway,
		metrics: pushMetrics,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// NotifyAll starts one delivery per stored subscription and returns the number
// started. It returns before any delivery completes.
func (n *Notifier) NotifyAll() int {
	subs := n.store.All()
	for _, sub := range subs {
		n.wg.Add(1)
		go n.deliver(sub)
	}
	return len(subs)
}

func (n *Notifier) deliver(sub interfaces.Subscription) {
	defer n.wg.Done()

	err := n.gateway.Deliver(n.ctx, sub)
	if err == nil {
		n.metrics.ObserveDelivery(metrics.ResultDelivered)
		n.log.Info("Notification sent", "endpoint", sub.Endpoint)
		return
	}

	// Cancelled on shutdown, the subscription itself is fine.
	if n.ctx.Err() != nil {
		n.log.Warn("Notification delivery cancelled", "endpoint", sub.Endpoint, "err", err)
		return
	}

	n.metrics.ObserveDelivery(metrics.ResultRejected)
	if n.store.Remove(sub.Endpoint) {
		n.metrics.ObserveSubscriptionChange(metrics.OpPrune)
	}
	n.log.Warn("Failed to send notification, endpoint removed", "endpoint", sub.Endpoint, "err", err)
}

// Shutdown waits for in-flight deliveries. If ctx expires first the remaining
// deliveries are cancelled and ctx.Err() is returned once they have exited.
func (n *Notifier) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		n.cancel()
		return nil
	case <-ctx.Done():
		n.cancel()
		<-done
		return ctx.Err()
	}
}
