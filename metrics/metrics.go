// Package metrics exposes Prometheus metrics for the push notification server
// on a dedicated listen address.
package metrics

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Delivery results and subscription operations used as label values.
const (
	ResultDelivered = "delivered"
	ResultRejected  = "rejected"

	OpRegister   = "register"
	OpUnregister = "unregister"
	OpPrune      = "prune"
)

// MetricsServer serves a private Prometheus registry on /metrics.
type MetricsServer struct {
	namespace string
	registry  *prometheus.Registry
	srv       *http.Server
}

func New(namespace, addr string) (*MetricsServer, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}

	mux := chi.NewRouter()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return &MetricsServer{
		namespace: namespace,
		registry:  registry,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}, nil
}

func (m *MetricsServer) Registry() *prometheus.Registry {
	return m.registry
}

func (m *MetricsServer) Namespace() string {
	return m.namespace
}

func (m *MetricsServer) Handler() http.Handler {
	return m.srv.Handler
}

func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}

// PushMetrics tracks registrations and delivery outcomes.
// A nil *PushMetrics is valid and records nothing.
type PushMetrics struct {
	deliveries          *prometheus.CounterVec
	subscriptionChanges *prometheus.CounterVec
}

func NewPushMetrics(reg prometheus.Registerer, namespace string) *PushMetrics {
	factory := promauto.With(reg)
	return &PushMetrics{
		deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "push",
				Name:      "deliveries_total",
				Help:      "Notification delivery attempts by result",
			},
			[]string{"result"},
		),
		subscriptionChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "push",
				Name:      "subscription_changes_total",
				Help:      "Subscriptions added or removed, by operation",
			},
			[]string{"op"},
		),
	}
}

// RegisterSubscriptionGauge exports the current number of stored subscriptions.
func RegisterSubscriptionGauge(reg prometheus.Registerer, namespace string, count func() int) {
	promauto.With(reg).NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "push",
			Name:      "subscriptions",
			Help:      "Number of subscriptions currently stored",
		},
		func() float64 { return float64(count()) },
	)
}

func (m *PushMetrics) ObserveDelivery(result string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(result).Inc()
}

func (m *PushMetrics) ObserveSubscriptionChange(op string) {
	if m == nil {
		return
	}
	m.subscriptionChanges.WithLabelValues(op).Inc()
}
