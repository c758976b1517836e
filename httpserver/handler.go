package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ruteri/push-notification-server/api"
	"github.com/ruteri/push-notification-server/interfaces"
	"github.com/ruteri/push-notification-server/metrics"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// RequestError provides structured error information for HTTP responses.
// It includes both an HTTP status code and the underlying error.
type RequestError struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error returns the error message from the underlying error.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Dispatcher starts notification delivery to all stored subscriptions.
type Dispatcher interface {
	// NotifyAll returns the number of deliveries started without waiting for them.
	NotifyAll() int
}

// Handler processes HTTP requests for the push notification API.
type Handler struct {
	publicKey  string
	store      interfaces.SubscriptionStore
	dispatcher Dispatcher
	metrics    *metrics.PushMetrics
	log        *slog.Logger
}

// NewHandler creates a new HTTP request handler with the specified dependencies.
//
// Parameters:
//   - keys: VAPID key pair; only the public half is exposed
//   - store: Subscription store shared with the dispatcher
//   - dispatcher: Starts deliveries for the trigger endpoint
//   - pushMetrics: Optional metrics, may be nil
//   - log: Structured logger for operational insights
func NewHandler(keys interfaces.VAPIDKeys, store interfaces.SubscriptionStore, dispatcher Dispatcher, pushMetrics *metrics.PushMetrics, log *slog.Logger) *Handler {
	return &Handler{
		publicKey:  keys.PublicKey,
		store:      store,
		dispatcher: dispatcher,
		metrics:    pushMetrics,
		log:        log,
	}
}

// HandleVAPIDPublicKey returns the application server public key that browsers
// pass as applicationServerKey when subscribing.
//
// URL format: GET /vapidPublicKey
//
// Response: the base64url encoded public key as plain text
func (h *Handler) HandleVAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.publicKey))
}

// HandleRegister stores a subscription. Registering an endpoint that is already
// stored is a no-op and still succeeds.
//
// URL format: POST /register
//
// Request body: {"subscription": {"endpoint": "...", "keys": {...}}}
//
// Response: 201 with an empty body, 400 if the subscription has no endpoint
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	sub, reqErr := decodeSubscription(w, r)
	if reqErr != nil {
		h.log.Debug("Rejected register request", "err", reqErr)
		http.Error(w, reqErr.Error(), reqErr.StatusCode)
		return
	}

	if h.store.Put(sub) {
		h.metrics.ObserveSubscriptionChange(metrics.OpRegister)
		h.log.Info("Subscription registered", "endpoint", sub.Endpoint)
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleUnregister removes a subscription. Unknown endpoints are ignored.
//
// URL format: POST /unregister
//
// Request body: {"subscription": {"endpoint": "...", ...}}
//
// Response: 201 with an empty body, 400 if the subscription has no endpoint
func (h *Handler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	sub, reqErr := decodeSubscription(w, r)
	if reqErr != nil {
		h.log.Debug("Rejected unregister request", "err", reqErr)
		http.Error(w, reqErr.Error(), reqErr.StatusCode)
		return
	}

	if h.store.Remove(sub.Endpoint) {
		h.metrics.ObserveSubscriptionChange(metrics.OpUnregister)
		h.log.Info("Subscription unregistered", "endpoint", sub.Endpoint)
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleNumSubscriptions reports how many subscriptions are stored.
//
// URL format: GET /num-subscriptions
//
// Response: {"result": <count>}
func (h *Handler) HandleNumSubscriptions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, api.CountResponse{Result: h.store.Count()})
}

// HandleTriggerNotification sends a notification to every stored subscription.
// The response is written as soon as deliveries have been started; rejected
// subscriptions are removed in the background.
//
// URL format: POST /trigger-notification
//
// Response: {"result": "Notification sent"} or
// {"result": "There are no active subscriptions"}
func (h *Handler) HandleTriggerNotification(w http.ResponseWriter, r *http.Request) {
	dispatched := h.dispatcher.NotifyAll()
	if dispatched == 0 {
		h.writeJSON(w, api.TriggerResponse{Result: api.ResultNoSubscriptions})
		return
	}

	h.log.Info("Notification triggered", "subscriptions", dispatched)
	h.writeJSON(w, api.TriggerResponse{Result: api.ResultNotificationSent})
}

func (h *Handler) writeJSON(w http.ResponseWriter, response any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}

// decodeSubscription reads a SubscriptionRequest and validates the embedded
// subscription before anything touches the store.
func decodeSubscription(w http.ResponseWriter, r *http.Request) (interfaces.Subscription, *RequestError) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req api.SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return interfaces.Subscription{}, &RequestError{
				StatusCode: http.StatusRequestEntityTooLarge,
				Err:        fmt.Errorf("request body exceeds %d bytes", maxBodySize),
			}
		}
		return interfaces.Subscription{}, &RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid request body: %w", err),
		}
	}

	sub, err := interfaces.NewSubscription(req.Subscription)
	if err != nil {
		return interfaces.Subscription{}, &RequestError{StatusCode: http.StatusBadRequest, Err: err}
	}

	return sub, nil
}
