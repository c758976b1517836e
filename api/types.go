package api

import "encoding/json"

// HTTP paths served by the push notification server.
const (
	PathVAPIDPublicKey      = "/vapidPublicKey"
	PathRegister            = "/register"
	PathUnregister          = "/unregister"
	PathNumSubscriptions    = "/num-subscriptions"
	PathTriggerNotification = "/trigger-notification"
)

// Result strings returned by the trigger endpoint.
const (
	ResultNotificationSent = "Notification sent"
	ResultNoSubscriptions  = "There are no active subscriptions"
)

// SubscriptionRequest is the body of register and unregister requests.
// Subscription is the PushSubscription JSON produced by the browser and is
// stored verbatim.
type SubscriptionRequest struct {
	Subscription json.RawMessage `json:"subscription"`
}

// CountResponse is returned by the num-subscriptions endpoint.
type CountResponse struct {
	Result int `json:"result"`
}

// TriggerResponse is returned by the trigger-notification endpoint.
type TriggerResponse struct {
	Result string `json:"result"`
}
