/*
Package clients provides a Go client for the push notification server API.

PushClient wraps the HTTP surface one method per endpoint:

  - VAPIDPublicKey - Fetch the application server public key
  - Register - Store a browser subscription
  - Unregister - Remove a subscription
  - NumSubscriptions - Count stored subscriptions
  - TriggerNotification - Send a notification to every stored subscription

Subscriptions are passed as raw JSON, exactly as PushSubscription.toJSON()
produces them in the browser.

# Example Usage

	client := clients.NewPushClient("https://push.example.com")
	if err := client.Register(subscriptionJSON); err != nil {
		log.Fatal(err)
	}
	result, err := client.TriggerNotification()
*/
package clients
