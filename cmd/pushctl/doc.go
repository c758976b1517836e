// Package main (cmd/pushctl) is a command-line client for the push notification server.
//
// Commands:
//
//	public-key           - Print the server's VAPID public key
//	count                - Print the number of stored subscriptions
//	trigger              - Send a notification to every stored subscription
//	register             - Store a subscription (--subscription or --subscription-file)
//	unregister           - Remove a subscription
//	generate-vapid-keys  - Generate a VAPID key pair, as JSON or with --env as env assignments
//
// The server address is taken from --server-addr or PUSH_SERVER_ADDR.
//
// Example:
//
//	pushctl generate-vapid-keys --env > vapid.env
//	pushctl --server-addr=http://localhost:3003 register --subscription-file=sub.json
//	pushctl trigger
package main
