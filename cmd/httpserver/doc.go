// Package main (cmd/httpserver) runs the push notification server.
//
// The server hands out its VAPID public key, keeps browser push subscriptions
// in memory and, when triggered, sends a notification to every stored
// subscription. Subscriptions the push service rejects are dropped.
//
// VAPID keys are read from VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY by default,
// or from Vault (--key-source=vault) or AWS Secrets Manager (--key-source=aws).
// If either key is missing the server logs a freshly generated pair to use
// and exits without serving.
//
// Example usage:
//
//	VAPID_PUBLIC_KEY=... VAPID_PRIVATE_KEY=... push-server \
//	    --port=3003 \
//	    --public-dir=./public \
//	    --vapid-subject=mailto:ops@example.com
//
// Behind a TLS-terminating proxy the server redirects plain HTTP requests for
// non-localhost hosts to https; pass --force-ssl=false to disable this.
package main
