/*
Package httpserver implements the HTTP surface of the push notification server.

# Push API Endpoints

  - GET /vapidPublicKey - VAPID public key as text/plain
  - POST /register - Store {"subscription": {...}}, responds 201
  - POST /unregister - Remove {"subscription": {...}}, responds 201
  - GET /num-subscriptions - {"result": <count>}
  - POST /trigger-notification - Start a notification to every subscription
  - GET /* - Static files from the configured public directory

Register and unregister respond 400 when the body is not JSON, the subscription
is not an object or its endpoint is missing. Bodies over 1 MiB get 413.
Trigger-notification never waits for deliveries to finish.

# Health Endpoints

  - GET /livez - Liveness check
  - GET /readyz - Readiness check
  - GET /drain - Mark server as not ready
  - GET /undrain - Mark server as ready

Health endpoints are never redirected by ForceSSL, so probes work over plain HTTP.

# Example Usage

	handler := httpserver.NewHandler(keys, store, notifier, pushMetrics, logger)

	server, err := httpserver.New(&api.HTTPServerConfig{
		ListenAddr:               ":3003",
		PublicDir:                "public",
		ForceSSL:                 true,
		Log:                      logger,
		DrainDuration:            45 * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
	}, handler)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	server.RunInBackground()
	defer server.Shutdown()
*/
package httpserver
