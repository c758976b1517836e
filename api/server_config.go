package api

import (
	"log/slog"
	"time"

	"github.com/ruteri/push-notification-server/metrics"
)

// HTTPServerConfig contains all configuration parameters for the HTTP server.
type HTTPServerConfig struct {
	// ListenAddr is the address and port the HTTP server will listen on.
	ListenAddr string

	// Metrics is the metrics server to run alongside the API.
	// If nil, no metrics server is started.
	Metrics *metrics.MetricsServer

	// MetricsAddr is the address the metrics server listens on, for logging.
	MetricsAddr string

	// EnablePprof enables the pprof debugging API when true.
	EnablePprof bool

	// PublicDir is served at the root path. Empty disables static files.
	PublicDir string

	// ForceSSL redirects plain HTTP requests for non-localhost hosts to https
	// and sets Strict-Transport-Security.
	ForceSSL bool

	// CORSOrigins lists allowed cross-origin callers. Empty disables CORS handling.
	CORSOrigins []string

	// Log is the structured logger for server operations.
	Log *slog.Logger

	// DrainDuration is the time to wait after marking server not ready
	// before shutting down, allowing load balancers to detect the change.
	DrainDuration time.Duration

	// GracefulShutdownDuration is the maximum time to wait for in-flight
	// requests to complete during shutdown.
	GracefulShutdownDuration time.Duration

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	WriteTimeout time.Duration
}
