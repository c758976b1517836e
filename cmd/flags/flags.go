package flags

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/push-notification-server/api"
	"github.com/ruteri/push-notification-server/common"
	"github.com/ruteri/push-notification-server/gateway"
	"github.com/ruteri/push-notification-server/interfaces"
	"github.com/ruteri/push-notification-server/kms"
	"github.com/ruteri/push-notification-server/metrics"
	"github.com/urfave/cli/v2"
)

const (
	KeySourceEnv   = "env"
	KeySourceVault = "vault"
	KeySourceAWS   = "aws"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String(LogServiceFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// ListenAddr returns --listen-addr if set, otherwise all interfaces on --port.
func ListenAddr(cCtx *cli.Context) string {
	if addr := cCtx.String(ListenAddrFlag.Name); addr != "" {
		return addr
	}
	return fmt.Sprintf(":%d", cCtx.Int(PortFlag.Name))
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger, metricsSrv *metrics.MetricsServer) *api.HTTPServerConfig {
	return &api.HTTPServerConfig{
		ListenAddr:               ListenAddr(cCtx),
		Metrics:                  metricsSrv,
		MetricsAddr:              cCtx.String(MetricsAddrFlag.Name),
		Log:                      logger,
		EnablePprof:              cCtx.Bool(PprofFlag.Name),
		PublicDir:                cCtx.String(PublicDirFlag.Name),
		ForceSSL:                 cCtx.Bool(ForceSSLFlag.Name),
		CORSOrigins:              cCtx.StringSlice(CORSOriginsFlag.Name),
		DrainDuration:            time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

// KeySource builds the VAPID key source selected by --key-source.
func KeySource(cCtx *cli.Context) (interfaces.KeySource, error) {
	switch source := cCtx.String(KeySourceFlag.Name); source {
	case KeySourceEnv:
		return kms.NewEnvSource(), nil
	case KeySourceVault:
		return kms.NewVaultSource(
			cCtx.String(VaultAddrFlag.Name),
			cCtx.String(VaultTokenFlag.Name),
			cCtx.String(VaultMountFlag.Name),
			cCtx.String(VaultPathFlag.Name),
		)
	case KeySourceAWS:
		return kms.NewAWSSecretsManagerSource(
			cCtx.String(AWSSecretIDFlag.Name),
			cCtx.String(AWSRegionFlag.Name),
			cCtx.String(AWSEndpointFlag.Name),
			"", "",
		)
	default:
		return nil, fmt.Errorf("invalid key-source: %s", source)
	}
}

func ConfigureGateway(cCtx *cli.Context, keys interfaces.VAPIDKeys) *gateway.Config {
	return &gateway.Config{
		Keys:    keys,
		Subject: cCtx.String(VAPIDSubjectFlag.Name),
		TTL:     cCtx.Int(PushTTLFlag.Name),
		Urgency: cCtx.String(PushUrgencyFlag.Name),
		Payload: []byte(cCtx.String(PushPayloadFlag.Name)),
		Timeout: cCtx.Duration(PushTimeoutFlag.Name),
	}
}

var PortFlag = &cli.IntFlag{
	Name:    "port",
	Value:   3003,
	EnvVars: []string{"PORT"},
	Usage:   "port to listen on for the push API",
}
var ListenAddrFlag = &cli.StringFlag{
	Name:  "listen-addr",
	Usage: "address to listen on for the push API, overrides --port",
}
var PublicDirFlag = &cli.StringFlag{
	Name:  "public-dir",
	Value: "public",
	Usage: "directory of static files served at the root path, empty to disable",
}
var ForceSSLFlag = &cli.BoolFlag{
	Name:  "force-ssl",
	Value: true,
	Usage: "redirect non-localhost plain HTTP requests to https and set HSTS",
}
var CORSOriginsFlag = &cli.StringSliceFlag{
	Name:  "cors-origins",
	Usage: "origins allowed to call the push API cross-origin",
}

var VAPIDSubjectFlag = &cli.StringFlag{
	Name:  "vapid-subject",
	Value: gateway.DefaultSubject,
	Usage: "contact URI (https: or mailto:) sent to push services",
}
var KeySourceFlag = &cli.StringFlag{
	Name:  "key-source",
	Value: KeySourceEnv,
	Usage: "where to read VAPID keys from: 'env' (VAPID_PUBLIC_KEY/VAPID_PRIVATE_KEY), 'vault' or 'aws'",
}
var VaultAddrFlag = &cli.StringFlag{
	Name:    "vault-addr",
	EnvVars: []string{"VAULT_ADDR"},
	Usage:   "Vault server address (key-source=vault)",
}
var VaultTokenFlag = &cli.StringFlag{
	Name:    "vault-token",
	EnvVars: []string{"VAULT_TOKEN"},
	Usage:   "Vault token (key-source=vault)",
}
var VaultMountFlag = &cli.StringFlag{
	Name:  "vault-mount",
	Value: "secret",
	Usage: "Vault KV v2 mount (key-source=vault)",
}
var VaultPathFlag = &cli.StringFlag{
	Name:  "vault-path",
	Value: "push-server/vapid",
	Usage: "Vault secret path holding public_key and private_key (key-source=vault)",
}
var AWSRegionFlag = &cli.StringFlag{
	Name:    "aws-region",
	EnvVars: []string{"AWS_REGION"},
	Value:   "us-east-1",
	Usage:   "AWS region (key-source=aws)",
}
var AWSSecretIDFlag = &cli.StringFlag{
	Name:  "aws-secret-id",
	Value: "push-server/vapid",
	Usage: "Secrets Manager secret holding {\"public_key\",\"private_key\"} (key-source=aws)",
}
var AWSEndpointFlag = &cli.StringFlag{
	Name:  "aws-endpoint",
	Usage: "Secrets Manager endpoint override, e.g. for LocalStack (key-source=aws)",
}

var PushTTLFlag = &cli.IntFlag{
	Name:  "push-ttl",
	Value: gateway.DefaultTTL,
	Usage: "seconds the push service keeps an undelivered notification",
}
var PushUrgencyFlag = &cli.StringFlag{
	Name:  "push-urgency",
	Usage: "notification urgency: very-low, low, normal or high",
}
var PushPayloadFlag = &cli.StringFlag{
	Name:  "push-payload",
	Usage: "payload sent with every notification, empty for none",
}
var PushTimeoutFlag = &cli.DurationFlag{
	Name:  "push-timeout",
	Value: 30 * time.Second,
	Usage: "timeout for a single request to a push service",
}

var ServerAddrFlag = &cli.StringFlag{
	Name:    "server-addr",
	Value:   "http://localhost:3003",
	EnvVars: []string{"PUSH_SERVER_ADDR"},
	Usage:   "push notification server to call",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: "push-server",
	Usage: "add 'service' tag to logs",
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics, empty to disable",
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
}

var ServerFlags = []cli.Flag{
	PortFlag,
	ListenAddrFlag,
	PublicDirFlag,
	ForceSSLFlag,
	CORSOriginsFlag,
}

var KeyFlags = []cli.Flag{
	VAPIDSubjectFlag,
	KeySourceFlag,
	VaultAddrFlag,
	VaultTokenFlag,
	VaultMountFlag,
	VaultPathFlag,
	AWSRegionFlag,
	AWSSecretIDFlag,
	AWSEndpointFlag,
}

var PushFlags = []cli.Flag{
	PushTTLFlag,
	PushUrgencyFlag,
	PushPayloadFlag,
	PushTimeoutFlag,
}
