package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ruteri/push-notification-server/cmd/flags"
	"github.com/ruteri/push-notification-server/common"
	"github.com/ruteri/push-notification-server/gateway"
	"github.com/ruteri/push-notification-server/httpserver"
	"github.com/ruteri/push-notification-server/kms"
	"github.com/ruteri/push-notification-server/metrics"
	"github.com/ruteri/push-notification-server/notifications"
	"github.com/ruteri/push-notification-server/storage"
	"github.com/urfave/cli/v2"
)

var serverFlags []cli.Flag = concat(flags.CommonFlags, flags.ServerFlags, flags.KeyFlags, flags.PushFlags)

func concat(groups ...[]cli.Flag) []cli.Flag {
	var all []cli.Flag
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

func main() {
	app := &cli.App{
		Name:    "push-server",
		Usage:   "Register web push subscriptions and fan notifications out to them",
		Version: common.Version,
		Flags:   serverFlags,
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			keySource, err := flags.KeySource(cCtx)
			if err != nil {
				logger.Error("Failed to create VAPID key source", "err", err)
				return err
			}

			loadCtx, cancel := context.WithTimeout(cCtx.Context, 30*time.Second)
			keys, err := kms.LoadVAPIDKeys(loadCtx, keySource, logger)
			cancel()
			if err != nil {
				if !errors.Is(err, kms.ErrMissingVAPIDKeys) {
					logger.Error("Failed to load VAPID keys", "source", keySource.Name(), "err", err)
				}
				return err
			}

			pushGateway, err := gateway.New(flags.ConfigureGateway(cCtx, keys))
			if err != nil {
				logger.Error("Failed to create push gateway", "err", err)
				return err
			}

			store := storage.NewMemoryStore()

			var metricsSrv *metrics.MetricsServer
			var pushMetrics *metrics.PushMetrics
			if metricsAddr := cCtx.String(flags.MetricsAddrFlag.Name); metricsAddr != "" {
				metricsSrv, err = metrics.New(common.PackageName, metricsAddr)
				if err != nil {
					logger.Error("Failed to create metrics server", "err", err)
					return err
				}
				pushMetrics = metrics.NewPushMetrics(metricsSrv.Registry(), metricsSrv.Namespace())
				metrics.RegisterSubscriptionGauge(metricsSrv.Registry(), metricsSrv.Namespace(), store.Count)
			}

			notifier := notifications.NewNotifier(store, pushGateway, pushMetrics, logger)
			handler := httpserver.NewHandler(keys, store, notifier, pushMetrics, logger)

			cfg := flags.ConfigureServer(cCtx, logger, metricsSrv)
			server, err := httpserver.New(cfg, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting server", "keySource", keySource.Name(), "forceSSL", cfg.ForceSSL)
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()

			ctx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownDuration)
			defer cancel()
			if err := notifier.Shutdown(ctx); err != nil {
				logger.Warn("In-flight notifications abandoned", "err", err)
			}
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
