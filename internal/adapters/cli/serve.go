package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	healthhandler "tfi/obras-sociales-api/internal/adapters/http/health"
	obrasocialhandler "tfi/obras-sociales-api/internal/adapters/http/obrasocial"
	apphealth "tfi/obras-sociales-api/internal/application/health"
	"tfi/obras-sociales-api/internal/infrastructure/http/server"
	"tfi/obras-sociales-api/internal/infrastructure/telemetry"
)

func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, version)
		},
	}
}

func serve(ctx context.Context, version string) error {
	rt, err := openRuntime(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer rt.Close()

	if version == "" {
		version = rt.cfg.App.Version
	}

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Settings{
		Enabled:     rt.cfg.Telemetry.Enabled,
		Endpoint:    rt.cfg.Telemetry.Endpoint,
		ServiceName: rt.cfg.App.Name,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			rt.log.Warn("Failed to flush traces", "error", err)
		}
	}()

	healthService := apphealth.NewService(apphealth.Metadata{
		Service:     rt.cfg.App.Name,
		Version:     version,
		Environment: rt.cfg.App.Environment,
	}, map[string]apphealth.Pinger{"database": rt.db})

	srv, err := server.New(server.Options{
		Config:         rt.cfg,
		Logger:         rt.log,
		HealthHandler:  http.HandlerFunc(healthhandler.NewHandler(healthService).Status),
		ObrasSociales:  obrasocialhandler.NewHandler(rt.service, rt.log, version),
		MetricsHandler: rt.metrics.Handler(),
		HTTPObserver:   rt.metrics,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	rt.log.Info("Starting API de Obras Sociales",
		"version", version,
		"environment", rt.cfg.App.Environment,
		"port", rt.cfg.HTTP.Port,
	)

	return srv.Run(ctx)
}
