package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/sobject-gateway/internal/api"
	"github.com/stacklok/sobject-gateway/internal/config"
	"github.com/stacklok/sobject-gateway/internal/filtering"
	"github.com/stacklok/sobject-gateway/internal/gateway"
	"github.com/stacklok/sobject-gateway/internal/sobjectapi"
	"github.com/stacklok/sobject-gateway/internal/telemetry"
)

const (
	defaultGracefulTimeout = 30 * time.Second
	serverRequestTimeout   = 30 * time.Second // describe-all fans out to the upstream API
	serverReadTimeout      = 10 * time.Second
	serverWriteTimeout     = 35 * time.Second // Must be > serverRequestTimeout to let middleware handle timeout
	serverIdleTimeout      = 60 * time.Second
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway API server",
		Long: `Start the gateway API server.

The server requires a configuration file (--config) that specifies the remote
API instance and, optionally, the blacklist and whitelist to apply. The file is
watched and filter changes take effect without a restart.`,
		RunE: runServe,
	}

	cmd.Flags().String("address", ":8080", "Address to listen on")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	v, err := bindFlags(cmd, "address", "config")
	if err != nil {
		return err
	}
	address := v.GetString("address")
	configPath := v.GetString("config")
	if configPath == "" {
		return errors.New("--config is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := filtering.NewStore()

	// metrics is nil during the initial load; GatewayMetrics methods are nil-safe
	var metrics *telemetry.GatewayMetrics
	manager, err := config.NewManager(configPath, config.WithReloadHook(func(cfg *config.Config) {
		store.SetConfiguration(cfg.Filter)
		metrics.RecordPolicyReload(ctx, string(store.Policy().Kind()))
	}))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	defer func() {
		if err := manager.Close(); err != nil {
			slog.Error("Failed to close config manager", "error", err)
		}
	}()

	cfg := manager.GetConfig()
	if cfg.API == nil {
		return errors.New("configuration has no api section")
	}
	slog.Info("Loaded configuration", "path", configPath, "instance", cfg.API.InstanceURL, "policy", store.Policy().Kind())

	tel, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown telemetry", "error", err)
		}
	}()

	metrics, err = telemetry.NewGatewayMetrics(tel.MeterProvider())
	if err != nil {
		return fmt.Errorf("failed to create gateway metrics: %w", err)
	}

	client, err := sobjectapi.NewFromConfig(cfg.API)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	svc := gateway.New(client, store,
		gateway.WithTracer(tel.Tracer(gateway.TracerName)),
		gateway.WithMetrics(metrics),
	)

	httpMetrics, err := telemetry.MetricsMiddleware(tel.MeterProvider())
	if err != nil {
		return fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	router := api.NewServer(svc,
		api.WithMiddlewares(
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			telemetry.TracingMiddleware(tel.TracerProvider()),
			httpMetrics,
			middleware.Timeout(serverRequestTimeout),
			api.LoggingMiddleware,
		),
		api.WithReadinessCheck(func(ctx context.Context) error {
			_, err := client.APIVersion(ctx)
			return err
		}),
		api.WithMetricsHandler(tel.MetricsHandler()),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := manager.WatchConfig(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("config watcher failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("Server listening", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Server shutdown complete")
	return nil
}
