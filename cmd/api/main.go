// Package main is the entry point for the walkwatch API server.
//
// It loads configuration, connects the Postgres-backed key-value store,
// builds the external clients (weather, SMS, habit tracker), assembles the
// reminder decision engine, and serves the HTTP surface on the configured
// port. Graceful shutdown is handled via OS signal interception (SIGINT,
// SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/go-chi/chi/v5"

	"walkwatch/internal/api/handlers"
	"walkwatch/internal/config"
	"walkwatch/internal/core"
	"walkwatch/internal/external"
	"walkwatch/internal/habits"
	"walkwatch/internal/reminder"
	"walkwatch/internal/store"
	"walkwatch/internal/telemetry"
	"walkwatch/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("walkwatch API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer startupCancel()

	pool, err := store.NewPool(startupCtx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	defer pool.Close()

	// Timezone load was validated by LoadConfig; this cannot fail here.
	loc, err := time.LoadLocation(cfg.Reminder.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	clock := types.RealClock{}
	kv := store.NewKVRepository(pool)
	window := reminder.NewWindow(loc, cfg.Reminder.WindowStartHour, cfg.Reminder.WindowEndHour, clock)
	limiter := reminder.NewDailyLimiter(kv, window, logger)
	throttle := reminder.NewCallerThrottle(kv, int64(cfg.Webhook.ThrottleWindow.Seconds()), clock, logger)

	metrics := newMetrics(startupCtx, cfg, logger)

	weatherClient := external.NewOpenWeatherClient(cfg.Weather, logger)
	smsClient := external.NewTwilioClient(cfg.SMS, logger)
	habitClient := external.NewBeeminderClient(cfg.Habits, logger)
	habitService := habits.NewService(habitClient, clock, logger)

	engine := &reminder.Engine{
		Window:    window,
		Limiter:   limiter,
		Habits:    habitService,
		Weather:   weatherClient,
		SMS:       smsClient,
		Composer:  reminder.NewComposer(cfg.Reminder.DogNames, clock),
		Metrics:   metrics,
		GoalSlug:  cfg.Habits.GoalSlug,
		Latitude:  cfg.Weather.Latitude,
		Longitude: cfg.Weather.Longitude,
		Logger:    logger,
	}

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.DB = pool
	srv.Throttle = throttle
	srv.Metrics = metrics

	checkHandler := handlers.NewCheckHandler(engine, cfg.Reminder.DogNames, logger)
	statusHandler := handlers.NewStatusHandler(cfg.Service, window, limiter, cfg.Reminder.DogNames, logger)
	srv.RouteRegistrars = append(srv.RouteRegistrars,
		func(r chi.Router) { checkHandler.Routes(r) },
		func(r chi.Router) { statusHandler.Routes(r) },
	)
	srv.MountRoutes()

	addr := ":" + cfg.Server.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newMetrics builds the CloudWatch collector, degrading to a no-op when AWS
// credentials or region resolution are unavailable (local development).
func newMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) telemetry.Collector {
	if cfg.Environment == "local" {
		return telemetry.NoopCollector{}
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		logger.Warn("AWS config load failed, metrics disabled", "error", err)
		return telemetry.NoopCollector{}
	}
	return telemetry.NewCloudWatchCollector(cloudwatch.NewFromConfig(awsCfg), cfg.AWS.MetricNamespace, logger)
}

// newLogger creates a structured JSON slog.Logger at the given level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
