// Package main is the Lambda entry point for scheduled reminder checks.
//
// EventBridge invokes this function on an hourly cron; it runs the same
// decision pipeline the HTTP /check endpoint exposes, without the HTTP
// surface. Dependencies are wired once at cold start and reused across
// invocations.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"walkwatch/internal/config"
	"walkwatch/internal/external"
	"walkwatch/internal/habits"
	"walkwatch/internal/reminder"
	"walkwatch/internal/store"
	"walkwatch/internal/telemetry"
	"walkwatch/internal/types"
)

type checkResult struct {
	Reminded   bool   `json:"reminded"`
	SkipReason string `json:"skip_reason,omitempty"`
	Timestamp  string `json:"timestamp"`
}

func main() {
	engine, logger, err := setup(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	lambda.Start(func(ctx context.Context) (checkResult, error) {
		outcome, err := engine.Run(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "scheduled check failed", "error", err)
			return checkResult{}, err
		}
		return checkResult{
			Reminded:   outcome.Sent,
			SkipReason: outcome.SkipReason,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		}, nil
	})
}

// setup wires the decision engine from configuration at cold start.
func setup(ctx context.Context) (*reminder.Engine, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	logger.Info("walkwatch cron-trigger starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
	)

	startupCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	pool, err := store.NewPool(startupCtx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting database: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Reminder.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("loading timezone: %w", err)
	}

	var metrics telemetry.Collector = telemetry.NoopCollector{}
	if awsCfg, cfgErr := awsconfig.LoadDefaultConfig(startupCtx, awsconfig.WithRegion(cfg.AWS.Region)); cfgErr == nil {
		metrics = telemetry.NewCloudWatchCollector(cloudwatch.NewFromConfig(awsCfg), cfg.AWS.MetricNamespace, logger)
	} else {
		logger.Warn("AWS config load failed, metrics disabled", "error", cfgErr)
	}

	clock := types.RealClock{}
	kv := store.NewKVRepository(pool)
	window := reminder.NewWindow(loc, cfg.Reminder.WindowStartHour, cfg.Reminder.WindowEndHour, clock)

	engine := &reminder.Engine{
		Window:    window,
		Limiter:   reminder.NewDailyLimiter(kv, window, logger),
		Habits:    habits.NewService(external.NewBeeminderClient(cfg.Habits, logger), clock, logger),
		Weather:   external.NewOpenWeatherClient(cfg.Weather, logger),
		SMS:       external.NewTwilioClient(cfg.SMS, logger),
		Composer:  reminder.NewComposer(cfg.Reminder.DogNames, clock),
		Metrics:   metrics,
		GoalSlug:  cfg.Habits.GoalSlug,
		Latitude:  cfg.Weather.Latitude,
		Longitude: cfg.Weather.Longitude,
		Logger:    logger,
	}
	return engine, logger, nil
}
