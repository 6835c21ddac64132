package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// CloudWatchAPI abstracts the PutMetricData operation for testability.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Collector publishes operational metrics. Implementations never fail the
// caller: metric delivery problems are logged and dropped.
type Collector interface {
	RecordRequest(ctx context.Context, route string, status int, duration time.Duration)
	RecordDecision(ctx context.Context, outcome string)
}

// CloudWatchCollector emits metrics to AWS CloudWatch.
//
// Metrics emitted:
//   - RequestCount: Dims {Route, Status} -- on every HTTP request
//   - RequestLatency: Dims {Route} -- request duration in milliseconds
//   - ReminderDecision: Dims {Outcome} -- on every pipeline run
type CloudWatchCollector struct {
	client    CloudWatchAPI
	namespace string
	logger    *slog.Logger
}

var _ Collector = (*CloudWatchCollector)(nil)

func NewCloudWatchCollector(client CloudWatchAPI, namespace string, logger *slog.Logger) *CloudWatchCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudWatchCollector{client: client, namespace: namespace, logger: logger}
}

// RecordRequest emits a count and a latency datum for one HTTP request.
func (c *CloudWatchCollector) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String("RequestCount"),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("Route"), Value: aws.String(route)},
					{Name: aws.String("Status"), Value: aws.String(statusClass(status))},
				},
			},
			{
				MetricName: aws.String("RequestLatency"),
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       cwtypes.StandardUnitMilliseconds,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("Route"), Value: aws.String(route)},
				},
			},
		},
	}

	if _, err := c.client.PutMetricData(ctx, input); err != nil {
		c.logger.WarnContext(ctx, "failed to record request metric",
			"error", err, "route", route, "status", status)
	}
}

// RecordDecision emits one datum per pipeline run tagged with its terminal
// outcome: sent, skipped, or failed.
func (c *CloudWatchCollector) RecordDecision(ctx context.Context, outcome string) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String("ReminderDecision"),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("Outcome"), Value: aws.String(outcome)},
				},
			},
		},
	}

	if _, err := c.client.PutMetricData(ctx, input); err != nil {
		c.logger.WarnContext(ctx, "failed to record decision metric",
			"error", err, "outcome", outcome)
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// NoopCollector discards all metrics. Used when no AWS region is
// configured, typically in local development.
type NoopCollector struct{}

var _ Collector = NoopCollector{}

func (NoopCollector) RecordRequest(context.Context, string, int, time.Duration) {}
func (NoopCollector) RecordDecision(context.Context, string)                    {}
