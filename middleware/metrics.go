package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wael7705/khawam-pro-sub000/order"
)

// Metrics returns middleware that records submission metrics using the
// global MeterProvider.
//
// Instruments:
//   - orderflow.order.duration (Float64Histogram): submission time in
//     seconds, by service and status ("ok" or "error")
//   - orderflow.order.submissions (Int64Counter): submissions, by service
//     and status
//   - orderflow.order.attachments (Int64Counter): attachments sent, by
//     service
func Metrics() Middleware {
	return MetricsWithMeter(otel.Meter(instrumentationName))
}

// MetricsWithMeter returns metrics middleware using the provided meter.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// On error the OTel API returns noop instruments.
	duration, _ := meter.Float64Histogram(
		"orderflow.order.duration",
		metric.WithDescription("Duration of order submission in seconds"),
		metric.WithUnit("s"),
	)
	submissions, _ := meter.Int64Counter(
		"orderflow.order.submissions",
		metric.WithDescription("Total number of order submissions"),
		metric.WithUnit("{submission}"),
	)
	attachments, _ := meter.Int64Counter(
		"orderflow.order.attachments",
		metric.WithDescription("Total number of design files sent"),
		metric.WithUnit("{file}"),
	)

	return func(ctx context.Context, s *order.Submission, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}
		svc := attribute.String("service", serviceOf(s))
		attrs := metric.WithAttributes(svc, attribute.String("status", status))

		duration.Record(ctx, elapsed, attrs)
		submissions.Add(ctx, 1, attrs)
		if err == nil {
			attachments.Add(ctx, int64(s.AttachmentCount()), metric.WithAttributes(svc))
		}
		return err
	}
}
