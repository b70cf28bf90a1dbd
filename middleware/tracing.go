package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wael7705/khawam-pro-sub000/order"
)

// instrumentationName is the scope name for orderflow tracing and metrics.
const instrumentationName = "github.com/wael7705/khawam-pro-sub000"

// Tracing returns middleware that wraps submission in an OpenTelemetry
// span from the global TracerProvider.
//
// Span attributes: orderflow.wizard.id, orderflow.service,
// orderflow.items, orderflow.attachments.
func Tracing() Middleware {
	return TracingWithTracer(otel.Tracer(instrumentationName))
}

// TracingWithTracer returns tracing middleware using the provided tracer.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, s *order.Submission, next Handler) error {
		ctx, span := tracer.Start(ctx, "orderflow.order.submit",
			trace.WithAttributes(
				attribute.String("orderflow.wizard.id", s.WizardID.String()),
				attribute.String("orderflow.service", serviceOf(s)),
				attribute.Int("orderflow.items", len(s.Items)),
				attribute.Int("orderflow.attachments", s.AttachmentCount()),
			),
			trace.WithSpanKind(trace.SpanKindClient),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}
