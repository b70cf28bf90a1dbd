package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wael7705/khawam-pro-sub000/ext"
	"github.com/wael7705/khawam-pro-sub000/order"
	"github.com/wael7705/khawam-pro-sub000/schema"
)

// Compile-time interface checks.
var (
	_ ext.Extension        = (*MetricsExtension)(nil)
	_ ext.WizardOpened     = (*MetricsExtension)(nil)
	_ ext.WizardResumed    = (*MetricsExtension)(nil)
	_ ext.WizardClosed     = (*MetricsExtension)(nil)
	_ ext.ValidationFailed = (*MetricsExtension)(nil)
	_ ext.SchemaFallback   = (*MetricsExtension)(nil)
	_ ext.CachePurged      = (*MetricsExtension)(nil)
	_ ext.OrderSubmitted   = (*MetricsExtension)(nil)
	_ ext.SubmissionFailed = (*MetricsExtension)(nil)
)

const scopeName = "github.com/wael7705/khawam-pro-sub000/observability"

// MetricsExtension records wizard lifecycle counters. Register it as an
// orderflow extension to track how many wizards open, resume, get
// abandoned, and end in an order.
type MetricsExtension struct {
	WizardOpened      metric.Int64Counter
	WizardResumed     metric.Int64Counter
	WizardAbandoned   metric.Int64Counter
	ValidationFailed  metric.Int64Counter
	SchemaFallback    metric.Int64Counter
	CachePurged       metric.Int64Counter
	OrderSubmitted    metric.Int64Counter
	SubmissionFailed  metric.Int64Counter
	SubmissionLatency metric.Float64Histogram
}

// NewMetricsExtension creates a MetricsExtension on the global
// MeterProvider.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithMeter(otel.Meter(scopeName))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the provided
// meter.
func NewMetricsExtensionWithMeter(meter metric.Meter) *MetricsExtension {
	counter := func(name, desc string) metric.Int64Counter {
		// On error the OTel API returns a noop instrument.
		c, _ := meter.Int64Counter(name, metric.WithDescription(desc))
		return c
	}
	latency, _ := meter.Float64Histogram("orderflow.order.latency",
		metric.WithDescription("Time from submit to order acceptance in seconds"),
		metric.WithUnit("s"),
	)
	return &MetricsExtension{
		WizardOpened:      counter("orderflow.wizard.opened", "Wizards opened as new sessions"),
		WizardResumed:     counter("orderflow.wizard.resumed", "Wizards restored from a snapshot"),
		WizardAbandoned:   counter("orderflow.wizard.abandoned", "Wizards closed without an order"),
		ValidationFailed:  counter("orderflow.wizard.validation_failed", "Advances blocked by validation"),
		SchemaFallback:    counter("orderflow.schema.fallback", "Workflows served from default or stale steps"),
		CachePurged:       counter("orderflow.cache.purged", "Snapshots discarded"),
		OrderSubmitted:    counter("orderflow.order.placed", "Orders accepted by the order API"),
		SubmissionFailed:  counter("orderflow.order.failed", "Order submissions that failed"),
		SubmissionLatency: latency,
	}
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

func serviceAttr(svc schema.Service) metric.AddOption {
	return metric.WithAttributes(attribute.String("service", svc.Key()))
}

// ── Wizard lifecycle hooks ──────────────────────────

// OnWizardOpened implements ext.WizardOpened.
func (m *MetricsExtension) OnWizardOpened(ctx context.Context, w ext.Wizard) error {
	m.WizardOpened.Add(ctx, 1, serviceAttr(w.Service))
	return nil
}

// OnWizardResumed implements ext.WizardResumed.
func (m *MetricsExtension) OnWizardResumed(ctx context.Context, w ext.Wizard, _ time.Time) error {
	m.WizardResumed.Add(ctx, 1, serviceAttr(w.Service))
	return nil
}

// OnWizardClosed implements ext.WizardClosed. Only closes without a
// submitted order are counted.
func (m *MetricsExtension) OnWizardClosed(ctx context.Context, w ext.Wizard, submitted bool) error {
	if !submitted {
		m.WizardAbandoned.Add(ctx, 1, serviceAttr(w.Service))
	}
	return nil
}

// OnValidationFailed implements ext.ValidationFailed.
func (m *MetricsExtension) OnValidationFailed(ctx context.Context, w ext.Wizard, _ error) error {
	m.ValidationFailed.Add(ctx, 1, serviceAttr(w.Service))
	return nil
}

// ── Schema and cache hooks ──────────────────────────

// OnSchemaFallback implements ext.SchemaFallback.
func (m *MetricsExtension) OnSchemaFallback(ctx context.Context, svc schema.Service, origin schema.Origin, _ error) error {
	m.SchemaFallback.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", svc.Key()),
		attribute.String("origin", string(origin)),
	))
	return nil
}

// OnCachePurged implements ext.CachePurged.
func (m *MetricsExtension) OnCachePurged(ctx context.Context, _ string, _ error) error {
	m.CachePurged.Add(ctx, 1)
	return nil
}

// ── Submission hooks ────────────────────────────────

// OnOrderSubmitted implements ext.OrderSubmitted.
func (m *MetricsExtension) OnOrderSubmitted(ctx context.Context, w ext.Wizard, _ *order.Result, elapsed time.Duration) error {
	m.OrderSubmitted.Add(ctx, 1, serviceAttr(w.Service))
	m.SubmissionLatency.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.String("service", w.Service.Key())))
	return nil
}

// OnSubmissionFailed implements ext.SubmissionFailed.
func (m *MetricsExtension) OnSubmissionFailed(ctx context.Context, w ext.Wizard, _ error) error {
	m.SubmissionFailed.Add(ctx, 1, serviceAttr(w.Service))
	return nil
}
