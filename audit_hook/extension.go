package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wael7705/khawam-pro-sub000/ext"
	"github.com/wael7705/khawam-pro-sub000/order"
	"github.com/wael7705/khawam-pro-sub000/resume"
	"github.com/wael7705/khawam-pro-sub000/schema"
)

// Compile-time interface checks.
var (
	_ ext.Extension        = (*Extension)(nil)
	_ ext.WizardOpened     = (*Extension)(nil)
	_ ext.WizardResumed    = (*Extension)(nil)
	_ ext.WizardClosed     = (*Extension)(nil)
	_ ext.StepAdvanced     = (*Extension)(nil)
	_ ext.StepRetreated    = (*Extension)(nil)
	_ ext.ValidationFailed = (*Extension)(nil)
	_ ext.SchemaFallback   = (*Extension)(nil)
	_ ext.CachePurged      = (*Extension)(nil)
	_ ext.OrderSubmitted   = (*Extension)(nil)
	_ ext.SubmissionFailed = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	// Record persists a fully-formed audit event.
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is one audit record.
type AuditEvent struct {
	// What happened
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Category string `json:"category"`

	// Details
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Severity constants.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Outcome constants.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Extension bridges wizard lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements ext.Extension.
func (e *Extension) Name() string { return "audit-hook" }

// ── Wizard lifecycle hooks ──────────────────────────

// OnWizardOpened implements ext.WizardOpened.
func (e *Extension) OnWizardOpened(ctx context.Context, w ext.Wizard) error {
	return e.record(ctx, ActionWizardOpened, SeverityInfo, OutcomeSuccess,
		ResourceWizard, w.ID.String(), CategoryWizard, nil,
		"service", w.Service.Key(),
		"steps", w.Steps,
	)
}

// OnWizardResumed implements ext.WizardResumed.
func (e *Extension) OnWizardResumed(ctx context.Context, w ext.Wizard, savedAt time.Time) error {
	return e.record(ctx, ActionWizardResumed, SeverityInfo, OutcomeSuccess,
		ResourceWizard, w.ID.String(), CategoryWizard, nil,
		"service", w.Service.Key(),
		"step", w.Step,
		"saved_at", savedAt.Format(time.RFC3339),
	)
}

// OnWizardClosed implements ext.WizardClosed.
func (e *Extension) OnWizardClosed(ctx context.Context, w ext.Wizard, submitted bool) error {
	return e.record(ctx, ActionWizardClosed, SeverityInfo, OutcomeSuccess,
		ResourceWizard, w.ID.String(), CategoryWizard, nil,
		"service", w.Service.Key(),
		"step", w.Step,
		"submitted", submitted,
	)
}

// OnStepAdvanced implements ext.StepAdvanced.
func (e *Extension) OnStepAdvanced(ctx context.Context, w ext.Wizard, from int) error {
	return e.record(ctx, ActionStepAdvanced, SeverityInfo, OutcomeSuccess,
		ResourceWizard, w.ID.String(), CategoryWizard, nil,
		"service", w.Service.Key(),
		"from", from,
		"to", w.Step,
	)
}

// OnStepRetreated implements ext.StepRetreated.
func (e *Extension) OnStepRetreated(ctx context.Context, w ext.Wizard, from int) error {
	return e.record(ctx, ActionStepRetreated, SeverityInfo, OutcomeSuccess,
		ResourceWizard, w.ID.String(), CategoryWizard, nil,
		"service", w.Service.Key(),
		"from", from,
		"to", w.Step,
	)
}

// OnValidationFailed implements ext.ValidationFailed.
func (e *Extension) OnValidationFailed(ctx context.Context, w ext.Wizard, verr error) error {
	return e.record(ctx, ActionValidationFailed, SeverityWarning, OutcomeFailure,
		ResourceWizard, w.ID.String(), CategoryWizard, verr,
		"service", w.Service.Key(),
		"step", w.Step,
	)
}

// ── Schema and cache hooks ──────────────────────────

// OnSchemaFallback implements ext.SchemaFallback.
func (e *Extension) OnSchemaFallback(ctx context.Context, svc schema.Service, origin schema.Origin, cause error) error {
	return e.record(ctx, ActionSchemaFallback, SeverityWarning, OutcomeFailure,
		ResourceService, svc.Key(), CategorySchema, cause,
		"service_id", svc.ID,
		"origin", string(origin),
	)
}

// OnCachePurged implements ext.CachePurged.
func (e *Extension) OnCachePurged(ctx context.Context, service string, reason error) error {
	return e.record(ctx, ActionCachePurged, SeverityWarning, OutcomeSuccess,
		ResourceCache, resume.EntryKey(service), CategoryCache, reason,
		"service", service,
	)
}

// ── Submission hooks ────────────────────────────────

// OnOrderSubmitted implements ext.OrderSubmitted.
func (e *Extension) OnOrderSubmitted(ctx context.Context, w ext.Wizard, res *order.Result, elapsed time.Duration) error {
	var placed order.Placed
	if res != nil {
		placed = res.Order
	}
	return e.record(ctx, ActionOrderSubmitted, SeverityInfo, OutcomeSuccess,
		ResourceWizard, w.ID.String(), CategoryOrder, nil,
		"service", w.Service.Key(),
		"order_id", placed.ID,
		"order_number", placed.OrderNumber,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// OnSubmissionFailed implements ext.SubmissionFailed.
func (e *Extension) OnSubmissionFailed(ctx context.Context, w ext.Wizard, subErr error) error {
	return e.record(ctx, ActionSubmissionFailed, SeverityCritical, OutcomeFailure,
		ResourceWizard, w.ID.String(), CategoryOrder, subErr,
		"service", w.Service.Key(),
		"step", w.Step,
	)
}

// record builds and sends an audit event if the action is enabled.
// Recorder failures are logged and never returned.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			slog.String("action", action),
			slog.String("resource_id", resourceID),
			slog.String("error", recErr.Error()),
		)
	}
	return nil
}
