package ext

import (
	"context"
	"log/slog"
	"time"

	"github.com/wael7705/khawam-pro-sub000/order"
	"github.com/wael7705/khawam-pro-sub000/schema"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time.
type wizardOpenedEntry struct {
	name string
	hook WizardOpened
}

type wizardResumedEntry struct {
	name string
	hook WizardResumed
}

type wizardClosedEntry struct {
	name string
	hook WizardClosed
}

type stepAdvancedEntry struct {
	name string
	hook StepAdvanced
}

type stepRetreatedEntry struct {
	name string
	hook StepRetreated
}

type validationFailedEntry struct {
	name string
	hook ValidationFailed
}

type schemaFallbackEntry struct {
	name string
	hook SchemaFallback
}

type cachePurgedEntry struct {
	name string
	hook CachePurged
}

type orderSubmittedEntry struct {
	name string
	hook OrderSubmitted
}

type submissionFailedEntry struct {
	name string
	hook SubmissionFailed
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It type-caches extensions at registration time so emit calls
// iterate only over extensions that implement the relevant hook.
//
// Register all extensions before the first wizard opens; emits are not
// synchronized with registration.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	wizardOpened     []wizardOpenedEntry
	wizardResumed    []wizardResumedEntry
	wizardClosed     []wizardClosedEntry
	stepAdvanced     []stepAdvancedEntry
	stepRetreated    []stepRetreatedEntry
	validationFailed []validationFailedEntry
	schemaFallback   []schemaFallbackEntry
	cachePurged      []cachePurgedEntry
	orderSubmitted   []orderSubmittedEntry
	submissionFailed []submissionFailedEntry
	shutdown         []shutdownEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(WizardOpened); ok {
		r.wizardOpened = append(r.wizardOpened, wizardOpenedEntry{name, h})
	}
	if h, ok := e.(WizardResumed); ok {
		r.wizardResumed = append(r.wizardResumed, wizardResumedEntry{name, h})
	}
	if h, ok := e.(WizardClosed); ok {
		r.wizardClosed = append(r.wizardClosed, wizardClosedEntry{name, h})
	}
	if h, ok := e.(StepAdvanced); ok {
		r.stepAdvanced = append(r.stepAdvanced, stepAdvancedEntry{name, h})
	}
	if h, ok := e.(StepRetreated); ok {
		r.stepRetreated = append(r.stepRetreated, stepRetreatedEntry{name, h})
	}
	if h, ok := e.(ValidationFailed); ok {
		r.validationFailed = append(r.validationFailed, validationFailedEntry{name, h})
	}
	if h, ok := e.(SchemaFallback); ok {
		r.schemaFallback = append(r.schemaFallback, schemaFallbackEntry{name, h})
	}
	if h, ok := e.(CachePurged); ok {
		r.cachePurged = append(r.cachePurged, cachePurgedEntry{name, h})
	}
	if h, ok := e.(OrderSubmitted); ok {
		r.orderSubmitted = append(r.orderSubmitted, orderSubmittedEntry{name, h})
	}
	if h, ok := e.(SubmissionFailed); ok {
		r.submissionFailed = append(r.submissionFailed, submissionFailedEntry{name, h})
	}
	if h, ok := e.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// ──────────────────────────────────────────────────
// Wizard event emitters
// ──────────────────────────────────────────────────

// EmitWizardOpened notifies all extensions that implement WizardOpened.
func (r *Registry) EmitWizardOpened(ctx context.Context, w Wizard) {
	for _, e := range r.wizardOpened {
		if err := e.hook.OnWizardOpened(ctx, w); err != nil {
			r.logHookError("OnWizardOpened", e.name, err)
		}
	}
}

// EmitWizardResumed notifies all extensions that implement WizardResumed.
func (r *Registry) EmitWizardResumed(ctx context.Context, w Wizard, savedAt time.Time) {
	for _, e := range r.wizardResumed {
		if err := e.hook.OnWizardResumed(ctx, w, savedAt); err != nil {
			r.logHookError("OnWizardResumed", e.name, err)
		}
	}
}

// EmitWizardClosed notifies all extensions that implement WizardClosed.
func (r *Registry) EmitWizardClosed(ctx context.Context, w Wizard, submitted bool) {
	for _, e := range r.wizardClosed {
		if err := e.hook.OnWizardClosed(ctx, w, submitted); err != nil {
			r.logHookError("OnWizardClosed", e.name, err)
		}
	}
}

// EmitStepAdvanced notifies all extensions that implement StepAdvanced.
func (r *Registry) EmitStepAdvanced(ctx context.Context, w Wizard, from int) {
	for _, e := range r.stepAdvanced {
		if err := e.hook.OnStepAdvanced(ctx, w, from); err != nil {
			r.logHookError("OnStepAdvanced", e.name, err)
		}
	}
}

// EmitStepRetreated notifies all extensions that implement StepRetreated.
func (r *Registry) EmitStepRetreated(ctx context.Context, w Wizard, from int) {
	for _, e := range r.stepRetreated {
		if err := e.hook.OnStepRetreated(ctx, w, from); err != nil {
			r.logHookError("OnStepRetreated", e.name, err)
		}
	}
}

// EmitValidationFailed notifies all extensions that implement ValidationFailed.
func (r *Registry) EmitValidationFailed(ctx context.Context, w Wizard, verr error) {
	for _, e := range r.validationFailed {
		if err := e.hook.OnValidationFailed(ctx, w, verr); err != nil {
			r.logHookError("OnValidationFailed", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Schema and cache event emitters
// ──────────────────────────────────────────────────

// EmitSchemaFallback notifies all extensions that implement SchemaFallback.
func (r *Registry) EmitSchemaFallback(ctx context.Context, svc schema.Service, origin schema.Origin, cause error) {
	for _, e := range r.schemaFallback {
		if err := e.hook.OnSchemaFallback(ctx, svc, origin, cause); err != nil {
			r.logHookError("OnSchemaFallback", e.name, err)
		}
	}
}

// EmitCachePurged notifies all extensions that implement CachePurged. It
// satisfies resume.Emitter.
func (r *Registry) EmitCachePurged(ctx context.Context, service string, reason error) {
	for _, e := range r.cachePurged {
		if err := e.hook.OnCachePurged(ctx, service, reason); err != nil {
			r.logHookError("OnCachePurged", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Submission event emitters
// ──────────────────────────────────────────────────

// EmitOrderSubmitted notifies all extensions that implement OrderSubmitted.
func (r *Registry) EmitOrderSubmitted(ctx context.Context, w Wizard, res *order.Result, elapsed time.Duration) {
	for _, e := range r.orderSubmitted {
		if err := e.hook.OnOrderSubmitted(ctx, w, res, elapsed); err != nil {
			r.logHookError("OnOrderSubmitted", e.name, err)
		}
	}
}

// EmitSubmissionFailed notifies all extensions that implement SubmissionFailed.
func (r *Registry) EmitSubmissionFailed(ctx context.Context, w Wizard, subErr error) {
	for _, e := range r.submissionFailed {
		if err := e.hook.OnSubmissionFailed(ctx, w, subErr); err != nil {
			r.logHookError("OnSubmissionFailed", e.name, err)
		}
	}
}

// EmitShutdown notifies all extensions that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Hook errors are never propagated to the wizard.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}
