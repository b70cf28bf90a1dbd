package ext

import (
	"context"
	"time"

	"github.com/wael7705/khawam-pro-sub000/id"
	"github.com/wael7705/khawam-pro-sub000/order"
	"github.com/wael7705/khawam-pro-sub000/schema"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// Wizard describes the wizard instance an event belongs to.
type Wizard struct {
	ID      id.WizardID
	Service schema.Service
	// Step is the current 1-based step number.
	Step int
	// Steps is the number of steps in the resolved workflow.
	Steps int
}

// ──────────────────────────────────────────────────
// Wizard lifecycle hooks
// ──────────────────────────────────────────────────

// WizardOpened is called after a wizard opened as a new session.
type WizardOpened interface {
	OnWizardOpened(ctx context.Context, w Wizard) error
}

// WizardResumed is called after a wizard restored a cached snapshot.
type WizardResumed interface {
	OnWizardResumed(ctx context.Context, w Wizard, savedAt time.Time) error
}

// WizardClosed is called when a wizard is closed, submitted or not.
type WizardClosed interface {
	OnWizardClosed(ctx context.Context, w Wizard, submitted bool) error
}

// StepAdvanced is called after the wizard moved forward.
type StepAdvanced interface {
	OnStepAdvanced(ctx context.Context, w Wizard, from int) error
}

// StepRetreated is called after the wizard moved back.
type StepRetreated interface {
	OnStepRetreated(ctx context.Context, w Wizard, from int) error
}

// ValidationFailed is called when advancing was blocked by validation.
type ValidationFailed interface {
	OnValidationFailed(ctx context.Context, w Wizard, err error) error
}

// ──────────────────────────────────────────────────
// Schema and cache hooks
// ──────────────────────────────────────────────────

// SchemaFallback is called when the remote workflow could not be used and
// a degraded step list was loaded instead.
type SchemaFallback interface {
	OnSchemaFallback(ctx context.Context, svc schema.Service, origin schema.Origin, err error) error
}

// CachePurged is called when a service's cached snapshot was discarded.
type CachePurged interface {
	OnCachePurged(ctx context.Context, service string, reason error) error
}

// ──────────────────────────────────────────────────
// Submission hooks
// ──────────────────────────────────────────────────

// OrderSubmitted is called after the order API accepted an order.
type OrderSubmitted interface {
	OnOrderSubmitted(ctx context.Context, w Wizard, res *order.Result, elapsed time.Duration) error
}

// SubmissionFailed is called when an order submission failed.
type SubmissionFailed interface {
	OnSubmissionFailed(ctx context.Context, w Wizard, err error) error
}

// Shutdown is called when the engine shuts down.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
