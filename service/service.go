// Package service holds per-service handlers. A handler is registered under
// one or more stable service identifiers (id or name) and opts into
// capabilities by implementing the optional interfaces below. The registry
// type-caches each capability at registration time.
package service

import (
	"context"

	"github.com/wael7705/khawam-pro-sub000/attachment"
	"github.com/wael7705/khawam-pro-sub000/field"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/order"
	"github.com/wael7705/khawam-pro-sub000/schema"
)

// Handler is the base interface every service handler implements.
type Handler interface {
	// Name is a unique human-readable handler name used in logs.
	Name() string
}

// StepRenderer renders steps for its service. Returning a nil set declines
// the step so the generic builders take over.
type StepRenderer interface {
	TryRenderStep(ctx context.Context, step schema.Step, st *form.Store) (*field.Set, error)
}

// StepValidator validates steps for its service. handled=false defers to
// the generic rule for the step type.
type StepValidator interface {
	ValidateStep(ctx context.Context, step schema.Step, st *form.Store) (handled bool, err error)
}

// Prepared is what a SubmissionPreparer contributes to an order.
type Prepared struct {
	// Specifications replaces the generic specifications of the first item.
	Specifications map[string]any
	// Items replaces the generic line items. Left nil, the assembler builds
	// one item from Specifications.
	Items []order.Item
}

// SubmissionPreparer shapes the order payload for its service.
type SubmissionPreparer interface {
	PrepareSubmission(ctx context.Context, svc schema.Service, st *form.Store, files []attachment.Attachment) (*Prepared, error)
}
