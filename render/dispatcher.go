package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wael7705/khawam-pro-sub000/field"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/schema"
	"github.com/wael7705/khawam-pro-sub000/service"
)

// Builder builds the field set of one step type. It may write implicit
// defaults back to the store through its named setters.
type Builder func(step schema.Step, cfg schema.Config, env Env) *field.Set

// Env is what a generic builder sees besides the step.
type Env struct {
	Store  *form.Store
	Family schema.Family
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBuilder replaces the generic builder of step type t.
func WithBuilder(t schema.Type, b Builder) Option {
	return func(d *Dispatcher) { d.builders[t] = b }
}

// WithFamilies sets the service families consulted by builders.
func WithFamilies(f []schema.Family) Option {
	return func(d *Dispatcher) { d.families = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// Dispatcher renders steps through service overrides and generic builders.
type Dispatcher struct {
	registry *service.Registry
	builders map[schema.Type]Builder
	families []schema.Family
	logger   *slog.Logger
}

// NewDispatcher returns a dispatcher backed by registry. A nil registry
// disables service overrides.
func NewDispatcher(registry *service.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		builders: defaultBuilders(),
		families: schema.DefaultFamilies(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Render returns the field set for step.
func (d *Dispatcher) Render(ctx context.Context, svc schema.Service, step schema.Step, st *form.Store) (*field.Set, error) {
	if r, ok := d.registry.Renderer(svc); ok {
		set, err := r.TryRenderStep(ctx, step, st)
		if err != nil {
			return nil, fmt.Errorf("orderflow/render: %s step %d: %w", svc.Key(), step.Number, err)
		}
		if set != nil {
			set.Overridden = true
			return set, nil
		}
		d.logger.Debug("service handler declined step",
			slog.String("service", svc.Key()),
			slog.Int("step", step.Number),
			slog.String("type", string(step.Type)),
		)
	}
	fam, _ := schema.MatchFamily(d.families, svc)
	return d.Generic(fam).TryRenderStep(ctx, step, st)
}

// Generic returns the generic renderer for services of family fam. It
// never declines.
func (d *Dispatcher) Generic(fam schema.Family) service.StepRenderer {
	return generic{builders: d.builders, family: fam}
}

type generic struct {
	builders map[schema.Type]Builder
	family   schema.Family
}

var _ service.StepRenderer = generic{}

func (g generic) TryRenderStep(_ context.Context, step schema.Step, st *form.Store) (*field.Set, error) {
	env := Env{Store: st, Family: g.family}
	if b, ok := g.builders[step.Type]; ok {
		return b(step, step.Typed(), env), nil
	}
	return buildUnknown(step, step.Typed(), env), nil
}
