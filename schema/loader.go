package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	orderflow "github.com/wael7705/khawam-pro-sub000"
)

// Source is the remote collaborator that serves and provisions workflows.
type Source interface {
	// GetWorkflow returns the steps configured for a service.
	GetWorkflow(ctx context.Context, serviceID string) ([]Step, error)

	// ProvisionWorkflow asks the remote side to (re)create the workflow of
	// a service family. It reports whether provisioning succeeded.
	ProvisionWorkflow(ctx context.Context, family string) (bool, error)
}

// Origin records where a loaded step list came from.
type Origin string

const (
	// OriginRemote means the list came from the remote workflow.
	OriginRemote Origin = "remote"
	// OriginProvisioned means the list was re-fetched after provisioning.
	OriginProvisioned Origin = "provisioned"
	// OriginStale means provisioning was needed but failed, and the
	// pre-provision remote list is used.
	OriginStale Origin = "stale"
	// OriginDefault means DefaultSteps is used.
	OriginDefault Origin = "default"
)

// Result is the outcome of Loader.Load.
type Result struct {
	Steps  []Step
	Origin Origin
	// Family is the matched family name, if any.
	Family string
	// Err explains a degraded origin (default or stale). It wraps
	// orderflow.ErrSchemaUnavailable for a default fallback.
	Err error
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFamilies replaces the built-in service families.
func WithFamilies(f []Family) LoaderOption {
	return func(l *Loader) { l.families = f }
}

// WithLoaderLogger sets a custom logger.
func WithLoaderLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = log }
}

// Loader resolves the step list shown for a service. Remote failures are
// never fatal.
type Loader struct {
	source   Source
	families []Family
	logger   *slog.Logger

	mu          sync.Mutex
	provisioned map[string]bool
}

// NewLoader creates a Loader. source may be nil, in which case every load
// falls back to DefaultSteps.
func NewLoader(source Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:      source,
		families:    DefaultFamilies(),
		logger:      slog.Default(),
		provisioned: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Family returns the family svc belongs to.
func (l *Loader) Family(svc Service) (Family, bool) {
	return MatchFamily(l.families, svc)
}

// Load resolves the steps for svc. It returns an error only when ctx is
// done; every remote failure degrades to a usable step list.
func (l *Loader) Load(ctx context.Context, svc Service) (Result, error) {
	fam, hasFamily := l.Family(svc)
	res := Result{Origin: OriginRemote}
	if hasFamily {
		res.Family = fam.Name
	}

	steps, err := l.fetch(ctx, svc)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}
	if err != nil {
		l.logger.Warn("workflow unavailable, using default steps",
			slog.String("service_id", svc.ID),
			slog.String("service", svc.Name),
			slog.String("error", err.Error()),
		)
		res.Origin = OriginDefault
		res.Err = err
		steps = DefaultSteps()
	} else if hasFamily && fam.ExpectedSteps > 0 && len(steps) != fam.ExpectedSteps {
		steps, res.Origin, res.Err = l.reprovision(ctx, svc, fam, steps)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
	}

	if hasFamily && len(fam.Exclude) > 0 {
		steps = Filter(steps, ExcludeTypes(fam.Exclude...))
	} else {
		steps = Renumber(steps)
	}
	res.Steps = steps
	return res, nil
}

func (l *Loader) fetch(ctx context.Context, svc Service) ([]Step, error) {
	if l.source == nil {
		return nil, fmt.Errorf("%w: no workflow source", orderflow.ErrSchemaUnavailable)
	}
	steps, err := l.source.GetWorkflow(ctx, svc.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", orderflow.ErrSchemaUnavailable, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: empty workflow", orderflow.ErrSchemaUnavailable)
	}
	return steps, nil
}

// reprovision runs the provisioning collaborator once per family and
// re-fetches. Any failure keeps the stale list.
func (l *Loader) reprovision(ctx context.Context, svc Service, fam Family, stale []Step) ([]Step, Origin, error) {
	l.mu.Lock()
	done := l.provisioned[fam.Name]
	l.provisioned[fam.Name] = true
	l.mu.Unlock()

	staleErr := func(err error) ([]Step, Origin, error) {
		l.logger.Warn("workflow provisioning failed, using current steps",
			slog.String("family", fam.Name),
			slog.Int("steps", len(stale)),
			slog.Int("expected", fam.ExpectedSteps),
			slog.String("error", err.Error()),
		)
		return stale, OriginStale, err
	}

	if done {
		return staleErr(errors.New("already provisioned once"))
	}

	l.logger.Info("provisioning workflow",
		slog.String("family", fam.Name),
		slog.Int("steps", len(stale)),
		slog.Int("expected", fam.ExpectedSteps),
	)
	ok, err := l.source.ProvisionWorkflow(ctx, fam.Name)
	if err != nil {
		return staleErr(err)
	}
	if !ok {
		return staleErr(errors.New("provisioning reported failure"))
	}

	fresh, err := l.fetch(ctx, svc)
	if err != nil {
		return staleErr(err)
	}
	return fresh, OriginProvisioned, nil
}
