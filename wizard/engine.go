package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/attachment"
	"github.com/wael7705/khawam-pro-sub000/client"
	"github.com/wael7705/khawam-pro-sub000/ext"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/id"
	mw "github.com/wael7705/khawam-pro-sub000/middleware"
	"github.com/wael7705/khawam-pro-sub000/observability"
	"github.com/wael7705/khawam-pro-sub000/render"
	"github.com/wael7705/khawam-pro-sub000/resume"
	"github.com/wael7705/khawam-pro-sub000/schema"
	"github.com/wael7705/khawam-pro-sub000/service"
	"github.com/wael7705/khawam-pro-sub000/store"
	"github.com/wael7705/khawam-pro-sub000/store/memory"
	"github.com/wael7705/khawam-pro-sub000/submission"
)

const instrumentationName = "github.com/wael7705/khawam-pro-sub000"

// Engine composes the orderflow subsystems. Use Build to create one.
type Engine struct {
	of         *orderflow.Orderflow
	logger     *slog.Logger
	extensions *ext.Registry
	services   *service.Registry
	families   []schema.Family

	client     *client.Client
	source     schema.Source
	creator    submission.OrderCreator
	analyzer   attachment.Analyzer
	loader     *schema.Loader
	dispatcher *render.Dispatcher
	kv         store.Store
	resume     *resume.Manager
	sweeper    *resume.Sweeper
	mws        []mw.Middleware
	allMws     []mw.Middleware

	resumeOpts []resume.Option

	// OpenTelemetry providers (optional; nil means use global).
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	open atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithExtension registers an extension with the engine.
func WithExtension(e ext.Extension) Option {
	return func(eng *Engine) { eng.extensions.Register(e) }
}

// WithService registers a service handler under the given service ids or
// names.
func WithService(h service.Handler, keys ...string) Option {
	return func(eng *Engine) { eng.services.Register(h, keys...) }
}

// WithMiddleware appends middleware to the submission chain, inside the
// default recover, tracing, metrics, logging and timeout middleware.
func WithMiddleware(m mw.Middleware) Option {
	return func(eng *Engine) { eng.mws = append(eng.mws, m) }
}

// WithFamilies replaces the built-in service families.
func WithFamilies(f []schema.Family) Option {
	return func(eng *Engine) { eng.families = f }
}

// WithSource sets the workflow source. By default the order API client
// built from the configured base URL is used.
func WithSource(s schema.Source) Option {
	return func(eng *Engine) { eng.source = s }
}

// WithOrderCreator sets the create-order collaborator. By default the
// order API client is used.
func WithOrderCreator(c submission.OrderCreator) Option {
	return func(eng *Engine) { eng.creator = c }
}

// WithAnalyzer sets the remote page analyzer. By default the order API
// client is used.
func WithAnalyzer(a attachment.Analyzer) Option {
	return func(eng *Engine) { eng.analyzer = a }
}

// WithResumeOptions passes options to the resume manager, for example
// resume.WithCodec(resume.MsgpackCodec{}).
func WithResumeOptions(opts ...resume.Option) Option {
	return func(eng *Engine) { eng.resumeOpts = append(eng.resumeOpts, opts...) }
}

// WithTracerProvider sets a custom OTel TracerProvider for the submission
// tracing middleware.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(eng *Engine) { eng.tracerProvider = tp }
}

// WithMeterProvider sets a custom OTel MeterProvider for the submission
// metrics middleware and the observability extension.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(eng *Engine) { eng.meterProvider = mp }
}

// Build creates an Engine from an Orderflow handle. The handle's store,
// when set, must implement store.Store; without one an in-memory store is
// used.
func Build(of *orderflow.Orderflow, opts ...Option) (*Engine, error) {
	logger := of.Logger()
	cfg := of.Config()

	var kv store.Store
	switch s := of.Store().(type) {
	case nil:
		kv = memory.New()
	case store.Store:
		kv = s
	default:
		return nil, fmt.Errorf("orderflow/wizard: %w: %T does not implement store.Store", orderflow.ErrNoStore, s)
	}

	eng := &Engine{
		of:         of,
		logger:     logger,
		extensions: ext.NewRegistry(logger),
		services:   service.NewRegistry(),
		families:   schema.DefaultFamilies(),
		kv:         kv,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if cfg.BaseURL != "" {
		eng.client = client.New(cfg.BaseURL,
			client.WithLogger(logger),
			client.WithTimeout(cfg.RequestTimeout),
			client.WithRetries(cfg.MaxRetries),
			client.WithRateLimit(cfg.RequestsPerSecond, max(1, int(cfg.RequestsPerSecond))),
		)
		if eng.source == nil {
			eng.source = eng.client
		}
		if eng.creator == nil {
			eng.creator = eng.client
		}
		if eng.analyzer == nil {
			eng.analyzer = eng.client
		}
	}

	eng.loader = schema.NewLoader(eng.source,
		schema.WithFamilies(eng.families),
		schema.WithLoaderLogger(logger),
	)
	eng.dispatcher = render.NewDispatcher(eng.services,
		render.WithFamilies(eng.families),
		render.WithLogger(logger),
	)

	resumeOpts := append([]resume.Option{
		resume.WithTTL(cfg.CacheTTL),
		resume.WithCodec(resume.GetCodec(cfg.SnapshotCodec)),
		resume.WithLogger(logger),
		resume.WithEmitter(eng.extensions),
	}, eng.resumeOpts...)
	eng.resume = resume.NewManager(kv, resumeOpts...)

	sweeper, err := resume.NewSweeper(eng.resume, cfg.SweepSchedule)
	if err != nil {
		return nil, err
	}
	eng.sweeper = sweeper

	// Build tracing middleware (custom provider or global).
	var tracingMw mw.Middleware
	if eng.tracerProvider != nil {
		tracingMw = mw.TracingWithTracer(eng.tracerProvider.Tracer(instrumentationName))
	} else {
		tracingMw = mw.Tracing()
	}

	// Build metrics middleware and the observability extension.
	var metricsMw mw.Middleware
	var obsExt *observability.MetricsExtension
	if eng.meterProvider != nil {
		metricsMw = mw.MetricsWithMeter(eng.meterProvider.Meter(instrumentationName))
		obsExt = observability.NewMetricsExtensionWithMeter(eng.meterProvider.Meter(instrumentationName + "/observability"))
	} else {
		metricsMw = mw.Metrics()
		obsExt = observability.NewMetricsExtension()
	}
	eng.extensions.Register(obsExt)

	// Default stack: recover → tracing → metrics → logging → timeout.
	defaultMws := []mw.Middleware{
		mw.Recover(logger),
		tracingMw,
		metricsMw,
		mw.Logging(logger),
		mw.Timeout(cfg.RequestTimeout),
	}
	eng.allMws = make([]mw.Middleware, 0, len(defaultMws)+len(eng.mws))
	eng.allMws = append(eng.allMws, defaultMws...)
	eng.allMws = append(eng.allMws, eng.mws...)

	return eng, nil
}

// Start launches the scheduled cache sweep.
func (eng *Engine) Start(ctx context.Context) error {
	if err := eng.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("orderflow/wizard: start sweeper: %w", err)
	}
	return nil
}

// Stop halts the sweep and notifies extensions of shutdown.
func (eng *Engine) Stop(ctx context.Context) error {
	err := eng.sweeper.Stop(ctx)
	eng.extensions.EmitShutdown(ctx)
	return err
}

// Foreground purges every expired snapshot immediately. Call it when the
// host app returns to the foreground.
func (eng *Engine) Foreground(ctx context.Context) (int, error) {
	return eng.sweeper.Foreground(ctx)
}

// Open opens a wizard for svc. The step schema is resolved and, when the
// reopen signal names svc, the cached snapshot is restored before Open
// returns. Remote and cache failures never fail Open; only a done ctx
// does. The snapshot and signal are consumed only once the schema is
// resolved, so an abandoned Open leaves them for the next one.
func (eng *Engine) Open(ctx context.Context, svc schema.Service) (*Wizard, error) {
	res, err := eng.loader.Load(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("orderflow/wizard: open %s: %w", svc.Key(), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("orderflow/wizard: open %s: %w", svc.Key(), err)
	}

	// A failed restore degrades to a fresh session.
	entry, err := eng.resume.Restore(ctx, svc.Key())
	if err != nil {
		eng.logger.Warn("snapshot restore failed, opening fresh",
			slog.String("service", svc.Key()),
			slog.String("error", err.Error()),
		)
		entry = nil
	}

	w := eng.newWizard(svc)
	eng.reportFallback(ctx, svc, res)
	if entry != nil {
		w.resumeFrom(ctx, res, entry)
	} else {
		w.openNew(ctx, res)
	}
	eng.open.Add(1)
	return w, nil
}

// OpenWizards returns the number of wizards opened and not yet closed.
func (eng *Engine) OpenWizards() int { return int(eng.open.Load()) }

// Steps resolves the steps for svc without opening a wizard.
func (eng *Engine) Steps(ctx context.Context, svc schema.Service) (schema.Result, error) {
	return eng.loader.Load(ctx, svc)
}

// Extensions returns the extension registry.
func (eng *Engine) Extensions() *ext.Registry { return eng.extensions }

// Services returns the service handler registry.
func (eng *Engine) Services() *service.Registry { return eng.services }

// Resume returns the resume manager.
func (eng *Engine) Resume() *resume.Manager { return eng.resume }

// Client returns the order API client, or nil without a base URL.
func (eng *Engine) Client() *client.Client { return eng.client }

func (eng *Engine) reportFallback(ctx context.Context, svc schema.Service, res schema.Result) {
	if res.Origin == schema.OriginDefault || res.Origin == schema.OriginStale {
		eng.extensions.EmitSchemaFallback(ctx, svc, res.Origin, res.Err)
	}
}

func (eng *Engine) newWizard(svc schema.Service) *Wizard {
	w := &Wizard{
		eng:   eng,
		id:    id.NewWizardID(),
		svc:   svc,
		form:  form.NewStore(),
		pages: attachment.NewPageCounter(eng.analyzer, eng.logger),
	}
	w.assembler = eng.newAssembler()
	return w
}

// newAssembler returns a submission pipeline with its own attachment
// codec so dedupe state lives and dies with one wizard.
func (eng *Engine) newAssembler() *submission.Assembler {
	cfg := eng.of.Config()
	codec := attachment.NewCodec(
		attachment.WithConcurrency(cfg.SerializeConcurrency),
		attachment.WithLogger(eng.logger),
	)
	return submission.NewAssembler(eng.creator,
		submission.WithRegistry(eng.services),
		submission.WithCodec(codec),
		submission.WithMiddleware(eng.allMws...),
		submission.WithLogger(eng.logger),
	)
}
