package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/attachment"
	"github.com/wael7705/khawam-pro-sub000/ext"
	"github.com/wael7705/khawam-pro-sub000/field"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/id"
	"github.com/wael7705/khawam-pro-sub000/navigator"
	"github.com/wael7705/khawam-pro-sub000/order"
	"github.com/wael7705/khawam-pro-sub000/resume"
	"github.com/wael7705/khawam-pro-sub000/schema"
	"github.com/wael7705/khawam-pro-sub000/submission"
)

// State is the lifecycle state of a Wizard.
type State string

const (
	// StateOpen accepts input and navigation.
	StateOpen State = "open"
	// StateSubmitted means the order was placed. Only Close is accepted.
	StateSubmitted State = "submitted"
	// StateClosed is terminal.
	StateClosed State = "closed"
)

// Wizard is one opened order form. It owns its form state, navigation
// controller and submission pipeline. All methods are safe for concurrent
// use; results of a schema load that finishes after the wizard switched
// service or closed are discarded.
type Wizard struct {
	eng       *Engine
	id        id.WizardID
	form      *form.Store
	pages     *attachment.PageCounter
	assembler *submission.Assembler

	mu      sync.Mutex
	svc     schema.Service
	family  schema.Family
	nav     *navigator.Controller
	origin  schema.Origin
	gen     uint64
	state   State
	resumed bool
	result  *order.Result
}

// ── Transitions ─────────────────────────────────────

// openNew starts a fresh session on the loaded steps.
func (w *Wizard) openNew(ctx context.Context, res schema.Result) {
	w.mu.Lock()
	w.install(res)
	w.state = StateOpen
	info := w.infoLocked()
	w.mu.Unlock()

	w.eng.logger.Info("wizard opened",
		slog.String("wizard_id", w.id.String()),
		slog.String("service", info.Service.Key()),
		slog.Int("steps", info.Steps),
		slog.String("origin", string(res.Origin)),
	)
	w.eng.extensions.EmitWizardOpened(ctx, info)
}

// resumeFrom starts a session from a restored snapshot. Binary files are
// never restored; Restore clears them and keeps only their hints.
func (w *Wizard) resumeFrom(ctx context.Context, res schema.Result, e *resume.Entry) {
	w.form.Restore(e.Fields)

	w.mu.Lock()
	w.install(res)
	w.nav.Goto(e.Step)
	w.state = StateOpen
	w.resumed = true
	info := w.infoLocked()
	w.mu.Unlock()

	w.eng.logger.Info("wizard resumed",
		slog.String("wizard_id", w.id.String()),
		slog.String("service", e.ServiceName),
		slog.Int("step", info.Step),
		slog.String("snapshot_id", e.ID.String()),
	)
	w.eng.extensions.EmitWizardResumed(ctx, info, e.Timestamp)
}

// install builds the navigator for the current service. Callers hold mu.
func (w *Wizard) install(res schema.Result) {
	var opts []navigator.Option
	fam, ok := schema.MatchFamily(w.eng.families, w.svc)
	if ok {
		opts = append(opts, navigator.WithFamily(fam))
	}
	opts = append(opts,
		navigator.WithRegistry(w.eng.services),
		navigator.WithSubmitter(w.submitOrder),
		navigator.WithLogger(w.eng.logger),
	)
	w.family = fam
	w.nav = navigator.New(w.svc, res.Steps, w.form, opts...)
	w.origin = res.Origin
}

// Close ends the wizard. It is idempotent.
func (w *Wizard) Close(ctx context.Context) {
	w.mu.Lock()
	if w.state == StateClosed {
		w.mu.Unlock()
		return
	}
	submitted := w.state == StateSubmitted
	w.state = StateClosed
	w.gen++
	info := w.infoLocked()
	w.mu.Unlock()

	w.eng.open.Add(-1)
	w.eng.logger.Debug("wizard closed",
		slog.String("wizard_id", w.id.String()),
		slog.Bool("submitted", submitted),
	)
	w.eng.extensions.EmitWizardClosed(ctx, info, submitted)
}

// ── Accessors ───────────────────────────────────────

// ID returns the wizard instance id.
func (w *Wizard) ID() id.WizardID { return w.id }

// Form returns the form state store. Writes go through its named setters.
func (w *Wizard) Form() *form.Store { return w.form }

// Service returns the service the wizard currently collects an order for.
func (w *Wizard) Service() schema.Service {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.svc
}

// State returns the lifecycle state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Resumed reports whether the wizard was restored from a snapshot.
func (w *Wizard) Resumed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resumed
}

// Origin reports where the current step list came from.
func (w *Wizard) Origin() schema.Origin {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.origin
}

// Steps returns the current step list.
func (w *Wizard) Steps() []schema.Step { return w.navigator().Steps() }

// Current returns the current 1-based step number.
func (w *Wizard) Current() int { return w.navigator().Current() }

// Result returns the placed order, or nil before submission.
func (w *Wizard) Result() *order.Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

func (w *Wizard) navigator() *navigator.Controller {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.nav
}

func (w *Wizard) info() ext.Wizard {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.infoLocked()
}

func (w *Wizard) infoLocked() ext.Wizard {
	info := ext.Wizard{ID: w.id, Service: w.svc}
	if w.nav != nil {
		info.Step = w.nav.Current()
		info.Steps = w.nav.Len()
	}
	return info
}

// active returns the navigator when the wizard accepts input.
func (w *Wizard) active() (*navigator.Controller, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StateClosed:
		return nil, orderflow.ErrWizardClosed
	case StateSubmitted:
		return nil, orderflow.ErrAlreadySubmitted
	}
	return w.nav, nil
}

// ── Rendering and navigation ────────────────────────

// Render returns the fields of the current step.
func (w *Wizard) Render(ctx context.Context) (*field.Set, error) {
	nav, err := w.active()
	if err != nil {
		return nil, err
	}
	step, ok := nav.Step()
	if !ok {
		return nil, fmt.Errorf("orderflow/wizard: no step to render")
	}
	return w.eng.dispatcher.Render(ctx, w.Service(), step, w.form)
}

// Advance validates the current step, then moves forward or submits. A
// validation failure leaves the wizard on the same step and returns an
// error wrapping orderflow.ErrValidationFailed.
func (w *Wizard) Advance(ctx context.Context) (navigator.Outcome, error) {
	nav, err := w.active()
	if err != nil {
		return navigator.Stayed, err
	}
	from := nav.Current()
	out, err := nav.Advance(ctx)
	if err != nil {
		if errors.Is(err, orderflow.ErrValidationFailed) {
			w.eng.extensions.EmitValidationFailed(ctx, w.info(), err)
		}
		return out, err
	}
	if out == navigator.Advanced {
		w.eng.extensions.EmitStepAdvanced(ctx, w.info(), from)
	}
	return out, nil
}

// Retreat moves back one step and returns the new step number.
func (w *Wizard) Retreat(ctx context.Context) (int, error) {
	nav, err := w.active()
	if err != nil {
		return 0, err
	}
	from := nav.Current()
	to := nav.Retreat()
	if to != from {
		w.eng.extensions.EmitStepRetreated(ctx, w.info(), from)
	}
	return to, nil
}

// Submit advances from the current step until the order is submitted or a
// step blocks. Every remaining step is validated on the way.
func (w *Wizard) Submit(ctx context.Context) (*order.Result, error) {
	for {
		out, err := w.Advance(ctx)
		if err != nil {
			return nil, err
		}
		if out == navigator.Submitted {
			return w.Result(), nil
		}
	}
}

// submitOrder is the navigator's submitter.
func (w *Wizard) submitOrder(ctx context.Context) error {
	svc := w.Service()
	start := time.Now()
	res, err := w.assembler.Submit(ctx, w.id, svc, w.form)
	if err != nil {
		if !errors.Is(err, orderflow.ErrSubmissionInFlight) {
			w.eng.extensions.EmitSubmissionFailed(ctx, w.info(), err)
		}
		return err
	}

	w.mu.Lock()
	w.result = res
	if w.state == StateOpen {
		w.state = StateSubmitted
	}
	info := w.infoLocked()
	w.mu.Unlock()

	// A placed order must not be offered for resume.
	if perr := w.eng.resume.Purge(ctx, svc.Key()); perr != nil {
		w.eng.logger.Warn("failed to purge snapshot after submit",
			slog.String("service", svc.Key()),
			slog.String("error", perr.Error()),
		)
	}
	w.eng.extensions.EmitOrderSubmitted(ctx, info, res, time.Since(start))
	return nil
}

// ── Delivery and resume triggers ────────────────────

// SetDeliveryType changes the delivery type. Switching to a type that
// needs an externally picked location prefills the remembered address and
// snapshots the form so it survives the detour.
func (w *Wizard) SetDeliveryType(ctx context.Context, t form.DeliveryType) error {
	if _, err := w.active(); err != nil {
		return err
	}
	if !w.form.SetDeliveryType(t) || !t.RequiresLocation() {
		return nil
	}
	if !w.form.Delivery().HasLocation() {
		d, ok, err := w.eng.resume.LoadDeliveryAddress(ctx)
		if err != nil {
			w.eng.logger.Warn("failed to load remembered address", slog.String("error", err.Error()))
		} else if ok && d.HasLocation() {
			w.form.SetDeliveryLocation(d.Address, d.Latitude, d.Longitude)
		}
	}
	return w.snapshot(ctx)
}

// LeaveForLocationPick snapshots the form and sets the reopen signal so
// the next Open for this service resumes where the user left.
func (w *Wizard) LeaveForLocationPick(ctx context.Context) error {
	if _, err := w.active(); err != nil {
		return err
	}
	if err := w.snapshot(ctx); err != nil {
		return err
	}
	if err := w.eng.resume.MarkReopen(ctx, w.Service().Key()); err != nil {
		return fmt.Errorf("orderflow/wizard: %w", err)
	}
	return nil
}

// SetDeliveryLocation records a picked location and remembers it for
// later orders.
func (w *Wizard) SetDeliveryLocation(ctx context.Context, address string, lat, lng float64) error {
	if _, err := w.active(); err != nil {
		return err
	}
	w.form.SetDeliveryLocation(address, lat, lng)
	if err := w.eng.resume.SaveDeliveryAddress(ctx, w.form.Delivery()); err != nil {
		return fmt.Errorf("orderflow/wizard: %w", err)
	}
	return nil
}

func (w *Wizard) snapshot(ctx context.Context) error {
	svc := w.Service()
	if _, err := w.eng.resume.Save(ctx, svc.Key(), w.Current(), w.form.Fields()); err != nil {
		return fmt.Errorf("orderflow/wizard: %w", err)
	}
	return nil
}

// ── Files ───────────────────────────────────────────

// CountPages counts the pages of the held files, remotely when an
// analyzer is configured, and stores the result on the form.
func (w *Wizard) CountPages(ctx context.Context) (int, error) {
	if _, err := w.active(); err != nil {
		return 0, err
	}
	placed := w.form.Files()
	files := make([]attachment.File, len(placed))
	for i, p := range placed {
		files[i] = p.File
	}
	n := w.pages.Count(ctx, files)
	if n > 0 {
		w.form.SetPages(n)
	}
	return n, nil
}

// ── Schema reloads ──────────────────────────────────

// Reload re-resolves the step list for the current service. It reports
// whether the result was applied; a result that arrives after the wizard
// switched service or closed is dropped.
func (w *Wizard) Reload(ctx context.Context) (bool, error) {
	w.mu.Lock()
	if w.state == StateClosed {
		w.mu.Unlock()
		return false, orderflow.ErrWizardClosed
	}
	gen, svc := w.gen, w.svc
	w.mu.Unlock()

	res, err := w.eng.loader.Load(ctx, svc)
	if err != nil {
		return false, err
	}
	return w.apply(ctx, gen, svc, res), nil
}

// SwitchService points the wizard at another service. The form is reset
// and the new service's steps are loaded.
func (w *Wizard) SwitchService(ctx context.Context, svc schema.Service) (bool, error) {
	w.mu.Lock()
	switch w.state {
	case StateClosed:
		w.mu.Unlock()
		return false, orderflow.ErrWizardClosed
	case StateSubmitted:
		w.mu.Unlock()
		return false, orderflow.ErrAlreadySubmitted
	}
	w.gen++
	gen := w.gen
	w.svc = svc
	w.form.Reset()
	w.install(schema.Result{})
	w.mu.Unlock()

	res, err := w.eng.loader.Load(ctx, svc)
	if err != nil {
		return false, err
	}
	return w.apply(ctx, gen, svc, res), nil
}

func (w *Wizard) apply(ctx context.Context, gen uint64, svc schema.Service, res schema.Result) bool {
	w.mu.Lock()
	if w.state == StateClosed || w.gen != gen || w.svc.Key() != svc.Key() {
		w.mu.Unlock()
		w.eng.logger.Debug("discarding stale workflow",
			slog.String("wizard_id", w.id.String()),
			slog.String("service", svc.Key()),
		)
		return false
	}
	w.nav.SetSteps(res.Steps)
	w.origin = res.Origin
	w.mu.Unlock()

	w.eng.reportFallback(ctx, svc, res)
	return true
}
