package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/schema"
	"github.com/wael7705/khawam-pro-sub000/service"
)

// Outcome is the result of an Advance call.
type Outcome int

const (
	// Stayed means the current step did not change.
	Stayed Outcome = iota
	// Advanced means the controller moved to the next step.
	Advanced
	// Submitted means the order was handed to the submitter.
	Submitted
)

func (o Outcome) String() string {
	switch o {
	case Advanced:
		return "advanced"
	case Submitted:
		return "submitted"
	default:
		return "stayed"
	}
}

// SubmitFunc submits the order. It is called with no controller lock held.
type SubmitFunc func(ctx context.Context) error

// Option configures a Controller.
type Option func(*Controller)

// WithRegistry sets the service handler registry consulted for step
// validation overrides.
func WithRegistry(r *service.Registry) Option {
	return func(c *Controller) { c.registry = r }
}

// WithFamily sets the family of the service being ordered.
func WithFamily(f schema.Family) Option {
	return func(c *Controller) { c.family = f }
}

// WithSubmitter sets the function invoked on submission.
func WithSubmitter(fn SubmitFunc) Option {
	return func(c *Controller) { c.submit = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller is the step state machine of one wizard instance.
type Controller struct {
	mu         sync.Mutex
	svc        schema.Service
	steps      []schema.Step
	current    int
	submitting bool
	submitted  bool

	store    *form.Store
	family   schema.Family
	registry *service.Registry
	submit   SubmitFunc
	logger   *slog.Logger
}

// New returns a controller positioned at step 1 of steps.
func New(svc schema.Service, steps []schema.Step, st *form.Store, opts ...Option) *Controller {
	c := &Controller{
		svc:    svc,
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.steps = schema.Renumber(steps)
	c.current = 1
	c.clamp()
	return c
}

// Current returns the current step number, 1-based. It is 0 only when the
// step list is empty.
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Step returns the current step.
func (c *Controller) Step() (schema.Step, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return schema.Find(c.steps, c.current)
}

// Steps returns a copy of the step list.
func (c *Controller) Steps() []schema.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]schema.Step(nil), c.steps...)
}

// Len returns the number of steps.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.steps)
}

// Submitted reports whether the terminal state was reached.
func (c *Controller) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

// SetSteps replaces the step list and clamps the current step into range.
func (c *Controller) SetSteps(steps []schema.Step) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = schema.Renumber(steps)
	c.clamp()
}

// Goto moves to step n without validation, clamped into range. It is used
// to land on a resumed step.
func (c *Controller) Goto(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = n
	c.clamp()
	return c.current
}

// Retreat moves back one step without validation. It is a no-op on step 1
// and after submission.
func (c *Controller) Retreat() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.submitted && c.current > 1 {
		c.current--
	}
	return c.current
}

// Validate runs the validation rule of step: the service override when one
// handles it, the generic rule otherwise.
func (c *Controller) Validate(ctx context.Context, step schema.Step) error {
	if v, ok := c.registry.Validator(c.svc); ok {
		handled, err := v.ValidateStep(ctx, step, c.store)
		if handled {
			if err == nil || errors.Is(err, orderflow.ErrValidationFailed) {
				return err
			}
			return invalid(step, "", err.Error())
		}
	}
	return Validate(step, c.family, c.store)
}

// Advance validates the current step and then moves forward, or submits
// when leaving the last step or a skip-invoice customer info step. On a
// validation or submission error the controller stays where it was.
func (c *Controller) Advance(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.submitted {
		c.mu.Unlock()
		return Stayed, orderflow.ErrAlreadySubmitted
	}
	if c.submitting {
		c.mu.Unlock()
		return Stayed, orderflow.ErrSubmissionInFlight
	}
	step, ok := schema.Find(c.steps, c.current)
	last := c.current >= len(c.steps)
	c.mu.Unlock()
	if !ok {
		return Stayed, fmt.Errorf("orderflow/navigator: no step %d", c.Current())
	}

	if err := c.Validate(ctx, step); err != nil {
		return Stayed, err
	}

	if !last && !skipsInvoice(step) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.current == step.Number && !c.submitted {
			c.current++
		}
		return Advanced, nil
	}
	if err := c.validateBefore(ctx, step.Number); err != nil {
		return Stayed, err
	}
	return c.doSubmit(ctx, step)
}

// validateBefore re-checks every step before n. Earlier steps may no longer
// hold, for example when a resumed form dropped its files. The controller
// moves to the first failing step.
func (c *Controller) validateBefore(ctx context.Context, n int) error {
	for _, s := range c.Steps() {
		if s.Number >= n {
			break
		}
		if err := c.Validate(ctx, s); err != nil {
			c.mu.Lock()
			if !c.submitted {
				c.current = s.Number
				c.clamp()
			}
			c.mu.Unlock()
			return err
		}
	}
	return nil
}

func (c *Controller) doSubmit(ctx context.Context, step schema.Step) (Outcome, error) {
	if c.submit == nil {
		return Stayed, fmt.Errorf("orderflow/navigator: no submitter configured: %w", orderflow.ErrSubmissionFailed)
	}

	c.mu.Lock()
	if c.submitting || c.submitted {
		c.mu.Unlock()
		return Stayed, orderflow.ErrSubmissionInFlight
	}
	c.submitting = true
	c.mu.Unlock()

	c.logger.Debug("submitting from step",
		slog.String("service", c.svc.Key()),
		slog.Int("step", step.Number),
		slog.String("type", string(step.Type)),
	)
	err := c.submit(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		return Stayed, err
	}
	c.submitted = true
	return Submitted, nil
}

func skipsInvoice(step schema.Step) bool {
	cfg, ok := step.Typed().(schema.CustomerInfoConfig)
	return ok && cfg.SkipInvoice
}

// clamp keeps current inside [1, N]. Callers hold mu.
func (c *Controller) clamp() {
	n := len(c.steps)
	switch {
	case n == 0:
		c.current = 0
	case c.current < 1:
		c.current = 1
	case c.current > n:
		c.current = n
	}
}
