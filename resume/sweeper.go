package resume

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	cronlib "github.com/robfig/cron/v3"
)

// cronParser supports standard 5-field cron and descriptors like "@every 1m".
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// ParseSchedule parses a sweep schedule expression.
func ParseSchedule(expr string) (cronlib.Schedule, error) {
	return cronParser.Parse(expr)
}

// Sweeper purges expired snapshots proactively: on a cron schedule while
// running, and immediately whenever the host app returns to the
// foreground.
type Sweeper struct {
	manager  *Manager
	schedule string
	logger   *slog.Logger

	mu      sync.Mutex
	cron    *cronlib.Cron
	running bool
}

// NewSweeper returns a sweeper running m.Sweep on schedule.
func NewSweeper(m *Manager, schedule string) (*Sweeper, error) {
	if _, err := ParseSchedule(schedule); err != nil {
		return nil, fmt.Errorf("orderflow/resume: invalid sweep schedule %q: %w", schedule, err)
	}
	return &Sweeper{manager: m, schedule: schedule, logger: m.logger}, nil
}

// Start launches the schedule. It is a no-op when already running.
func (s *Sweeper) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	c := cronlib.New(cronlib.WithParser(cronParser), cronlib.WithChain(cronlib.SkipIfStillRunning(cronlib.DiscardLogger)))
	if _, err := c.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("orderflow/resume: schedule sweep: %w", err)
	}
	c.Start()
	s.cron = c
	s.running = true
	s.logger.Info("cache sweeper started", slog.String("schedule", s.schedule))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish or ctx
// to end.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	done := s.cron.Stop()
	s.running = false
	s.mu.Unlock()

	select {
	case <-done.Done():
		s.logger.Info("cache sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Foreground sweeps immediately. Call it when the host app regains focus.
func (s *Sweeper) Foreground(ctx context.Context) (int, error) {
	return s.manager.Sweep(ctx)
}

func (s *Sweeper) run() {
	if _, err := s.manager.Sweep(context.Background()); err != nil {
		s.logger.Warn("scheduled cache sweep failed", slog.String("error", err.Error()))
	}
}
