package resume_test

import (
	"context"
	"testing"
	"time"

	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/resume"
)

func TestNewSweeper_InvalidSchedule(t *testing.T) {
	m, _ := newManager(&clock{now: t0})
	if _, err := resume.NewSweeper(m, "every so often"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSweeper_Foreground(t *testing.T) {
	c := &clock{now: t0}
	m, _ := newManager(c)
	ctx := context.Background()
	_, _ = m.Save(ctx, "Flex", 1, form.Fields{})

	sw, err := resume.NewSweeper(m, "@every 1m")
	if err != nil {
		t.Fatal(err)
	}
	if err := sw.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := sw.Stop(stopCtx); err != nil {
			t.Errorf("stop: %v", err)
		}
	}()

	c.now = t0.Add(11 * time.Minute)
	n, err := sw.Foreground(ctx)
	if err != nil || n != 1 {
		t.Fatalf("foreground sweep: %d %v", n, err)
	}
}
