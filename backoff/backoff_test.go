package backoff_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wael7705/khawam-pro-sub000/backoff"
)

func TestConstant(t *testing.T) {
	c := backoff.Constant{Interval: 300 * time.Millisecond}
	for attempt := 1; attempt <= 5; attempt++ {
		if got := c.Delay(attempt); got != 300*time.Millisecond {
			t.Errorf("Delay(%d) = %v", attempt, got)
		}
	}
}

func TestExponential(t *testing.T) {
	e := backoff.Exponential{Initial: 100 * time.Millisecond, Max: time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
		{30, time.Second},
	}
	for _, tt := range tests {
		if got := e.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponentialJitter_Bounded(t *testing.T) {
	e := backoff.Exponential{Initial: 100 * time.Millisecond, Max: 400 * time.Millisecond, Jitter: true}
	for i := 0; i < 200; i++ {
		d := e.Delay(10)
		if d < 0 || d > 400*time.Millisecond {
			t.Fatalf("jittered delay out of range: %v", d)
		}
	}
}

func TestWait_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := backoff.Wait(ctx, backoff.Constant{Interval: time.Hour}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestWait_Elapses(t *testing.T) {
	start := time.Now()
	if err := backoff.Wait(context.Background(), backoff.Constant{Interval: 5 * time.Millisecond}, 1); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("returned early")
	}
}
