package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/wael7705/khawam-pro-sub000/attachment"
	"github.com/wael7705/khawam-pro-sub000/id"
	"github.com/wael7705/khawam-pro-sub000/middleware"
	"github.com/wael7705/khawam-pro-sub000/order"
)

func newTestSubmission() *order.Submission {
	return &order.Submission{
		WizardID: id.NewWizardID(),
		Customer: order.Customer{Name: "Omar", Phone: "0911111111"},
		Delivery: order.Delivery{Type: "self"},
		Items: []order.Item{{
			ServiceName: "Flex",
			Quantity:    3,
			DesignFiles: []attachment.Attachment{{FileKey: "a"}, {FileKey: "b"}},
		}},
	}
}

func TestChain_ExecutionOrder(t *testing.T) {
	var calls []string

	mw1 := func(ctx context.Context, _ *order.Submission, next middleware.Handler) error {
		calls = append(calls, "mw1-before")
		err := next(ctx)
		calls = append(calls, "mw1-after")
		return err
	}
	mw2 := func(ctx context.Context, _ *order.Submission, next middleware.Handler) error {
		calls = append(calls, "mw2-before")
		err := next(ctx)
		calls = append(calls, "mw2-after")
		return err
	}

	chain := middleware.Chain(mw1, mw2)
	err := chain(context.Background(), newTestSubmission(), func(_ context.Context) error {
		calls = append(calls, "handler")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"mw1-before", "mw2-before", "handler", "mw2-after", "mw1-after"}
	if strings.Join(calls, ",") != strings.Join(expected, ",") {
		t.Fatalf("got %v, want %v", calls, expected)
	}
}

func TestChain_Empty(t *testing.T) {
	called := false
	err := middleware.Chain()(context.Background(), newTestSubmission(), func(_ context.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Fatalf("handler not called with empty chain: %v", err)
	}
}

func TestChain_PropagatesError(t *testing.T) {
	want := errors.New("backend rejected order")
	pass := func(ctx context.Context, _ *order.Submission, next middleware.Handler) error {
		return next(ctx)
	}
	err := middleware.Chain(pass)(context.Background(), newTestSubmission(), func(_ context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("got %v, want %v", err, want)
	}
}

func TestRecover_ConvertsPanic(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	err := middleware.Recover(logger)(context.Background(), newTestSubmission(), func(_ context.Context) error {
		panic("nil map")
	})
	if err == nil || !strings.Contains(err.Error(), "nil map") {
		t.Fatalf("got %v", err)
	}
}

func TestLogging_LogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sub := newTestSubmission()

	_ = middleware.Logging(logger)(context.Background(), sub, func(_ context.Context) error { return nil })

	out := buf.String()
	for _, want := range []string{"order submission started", "order submitted", "attachments=2", sub.WizardID.String()} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestTimeout_SetsDeadline(t *testing.T) {
	err := middleware.Timeout(time.Minute)(context.Background(), newTestSubmission(), func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	err = middleware.Timeout(0)(context.Background(), newTestSubmission(), func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			return errors.New("unexpected deadline")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
