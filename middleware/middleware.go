// Package middleware provides composable middleware around order
// submission. Middleware wraps the create-order call synchronously and can
// observe or alter it (recover from panics, log, trace, bound its time).
package middleware

import (
	"context"

	"github.com/wael7705/khawam-pro-sub000/order"
)

// Handler is the terminal function that sends the order.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic. It receives the
// submission being sent and the next handler, and must call next unless it
// short-circuits with an error.
type Middleware func(ctx context.Context, s *order.Submission, next Handler) error

// Chain composes middleware into one. The first middleware in the list is
// the outermost wrapper.
//
// Example: Chain(logging, recover, timeout) executes as:
//
//	logging → recover → timeout → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, s *order.Submission, next Handler) error {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, s, prev)
			}
		}
		return h(ctx)
	}
}

func serviceOf(s *order.Submission) string {
	if len(s.Items) == 0 {
		return ""
	}
	return s.Items[0].ServiceName
}
