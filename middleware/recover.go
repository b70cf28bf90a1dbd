package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/wael7705/khawam-pro-sub000/order"
)

// Recover returns middleware that turns a panic in the chain into an
// error and logs it with a stack trace.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, s *order.Submission, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("order submission panicked",
					slog.String("wizard_id", s.WizardID.String()),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
				retErr = fmt.Errorf("panic submitting order for %s: %v", serviceOf(s), r)
			}
		}()
		return next(ctx)
	}
}
