package middleware

import (
	"context"
	"time"

	"github.com/wael7705/khawam-pro-sub000/order"
)

// Timeout returns middleware that bounds the create-order call, and any
// middleware inside it, by d. Attachments are already encoded when the
// chain runs. A non-positive d disables it.
func Timeout(d time.Duration) Middleware {
	return func(ctx context.Context, _ *order.Submission, next Handler) error {
		if d <= 0 {
			return next(ctx)
		}
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(ctx)
	}
}
