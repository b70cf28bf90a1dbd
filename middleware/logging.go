package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/wael7705/khawam-pro-sub000/order"
)

// Logging returns middleware that logs submission start and outcome.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, s *order.Submission, next Handler) error {
		logger.Info("order submission started",
			slog.String("wizard_id", s.WizardID.String()),
			slog.String("service", serviceOf(s)),
			slog.Int("items", len(s.Items)),
			slog.Int("attachments", s.AttachmentCount()),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("order submission failed",
				slog.String("wizard_id", s.WizardID.String()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("order submitted",
				slog.String("wizard_id", s.WizardID.String()),
				slog.Duration("elapsed", elapsed),
			)
		}
		return err
	}
}
