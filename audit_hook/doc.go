// Package audithook is an orderflow extension that turns wizard lifecycle
// events into audit records.
//
// Every wizard, cache and submission hook emits a structured audit event
// through the [Recorder] interface. The extension assigns severity levels
// (info for normal operations, warning for blocked steps and purged
// caches, critical for failed submissions) and metadata such as the
// service, step and order number.
//
// # Usage
//
//	audithook.New(audithook.RecorderFunc(func(ctx context.Context, evt *audithook.AuditEvent) error {
//	    logger.InfoContext(ctx, evt.Action,
//	        slog.String("resource_id", evt.ResourceID),
//	        slog.String("outcome", evt.Outcome),
//	    )
//	    return nil
//	}))
//
// # Selective filtering
//
//	audithook.New(recorder,
//	    audithook.WithActions(
//	        audithook.ActionOrderSubmitted,
//	        audithook.ActionSubmissionFailed,
//	    ),
//	)
package audithook
