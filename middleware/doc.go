// Package middleware provides composable middleware around order
// submission.
//
//	chain := middleware.Chain(
//	    middleware.Logging(logger),
//	    middleware.Recover(logger),
//	    middleware.Tracing(),
//	)
//
// # Built-in Middleware
//
//   - [Logging] logs service, item and attachment counts, duration and outcome
//   - [Recover] catches panics and converts them to errors
//   - [Timeout] bounds the submission by a deadline
//   - [Tracing] wraps submission in an OpenTelemetry span
//   - [Metrics] records duration, outcome and attachment counters
package middleware
