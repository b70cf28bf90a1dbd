// Package observability provides an OpenTelemetry metrics extension for
// orderflow. The MetricsExtension implements lifecycle hooks to record
// counters for wizard opens and resumes, validation failures, schema
// fallbacks, cache purges and order submissions.
//
// For per-submission tracing and metrics, see the middleware package:
// middleware.Tracing() and middleware.Metrics().
package observability
