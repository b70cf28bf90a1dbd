package orderflow

import (
	"context"
	"errors"
)

var (
	// Schema errors.
	ErrSchemaUnavailable = errors.New("orderflow: workflow schema unavailable")

	// Validation errors.
	ErrValidationFailed = errors.New("orderflow: validation failed")

	// Cache errors.
	ErrNoStore       = errors.New("orderflow: no store configured")
	ErrEntryNotFound = errors.New("orderflow: cache entry not found")
	ErrCacheCorrupt  = errors.New("orderflow: cache entry corrupt")
	ErrCacheExpired  = errors.New("orderflow: cache entry expired")
	ErrCacheMismatch = errors.New("orderflow: cache entry belongs to another service")

	// Attachment errors.
	ErrAttachmentUnresolvable = errors.New("orderflow: attachment has no resolvable reference")

	// Submission errors.
	ErrSubmissionFailed   = errors.New("orderflow: order submission failed")
	ErrSubmissionInFlight = errors.New("orderflow: submission already in flight")

	// State errors.
	ErrWizardClosed     = errors.New("orderflow: wizard closed")
	ErrAlreadySubmitted = errors.New("orderflow: wizard already submitted")
)

// Kind classifies an error into a stable, loggable kind.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSchemaUnavailable):
		return "schema_unavailable"
	case errors.Is(err, ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, ErrCacheCorrupt),
		errors.Is(err, ErrCacheExpired),
		errors.Is(err, ErrCacheMismatch):
		return "cache_corrupt"
	case errors.Is(err, ErrAttachmentUnresolvable):
		return "attachment_unresolvable"
	case errors.Is(err, ErrSubmissionInFlight):
		return "submission_in_flight"
	case errors.Is(err, ErrSubmissionFailed):
		return "submission_failed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}
