package navigator

import (
	"fmt"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/schema"
)

// ValidationError reports why a step cannot be left. It is non-fatal: the
// wizard stays on the step.
type ValidationError struct {
	Step    int
	Type    schema.Type
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("step %d (%s): %s: %s", e.Step, e.Type, e.Field, e.Message)
	}
	return fmt.Sprintf("step %d (%s): %s", e.Step, e.Type, e.Message)
}

// Unwrap lets errors.Is match orderflow.ErrValidationFailed.
func (e *ValidationError) Unwrap() error { return orderflow.ErrValidationFailed }

func invalid(step schema.Step, key, msg string) *ValidationError {
	return &ValidationError{Step: step.Number, Type: step.Type, Field: key, Message: msg}
}
