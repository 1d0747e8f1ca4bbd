package billing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmuseri/facturapp/validation"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid state")
)

// ValidationError carries every field violation found in one input.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + "=" + e.Violations[f]
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Code is the machine-readable error code.
func (e *ValidationError) Code() string { return "validation_failed" }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// InvalidStateError reports an operation attempted in a state that forbids it.
type InvalidStateError struct {
	Entity string
	ID     uint
	State  string
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %d: cannot %s in state %s", e.Entity, e.ID, e.Op, e.State)
}

// Code is the machine-readable error code.
func (e *InvalidStateError) Code() string { return "invalid_state" }

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }
