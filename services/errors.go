// ABOUTME: Typed validation errors for calculator inputs
// ABOUTME: Each error names the offending parameter so callers can report precisely

package services

import (
	"errors"
	"fmt"
)

// MissingParameterError reports a required parameter with no values.
type MissingParameterError struct {
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Param)
}

// DomainError reports a parameter value outside its mathematical domain.
type DomainError struct {
	Param      string
	Value      float64
	Constraint string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("parameter %q must be %s, got %v", e.Param, e.Constraint, e.Value)
}

// DegenerateHazardRatioError reports theta equal to 1, where the log hazard
// ratio is zero and the required sample size is unbounded.
type DegenerateHazardRatioError struct{}

func (e *DegenerateHazardRatioError) Error() string {
	return `parameter "theta" must not equal 1: the log hazard ratio is zero and no finite sample size exists`
}

// GridSizeError reports a parameter grid larger than the configured limit.
type GridSizeError struct {
	Size int
	Max  int
}

func (e *GridSizeError) Error() string {
	return fmt.Sprintf("parameter grid expands to %d combinations, exceeding the limit of %d", e.Size, e.Max)
}

// IsValidationError reports whether err describes rejected input, as
// opposed to an execution failure such as a cancelled context.
func IsValidationError(err error) bool {
	var (
		missing    *MissingParameterError
		domain     *DomainError
		degenerate *DegenerateHazardRatioError
		grid       *GridSizeError
	)
	return errors.As(err, &missing) || errors.As(err, &domain) ||
		errors.As(err, &degenerate) || errors.As(err, &grid)
}
