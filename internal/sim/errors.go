package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a NaN or Inf position or velocity.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a run parameter outside its valid range.
	ErrParameterBounds = errors.New("sim: parameter out of valid bounds")
)

// SimError wraps an error with the step at which it occurred.
type SimError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
