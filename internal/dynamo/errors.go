package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidStep indicates a non-positive or non-finite step size.
	ErrInvalidStep = errors.New("dynamo: step size must be positive and finite")

	// ErrInvalidSpan indicates a time span with end before start or non-finite bounds.
	ErrInvalidSpan = errors.New("dynamo: invalid time span")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
