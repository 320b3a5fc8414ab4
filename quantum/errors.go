package quantum

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package matches exactly one of
// these via errors.Is. Kinds that carry data also have a typed form usable with
// errors.As.
var (
	ErrInvalidQubitIndex = errors.New("quantum: invalid qubit index")
	ErrSameQubitIndex    = errors.New("quantum: same qubit index")
	ErrDimensionMismatch = errors.New("quantum: dimension mismatch")
	ErrInvalidState      = errors.New("quantum: invalid state")
	ErrNonUnitaryGate    = errors.New("quantum: gate matrix is not unitary")
	ErrInvalidParameter  = errors.New("quantum: invalid parameter")
	ErrMaxDepthExceeded  = errors.New("quantum: maximum circuit depth exceeded")
	ErrMeasurement       = errors.New("quantum: measurement error")
	ErrNormalization     = errors.New("quantum: normalization error")
)

// InvalidQubitIndexError reports a qubit index outside [0, Size).
type InvalidQubitIndexError struct {
	Index int
	Size  int
}

func (e *InvalidQubitIndexError) Error() string {
	return fmt.Sprintf("%v: %d (register has %d qubits)", ErrInvalidQubitIndex, e.Index, e.Size)
}

func (e *InvalidQubitIndexError) Unwrap() error { return ErrInvalidQubitIndex }

// SameQubitIndexError reports a multi-qubit operation given the same qubit twice.
type SameQubitIndexError struct {
	I int
	J int
}

func (e *SameQubitIndexError) Error() string {
	return fmt.Sprintf("%v: %d and %d", ErrSameQubitIndex, e.I, e.J)
}

func (e *SameQubitIndexError) Unwrap() error { return ErrSameQubitIndex }

// DimensionMismatchError reports a size that does not match what an operation requires.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%v: expected %d, got %d", ErrDimensionMismatch, e.Expected, e.Actual)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// NonUnitaryGateError carries the largest entry of |U†U - I|.
type NonUnitaryGateError struct {
	Name      string
	Deviation float64
}

func (e *NonUnitaryGateError) Error() string {
	return fmt.Sprintf("%v: %s deviates from identity by %.3g", ErrNonUnitaryGate, e.Name, e.Deviation)
}

func (e *NonUnitaryGateError) Unwrap() error { return ErrNonUnitaryGate }

// MaxDepthExceededError reports an append that would push a circuit past its depth limit.
type MaxDepthExceededError struct {
	Limit int
}

func (e *MaxDepthExceededError) Error() string {
	return fmt.Sprintf("%v: limit %d", ErrMaxDepthExceeded, e.Limit)
}

func (e *MaxDepthExceededError) Unwrap() error { return ErrMaxDepthExceeded }

// NormalizationError reports a state whose norm cannot be restored to one.
type NormalizationError struct {
	Norm float64
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%v: observed norm %g", ErrNormalization, e.Norm)
}

func (e *NormalizationError) Unwrap() error { return ErrNormalization }

func invalidParameterf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func invalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func measurementErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMeasurement, fmt.Sprintf(format, args...))
}
