package ndarray

import "errors"

// Sentinel errors for operand construction and elementwise operations.
// Callers match with errors.Is; messages carry the offending detail via
// fmt.Errorf("...: %w", Err...) wrapping at the failure site.
var (
	// ErrShapeMismatch is returned when two array operands of a binary
	// operation do not have identical shapes.
	ErrShapeMismatch = errors.New("ndarray: shape mismatch")

	// ErrDivisionByZero is returned when a division denominator is zero
	// or is an array containing any zero element. The check runs before
	// the operation so a failed division has no observable effect.
	ErrDivisionByZero = errors.New("ndarray: division by zero")

	// ErrInvalidDType is returned when an operation does not support an
	// operand's element type (e.g. bitwise ops over floats).
	ErrInvalidDType = errors.New("ndarray: invalid dtype for operation")

	// ErrBadShape is returned for non-positive dimensions or data that
	// does not fill the declared shape.
	ErrBadShape = errors.New("ndarray: bad shape")

	// ErrBadValue is returned when raw input cannot be decoded into a
	// homogeneous numeric array.
	ErrBadValue = errors.New("ndarray: bad value")
)
