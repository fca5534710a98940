package vector

import (
	"errors"
	"fmt"
)

// ErrInvalidVector is matched (via errors.Is) by every validation error
// returned from this package.
var ErrInvalidVector = errors.New("vector: invalid vector")

// RankError indicates an input that is not a flat (rank-1) sequence.
type RankError struct {
	Rank int
}

func (e *RankError) Error() string {
	return fmt.Sprintf("vector: input must be 1D for vector, got %dD", e.Rank)
}

func (e *RankError) Unwrap() error { return ErrInvalidVector }

// ShapeError indicates an external sparse array whose shape is neither (n,)
// nor (1,n).
type ShapeError struct {
	Shape []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("vector: sparse array must be (n,) or (1,n) for vector, got %v", e.Shape)
}

func (e *ShapeError) Unwrap() error { return ErrInvalidVector }

// MissingArgumentError indicates a sparse construction mode that requires an
// explicit dimension but was given none.
type MissingArgumentError struct {
	Source string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("vector: sparse vector from %s requires a dimension, got none", e.Source)
}

func (e *MissingArgumentError) Unwrap() error { return ErrInvalidVector }

// ExtraArgumentError indicates a sparse construction mode that derives its
// dimension from the input but was also given an explicit one.
type ExtraArgumentError struct {
	Source string
	Dim    int
}

func (e *ExtraArgumentError) Error() string {
	return fmt.Sprintf("vector: sparse vector from %s takes no dimension, got dim=%d", e.Source, e.Dim)
}

func (e *ExtraArgumentError) Unwrap() error { return ErrInvalidVector }

// DimensionMismatchError indicates a value whose length differs from the
// declared column width.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector: expected %d dimensions, not %d", e.Expected, e.Actual)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrInvalidVector }

// LengthMismatchError indicates a sparse vector whose indices and values
// differ in length.
type LengthMismatchError struct {
	Indices int
	Values  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("vector: sparse indices length %d differs from values length %d", e.Indices, e.Values)
}

func (e *LengthMismatchError) Unwrap() error { return ErrInvalidVector }

// DimensionRangeError indicates a dimension the wire format cannot carry.
type DimensionRangeError struct {
	Dim int
	Max int
}

func (e *DimensionRangeError) Error() string {
	if e.Dim < 0 {
		return fmt.Sprintf("vector: dimension must be non-negative, got %d", e.Dim)
	}
	return fmt.Sprintf("vector: dimension must be < %d, got %d", e.Max+1, e.Dim)
}

func (e *DimensionRangeError) Unwrap() error { return ErrInvalidVector }

// IndexRangeError indicates a sparse index outside [0, Dim).
type IndexRangeError struct {
	Index int
	Dim   int
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("vector: index %d out of range for dimension %d", e.Index, e.Dim)
}

func (e *IndexRangeError) Unwrap() error { return ErrInvalidVector }

// ParseError indicates a malformed text or binary wire value.
type ParseError struct {
	Type   string
	Input  string
	Reason string
	cause  error
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("vector: failed to parse %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("vector: failed to parse %s from %q: %s", e.Type, e.Input, e.Reason)
}

// Unwrap returns the underlying cause when there is one.
func (e *ParseError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrInvalidVector, e.cause}
	}
	return []error{ErrInvalidVector}
}

// TypeError indicates a Go value that cannot be coerced into a vector.
type TypeError struct {
	Type   string
	Source any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("vector: cannot convert %T to %s", e.Source, e.Type)
}

func (e *TypeError) Unwrap() error { return ErrInvalidVector }

func truncated(typ string, want, got int) *ParseError {
	return &ParseError{Type: typ, Reason: fmt.Sprintf("need %d bytes, got %d", want, got)}
}
