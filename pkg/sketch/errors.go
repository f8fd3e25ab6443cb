package sketch

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is classification.
var (
	ErrUnsupportedShape = errors.New("unsupported shape")
	ErrMalformedCurve   = errors.New("malformed curve")
	ErrUnclosedChain    = errors.New("unclosed chain")
)

// UnsupportedShapeError aborts an assembly when a grouping contains a shape
// kind with no sketch equivalent.
type UnsupportedShapeError struct {
	Index int    // position in the input grouping
	Kind  string // offending shape kind
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("sketch: unhandled shape type %s at index %d", e.Kind, e.Index)
}

func (e *UnsupportedShapeError) Unwrap() error { return ErrUnsupportedShape }

// MalformedCurveError describes curve construction input that violates the
// constructor's preconditions. Bezier panics with it.
type MalformedCurveError struct {
	Count  int
	Reason string
}

func (e *MalformedCurveError) Error() string {
	if e.Reason != "" {
		return "sketch: malformed curve: " + e.Reason
	}
	return fmt.Sprintf("sketch: cubic curve needs 4 control points, got %d", e.Count)
}

func (e *MalformedCurveError) Unwrap() error { return ErrMalformedCurve }

// UnclosedChainError reports an open-edge chain that cannot be closed into
// a loop within tolerance.
type UnclosedChainError struct {
	Edge int     // input index of the edge whose end found no continuation
	Gap  float64 // distance in mm from that end to the nearest free endpoint
}

func (e *UnclosedChainError) Error() string {
	return fmt.Sprintf("sketch: chain does not close after edge %d (gap %.6g mm)", e.Edge, e.Gap)
}

func (e *UnclosedChainError) Unwrap() error { return ErrUnclosedChain }
