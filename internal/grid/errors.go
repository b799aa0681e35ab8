package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBoundaries is returned when a boundary list is too short,
	// contains non-finite values, or is not strictly increasing.
	ErrInvalidBoundaries = errors.New("invalid bin boundaries")

	// ErrUnsupportedAxis is returned when a row axis cannot be resampled.
	ErrUnsupportedAxis = errors.New("unsupported row axis")

	// ErrShape is returned when Y, E and edge lengths disagree.
	ErrShape = errors.New("grid shape mismatch")
)

// AxisError reports why a row axis was rejected. It unwraps to
// ErrUnsupportedAxis so callers can test with errors.Is.
type AxisError struct {
	Kind   AxisKind
	Reason string
}

func (e *AxisError) Error() string {
	return fmt.Sprintf("%s: %s axis: %s", ErrUnsupportedAxis, e.Kind, e.Reason)
}

func (e *AxisError) Unwrap() error { return ErrUnsupportedAxis }
