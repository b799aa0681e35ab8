package binparams

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/gridrebin/internal/grid"
)

// ErrInvalidParams is returned for malformed parameter lists.
var ErrInvalidParams = errors.New("invalid binning parameters")

// DefaultLastBinFraction is how much longer than one step the final bin of a
// segment may grow before an extra boundary is inserted.
const DefaultLastBinFraction = 0.25

// MaxBoundaries caps the size of an expanded list.
const MaxBoundaries = 10_000_000

// ParseList parses a comma or whitespace separated list of numbers.
func ParseList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrInvalidParams)
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %v", ErrInvalidParams, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Validate checks the shape of params without expanding it: an odd length of
// at least three, finite values, non-zero steps, increasing segment
// boundaries, and a positive start for every logarithmic segment.
func Validate(params []float64) error {
	if len(params) < 3 || len(params)%2 == 0 {
		return fmt.Errorf("%w: need x0, d0, x1[, d1, x2 ...], got %d values", ErrInvalidParams, len(params))
	}
	for i, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: value %d is %v", ErrInvalidParams, i, v)
		}
	}
	for i := 1; i < len(params); i += 2 {
		lo, d, hi := params[i-1], params[i], params[i+1]
		if d == 0 {
			return fmt.Errorf("%w: step %d is zero", ErrInvalidParams, i/2)
		}
		if !(hi > lo) {
			return fmt.Errorf("%w: boundary %g does not exceed %g", ErrInvalidParams, hi, lo)
		}
		if d < 0 && lo <= 0 {
			return fmt.Errorf("%w: logarithmic step %d starts at %g, must be positive", ErrInvalidParams, i/2, lo)
		}
	}
	return nil
}

// Expand returns the boundaries described by params. Within a segment steps
// are taken while x + step*(1+lastBinFraction) stays within the segment's
// upper boundary; the last bin then absorbs the remainder.
func Expand(params []float64, lastBinFraction float64) ([]float64, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}
	if lastBinFraction < 0 {
		return nil, fmt.Errorf("%w: negative last bin fraction %g", ErrInvalidParams, lastBinFraction)
	}

	x := params[0]
	out := []float64{x}
	for i := 1; i < len(params); i += 2 {
		d, bound := params[i], params[i+1]
		for x < bound {
			step := d
			if d < 0 {
				step = x * -d
			}
			if x+step*(1+lastBinFraction) <= bound {
				next := x + step
				if !(next > x) {
					return nil, fmt.Errorf("%w: step %g too small to advance from %g", ErrInvalidParams, step, x)
				}
				x = next
			} else {
				x = bound
			}
			out = append(out, x)
			if len(out) > MaxBoundaries {
				return nil, fmt.Errorf("%w: more than %d boundaries", ErrInvalidParams, MaxBoundaries)
			}
		}
	}
	return out, nil
}

// Edges expands params into a grid.BinEdges.
func Edges(params []float64, lastBinFraction float64) (*grid.BinEdges, error) {
	v, err := Expand(params, lastBinFraction)
	if err != nil {
		return nil, err
	}
	return grid.NewBinEdges(v)
}

// ParseEdges parses s with ParseList and expands it with Edges.
func ParseEdges(s string, lastBinFraction float64) (*grid.BinEdges, error) {
	params, err := ParseList(s)
	if err != nil {
		return nil, err
	}
	return Edges(params, lastBinFraction)
}
