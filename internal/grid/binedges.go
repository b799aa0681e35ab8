package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// BinEdges is an ordered list of strictly increasing bin boundaries along one
// axis. A BinEdges value is immutable once constructed, so a single instance
// can be shared by many rows and read from many goroutines.
type BinEdges struct {
	values []float64
	sum    float64
}

// NewBinEdges validates values and returns a BinEdges holding a private copy
// of them. It fails with ErrInvalidBoundaries if fewer than two values are
// given, if any value is NaN or infinite, or if the values are not strictly
// increasing.
func NewBinEdges(values []float64) (*BinEdges, error) {
	if err := checkEdges(values); err != nil {
		return nil, err
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &BinEdges{values: v, sum: floats.Sum(v)}, nil
}

// MustBinEdges is like NewBinEdges but panics on invalid input. Intended for
// fixtures and literals known to be valid.
func MustBinEdges(values ...float64) *BinEdges {
	e, err := NewBinEdges(values)
	if err != nil {
		panic(err)
	}
	return e
}

// UniformBinEdges returns n equal-width bins spanning [lo, hi].
func UniformBinEdges(lo, hi float64, n int) (*BinEdges, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least one bin, got %d", ErrInvalidBoundaries, n)
	}
	v := floats.Span(make([]float64, n+1), lo, hi)
	return NewBinEdges(v)
}

// EdgesFromCentres converts bin centres into boundaries. Interior boundaries
// are the midpoints between neighbouring centres; the outer boundaries are
// extrapolated by half the adjacent spacing. A single centre c becomes the
// unit bin [c-0.5, c+0.5].
func EdgesFromCentres(centres []float64) (*BinEdges, error) {
	n := len(centres)
	switch n {
	case 0:
		return nil, fmt.Errorf("%w: no centres", ErrInvalidBoundaries)
	case 1:
		return NewBinEdges([]float64{centres[0] - 0.5, centres[0] + 0.5})
	}

	edges := make([]float64, 0, n+1)
	edges = append(edges, centres[0]-(centres[1]-centres[0])/2)
	for i := 1; i < n; i++ {
		edges = append(edges, (centres[i-1]+centres[i])/2)
	}
	edges = append(edges, centres[n-1]+(centres[n-1]-centres[n-2])/2)
	return NewBinEdges(edges)
}

func checkEdges(values []float64) error {
	if len(values) < 2 {
		return fmt.Errorf("%w: need at least 2 boundaries, got %d", ErrInvalidBoundaries, len(values))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: boundary %d is %v", ErrInvalidBoundaries, i, v)
		}
		if i > 0 && !(v > values[i-1]) {
			return fmt.Errorf("%w: boundary %d (%g) does not exceed boundary %d (%g)",
				ErrInvalidBoundaries, i, v, i-1, values[i-1])
		}
	}
	return nil
}

// Len returns the number of boundaries.
func (e *BinEdges) Len() int { return len(e.values) }

// Bins returns the number of bins, Len()-1.
func (e *BinEdges) Bins() int { return len(e.values) - 1 }

// At returns boundary i.
func (e *BinEdges) At(i int) float64 { return e.values[i] }

// Bin returns the lower and upper boundary of bin i.
func (e *BinEdges) Bin(i int) (lo, hi float64) { return e.values[i], e.values[i+1] }

// Width returns the width of bin i.
func (e *BinEdges) Width(i int) float64 { return e.values[i+1] - e.values[i] }

// Centre returns the midpoint of bin i.
func (e *BinEdges) Centre(i int) float64 { return 0.5 * (e.values[i] + e.values[i+1]) }

// Min returns the first boundary.
func (e *BinEdges) Min() float64 { return e.values[0] }

// Max returns the last boundary.
func (e *BinEdges) Max() float64 { return e.values[len(e.values)-1] }

// Sum returns the sum of all boundaries. It is computed once at construction
// and used by the common-boundary heuristics.
func (e *BinEdges) Sum() float64 { return e.sum }

// Values returns a copy of the boundaries.
func (e *BinEdges) Values() []float64 {
	v := make([]float64, len(e.values))
	copy(v, e.values)
	return v
}

// Centres returns the midpoint of every bin.
func (e *BinEdges) Centres() []float64 {
	c := make([]float64, e.Bins())
	for i := range c {
		c[i] = e.Centre(i)
	}
	return c
}

// Equal reports whether e and o have the same number of boundaries and every
// pair agrees within the relative tolerance tol.
func (e *BinEdges) Equal(o *BinEdges, tol float64) bool {
	if e == o {
		return true
	}
	if e == nil || o == nil || len(e.values) != len(o.values) {
		return false
	}
	for i := range e.values {
		if !scalar.EqualWithinRel(e.values[i], o.values[i], tol) {
			return false
		}
	}
	return true
}

func (e *BinEdges) String() string {
	if e == nil {
		return "BinEdges(nil)"
	}
	return fmt.Sprintf("BinEdges[%d bins, %g..%g]", e.Bins(), e.Min(), e.Max())
}
