package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Cell returns the axis-aligned cell [xlo, xhi] x [ylo, yhi]. Unlike
// r2.NewBox it does not reorder its arguments, so an inverted span yields a
// cell with non-positive area.
func Cell(xlo, xhi, ylo, yhi float64) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: xlo, Y: ylo},
		Max: r2.Vec{X: xhi, Y: yhi},
	}
}

// Area returns the signed area of c. It is zero or negative for empty or
// inverted cells.
func Area(c r2.Box) float64 {
	return (c.Max.X - c.Min.X) * (c.Max.Y - c.Min.Y)
}

// Intersect returns the intersection of a and b and whether it has positive
// extent on both axes. When ok is false the returned box is meaningless.
func Intersect(a, b r2.Box) (r2.Box, bool) {
	i := r2.Box{
		Min: r2.Vec{X: math.Max(a.Min.X, b.Min.X), Y: math.Max(a.Min.Y, b.Min.Y)},
		Max: r2.Vec{X: math.Min(a.Max.X, b.Max.X), Y: math.Min(a.Max.Y, b.Max.Y)},
	}
	// Written as !(>) so NaN spans count as empty.
	if !(i.Max.X > i.Min.X) || !(i.Max.Y > i.Min.Y) {
		return r2.Box{}, false
	}
	return i, true
}

// Overlap returns the area of the intersection of a and b. Disjoint cells,
// cells that only touch along an edge or corner, and cells with NaN
// coordinates give (0, false).
func Overlap(a, b r2.Box) (area float64, ok bool) {
	i, ok := Intersect(a, b)
	if !ok {
		return 0, false
	}
	return Area(i), true
}
