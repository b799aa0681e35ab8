package grid

import "gonum.org/v1/gonum/floats/scalar"

// MatchOptions holds the thresholds used by CommonBoundaries and
// MatchingBins.
type MatchOptions struct {
	// Tolerance is the relative tolerance for boundary comparisons.
	Tolerance float64
	// MinSampleRows and MaxSampleRows bound the number of rows MatchingBins
	// compares element by element.
	MinSampleRows int
	MaxSampleRows int
	// SampleDivisor sets the target sample size to rows/SampleDivisor before
	// clamping.
	SampleDivisor int
}

// DefaultMatchOptions returns the stock thresholds: 1e-7 relative tolerance
// and a 10..100 row sample targeting one row in ten.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Tolerance:     1e-7,
		MinSampleRows: 10,
		MaxSampleRows: 100,
		SampleDivisor: 10,
	}
}

func (o MatchOptions) withDefaults() MatchOptions {
	d := DefaultMatchOptions()
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MinSampleRows <= 0 {
		o.MinSampleRows = d.MinSampleRows
	}
	if o.MaxSampleRows < o.MinSampleRows {
		o.MaxSampleRows = max(d.MaxSampleRows, o.MinSampleRows)
	}
	if o.SampleDivisor <= 0 {
		o.SampleDivisor = d.SampleDivisor
	}
	return o
}

// SharedEdges reports whether every row of g holds the same edge handle.
func SharedEdges(g *Grid) bool {
	if len(g.rows) < 2 {
		return true
	}
	h := g.rows[0].edges
	for i := 1; i < len(g.rows); i++ {
		if g.rows[i].edges != h {
			return false
		}
	}
	return true
}

// CommonBoundaries reports whether all rows of g have the same boundaries,
// using DefaultMatchOptions.
func CommonBoundaries(g *Grid) bool {
	return CommonBoundariesWith(g, DefaultMatchOptions())
}

// CommonBoundariesWith is CommonBoundaries with explicit thresholds.
//
// Grids with fewer than two rows, or with empty rows, are common. Rows sharing
// one handle are common without looking at values. Otherwise each row's
// boundary sum is compared with the first row's sum at opts.Tolerance. The sum
// comparison is a heuristic: distinct boundaries with equal sums pass.
func CommonBoundariesWith(g *Grid, opts MatchOptions) bool {
	if len(g.rows) < 2 || g.Blocksize() == 0 {
		return true
	}
	if SharedEdges(g) {
		return true
	}
	opts = opts.withDefaults()

	first := g.Edges(0)
	for i := 1; i < len(g.rows); i++ {
		e := g.Edges(i)
		if e.Len() != first.Len() {
			return false
		}
		if !scalar.EqualWithinRel(e.Sum(), first.Sum(), opts.Tolerance) {
			return false
		}
	}
	return true
}

// MatchingBins reports whether a and b have the same bin boundaries, using
// DefaultMatchOptions. See MatchingBinsWith.
func MatchingBins(a, b *Grid, firstRowOnly bool) bool {
	return MatchingBinsWith(a, b, firstRowOnly, DefaultMatchOptions())
}

// MatchingBinsWith compares the first rows of a and b by boundary count and
// boundary sum. Unless firstRowOnly is set it then requires equal total sizes
// and, unless every row of each grid holds one shared edge handle, compares
// the rows chosen by SampledRows element by element. Rows outside the sample
// are not checked.
func MatchingBinsWith(a, b *Grid, firstRowOnly bool, opts MatchOptions) bool {
	if a.NumRows() == 0 || b.NumRows() == 0 {
		return a.NumRows() == b.NumRows()
	}
	opts = opts.withDefaults()

	ea, eb := a.Edges(0), b.Edges(0)
	if ea.Len() != eb.Len() {
		return false
	}
	if !scalar.EqualWithinRel(ea.Sum(), eb.Sum(), opts.Tolerance) {
		return false
	}
	if firstRowOnly {
		return true
	}

	if a.Size() != b.Size() || a.NumRows() != b.NumRows() {
		return false
	}
	if SharedEdges(a) && SharedEdges(b) {
		return true
	}

	for _, i := range SampledRows(a.NumRows(), opts) {
		if !a.Edges(i).Equal(b.Edges(i), opts.Tolerance) {
			return false
		}
	}
	return true
}

// SampledRows returns the row indices MatchingBins compares after the first
// row for a grid of rows rows. The target sample size n is rows/SampleDivisor
// clamped to [MinSampleRows, MaxSampleRows]. Rows s, 2s, 3s, ... are taken
// with stride s = (rows-1)/n (at least 1), so row 0 is never included and the
// result holds min(n, rows-1) indices.
func SampledRows(rows int, opts MatchOptions) []int {
	if rows <= 1 {
		return nil
	}
	opts = opts.withDefaults()

	n := rows / opts.SampleDivisor
	n = min(max(n, opts.MinSampleRows), opts.MaxSampleRows)
	stride := max((rows-1)/n, 1)

	out := make([]int, 0, min(n, rows-1))
	for i := stride; i < rows && len(out) < n; i += stride {
		out = append(out, i)
	}
	return out
}
