package gridplot

import "github.com/banshee-data/gridrebin/internal/grid"

// rowCoords returns one y coordinate per row: bin centres for a numeric
// boundary axis, the values themselves for a centres or spectrum axis, and the
// row index when the grid has no usable axis.
func rowCoords(g *grid.Grid) []float64 {
	n := g.NumRows()
	out := make([]float64, n)
	a := g.Axis()
	switch {
	case a == nil:
	case a.Kind() == grid.NumericAxis:
		if b, err := a.Boundaries(n); err == nil {
			return b.Centres()
		}
	case a.Len() == n:
		return a.Values()
	}
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
