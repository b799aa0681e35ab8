package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the values held by a grid.
type Summary struct {
	Rows         int
	Bins         int // bins in the first row
	Size         int
	Distribution bool
	Common       bool

	TotalY float64 // sum of Y
	TotalE float64 // quadrature sum of E
	MeanY  float64
	StdY   float64
	MinY   float64
	MaxY   float64

	// Integral is the sum of Y in counts form: for a distribution grid each
	// value is multiplied by its bin width first.
	Integral float64
}

// Summarize computes a Summary of g.
func Summarize(g *Grid) Summary {
	s := Summary{
		Rows:         g.NumRows(),
		Bins:         g.Blocksize(),
		Size:         g.Size(),
		Distribution: g.IsDistribution(),
		Common:       CommonBoundaries(g),
	}
	if s.Size == 0 {
		return s
	}

	ys := make([]float64, 0, s.Size)
	var sumSqE float64
	for i := 0; i < g.NumRows(); i++ {
		edges := g.Edges(i)
		ys = append(ys, g.Y(i)...)
		for j, e := range g.E(i) {
			sumSqE += e * e
			v := g.Y(i)[j]
			if s.Distribution {
				v *= edges.Width(j)
			}
			s.Integral += v
		}
	}

	s.TotalY = floats.Sum(ys)
	s.TotalE = math.Sqrt(sumSqE)
	s.MeanY, s.StdY = stat.MeanStdDev(ys, nil)
	if len(ys) == 1 {
		s.StdY = 0
	}
	s.MinY = floats.Min(ys)
	s.MaxY = floats.Max(ys)
	return s
}
