package rebin

import (
	"math"

	"github.com/banshee-data/gridrebin/internal/grid"
)

// source is a read-only view of the input grid shared by all row tasks.
type source struct {
	rows         *grid.BinEdges
	cols         []*grid.BinEdges
	y, e         [][]float64
	distribution bool
}

func newSource(in *grid.Grid, rows *grid.BinEdges) *source {
	s := &source{
		rows:         rows,
		cols:         in.AllEdges(),
		y:            make([][]float64, in.NumRows()),
		e:            make([][]float64, in.NumRows()),
		distribution: in.IsDistribution(),
	}
	for i := range s.y {
		s.y[i] = in.Y(i)
		s.e[i] = in.E(i)
	}
	return s
}

// aggregate combines the old cells listed in overlaps into one target value.
//
// For counts, Y = sum(w*y) and E = sqrt(sum((w*e)^2)). For distributions each
// contribution is first scaled by its old column width, and the totals are
// divided by newWidth. No overlaps give (0, 0).
func (s *source) aggregate(overlaps []Overlap, newWidth float64) (y, e float64) {
	var sumY, sumE2 float64
	for _, o := range overlaps {
		yk, ek := s.y[o.Row][o.Col], s.e[o.Row][o.Col]
		if s.distribution {
			w := s.cols[o.Row].Width(o.Col)
			yk *= w
			ek *= w
		}
		sumY += o.Weight * yk
		we := o.Weight * ek
		sumE2 += we * we
	}
	e = math.Sqrt(sumE2)
	if s.distribution && len(overlaps) > 0 {
		sumY /= newWidth
		e /= newWidth
	}
	return sumY, e
}
