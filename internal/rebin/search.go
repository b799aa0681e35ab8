package rebin

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/gridrebin/internal/geom"
	"github.com/banshee-data/gridrebin/internal/grid"
)

// Overlap records that old cell (Row, Col) overlaps a target cell. Weight is
// the fraction of the old cell's area inside the target, in (0, 1].
type Overlap struct {
	Row, Col int
	Weight   float64
}

// typicalOverlaps is the usual number of old cells touching one target cell.
const typicalOverlaps = 5

// minCellArea is the smallest old-cell area used as a weight denominator.
const minCellArea = 0x1p-1022

// FindOverlaps appends to dst[:0] every old cell that overlaps target and
// returns the result. rowEdges are the old row boundaries; colEdges[i] are the
// column boundaries of old row i, so grids whose rows are binned differently
// are handled. Both edge lists must be strictly increasing, which lets the
// scan stop at the first row or column past the target.
//
// Rows are rejected on y before their columns are touched. Old cells with
// zero, denormal or NaN area are skipped.
func FindOverlaps(rowEdges *grid.BinEdges, colEdges []*grid.BinEdges, target r2.Box, dst []Overlap) []Overlap {
	if dst == nil {
		dst = make([]Overlap, 0, typicalOverlaps)
	}
	dst = dst[:0]

	for i := 0; i < rowEdges.Bins(); i++ {
		ylo, yhi := rowEdges.Bin(i)
		if yhi < target.Min.Y {
			continue
		}
		if ylo > target.Max.Y {
			break
		}

		cols := colEdges[i]
		for j := 0; j < cols.Bins(); j++ {
			xlo, xhi := cols.Bin(j)
			if xhi < target.Min.X {
				continue
			}
			if xlo > target.Max.X {
				break
			}

			old := geom.Cell(xlo, xhi, ylo, yhi)
			oldArea := geom.Area(old)
			if !(oldArea >= minCellArea) || math.IsInf(oldArea, 0) {
				continue
			}
			area, ok := geom.Overlap(target, old)
			if !ok {
				continue
			}
			dst = append(dst, Overlap{Row: i, Col: j, Weight: area / oldArea})
		}
	}
	return dst
}
