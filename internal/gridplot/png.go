package gridplot

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/gridrebin/internal/grid"
)

// ErrNotRectangular is returned when a PNG heatmap is requested for a grid
// whose rows do not share boundaries.
var ErrNotRectangular = errors.New("grid rows do not share common boundaries")

// PNGOptions controls RenderPNG.
type PNGOptions struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
	Colors int
}

func (o PNGOptions) withDefaults() PNGOptions {
	if o.Width <= 0 {
		o.Width = 10 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 6 * vg.Inch
	}
	if o.Colors <= 0 {
		o.Colors = 255
	}
	if o.XLabel == "" {
		o.XLabel = "x"
	}
	if o.YLabel == "" {
		o.YLabel = "row"
	}
	return o
}

// heatGrid adapts a grid to plotter.GridXYZ. Columns are bin centres of the
// shared edges.
type heatGrid struct {
	g    *grid.Grid
	xs   []float64
	ys   []float64
	zmin float64
	zmax float64
}

func newHeatGrid(g *grid.Grid) *heatGrid {
	h := &heatGrid{g: g, xs: g.Edges(0).Centres(), ys: rowCoords(g), zmin: math.Inf(1), zmax: math.Inf(-1)}
	for i := 0; i < g.NumRows(); i++ {
		for _, v := range g.Y(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			h.zmin = math.Min(h.zmin, v)
			h.zmax = math.Max(h.zmax, v)
		}
	}
	if h.zmin > h.zmax {
		h.zmin, h.zmax = 0, 1
	}
	if h.zmin == h.zmax {
		h.zmax = h.zmin + 1
	}
	return h
}

func (h *heatGrid) Dims() (c, r int)   { return len(h.xs), len(h.ys) }
func (h *heatGrid) Z(c, r int) float64 { return h.g.Y(r)[c] }
func (h *heatGrid) X(c int) float64    { return h.xs[c] }
func (h *heatGrid) Y(r int) float64    { return h.ys[r] }
func (h *heatGrid) Min() float64       { return h.zmin }
func (h *heatGrid) Max() float64       { return h.zmax }

// RenderPNG draws g as a heatmap and saves it to path. The format follows the
// file extension (png, svg, pdf, ...). The grid must have common boundaries.
func RenderPNG(g *grid.Grid, path string, opts PNGOptions) error {
	if g.NumRows() == 0 || g.Blocksize() == 0 {
		return fmt.Errorf("%w: empty grid", grid.ErrShape)
	}
	if !grid.CommonBoundaries(g) {
		return ErrNotRectangular
	}
	opts = opts.withDefaults()

	cm := moreland.ExtendedBlackBody()
	cm.SetMin(0)
	cm.SetMax(1)

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	p.Add(plotter.NewHeatMap(newHeatGrid(g), cm.Palette(opts.Colors)))

	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("failed to save heatmap %s: %w", path, err)
	}
	diagf("wrote heatmap %s (%dx%d)", path, g.NumRows(), g.Blocksize())
	return nil
}
