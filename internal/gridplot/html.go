package gridplot

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/gridrebin/internal/grid"
)

// viridis stops, low to high.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// RenderHTML writes an interactive heatmap of g to w. Each bin is a point at
// its (column centre, row coordinate) coloured by Y, so rows with differing
// boundaries are drawn where they actually lie.
func RenderHTML(w io.Writer, g *grid.Grid, title string) error {
	ys := rowCoords(g)
	points := make([]opts.ScatterData, 0, g.Size())
	var (
		xmin, xmax = math.Inf(1), math.Inf(-1)
		maxVal     float64
	)
	for i := 0; i < g.NumRows(); i++ {
		e := g.Edges(i)
		xmin = math.Min(xmin, e.Min())
		xmax = math.Max(xmax, e.Max())
		for j, v := range g.Y(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			maxVal = math.Max(maxVal, v)
			points = append(points, opts.ScatterData{Value: []interface{}{e.Centre(j), ys[i], v}})
		}
	}
	if len(points) == 0 {
		xmin, xmax = 0, 1
	}
	if maxVal == 0 {
		maxVal = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("rows=%d bins=%d distribution=%v", g.NumRows(), g.Blocksize(), g.IsDistribution())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: xmin, Max: xmax, Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "row", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxVal),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries("Y", points, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render heatmap chart: %w", err)
	}
	return nil
}
