package rebin

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/gridrebin/internal/config"
	"github.com/banshee-data/gridrebin/internal/geom"
	"github.com/banshee-data/gridrebin/internal/grid"
	"github.com/banshee-data/gridrebin/internal/timeutil"
)

// Status is the outcome of a rebin run that did not fail.
type Status int

const (
	// StatusComplete means every output row was written.
	StatusComplete Status = iota
	// StatusInterrupted means the context was cancelled and only the rows
	// marked in Result.Completed were written.
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the output of Engine.Rebin.
type Result struct {
	Grid      *grid.Grid
	Status    Status
	Completed []bool // per output row
	RowsDone  int
	Elapsed   time.Duration
}

// Interrupted reports whether the run stopped before writing every row.
func (r *Result) Interrupted() bool { return r.Status == StatusInterrupted }

// Config controls an Engine.
type Config struct {
	// Workers bounds the number of rows processed concurrently. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int
	// ProgressLogEvery logs a diag line every N completed rows. Zero
	// disables it.
	ProgressLogEvery int
	// Progress, if set, is notified once per completed row.
	Progress Progress
	// Clock times runs. Nil means timeutil.RealClock.
	Clock timeutil.Clock
}

// ConfigFromRebinConfig builds an engine Config from file configuration.
func ConfigFromRebinConfig(c *config.RebinConfig) Config {
	return Config{
		Workers:          c.GetWorkers(),
		ProgressLogEvery: c.GetProgressLogEvery(),
	}
}

// Engine rebins grids onto new row and column boundaries. An Engine holds no
// per-run state and may be used for concurrent runs.
type Engine struct {
	cfg Config
}

// NewEngine returns an Engine using cfg.
func NewEngine(cfg Config) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Clock == nil {
		cfg.Clock = timeutil.RealClock{}
	}
	return &Engine{cfg: cfg}
}

// Workers returns the effective worker limit.
func (e *Engine) Workers() int { return e.cfg.Workers }

// Rebin resamples in onto newRows x newCols.
//
// The input row axis must be numeric and strictly increasing, with either one
// value per row (centres) or one more (boundaries); any other axis fails with
// an error wrapping grid.ErrUnsupportedAxis before work starts. The output has
// newRows.Bins() rows sharing newCols, a numeric axis of row centres, and the
// input's distribution flag.
//
// Each output row is one task. ctx is checked before a row is dispatched and
// again when it starts; a row that has started always finishes. If ctx is
// cancelled first, Rebin returns a Result with StatusInterrupted holding the
// rows that were written, and a nil error.
func (e *Engine) Rebin(ctx context.Context, in *grid.Grid, newCols, newRows *grid.BinEdges) (*Result, error) {
	start := e.cfg.Clock.Now()

	if in == nil {
		return nil, fmt.Errorf("%w: nil input grid", grid.ErrShape)
	}
	if newCols == nil || newRows == nil {
		return nil, fmt.Errorf("%w: nil target boundaries", grid.ErrInvalidBoundaries)
	}
	src, err := e.prepare(in)
	if err != nil {
		return nil, err
	}

	nrows := newRows.Bins()
	out, err := grid.NewGrid(newCols, grid.NewNumericAxis(make([]float64, nrows)), nrows)
	if err != nil {
		return nil, fmt.Errorf("allocate output grid: %w", err)
	}
	out.SetDistribution(in.IsDistribution())

	res := &Result{Grid: out, Completed: make([]bool, nrows)}
	progress := newSerialProgress(e.cfg.Progress, nrows, e.cfg.ProgressLogEvery)

	g := new(errgroup.Group)
	g.SetLimit(e.cfg.Workers)
	for r := 0; r < nrows; r++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			e.rebinRow(src, out, newCols, newRows, r)
			res.Completed[r] = true
			progress.rowDone()
			return nil
		})
	}
	// Row tasks never fail.
	_ = g.Wait()

	res.RowsDone = progress.count()
	res.Elapsed = e.cfg.Clock.Since(start)
	if res.RowsDone < nrows {
		res.Status = StatusInterrupted
		opsf("interrupted after %d/%d rows: %v", res.RowsDone, nrows, context.Cause(ctx))
	}
	diagf("rebinned %dx%d -> %dx%d in %s (workers=%d, status=%s)",
		in.NumRows(), in.Blocksize(), nrows, newCols.Bins(), res.Elapsed, e.cfg.Workers, res.Status)
	return res, nil
}

// prepare validates the input row axis and captures a read-only view of in.
func (e *Engine) prepare(in *grid.Grid) (*source, error) {
	axis := in.Axis()
	if axis == nil {
		return nil, &grid.AxisError{Kind: grid.SpectrumAxis, Reason: "grid has no row axis"}
	}
	if axis.Kind() != grid.NumericAxis {
		return nil, &grid.AxisError{Kind: axis.Kind(),
			Reason: "not a numeric axis; convert the spectrum axis to a numeric axis first"}
	}
	if in.NumRows() == 0 {
		return &source{distribution: in.IsDistribution()}, nil
	}
	rows, err := axis.Boundaries(in.NumRows())
	if err != nil {
		return nil, err
	}
	return newSource(in, rows), nil
}

// rebinRow fills output row r. It writes only out.Y(r), out.E(r) and axis
// slot r.
func (e *Engine) rebinRow(src *source, out *grid.Grid, newCols, newRows *grid.BinEdges, r int) {
	ylo, yhi := newRows.Bin(r)
	out.Axis().SetValue(r, 0.5*(ylo+yhi))

	y, ev := out.Y(r), out.E(r)
	if src.rows == nil {
		return
	}

	var (
		buf     = make([]Overlap, 0, typicalOverlaps)
		touched int
	)
	for c := 0; c < newCols.Bins(); c++ {
		xlo, xhi := newCols.Bin(c)
		buf = FindOverlaps(src.rows, src.cols, geom.Cell(xlo, xhi, ylo, yhi), buf)
		touched += len(buf)
		y[c], ev[c] = src.aggregate(buf, xhi-xlo)
	}
	tracef("row %d [%g, %g]: %d overlaps", r, ylo, yhi, touched)
}
