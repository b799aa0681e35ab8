package grid

import (
	"fmt"
)

// Row is one line of a grid: signal, standard-deviation errors, and a handle
// to the row's bin edges in the owning grid's arena.
type Row struct {
	Y, E  []float64
	edges EdgeHandle
}

// Grid is an ordered collection of rows along a row axis. The distribution
// flag applies to the whole grid: when true Y and E are densities (already
// divided by bin width), otherwise raw counts.
type Grid struct {
	arena        *EdgeArena
	rows         []Row
	axis         *RowAxis
	distribution bool
}

// NewGrid returns a zeroed grid of nrows rows that all share edges.
func NewGrid(edges *BinEdges, axis *RowAxis, nrows int) (*Grid, error) {
	if edges == nil {
		return nil, fmt.Errorf("%w: nil edges", ErrInvalidBoundaries)
	}
	if nrows < 0 {
		return nil, fmt.Errorf("%w: negative row count %d", ErrShape, nrows)
	}
	g := &Grid{arena: NewEdgeArena(), rows: make([]Row, nrows), axis: axis}
	if nrows == 0 {
		return g, nil
	}

	h := g.arena.Add(edges)
	for i := range g.rows {
		if i > 0 {
			g.arena.Retain(h)
		}
		g.rows[i] = newRow(edges.Bins(), h)
	}
	return g, nil
}

// NewGridPerRow returns a zeroed grid with one row per entry in rowEdges.
// Every row gets its own arena slot, even when two entries are the same
// pointer; use ShareRowEdges to share storage explicitly.
func NewGridPerRow(rowEdges []*BinEdges, axis *RowAxis) (*Grid, error) {
	g := &Grid{arena: NewEdgeArena(), rows: make([]Row, len(rowEdges)), axis: axis}
	for i, e := range rowEdges {
		if e == nil {
			return nil, fmt.Errorf("%w: nil edges for row %d", ErrInvalidBoundaries, i)
		}
		g.rows[i] = newRow(e.Bins(), g.arena.Add(e))
	}
	return g, nil
}

func newRow(bins int, h EdgeHandle) Row {
	return Row{Y: make([]float64, bins), E: make([]float64, bins), edges: h}
}

// NumRows returns the number of rows.
func (g *Grid) NumRows() int { return len(g.rows) }

// Blocksize returns the number of bins in the first row, or 0 for an empty
// grid.
func (g *Grid) Blocksize() int {
	if len(g.rows) == 0 {
		return 0
	}
	return len(g.rows[0].Y)
}

// Size returns the total number of Y values over all rows.
func (g *Grid) Size() int {
	n := 0
	for i := range g.rows {
		n += len(g.rows[i].Y)
	}
	return n
}

// Y returns the signal slice of row i. The slice aliases grid storage.
func (g *Grid) Y(i int) []float64 { return g.rows[i].Y }

// E returns the error slice of row i. The slice aliases grid storage.
func (g *Grid) E(i int) []float64 { return g.rows[i].E }

// Edges returns the bin edges of row i.
func (g *Grid) Edges(i int) *BinEdges { return g.arena.Get(g.rows[i].edges) }

// EdgeHandle returns the arena handle of row i.
func (g *Grid) EdgeHandle(i int) EdgeHandle { return g.rows[i].edges }

// AllEdges resolves the edges of every row once. Callers that read edges in
// a hot loop should use this instead of Edges.
func (g *Grid) AllEdges() []*BinEdges {
	out := make([]*BinEdges, len(g.rows))
	for i := range g.rows {
		out[i] = g.arena.Get(g.rows[i].edges)
	}
	return out
}

// Arena returns the arena owning the grid's edges.
func (g *Grid) Arena() *EdgeArena { return g.arena }

// Axis returns the row axis, which may be nil.
func (g *Grid) Axis() *RowAxis { return g.axis }

// SetAxis replaces the row axis.
func (g *Grid) SetAxis(a *RowAxis) { g.axis = a }

// IsDistribution reports whether Y and E are per unit bin width.
func (g *Grid) IsDistribution() bool { return g.distribution }

// SetDistribution sets the distribution flag without touching the data. Use
// ToggleDistribution to convert the values.
func (g *Grid) SetDistribution(d bool) { g.distribution = d }

// SetRow copies y and e into row i. Both must match the row's bin count.
func (g *Grid) SetRow(i int, y, e []float64) error {
	r := &g.rows[i]
	if len(y) != len(r.Y) || len(e) != len(r.E) {
		return fmt.Errorf("%w: row %d has %d bins, got %d signal and %d error values",
			ErrShape, i, len(r.Y), len(y), len(e))
	}
	copy(r.Y, y)
	copy(r.E, e)
	return nil
}

// SetRowEdges gives row i new boundaries with the same bin count. If the row
// shares its edges with other rows, they keep the old edges.
func (g *Grid) SetRowEdges(i int, values []float64) error {
	e, err := NewBinEdges(values)
	if err != nil {
		return err
	}
	if e.Bins() != len(g.rows[i].Y) {
		return fmt.Errorf("%w: row %d has %d bins, new edges describe %d",
			ErrShape, i, len(g.rows[i].Y), e.Bins())
	}
	g.rows[i].edges = g.arena.Replace(g.rows[i].edges, e)
	return nil
}

// ShareRowEdges makes row dst share row src's edges. Both rows must have the
// same bin count.
func (g *Grid) ShareRowEdges(dst, src int) error {
	if len(g.rows[dst].Y) != len(g.rows[src].Y) {
		return fmt.Errorf("%w: row %d has %d bins, row %d has %d",
			ErrShape, dst, len(g.rows[dst].Y), src, len(g.rows[src].Y))
	}
	if g.rows[dst].edges == g.rows[src].edges {
		return nil
	}
	h := g.arena.Retain(g.rows[src].edges)
	g.arena.Release(g.rows[dst].edges)
	g.rows[dst].edges = h
	return nil
}

// Clone returns a deep copy of g. Y, E and the axis are copied; edge sharing
// between rows is preserved in a new arena (BinEdges themselves are immutable
// and are not copied).
func (g *Grid) Clone() *Grid {
	c := &Grid{arena: NewEdgeArena(), rows: make([]Row, len(g.rows)), distribution: g.distribution}
	if g.axis != nil {
		c.axis = g.axis.clone()
	}
	remap := make(map[EdgeHandle]EdgeHandle)
	for i, r := range g.rows {
		h, ok := remap[r.edges]
		if ok {
			c.arena.Retain(h)
		} else {
			h = c.arena.Add(g.arena.Get(r.edges))
			remap[r.edges] = h
		}
		c.rows[i] = Row{
			Y:     append([]float64(nil), r.Y...),
			E:     append([]float64(nil), r.E...),
			edges: h,
		}
	}
	return c
}
