package gridio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/banshee-data/gridrebin/internal/grid"
)

// Document is the serialized form of a grid.
type Document struct {
	Distribution bool        `json:"distribution"`
	Axis         *AxisDoc    `json:"axis,omitempty"`
	Edges        [][]float64 `json:"edges"`
	RowEdges     []int       `json:"row_edges"`
	Y            [][]float64 `json:"y"`
	E            [][]float64 `json:"e"`
}

// AxisDoc is the serialized row axis.
type AxisDoc struct {
	Kind   string    `json:"kind"`
	Values []float64 `json:"values,omitempty"`
}

// FromGrid captures g in a Document. Y, E and axis values are copied.
func FromGrid(g *grid.Grid) *Document {
	d := &Document{
		Distribution: g.IsDistribution(),
		RowEdges:     make([]int, g.NumRows()),
		Y:            make([][]float64, g.NumRows()),
		E:            make([][]float64, g.NumRows()),
	}
	if a := g.Axis(); a != nil {
		d.Axis = &AxisDoc{Kind: a.Kind().String(), Values: a.Values()}
	}

	index := make(map[grid.EdgeHandle]int)
	for i := 0; i < g.NumRows(); i++ {
		h := g.EdgeHandle(i)
		k, ok := index[h]
		if !ok {
			k = len(d.Edges)
			index[h] = k
			d.Edges = append(d.Edges, g.Edges(i).Values())
		}
		d.RowEdges[i] = k
		d.Y[i] = append([]float64(nil), g.Y(i)...)
		d.E[i] = append([]float64(nil), g.E(i)...)
	}
	return d
}

// Grid rebuilds the grid described by d. Rows that reference the same edge
// array share one arena slot.
func (d *Document) Grid() (*grid.Grid, error) {
	n := len(d.RowEdges)
	if len(d.Y) != n || len(d.E) != n {
		return nil, fmt.Errorf("%w: %d row edge refs, %d signal rows, %d error rows",
			grid.ErrShape, n, len(d.Y), len(d.E))
	}

	edges := make([]*grid.BinEdges, len(d.Edges))
	for k, v := range d.Edges {
		e, err := grid.NewBinEdges(v)
		if err != nil {
			return nil, fmt.Errorf("edge array %d: %w", k, err)
		}
		edges[k] = e
	}

	perRow := make([]*grid.BinEdges, n)
	for i, k := range d.RowEdges {
		if k < 0 || k >= len(edges) {
			return nil, fmt.Errorf("%w: row %d references edge array %d of %d", grid.ErrShape, i, k, len(edges))
		}
		perRow[i] = edges[k]
	}

	var axis *grid.RowAxis
	if d.Axis != nil {
		kind, err := grid.ParseAxisKind(d.Axis.Kind)
		if err != nil {
			return nil, err
		}
		switch kind {
		case grid.SpectrumAxis:
			axis = grid.NewSpectrumAxis(len(d.Axis.Values))
			for i, v := range d.Axis.Values {
				axis.SetValue(i, v)
			}
		default:
			axis = grid.NewNumericAxis(d.Axis.Values)
		}
	}

	g, err := grid.NewGridPerRow(perRow, axis)
	if err != nil {
		return nil, err
	}
	first := make(map[int]int, len(edges))
	for i, k := range d.RowEdges {
		if j, ok := first[k]; ok {
			if err := g.ShareRowEdges(i, j); err != nil {
				return nil, err
			}
			continue
		}
		first[k] = i
	}
	for i := 0; i < n; i++ {
		if err := g.SetRow(i, d.Y[i], d.E[i]); err != nil {
			return nil, err
		}
	}
	g.SetDistribution(d.Distribution)
	return g, nil
}

// Write encodes g as indented JSON.
func Write(w io.Writer, g *grid.Grid) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGrid(g)); err != nil {
		return fmt.Errorf("encode grid: %w", err)
	}
	return nil
}

// Read decodes a grid from JSON.
func Read(r io.Reader) (*grid.Grid, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode grid: %w", err)
	}
	return d.Grid()
}

// ReadFile reads a grid from a .json file.
func ReadFile(path string) (*grid.Grid, error) {
	cleanPath := filepath.Clean(path)
	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// WriteFile writes g to path, replacing any existing file.
func WriteFile(path string, g *grid.Grid) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create grid file: %w", err)
	}
	if err := Write(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
