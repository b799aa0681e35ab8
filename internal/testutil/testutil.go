// Package testutil provides shared test utilities and grid fixtures.
package testutil

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/banshee-data/gridrebin/internal/grid"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// RampGrid returns a rows x bins count grid whose rows share the edges
// 0..bins. Row boundaries on the axis are 0..rows. Y counts up from 1 in
// row-major order and E = sqrt(Y).
func RampGrid(t testing.TB, rows, bins int) *grid.Grid {
	t.Helper()
	edges, err := grid.UniformBinEdges(0, float64(bins), bins)
	AssertNoError(t, err)
	axis := make([]float64, rows+1)
	for i := range axis {
		axis[i] = float64(i)
	}
	g, err := grid.NewGrid(edges, grid.NewNumericAxis(axis), rows)
	AssertNoError(t, err)
	fillRamp(t, g)
	return g
}

// PerRowGrid is RampGrid with independent edges: row i spans
// [0.1*i, 0.1*i+bins].
func PerRowGrid(t testing.TB, rows, bins int) *grid.Grid {
	t.Helper()
	perRow := make([]*grid.BinEdges, rows)
	for i := range perRow {
		shift := 0.1 * float64(i)
		e, err := grid.UniformBinEdges(shift, shift+float64(bins), bins)
		AssertNoError(t, err)
		perRow[i] = e
	}
	axis := make([]float64, rows+1)
	for i := range axis {
		axis[i] = float64(i)
	}
	g, err := grid.NewGridPerRow(perRow, grid.NewNumericAxis(axis))
	AssertNoError(t, err)
	fillRamp(t, g)
	return g
}

func fillRamp(t testing.TB, g *grid.Grid) {
	t.Helper()
	bins := g.Blocksize()
	y := make([]float64, bins)
	e := make([]float64, bins)
	for i := 0; i < g.NumRows(); i++ {
		for j := range y {
			y[j] = float64(i*bins + j + 1)
			e[j] = math.Sqrt(y[j])
		}
		AssertNoError(t, g.SetRow(i, y, e))
	}
}

// AssertGridsEqual fails the test if the grids differ in shape, flags, axis,
// edges or data by more than tol relative.
func AssertGridsEqual(t testing.TB, want, got *grid.Grid, tol float64) {
	t.Helper()
	if want.NumRows() != got.NumRows() {
		t.Fatalf("rows = %d, want %d", got.NumRows(), want.NumRows())
	}
	if want.IsDistribution() != got.IsDistribution() {
		t.Errorf("distribution = %v, want %v", got.IsDistribution(), want.IsDistribution())
	}
	approx := cmpopts.EquateApprox(tol, 0)
	if (want.Axis() == nil) != (got.Axis() == nil) {
		t.Errorf("axis presence differs: want %v, got %v", want.Axis() != nil, got.Axis() != nil)
	} else if want.Axis() != nil {
		if want.Axis().Kind() != got.Axis().Kind() {
			t.Errorf("axis kind = %s, want %s", got.Axis().Kind(), want.Axis().Kind())
		}
		if diff := cmp.Diff(want.Axis().Values(), got.Axis().Values(), approx); diff != "" {
			t.Errorf("axis mismatch (-want +got):\n%s", diff)
		}
	}
	for i := 0; i < want.NumRows(); i++ {
		if diff := cmp.Diff(want.Edges(i).Values(), got.Edges(i).Values(), approx); diff != "" {
			t.Errorf("row %d edges mismatch (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(want.Y(i), got.Y(i), approx); diff != "" {
			t.Errorf("row %d Y mismatch (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(want.E(i), got.E(i), approx); diff != "" {
			t.Errorf("row %d E mismatch (-want +got):\n%s", i, diff)
		}
	}
}
