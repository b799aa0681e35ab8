package gridio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gridrebin/internal/grid"
	"github.com/banshee-data/gridrebin/internal/testutil"
)

func TestRoundTrip_SharedEdges(t *testing.T) {
	t.Parallel()
	g := testutil.RampGrid(t, 5, 4)
	g.SetDistribution(true)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))
	got, err := Read(&buf)
	require.NoError(t, err)

	testutil.AssertGridsEqual(t, g, got, 0)
	for i := 1; i < got.NumRows(); i++ {
		assert.Equal(t, got.EdgeHandle(0), got.EdgeHandle(i), "row %d", i)
	}
	assert.Equal(t, 1, got.Arena().Live())
	assert.True(t, grid.CommonBoundaries(got))
}

func TestRoundTrip_MixedSharing(t *testing.T) {
	t.Parallel()
	g := testutil.PerRowGrid(t, 4, 3)
	require.NoError(t, g.ShareRowEdges(3, 1))

	d := FromGrid(g)
	assert.Len(t, d.Edges, 3)
	assert.Equal(t, []int{0, 1, 2, 1}, d.RowEdges)

	got, err := d.Grid()
	require.NoError(t, err)
	testutil.AssertGridsEqual(t, g, got, 0)
	assert.Equal(t, got.EdgeHandle(1), got.EdgeHandle(3))
	assert.NotEqual(t, got.EdgeHandle(0), got.EdgeHandle(1))
	assert.Equal(t, 3, got.Arena().Live())
}

func TestRoundTrip_SpectrumAxis(t *testing.T) {
	t.Parallel()
	g := testutil.RampGrid(t, 3, 2)
	g.SetAxis(grid.NewSpectrumAxis(3))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))
	assert.Contains(t, buf.String(), `"kind": "spectrum"`)

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, grid.SpectrumAxis, got.Axis().Kind())
	assert.Equal(t, []float64{1, 2, 3}, got.Axis().Values())
}

func TestRoundTrip_NoAxis(t *testing.T) {
	t.Parallel()
	g := testutil.RampGrid(t, 2, 2)
	g.SetAxis(nil)

	d := FromGrid(g)
	assert.Nil(t, d.Axis)
	got, err := d.Grid()
	require.NoError(t, err)
	assert.Nil(t, got.Axis())
}

func TestRoundTrip_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "grid.json")
	g := testutil.PerRowGrid(t, 3, 3)

	require.NoError(t, WriteFile(path, g))
	got, err := ReadFile(path)
	require.NoError(t, err)
	testutil.AssertGridsEqual(t, g, got, 0)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDocument_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     Document
		wantErr error
	}{
		{
			name:    "row count mismatch",
			doc:     Document{Edges: [][]float64{{0, 1}}, RowEdges: []int{0, 0}, Y: [][]float64{{1}}, E: [][]float64{{1}}},
			wantErr: grid.ErrShape,
		},
		{
			name:    "edge index out of range",
			doc:     Document{Edges: [][]float64{{0, 1}}, RowEdges: []int{1}, Y: [][]float64{{1}}, E: [][]float64{{1}}},
			wantErr: grid.ErrShape,
		},
		{
			name:    "bin count mismatch",
			doc:     Document{Edges: [][]float64{{0, 1, 2}}, RowEdges: []int{0}, Y: [][]float64{{1}}, E: [][]float64{{1}}},
			wantErr: grid.ErrShape,
		},
		{
			name:    "decreasing edges",
			doc:     Document{Edges: [][]float64{{1, 0}}, RowEdges: []int{0}, Y: [][]float64{{1}}, E: [][]float64{{1}}},
			wantErr: grid.ErrInvalidBoundaries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.doc.Grid()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRead_Malformed(t *testing.T) {
	t.Parallel()
	_, err := Read(strings.NewReader(`{"edges": [[0, 1]`))
	assert.Error(t, err)

	_, err = Read(strings.NewReader(`{"axis": {"kind": "wavelength"}, "edges": [], "row_edges": [], "y": [], "e": []}`))
	assert.Error(t, err)
}
