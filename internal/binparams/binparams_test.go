package binparams

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gridrebin/internal/grid"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   []float64
		fraction float64
		want     []float64
	}{
		{"linear", []float64{0, 1, 5}, 0.25, []float64{0, 1, 2, 3, 4, 5}},
		{"last bin absorbs remainder", []float64{0, 1, 4.2}, 0.25, []float64{0, 1, 2, 3, 4.2}},
		{"remainder beyond fraction", []float64{0, 1, 4.3}, 0.25, []float64{0, 1, 2, 3, 4, 4.3}},
		{"zero fraction", []float64{0, 1, 4.2}, 0, []float64{0, 1, 2, 3, 4, 4.2}},
		{"logarithmic", []float64{1, -1, 8}, 0.25, []float64{1, 2, 4, 8}},
		{"two segments", []float64{0, 0.5, 1, 1, 3}, 0.25, []float64{0, 0.5, 1, 2, 3}},
		{"linear then log", []float64{-1, 1, 1, -0.5, 3}, 0.25, []float64{-1, 0, 1, 1.5, 2.25, 3}},
		{"step wider than segment", []float64{0, 10, 1}, 0.25, []float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Expand(tt.params, tt.fraction)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("Expand(%v) mismatch (-want +got):\n%s", tt.params, diff)
			}
		})
	}
}

func TestExpand_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   []float64
		fraction float64
	}{
		{"empty", nil, 0.25},
		{"too short", []float64{0, 1}, 0.25},
		{"even length", []float64{0, 1, 2, 3}, 0.25},
		{"zero step", []float64{0, 0, 1}, 0.25},
		{"decreasing bound", []float64{2, 1, 1}, 0.25},
		{"log from zero", []float64{0, -1, 10}, 0.25},
		{"log from negative", []float64{-5, -1, 10}, 0.25},
		{"nan", []float64{0, math.NaN(), 1}, 0.25},
		{"inf", []float64{0, 1, math.Inf(1)}, 0.25},
		{"negative fraction", []float64{0, 1, 2}, -0.5},
		{"too many bins", []float64{0, 1e-9, 1}, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Expand(tt.params, tt.fraction)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestExpand_StrictlyIncreasing(t *testing.T) {
	t.Parallel()
	got, err := Expand([]float64{0.001, -0.02, 10, 0.5, 20}, DefaultLastBinFraction)
	require.NoError(t, err)
	for i := 1; i < len(got); i++ {
		require.Greater(t, got[i], got[i-1], "index %d", i)
	}
	assert.Equal(t, 0.001, got[0])
	assert.Equal(t, 20.0, got[len(got)-1])
	assert.Contains(t, got, 10.0)
}

func TestParseList(t *testing.T) {
	t.Parallel()

	got, err := ParseList("0, 0.1 ,1")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.1, 1}, got)

	got, err = ParseList("1 -0.5\t8")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -0.5, 8}, got)

	_, err = ParseList("")
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = ParseList(" , ")
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = ParseList("0,x,1")
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestEdges(t *testing.T) {
	t.Parallel()

	e, err := ParseEdges("0,0.5,2", DefaultLastBinFraction)
	require.NoError(t, err)
	assert.Equal(t, 4, e.Bins())
	assert.Equal(t, 2.0, e.Max())

	_, err = Edges([]float64{1}, DefaultLastBinFraction)
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.NotErrorIs(t, err, grid.ErrInvalidBoundaries)

	_, err = ParseEdges("nope", DefaultLastBinFraction)
	assert.ErrorIs(t, err, ErrInvalidParams)
}
