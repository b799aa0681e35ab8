package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/gridrebin/internal/grid"
)

// genParams describes a synthetic grid: a Gaussian peak on a flat
// background, optionally with Poisson noise.
type genParams struct {
	rows, bins   int
	xmin, xmax   float64
	logColumns   bool
	jitter       float64 // per-row edge shift, as a fraction of the first bin width
	peak         float64
	background   float64
	sigma        float64 // peak width, as a fraction of the column range
	noise        bool
	seed         uint64
	distribution bool
}

func (p genParams) validate() error {
	switch {
	case p.rows < 1 || p.bins < 1:
		return fmt.Errorf("rows and bins must be positive, got %d and %d", p.rows, p.bins)
	case !(p.xmax > p.xmin):
		return fmt.Errorf("xmax (%g) must exceed xmin (%g)", p.xmax, p.xmin)
	case p.logColumns && p.xmin <= 0:
		return fmt.Errorf("log columns need xmin > 0, got %g", p.xmin)
	case p.jitter < 0 || p.jitter >= 1:
		return fmt.Errorf("jitter must be in [0, 1), got %g", p.jitter)
	case p.peak < 0 || p.background < 0:
		return fmt.Errorf("peak and background must not be negative")
	case p.sigma <= 0:
		return fmt.Errorf("sigma must be positive, got %g", p.sigma)
	}
	return nil
}

func columnEdges(p genParams) []float64 {
	edges := make([]float64, p.bins+1)
	if !p.logColumns {
		return floats.Span(edges, p.xmin, p.xmax)
	}
	floats.Span(edges, math.Log(p.xmin), math.Log(p.xmax))
	for i, v := range edges {
		edges[i] = math.Exp(v)
	}
	edges[0], edges[p.bins] = p.xmin, p.xmax
	return edges
}

// generate builds the grid described by p. Row i spans [i, i+1] on a numeric
// boundary axis.
func generate(p genParams) (*grid.Grid, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(p.seed, p.seed^0x9e3779b97f4a7c15))

	base := columnEdges(p)
	axis := make([]float64, p.rows+1)
	floats.Span(axis, 0, float64(p.rows))

	var (
		g   *grid.Grid
		err error
	)
	if p.jitter == 0 {
		var e *grid.BinEdges
		if e, err = grid.NewBinEdges(base); err != nil {
			return nil, err
		}
		g, err = grid.NewGrid(e, grid.NewNumericAxis(axis), p.rows)
	} else {
		perRow := make([]*grid.BinEdges, p.rows)
		shifted := make([]float64, len(base))
		w0 := base[1] - base[0]
		for i := range perRow {
			off := (2*rng.Float64() - 1) * p.jitter * w0
			for j, v := range base {
				shifted[j] = v + off
			}
			if perRow[i], err = grid.NewBinEdges(shifted); err != nil {
				return nil, err
			}
		}
		g, err = grid.NewGridPerRow(perRow, grid.NewNumericAxis(axis))
	}
	if err != nil {
		return nil, err
	}

	xmid := 0.5 * (p.xmin + p.xmax)
	xsig := p.sigma * (p.xmax - p.xmin)
	rmid := 0.5 * float64(p.rows)
	rsig := math.Max(p.sigma*float64(p.rows), 0.5)
	pois := distuv.Poisson{Src: rng}

	for i := 0; i < p.rows; i++ {
		edges := g.Edges(i)
		y, e := g.Y(i), g.E(i)
		dr := (float64(i) + 0.5 - rmid) / rsig
		for j := range y {
			dx := (edges.Centre(j) - xmid) / xsig
			mu := p.background + p.peak*math.Exp(-0.5*(dx*dx+dr*dr))
			if p.noise && mu > 0 {
				pois.Lambda = mu
				mu = pois.Rand()
			}
			y[j] = mu
			e[j] = math.Sqrt(mu)
		}
	}
	if p.distribution {
		grid.ToggleDistribution(g, true)
	}
	return g, nil
}
