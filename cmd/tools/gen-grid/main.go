// Command gen-grid writes a synthetic grid for exercising rebin2d.
//
//	gen-grid -rows 200 -bins 500 -log -xmin 1 -xmax 1000 -jitter 0.3 -out grid.json
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/banshee-data/gridrebin/internal/gridio"
	"github.com/banshee-data/gridrebin/internal/gridstore"
)

func main() {
	var (
		p      genParams
		out    string
		dbPath string
		name   string
	)
	flag.IntVar(&p.rows, "rows", 100, "number of rows")
	flag.IntVar(&p.bins, "bins", 200, "bins per row")
	flag.Float64Var(&p.xmin, "xmin", 0, "lowest column boundary")
	flag.Float64Var(&p.xmax, "xmax", 100, "highest column boundary")
	flag.BoolVar(&p.logColumns, "log", false, "logarithmically spaced columns (needs xmin > 0)")
	flag.Float64Var(&p.jitter, "jitter", 0, "per-row edge shift as a fraction of the first bin width; 0 shares edges")
	flag.Float64Var(&p.peak, "peak", 1000, "peak height")
	flag.Float64Var(&p.background, "background", 10, "flat background level")
	flag.Float64Var(&p.sigma, "sigma", 0.1, "peak width as a fraction of each axis range")
	flag.BoolVar(&p.noise, "noise", true, "draw Poisson counts instead of expected values")
	flag.Uint64Var(&p.seed, "seed", 1, "random seed")
	flag.BoolVar(&p.distribution, "distribution", false, "store values as a distribution")
	flag.StringVar(&out, "out", "", "output JSON file (stdout when empty and no -db)")
	flag.StringVar(&dbPath, "db", "", "store the grid as a snapshot in this database")
	flag.StringVar(&name, "name", "synthetic", "snapshot name for -db")
	flag.Parse()

	g, err := generate(p)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	if dbPath != "" {
		store, err := gridstore.Open(dbPath)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer store.Close()
		snap, err := store.SaveGrid(context.Background(), g, gridstore.SaveOptions{Name: name, Params: p.asMap()})
		if err != nil {
			log.Fatalf("save grid: %v", err)
		}
		log.Printf("saved snapshot %s", snap.SnapshotID)
	}

	switch {
	case out != "":
		if err := gridio.WriteFile(out, g); err != nil {
			log.Fatalf("write grid: %v", err)
		}
	case dbPath == "":
		if err := gridio.Write(os.Stdout, g); err != nil {
			log.Fatalf("write grid: %v", err)
		}
	}
}

func (p genParams) asMap() map[string]interface{} {
	return map[string]interface{}{
		"rows": p.rows, "bins": p.bins, "xmin": p.xmin, "xmax": p.xmax,
		"log": p.logColumns, "jitter": p.jitter, "peak": p.peak,
		"background": p.background, "sigma": p.sigma, "noise": p.noise,
		"seed": p.seed, "distribution": p.distribution,
	}
}
