package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/banshee-data/gridrebin/internal/binparams"
	"github.com/banshee-data/gridrebin/internal/config"
	"github.com/banshee-data/gridrebin/internal/grid"
	"github.com/banshee-data/gridrebin/internal/gridio"
	"github.com/banshee-data/gridrebin/internal/gridplot"
	"github.com/banshee-data/gridrebin/internal/gridstore"
	"github.com/banshee-data/gridrebin/internal/rebin"
	"github.com/banshee-data/gridrebin/internal/security"
)

var errInterrupted = errors.New("interrupted")

var (
	jsonExts  = []string{".json"}
	imageExts = []string{".png", ".svg", ".pdf", ".jpg", ".jpeg", ".tif", ".tiff", ".eps"}
	htmlExts  = []string{".html", ".htm"}
)

// validateOutputs rejects output paths outside the working or temp directory
// before any work is done.
func validateOutputs(o *options) error {
	for _, out := range []struct {
		flag, path string
		exts       []string
	}{
		{"-out", o.out, jsonExts},
		{"-png", o.png, imageExts},
		{"-html", o.html, htmlExts},
	} {
		if out.path == "" {
			continue
		}
		if err := security.ValidateOutputPath(out.path, out.exts); err != nil {
			return fmt.Errorf("%s: %w", out.flag, err)
		}
	}
	return nil
}

func loadConfig(path string) (*config.RebinConfig, error) {
	if path == "" {
		return config.DefaultRebinConfig(), nil
	}
	return config.LoadRebinConfig(path)
}

func run(ctx context.Context, o *options, stdout io.Writer) error {
	if err := validateOutputs(o); err != nil {
		return err
	}
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}

	var store *gridstore.Store
	if o.dbPath != "" {
		store, err = gridstore.Open(o.dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}
	if o.list {
		return listSnapshots(ctx, store, stdout)
	}

	in, err := loadInput(ctx, o, store)
	if err != nil {
		return err
	}
	cols, err := binparams.ParseEdges(o.axis1, cfg.GetLastBinFraction())
	if err != nil {
		return fmt.Errorf("-axis1: %w", err)
	}
	rows, err := binparams.ParseEdges(o.axis2, cfg.GetLastBinFraction())
	if err != nil {
		return fmt.Errorf("-axis2: %w", err)
	}

	ecfg := rebin.ConfigFromRebinConfig(cfg)
	if o.workers > 0 {
		ecfg.Workers = o.workers
	}
	res, err := rebin.NewEngine(ecfg).Rebin(ctx, in, cols, rows)
	if err != nil {
		return err
	}
	if res.Interrupted() {
		return fmt.Errorf("%w after %d/%d rows; nothing written", errInterrupted, res.RowsDone, len(res.Completed))
	}

	s := grid.Summarize(res.Grid)
	fmt.Fprintf(stdout, "rebinned %dx%d -> %dx%d in %s (total %g, integral %g)\n",
		in.NumRows(), in.Blocksize(), s.Rows, s.Bins, res.Elapsed.Round(time.Microsecond), s.TotalY, s.Integral)
	return writeOutputs(ctx, o, store, res.Grid, stdout)
}

func loadInput(ctx context.Context, o *options, store *gridstore.Store) (*grid.Grid, error) {
	if o.in != "" {
		return gridio.ReadFile(o.in)
	}
	g, _, err := store.LoadGrid(ctx, o.id)
	return g, err
}

func writeOutputs(ctx context.Context, o *options, store *gridstore.Store, g *grid.Grid, stdout io.Writer) error {
	if o.out != "" {
		if err := gridio.WriteFile(o.out, g); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", o.out)
	}
	if o.save {
		name := o.name
		if name == "" {
			name = "rebin " + o.axis1 + " / " + o.axis2
		}
		snap, err := store.SaveGrid(ctx, g, gridstore.SaveOptions{
			Name:     name,
			ParentID: o.id,
			Params:   map[string]string{"axis1": o.axis1, "axis2": o.axis2},
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "saved snapshot %s\n", snap.SnapshotID)
	}
	if o.png != "" {
		opts := gridplot.PNGOptions{Title: filepath.Base(o.png)}
		if err := gridplot.RenderPNG(g, o.png, opts); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", o.png)
	}
	if o.html != "" {
		f, err := os.Create(filepath.Clean(o.html))
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", o.html, err)
		}
		if err := gridplot.RenderHTML(f, g, "rebinned grid"); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", o.html)
	}
	return nil
}

func listSnapshots(ctx context.Context, store *gridstore.Store, stdout io.Writer) error {
	snaps, err := store.ListSnapshots(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tROWS\tBINS\tDIST\tCOMMON\tPARENT\tCREATED")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%v\t%v\t%s\t%s\n",
			s.SnapshotID, s.Name, s.Rows, s.Bins, s.Distribution, s.CommonBoundaries, s.ParentID,
			time.Unix(0, s.CreatedAtNs).UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}
