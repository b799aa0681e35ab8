// Command rebin2d rebins a two-axis grid onto new boundaries.
//
//	rebin2d -in grid.json -axis1 0,0.5,20 -axis2 0,1,10 -out rebinned.json
//	rebin2d -db grids.db -id <snapshot> -axis1 1,-0.1,1000 -axis2 0,2,40 -save -png out.png
//	rebin2d -db grids.db -list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/gridrebin/internal/monitoring"
	"github.com/banshee-data/gridrebin/internal/version"
)

type options struct {
	in         string
	dbPath     string
	id         string
	axis1      string
	axis2      string
	configPath string
	workers    int
	out        string
	save       bool
	name       string
	png        string
	html       string
	list       bool
	verbose    bool
	trace      bool
	version    bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	o := &options{}
	fs.StringVar(&o.in, "in", "", "input grid (JSON)")
	fs.StringVar(&o.dbPath, "db", "", "grid snapshot database (SQLite)")
	fs.StringVar(&o.id, "id", "", "input snapshot ID in -db")
	fs.StringVar(&o.axis1, "axis1", "", "column binning parameters x0,d0,x1[,d1,x2...]")
	fs.StringVar(&o.axis2, "axis2", "", "row binning parameters x0,d0,x1[,d1,x2...]")
	fs.StringVar(&o.configPath, "config", "", "rebin config (JSON); defaults apply when empty")
	fs.IntVar(&o.workers, "workers", 0, "rows processed concurrently (0 uses the config)")
	fs.StringVar(&o.out, "out", "", "write the result as JSON")
	fs.BoolVar(&o.save, "save", false, "store the result as a new snapshot in -db")
	fs.StringVar(&o.name, "name", "", "snapshot name for -save")
	fs.StringVar(&o.png, "png", "", "write a heatmap image of the result")
	fs.StringVar(&o.html, "html", "", "write an interactive HTML heatmap of the result")
	fs.BoolVar(&o.list, "list", false, "list snapshots in -db and exit")
	fs.BoolVar(&o.verbose, "v", false, "log diagnostics to stderr")
	fs.BoolVar(&o.trace, "vv", false, "log diagnostics and per-row trace to stderr")
	fs.BoolVar(&o.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, o.validate()
}

func (o *options) validate() error {
	if o.version {
		return nil
	}
	if o.list {
		if o.dbPath == "" {
			return errors.New("-list requires -db")
		}
		return nil
	}
	switch {
	case o.in == "" && o.id == "":
		return errors.New("one of -in or -id is required")
	case o.in != "" && o.id != "":
		return errors.New("-in and -id are mutually exclusive")
	case o.id != "" && o.dbPath == "":
		return errors.New("-id requires -db")
	case o.save && o.dbPath == "":
		return errors.New("-save requires -db")
	case o.axis1 == "" || o.axis2 == "":
		return errors.New("-axis1 and -axis2 are required")
	case o.workers < 0:
		return fmt.Errorf("-workers must not be negative, got %d", o.workers)
	}
	return nil
}

// setupLogging routes ops to stderr always, diag with -v, trace with -vv.
func setupLogging(o *options, stderr io.Writer) {
	var diag, trace io.Writer
	if o.verbose || o.trace {
		diag = stderr
	}
	if o.trace {
		trace = stderr
	}
	monitoring.SetLogWriters(monitoring.LogWriters{Ops: stderr, Diag: diag, Trace: trace})
	if diag == nil {
		monitoring.SetLogger(nil)
	} else {
		monitoring.SetLogger(monitoring.NewLogger("", diag).Printf)
	}
}

// Main
func main() {
	o, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "rebin2d: %v\n", err)
		os.Exit(2)
	}
	if o.version {
		fmt.Println(version.String("rebin2d"))
		return
	}
	setupLogging(o, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "rebin2d: %v\n", err)
		if errors.Is(err, errInterrupted) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
