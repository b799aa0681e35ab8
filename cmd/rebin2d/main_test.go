package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gridrebin/internal/gridio"
	"github.com/banshee-data/gridrebin/internal/testutil"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"file input", []string{"-in", "g.json", "-axis1", "0,1,2", "-axis2", "0,1,2"}, ""},
		{"snapshot input", []string{"-db", "g.db", "-id", "abc", "-axis1", "0,1,2", "-axis2", "0,1,2", "-save"}, ""},
		{"list", []string{"-db", "g.db", "-list"}, ""},
		{"version", []string{"-version"}, ""},
		{"no input", []string{"-axis1", "0,1,2", "-axis2", "0,1,2"}, "one of -in or -id"},
		{"both inputs", []string{"-in", "g.json", "-db", "g.db", "-id", "x", "-axis1", "0,1,2", "-axis2", "0,1,2"}, "mutually exclusive"},
		{"id without db", []string{"-id", "x", "-axis1", "0,1,2", "-axis2", "0,1,2"}, "-id requires -db"},
		{"save without db", []string{"-in", "g.json", "-save", "-axis1", "0,1,2", "-axis2", "0,1,2"}, "-save requires -db"},
		{"missing axis", []string{"-in", "g.json", "-axis1", "0,1,2"}, "-axis1 and -axis2"},
		{"list without db", []string{"-list"}, "-list requires -db"},
		{"negative workers", []string{"-in", "g.json", "-axis1", "0,1,2", "-axis2", "0,1,2", "-workers", "-2"}, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			_, err := parseFlags(fs, tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "in.json")
	require.NoError(t, gridio.WriteFile(path, testutil.RampGrid(t, 4, 4)))
	return path
}

func TestRun_FileToFile(t *testing.T) {
	dir := t.TempDir()
	o := &options{
		in:    writeInput(t, dir),
		axis1: "0,2,4",
		axis2: "0,2,4",
		out:   filepath.Join(dir, "out.json"),
		png:   filepath.Join(dir, "out.png"),
		html:  filepath.Join(dir, "out.html"),
	}

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), o, &stdout))
	assert.Contains(t, stdout.String(), "rebinned 4x4 -> 2x2")

	got, err := gridio.ReadFile(o.out)
	require.NoError(t, err)
	require.Equal(t, 2, got.NumRows())
	var total float64
	for i := 0; i < got.NumRows(); i++ {
		for _, v := range got.Y(i) {
			total += v
		}
	}
	assert.InDelta(t, 136.0, total, 1e-9)
	assert.Equal(t, []float64{1, 3}, got.Axis().Values())

	for _, p := range []string{o.png, o.html} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestRun_SaveAndList(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "grids.db")
	o := &options{
		in:         writeInput(t, dir),
		dbPath:     dbPath,
		axis1:      "0,1,4",
		axis2:      "0,2,4",
		save:       true,
		name:       "coarse rows",
		configPath: "../../config/rebin.example.json",
	}

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), o, &stdout))
	assert.Contains(t, stdout.String(), "saved snapshot ")

	var listed bytes.Buffer
	require.NoError(t, run(context.Background(), &options{dbPath: dbPath, list: true}, &listed))
	lines := strings.Split(strings.TrimSpace(listed.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "coarse rows")

	// The saved snapshot is itself a valid input.
	id := strings.Fields(lines[1])[0]
	again := &options{dbPath: dbPath, id: id, axis1: "0,2,4", axis2: "0,4,4"}
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), again, &out))
	assert.Contains(t, out.String(), "rebinned 2x4 -> 1x2")
}

func TestRun_Interrupted(t *testing.T) {
	dir := t.TempDir()
	o := &options{
		in:    writeInput(t, dir),
		axis1: "0,1,4",
		axis2: "0,1,4",
		out:   filepath.Join(dir, "out.json"),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, o, io.Discard)
	assert.ErrorIs(t, err, errInterrupted)
	_, statErr := os.Stat(o.out)
	assert.True(t, os.IsNotExist(statErr), "no output should be written")
}

func TestRun_BadParams(t *testing.T) {
	dir := t.TempDir()
	o := &options{in: writeInput(t, dir), axis1: "0,1", axis2: "0,1,4"}
	err := run(context.Background(), o, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-axis1")
}

func TestRun_RejectsOutputPaths(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)

	tests := []struct {
		name string
		o    *options
		want string
	}{
		{"json extension", &options{in: in, axis1: "0,1,4", axis2: "0,1,4", out: filepath.Join(dir, "out.txt")}, "-out"},
		{"image extension", &options{in: in, axis1: "0,1,4", axis2: "0,1,4", png: filepath.Join(dir, "out.json")}, "-png"},
		{"outside allowed dirs", &options{in: in, axis1: "0,1,4", axis2: "0,1,4", html: "/gridrebin-not-allowed/x.html"}, "-html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.o, io.Discard)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
