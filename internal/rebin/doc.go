// Package rebin owns the conservative two-axis rebinning engine.
//
// Responsibilities: finding the old cells that overlap each target cell,
// weighting them by overlap area, aggregating signal and errors, and
// orchestrating one task per output row with cancellation and progress.
// Key types: Overlap, Engine, Result, Progress.
//
// Dependency rule: rebin depends on internal/grid and internal/geom. It does
// no I/O beyond its log streams.
package rebin
