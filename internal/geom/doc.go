// Package geom owns the cell geometry used by the rebinning engine.
//
// Responsibilities: building axis-aligned cells from bin boundaries and
// computing the area of the intersection of two cells.
// Key functions: Cell, Area, Overlap.
//
// Dependency rule: geom depends only on gonum's r2 package.
package geom
