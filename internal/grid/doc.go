// Package grid owns the binned two-dimensional data model.
//
// Responsibilities: immutable bin-edge arrays, the reference-counted arena
// that lets rows share them, the row axis, and the Grid container itself.
// It also carries the stateless predicates used to decide whether two grids
// are binned the same way, and the counts/distribution toggle.
// Key types: BinEdges, EdgeArena, EdgeHandle, RowAxis, Grid.
//
// Dependency rule: grid depends on nothing else in this module. Geometry and
// resampling live in internal/geom and internal/rebin.
package grid
