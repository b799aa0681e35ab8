// Package gridio reads and writes grids as JSON documents.
//
// Edge arrays are stored once and referenced by index from each row, so
// rows that share edges in memory share them again after a round trip.
// The same Document type is the payload of internal/gridstore snapshots.
package gridio
