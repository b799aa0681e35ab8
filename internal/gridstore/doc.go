// Package gridstore persists grid snapshots in SQLite.
//
// Each snapshot row carries summary columns for listing and a gob+gzip blob
// of the gridio.Document for the full grid. The schema is owned by the
// embedded migrations and applied with golang-migrate when a Store is opened.
package gridstore
