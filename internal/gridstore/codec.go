package gridstore

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"

	"github.com/banshee-data/gridrebin/internal/grid"
	"github.com/banshee-data/gridrebin/internal/gridio"
)

// encodeGrid compresses g as a gob-encoded gridio.Document inside gzip.
func encodeGrid(g *grid.Grid) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(gridio.FromGrid(g)); err != nil {
		gz.Close()
		return nil, fmt.Errorf("failed to encode grid: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGrid is the inverse of encodeGrid.
func decodeGrid(blob []byte) (*grid.Grid, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty grid blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var doc gridio.Document
	if err := gob.NewDecoder(gz).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode grid: %w", err)
	}
	return doc.Grid()
}
