package gridstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/gridrebin/internal/grid"
	"github.com/banshee-data/gridrebin/internal/monitoring"
	"github.com/banshee-data/gridrebin/internal/timeutil"
)

// ErrNotFound is returned when a snapshot ID does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one stored grid. GridBlob is only populated by GetSnapshot.
type Snapshot struct {
	SnapshotID       string `json:"snapshot_id"`
	Name             string `json:"name"`
	Rows             int    `json:"rows"`
	Bins             int    `json:"bins"`
	Size             int    `json:"size"`
	Distribution     bool   `json:"distribution"`
	CommonBoundaries bool   `json:"common_boundaries"`
	ParentID         string `json:"parent_id,omitempty"`
	ParamsJSON       string `json:"params_json,omitempty"`
	GridBlob         []byte `json:"-"`
	CreatedAtNs      int64  `json:"created_at_ns"`
}

// SaveOptions describes a grid being saved. Params is stored as JSON.
type SaveOptions struct {
	Name     string
	ParentID string
	Params   interface{}
}

// Store provides persistence for grid snapshots.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
}

// Open opens (or creates) the database at path and migrates it to the latest
// schema version.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, clock: timeutil.RealClock{}}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	monitoring.Diagf("opened grid store %s", path)
	return s, nil
}

// SetClock replaces the clock used to stamp new snapshots.
func (s *Store) SetClock(c timeutil.Clock) { s.clock = c }

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// InsertSnapshot stores snap. If SnapshotID is empty a new UUID is generated;
// if CreatedAtNs is zero the current time is used.
func (s *Store) InsertSnapshot(ctx context.Context, snap *Snapshot) error {
	if len(snap.GridBlob) == 0 {
		return fmt.Errorf("insert snapshot: empty grid blob")
	}
	if snap.SnapshotID == "" {
		snap.SnapshotID = uuid.New().String()
	}
	if snap.CreatedAtNs == 0 {
		snap.CreatedAtNs = s.clock.Now().UnixNano()
	}

	query := `
		INSERT INTO grid_snapshots (
			snapshot_id, name, rows, bins, size, distribution,
			common_boundaries, parent_id, params_json, grid_blob, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		snap.SnapshotID,
		snap.Name,
		snap.Rows,
		snap.Bins,
		snap.Size,
		snap.Distribution,
		snap.CommonBoundaries,
		nullString(snap.ParentID),
		nullString(snap.ParamsJSON),
		snap.GridBlob,
		snap.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the snapshot with the given ID, including its blob.
func (s *Store) GetSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	query := `
		SELECT snapshot_id, name, rows, bins, size, distribution,
		       common_boundaries, parent_id, params_json, grid_blob, created_at_ns
		FROM grid_snapshots
		WHERE snapshot_id = ?
	`
	snap := &Snapshot{}
	var parentID, params sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&snap.SnapshotID, &snap.Name, &snap.Rows, &snap.Bins, &snap.Size,
		&snap.Distribution, &snap.CommonBoundaries, &parentID, &params,
		&snap.GridBlob, &snap.CreatedAtNs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	snap.ParentID = parentID.String
	snap.ParamsJSON = params.String
	return snap, nil
}

// ListSnapshots returns every snapshot, newest first, without blobs.
func (s *Store) ListSnapshots(ctx context.Context) ([]*Snapshot, error) {
	query := `
		SELECT snapshot_id, name, rows, bins, size, distribution,
		       common_boundaries, parent_id, params_json, created_at_ns
		FROM grid_snapshots
		ORDER BY created_at_ns DESC, snapshot_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*Snapshot
	for rows.Next() {
		snap := &Snapshot{}
		var parentID, params sql.NullString
		if err := rows.Scan(
			&snap.SnapshotID, &snap.Name, &snap.Rows, &snap.Bins, &snap.Size,
			&snap.Distribution, &snap.CommonBoundaries, &parentID, &params,
			&snap.CreatedAtNs,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.ParentID = parentID.String
		snap.ParamsJSON = params.String
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// DeleteSnapshot removes a snapshot. Snapshots derived from it keep their
// data but lose the parent link.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM grid_snapshots WHERE snapshot_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE grid_snapshots SET parent_id = NULL WHERE parent_id = ?`, id); err != nil {
		return fmt.Errorf("unlink children of %s: %w", id, err)
	}
	return tx.Commit()
}

// SaveGrid encodes g and stores it as a new snapshot.
func (s *Store) SaveGrid(ctx context.Context, g *grid.Grid, opts SaveOptions) (*Snapshot, error) {
	blob, err := encodeGrid(g)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Name:             opts.Name,
		Rows:             g.NumRows(),
		Bins:             g.Blocksize(),
		Size:             g.Size(),
		Distribution:     g.IsDistribution(),
		CommonBoundaries: grid.CommonBoundaries(g),
		ParentID:         opts.ParentID,
		GridBlob:         blob,
	}
	if opts.Params != nil {
		p, err := json.Marshal(opts.Params)
		if err != nil {
			return nil, fmt.Errorf("encode snapshot params: %w", err)
		}
		snap.ParamsJSON = string(p)
	}
	if err := s.InsertSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	monitoring.Diagf("saved snapshot %s %q (%d rows, %d bytes)", snap.SnapshotID, snap.Name, snap.Rows, len(blob))
	return snap, nil
}

// LoadGrid fetches a snapshot and decodes its grid.
func (s *Store) LoadGrid(ctx context.Context, id string) (*grid.Grid, *Snapshot, error) {
	snap, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	g, err := decodeGrid(snap.GridBlob)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	return g, snap, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
