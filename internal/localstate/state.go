// Package localstate is the durable local store: one row per owner holding
// the serialized app snapshot, including the queue of not-yet-synced workout
// submissions. It is never the sole copy of committed history — only pending
// submissions and a working snapshot live here.
package localstate

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/meltforce/repbook/internal/models"
)

// Store persists snapshots in a SQLite database at dir/state.db.
type Store struct {
	db    *sql.DB
	owner string
}

// Open opens (or creates) the state database for the given owner.
func Open(dir, owner string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	// _txlock=immediate takes the write lock at BEGIN, so the read inside a
	// merge-save cannot see a snapshot another writer is about to replace.
	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS app_state (
		owner      TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &Store{db: db, owner: owner}, nil
}

// Load reads the owner's snapshot. A missing row returns (nil, nil).
// A row that no longer parses is deleted and treated as missing, so a
// corrupted store heals itself instead of wedging every caller.
func (s *Store) Load() (*models.Snapshot, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM app_state WHERE owner = ?`, s.owner).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		_, _ = s.db.Exec(`DELETE FROM app_state WHERE owner = ?`, s.owner)
		return nil, nil
	}
	return &snap, nil
}

// Save merges the patch into the stored snapshot. The read-modify-write runs
// in one transaction, so concurrent writers cannot interleave partial merges.
func (s *Store) Save(patch models.SnapshotPatch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var snap models.Snapshot
	var data string
	err = tx.QueryRow(`SELECT data FROM app_state WHERE owner = ?`, s.owner).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first save for this owner
	case err != nil:
		return fmt.Errorf("reading state: %w", err)
	default:
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			snap = models.Snapshot{}
		}
	}

	patch.Apply(&snap)

	merged, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	_, err = tx.Exec(`INSERT INTO app_state (owner, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (owner) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		s.owner, string(merged))
	if err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return tx.Commit()
}

// Queue returns the pending workout submissions.
func (s *Store) Queue() ([]models.QueuedWorkout, error) {
	snap, err := s.Load()
	if err != nil || snap == nil {
		return nil, err
	}
	return snap.QueuedWorkouts, nil
}

// ReplaceQueue overwrites the entire pending queue. The sync engine uses
// this after a drain so items removed earlier in the same drain cannot be
// replayed again.
func (s *Store) ReplaceQueue(items []models.QueuedWorkout) error {
	if items == nil {
		items = []models.QueuedWorkout{}
	}
	return s.Save(models.SnapshotPatch{QueuedWorkouts: &items})
}

// ClearQueue drops all pending submissions.
func (s *Store) ClearQueue() error {
	return s.ReplaceQueue(nil)
}

// Close closes the state database.
func (s *Store) Close() error {
	return s.db.Close()
}
