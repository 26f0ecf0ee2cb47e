package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/repbook/internal/models"
)

// GetSnapshot reads the owner's row from "Current State". A missing row
// returns (nil, nil).
func (db *DB) GetSnapshot(ctx context.Context, owner string) (*models.Snapshot, error) {
	var data []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT state_data FROM "Current State" WHERE owner = $1`,
		owner).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying current state: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding current state: %w", err)
	}
	return &snap, nil
}

// PutSnapshot upserts the owner's row in "Current State", overwriting the
// previous snapshot wholesale.
func (db *DB) PutSnapshot(ctx context.Context, owner string, snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding current state: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO "Current State" (owner, state_data, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (owner) DO UPDATE
			SET state_data = excluded.state_data, updated_at = NOW()`,
		owner, data)
	if err != nil {
		return fmt.Errorf("upserting current state: %w", err)
	}
	return nil
}
