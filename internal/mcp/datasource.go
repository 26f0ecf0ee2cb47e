package mcp

import (
	"context"

	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB
// (direct database mode) and HTTPClient (remote via REST API) satisfy it.
type DataSource interface {
	FetchTemplate(ctx context.Context, day int) (*models.Template, error)
	FetchHistory(ctx context.Context) ([]models.HistoryEntry, error)
	GetSnapshot(ctx context.Context, owner string) (*models.Snapshot, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
