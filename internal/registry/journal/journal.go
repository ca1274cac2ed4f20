// Package journal persists the registry's append-only event log. The ledger
// itself lives in memory; the journal is replayed at startup to rebuild it
// and range-scanned by explorer tooling.
package journal

import (
	"context"

	"certledger/internal/registry/models"
)

// Journal is an append-only store of committed events in commit order.
type Journal interface {
	Append(ctx context.Context, event models.Event) error
	// Load returns every event in append order.
	Load(ctx context.Context) ([]models.Event, error)
	// Range returns events with sequence in [from, to), oldest first, for
	// explorer-style scans. Sequence numbering starts at 1.
	Range(ctx context.Context, from, to uint64) ([]models.Event, error)
}
