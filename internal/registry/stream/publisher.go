// Package stream fans committed registry events out to external consumers
// (explorers, indexers). Delivery is fail-open: the ledger commit already
// happened, so publish failures are surfaced via logs and metrics, never by
// unwinding the operation.
package stream

import (
	"context"

	"certledger/internal/registry/models"
)

// Publisher delivers one committed event.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
	Close()
}
