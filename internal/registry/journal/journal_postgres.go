package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"certledger/internal/registry/models"
)

// PostgresJournal persists events as JSONB rows keyed by a bigserial
// sequence, giving the append-only total order the registry needs for replay.
type PostgresJournal struct {
	pool *pgxpool.Pool
}

// Schema creates the journal table. Callers run it once at startup or in
// migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS registry_events (
	sequence   BIGSERIAL PRIMARY KEY,
	event_id   UUID        NOT NULL UNIQUE,
	event_type TEXT        NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	payload    JSONB       NOT NULL
);
`

// NewPostgres constructs a journal over an existing pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresJournal {
	return &PostgresJournal{pool: pool}
}

// Migrate applies the journal schema.
func (j *PostgresJournal) Migrate(ctx context.Context) error {
	if _, err := j.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}
	return nil
}

func (j *PostgresJournal) Append(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = j.pool.Exec(ctx,
		`INSERT INTO registry_events (event_id, event_type, occurred_at, payload) VALUES ($1, $2, $3, $4)`,
		event.ID, string(event.Type), event.At, payload,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (j *PostgresJournal) Load(ctx context.Context) ([]models.Event, error) {
	rows, err := j.pool.Query(ctx,
		`SELECT payload FROM registry_events ORDER BY sequence`)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (j *PostgresJournal) Range(ctx context.Context, from, to uint64) ([]models.Event, error) {
	rows, err := j.pool.Query(ctx,
		`SELECT payload FROM registry_events WHERE sequence >= $1 AND sequence < $2 ORDER BY sequence`,
		int64(from), int64(to),
	)
	if err != nil {
		return nil, fmt.Errorf("range events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEvents(rows pgxRows) ([]models.Event, error) {
	var events []models.Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var ev models.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
