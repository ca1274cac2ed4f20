package journal

import (
	"context"
	"sync"

	"certledger/internal/registry/models"
)

// InMemoryJournal keeps the event log in process. Suitable for tests and
// single-node development; production wiring uses PostgresJournal.
type InMemoryJournal struct {
	mu     sync.RWMutex
	events []models.Event
}

func NewInMemory() *InMemoryJournal {
	return &InMemoryJournal{}
}

func (j *InMemoryJournal) Append(_ context.Context, event models.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, event)
	return nil
}

func (j *InMemoryJournal) Load(_ context.Context) ([]models.Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]models.Event{}, j.events...), nil
}

func (j *InMemoryJournal) Range(_ context.Context, from, to uint64) ([]models.Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if from < 1 {
		from = 1
	}
	if from > uint64(len(j.events)) || to <= from {
		return nil, nil
	}
	if to > uint64(len(j.events))+1 {
		to = uint64(len(j.events)) + 1
	}
	return append([]models.Event{}, j.events[from-1:to-1]...), nil
}
