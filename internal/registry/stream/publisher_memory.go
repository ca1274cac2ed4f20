package stream

import (
	"context"
	"sync"

	"certledger/internal/registry/models"
)

// InMemoryPublisher records published events for tests and local development.
type InMemoryPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func NewInMemory() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

func (p *InMemoryPublisher) Publish(_ context.Context, event models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *InMemoryPublisher) Close() {}

// Events returns a copy of everything published so far.
func (p *InMemoryPublisher) Events() []models.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Event{}, p.events...)
}
