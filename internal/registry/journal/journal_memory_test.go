package journal

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certledger/internal/registry/models"
	"certledger/pkg/domain"
)

func seedJournal(t *testing.T, n int) (*InMemoryJournal, []models.Event) {
	t.Helper()
	j := NewInMemory()
	events := make([]models.Event, 0, n)
	for i := 0; i < n; i++ {
		ev := models.Event{ID: uuid.New(), Type: models.EventCertificateIssued, TokenID: domain.TokenID(i + 1)}
		require.NoError(t, j.Append(context.Background(), ev))
		events = append(events, ev)
	}
	return j, events
}

func TestInMemoryJournalRange(t *testing.T) {
	j, events := seedJournal(t, 5)

	t.Run("half-open window", func(t *testing.T) {
		got, err := j.Range(context.Background(), 2, 4)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, events[1].ID, got[0].ID)
		assert.Equal(t, events[2].ID, got[1].ID)
	})

	t.Run("to is clamped to the end", func(t *testing.T) {
		got, err := j.Range(context.Background(), 4, 100)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, events[4].ID, got[1].ID)
	})

	t.Run("window past the end is empty", func(t *testing.T) {
		got, err := j.Range(context.Background(), 6, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("inverted window is empty", func(t *testing.T) {
		got, err := j.Range(context.Background(), 3, 3)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("load returns a copy", func(t *testing.T) {
		first, err := j.Load(context.Background())
		require.NoError(t, err)
		first[0].Type = models.EventCertificateRevoked

		second, err := j.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.EventCertificateIssued, second[0].Type)
	})
}
