//go:build integration

package journal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certledger/internal/registry/models"
	"certledger/pkg/domain"
	"certledger/pkg/fingerprint"
	"certledger/pkg/testutil/containers"
)

func TestPostgresJournal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	pool := containers.Postgres(t)

	j := NewPostgres(pool)
	require.NoError(t, j.Migrate(ctx))
	// Second run must be a no-op.
	require.NoError(t, j.Migrate(ctx))

	issuer, err := domain.ParseAddress("0xa1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1")
	require.NoError(t, err)
	holder, err := domain.ParseAddress("0xb2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2")
	require.NoError(t, err)

	at := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	events := []models.Event{
		{
			ID:      uuid.New(),
			Type:    models.EventIssuerAdded,
			At:      at,
			Actor:   issuer,
			Issuer:  &models.Issuer{Address: issuer, Name: "Tech University", AddedAt: at},
			Grantee: issuer,
		},
		{
			ID:      uuid.New(),
			Type:    models.EventCertificateIssued,
			At:      at,
			Actor:   issuer,
			TokenID: 1,
			Certificate: &models.Certificate{
				ID:          1,
				Holder:      holder,
				Issuer:      issuer,
				StudentName: "NGUYEN VAN A",
				DegreeName:  "BSC COMPUTER SCIENCE",
				FileHash:    fingerprint.OfString("degree-1"),
				IssuedAt:    at,
				Valid:       true,
			},
		},
		{
			ID:      uuid.New(),
			Type:    models.EventCertificateRevoked,
			At:      at.Add(time.Hour),
			Actor:   issuer,
			TokenID: 1,
		},
	}
	for _, ev := range events {
		require.NoError(t, j.Append(ctx, ev))
	}

	t.Run("load replays in commit order", func(t *testing.T) {
		loaded, err := j.Load(ctx)
		require.NoError(t, err)
		require.Len(t, loaded, 3)
		for i, ev := range events {
			assert.Equal(t, ev.ID, loaded[i].ID)
			assert.Equal(t, ev.Type, loaded[i].Type)
			assert.True(t, ev.At.Equal(loaded[i].At))
		}
		require.NotNil(t, loaded[1].Certificate)
		assert.Equal(t, "NGUYEN VAN A", loaded[1].Certificate.StudentName)
		assert.Equal(t, events[1].Certificate.FileHash, loaded[1].Certificate.FileHash)
	})

	t.Run("range is half-open over the sequence", func(t *testing.T) {
		got, err := j.Range(ctx, 2, 3)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, events[1].ID, got[0].ID)
	})

	t.Run("range past the end is empty", func(t *testing.T) {
		got, err := j.Range(ctx, 10, 20)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("duplicate event id is rejected", func(t *testing.T) {
		err := j.Append(ctx, events[0])
		assert.Error(t, err)
	})
}
