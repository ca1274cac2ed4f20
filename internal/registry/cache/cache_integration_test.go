//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certledger/internal/registry/models"
	"certledger/pkg/domain"
	"certledger/pkg/fingerprint"
	"certledger/pkg/testutil/containers"
)

func TestVerificationCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	c := New(containers.Redis(t), time.Minute)

	issuer, err := domain.ParseAddress("0xa1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1")
	require.NoError(t, err)
	holder, err := domain.ParseAddress("0xb2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2")
	require.NoError(t, err)

	hash := fingerprint.OfString("degree-1")
	cert := models.Certificate{
		ID:          1,
		Holder:      holder,
		Issuer:      issuer,
		StudentName: "NGUYEN VAN A",
		FileHash:    hash,
		IssuedAt:    time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
		Valid:       true,
	}

	t.Run("absent fingerprint misses", func(t *testing.T) {
		_, err := c.Get(ctx, hash)
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("set then get round-trips the projection", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, hash, cert))

		got, err := c.Get(ctx, hash)
		require.NoError(t, err)
		assert.Equal(t, cert.ID, got.ID)
		assert.Equal(t, cert.FileHash, got.FileHash)
		assert.Equal(t, cert.StudentName, got.StudentName)
		assert.True(t, got.Valid)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		require.NoError(t, c.Invalidate(ctx, hash))
		_, err := c.Get(ctx, hash)
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("invalidating an absent entry is fine", func(t *testing.T) {
		assert.NoError(t, c.Invalidate(ctx, fingerprint.OfString("never-cached")))
	})

	t.Run("entries expire after the ttl", func(t *testing.T) {
		short := New(containers.Redis(t), 100*time.Millisecond)
		require.NoError(t, short.Set(ctx, hash, cert))
		time.Sleep(300 * time.Millisecond)
		_, err := short.Get(ctx, hash)
		assert.ErrorIs(t, err, ErrMiss)
	})
}
