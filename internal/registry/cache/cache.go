// Package cache provides a read-through cache for the public verification
// path, the one registry read that third parties hammer. The ledger stays
// authoritative; cache misses and failures fall through to it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"certledger/internal/registry/models"
	"certledger/pkg/domain"
)

// ErrMiss reports that no cached projection exists for the fingerprint.
var ErrMiss = errors.New("verification cache miss")

// VerificationCache stores certificate projections keyed by fingerprint.
type VerificationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New constructs a cache with the given entry TTL.
func New(client *redis.Client, ttl time.Duration) *VerificationCache {
	return &VerificationCache{client: client, ttl: ttl}
}

func key(hash domain.Hash) string {
	return "certledger:verify:" + hash.String()
}

// Get returns the cached projection for hash.
//
// Errors: ErrMiss when absent; anything else is a transport fault the caller
// treats as a miss.
func (c *VerificationCache) Get(ctx context.Context, hash domain.Hash) (*models.Certificate, error) {
	raw, err := c.client.Get(ctx, key(hash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var cert models.Certificate
	if err := json.Unmarshal(raw, &cert); err != nil {
		return nil, fmt.Errorf("decode cached certificate: %w", err)
	}
	return &cert, nil
}

// Set stores a projection for hash.
func (c *VerificationCache) Set(ctx context.Context, hash domain.Hash, cert models.Certificate) error {
	raw, err := json.Marshal(cert)
	if err != nil {
		return fmt.Errorf("encode certificate: %w", err)
	}
	if err := c.client.Set(ctx, key(hash), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the entry for hash; called when its credential is revoked.
func (c *VerificationCache) Invalidate(ctx context.Context, hash domain.Hash) error {
	if err := c.client.Del(ctx, key(hash)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
