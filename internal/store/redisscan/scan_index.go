// Package redisscan keeps the verification scan history in Redis. Scan
// lookups are the hottest read on the verification path, so deployments can
// move them off the primary store without touching the service layer.
package redisscan

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/verification"
)

const scanSetKey = "pharmatrace:scans"

// Index overrides a PackStore's scan methods with a Redis set while
// delegating pack lookups to the wrapped store.
type Index struct {
	verification.PackStore
	client *redis.Client
}

// New wraps base so HasScan and RecordScan hit Redis.
func New(base verification.PackStore, client *redis.Client) *Index {
	return &Index{PackStore: base, client: client}
}

// HasScan reports whether the token is in the scan set.
func (i *Index) HasScan(ctx context.Context, token string) (bool, error) {
	seen, err := i.client.SIsMember(ctx, scanSetKey, domain.NormalizeToken(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check scan index: %w", err)
	}
	return seen, nil
}

// RecordScan adds the token to the scan set. Membership is idempotent, which
// matches the duplicate-detection contract: one prior scan is enough.
func (i *Index) RecordScan(ctx context.Context, token string) error {
	if err := i.client.SAdd(ctx, scanSetKey, domain.NormalizeToken(token)).Err(); err != nil {
		return fmt.Errorf("record scan in index: %w", err)
	}
	return nil
}
