package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pharmatrace/internal/domain"
	"pharmatrace/pkg/platform/sentinel"
)

// PackStore persists packs and their scan history.
type PackStore struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

// PackStoreOption configures a PackStore.
type PackStoreOption func(*PackStore)

// WithPackClock sets the scan timestamp source for tests.
func WithPackClock(clock func() time.Time) PackStoreOption {
	return func(s *PackStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPackStore constructs a PostgreSQL-backed pack store.
func NewPackStore(pool *pgxpool.Pool, opts ...PackStoreOption) *PackStore {
	s := &PackStore{pool: pool, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByToken looks a pack up by normalized token.
func (s *PackStore) FindByToken(ctx context.Context, token string) (*domain.Pack, error) {
	norm := domain.NormalizeToken(token)

	var pack domain.Pack
	err := s.pool.QueryRow(ctx,
		`SELECT token, expiry_at, status FROM packs WHERE token = $1`, norm,
	).Scan(&pack.Token, &pack.Expiry, (*string)(&pack.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("pack %q: %w", norm, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find pack: %w", err)
	}
	return &pack, nil
}

// Upsert inserts or replaces the pack row.
func (s *PackStore) Upsert(ctx context.Context, pack *domain.Pack) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO packs (token, expiry_at, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET
			expiry_at = EXCLUDED.expiry_at,
			status    = EXCLUDED.status
	`, domain.NormalizeToken(pack.Token), pack.Expiry, string(pack.Status))
	if err != nil {
		return fmt.Errorf("upsert pack: %w", err)
	}
	return nil
}

// HasScan reports whether any scan has been recorded for the token.
func (s *PackStore) HasScan(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pack_scans WHERE token = $1)`,
		domain.NormalizeToken(token),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check scans: %w", err)
	}
	return exists, nil
}

// RecordScan appends one scan row for the token.
func (s *PackStore) RecordScan(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO pack_scans (id, token, scanned_at) VALUES ($1, $2, $3)`,
		uuid.New(), domain.NormalizeToken(token), s.clock().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record scan: %w", err)
	}
	return nil
}
