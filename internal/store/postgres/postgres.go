// Package postgres implements the stores on PostgreSQL via pgx.
//
// Error contract: sentinel.ErrNotFound (wrapped) when the requested entity
// does not exist; other errors are wrapped infrastructure failures.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool and verifies the connection.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the tables when they do not exist yet. The layout
// mirrors the entities: packs with a scan history, shipments with an ordered
// token list, an append-only ledger, and the medicine master data.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS packs (
    token     TEXT PRIMARY KEY,
    expiry_at TIMESTAMPTZ NOT NULL,
    status    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pack_scans (
    id         UUID PRIMARY KEY,
    token      TEXT NOT NULL REFERENCES packs(token) ON DELETE CASCADE,
    scanned_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS pack_scans_token_idx ON pack_scans(token);

CREATE TABLE IF NOT EXISTS shipments (
    id           TEXT PRIMARY KEY,
    from_party   TEXT NOT NULL,
    to_party     TEXT NOT NULL,
    status       TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    delivered_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS shipment_packs (
    shipment_id TEXT NOT NULL REFERENCES shipments(id) ON DELETE CASCADE,
    token       TEXT NOT NULL,
    position    INT  NOT NULL,
    UNIQUE (shipment_id, token)
);

CREATE TABLE IF NOT EXISTS ledger_entries (
    id           UUID PRIMARY KEY,
    from_party   TEXT NOT NULL,
    to_party     TEXT NOT NULL,
    amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
    memo         TEXT NOT NULL,
    occurred_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS medicines (
    batch_no     TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    manufacturer TEXT NOT NULL,
    expiry_utc   TIMESTAMPTZ,
    price_cents  BIGINT
);
`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
