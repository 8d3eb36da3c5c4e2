package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pharmatrace/internal/domain"
)

// LedgerStore is the append-only PostgreSQL ledger. There is deliberately no
// update or delete.
type LedgerStore struct {
	pool *pgxpool.Pool
}

// NewLedgerStore constructs a PostgreSQL-backed ledger store.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// Add appends one entry.
func (s *LedgerStore) Add(ctx context.Context, entry *domain.LedgerEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ledger_entries (id, from_party, to_party, amount_cents, memo, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.From, entry.To, entry.AmountCents, entry.Memo, entry.OccurredAt)
	if err != nil {
		return fmt.Errorf("add ledger entry: %w", err)
	}
	return nil
}

// List returns a page of entries ordered oldest first.
func (s *LedgerStore) List(ctx context.Context, skip, take int) ([]*domain.LedgerEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, from_party, to_party, amount_cents, memo, occurred_at
		FROM ledger_entries ORDER BY occurred_at, id OFFSET $1 LIMIT $2
	`, skip, take)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		if err := rows.Scan(
			&entry.ID, &entry.From, &entry.To,
			&entry.AmountCents, &entry.Memo, &entry.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, nil
}
