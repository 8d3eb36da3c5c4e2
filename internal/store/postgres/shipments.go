package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pharmatrace/internal/domain"
	"pharmatrace/pkg/platform/sentinel"
)

// ShipmentStore persists shipments and their ordered pack-token lists.
type ShipmentStore struct {
	pool *pgxpool.Pool
}

// NewShipmentStore constructs a PostgreSQL-backed shipment store.
func NewShipmentStore(pool *pgxpool.Pool) *ShipmentStore {
	return &ShipmentStore{pool: pool}
}

// FindByID loads one shipment and its token list in insertion order.
func (s *ShipmentStore) FindByID(ctx context.Context, id string) (*domain.Shipment, error) {
	var shipment domain.Shipment
	err := s.pool.QueryRow(ctx, `
		SELECT id, from_party, to_party, status, created_at, delivered_at
		FROM shipments WHERE id = $1
	`, id).Scan(
		&shipment.ID, &shipment.FromParty, &shipment.ToParty,
		(*string)(&shipment.Status), &shipment.CreatedAt, &shipment.DeliveredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("shipment %q: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find shipment: %w", err)
	}

	tokens, err := s.packTokens(ctx, shipment.ID)
	if err != nil {
		return nil, err
	}
	shipment.PackTokens = tokens
	return &shipment, nil
}

// Upsert writes the shipment row and replaces its token list in one
// transaction, keeping list order via an explicit position column.
func (s *ShipmentStore) Upsert(ctx context.Context, shipment *domain.Shipment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert shipment: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO shipments (id, from_party, to_party, status, created_at, delivered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			status       = EXCLUDED.status,
			delivered_at = EXCLUDED.delivered_at
	`, shipment.ID, shipment.FromParty, shipment.ToParty,
		string(shipment.Status), shipment.CreatedAt, shipment.DeliveredAt)
	if err != nil {
		return fmt.Errorf("upsert shipment: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM shipment_packs WHERE shipment_id = $1`, shipment.ID); err != nil {
		return fmt.Errorf("clear shipment packs: %w", err)
	}
	for i, token := range shipment.PackTokens {
		if _, err := tx.Exec(ctx,
			`INSERT INTO shipment_packs (shipment_id, token, position) VALUES ($1, $2, $3)`,
			shipment.ID, token, i,
		); err != nil {
			return fmt.Errorf("insert shipment pack: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert shipment: %w", err)
	}
	return nil
}

// List returns a page of shipments ordered by id.
func (s *ShipmentStore) List(ctx context.Context, skip, take int) ([]*domain.Shipment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, from_party, to_party, status, created_at, delivered_at
		FROM shipments ORDER BY id OFFSET $1 LIMIT $2
	`, skip, take)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	var shipments []*domain.Shipment
	for rows.Next() {
		var shipment domain.Shipment
		if err := rows.Scan(
			&shipment.ID, &shipment.FromParty, &shipment.ToParty,
			(*string)(&shipment.Status), &shipment.CreatedAt, &shipment.DeliveredAt,
		); err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		shipments = append(shipments, &shipment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}

	for _, shipment := range shipments {
		tokens, err := s.packTokens(ctx, shipment.ID)
		if err != nil {
			return nil, err
		}
		shipment.PackTokens = tokens
	}
	return shipments, nil
}

func (s *ShipmentStore) packTokens(ctx context.Context, shipmentID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT token FROM shipment_packs WHERE shipment_id = $1 ORDER BY position`,
		shipmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("load shipment packs: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan shipment pack: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load shipment packs: %w", err)
	}
	return tokens, nil
}
