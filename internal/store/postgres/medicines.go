package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pharmatrace/internal/domain"
	"pharmatrace/pkg/platform/sentinel"
)

// MedicineStore persists medicine master data keyed case-insensitively by
// batch number.
type MedicineStore struct {
	pool *pgxpool.Pool
}

// NewMedicineStore constructs a PostgreSQL-backed medicine store.
func NewMedicineStore(pool *pgxpool.Pool) *MedicineStore {
	return &MedicineStore{pool: pool}
}

// List returns a page of medicines ordered by batch number.
func (s *MedicineStore) List(ctx context.Context, skip, take int) ([]*domain.Medicine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT batch_no, name, manufacturer, expiry_utc, price_cents
		FROM medicines ORDER BY batch_no OFFSET $1 LIMIT $2
	`, skip, take)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()

	var medicines []*domain.Medicine
	for rows.Next() {
		var med domain.Medicine
		if err := rows.Scan(&med.BatchNo, &med.Name, &med.Manufacturer, &med.ExpiryUTC, &med.PriceCents); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		medicines = append(medicines, &med)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return medicines, nil
}

// FindByBatch looks a medicine up by batch number.
func (s *MedicineStore) FindByBatch(ctx context.Context, batchNo string) (*domain.Medicine, error) {
	var med domain.Medicine
	err := s.pool.QueryRow(ctx, `
		SELECT batch_no, name, manufacturer, expiry_utc, price_cents
		FROM medicines WHERE upper(batch_no) = upper($1)
	`, strings.TrimSpace(batchNo)).Scan(
		&med.BatchNo, &med.Name, &med.Manufacturer, &med.ExpiryUTC, &med.PriceCents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("medicine batch %q: %w", batchNo, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find medicine: %w", err)
	}
	return &med, nil
}

// Upsert inserts or replaces the medicine row.
func (s *MedicineStore) Upsert(ctx context.Context, medicine *domain.Medicine) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO medicines (batch_no, name, manufacturer, expiry_utc, price_cents)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (batch_no) DO UPDATE SET
			name         = EXCLUDED.name,
			manufacturer = EXCLUDED.manufacturer,
			expiry_utc   = EXCLUDED.expiry_utc,
			price_cents  = EXCLUDED.price_cents
	`, medicine.BatchNo, medicine.Name, medicine.Manufacturer, medicine.ExpiryUTC, medicine.PriceCents)
	if err != nil {
		return fmt.Errorf("upsert medicine: %w", err)
	}
	return nil
}

// DeleteByBatch removes a medicine, reporting whether a row was deleted.
func (s *MedicineStore) DeleteByBatch(ctx context.Context, batchNo string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM medicines WHERE upper(batch_no) = upper($1)`,
		strings.TrimSpace(batchNo),
	)
	if err != nil {
		return false, fmt.Errorf("delete medicine: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
