package memory

import (
	"context"
	"time"

	"pharmatrace/internal/domain"
)

// SeedDemoData loads a couple of packs so a fresh development server has
// something to scan.
func SeedDemoData(ctx context.Context, packs *PackStore) error {
	now := time.Now().UTC()
	demo := []struct {
		token  string
		expiry time.Time
		status domain.PackStatus
	}{
		{"ABCD-1234-XYZ", now.AddDate(0, 6, 0), domain.PackStatusInTransit},
		{"BATCH-2025-08-0001", now.AddDate(0, 3, 0), domain.PackStatusProduced},
	}
	for _, d := range demo {
		pack, err := domain.NewPack(d.token, d.expiry, d.status)
		if err != nil {
			return err
		}
		if err := packs.Upsert(ctx, pack); err != nil {
			return err
		}
	}
	return nil
}
