//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/store/postgres"
	"pharmatrace/pkg/platform/sentinel"
	"pharmatrace/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg        *containers.PostgresContainer
	packs     *postgres.PackStore
	shipments *postgres.ShipmentStore
	ledger    *postgres.LedgerStore
	medicines *postgres.MedicineStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.pg.Pool))
	s.packs = postgres.NewPackStore(s.pg.Pool)
	s.shipments = postgres.NewShipmentStore(s.pg.Pool)
	s.ledger = postgres.NewLedgerStore(s.pg.Pool)
	s.medicines = postgres.NewMedicineStore(s.pg.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	// Truncate in dependency order
	err := s.pg.TruncateTables(context.Background(),
		"pack_scans", "shipment_packs", "ledger_entries", "shipments", "packs", "medicines")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestPackRoundTrip() {
	ctx := context.Background()
	expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	pack, err := domain.NewPack("abc-1", expiry, domain.PackStatusProduced)
	s.Require().NoError(err)
	s.Require().NoError(s.packs.Upsert(ctx, pack))

	got, err := s.packs.FindByToken(ctx, "  abc-1  ")
	s.Require().NoError(err)
	s.Equal("ABC-1", got.Token)
	s.Equal(domain.PackStatusProduced, got.Status)
	s.True(got.Expiry.Equal(expiry))
}

func (s *PostgresStoreSuite) TestPackNotFound() {
	_, err := s.packs.FindByToken(context.Background(), "MISSING-1")
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestPackScans() {
	ctx := context.Background()

	pack, err := domain.NewPack("SCAN-1", time.Now().Add(24*time.Hour), domain.PackStatusProduced)
	s.Require().NoError(err)
	s.Require().NoError(s.packs.Upsert(ctx, pack))

	seen, err := s.packs.HasScan(ctx, "SCAN-1")
	s.Require().NoError(err)
	s.False(seen)

	s.Require().NoError(s.packs.RecordScan(ctx, "SCAN-1"))
	s.Require().NoError(s.packs.RecordScan(ctx, "SCAN-1"))

	seen, err = s.packs.HasScan(ctx, "scan-1")
	s.Require().NoError(err)
	s.True(seen)
}

func (s *PostgresStoreSuite) TestShipmentRoundTrip() {
	ctx := context.Background()
	now := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

	shipment, err := domain.NewShipment("SHP-1", "ManuCo", "DistCo", now)
	s.Require().NoError(err)
	s.Require().NoError(shipment.AddPackToken("ABC-1"))
	s.Require().NoError(shipment.AddPackToken("ABC-2"))
	s.Require().NoError(s.shipments.Upsert(ctx, shipment))

	got, err := s.shipments.FindByID(ctx, "SHP-1")
	s.Require().NoError(err)
	s.Equal(domain.ShipmentStatusPacked, got.Status)
	s.Equal([]string{"ABC-1", "ABC-2"}, got.PackTokens)
}

func (s *PostgresStoreSuite) TestShipmentUpsertReplacesPackList() {
	ctx := context.Background()
	now := time.Now().UTC()

	shipment, err := domain.NewShipment("SHP-2", "ManuCo", "DistCo", now)
	s.Require().NoError(err)
	s.Require().NoError(shipment.AddPackToken("ABC-1"))
	s.Require().NoError(s.shipments.Upsert(ctx, shipment))

	s.Require().NoError(shipment.RemovePackToken("ABC-1"))
	s.Require().NoError(shipment.AddPackToken("XYZ-9"))
	s.Require().NoError(s.shipments.Upsert(ctx, shipment))

	got, err := s.shipments.FindByID(ctx, "SHP-2")
	s.Require().NoError(err)
	s.Equal([]string{"XYZ-9"}, got.PackTokens)
}

func (s *PostgresStoreSuite) TestShipmentList() {
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range []string{"SHP-A", "SHP-B", "SHP-C"} {
		shipment, err := domain.NewShipment(id, "ManuCo", "DistCo", now)
		s.Require().NoError(err)
		s.Require().NoError(s.shipments.Upsert(ctx, shipment))
	}

	page, err := s.shipments.List(ctx, 1, 1)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("SHP-B", page[0].ID)
}

func (s *PostgresStoreSuite) TestLedgerAppendAndList() {
	ctx := context.Background()
	occurred := time.Date(2025, 8, 2, 12, 0, 0, 0, time.UTC)

	entry, err := domain.NewLedgerEntry("DistCo", "ManuCo", 850, "Delivery of pack ABC-1 on shipment SHP-1", occurred)
	s.Require().NoError(err)
	s.Require().NoError(s.ledger.Add(ctx, entry))

	entries, err := s.ledger.List(ctx, 0, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(int64(850), entries[0].AmountCents)
	s.Equal("DistCo", entries[0].From)
}

func (s *PostgresStoreSuite) TestMedicineRoundTrip() {
	ctx := context.Background()

	med, err := domain.NewMedicine("Amoxicillin", "BATCH-2025-08-0001", "", nil, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.medicines.Upsert(ctx, med))

	got, err := s.medicines.FindByBatch(ctx, "batch-2025-08-0001")
	s.Require().NoError(err)
	s.Equal("Unknown", got.Manufacturer)

	removed, err := s.medicines.DeleteByBatch(ctx, "BATCH-2025-08-0001")
	s.Require().NoError(err)
	s.True(removed)

	_, err = s.medicines.FindByBatch(ctx, "BATCH-2025-08-0001")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}
