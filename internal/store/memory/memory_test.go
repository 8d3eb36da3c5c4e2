package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pharmatrace/internal/domain"
	"pharmatrace/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) TestPackStoreReturnsCopies() {
	store := NewPackStore()
	pack, err := domain.NewPack("ABC-1", time.Now().AddDate(1, 0, 0), domain.PackStatusProduced)
	s.Require().NoError(err)
	s.Require().NoError(store.Upsert(s.ctx, pack))

	got, err := store.FindByToken(s.ctx, "abc-1")
	s.Require().NoError(err)
	got.SetStatus(domain.PackStatusSold)

	// Mutating the returned copy must not touch stored state.
	again, err := store.FindByToken(s.ctx, "ABC-1")
	s.Require().NoError(err)
	s.Equal(domain.PackStatusProduced, again.Status)
}

func (s *MemoryStoreSuite) TestPackStoreNotFound() {
	store := NewPackStore()
	_, err := store.FindByToken(s.ctx, "GHOST-1")
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *MemoryStoreSuite) TestPackStoreScans() {
	store := NewPackStore()

	seen, err := store.HasScan(s.ctx, "ABC-1")
	s.Require().NoError(err)
	s.False(seen)

	s.Require().NoError(store.RecordScan(s.ctx, "abc-1"))

	seen, err = store.HasScan(s.ctx, "ABC-1")
	s.Require().NoError(err)
	s.True(seen)
}

func (s *MemoryStoreSuite) TestShipmentStoreReturnsCopies() {
	store := NewShipmentStore()
	shipment, err := domain.NewShipment("SHP-1", "ManuCo", "DistCo", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(shipment.AddPackToken("ABC-1"))
	s.Require().NoError(store.Upsert(s.ctx, shipment))

	got, err := store.FindByID(s.ctx, "SHP-1")
	s.Require().NoError(err)
	got.PackTokens[0] = "TAMPERED"

	again, err := store.FindByID(s.ctx, "SHP-1")
	s.Require().NoError(err)
	s.Equal([]string{"ABC-1"}, again.PackTokens)
}

func (s *MemoryStoreSuite) TestShipmentStoreListOrderAndPaging() {
	store := NewShipmentStore()
	for _, id := range []string{"SHP-C", "SHP-A", "SHP-B"} {
		shipment, err := domain.NewShipment(id, "ManuCo", "DistCo", time.Now())
		s.Require().NoError(err)
		s.Require().NoError(store.Upsert(s.ctx, shipment))
	}

	all, err := store.List(s.ctx, 0, 10)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("SHP-A", all[0].ID)
	s.Equal("SHP-C", all[2].ID)

	page, err := store.List(s.ctx, 2, 10)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("SHP-C", page[0].ID)

	empty, err := store.List(s.ctx, 99, 10)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *MemoryStoreSuite) TestLedgerStoreAppendOnly() {
	store := NewLedgerStore()
	occurred := time.Now()

	for i := int64(1); i <= 3; i++ {
		entry, err := domain.NewLedgerEntry("DistCo", "ManuCo", i*100, "memo", occurred)
		s.Require().NoError(err)
		s.Require().NoError(store.Add(s.ctx, entry))
	}

	entries, err := store.List(s.ctx, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(int64(100), entries[0].AmountCents)
	s.Equal(int64(300), entries[2].AmountCents)

	page, err := store.List(s.ctx, 1, 1)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal(int64(200), page[0].AmountCents)
}

func (s *MemoryStoreSuite) TestSeedDemoData() {
	store := NewPackStore()
	s.Require().NoError(SeedDemoData(s.ctx, store))

	pack, err := store.FindByToken(s.ctx, "ABCD-1234-XYZ")
	s.Require().NoError(err)
	s.Equal(domain.PackStatusInTransit, pack.Status)

	pack, err = store.FindByToken(s.ctx, "BATCH-2025-08-0001")
	s.Require().NoError(err)
	s.Equal(domain.PackStatusProduced, pack.Status)
}
