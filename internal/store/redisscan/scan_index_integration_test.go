//go:build integration

package redisscan_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/store/memory"
	"pharmatrace/internal/store/redisscan"
	"pharmatrace/pkg/testutil/containers"
)

type ScanIndexSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	packs *memory.PackStore
	index *redisscan.Index
}

func TestScanIndexSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ScanIndexSuite))
}

func (s *ScanIndexSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *ScanIndexSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.packs = memory.NewPackStore()
	s.index = redisscan.New(s.packs, s.redis.Client)
}

func (s *ScanIndexSuite) TestScanHistoryLivesInRedis() {
	ctx := context.Background()

	pack, err := domain.NewPack("ABC-1", time.Now().Add(24*time.Hour), domain.PackStatusProduced)
	s.Require().NoError(err)
	s.Require().NoError(s.packs.Upsert(ctx, pack))

	seen, err := s.index.HasScan(ctx, "ABC-1")
	s.Require().NoError(err)
	s.False(seen)

	s.Require().NoError(s.index.RecordScan(ctx, "abc-1"))

	seen, err = s.index.HasScan(ctx, "ABC-1")
	s.Require().NoError(err)
	s.True(seen)

	// The wrapped store never saw the scan.
	seen, err = s.packs.HasScan(ctx, "ABC-1")
	s.Require().NoError(err)
	s.False(seen)
}

func (s *ScanIndexSuite) TestPackLookupDelegates() {
	ctx := context.Background()

	pack, err := domain.NewPack("XYZ-9", time.Now().Add(24*time.Hour), domain.PackStatusDelivered)
	s.Require().NoError(err)
	s.Require().NoError(s.packs.Upsert(ctx, pack))

	got, err := s.index.FindByToken(ctx, "xyz-9")
	s.Require().NoError(err)
	s.Equal(domain.PackStatusDelivered, got.Status)
}
