package verification

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/store/memory"
	dErrors "pharmatrace/pkg/domain-errors"
)

type VerificationServiceSuite struct {
	suite.Suite
	ctx context.Context

	packs   *memory.PackStore
	service *Service
	now     time.Time
}

func TestVerificationServiceSuite(t *testing.T) {
	suite.Run(t, new(VerificationServiceSuite))
}

func (s *VerificationServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.packs = memory.NewPackStore()
	s.now = time.Date(2025, 8, 5, 11, 0, 0, 0, time.UTC)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.packs,
		WithLogger(logger),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *VerificationServiceSuite) seedPack(token string, expiry time.Time) {
	pack, err := domain.NewPack(token, expiry, domain.PackStatusProduced)
	s.Require().NoError(err)
	s.Require().NoError(s.packs.Upsert(s.ctx, pack))
}

func (s *VerificationServiceSuite) TestVerifyBlankToken() {
	result, err := s.service.Verify(s.ctx, "   ")
	s.Require().NoError(err)
	s.False(result.Found)
	s.Equal("Token is required.", result.Message)
}

func (s *VerificationServiceSuite) TestVerifyMalformedToken() {
	result, err := s.service.Verify(s.ctx, "AB")
	s.Require().NoError(err)
	s.False(result.Found)
	s.Contains(result.Message, "between 4 and 64")

	// Nothing was recorded for the malformed token.
	seen, err := s.packs.HasScan(s.ctx, "AB")
	s.Require().NoError(err)
	s.False(seen)
}

func (s *VerificationServiceSuite) TestVerifyUnknownToken() {
	result, err := s.service.Verify(s.ctx, "ZZZZ-0000")
	s.Require().NoError(err)
	s.False(result.Found)
	s.Equal("Not found - possible counterfeit.", result.Message)
}

func (s *VerificationServiceSuite) TestVerifyFirstScanThenDuplicate() {
	s.seedPack("ABCD-1234-XYZ", s.now.AddDate(1, 0, 0))

	first, err := s.service.Verify(s.ctx, "abcd-1234-xyz")
	s.Require().NoError(err)
	s.True(first.Found)
	s.False(first.Duplicate)
	s.False(first.Expired)
	s.Equal(domain.PackStatusProduced, first.Status)
	s.Equal("OK - Status: produced, Duplicate: false, Expired: false", first.Message)

	second, err := s.service.Verify(s.ctx, "ABCD-1234-XYZ")
	s.Require().NoError(err)
	s.True(second.Duplicate)
	s.Equal("OK - Status: produced, Duplicate: true, Expired: false", second.Message)
}

func (s *VerificationServiceSuite) TestVerifyExpiredPackStillRecordsScan() {
	s.seedPack("OLDP-0001", s.now.AddDate(0, 0, -10))

	result, err := s.service.Verify(s.ctx, "OLDP-0001")
	s.Require().NoError(err)
	s.True(result.Found)
	s.True(result.Expired)
	s.False(result.Duplicate)

	seen, err := s.packs.HasScan(s.ctx, "OLDP-0001")
	s.Require().NoError(err)
	s.True(seen)
}

func (s *VerificationServiceSuite) TestVerifyDuplicateAndExpiredAreIndependent() {
	s.seedPack("OLDP-0001", s.now.AddDate(0, 0, -10))

	_, err := s.service.Verify(s.ctx, "OLDP-0001")
	s.Require().NoError(err)

	result, err := s.service.Verify(s.ctx, "OLDP-0001")
	s.Require().NoError(err)
	s.True(result.Duplicate)
	s.True(result.Expired)
	s.Equal("OK - Status: produced, Duplicate: true, Expired: true", result.Message)
}

type rejectEverything struct{}

func (rejectEverything) Validate(string) error {
	return dErrors.New(dErrors.CodeValidation, "rejected")
}

func (s *VerificationServiceSuite) TestWithValidatorOverride() {
	s.seedPack("ABCD-1234-XYZ", s.now.AddDate(1, 0, 0))
	svc := New(s.packs, WithValidator(rejectEverything{}))

	result, err := svc.Verify(s.ctx, "ABCD-1234-XYZ")
	s.Require().NoError(err)
	s.False(result.Found)
}
