// Package verification answers pack scans: is this token genuine, has it
// been scanned before, and is the pack expired.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/platform/metrics"
	dErrors "pharmatrace/pkg/domain-errors"
	"pharmatrace/pkg/platform/sentinel"
)

// PackStore is the lookup and scan-recording slice this service needs.
type PackStore interface {
	FindByToken(ctx context.Context, token string) (*domain.Pack, error)
	HasScan(ctx context.Context, token string) (bool, error)
	RecordScan(ctx context.Context, token string) error
}

// Result is the outcome of verifying one token. Duplicate and Expired are
// independent axes; both can be true at once, and both are reported alongside
// the pack's current status.
type Result struct {
	Found     bool              `json:"found"`
	Duplicate bool              `json:"duplicate"`
	Expired   bool              `json:"expired"`
	Status    domain.PackStatus `json:"status,omitempty"`
	Message   string            `json:"message"`
}

// Service verifies pack tokens and records every successful lookup as a scan,
// so the next verification of the same token reports a duplicate.
type Service struct {
	packs     PackStore
	validator TokenValidator

	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithValidator replaces the token-format validator.
func WithValidator(v TokenValidator) Option {
	return func(s *Service) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables counter updates.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs the verification service with the simple format validator.
func New(packs PackStore, opts ...Option) *Service {
	s := &Service{
		packs:     packs,
		validator: SimpleTokenValidator{},
		logger:    slog.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify checks a token and records the scan. Blank, malformed, and unknown
// tokens fail closed with Found=false and no scan recorded. For a known pack
// the duplicate flag reflects scans before this call, expiry compares the
// pack's expiry date against today, and the scan is recorded unconditionally,
// expired or not.
func (s *Service) Verify(ctx context.Context, token string) (Result, error) {
	norm := domain.NormalizeToken(token)
	if norm == "" {
		return Result{Message: "Token is required."}, nil
	}
	if err := s.validator.Validate(norm); err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			return Result{Message: err.Error()}, nil
		}
		return Result{}, err
	}

	pack, err := s.packs.FindByToken(ctx, norm)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Result{Message: "Not found - possible counterfeit."}, nil
		}
		return Result{}, dErrors.Wrap(dErrors.CodeInternal, "look up pack", err)
	}

	duplicate, err := s.packs.HasScan(ctx, norm)
	if err != nil {
		return Result{}, dErrors.Wrap(dErrors.CodeInternal, "check prior scans", err)
	}
	expired := pack.IsExpired(s.clock().UTC())

	if err := s.packs.RecordScan(ctx, norm); err != nil {
		return Result{}, dErrors.Wrap(dErrors.CodeInternal, "record scan", err)
	}

	if s.metrics != nil {
		s.metrics.ScansRecorded.Inc()
		if duplicate {
			s.metrics.DuplicateScans.Inc()
		}
	}
	s.logger.InfoContext(ctx, "pack verified",
		"token", norm,
		"duplicate", duplicate,
		"expired", expired,
	)

	return Result{
		Found:     true,
		Duplicate: duplicate,
		Expired:   expired,
		Status:    pack.Status,
		Message:   fmt.Sprintf("OK - Status: %s, Duplicate: %t, Expired: %t", pack.Status, duplicate, expired),
	}, nil
}
