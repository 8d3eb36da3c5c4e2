// Package sales coordinates the retail sale of a single pack.
package sales

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/events"
	"pharmatrace/internal/platform/metrics"
	dErrors "pharmatrace/pkg/domain-errors"
	"pharmatrace/pkg/platform/sentinel"
)

// PackStore is the slice of pack persistence the sale needs.
type PackStore interface {
	FindByToken(ctx context.Context, token string) (*domain.Pack, error)
	Upsert(ctx context.Context, pack *domain.Pack) error
}

// Payments is the direct ledger-recording path for sales.
type Payments interface {
	RecordRetailSale(ctx context.Context, retailer, customer, token string, salePriceCents *int64) error
}

// Service sells delivered packs: it guards the status change, persists it,
// publishes PackStatusChanged then PackSold, and finally records the retail
// ledger entry through the payment coordinator.
//
// The ledger step runs after the sale is committed. If it fails the sale is
// not rolled back; the error is returned so the caller knows the secondary
// effect was lost, but the pack stays Sold.
type Service struct {
	packs    PackStore
	bus      *events.Bus
	payments Payments

	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

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

// New constructs the sales coordinator.
func New(packs PackStore, bus *events.Bus, payments Payments, opts ...Option) *Service {
	s := &Service{
		packs:    packs,
		bus:      bus,
		payments: payments,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordSale marks the pack Sold, publishes the sale events, and records the
// Customer -> Retailer ledger entry. Only delivered packs are sellable.
func (s *Service) RecordSale(ctx context.Context, token, retailer, customer string, salePriceCents *int64) (*domain.Pack, error) {
	norm := domain.NormalizeToken(token)
	retailer = strings.TrimSpace(retailer)
	customer = strings.TrimSpace(customer)

	if norm == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "pack token is required")
	}
	if retailer == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "retailer is required")
	}
	if customer == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "customer is required")
	}

	pack, err := s.packs.FindByToken(ctx, norm)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "pack %q was not found", norm)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "look up pack", err)
	}

	if pack.Status == domain.PackStatusSold {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "pack is already sold")
	}
	if pack.Status != domain.PackStatusDelivered {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "only delivered packs can be sold")
	}

	before := pack.Status
	pack.SetStatus(domain.PackStatusSold)
	if err := s.packs.Upsert(ctx, pack); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "persist pack", err)
	}

	now := s.clock().UTC()
	s.bus.Publish(events.PackStatusChanged{
		Token:      pack.Token,
		From:       before,
		To:         pack.Status,
		OccurredAt: now,
	})
	s.bus.Publish(events.PackSold{Token: pack.Token, OccurredAt: now})

	if s.metrics != nil {
		s.metrics.PacksSold.Inc()
	}
	s.logger.InfoContext(ctx, "pack sold",
		"token", pack.Token,
		"retailer", retailer,
	)

	if err := s.payments.RecordRetailSale(ctx, retailer, customer, pack.Token, salePriceCents); err != nil {
		// The sale is committed; only the ledger entry was lost.
		return pack, dErrors.Wrap(dErrors.CodeInternal, "sale recorded but ledger entry failed", err)
	}
	return pack, nil
}
