package payments

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/events"
	"pharmatrace/internal/platform/metrics"
	dErrors "pharmatrace/pkg/domain-errors"
	"pharmatrace/pkg/platform/sentinel"
)

// LedgerStore appends obligations. Entries are never updated or deleted.
type LedgerStore interface {
	Add(ctx context.Context, entry *domain.LedgerEntry) error
}

// ShipmentStore is the read slice this coordinator needs.
type ShipmentStore interface {
	FindByID(ctx context.Context, id string) (*domain.Shipment, error)
}

// PackStore is the read slice this coordinator needs.
type PackStore interface {
	FindByToken(ctx context.Context, token string) (*domain.Pack, error)
}

// Service turns domain events and retail sales into ledger entries.
//
// It subscribes to shipment status changes at construction time. When a
// shipment reaches Delivered it re-reads the shipment and its packs, filters
// to those currently Delivered, runs the policy, and appends the result to
// the ledger. Failures inside that handler are logged and swallowed: a broken
// payment derivation must never block the transition that triggered it, at
// the cost of losing those entries (no retry, no dead-letter).
//
// RecordRetailSale is the synchronous path for sales; its failures surface to
// the caller.
type Service struct {
	policy    Policy
	ledger    LedgerStore
	shipments ShipmentStore
	packs     PackStore

	unitPriceCents     int64
	defaultRetailCents int64

	logger  *slog.Logger
	metrics *metrics.Metrics
	sub     *events.Subscription
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

// New constructs the payment coordinator and subscribes it to shipment
// status changes on the bus.
func New(
	bus *events.Bus,
	policy Policy,
	ledger LedgerStore,
	shipments ShipmentStore,
	packs PackStore,
	unitPriceCents, defaultRetailCents int64,
	opts ...Option,
) *Service {
	s := &Service{
		policy:             policy,
		ledger:             ledger,
		shipments:          shipments,
		packs:              packs,
		unitPriceCents:     unitPriceCents,
		defaultRetailCents: defaultRetailCents,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sub = bus.Subscribe(events.TypeShipmentStatusChanged, s.onShipmentStatusChanged)
	return s
}

// Close cancels the bus subscription.
func (s *Service) Close() {
	if s.sub != nil {
		s.sub.Cancel()
	}
}

// RecordRetailSale appends the Customer -> Retailer entry for one sold pack.
// A nil salePriceCents falls back to the configured default retail price.
func (s *Service) RecordRetailSale(ctx context.Context, retailer, customer, token string, salePriceCents *int64) error {
	retailer = strings.TrimSpace(retailer)
	customer = strings.TrimSpace(customer)
	norm := domain.NormalizeToken(token)

	if retailer == "" {
		return dErrors.New(dErrors.CodeValidation, "retailer is required")
	}
	if customer == "" {
		return dErrors.New(dErrors.CodeValidation, "customer is required")
	}
	if norm == "" {
		return dErrors.New(dErrors.CodeValidation, "pack token is required")
	}

	pack, err := s.packs.FindByToken(ctx, norm)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "pack %q was not found", norm)
		}
		return dErrors.Wrap(dErrors.CodeInternal, "look up pack", err)
	}

	price := s.defaultRetailCents
	if salePriceCents != nil {
		price = *salePriceCents
	}

	entries, err := s.policy.ForRetailSale(retailer, customer, pack, price)
	if err != nil {
		return err
	}
	return s.appendAll(ctx, entries)
}

func (s *Service) onShipmentStatusChanged(event events.Event) {
	e, ok := event.(events.ShipmentStatusChanged)
	if !ok || e.To != domain.ShipmentStatusDelivered {
		return
	}

	ctx := context.Background()
	if err := s.recordDelivery(ctx, e.ShipmentID); err != nil {
		// Swallowed on purpose: the shipment transition already happened and
		// must not observe payment failures. The entries are lost.
		s.logger.ErrorContext(ctx, "delivery payment derivation failed",
			"shipment_id", e.ShipmentID,
			"error", err,
		)
	}
}

func (s *Service) recordDelivery(ctx context.Context, shipmentID string) error {
	shipment, err := s.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return err
	}

	var delivered []*domain.Pack
	for _, token := range shipment.PackTokens {
		pack, err := s.packs.FindByToken(ctx, domain.NormalizeToken(token))
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return err
		}
		if pack.Status == domain.PackStatusDelivered {
			delivered = append(delivered, pack)
		}
	}

	entries, err := s.policy.ForShipmentDelivery(shipment, delivered, s.unitPriceCents)
	if err != nil {
		return err
	}
	return s.appendAll(ctx, entries)
}

func (s *Service) appendAll(ctx context.Context, entries []*domain.LedgerEntry) error {
	for _, entry := range entries {
		if err := s.ledger.Add(ctx, entry); err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "append ledger entry", err)
		}
		if s.metrics != nil {
			s.metrics.LedgerEntriesAdded.Inc()
		}
	}
	return nil
}
