// Package shipment coordinates the shipment workflow: creation, pack list
// edits, and the lifecycle transitions that cascade onto pack statuses.
package shipment

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

// PackStore is the slice of pack persistence this coordinator needs.
type PackStore interface {
	FindByToken(ctx context.Context, token string) (*domain.Pack, error)
	Upsert(ctx context.Context, pack *domain.Pack) error
}

// ShipmentStore persists shipments.
type ShipmentStore interface {
	FindByID(ctx context.Context, id string) (*domain.Shipment, error)
	Upsert(ctx context.Context, shipment *domain.Shipment) error
	List(ctx context.Context, skip, take int) ([]*domain.Shipment, error)
}

// Service owns all shipment mutation. It validates transitions against the
// strict linear order, cascades resulting pack status changes, and publishes
// domain events after persistence has succeeded. Publication is a
// post-condition of the methods themselves; there is no separate eventing
// wrapper.
type Service struct {
	packs     PackStore
	shipments ShipmentStore
	bus       *events.Bus

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

// New constructs the shipment coordinator.
func New(packs PackStore, shipments ShipmentStore, bus *events.Bus, opts ...Option) *Service {
	s := &Service{
		packs:     packs,
		shipments: shipments,
		bus:       bus,
		logger:    slog.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new shipment in the Packed state with no packs. It fails
// with a conflict error when the id is already taken.
func (s *Service) Create(ctx context.Context, id, fromParty, toParty string) (*domain.Shipment, error) {
	shipment, err := domain.NewShipment(id, fromParty, toParty, s.clock().UTC())
	if err != nil {
		return nil, err
	}

	existing, err := s.shipments.FindByID(ctx, shipment.ID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "look up shipment", err)
	}
	if existing != nil {
		return nil, dErrors.Newf(dErrors.CodeConflict, "shipment %q already exists", shipment.ID)
	}

	if err := s.shipments.Upsert(ctx, shipment); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "persist shipment", err)
	}

	if s.metrics != nil {
		s.metrics.ShipmentsCreated.Inc()
	}
	s.logger.InfoContext(ctx, "shipment created",
		"shipment_id", shipment.ID,
		"from", shipment.FromParty,
		"to", shipment.ToParty,
	)
	return shipment, nil
}

// AddPack puts a pack token on a Packed shipment. The pack must exist and
// must not be sold. Adding a token already present is a no-op.
func (s *Service) AddPack(ctx context.Context, shipmentID, token string) (*domain.Shipment, error) {
	shipment, err := s.requireShipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	norm := domain.NormalizeToken(token)
	if norm == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "pack token is required")
	}

	pack, err := s.findPack(ctx, norm)
	if err != nil {
		return nil, err
	}
	if pack == nil {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "pack %q was not found", norm)
	}
	if pack.Status == domain.PackStatusSold {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "cannot add a sold pack to a shipment")
	}

	if shipment.HasPackToken(norm) {
		return shipment, nil
	}
	if err := shipment.AddPackToken(pack.Token); err != nil {
		return nil, err
	}
	if err := s.shipments.Upsert(ctx, shipment); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "persist shipment", err)
	}
	return shipment, nil
}

// RemovePack removes a pack token from a Packed shipment.
func (s *Service) RemovePack(ctx context.Context, shipmentID, token string) (*domain.Shipment, error) {
	shipment, err := s.requireShipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if err := shipment.RemovePackToken(token); err != nil {
		return nil, err
	}
	if err := s.shipments.Upsert(ctx, shipment); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "persist shipment", err)
	}
	return shipment, nil
}

// Transition moves the shipment to nextStatus and cascades the change onto
// its packs: InTransit and Delivered each force the matching pack status, and
// Delivered stamps the shipment's delivery time.
//
// The shipment is persisted first, then each changed pack. Tokens with no
// pack record are skipped rather than failing the transition; stores can be
// out of sync with the shipment's token list. Events go out only after all
// persistence has succeeded: one ShipmentStatusChanged, then one
// PackStatusChanged per pack whose status actually changed.
func (s *Service) Transition(ctx context.Context, shipmentID string, nextStatus domain.ShipmentStatus) (*domain.Shipment, error) {
	shipment, err := s.requireShipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	before := s.packStatuses(ctx, shipment.PackTokens)
	fromStatus := shipment.Status
	now := s.clock().UTC()

	if err := shipment.TransitionTo(nextStatus, now); err != nil {
		return nil, err
	}
	if err := s.shipments.Upsert(ctx, shipment); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "persist shipment", err)
	}

	changed, err := s.cascade(ctx, shipment, nextStatus)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.ShipmentStatusChanged{
		ShipmentID: shipment.ID,
		From:       fromStatus,
		To:         shipment.Status,
		OccurredAt: now,
	})
	for _, pack := range changed {
		prev, tracked := before[pack.Token]
		if tracked && prev == pack.Status {
			continue
		}
		s.bus.Publish(events.PackStatusChanged{
			Token:      pack.Token,
			From:       prev,
			To:         pack.Status,
			OccurredAt: now,
		})
	}

	if s.metrics != nil {
		s.metrics.TransitionsApplied.WithLabelValues(string(nextStatus)).Inc()
	}
	s.logger.InfoContext(ctx, "shipment transitioned",
		"shipment_id", shipment.ID,
		"from", string(fromStatus),
		"to", string(shipment.Status),
		"packs", len(shipment.PackTokens),
	)
	return shipment, nil
}

// List returns a page of shipments in repository order.
func (s *Service) List(ctx context.Context, skip, take int) ([]*domain.Shipment, error) {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = 100
	}
	shipments, err := s.shipments.List(ctx, skip, take)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list shipments", err)
	}
	return shipments, nil
}

// cascade forces the pack status implied by nextStatus onto every pack on the
// shipment, returning the packs it updated. Missing pack records are skipped.
func (s *Service) cascade(ctx context.Context, shipment *domain.Shipment, nextStatus domain.ShipmentStatus) ([]*domain.Pack, error) {
	target, ok := nextStatus.PackStatusFor()
	if !ok {
		return nil, nil
	}

	var updated []*domain.Pack
	for _, token := range shipment.PackTokens {
		pack, err := s.findPack(ctx, token)
		if err != nil {
			return nil, err
		}
		if pack == nil {
			// Token list and pack store can disagree; tolerate it.
			s.logger.WarnContext(ctx, "pack on shipment has no record, skipping",
				"shipment_id", shipment.ID,
				"token", token,
			)
			continue
		}
		if pack.Status == target {
			updated = append(updated, pack)
			continue
		}
		pack.SetStatus(target)
		if err := s.packs.Upsert(ctx, pack); err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "persist pack", err)
		}
		updated = append(updated, pack)
	}
	return updated, nil
}

// packStatuses snapshots the current status of each token's pack; tokens
// without a record are left out.
func (s *Service) packStatuses(ctx context.Context, tokens []string) map[string]domain.PackStatus {
	statuses := make(map[string]domain.PackStatus, len(tokens))
	for _, token := range tokens {
		pack, err := s.findPack(ctx, token)
		if err != nil || pack == nil {
			continue
		}
		statuses[pack.Token] = pack.Status
	}
	return statuses
}

func (s *Service) requireShipment(ctx context.Context, id string) (*domain.Shipment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "shipment id is required")
	}
	shipment, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "shipment %q was not found", id)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "look up shipment", err)
	}
	return shipment, nil
}

// findPack looks a pack up by normalized token, mapping the store's not-found
// sentinel to a nil pack so cascade call sites can treat absence as data skew.
func (s *Service) findPack(ctx context.Context, token string) (*domain.Pack, error) {
	pack, err := s.packs.FindByToken(ctx, domain.NormalizeToken(token))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "look up pack", err)
	}
	return pack, nil
}
