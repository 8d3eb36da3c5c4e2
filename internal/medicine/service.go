// Package medicine maintains the admin-managed medicine master data. Each
// batch also gets an empty shipment shell so packs for that batch have a
// shipment to board.
package medicine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"pharmatrace/internal/domain"
	dErrors "pharmatrace/pkg/domain-errors"
	"pharmatrace/pkg/platform/sentinel"
)

// Store persists medicine master data keyed by batch number.
type Store interface {
	List(ctx context.Context, skip, take int) ([]*domain.Medicine, error)
	FindByBatch(ctx context.Context, batchNo string) (*domain.Medicine, error)
	Upsert(ctx context.Context, medicine *domain.Medicine) error
	DeleteByBatch(ctx context.Context, batchNo string) (bool, error)
}

// ShipmentStore is the slice needed to keep a shipment shell per batch.
type ShipmentStore interface {
	FindByID(ctx context.Context, id string) (*domain.Shipment, error)
	Upsert(ctx context.Context, shipment *domain.Shipment) error
}

// UpsertInput carries the AddOrUpdate parameters. FromParty and ToParty only
// affect the shipment shell created for a new batch; blanks take the
// historical defaults.
type UpsertInput struct {
	Name         string
	BatchNo      string
	Manufacturer string
	ExpiryUTC    *time.Time
	PriceCents   *int64
	FromParty    string
	ToParty      string
}

// Service manages medicines. Authorization is enforced by the transport
// layer; the service assumes the caller is already an authenticated admin.
type Service struct {
	medicines Store
	shipments ShipmentStore
	logger    *slog.Logger
	clock     func() time.Time
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

// WithClock overrides the time source for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs the medicine service.
func New(medicines Store, shipments ShipmentStore, opts ...Option) *Service {
	s := &Service{
		medicines: medicines,
		shipments: shipments,
		logger:    slog.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a page of medicines in repository order.
func (s *Service) List(ctx context.Context, skip, take int) ([]*domain.Medicine, error) {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = 100
	}
	meds, err := s.medicines.List(ctx, skip, take)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list medicines", err)
	}
	return meds, nil
}

// FindByBatch looks a medicine up by batch number.
func (s *Service) FindByBatch(ctx context.Context, batchNo string) (*domain.Medicine, error) {
	batchNo = strings.TrimSpace(batchNo)
	if batchNo == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "batch number is required")
	}
	med, err := s.medicines.FindByBatch(ctx, batchNo)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "medicine batch %q was not found", batchNo)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "look up medicine", err)
	}
	return med, nil
}

// AddOrUpdate upserts a medicine and ensures the batch's shipment shell
// exists: SHP-<BATCH>, Packed, no packs. An existing shell is left untouched.
func (s *Service) AddOrUpdate(ctx context.Context, input UpsertInput) (*domain.Medicine, error) {
	med, err := domain.NewMedicine(input.Name, input.BatchNo, input.Manufacturer, input.ExpiryUTC, input.PriceCents)
	if err != nil {
		return nil, err
	}

	if err := s.medicines.Upsert(ctx, med); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "persist medicine", err)
	}

	if err := s.ensureShipmentShell(ctx, med.BatchNo, input.FromParty, input.ToParty); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "medicine upserted",
		"batch_no", med.BatchNo,
		"name", med.Name,
	)
	return med, nil
}

// Remove deletes a medicine by batch number; it reports whether anything was
// deleted. The shipment shell is kept: shipments are never deleted in normal
// operation.
func (s *Service) Remove(ctx context.Context, batchNo string) (bool, error) {
	batchNo = strings.TrimSpace(batchNo)
	if batchNo == "" {
		return false, nil
	}
	deleted, err := s.medicines.DeleteByBatch(ctx, batchNo)
	if err != nil {
		return false, dErrors.Wrap(dErrors.CodeInternal, "delete medicine", err)
	}
	return deleted, nil
}

func (s *Service) ensureShipmentShell(ctx context.Context, batchNo, fromParty, toParty string) error {
	if strings.TrimSpace(fromParty) == "" {
		fromParty = "ManuCo"
	}
	if strings.TrimSpace(toParty) == "" {
		toParty = "DistCo"
	}

	shipmentID := domain.ShipmentIDForBatch(batchNo)
	_, err := s.shipments.FindByID(ctx, shipmentID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(dErrors.CodeInternal, "look up shipment shell", err)
	}

	shell, err := domain.NewShipment(shipmentID, fromParty, toParty, s.clock().UTC())
	if err != nil {
		return err
	}
	if err := s.shipments.Upsert(ctx, shell); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "persist shipment shell", err)
	}
	return nil
}
