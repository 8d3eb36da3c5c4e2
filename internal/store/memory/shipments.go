package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"pharmatrace/internal/domain"
	"pharmatrace/pkg/platform/sentinel"
)

// ShipmentStore keeps shipments in a map keyed by id (case preserved,
// lookups trimmed). List order is stable: ascending by id.
type ShipmentStore struct {
	mu        sync.RWMutex
	shipments map[string]*domain.Shipment
}

// NewShipmentStore constructs an empty in-memory shipment store.
func NewShipmentStore() *ShipmentStore {
	return &ShipmentStore{shipments: make(map[string]*domain.Shipment)}
}

// FindByID returns a copy of the shipment.
func (s *ShipmentStore) FindByID(_ context.Context, id string) (*domain.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shipment, ok := s.shipments[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("shipment %q: %w", id, sentinel.ErrNotFound)
	}
	return copyShipment(shipment), nil
}

// Upsert stores the shipment under its id.
func (s *ShipmentStore) Upsert(_ context.Context, shipment *domain.Shipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shipments[shipment.ID] = copyShipment(shipment)
	return nil
}

// List returns a page of shipments ordered by id.
func (s *ShipmentStore) List(_ context.Context, skip, take int) ([]*domain.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.shipments))
	for id := range s.shipments {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if skip >= len(ids) {
		return nil, nil
	}
	ids = ids[skip:]
	if take < len(ids) {
		ids = ids[:take]
	}

	page := make([]*domain.Shipment, 0, len(ids))
	for _, id := range ids {
		page = append(page, copyShipment(s.shipments[id]))
	}
	return page, nil
}

func copyShipment(s *domain.Shipment) *domain.Shipment {
	copied := *s
	copied.PackTokens = append([]string(nil), s.PackTokens...)
	if s.DeliveredAt != nil {
		at := *s.DeliveredAt
		copied.DeliveredAt = &at
	}
	return &copied
}
