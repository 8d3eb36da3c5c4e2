// Package events carries the transient domain events published when packs and
// shipments change state, plus the in-process bus that delivers them.
//
// Events are facts that have already happened, not commands. They are not
// persisted and not replayable: delivery is fire-and-forget within the
// process, and an event with no subscriber at publish time is dropped.
package events

import (
	"time"

	"pharmatrace/internal/domain"
)

// Type identifies the kind of a domain event. Subscriptions are keyed by it.
type Type string

const (
	// TypeShipmentStatusChanged records a shipment status transition.
	TypeShipmentStatusChanged Type = "shipment.status_changed"
	// TypePackStatusChanged records a pack status change, whether cascaded
	// from a shipment transition or caused by a retail sale.
	TypePackStatusChanged Type = "pack.status_changed"
	// TypePackSold records the retail sale of a pack.
	TypePackSold Type = "pack.sold"
)

// Event is the common shape of all domain events.
type Event interface {
	EventType() Type
	Occurred() time.Time
}

// ShipmentStatusChanged is published after a shipment transition and its pack
// cascade have been persisted.
type ShipmentStatusChanged struct {
	ShipmentID string
	From       domain.ShipmentStatus
	To         domain.ShipmentStatus
	OccurredAt time.Time
}

func (e ShipmentStatusChanged) EventType() Type     { return TypeShipmentStatusChanged }
func (e ShipmentStatusChanged) Occurred() time.Time { return e.OccurredAt }

// PackStatusChanged is published once per pack whose status actually changed.
type PackStatusChanged struct {
	Token      string
	From       domain.PackStatus
	To         domain.PackStatus
	OccurredAt time.Time
}

func (e PackStatusChanged) EventType() Type     { return TypePackStatusChanged }
func (e PackStatusChanged) Occurred() time.Time { return e.OccurredAt }

// PackSold is published after a pack is sold at retail.
type PackSold struct {
	Token      string
	OccurredAt time.Time
}

func (e PackSold) EventType() Type     { return TypePackSold }
func (e PackSold) Occurred() time.Time { return e.OccurredAt }
