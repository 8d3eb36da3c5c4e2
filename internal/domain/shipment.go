package domain

import (
	"strings"
	"time"

	dErrors "pharmatrace/pkg/domain-errors"
)

// ShipmentStatus is the lifecycle state of a shipment. The order is strictly
// linear: Packed -> InTransit -> Delivered. There is no cancel or reverse.
type ShipmentStatus string

const (
	ShipmentStatusPacked    ShipmentStatus = "packed"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
)

// IsValid reports whether s is one of the known shipment statuses.
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusPacked, ShipmentStatusInTransit, ShipmentStatusDelivered:
		return true
	}
	return false
}

// CanTransitionTo reports whether the move from s to next is legal.
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	switch {
	case s == ShipmentStatusPacked && next == ShipmentStatusInTransit:
		return true
	case s == ShipmentStatusInTransit && next == ShipmentStatusDelivered:
		return true
	}
	return false
}

// PackStatusFor returns the pack status that packs on a shipment assume when
// the shipment enters s, and whether entering s cascades onto packs at all.
func (s ShipmentStatus) PackStatusFor() (PackStatus, bool) {
	switch s {
	case ShipmentStatusInTransit:
		return PackStatusInTransit, true
	case ShipmentStatusDelivered:
		return PackStatusDelivered, true
	}
	return "", false
}

// Shipment moves a set of packs between two supply-chain parties.
//
// Invariants:
//   - ID, FromParty, ToParty are non-blank and immutable after construction
//   - PackTokens holds normalized tokens, ordered by insertion, with no
//     case-insensitive duplicates
//   - Tokens may be added or removed only while Status is Packed
//   - DeliveredAt is stamped exactly once, when Status becomes Delivered,
//     and never cleared
type Shipment struct {
	ID          string         `json:"id"`
	FromParty   string         `json:"from_party"`
	ToParty     string         `json:"to_party"`
	Status      ShipmentStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	PackTokens  []string       `json:"pack_tokens"`
}

// NewShipment constructs a shipment in the Packed state with no packs.
func NewShipment(id, fromParty, toParty string, now time.Time) (*Shipment, error) {
	id = strings.TrimSpace(id)
	fromParty = strings.TrimSpace(fromParty)
	toParty = strings.TrimSpace(toParty)

	if id == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "shipment id is required")
	}
	if fromParty == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "from party is required")
	}
	if toParty == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "to party is required")
	}

	return &Shipment{
		ID:        id,
		FromParty: fromParty,
		ToParty:   toParty,
		Status:    ShipmentStatusPacked,
		CreatedAt: now,
	}, nil
}

// HasPackToken reports whether the (normalized) token is on the shipment.
func (s *Shipment) HasPackToken(token string) bool {
	norm := NormalizeToken(token)
	for _, t := range s.PackTokens {
		if t == norm {
			return true
		}
	}
	return false
}

// AddPackToken appends a normalized token. Adding a token already present is
// a no-op rather than an error, so retried calls stay idempotent.
func (s *Shipment) AddPackToken(token string) error {
	if s.Status != ShipmentStatusPacked {
		return dErrors.New(dErrors.CodeInvariantViolation, "packs can only be added while the shipment is packed")
	}
	norm := NormalizeToken(token)
	if norm == "" {
		return dErrors.New(dErrors.CodeValidation, "pack token is required")
	}
	if !s.HasPackToken(norm) {
		s.PackTokens = append(s.PackTokens, norm)
	}
	return nil
}

// RemovePackToken removes a token; a blank or absent token is a no-op.
func (s *Shipment) RemovePackToken(token string) error {
	if s.Status != ShipmentStatusPacked {
		return dErrors.New(dErrors.CodeInvariantViolation, "packs can only be removed while the shipment is packed")
	}
	norm := NormalizeToken(token)
	if norm == "" {
		return nil
	}
	kept := s.PackTokens[:0]
	for _, t := range s.PackTokens {
		if t != norm {
			kept = append(kept, t)
		}
	}
	s.PackTokens = kept
	return nil
}

// CanTransitionTo validates the move to next without applying it.
func (s *Shipment) CanTransitionTo(next ShipmentStatus) error {
	if !next.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown shipment status %q", next)
	}
	if !s.Status.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "illegal transition %s -> %s", s.Status, next)
	}
	return nil
}

// TransitionTo applies a validated status change and stamps DeliveredAt when
// the shipment becomes Delivered.
func (s *Shipment) TransitionTo(next ShipmentStatus, now time.Time) error {
	if err := s.CanTransitionTo(next); err != nil {
		return err
	}
	s.Status = next
	if next == ShipmentStatusDelivered && s.DeliveredAt == nil {
		at := now
		s.DeliveredAt = &at
	}
	return nil
}
