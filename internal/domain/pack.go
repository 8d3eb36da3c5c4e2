package domain

import (
	"strings"
	"time"

	dErrors "pharmatrace/pkg/domain-errors"
)

// PackStatus is the lifecycle state of a single physical pack.
type PackStatus string

const (
	PackStatusProduced  PackStatus = "produced"
	PackStatusInTransit PackStatus = "in_transit"
	PackStatusDelivered PackStatus = "delivered"
	PackStatusSold      PackStatus = "sold"
)

// IsValid reports whether s is one of the known pack statuses.
func (s PackStatus) IsValid() bool {
	switch s {
	case PackStatusProduced, PackStatusInTransit, PackStatusDelivered, PackStatusSold:
		return true
	}
	return false
}

// NormalizeToken canonicalizes a pack token: trimmed and upper-cased.
// Every boundary (entity construction, store lookup, HTTP input) goes through
// this so token comparison is case-insensitive and stable.
func NormalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

// Pack is one physical pharmaceutical pack identified by its token.
//
// Invariants:
//   - Token is non-empty and normalized (trimmed, upper-cased)
//   - Token and Expiry are immutable after construction
//   - Status moves Produced -> InTransit -> Delivered -> Sold; the first two
//     transitions happen only as a side effect of the containing shipment's
//     transition, Sold only through the sales flow, and Sold is terminal
type Pack struct {
	Token  string     `json:"token"`
	Expiry time.Time  `json:"expiry"`
	Status PackStatus `json:"status"`
}

// NewPack constructs a pack with a normalized token.
func NewPack(token string, expiry time.Time, status PackStatus) (*Pack, error) {
	norm := NormalizeToken(token)
	if norm == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "pack token is required")
	}
	if status == "" {
		status = PackStatusProduced
	}
	if !status.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown pack status %q", status)
	}
	return &Pack{Token: norm, Expiry: expiry, Status: status}, nil
}

// IsExpired reports whether the pack's expiry date lies strictly before the
// given day. Only the calendar date matters, not the time of day.
func (p *Pack) IsExpired(on time.Time) bool {
	expiry := p.Expiry.Truncate(24 * time.Hour)
	day := on.Truncate(24 * time.Hour)
	return expiry.Before(day)
}

// SetStatus overwrites the pack status. Transition legality is enforced by
// the coordinators that own pack mutation, not here.
func (p *Pack) SetStatus(status PackStatus) {
	p.Status = status
}
