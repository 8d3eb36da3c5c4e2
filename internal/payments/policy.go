// Package payments derives ledger entries from supply-chain movements: one
// obligation per delivered pack, and one per retail sale.
package payments

import (
	"fmt"
	"time"

	"pharmatrace/internal/domain"
)

// Policy computes the ledger entries a movement creates. It is a pluggable
// strategy: pricing rules can change without touching the coordinator or its
// callers.
type Policy interface {
	// ForShipmentDelivery produces one entry per delivered pack, the
	// receiving party owing the sending party unitPriceCents each.
	ForShipmentDelivery(shipment *domain.Shipment, deliveredPacks []*domain.Pack, unitPriceCents int64) ([]*domain.LedgerEntry, error)
	// ForRetailSale produces one entry, the customer owing the retailer.
	ForRetailSale(retailer, customer string, pack *domain.Pack, salePriceCents int64) ([]*domain.LedgerEntry, error)
}

// PerUnitPolicy charges a flat amount per pack.
type PerUnitPolicy struct {
	clock func() time.Time
}

// PerUnitOption configures a PerUnitPolicy.
type PerUnitOption func(*PerUnitPolicy)

// WithPolicyClock overrides the timestamp source for tests.
func WithPolicyClock(clock func() time.Time) PerUnitOption {
	return func(p *PerUnitPolicy) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// NewPerUnitPolicy constructs the default flat-rate policy.
func NewPerUnitPolicy(opts ...PerUnitOption) *PerUnitPolicy {
	p := &PerUnitPolicy{clock: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ForShipmentDelivery generates ToParty -> FromParty entries, one per
// delivered pack, all stamped at generation time.
func (p *PerUnitPolicy) ForShipmentDelivery(shipment *domain.Shipment, deliveredPacks []*domain.Pack, unitPriceCents int64) ([]*domain.LedgerEntry, error) {
	if shipment == nil || len(deliveredPacks) == 0 {
		return nil, nil
	}

	now := p.clock().UTC()
	entries := make([]*domain.LedgerEntry, 0, len(deliveredPacks))
	for _, pack := range deliveredPacks {
		memo := fmt.Sprintf("Delivery of pack %s on shipment %s", pack.Token, shipment.ID)
		entry, err := domain.NewLedgerEntry(shipment.ToParty, shipment.FromParty, unitPriceCents, memo, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ForRetailSale generates a single Customer -> Retailer entry.
func (p *PerUnitPolicy) ForRetailSale(retailer, customer string, pack *domain.Pack, salePriceCents int64) ([]*domain.LedgerEntry, error) {
	if pack == nil {
		return nil, nil
	}

	memo := fmt.Sprintf("Retail sale of pack %s", pack.Token)
	entry, err := domain.NewLedgerEntry(customer, retailer, salePriceCents, memo, p.clock().UTC())
	if err != nil {
		return nil, err
	}
	return []*domain.LedgerEntry{entry}, nil
}
