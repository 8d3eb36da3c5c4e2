package domain

import (
	"strings"
	"time"

	dErrors "pharmatrace/pkg/domain-errors"
)

// Medicine is an admin-maintained master-data record, keyed by batch number.
type Medicine struct {
	Name         string     `json:"name"`
	BatchNo      string     `json:"batch_no"`
	Manufacturer string     `json:"manufacturer"`
	ExpiryUTC    *time.Time `json:"expiry_utc,omitempty"`
	PriceCents   *int64     `json:"price_cents,omitempty"`
}

// NewMedicine validates and constructs a medicine record. A blank
// manufacturer defaults to "Unknown".
func NewMedicine(name, batchNo, manufacturer string, expiryUTC *time.Time, priceCents *int64) (*Medicine, error) {
	name = strings.TrimSpace(name)
	batchNo = strings.TrimSpace(batchNo)
	manufacturer = strings.TrimSpace(manufacturer)

	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "medicine name is required")
	}
	if batchNo == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "batch number is required")
	}
	if manufacturer == "" {
		manufacturer = "Unknown"
	}
	if priceCents != nil && *priceCents <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "price must be positive")
	}

	return &Medicine{
		Name:         name,
		BatchNo:      batchNo,
		Manufacturer: manufacturer,
		ExpiryUTC:    expiryUTC,
		PriceCents:   priceCents,
	}, nil
}

// ShipmentIDForBatch derives the id of the shipment shell created alongside a
// medicine batch: "SHP-" plus the batch number stripped to letters and digits.
func ShipmentIDForBatch(batchNo string) string {
	var b strings.Builder
	for _, r := range batchNo {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		cleaned = "BATCH"
	}
	return "SHP-" + strings.ToUpper(cleaned)
}
