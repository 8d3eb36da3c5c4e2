package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "pharmatrace/pkg/domain-errors"
)

// LedgerEntry is a directed monetary obligation between two named parties.
// Entries are append-only values: once created they are never mutated or
// deleted. Amounts are integer cents to keep arithmetic exact.
type LedgerEntry struct {
	ID          uuid.UUID `json:"id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	AmountCents int64     `json:"amount_cents"`
	Memo        string    `json:"memo"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewLedgerEntry validates and constructs an entry.
func NewLedgerEntry(from, to string, amountCents int64, memo string, occurredAt time.Time) (*LedgerEntry, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)

	if from == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "ledger entry requires a paying party")
	}
	if to == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "ledger entry requires a receiving party")
	}
	if amountCents <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "ledger entry amount must be positive")
	}

	return &LedgerEntry{
		ID:          uuid.New(),
		From:        from,
		To:          to,
		AmountCents: amountCents,
		Memo:        strings.TrimSpace(memo),
		OccurredAt:  occurredAt,
	}, nil
}
