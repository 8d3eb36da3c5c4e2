package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pharmatrace/pkg/domain-errors"
)

func TestNewLedgerEntry(t *testing.T) {
	occurred := time.Date(2025, 8, 2, 12, 0, 0, 0, time.UTC)

	entry, err := NewLedgerEntry(" DistCo ", "ManuCo", 850, "  Delivery of pack ABC-1 on shipment SHP-1 ", occurred)
	require.NoError(t, err)
	assert.NotEqual(t, entry.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, "DistCo", entry.From)
	assert.Equal(t, "ManuCo", entry.To)
	assert.Equal(t, int64(850), entry.AmountCents)
	assert.Equal(t, "Delivery of pack ABC-1 on shipment SHP-1", entry.Memo)
	assert.True(t, entry.OccurredAt.Equal(occurred))
}

func TestNewLedgerEntryValidation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		from   string
		to     string
		amount int64
	}{
		{"blank payer", "  ", "ManuCo", 850},
		{"blank receiver", "DistCo", "", 850},
		{"zero amount", "DistCo", "ManuCo", 0},
		{"negative amount", "DistCo", "ManuCo", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLedgerEntry(tt.from, tt.to, tt.amount, "memo", now)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}
