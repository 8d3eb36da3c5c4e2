package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pharmatrace/pkg/domain-errors"
)

func TestNewMedicineDefaultsManufacturer(t *testing.T) {
	med, err := NewMedicine("Amoxicillin", "BATCH-2025-08-0001", "  ", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", med.Manufacturer)
}

func TestNewMedicineValidation(t *testing.T) {
	badPrice := int64(0)
	tests := []struct {
		name     string
		medName  string
		batch    string
		price    *int64
	}{
		{"blank name", " ", "B-1", nil},
		{"blank batch", "Amoxicillin", "", nil},
		{"non-positive price", "Amoxicillin", "B-1", &badPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMedicine(tt.medName, tt.batch, "ManuCo", nil, tt.price)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestShipmentIDForBatch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BATCH-2025-08-0001", "SHP-BATCH2025080001"},
		{"b 12/3", "SHP-B123"},
		{"***", "SHP-BATCH"},
		{"", "SHP-BATCH"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShipmentIDForBatch(tt.in))
	}
}
