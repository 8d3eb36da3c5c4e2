package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pharmatrace/pkg/domain-errors"
)

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcd-1234-xyz", "ABCD-1234-XYZ"},
		{"  ABCD-1234-XYZ  ", "ABCD-1234-XYZ"},
		{"\tMiXeD-CaSe-01\n", "MIXED-CASE-01"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeToken(tt.in))
	}
}

func TestNewPack(t *testing.T) {
	expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	pack, err := NewPack("  abc-1 ", expiry, "")
	require.NoError(t, err)
	assert.Equal(t, "ABC-1", pack.Token)
	assert.Equal(t, PackStatusProduced, pack.Status)
	assert.True(t, pack.Expiry.Equal(expiry))
}

func TestNewPackBlankToken(t *testing.T) {
	_, err := NewPack("   ", time.Now(), PackStatusProduced)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestNewPackUnknownStatus(t *testing.T) {
	_, err := NewPack("ABC-1", time.Now(), PackStatus("returned"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestPackIsExpired(t *testing.T) {
	expiry := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	pack, err := NewPack("ABC-1", expiry, PackStatusProduced)
	require.NoError(t, err)

	// Not expired on the expiry day itself, even late in the day.
	assert.False(t, pack.IsExpired(time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)))
	assert.False(t, pack.IsExpired(time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)))
	assert.True(t, pack.IsExpired(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)))
}

func TestPackStatusIsValid(t *testing.T) {
	for _, s := range []PackStatus{PackStatusProduced, PackStatusInTransit, PackStatusDelivered, PackStatusSold} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, PackStatus("recalled").IsValid())
	assert.False(t, PackStatus("").IsValid())
}
