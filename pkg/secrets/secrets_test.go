package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pharmatrace/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("2468")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, Verify("2468", hash))

	err = Verify("1357", hash)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestHashEmptySecret(t *testing.T) {
	_, err := Hash("")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestHashTooLong(t *testing.T) {
	_, err := Hash(strings.Repeat("x", 100))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
