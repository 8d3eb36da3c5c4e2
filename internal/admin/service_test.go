package admin

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmatrace/internal/jwttoken"
	dErrors "pharmatrace/pkg/domain-errors"
	"pharmatrace/pkg/secrets"
)

func newTestService(t *testing.T, pin string) (*Service, *jwttoken.Service) {
	t.Helper()
	hash := ""
	if pin != "" {
		var err error
		hash, err = secrets.Hash(pin)
		require.NoError(t, err)
	}
	tokens := jwttoken.New("test-signing-key", "pharmatrace")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(hash, tokens, time.Minute, logger), tokens
}

func TestLogin(t *testing.T) {
	svc, tokens := newTestService(t, "2468")

	token, err := svc.Login(context.Background(), "2468")
	require.NoError(t, err)
	assert.NoError(t, tokens.ValidateAdminToken(token))
}

func TestLoginWrongPIN(t *testing.T) {
	svc, _ := newTestService(t, "2468")

	_, err := svc.Login(context.Background(), "1357")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestLoginBlankPIN(t *testing.T) {
	svc, _ := newTestService(t, "2468")

	_, err := svc.Login(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestLoginNotConfigured(t *testing.T) {
	svc, _ := newTestService(t, "")

	_, err := svc.Login(context.Background(), "2468")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "not configured")
}
