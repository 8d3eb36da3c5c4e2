// Package admin exchanges the operator PIN for a bearer token. The PIN
// itself lives in configuration only as a bcrypt hash.
package admin

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pharmatrace/internal/jwttoken"
	dErrors "pharmatrace/pkg/domain-errors"
	"pharmatrace/pkg/secrets"
)

// Service authenticates admins.
type Service struct {
	pinHash  string
	tokens   *jwttoken.Service
	tokenTTL time.Duration
	logger   *slog.Logger
}

// New constructs the admin auth service. pinHash is the bcrypt hash of the
// operator PIN.
func New(pinHash string, tokens *jwttoken.Service, tokenTTL time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pinHash: pinHash, tokens: tokens, tokenTTL: tokenTTL, logger: logger}
}

// Login verifies the PIN and issues an admin token.
func (s *Service) Login(ctx context.Context, pin string) (string, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return "", dErrors.New(dErrors.CodeValidation, "pin is required")
	}
	if s.pinHash == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "admin access is not configured")
	}
	if err := secrets.Verify(pin, s.pinHash); err != nil {
		s.logger.WarnContext(ctx, "admin login rejected")
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid admin pin")
	}
	return s.tokens.IssueAdminToken(s.tokenTTL)
}
