// Package jwttoken issues and validates the short-lived bearer tokens that
// protect the admin surface.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "pharmatrace/pkg/domain-errors"
)

const roleAdmin = "admin"

// Claims are the JWT claims carried by admin tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and validates admin tokens with a shared HMAC key.
type Service struct {
	signingKey []byte
	issuer     string
}

// New constructs a token service.
func New(signingKey, issuer string) *Service {
	return &Service{signingKey: []byte(signingKey), issuer: issuer}
}

// IssueAdminToken creates a signed token carrying the admin role.
func (s *Service) IssueAdminToken(ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: roleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "sign admin token", err)
	}
	return signed, nil
}

// ValidateAdminToken checks signature, expiry, and the admin role.
func (s *Service) ValidateAdminToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Role != roleAdmin {
		return dErrors.New(dErrors.CodeUnauthorized, "token lacks admin role")
	}
	return nil
}
