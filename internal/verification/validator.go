package verification

import (
	"regexp"
	"strings"

	dErrors "pharmatrace/pkg/domain-errors"
)

// TokenValidator checks a token's basic format before any store lookup.
// Implementations return nil for a valid token and a validation error with a
// user-readable message otherwise.
type TokenValidator interface {
	Validate(token string) error
}

var allowedToken = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{3,63}$`)

// SimpleTokenValidator accepts upper-case alphanumeric tokens with dashes,
// 4 to 64 characters, starting with a letter or digit.
type SimpleTokenValidator struct{}

// Validate reports why the token is malformed, or nil when it is acceptable.
func (SimpleTokenValidator) Validate(token string) error {
	t := strings.TrimSpace(token)
	if t == "" {
		return dErrors.New(dErrors.CodeValidation, "token is required")
	}
	if len(t) < 4 || len(t) > 64 {
		return dErrors.New(dErrors.CodeValidation, "token length must be between 4 and 64 characters")
	}
	if !allowedToken.MatchString(t) {
		return dErrors.New(dErrors.CodeValidation, "token may only contain A-Z, 0-9, and '-', and must start with a letter or digit")
	}
	return nil
}
