package middleware

import (
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator checks an admin bearer token.
type TokenValidator interface {
	ValidateAdminToken(tokenString string) error
}

// RequireAdmin rejects requests without a valid admin bearer token.
func RequireAdmin(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}
			if err := validator.ValidateAdminToken(token); err != nil {
				logger.WarnContext(r.Context(), "admin token rejected",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
