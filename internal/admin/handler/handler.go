// Package handler exposes admin authentication over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pharmatrace/internal/transport/http/shared"
	dErrors "pharmatrace/pkg/domain-errors"
)

// Service defines the admin operation the handler delegates to.
type Service interface {
	Login(ctx context.Context, pin string) (string, error)
}

// Handler handles admin endpoints.
type Handler struct {
	admin  Service
	logger *slog.Logger
}

// New creates an admin Handler.
func New(admin Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{admin: admin, logger: logger}
}

// Register mounts the admin routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/login", h.handleLogin)
}

type loginRequest struct {
	PIN string `json:"pin"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	token, err := h.admin.Login(r.Context(), req.PIN)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, loginResponse{Token: token})
}
