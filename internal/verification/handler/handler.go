// Package handler exposes pack verification over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pharmatrace/internal/transport/http/shared"
	"pharmatrace/internal/verification"
	dErrors "pharmatrace/pkg/domain-errors"
)

// Service defines the verification operation the handler delegates to.
type Service interface {
	Verify(ctx context.Context, token string) (verification.Result, error)
}

// Handler handles scan endpoints.
type Handler struct {
	verifier Service
	logger   *slog.Logger
}

// New creates a verification Handler.
func New(verifier Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{verifier: verifier, logger: logger}
}

// Register mounts the scan route.
func (h *Handler) Register(r chi.Router) {
	r.Post("/scan", h.handleScan)
}

type scanRequest struct {
	Token string `json:"token"`
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	result, err := h.verifier.Verify(r.Context(), req.Token)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}
