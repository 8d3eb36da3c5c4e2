// Package handler exposes retail sales over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/transport/http/shared"
	dErrors "pharmatrace/pkg/domain-errors"
)

// Service defines the sales operations the handler delegates to.
type Service interface {
	RecordSale(ctx context.Context, token, retailer, customer string, salePriceCents *int64) (*domain.Pack, error)
}

// Handler handles sale endpoints.
type Handler struct {
	sales  Service
	logger *slog.Logger
}

// New creates a sales Handler.
func New(sales Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{sales: sales, logger: logger}
}

// Register mounts the sale routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sales", h.handleRecordSale)
}

type recordSaleRequest struct {
	Token          string `json:"token"`
	Retailer       string `json:"retailer"`
	Customer       string `json:"customer"`
	SalePriceCents *int64 `json:"sale_price_cents,omitempty"`
}

func (h *Handler) handleRecordSale(w http.ResponseWriter, r *http.Request) {
	var req recordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	pack, err := h.sales.RecordSale(r.Context(), req.Token, req.Retailer, req.Customer, req.SalePriceCents)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, pack)
}
