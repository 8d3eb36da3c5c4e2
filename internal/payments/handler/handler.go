// Package handler exposes the payment ledger over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/transport/http/shared"
)

// LedgerStore is the read slice the handler needs.
type LedgerStore interface {
	List(ctx context.Context, skip, take int) ([]*domain.LedgerEntry, error)
}

// Handler serves ledger reads.
type Handler struct {
	ledger LedgerStore
	logger *slog.Logger
}

// New creates a ledger Handler.
func New(ledger LedgerStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{ledger: ledger, logger: logger}
}

// Register mounts the ledger route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/ledger", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	take, _ := strconv.Atoi(r.URL.Query().Get("take"))
	entries, err := h.ledger.List(r.Context(), skip, take)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []*domain.LedgerEntry{}
	}
	shared.WriteJSON(w, http.StatusOK, entries)
}
