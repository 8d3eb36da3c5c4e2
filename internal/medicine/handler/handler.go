// Package handler exposes medicine master data over HTTP. Reads are open,
// writes require an admin token.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/medicine"
	"pharmatrace/internal/platform/middleware"
	"pharmatrace/internal/transport/http/shared"
	dErrors "pharmatrace/pkg/domain-errors"
)

// Service defines the medicine operations the handler delegates to.
type Service interface {
	List(ctx context.Context, skip, take int) ([]*domain.Medicine, error)
	FindByBatch(ctx context.Context, batchNo string) (*domain.Medicine, error)
	AddOrUpdate(ctx context.Context, input medicine.UpsertInput) (*domain.Medicine, error)
	Remove(ctx context.Context, batchNo string) (bool, error)
}

// Handler handles medicine endpoints.
type Handler struct {
	medicines Service
	admin     middleware.TokenValidator
	logger    *slog.Logger
}

// New creates a medicine Handler. The validator guards the write routes.
func New(medicines Service, admin middleware.TokenValidator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{medicines: medicines, admin: admin, logger: logger}
}

// Register mounts the medicine routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/medicines", h.handleList)
	r.Get("/medicines/{batch}", h.handleGet)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.admin, h.logger))
		r.Put("/medicines", h.handleUpsert)
		r.Delete("/medicines/{batch}", h.handleDelete)
	})
}

type upsertRequest struct {
	Name         string     `json:"name"`
	BatchNo      string     `json:"batch_no"`
	Manufacturer string     `json:"manufacturer"`
	ExpiryUTC    *time.Time `json:"expiry_utc,omitempty"`
	PriceCents   *int64     `json:"price_cents,omitempty"`
	FromParty    string     `json:"from_party,omitempty"`
	ToParty      string     `json:"to_party,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	take, _ := strconv.Atoi(r.URL.Query().Get("take"))
	medicines, err := h.medicines.List(r.Context(), skip, take)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if medicines == nil {
		medicines = []*domain.Medicine{}
	}
	shared.WriteJSON(w, http.StatusOK, medicines)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	med, err := h.medicines.FindByBatch(r.Context(), chi.URLParam(r, "batch"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, med)
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	med, err := h.medicines.AddOrUpdate(r.Context(), medicine.UpsertInput{
		Name:         req.Name,
		BatchNo:      req.BatchNo,
		Manufacturer: req.Manufacturer,
		ExpiryUTC:    req.ExpiryUTC,
		PriceCents:   req.PriceCents,
		FromParty:    req.FromParty,
		ToParty:      req.ToParty,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, med)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.medicines.Remove(r.Context(), chi.URLParam(r, "batch"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if !removed {
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "medicine not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
