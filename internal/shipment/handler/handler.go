// Package handler exposes the shipment workflow over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/transport/http/shared"
	dErrors "pharmatrace/pkg/domain-errors"
)

// Service defines the shipment operations the handler delegates to.
type Service interface {
	Create(ctx context.Context, id, fromParty, toParty string) (*domain.Shipment, error)
	AddPack(ctx context.Context, shipmentID, token string) (*domain.Shipment, error)
	RemovePack(ctx context.Context, shipmentID, token string) (*domain.Shipment, error)
	Transition(ctx context.Context, shipmentID string, nextStatus domain.ShipmentStatus) (*domain.Shipment, error)
	List(ctx context.Context, skip, take int) ([]*domain.Shipment, error)
}

// Handler handles shipment endpoints.
type Handler struct {
	shipments Service
	logger    *slog.Logger
}

// New creates a shipment Handler.
func New(shipments Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{shipments: shipments, logger: logger}
}

// Register mounts the shipment routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/shipments", h.handleCreate)
	r.Get("/shipments", h.handleList)
	r.Post("/shipments/{id}/packs", h.handleAddPack)
	r.Delete("/shipments/{id}/packs/{token}", h.handleRemovePack)
	r.Post("/shipments/{id}/transition", h.handleTransition)
}

type createRequest struct {
	ID        string `json:"id"`
	FromParty string `json:"from_party"`
	ToParty   string `json:"to_party"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	shipment, err := h.shipments.Create(r.Context(), req.ID, req.FromParty, req.ToParty)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, shipment)
}

type addPackRequest struct {
	Token string `json:"token"`
}

func (h *Handler) handleAddPack(w http.ResponseWriter, r *http.Request) {
	var req addPackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	shipment, err := h.shipments.AddPack(r.Context(), chi.URLParam(r, "id"), req.Token)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, shipment)
}

func (h *Handler) handleRemovePack(w http.ResponseWriter, r *http.Request) {
	shipment, err := h.shipments.RemovePack(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "token"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, shipment)
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	shipment, err := h.shipments.Transition(r.Context(), chi.URLParam(r, "id"), domain.ShipmentStatus(req.Status))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, shipment)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	take, _ := strconv.Atoi(r.URL.Query().Get("take"))
	shipments, err := h.shipments.List(r.Context(), skip, take)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if shipments == nil {
		shipments = []*domain.Shipment{}
	}
	shared.WriteJSON(w, http.StatusOK, shipments)
}
