package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/keaype/bodega-backend/internal/application/services"
	"github.com/keaype/bodega-backend/internal/domain/entities"
)

// ReservationService defines the reservation operations used by the handler.
type ReservationService interface {
	Create(ctx context.Context, params services.CreateReservationParams) (*entities.Reservation, error)
	GetByID(ctx context.Context, id string) (*entities.Reservation, error)
	ListForStorekeeper(ctx context.Context, ownerID string) ([]entities.Reservation, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// ReservationHandler handles reservation requests
type ReservationHandler struct {
	service ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(service ReservationService) *ReservationHandler {
	return &ReservationHandler{
		service: service,
	}
}

type reservationItemRequest struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type createReservationRequest struct {
	UserID  string                   `json:"user_id"`
	StoreID string                   `json:"bodega_id"`
	Items   []reservationItemRequest `json:"items"`
}

// CreateReservation handles POST /api/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var payload createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	items := make([]services.ReservationItemParams, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, services.ReservationItemParams{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	reservation, err := h.service.Create(r.Context(), services.CreateReservationParams{
		UserID:  payload.UserID,
		StoreID: payload.StoreID,
		Items:   items,
	})
	if err != nil {
		respondWithAppError(w, err, "failed to create reservation")
		return
	}

	respondWithJSON(w, http.StatusCreated, reservation)
}

// GetReservation handles GET /api/reservations/{id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	reservationID := r.PathValue("id")
	if reservationID == "" {
		respondWithError(w, http.StatusBadRequest, "reservation ID is required")
		return
	}

	reservation, err := h.service.GetByID(r.Context(), reservationID)
	if err != nil {
		respondWithAppError(w, err, "failed to get reservation")
		return
	}

	respondWithJSON(w, http.StatusOK, reservation)
}

// ListStoreReservations handles GET /api/storekeeper/{ownerId}/reservations
func (h *ReservationHandler) ListStoreReservations(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("ownerId")
	if ownerID == "" {
		respondWithError(w, http.StatusBadRequest, "owner ID is required")
		return
	}

	reservations, err := h.service.ListForStorekeeper(r.Context(), ownerID)
	if err != nil {
		respondWithAppError(w, err, "failed to list reservations")
		return
	}
	if reservations == nil {
		reservations = []entities.Reservation{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reservations": reservations,
		"count":        len(reservations),
	})
}

type updateReservationStatusRequest struct {
	Status string `json:"status"`
}

// UpdateReservationStatus handles PATCH /api/reservations/{id}/status
func (h *ReservationHandler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	reservationID := r.PathValue("id")
	if reservationID == "" {
		respondWithError(w, http.StatusBadRequest, "reservation ID is required")
		return
	}

	var payload updateReservationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.UpdateStatus(r.Context(), reservationID, payload.Status); err != nil {
		respondWithAppError(w, err, "failed to update reservation status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": payload.Status})
}
