package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keaype/bodega-backend/internal/api/handlers"
	"github.com/keaype/bodega-backend/internal/application/services"
	"github.com/keaype/bodega-backend/internal/domain/entities"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

type stubReservationService struct {
	created     []services.CreateReservationParams
	createErr   error
	statusErr   error
	reservation *entities.Reservation
}

func (s *stubReservationService) Create(_ context.Context, params services.CreateReservationParams) (*entities.Reservation, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, params)
	return &entities.Reservation{ID: "res-0001", Status: entities.ReservationPending, TotalAmount: 12.00}, nil
}

func (s *stubReservationService) GetByID(_ context.Context, id string) (*entities.Reservation, error) {
	if s.reservation != nil && s.reservation.ID == id {
		return s.reservation, nil
	}
	return nil, apperrors.NewNotFoundError("reservation not found")
}

func (s *stubReservationService) ListForStorekeeper(context.Context, string) ([]entities.Reservation, error) {
	return nil, nil
}

func (s *stubReservationService) UpdateStatus(context.Context, string, string) error {
	return s.statusErr
}

func TestReservationHandler_Create_Success(t *testing.T) {
	service := &stubReservationService{}
	handler := handlers.NewReservationHandler(service)

	body := `{"user_id":"client-1","bodega_id":"bodega-1","items":[{"product_name":"Arroz","quantity":2,"unit_price":4.50}]}`
	req := httptest.NewRequest("POST", "/api/reservations", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.CreateReservation(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, service.created, 1)
	assert.Equal(t, "bodega-1", service.created[0].StoreID)
	require.Len(t, service.created[0].Items, 1)
	assert.Equal(t, 2, service.created[0].Items[0].Quantity)
}

func TestReservationHandler_Create_ValidationErrorMapsTo400(t *testing.T) {
	service := &stubReservationService{createErr: apperrors.NewValidationError("reservation needs at least one item")}
	handler := handlers.NewReservationHandler(service)

	req := httptest.NewRequest("POST", "/api/reservations", strings.NewReader(`{"user_id":"client-1","bodega_id":"bodega-1"}`))
	w := httptest.NewRecorder()

	handler.CreateReservation(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "reservation needs at least one item", response["error"])
}

func TestReservationHandler_Get_NotFound(t *testing.T) {
	handler := handlers.NewReservationHandler(&stubReservationService{})

	req := httptest.NewRequest("GET", "/api/reservations/ghost", nil)
	req.SetPathValue("id", "ghost")
	w := httptest.NewRecorder()

	handler.GetReservation(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	service := &stubReservationService{statusErr: apperrors.NewValidationError("invalid reservation status")}
	handler := handlers.NewReservationHandler(service)

	req := httptest.NewRequest("PATCH", "/api/reservations/res-0001/status", strings.NewReader(`{"status":"SHIPPED"}`))
	req.SetPathValue("id", "res-0001")
	w := httptest.NewRecorder()

	handler.UpdateReservationStatus(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationHandler_ListStore_EmptyIsArray(t *testing.T) {
	handler := handlers.NewReservationHandler(&stubReservationService{})

	req := httptest.NewRequest("GET", "/api/storekeeper/owner-1/reservations", nil)
	req.SetPathValue("ownerId", "owner-1")
	w := httptest.NewRecorder()

	handler.ListStoreReservations(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reservations":[]`)
}
