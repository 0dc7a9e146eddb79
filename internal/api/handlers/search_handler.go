package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/keaype/bodega-backend/internal/application/services"
	"github.com/keaype/bodega-backend/internal/domain/entities"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
	"github.com/keaype/bodega-backend/pkg/geo"
)

// SmartSearcher defines the conversational search operation used by the
// handler.
type SmartSearcher interface {
	Search(ctx context.Context, req services.SearchRequest) (*entities.SmartSearchResponse, error)
}

// SearchHandler handles conversational product search requests
type SearchHandler struct {
	service SmartSearcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service SmartSearcher) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

type smartSearchRequest struct {
	Query     string                 `json:"query"`
	Latitude  *float64               `json:"user_lat"`
	Longitude *float64               `json:"user_lon"`
	UserID    string                 `json:"user_id"`
	History   []entities.ChatMessage `json:"conversation_history"`
}

// SmartSearch handles POST /api/search/smart
func (h *SearchHandler) SmartSearch(w http.ResponseWriter, r *http.Request) {
	var payload smartSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if strings.TrimSpace(payload.Query) == "" {
		respondWithError(w, http.StatusBadRequest, "query is required")
		return
	}
	if payload.Latitude == nil || payload.Longitude == nil {
		respondWithError(w, http.StatusBadRequest, "user_lat and user_lon are required")
		return
	}
	if !geo.ValidCoordinates(*payload.Latitude, *payload.Longitude) {
		respondWithError(w, http.StatusBadRequest, "user_lat and user_lon are out of range")
		return
	}

	response, err := h.service.Search(r.Context(), services.SearchRequest{
		Query:   payload.Query,
		Origin:  geo.Point{Latitude: *payload.Latitude, Longitude: *payload.Longitude},
		UserID:  payload.UserID,
		History: payload.History,
	})
	if err != nil {
		respondWithAppError(w, err, "search failed")
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps application error types to HTTP status codes.
func respondWithAppError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, fallback)
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeUnavailable:
		respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
