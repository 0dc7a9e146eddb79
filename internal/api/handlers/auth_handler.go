package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/keaype/bodega-backend/internal/application/services"
	"github.com/keaype/bodega-backend/internal/domain/entities"
)

// AuthService defines the onboarding and login operations used by the
// handler.
type AuthService interface {
	ConsultDNI(ctx context.Context, dni string) (*services.ConsultDNIResult, error)
	Register(ctx context.Context, params services.RegisterParams) (*entities.User, error)
	Login(ctx context.Context, dni, password string) (*entities.User, error)
}

// AuthHandler handles DNI-based authentication requests
type AuthHandler struct {
	service AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

type consultDNIRequest struct {
	DNI string `json:"dni"`
}

// ConsultDNI handles POST /api/auth/consult-dni
func (h *AuthHandler) ConsultDNI(w http.ResponseWriter, r *http.Request) {
	var payload consultDNIRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.service.ConsultDNI(r.Context(), payload.DNI)
	if err != nil {
		respondWithAppError(w, err, "failed to consult dni")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

type registerRequest struct {
	DNI         string `json:"dni"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

// userResponse is the account payload returned to clients; the password
// hash never leaves the server.
type userResponse struct {
	ID          string `json:"id"`
	DNI         string `json:"dni"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role"`
	IsVerified  bool   `json:"is_verified"`
}

func toUserResponse(user *entities.User) userResponse {
	return userResponse{
		ID:          user.ID,
		DNI:         user.DNI,
		FullName:    user.FullName,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
		IsVerified:  user.IsVerified,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.service.Register(r.Context(), services.RegisterParams{
		DNI:         payload.DNI,
		Password:    payload.Password,
		PhoneNumber: payload.PhoneNumber,
		Role:        payload.Role,
	})
	if err != nil {
		respondWithAppError(w, err, "failed to register")
		return
	}

	respondWithJSON(w, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	DNI      string `json:"dni"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.service.Login(r.Context(), payload.DNI, payload.Password)
	if err != nil {
		respondWithAppError(w, err, "failed to log in")
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(user))
}
