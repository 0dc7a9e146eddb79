package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/keaype/bodega-backend/internal/application/services"
	"github.com/keaype/bodega-backend/internal/domain/entities"
)

// InventoryService defines the storekeeper operations used by the handler.
type InventoryService interface {
	ListInventory(ctx context.Context, ownerID string) (*services.StoreInventory, error)
	AddProduct(ctx context.Context, ownerID string, params services.AddProductParams) (*entities.CatalogProduct, error)
	RestockProduct(ctx context.Context, ownerID string, productID int, price, stockToAdd float64) (*entities.StoreOffer, error)
	ToggleStock(ctx context.Context, ownerID string, productID int, inStock bool) (*entities.StoreOffer, error)
	SetStoreStatus(ctx context.Context, ownerID string, override *string) error
	UpdateProfile(ctx context.Context, ownerID, email, phoneNumber, storeName, photoURL string) error
	SuggestProducts(ctx context.Context, fragment string, limit int) ([]entities.CatalogProduct, error)
}

// StorekeeperHandler handles the storekeeper's inventory and shop requests
type StorekeeperHandler struct {
	service InventoryService
}

// NewStorekeeperHandler creates a new storekeeper handler
func NewStorekeeperHandler(service InventoryService) *StorekeeperHandler {
	return &StorekeeperHandler{
		service: service,
	}
}

// ListInventory handles GET /api/storekeeper/{ownerId}/inventory
func (h *StorekeeperHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("ownerId")
	if ownerID == "" {
		respondWithError(w, http.StatusBadRequest, "owner ID is required")
		return
	}

	inventory, err := h.service.ListInventory(r.Context(), ownerID)
	if err != nil {
		respondWithAppError(w, err, "failed to list inventory")
		return
	}

	respondWithJSON(w, http.StatusOK, inventory)
}

type addProductRequest struct {
	Name       string                 `json:"name"`
	Category   string                 `json:"category"`
	Price      float64                `json:"price"`
	Stock      float64                `json:"stock"`
	Synonyms   []string               `json:"synonyms"`
	Attributes map[string]interface{} `json:"attributes"`
}

// AddProduct handles POST /api/storekeeper/{ownerId}/inventory
func (h *StorekeeperHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("ownerId")
	if ownerID == "" {
		respondWithError(w, http.StatusBadRequest, "owner ID is required")
		return
	}

	var payload addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	product, err := h.service.AddProduct(r.Context(), ownerID, services.AddProductParams{
		Name:       payload.Name,
		Category:   payload.Category,
		Price:      payload.Price,
		Stock:      payload.Stock,
		Synonyms:   payload.Synonyms,
		Attributes: payload.Attributes,
	})
	if err != nil {
		respondWithAppError(w, err, "failed to add product")
		return
	}

	respondWithJSON(w, http.StatusCreated, product)
}

type restockRequest struct {
	Price      float64 `json:"price"`
	StockToAdd float64 `json:"stock_to_add"`
}

// RestockProduct handles PATCH /api/storekeeper/{ownerId}/inventory/{productId}/restock
func (h *StorekeeperHandler) RestockProduct(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("ownerId")
	productID, err := strconv.Atoi(r.PathValue("productId"))
	if ownerID == "" || err != nil {
		respondWithError(w, http.StatusBadRequest, "owner ID and numeric product ID are required")
		return
	}

	var payload restockRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	offer, err := h.service.RestockProduct(r.Context(), ownerID, productID, payload.Price, payload.StockToAdd)
	if err != nil {
		respondWithAppError(w, err, "failed to restock product")
		return
	}

	respondWithJSON(w, http.StatusOK, offer)
}

type toggleStockRequest struct {
	InStock bool `json:"in_stock"`
}

// ToggleStock handles PATCH /api/storekeeper/{ownerId}/inventory/{productId}/availability
func (h *StorekeeperHandler) ToggleStock(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("ownerId")
	productID, err := strconv.Atoi(r.PathValue("productId"))
	if ownerID == "" || err != nil {
		respondWithError(w, http.StatusBadRequest, "owner ID and numeric product ID are required")
		return
	}

	var payload toggleStockRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	offer, err := h.service.ToggleStock(r.Context(), ownerID, productID, payload.InStock)
	if err != nil {
		respondWithAppError(w, err, "failed to update availability")
		return
	}

	respondWithJSON(w, http.StatusOK, offer)
}

type storeStatusRequest struct {
	Override *string `json:"override"`
}

// SetStoreStatus handles PATCH /api/storekeeper/{ownerId}/status
func (h *StorekeeperHandler) SetStoreStatus(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("ownerId")
	if ownerID == "" {
		respondWithError(w, http.StatusBadRequest, "owner ID is required")
		return
	}

	var payload storeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.SetStoreStatus(r.Context(), ownerID, payload.Override); err != nil {
		respondWithAppError(w, err, "failed to update store status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type updateProfileRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	StoreName   string `json:"store_name"`
	PhotoURL    string `json:"photo_url"`
}

// UpdateProfile handles PATCH /api/storekeeper/{ownerId}/profile
func (h *StorekeeperHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("ownerId")
	if ownerID == "" {
		respondWithError(w, http.StatusBadRequest, "owner ID is required")
		return
	}

	var payload updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.UpdateProfile(r.Context(), ownerID, payload.Email, payload.PhoneNumber, payload.StoreName, payload.PhotoURL); err != nil {
		respondWithAppError(w, err, "failed to update profile")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// SuggestProducts handles GET /api/products/suggest
func (h *StorekeeperHandler) SuggestProducts(w http.ResponseWriter, r *http.Request) {
	fragment := r.URL.Query().Get("q")
	if fragment == "" {
		respondWithError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			respondWithError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = parsed
	}

	products, err := h.service.SuggestProducts(r.Context(), fragment, limit)
	if err != nil {
		respondWithAppError(w, err, "failed to suggest products")
		return
	}
	if products == nil {
		products = []entities.CatalogProduct{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}
