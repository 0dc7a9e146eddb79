package routes

import (
	"net/http"

	"github.com/keaype/bodega-backend/internal/api/handlers"
	"github.com/keaype/bodega-backend/internal/api/middleware"
	"github.com/keaype/bodega-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler      *handlers.SearchHandler
	authHandler        *handlers.AuthHandler
	storekeeperHandler *handlers.StorekeeperHandler
	reservationHandler *handlers.ReservationHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	authHandler *handlers.AuthHandler,
	storekeeperHandler *handlers.StorekeeperHandler,
	reservationHandler *handlers.ReservationHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		searchHandler:      searchHandler,
		authHandler:        authHandler,
		storekeeperHandler: storekeeperHandler,
		reservationHandler: reservationHandler,
		cacheMiddleware:    cacheMiddleware,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Conversational search
	r.mux.HandleFunc("POST /api/search/smart", r.searchHandler.SmartSearch)

	// Auth endpoints
	r.mux.HandleFunc("POST /api/auth/consult-dni", r.authHandler.ConsultDNI)
	r.mux.HandleFunc("POST /api/auth/register", r.authHandler.Register)
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)

	// Catalog autocomplete
	r.mux.HandleFunc("GET /api/products/suggest", r.storekeeperHandler.SuggestProducts)

	// Storekeeper endpoints
	r.mux.HandleFunc("GET /api/storekeeper/{ownerId}/inventory", r.storekeeperHandler.ListInventory)
	r.mux.HandleFunc("POST /api/storekeeper/{ownerId}/inventory", r.storekeeperHandler.AddProduct)
	r.mux.HandleFunc("PATCH /api/storekeeper/{ownerId}/inventory/{productId}/restock", r.storekeeperHandler.RestockProduct)
	r.mux.HandleFunc("PATCH /api/storekeeper/{ownerId}/inventory/{productId}/availability", r.storekeeperHandler.ToggleStock)
	r.mux.HandleFunc("PATCH /api/storekeeper/{ownerId}/status", r.storekeeperHandler.SetStoreStatus)
	r.mux.HandleFunc("PATCH /api/storekeeper/{ownerId}/profile", r.storekeeperHandler.UpdateProfile)
	r.mux.HandleFunc("GET /api/storekeeper/{ownerId}/reservations", r.reservationHandler.ListStoreReservations)

	// Reservation endpoints
	r.mux.HandleFunc("POST /api/reservations", r.reservationHandler.CreateReservation)
	r.mux.HandleFunc("GET /api/reservations/{id}", r.reservationHandler.GetReservation)
	r.mux.HandleFunc("PATCH /api/reservations/{id}/status", r.reservationHandler.UpdateReservationStatus)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}

	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
