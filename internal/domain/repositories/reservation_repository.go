package repositories

import (
	"context"

	"github.com/keaype/bodega-backend/internal/domain/entities"
)

// ReservationRepository manages reservations and their line items.
type ReservationRepository interface {
	// Create inserts a reservation with its items in one transaction
	Create(ctx context.Context, reservation *entities.Reservation) error

	// GetByID retrieves a reservation with items, or a not-found error
	GetByID(ctx context.Context, id string) (*entities.Reservation, error)

	// ListByStore returns a store's reservations newest first, items and
	// client names included
	ListByStore(ctx context.Context, storeID string) ([]entities.Reservation, error)

	// UpdateStatus transitions a reservation's status
	UpdateStatus(ctx context.Context, id, status string) error
}
