package repositories

import (
	"context"

	"github.com/keaype/bodega-backend/internal/domain/entities"
)

// StoreRepository manages bodega records and their schedules.
type StoreRepository interface {
	// GetByID retrieves a store, or a not-found error
	GetByID(ctx context.Context, id string) (*entities.Store, error)

	// GetByOwner retrieves the store owned by a user, or a not-found error
	GetByOwner(ctx context.Context, ownerID string) (*entities.Store, error)

	// GetSchedules returns the weekly opening windows of a store
	GetSchedules(ctx context.Context, storeID string) ([]entities.StoreSchedule, error)

	// SetManualOverride sets the open/closed override; nil restores
	// schedule-driven state
	SetManualOverride(ctx context.Context, storeID string, override *string) error

	// UpdateProfile updates the store's display fields
	UpdateProfile(ctx context.Context, storeID, name, photoURL string) error
}
