package repositories

import (
	"context"

	"github.com/keaype/bodega-backend/internal/domain/entities"
)

// InventoryLine joins one inventory row with its master product for
// storekeeper listings.
type InventoryLine struct {
	Offer   entities.StoreOffer
	Product entities.CatalogProduct
}

// InventoryRepository manages a store's inventory rows.
type InventoryRepository interface {
	// ListByStore returns every inventory line of a store with its product
	ListByStore(ctx context.Context, storeID string) ([]InventoryLine, error)

	// Get retrieves one inventory row, or a not-found error
	Get(ctx context.Context, storeID string, productID int) (*entities.StoreOffer, error)

	// Create inserts a new inventory row
	Create(ctx context.Context, offer *entities.StoreOffer) error

	// Update overwrites price, stock and availability of an existing row
	Update(ctx context.Context, offer *entities.StoreOffer) error
}
