package repositories

import (
	"context"

	"github.com/keaype/bodega-backend/internal/domain/entities"
)

// ProductIndexRepository is the typo-tolerant suggest index over the master
// catalog. It backs storekeeper product autocomplete; the SQL catalog is the
// fallback when the index is down.
type ProductIndexRepository interface {
	// InitSchema ensures the collection exists
	InitSchema(ctx context.Context) error

	// Index upserts a product document
	Index(ctx context.Context, product *entities.CatalogProduct) error

	// Suggest returns products matching the fragment, typo-tolerant
	Suggest(ctx context.Context, fragment string, limit int) ([]entities.CatalogProduct, error)

	// Delete removes a product from the index
	Delete(ctx context.Context, productID int) error
}
