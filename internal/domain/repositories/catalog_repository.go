package repositories

import (
	"context"
	"time"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/pkg/geo"
)

// CandidateSearchParams describes one candidate retrieval pass.
type CandidateSearchParams struct {
	Keywords []string
	Origin   geo.Point
	MaxKm    float64
	Now      time.Time
}

// CatalogRepository is the read interface over the master catalog and the
// per-store inventory used by the search engine.
type CatalogRepository interface {
	// SearchCandidates returns raw (inventory row, product, store) triples
	// matching any keyword, restricted to open stores within the radius.
	// No ranking, no dedup.
	SearchCandidates(ctx context.Context, params CandidateSearchParams) ([]entities.Candidate, error)

	// GetProductByID retrieves a master product
	GetProductByID(ctx context.Context, id int) (*entities.CatalogProduct, error)

	// FindProductByNameCategory retrieves the master product with this exact
	// name and category, or a not-found error
	FindProductByNameCategory(ctx context.Context, name, category string) (*entities.CatalogProduct, error)

	// CreateProduct inserts a new master product and fills in its ID
	CreateProduct(ctx context.Context, product *entities.CatalogProduct) error

	// SuggestProducts returns catalog entries whose name or synonyms contain
	// the fragment; the database fallback behind the suggest index
	SuggestProducts(ctx context.Context, fragment string, limit int) ([]entities.CatalogProduct, error)
}
