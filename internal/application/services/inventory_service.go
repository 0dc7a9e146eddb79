package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

// InventoryService implements the storekeeper's side of the marketplace:
// managing the shop's inventory against the shared master catalog, the
// open/closed switch, and the profile.
type InventoryService struct {
	users     repositories.UserRepository
	stores    repositories.StoreRepository
	inventory repositories.InventoryRepository
	catalog   repositories.CatalogRepository
	index     repositories.ProductIndexRepository
}

// NewInventoryService creates a new inventory service. index may be nil when
// no suggest backend is configured.
func NewInventoryService(
	users repositories.UserRepository,
	stores repositories.StoreRepository,
	inventory repositories.InventoryRepository,
	catalog repositories.CatalogRepository,
	index repositories.ProductIndexRepository,
) *InventoryService {
	return &InventoryService{
		users:     users,
		stores:    stores,
		inventory: inventory,
		catalog:   catalog,
		index:     index,
	}
}

// storeOf resolves the storekeeper's bodega, enforcing the role.
func (s *InventoryService) storeOf(ctx context.Context, ownerID string) (*entities.Store, error) {
	user, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if user.Role != entities.RoleStorekeeper && user.Role != entities.RoleAdmin {
		return nil, apperrors.NewUnauthorizedError("no eres bodeguero")
	}
	return s.stores.GetByOwner(ctx, ownerID)
}

// StoreInventory is a storekeeper's inventory listing.
type StoreInventory struct {
	Store  *entities.Store              `json:"bodega"`
	IsOpen bool                         `json:"is_open"`
	Lines  []repositories.InventoryLine `json:"products"`
}

// ListInventory returns the storekeeper's full inventory along with the
// shop's current open state.
func (s *InventoryService) ListInventory(ctx context.Context, ownerID string) (*StoreInventory, error) {
	store, err := s.storeOf(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	lines, err := s.inventory.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []repositories.InventoryLine{}
	}

	schedules, err := s.stores.GetSchedules(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	return &StoreInventory{
		Store:  store,
		IsOpen: store.IsOpenAt(time.Now(), schedules),
		Lines:  lines,
	}, nil
}

// AddProductParams are the inputs for stocking a product. When the master
// catalog already has an entry with the same name and category it is reused;
// otherwise one is created.
type AddProductParams struct {
	Name       string
	Category   string
	Price      float64
	Stock      float64
	Synonyms   []string
	Attributes map[string]interface{}
}

// AddProduct stocks a product in the storekeeper's shop, creating the master
// catalog entry when needed. Stocking the same product twice is a conflict.
func (s *InventoryService) AddProduct(ctx context.Context, ownerID string, params AddProductParams) (*entities.CatalogProduct, error) {
	if params.Name == "" || params.Category == "" {
		return nil, apperrors.NewValidationError("product name and category are required")
	}
	if params.Price < 0 || params.Stock < 0 {
		return nil, apperrors.NewValidationError("price and stock must not be negative")
	}

	store, err := s.storeOf(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	product, err := s.catalog.FindProductByNameCategory(ctx, params.Name, params.Category)
	switch {
	case err == nil:
		if _, invErr := s.inventory.Get(ctx, store.ID, product.ID); invErr == nil {
			return nil, apperrors.NewConflictError("el producto ya está en tu inventario")
		} else if !apperrors.IsType(invErr, apperrors.ErrorTypeNotFound) {
			return nil, invErr
		}
	case apperrors.IsType(err, apperrors.ErrorTypeNotFound):
		product = &entities.CatalogProduct{
			Name:       params.Name,
			Category:   params.Category,
			Synonyms:   params.Synonyms,
			Attributes: params.Attributes,
		}
		if err := s.catalog.CreateProduct(ctx, product); err != nil {
			return nil, err
		}
		s.indexProduct(ctx, product)
	default:
		return nil, err
	}

	offer := &entities.StoreOffer{
		StoreID:       store.ID,
		ProductID:     product.ID,
		Price:         params.Price,
		StockQuantity: params.Stock,
		IsAvailable:   true,
	}
	if err := s.inventory.Create(ctx, offer); err != nil {
		return nil, err
	}
	return product, nil
}

// RestockProduct updates the price and adds to the current stock of an
// already-stocked product, marking it available again.
func (s *InventoryService) RestockProduct(ctx context.Context, ownerID string, productID int, price, stockToAdd float64) (*entities.StoreOffer, error) {
	store, err := s.storeOf(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	offer, err := s.inventory.Get(ctx, store.ID, productID)
	if err != nil {
		return nil, err
	}

	offer.Price = price
	offer.StockQuantity += stockToAdd
	offer.IsAvailable = true
	if err := s.inventory.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// ToggleStock flips a product's availability without touching the stock
// count.
func (s *InventoryService) ToggleStock(ctx context.Context, ownerID string, productID int, inStock bool) (*entities.StoreOffer, error) {
	store, err := s.storeOf(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	offer, err := s.inventory.Get(ctx, store.ID, productID)
	if err != nil {
		return nil, err
	}

	offer.IsAvailable = inStock
	if err := s.inventory.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// SetStoreStatus sets the manual open/closed override; nil returns control
// to the weekly schedule.
func (s *InventoryService) SetStoreStatus(ctx context.Context, ownerID string, override *string) error {
	if override != nil && *override != entities.OverrideOpen && *override != entities.OverrideClosed {
		return apperrors.NewValidationError("override must be OPEN or CLOSED")
	}

	store, err := s.storeOf(ctx, ownerID)
	if err != nil {
		return err
	}
	return s.stores.SetManualOverride(ctx, store.ID, override)
}

// UpdateProfile updates the storekeeper's contact data and shop display
// fields in one call.
func (s *InventoryService) UpdateProfile(ctx context.Context, ownerID, email, phoneNumber, storeName, photoURL string) error {
	store, err := s.storeOf(ctx, ownerID)
	if err != nil {
		return err
	}

	if err := s.users.UpdateContact(ctx, ownerID, email, phoneNumber); err != nil {
		return err
	}
	if storeName != "" || photoURL != "" {
		return s.stores.UpdateProfile(ctx, store.ID, storeName, photoURL)
	}
	return nil
}

// SuggestProducts autocompletes master catalog entries for the add-product
// form. The typo-tolerant index answers first; on failure the SQL catalog
// takes over.
func (s *InventoryService) SuggestProducts(ctx context.Context, fragment string, limit int) ([]entities.CatalogProduct, error) {
	if s.index != nil {
		products, err := s.index.Suggest(ctx, fragment, limit)
		if err == nil {
			return products, nil
		}
		log.Warn().Err(err).Msg("suggest index unavailable, falling back to catalog")
	}
	return s.catalog.SuggestProducts(ctx, fragment, limit)
}

// indexProduct pushes a new catalog entry to the suggest index, best effort.
func (s *InventoryService) indexProduct(ctx context.Context, product *entities.CatalogProduct) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, product); err != nil {
		log.Warn().Err(err).Int("product_id", product.ID).Msg("failed to index product")
	}
}
