package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
)

// InventoryAdapter implements InventoryRepository
type InventoryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewInventoryAdapter creates a new inventory adapter
func NewInventoryAdapter(client *postgres.Client) repositories.InventoryRepository {
	return &InventoryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListByStore returns every inventory line of a store with its product,
// ordered by product name.
func (a *InventoryAdapter) ListByStore(ctx context.Context, storeID string) ([]repositories.InventoryLine, error) {
	query, args, err := a.db.From(goqu.T("store_inventory").As("si")).
		Join(goqu.T("master_products").As("mp"), goqu.On(goqu.I("si.product_id").Eq(goqu.I("mp.id")))).
		Where(goqu.Ex{"si.bodega_id": storeID}).
		Select(
			"si.bodega_id", "si.product_id", "si.price", "si.stock_quantity", "si.is_available",
			"mp.id", "mp.name", "mp.category", "mp.synonyms", "mp.attributes", "mp.image_url", "mp.default_unit",
		).
		Order(goqu.I("mp.name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list inventory", err)
	}
	defer rows.Close()

	var lines []repositories.InventoryLine
	for rows.Next() {
		var (
			line                  repositories.InventoryLine
			attributes            []byte
			imageURL, defaultUnit sql.NullString
		)

		err := rows.Scan(
			&line.Offer.StoreID,
			&line.Offer.ProductID,
			&line.Offer.Price,
			&line.Offer.StockQuantity,
			&line.Offer.IsAvailable,
			&line.Product.ID,
			&line.Product.Name,
			&line.Product.Category,
			pq.Array(&line.Product.Synonyms),
			&attributes,
			&imageURL,
			&defaultUnit,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan inventory line", err)
		}

		if len(attributes) > 0 {
			if err := json.Unmarshal(attributes, &line.Product.Attributes); err != nil {
				return nil, apperrors.NewInternalError("failed to decode product attributes", err)
			}
		}
		line.Product.ImageURL = imageURL.String
		line.Product.DefaultUnit = defaultUnit.String

		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read inventory", err)
	}
	return lines, nil
}

// Get retrieves one inventory row
func (a *InventoryAdapter) Get(ctx context.Context, storeID string, productID int) (*entities.StoreOffer, error) {
	query, args, err := a.db.Select("bodega_id", "product_id", "price", "stock_quantity", "is_available").
		From("store_inventory").
		Where(goqu.Ex{"bodega_id": storeID, "product_id": productID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	offer := &entities.StoreOffer{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&offer.StoreID,
		&offer.ProductID,
		&offer.Price,
		&offer.StockQuantity,
		&offer.IsAvailable,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %d not in store %s inventory", productID, storeID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get inventory row", err)
	}
	return offer, nil
}

// Create inserts a new inventory row
func (a *InventoryAdapter) Create(ctx context.Context, offer *entities.StoreOffer) error {
	record := goqu.Record{
		"bodega_id":      offer.StoreID,
		"product_id":     offer.ProductID,
		"price":          offer.Price,
		"stock_quantity": offer.StockQuantity,
		"is_available":   offer.IsAvailable,
	}

	query, args, err := a.db.Insert("store_inventory").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return apperrors.NewConflictError(fmt.Sprintf("product %d already in store %s inventory", offer.ProductID, offer.StoreID))
		}
		return apperrors.NewInternalError("failed to create inventory row", err)
	}
	return nil
}

// Update overwrites price, stock and availability of an existing row
func (a *InventoryAdapter) Update(ctx context.Context, offer *entities.StoreOffer) error {
	query, args, err := a.db.Update("store_inventory").
		Set(goqu.Record{
			"price":          offer.Price,
			"stock_quantity": offer.StockQuantity,
			"is_available":   offer.IsAvailable,
		}).
		Where(goqu.Ex{"bodega_id": offer.StoreID, "product_id": offer.ProductID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update inventory row", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product %d not in store %s inventory", offer.ProductID, offer.StoreID))
	}
	return nil
}
