package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
	"github.com/keaype/bodega-backend/pkg/geo"
	"github.com/keaype/bodega-backend/pkg/textnorm"
)

// CatalogAdapter implements CatalogRepository
type CatalogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCatalogAdapter creates a new catalog adapter
func NewCatalogAdapter(client *postgres.Client) repositories.CatalogRepository {
	return &CatalogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var productColumns = []interface{}{
	"id", "name", "category", "synonyms", "attributes", "image_url", "default_unit",
}

// SearchCandidates returns every available inventory row of an open store
// within the radius whose product text matches any keyword. The radius check
// runs in Go after the query: candidate sets are small once the keyword and
// open-store filters apply, and it keeps the SQL free of earth-distance
// math.
func (a *CatalogAdapter) SearchCandidates(ctx context.Context, params repositories.CandidateSearchParams) ([]entities.Candidate, error) {
	match := keywordExpression(params.Keywords)
	if match == nil {
		return []entities.Candidate{}, nil
	}

	day := entities.ScheduleWeekday(params.Now)
	clock := params.Now.Format("15:04:05")

	openStore := goqu.Or(
		goqu.I("b.manual_override").Eq(entities.OverrideOpen),
		goqu.And(
			goqu.I("b.manual_override").IsNull(),
			goqu.L(
				"EXISTS (SELECT 1 FROM bodega_schedules bs WHERE bs.bodega_id = b.id AND bs.day_of_week = ? AND bs.open_time <= ?::time AND bs.close_time >= ?::time)",
				day, clock, clock,
			),
		),
	)

	query, args, err := a.db.From(goqu.T("store_inventory").As("si")).
		Join(goqu.T("master_products").As("mp"), goqu.On(goqu.I("si.product_id").Eq(goqu.I("mp.id")))).
		Join(goqu.T("bodegas").As("b"), goqu.On(goqu.I("si.bodega_id").Eq(goqu.I("b.id")))).
		Where(
			goqu.I("si.is_available").IsTrue(),
			goqu.I("si.stock_quantity").Gt(0),
			openStore,
			match,
		).
		Select(
			"si.bodega_id", "si.product_id", "si.price", "si.stock_quantity", "si.is_available",
			"mp.id", "mp.name", "mp.category", "mp.synonyms", "mp.attributes", "mp.image_url", "mp.default_unit",
			"b.id", "b.owner_id", "b.name", "b.address", "b.latitude", "b.longitude",
			"b.manual_override", "b.rating", "b.photo_url", "b.created_at", "b.updated_at",
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build candidate query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search candidates", err)
	}
	defer rows.Close()

	var candidates []entities.Candidate
	for rows.Next() {
		var (
			candidate                   entities.Candidate
			attributes                  []byte
			productImage                sql.NullString
			defaultUnit                 sql.NullString
			address, override, photoURL sql.NullString
		)

		err := rows.Scan(
			&candidate.Offer.StoreID,
			&candidate.Offer.ProductID,
			&candidate.Offer.Price,
			&candidate.Offer.StockQuantity,
			&candidate.Offer.IsAvailable,
			&candidate.Product.ID,
			&candidate.Product.Name,
			&candidate.Product.Category,
			pq.Array(&candidate.Product.Synonyms),
			&attributes,
			&productImage,
			&defaultUnit,
			&candidate.Store.ID,
			&candidate.Store.OwnerID,
			&candidate.Store.Name,
			&address,
			&candidate.Store.Location.Latitude,
			&candidate.Store.Location.Longitude,
			&override,
			&candidate.Store.Rating,
			&photoURL,
			&candidate.Store.CreatedAt,
			&candidate.Store.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan candidate", err)
		}

		if len(attributes) > 0 {
			if err := json.Unmarshal(attributes, &candidate.Product.Attributes); err != nil {
				return nil, apperrors.NewInternalError("failed to decode product attributes", err)
			}
		}
		candidate.Product.ImageURL = productImage.String
		candidate.Product.DefaultUnit = defaultUnit.String
		candidate.Store.Address = address.String
		candidate.Store.PhotoURL = photoURL.String
		if override.Valid {
			value := override.String
			candidate.Store.ManualOverride = &value
		}

		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read candidates", err)
	}

	return geo.WithinRadius(candidates, params.Origin, params.MaxKm, func(c entities.Candidate) geo.Point {
		return geo.Point{Latitude: c.Store.Location.Latitude, Longitude: c.Store.Location.Longitude}
	}), nil
}

// keywordExpression builds the OR of ILIKE conditions over name, category,
// synonyms, and the attribute text for every keyword and every word of three
// or more characters inside it.
func keywordExpression(keywords []string) goqu.Expression {
	seen := make(map[string]struct{})
	terms := make([]string, 0, len(keywords))

	add := func(term string) {
		term = strings.TrimSpace(textnorm.Normalize(term))
		if term == "" {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, keyword := range keywords {
		add(keyword)
		for _, word := range strings.Fields(keyword) {
			if len([]rune(word)) >= 3 {
				add(word)
			}
		}
	}

	if len(terms) == 0 {
		return nil
	}

	conditions := make([]goqu.Expression, 0, len(terms)*4)
	for _, term := range terms {
		pattern := "%" + term + "%"
		conditions = append(conditions,
			goqu.I("mp.name").ILike(pattern),
			goqu.I("mp.category").ILike(pattern),
			goqu.L("array_to_string(mp.synonyms, ' ') ILIKE ?", pattern),
			goqu.L("mp.attributes::text ILIKE ?", pattern),
		)
	}
	return goqu.Or(conditions...)
}

// GetProductByID retrieves a master product by ID
func (a *CatalogAdapter) GetProductByID(ctx context.Context, id int) (*entities.CatalogProduct, error) {
	query, args, err := a.db.Select(productColumns...).
		From("master_products").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	product, err := a.scanProduct(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %d not found", id))
	}
	return product, err
}

// FindProductByNameCategory retrieves the master product with this exact
// name and category
func (a *CatalogAdapter) FindProductByNameCategory(ctx context.Context, name, category string) (*entities.CatalogProduct, error) {
	query, args, err := a.db.Select(productColumns...).
		From("master_products").
		Where(goqu.Ex{"name": name, "category": category}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	product, err := a.scanProduct(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %q in category %q not found", name, category))
	}
	return product, err
}

// CreateProduct inserts a new master product and fills in its generated ID
func (a *CatalogAdapter) CreateProduct(ctx context.Context, product *entities.CatalogProduct) error {
	attributes, err := json.Marshal(product.Attributes)
	if err != nil {
		return apperrors.NewInternalError("failed to encode product attributes", err)
	}

	record := goqu.Record{
		"name":         product.Name,
		"category":     product.Category,
		"synonyms":     pq.Array(product.Synonyms),
		"attributes":   attributes,
		"image_url":    sql.NullString{String: product.ImageURL, Valid: product.ImageURL != ""},
		"default_unit": product.Unit(),
	}

	query, args, err := a.db.Insert("master_products").
		Rows(record).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&product.ID); err != nil {
		return apperrors.NewInternalError("failed to create product", err)
	}
	return nil
}

// SuggestProducts returns catalog entries whose name or synonyms contain the
// fragment, the database fallback behind the suggest index
func (a *CatalogAdapter) SuggestProducts(ctx context.Context, fragment string, limit int) ([]entities.CatalogProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + strings.TrimSpace(textnorm.Normalize(fragment)) + "%"

	query, args, err := a.db.Select(productColumns...).
		From("master_products").
		Where(goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.L("array_to_string(synonyms, ' ') ILIKE ?", pattern),
		)).
		Order(goqu.I("name").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build suggest query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to suggest products", err)
	}
	defer rows.Close()

	var products []entities.CatalogProduct
	for rows.Next() {
		product, err := a.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read suggestions", err)
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *CatalogAdapter) scanProduct(row rowScanner) (*entities.CatalogProduct, error) {
	product := &entities.CatalogProduct{}
	var (
		attributes            []byte
		imageURL, defaultUnit sql.NullString
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		pq.Array(&product.Synonyms),
		&attributes,
		&imageURL,
		&defaultUnit,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan product", err)
	}

	if len(attributes) > 0 {
		if err := json.Unmarshal(attributes, &product.Attributes); err != nil {
			return nil, apperrors.NewInternalError("failed to decode product attributes", err)
		}
	}
	product.ImageURL = imageURL.String
	product.DefaultUnit = defaultUnit.String
	return product, nil
}
