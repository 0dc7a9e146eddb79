package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	tsclient "github.com/keaype/bodega-backend/internal/infrastructure/clients/typesense"
)

const collectionName = "master_products"

// TypesenseAdapter implements the product suggest index using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ProductIndexRepository
var _ repositories.ProductIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "synonyms", Type: "string[]"},
			{Name: "default_unit", Type: "string", Optional: pointer.True()},
		},
	}

	if _, err := a.client.Client().Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

// Index upserts a product document
func (a *TypesenseAdapter) Index(ctx context.Context, product *entities.CatalogProduct) error {
	synonyms := product.Synonyms
	if synonyms == nil {
		synonyms = []string{}
	}

	document := map[string]interface{}{
		"id":           strconv.Itoa(product.ID),
		"name":         product.Name,
		"category":     product.Category,
		"synonyms":     synonyms,
		"default_unit": product.Unit(),
	}

	if _, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document); err != nil {
		return fmt.Errorf("failed to index product: %w", err)
	}
	return nil
}

// Suggest returns products matching the fragment, typo-tolerant
func (a *TypesenseAdapter) Suggest(ctx context.Context, fragment string, limit int) ([]entities.CatalogProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(strings.TrimSpace(fragment)),
		QueryBy:  pointer.String("name,synonyms"),
		PerPage:  pointer.Int(limit),
		NumTypos: pointer.String("2"),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	products := []entities.CatalogProduct{}
	if result.Hits == nil {
		return products, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document

		product := entities.CatalogProduct{}
		if id, ok := doc["id"].(string); ok {
			product.ID, _ = strconv.Atoi(id)
		}
		if name, ok := doc["name"].(string); ok {
			product.Name = name
		}
		if category, ok := doc["category"].(string); ok {
			product.Category = category
		}
		if unit, ok := doc["default_unit"].(string); ok {
			product.DefaultUnit = unit
		}
		if raw, ok := doc["synonyms"].([]interface{}); ok {
			for _, value := range raw {
				if synonym, ok := value.(string); ok {
					product.Synonyms = append(product.Synonyms, synonym)
				}
			}
		}

		products = append(products, product)
	}
	return products, nil
}

// Delete removes a product from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, productID int) error {
	if _, err := a.client.Client().Collection(collectionName).Document(strconv.Itoa(productID)).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete product from index: %w", err)
	}
	return nil
}
