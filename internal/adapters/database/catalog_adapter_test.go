package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/postgres"
	"github.com/keaype/bodega-backend/pkg/geo"
)

var candidateColumns = []string{
	"bodega_id", "product_id", "price", "stock_quantity", "is_available",
	"id", "name", "category", "synonyms", "attributes", "image_url", "default_unit",
	"id", "owner_id", "name", "address", "latitude", "longitude",
	"manual_override", "rating", "photo_url", "created_at", "updated_at",
}

func candidateRow(rows *sqlmock.Rows, storeID, storeName string, lat, lng float64) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		storeID, 1, 3.50, 10.0, true,
		1, "Inca Kola 2L", "Bebidas", "{gaseosa,inca}", []byte(`{"retornable":false}`), nil, "UND",
		storeID, "owner-1", storeName, "Av. Los Olivos 123", lat, lng,
		nil, 4.5, nil, now, now,
	)
}

func testProduct(name, category string) *entities.CatalogProduct {
	return &entities.CatalogProduct{
		Name:     name,
		Category: category,
		Synonyms: []string{"arroz"},
		Attributes: map[string]interface{}{
			"peso": "1kg",
		},
	}
}

func newMockedCatalog(t *testing.T) (repositories.CatalogRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCatalogAdapter(postgres.NewClientWithDB(db)), mock
}

func TestSearchCandidatesFiltersByRadius(t *testing.T) {
	adapter, mock := newMockedCatalog(t)

	origin := geo.Point{Latitude: -8.0824, Longitude: -79.1120}
	rows := sqlmock.NewRows(candidateColumns)
	// ~200m from the origin
	candidateRow(rows, "store-near", "Bodega Rosita", -8.0840, -79.1125)
	// ~10km away, must be dropped by the radius filter
	candidateRow(rows, "store-far", "Bodega Lejos", -8.1700, -79.0600)

	mock.ExpectQuery(`SELECT .+ FROM "store_inventory"`).WillReturnRows(rows)

	candidates, err := adapter.SearchCandidates(context.Background(), repositories.CandidateSearchParams{
		Keywords: []string{"gaseosa"},
		Origin:   origin,
		MaxKm:    3.0,
		Now:      time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "store-near", candidates[0].Store.ID)
	assert.Equal(t, "Inca Kola 2L", candidates[0].Product.Name)
	assert.Equal(t, []string{"gaseosa", "inca"}, candidates[0].Product.Synonyms)
	assert.Equal(t, false, candidates[0].Product.Attributes["retornable"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchCandidatesNoKeywordsSkipsQuery(t *testing.T) {
	adapter, mock := newMockedCatalog(t)

	candidates, err := adapter.SearchCandidates(context.Background(), repositories.CandidateSearchParams{
		Keywords: []string{"", "  "},
		Origin:   geo.Point{Latitude: -8.08, Longitude: -79.11},
		MaxKm:    3.0,
		Now:      time.Now(),
	})
	require.NoError(t, err)
	assert.Empty(t, candidates)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductFillsGeneratedID(t *testing.T) {
	adapter, mock := newMockedCatalog(t)

	mock.ExpectQuery(`INSERT INTO "master_products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	product := testProduct("Arroz Costeno 1kg", "Abarrotes")
	require.NoError(t, adapter.CreateProduct(context.Background(), product))
	assert.Equal(t, 42, product.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestProductsMatchesSynonyms(t *testing.T) {
	adapter, mock := newMockedCatalog(t)

	rows := sqlmock.NewRows([]string{"id", "name", "category", "synonyms", "attributes", "image_url", "default_unit"}).
		AddRow(7, "Cerveza Pilsen 630ml", "Bebidas", "{chela,pilsen}", []byte(`{}`), nil, "UND")
	mock.ExpectQuery(`SELECT .+ FROM "master_products"`).WillReturnRows(rows)

	products, err := adapter.SuggestProducts(context.Background(), "chela", 5)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Cerveza Pilsen 630ml", products[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
