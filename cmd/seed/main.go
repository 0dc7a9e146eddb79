package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/keaype/bodega-backend/internal/adapters/database"
	"github.com/keaype/bodega-backend/internal/adapters/search"
	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/postgres"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/typesense"
	"github.com/keaype/bodega-backend/internal/infrastructure/observability"
	"github.com/keaype/bodega-backend/pkg/config"
)

// Seeds a development database with two Huanchaco bodegas, their owners,
// schedules, and a small shared catalog.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger("bodega-seed", cfg.Server.Env)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	ctx := context.Background()

	var productIndex *search.TypesenseAdapter
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err == nil {
		productIndex = search.NewTypesenseAdapter(tsClient)
		if err := productIndex.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				reservation_items,
				reservations,
				conversation_messages,
				conversation_states,
				store_inventory,
				bodega_schedules,
				bodegas,
				master_products,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	users := database.NewUserAdapter(pgClient)
	catalog := database.NewCatalogAdapter(pgClient)
	inventory := database.NewInventoryAdapter(pgClient)

	// 1. Storekeepers and a test client
	hash, _ := bcrypt.GenerateFromPassword([]byte("bodega123"), bcrypt.DefaultCost)
	owners := []entities.User{
		{ID: uuid.New().String(), DNI: "40111222", FullName: "ROSA DIAZ MENDOZA", PhoneNumber: "+51987654321", PasswordHash: string(hash), Role: entities.RoleStorekeeper, IsVerified: true},
		{ID: uuid.New().String(), DNI: "40333444", FullName: "PEDRO SANCHEZ CRUZ", PhoneNumber: "+51912345678", PasswordHash: string(hash), Role: entities.RoleStorekeeper, IsVerified: true},
	}
	client := entities.User{ID: uuid.New().String(), DNI: "70555666", FullName: "JUAN PEREZ QUISPE", PhoneNumber: "+51998877665", PasswordHash: string(hash), Role: entities.RoleClient, IsVerified: true}

	for _, user := range append(owners, client) {
		if err := users.Create(ctx, &user); err != nil {
			log.Warn().Err(err).Str("dni", user.DNI).Msg("failed to create user")
		}
	}

	// 2. Bodegas around the Huanchaco plaza
	stores := []struct {
		id      string
		ownerID string
		name    string
		address string
		lat     float64
		lng     float64
	}{
		{uuid.New().String(), owners[0].ID, "Bodega Rosita", "Av. La Ribera 123, Huanchaco", -8.0820, -79.1205},
		{uuid.New().String(), owners[1].ID, "Bodega Don Pedro", "Jr. Union 456, Huanchaco", -8.0795, -79.1188},
	}
	for _, store := range stores {
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO bodegas (id, owner_id, name, address, latitude, longitude, rating)
			VALUES ($1, $2, $3, $4, $5, $6, 4.5)
			ON CONFLICT (id) DO NOTHING
		`, store.id, store.ownerID, store.name, store.address, store.lat, store.lng)
		if err != nil {
			log.Warn().Err(err).Str("name", store.name).Msg("failed to create bodega")
		}

		// Monday through Saturday, 07:00-22:00
		for day := 0; day < 6; day++ {
			_, err := pgClient.DB().ExecContext(ctx, `
				INSERT INTO bodega_schedules (bodega_id, day_of_week, open_time, close_time)
				VALUES ($1, $2, '07:00:00', '22:00:00')
			`, store.id, day)
			if err != nil {
				log.Warn().Err(err).Str("name", store.name).Msg("failed to create schedule")
			}
		}
	}

	// 3. Master catalog with synonyms and attributes
	products := []entities.CatalogProduct{
		{Name: "Agua San Luis con gas 625ml", Category: "Bebidas", Synonyms: []string{"agua con gas", "agua mineral"}, Attributes: map[string]interface{}{"con_gas": true, "tamano": "625ml"}, DefaultUnit: "UND"},
		{Name: "Agua San Luis sin gas 625ml", Category: "Bebidas", Synonyms: []string{"agua", "agua sin gas"}, Attributes: map[string]interface{}{"con_gas": false, "tamano": "625ml"}, DefaultUnit: "UND"},
		{Name: "Inca Kola 1.5L", Category: "Bebidas", Synonyms: []string{"gaseosa", "inca"}, Attributes: map[string]interface{}{"tamano": "1.5L", "retornable": false}, DefaultUnit: "UND"},
		{Name: "Cerveza Pilsen Callao 630ml", Category: "Bebidas", Synonyms: []string{"chela", "cerveza", "pilsen"}, Attributes: map[string]interface{}{"tamano": "630ml", "retornable": true}, DefaultUnit: "UND"},
		{Name: "Arroz Costeno Extra 1kg", Category: "Abarrotes", Synonyms: []string{"arroz"}, Attributes: map[string]interface{}{"tamano": "1kg"}, DefaultUnit: "UND"},
		{Name: "Atun Florida en trozos 170g", Category: "Abarrotes", Synonyms: []string{"atun", "lata de atun"}, Attributes: map[string]interface{}{"tamano": "170g"}, DefaultUnit: "UND"},
		{Name: "Leche Gloria Entera 400g", Category: "Abarrotes", Synonyms: []string{"leche", "gloria"}, Attributes: map[string]interface{}{"tamano": "400g"}, DefaultUnit: "UND"},
		{Name: "Pan frances", Category: "Panaderia", Synonyms: []string{"pan"}, Attributes: map[string]interface{}{}, DefaultUnit: "UND"},
		{Name: "Huevos pardos x12", Category: "Abarrotes", Synonyms: []string{"huevos", "docena de huevos"}, Attributes: map[string]interface{}{"tamano": "12 unidades"}, DefaultUnit: "DOC"},
		{Name: "Detergente Bolivar 520g", Category: "Limpieza", Synonyms: []string{"detergente", "bolivar"}, Attributes: map[string]interface{}{"tamano": "520g"}, DefaultUnit: "UND"},
	}

	for i := range products {
		if err := catalog.CreateProduct(ctx, &products[i]); err != nil {
			log.Warn().Err(err).Str("name", products[i].Name).Msg("failed to create product")
			continue
		}
		if productIndex != nil {
			if err := productIndex.Index(ctx, &products[i]); err != nil {
				log.Warn().Err(err).Str("name", products[i].Name).Msg("failed to index product")
			}
		}
	}

	// 4. Inventory: Rosita carries everything, Don Pedro a cheaper subset
	prices := []float64{2.50, 2.00, 7.50, 8.00, 4.50, 6.00, 4.20, 0.50, 8.50, 9.90}
	for i, product := range products {
		offer := &entities.StoreOffer{
			StoreID:       stores[0].id,
			ProductID:     product.ID,
			Price:         prices[i],
			StockQuantity: 24,
			IsAvailable:   true,
		}
		if err := inventory.Create(ctx, offer); err != nil {
			log.Warn().Err(err).Str("product", product.Name).Msg("failed to stock product")
		}

		if i%2 == 0 {
			offer := &entities.StoreOffer{
				StoreID:       stores[1].id,
				ProductID:     product.ID,
				Price:         prices[i] - 0.20,
				StockQuantity: 12,
				IsAvailable:   true,
			}
			if err := inventory.Create(ctx, offer); err != nil {
				log.Warn().Err(err).Str("product", product.Name).Msg("failed to stock product")
			}
		}
	}

	var productCount int
	if err := pgClient.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM master_products").Scan(&productCount); err == nil {
		log.Info().Int("products", productCount).Msg("seeding complete")
	} else {
		log.Info().Msg("seeding complete")
	}
}
