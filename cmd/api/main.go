package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/keaype/bodega-backend/internal/adapters/cache"
	"github.com/keaype/bodega-backend/internal/adapters/database"
	"github.com/keaype/bodega-backend/internal/adapters/providers/identity"
	"github.com/keaype/bodega-backend/internal/adapters/search"
	"github.com/keaype/bodega-backend/internal/api/handlers"
	"github.com/keaype/bodega-backend/internal/api/middleware"
	"github.com/keaype/bodega-backend/internal/api/routes"
	"github.com/keaype/bodega-backend/internal/application/services"
	"github.com/keaype/bodega-backend/internal/domain/providers"
	"github.com/keaype/bodega-backend/internal/domain/repositories"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/gemini"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/postgres"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/redis"
	"github.com/keaype/bodega-backend/internal/infrastructure/clients/typesense"
	"github.com/keaype/bodega-backend/internal/infrastructure/notifications"
	"github.com/keaype/bodega-backend/internal/infrastructure/observability"
	"github.com/keaype/bodega-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics accumulate in-process even without an exporter endpoint.
	if cfg.OTEL.Enabled {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// The app works without Redis; caching only costs latency when absent.
	var cacheProvider providers.CacheProvider
	if redisClient, err := redis.NewClient(&cfg.Redis); err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// Typesense powers autocomplete only; the SQL catalog is the fallback.
	var productIndex repositories.ProductIndexRepository
	if typesenseClient, err := typesense.NewClient(&cfg.Typesense); err != nil {
		log.Warn().Err(err).Msg("failed to initialize Typesense client, suggest will use the catalog")
	} else {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		productIndex = adapter
		log.Info().Msg("Typesense client initialized")
	}

	userAdapter := database.NewUserAdapter(pgClient)
	storeAdapter := database.NewStoreAdapter(pgClient)
	inventoryAdapter := database.NewInventoryAdapter(pgClient)
	catalogAdapter := database.NewCatalogAdapter(pgClient)
	conversationAdapter := database.NewConversationAdapter(pgClient)
	reservationAdapter := database.NewReservationAdapter(pgClient)

	var registry providers.IdentityProvider
	if cfg.Reniec.Token != "" {
		registry, err = identity.NewAPIPeruProvider(&cfg.Reniec)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize identity provider")
		}
	} else {
		registry = identity.NewMockProvider()
		log.Warn().Msg("no RENIEC token configured, using mock identity provider")
	}

	var notifier providers.NotificationSender
	if sender, err := notifications.NewWhatsAppCloudSender(&cfg.WhatsApp); err != nil {
		notifier = notifications.NewLogSender()
		log.Warn().Err(err).Msg("WhatsApp credentials missing, storekeeper notifications go to the log")
	} else {
		notifier = sender
	}

	oracle, err := gemini.NewClient(&cfg.Gemini)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Gemini client")
	}

	searchService := services.NewSearchService(
		catalogAdapter,
		conversationAdapter,
		oracle,
		oracle,
		cacheProvider,
		cfg.Search.RadiusKm,
	)
	authService := services.NewAuthService(userAdapter, registry)
	inventoryService := services.NewInventoryService(userAdapter, storeAdapter, inventoryAdapter, catalogAdapter, productIndex)
	reservationService := services.NewReservationService(reservationAdapter, userAdapter, storeAdapter, notifier)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	router := routes.NewRouter(
		handlers.NewSearchHandler(searchService),
		handlers.NewAuthHandler(authService),
		handlers.NewStorekeeperHandler(inventoryService),
		handlers.NewReservationHandler(reservationService),
		cacheMiddleware,
		metrics,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
