package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/adapters/cache"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/adapters/database"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/adapters/providers/predictor"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/adapters/providers/trends"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/api/handlers"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/api/routes"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/application/services"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/providers"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/repositories"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/infrastructure/clients/postgres"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/infrastructure/clients/redis"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/infrastructure/observability"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)
	logger := observability.ComponentLogger("api")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("failed to shut down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Initialize Redis client; the service degrades to uncached reads
	// without it
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters
	transactionAdapter := database.NewTransactionAdapter(pgClient)

	baseFeatureAdapter := database.NewFeatureAdapter(pgClient)
	var featureAdapter repositories.FeatureRepository
	if cacheProvider != nil {
		featureAdapter = database.NewCachedFeatureAdapter(baseFeatureAdapter, cacheProvider)
	} else {
		featureAdapter = baseFeatureAdapter
	}

	// Initialize the loyalty predictor
	var loyaltyPredictor providers.LoyaltyPredictor
	switch cfg.Predictor.Provider {
	case "http":
		loyaltyPredictor = predictor.NewHTTPPredictor(cfg.Predictor.URL, cfg.Predictor.APIKey)
		logger.Info().Str("url", cfg.Predictor.URL).Msg("using HTTP model service")
	default:
		loyaltyPredictor = predictor.NewMockPredictor()
		logger.Info().Msg("using mock predictor")
	}

	// Initialize services
	featureService := services.NewFeatureService(transactionAdapter, featureAdapter)

	switch cfg.Trends.Source {
	case "file":
		featureService.SetTrendProvider(trends.NewFileProvider(cfg.Trends.FilePath), cfg.Trends.Keywords)
	case "synthetic":
		featureService.SetTrendProvider(trends.NewSyntheticProvider(), cfg.Trends.Keywords)
	}

	insightService := services.NewInsightService(
		featureAdapter,
		loyaltyPredictor,
		services.NewSegmentationService(),
		services.NewRecommendationService(),
	)

	// Initialize handlers and routes
	customerHandler := handlers.NewCustomerHandler(featureAdapter, transactionAdapter)
	insightHandler := handlers.NewInsightHandler(insightService)

	router := routes.NewRouter(customerHandler, insightHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
}
