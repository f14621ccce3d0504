package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myGreenCart/app/echo-server/router"
	"myGreenCart/business/recommendation"
	"myGreenCart/internal/middleware"
	"myGreenCart/internal/repository/availability"
	"myGreenCart/internal/repository/memory"
	psqlRepo "myGreenCart/internal/repository/postgres"
	"myGreenCart/internal/repository/queue"
	redisRepo "myGreenCart/internal/repository/redis"
	"myGreenCart/internal/rest"
	"myGreenCart/pkg/config"
	"myGreenCart/pkg/database"
	redisClient "myGreenCart/pkg/database/redis"
	"myGreenCart/pkg/logger"
	"myGreenCart/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
)

const trainingQueueBuffer = 1024

type recommendationCache interface {
	recommendation.TrendingCache
	recommendation.CoPurchaseCache
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting MyGreenCart recommender", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	loc, err := cfg.Recommendation.Location()
	if err != nil {
		logger.Fatal("Invalid RECO_TIMEZONE", "timezone", cfg.Recommendation.Timezone, "error", err)
	}

	// Init cache: redis when enabled and reachable, in-process otherwise
	var rdb *goredis.Client
	var cache recommendationCache = memory.NewRecommendationCache()
	rdb, err = redisClient.NewRedisClient(cfg.Redis)
	switch {
	case errors.Is(err, redisClient.ErrDisabled):
		logger.Info("Redis disabled, using in-process cache")
	case err != nil:
		logger.Warn("Redis unavailable, using in-process cache", "error", err)
	default:
		cache = redisRepo.NewRecommendationCache(rdb, cfg.Recommendation.CoPurchaseTTL)
		logger.Info("Redis connected successfully")
	}

	availabilityClient := availability.NewClient(availability.ClientConfig{
		BaseURL:         cfg.Availability.BaseURL,
		Timeout:         cfg.Availability.Timeout,
		RequestsPerSec:  cfg.Availability.RequestsPerSec,
		BreakerFailures: cfg.Availability.BreakerFailures,
		BreakerTimeout:  cfg.Availability.BreakerTimeout,
	})

	// Init repo
	deps := recommendation.Deps{
		Purchases:    psqlRepo.NewPurchaseRepository(db),
		Rejections:   psqlRepo.NewRejectionRepository(db),
		Favorites:    psqlRepo.NewFavoriteRepository(db),
		Carts:        psqlRepo.NewCartRepository(db),
		Catalog:      psqlRepo.NewProductRepository(db),
		Availability: availabilityClient,
		Trending:     cache,
		CoPurchase:   cache,
		Examples:     psqlRepo.NewTrainingExampleRepository(db),
		Weights:      psqlRepo.NewModelWeightRepository(db),
	}

	// Init service
	recoCfg := recommendation.Config{
		DefaultK:           cfg.Recommendation.DefaultK,
		RecentWindow:       cfg.Recommendation.RecentWindow,
		RejectionRetention: cfg.Recommendation.RejectionRetention,
		CoPurchaseTTL:      cfg.Recommendation.CoPurchaseTTL,
		LearningRate:       cfg.Recommendation.LearningRate,
		Iterations:         cfg.Recommendation.Iterations,
		OnlineUpdates:      cfg.Recommendation.OnlineUpdates,
		OnlineLearningRate: cfg.Recommendation.OnlineLearningRate,
		Location:           loc,
		CountrySuffixes:    cfg.Availability.CountrySuffixes,
		LookupConcurrency:  cfg.Availability.LookupConcurrent,
	}
	recoService := recommendation.NewRecommendationService(deps, recoCfg)

	trainingQueue, err := queue.NewTrainingQueue(trainingQueueBuffer)
	if err != nil {
		logger.Fatal("Failed to start training queue", "error", err)
	}
	recorder := recommendation.NewRecorder(recoService, deps, trainingQueue)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := trainingQueue.Consume(bgCtx, recorder); err != nil && bgCtx.Err() == nil {
			logger.Error("Training queue consumer stopped", "error", err)
		}
	}()
	go recommendation.RunRetrainLoop(bgCtx, recoService.Model(), cfg.Recommendation.RetrainInterval)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(recoService)
	cartActionHandler := rest.NewCartActionHandler(recorder)
	modelAdminHandler := rest.NewModelAdminHandler(recoService.Model())

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.HeaderUserID, middleware.HeaderRequestID},
	}))

	// Setup routes
	identity := middleware.UserIdentity()
	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recommendationHandler, identity)
	router.SetCartActionRoutes(api, cartActionHandler, identity)
	router.SetModelAdminRoutes(api, modelAdminHandler)
	router.SetOpsRoutes(e, availabilityClient.State)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	stopBackground()
	<-consumerDone
	if err := trainingQueue.Close(); err != nil {
		logger.Error("Training queue close error", "error", err)
	}
	if err := redisClient.CloseRedisClient(rdb); err != nil {
		logger.Error("Redis close error", "error", err)
	}

	logger.Info("Server stopped")
}
