package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"shopsim/app/echo-server/metrics"
	"shopsim/app/echo-server/router"
	"shopsim/business/catalog"
	"shopsim/business/goal"
	"shopsim/business/reward"
	"shopsim/business/simulation"
	"shopsim/internal/middleware"
	fileRepo "shopsim/internal/repository/file"
	psqlRepo "shopsim/internal/repository/postgres"
	"shopsim/internal/rest"
	"shopsim/internal/search/bleveindex"
	"shopsim/pkg/config"
	"shopsim/pkg/database"
	"shopsim/pkg/logger"
	"shopsim/pkg/utils"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting shopping simulation", "version", cfg.App.Version)

	utils.InitJWT(cfg.Auth.JWTSecret)
	metrics.Init()

	// Catalog source
	var catalogRepo catalog.CatalogRepository
	switch cfg.Catalog.Source {
	case "postgres":
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		logger.Info("Database connected successfully")
		catalogRepo = psqlRepo.NewCatalogRepository(db)
	default:
		catalogRepo = fileRepo.NewCatalogRepository(cfg.Catalog.Path)
	}

	// Load the catalog once; everything downstream reads from memory.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelLoad()

	catalogService := catalog.NewCatalogService(catalogRepo, catalog.Config{
		Limit:        cfg.Catalog.Limit,
		DefaultPrice: cfg.Catalog.DefaultPrice,
		Seed:         cfg.Catalog.Seed,
	})
	if err := catalogService.Load(loadCtx); err != nil {
		logger.Fatal("Failed to load catalog", "error", err)
	}

	searchIndex, err := bleveindex.New(catalogService.Products(), cfg.Search.Timeout)
	if err != nil {
		logger.Fatal("Failed to build search index", "error", err)
	}
	defer searchIndex.Close()

	goalService := goal.NewGoalService(goal.Config{
		Strategy: cfg.Goal.Strategy,
		Limit:    cfg.Goal.Limit,
		Seed:     cfg.Goal.Seed,
	})
	if err := goalService.Generate(catalogService.Products()); err != nil {
		logger.Fatal("Failed to generate goals", "error", err)
	}

	sampler := goal.NewSampler(goalService.Goals())

	rewardCfg := reward.DefaultConfig()
	rewardCfg.FuzzyThreshold = cfg.Reward.FuzzyThreshold
	rewardCfg.TitleScoreLow = cfg.Reward.TitleScoreLow
	rewardCfg.TitleScoreMatch = cfg.Reward.TitleScoreMatch
	rewarder := reward.NewRewardService(rewardCfg)

	completionCoder := simulation.NewCompletionCoder(cfg.Auth.CompletionCodeKey)

	simSeed := cfg.Sim.Seed
	if simSeed == 0 {
		simSeed = time.Now().UnixNano()
	}

	simulationService := simulation.NewSimulationService(
		searchIndex,
		catalogService,
		goalService,
		sampler,
		rewarder,
		completionCoder,
		simulation.Config{
			TopN:      cfg.Search.TopN,
			PageSize:  cfg.Search.PageSize,
			ShowAttrs: cfg.Sim.ShowAttrs,
		},
		simSeed,
	)

	// Init handler
	simulationHandler := rest.NewSimulationHandler(simulationService)
	catalogHandler := rest.NewCatalogHandler(catalogService, searchIndex, goalService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupSessionRoutes(api, simulationHandler)
	router.SetupCatalogRoutes(api, catalogHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

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

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}
