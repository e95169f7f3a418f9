package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/api"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/cloudsql"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/config"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/database"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/forecast"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/logging"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/metrics"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/prediction"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/recommend"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/scheduler"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/server"
	"github.com/joho/godotenv"
	"log/slog"
)

func main() {
	// Best-effort .env load for local development; production uses real env.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting materials store engine service")

	// Connect to database (supports both local DATABASE_URL and Cloud SQL)
	dbURL, err := cloudsql.BuildDatabaseURL()
	if err != nil {
		logger.Error("failed to build database URL", "error", err)
		os.Exit(1)
	}

	logger.Info("database connection resolved", "config", cloudsql.ConnectionInfo())

	dbConfig := database.DefaultConfig()
	dbConfig.URL = dbURL

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, dbConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := database.RunMigrations(db, migrationsDir, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	collector, err := metrics.NewCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	// Repositories
	orderRepo := database.NewOrderRepository(db)
	productRepo := database.NewProductRepository(db)
	predictionRepo := database.NewPredictionRepository(db)

	// Forecasting engine and prediction service
	forecastEngine := forecast.NewEngine(forecast.DefaultConfig(), logger)
	predictionService := prediction.NewService(orderRepo, predictionRepo, forecastEngine, logger)

	// Recommendation engine and service
	recommendStore := struct {
		*database.OrderRepository
		*database.ProductRepository
	}{orderRepo, productRepo}

	recommendCfg := recommend.DefaultConfig()
	recommendCfg.MLWeight = cfg.Recommend.MLWeight
	recommendCfg.RuleWeight = cfg.Recommend.RuleWeight

	recommendEngine := recommend.NewEngine(recommendStore, recommendCfg, logger)
	recommendService := recommend.NewService(recommendEngine, productRepo, recommendCfg, logger)
	recommendService.SetFallbackObserver(collector)

	// Routes
	mux := http.NewServeMux()
	api.SetupRoutes(mux, db, predictionService, predictionRepo, recommendService, collector, logger)

	// Background retraining keeps recommendation scores fresh; the engine
	// itself only retrains lazily or on explicit request.
	if cfg.Scheduler.RetrainEnabled {
		retrain := scheduler.NewRetrainScheduler(recommendEngine, collector, cfg.Scheduler.RetrainInterval, logger)
		go retrain.Start(ctx)
		defer retrain.Stop()
	}

	srv := server.New(cfg.Server, logger, collector.InstrumentHandler(mux))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx := context.Background()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
