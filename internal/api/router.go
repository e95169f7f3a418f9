package api

import (
	"database/sql"
	"net/http"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/database"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/metrics"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/prediction"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/recommend"
	"log/slog"
)

// SetupRoutes configures all API routes on the mux.
func SetupRoutes(mux *http.ServeMux, db *sql.DB, predictions *prediction.Service, predictionRepo *database.PredictionRepository, recommendations *recommend.Service, collector *metrics.Collector, logger *slog.Logger) {
	handler := NewHandler(db, predictions, predictionRepo, recommendations, collector, logger)

	mux.HandleFunc("/health", handler.HealthHandler)
	mux.HandleFunc("/api/stats", handler.StatsHandler)

	// The exact popular path takes precedence over the products prefix.
	mux.HandleFunc("/api/products/popular", handler.PopularProductsHandler)
	mux.HandleFunc("/api/products/", handler.ProductsHandler)

	mux.HandleFunc("/api/customers/", handler.CustomerRecommendationsHandler)
	mux.HandleFunc("/api/recommendations/frequently-bought-together", handler.FrequentlyBoughtTogetherHandler)
	mux.HandleFunc("/api/admin/recommendations/train", handler.TrainHandler)

	if collector != nil {
		mux.Handle("/metrics", collector.Handler())
	}
}
