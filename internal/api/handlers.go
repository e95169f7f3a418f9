// Package api exposes the prediction and recommendation services over HTTP.
// Handlers return either a usable result or a neutral empty payload; internal
// failures never surface as raw errors to the storefront.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/database"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/metrics"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/prediction"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/recommend"
	"log/slog"
)

// Handler serves the health, stats, prediction and recommendation endpoints.
type Handler struct {
	db              *sql.DB
	predictions     *prediction.Service
	predictionRepo  *database.PredictionRepository
	recommendations *recommend.Service
	collector       *metrics.Collector
	logger          *slog.Logger
	startTime       time.Time
}

// NewHandler constructs the API handler set.
func NewHandler(db *sql.DB, predictions *prediction.Service, predictionRepo *database.PredictionRepository, recommendations *recommend.Service, collector *metrics.Collector, logger *slog.Logger) *Handler {
	return &Handler{
		db:              db,
		predictions:     predictions,
		predictionRepo:  predictionRepo,
		recommendations: recommendations,
		collector:       collector,
		logger:          logger,
		startTime:       time.Now(),
	}
}

// HealthHandler handles GET /health
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK

	if err := database.HealthCheck(r.Context(), h.db); err != nil {
		h.logger.Error("health check failed", "error", err)
		status = "degraded"
		dbStatus = "unavailable"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":   status,
		"database": dbStatus,
		"uptime":   time.Since(h.startTime).String(),
	})
}

// StatsHandler handles GET /api/stats
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"uptime":                     time.Since(h.startTime).String(),
		"database":                   database.Stats(h.db),
		"recommendations_trained_at": h.recommendations.LastTrainedAt(),
	})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*") // CORS for dev
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
