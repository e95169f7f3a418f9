package api

import (
	"net/http"
	"strings"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
)

// ProductsHandler dispatches GET /api/products/{id}/prediction,
// /api/products/{id}/predictions and /api/products/{id}/similar.
func (h *Handler) ProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Path shape: /api/products/{id}/{action}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	productID := parts[2]
	if productID == "" {
		http.Error(w, "Product ID required", http.StatusBadRequest)
		return
	}

	switch parts[3] {
	case "prediction":
		h.predictDemand(w, r, productID)
	case "predictions":
		h.predictionHistory(w, r, productID)
	case "similar":
		h.similarProducts(w, r, productID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *Handler) predictDemand(w http.ResponseWriter, r *http.Request, productID string) {
	timeframe, err := models.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		http.Error(w, "Invalid timeframe: must be week, month or quarter", http.StatusBadRequest)
		return
	}

	result := h.predictions.Predict(r.Context(), productID, timeframe)
	if result == nil {
		// Store failure; the caller gets a neutral "nothing available".
		writeJSON(w, http.StatusOK, map[string]interface{}{"prediction": nil})
		return
	}

	if h.collector != nil {
		h.collector.ObservePrediction(string(timeframe))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"prediction": result})
}

func (h *Handler) predictionHistory(w http.ResponseWriter, r *http.Request, productID string) {
	limit := parseLimit(r, defaultHistoryLimit)

	predictions, err := h.predictionRepo.RecentPredictions(r.Context(), productID, limit)
	if err != nil {
		h.logger.Error("failed to load prediction history", "product_id", productID, "error", err)
		writeJSON(w, http.StatusOK, map[string]interface{}{"predictions": []models.PredictionResult{}})
		return
	}

	if predictions == nil {
		predictions = []models.PredictionResult{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"predictions": predictions})
}

func (h *Handler) similarProducts(w http.ResponseWriter, r *http.Request, productID string) {
	limit := parseLimit(r, defaultRecommendLimit)

	products := h.recommendations.ForProduct(r.Context(), productID, limit)
	if products == nil {
		products = []models.RecommendedProduct{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product_id":      productID,
		"recommendations": products,
		"count":           len(products),
	})
}
