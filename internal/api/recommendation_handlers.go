package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
)

// PopularProductsHandler handles GET /api/products/popular
func (h *Handler) PopularProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := parseLimit(r, defaultRecommendLimit)

	products := h.recommendations.Popular(r.Context(), limit)
	if products == nil {
		products = []models.RecommendedProduct{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": products,
		"count":           len(products),
	})
}

// CustomerRecommendationsHandler handles GET /api/customers/{id}/recommendations
func (h *Handler) CustomerRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Path shape: /api/customers/{id}/recommendations
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[3] != "recommendations" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	customerID := parts[2]
	if customerID == "" {
		http.Error(w, "Customer ID required", http.StatusBadRequest)
		return
	}

	limit := parseLimit(r, defaultRecommendLimit)

	products := h.recommendations.ForCustomer(r.Context(), customerID, limit)
	if products == nil {
		products = []models.RecommendedProduct{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"customer_id":     customerID,
		"recommendations": products,
		"count":           len(products),
	})
}

// FrequentlyBoughtTogetherRequest is the cart payload for bundle suggestions.
type FrequentlyBoughtTogetherRequest struct {
	ProductIDs []string `json:"product_ids"`
	Limit      int      `json:"limit"`
}

// FrequentlyBoughtTogetherHandler handles POST /api/recommendations/frequently-bought-together
func (h *Handler) FrequentlyBoughtTogetherHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req FrequentlyBoughtTogetherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := ValidateCartRequest(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultRecommendLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	products := h.recommendations.ForCart(r.Context(), req.ProductIDs, limit)
	if products == nil {
		products = []models.RecommendedProduct{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": products,
		"count":           len(products),
	})
}

// TrainHandler handles POST /api/admin/recommendations/train
func (h *Handler) TrainHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.recommendations.Train(r.Context())
	if err != nil {
		h.logger.Error("explicit train failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "training failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}
