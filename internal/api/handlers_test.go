package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/forecast"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/prediction"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/recommend"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixtureStore serves a small fixed marketplace: cement and sand bought
// together eight times, cement the most popular product.
type fixtureStore struct{}

func (fixtureStore) FulfilledOrders(ctx context.Context) ([]models.Order, error) {
	orders := make([]models.Order, 8)
	for i := range orders {
		orders[i] = models.Order{
			ID:     string(rune('a' + i)),
			Status: models.OrderStatusDelivered,
			Items: []models.OrderItem{
				{ProductID: "cement", Quantity: 2},
				{ProductID: "sand", Quantity: 1},
			},
		}
	}
	return orders, nil
}

func (fixtureStore) ProductActivitySince(ctx context.Context, since time.Time) ([]models.ProductActivity, error) {
	return []models.ProductActivity{
		{ProductID: "cement", OrderCount: 8, TotalQuantity: 16},
		{ProductID: "sand", OrderCount: 8, TotalQuantity: 8},
	}, nil
}

func (fixtureStore) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	return []models.Product{
		{ID: "cement", CategoryID: "cat-basic", Active: true},
		{ID: "sand", CategoryID: "cat-aggregate", Active: true},
	}, nil
}

func (fixtureStore) CustomerRecentOrders(ctx context.Context, customerID string, limit int) ([]models.Order, error) {
	if customerID != "builder-1" {
		return nil, nil
	}
	return []models.Order{{
		ID:     "o1",
		Status: models.OrderStatusDelivered,
		Items:  []models.OrderItem{{ProductID: "cement", Quantity: 5}},
	}}, nil
}

type fixtureCatalog struct{}

func (fixtureCatalog) ProductsByID(ctx context.Context, ids []string) (map[string]models.Product, error) {
	all := map[string]models.Product{
		"cement": {ID: "cement", Name: "Portland Cement", Active: true},
		"sand":   {ID: "sand", Name: "River Sand", Active: true},
	}
	result := make(map[string]models.Product, len(ids))
	for _, id := range ids {
		if p, ok := all[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

type fixtureHistory struct{}

func (fixtureHistory) DailyDemandSeries(ctx context.Context, productID string, days int) ([]models.SeriesPoint, error) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	values := []float64{5, 7, 6, 8, 7}
	series := make([]models.SeriesPoint, len(values))
	for i, v := range values {
		series[i] = models.SeriesPoint{Date: base.AddDate(0, 0, i), Value: v}
	}
	return series, nil
}

func newTestHandler() *Handler {
	logger := testLogger()
	cfg := recommend.DefaultConfig()
	engine := recommend.NewEngine(fixtureStore{}, cfg, logger)
	recommendations := recommend.NewService(engine, fixtureCatalog{}, cfg, logger)

	forecaster := forecast.NewEngine(forecast.DefaultConfig(), logger)
	predictions := prediction.NewService(fixtureHistory{}, nil, forecaster, logger)

	return &Handler{
		predictions:     predictions,
		recommendations: recommendations,
		logger:          logger,
		startTime:       time.Now(),
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestProductsHandlerSimilar(t *testing.T) {
	handler := newTestHandler()

	r := httptest.NewRequest("GET", "/api/products/cement/similar", nil)
	w := httptest.NewRecorder()
	handler.ProductsHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	if body["product_id"] != "cement" {
		t.Errorf("product_id = %v, want cement", body["product_id"])
	}
	recs, ok := body["recommendations"].([]interface{})
	if !ok || len(recs) == 0 {
		t.Fatalf("recommendations = %v, want non-empty list", body["recommendations"])
	}

	top := recs[0].(map[string]interface{})
	product := top["product"].(map[string]interface{})
	if product["name"] != "River Sand" {
		t.Errorf("top recommendation = %v, want River Sand", product["name"])
	}
}

func TestProductsHandlerPrediction(t *testing.T) {
	handler := newTestHandler()

	r := httptest.NewRequest("GET", "/api/products/cement/prediction?timeframe=month", nil)
	w := httptest.NewRecorder()
	handler.ProductsHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	pred, ok := body["prediction"].(map[string]interface{})
	if !ok {
		t.Fatalf("prediction = %v, want object", body["prediction"])
	}
	if pred["timeframe"] != "MONTH" {
		t.Errorf("timeframe = %v, want MONTH", pred["timeframe"])
	}

	forecastObj := pred["forecast"].(map[string]interface{})
	demand := forecastObj["predicted_demand"].(float64)
	if demand < 5 || demand > 10 {
		t.Errorf("predicted_demand = %v, want within [5, 10]", demand)
	}
}

func TestProductsHandlerInvalidTimeframe(t *testing.T) {
	handler := newTestHandler()

	r := httptest.NewRequest("GET", "/api/products/cement/prediction?timeframe=decade", nil)
	w := httptest.NewRecorder()
	handler.ProductsHandler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestProductsHandlerRouting(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{"unknown action", "GET", "/api/products/cement/reviews", http.StatusNotFound},
		{"missing action", "GET", "/api/products/cement", http.StatusNotFound},
		{"wrong method", "POST", "/api/products/cement/similar", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			handler.ProductsHandler(w, r)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestPopularProductsHandler(t *testing.T) {
	handler := newTestHandler()

	r := httptest.NewRequest("GET", "/api/products/popular?limit=1", nil)
	w := httptest.NewRecorder()
	handler.PopularProductsHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	if count := body["count"].(float64); count != 1 {
		t.Errorf("count = %v, want 1", count)
	}
}

func TestCustomerRecommendationsHandler(t *testing.T) {
	handler := newTestHandler()

	r := httptest.NewRequest("GET", "/api/customers/builder-1/recommendations", nil)
	w := httptest.NewRecorder()
	handler.CustomerRecommendationsHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	if body["customer_id"] != "builder-1" {
		t.Errorf("customer_id = %v, want builder-1", body["customer_id"])
	}
	recs := body["recommendations"].([]interface{})
	if len(recs) == 0 {
		t.Fatal("want recommendations for a customer with history")
	}

	// builder-1 bought cement; sand is its co-purchase partner.
	top := recs[0].(map[string]interface{})
	product := top["product"].(map[string]interface{})
	if product["id"] != "sand" {
		t.Errorf("top recommendation = %v, want sand", product["id"])
	}
}

func TestCustomerRecommendationsHandlerBadPath(t *testing.T) {
	handler := newTestHandler()

	r := httptest.NewRequest("GET", "/api/customers/builder-1/orders", nil)
	w := httptest.NewRecorder()
	handler.CustomerRecommendationsHandler(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestFrequentlyBoughtTogetherHandler(t *testing.T) {
	handler := newTestHandler()

	payload, _ := json.Marshal(FrequentlyBoughtTogetherRequest{ProductIDs: []string{"cement"}})
	r := httptest.NewRequest("POST", "/api/recommendations/frequently-bought-together", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	handler.FrequentlyBoughtTogetherHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	recs := body["recommendations"].([]interface{})
	if len(recs) != 1 {
		t.Fatalf("len(recommendations) = %d, want 1", len(recs))
	}
	top := recs[0].(map[string]interface{})
	product := top["product"].(map[string]interface{})
	if product["id"] != "sand" {
		t.Errorf("suggestion = %v, want sand", product["id"])
	}
}

func TestFrequentlyBoughtTogetherHandlerRejectsBadRequests(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", "{"},
		{"empty cart", `{"product_ids": []}`},
		{"blank id", `{"product_ids": [""]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/recommendations/frequently-bought-together", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			handler.FrequentlyBoughtTogetherHandler(w, r)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}

	r := httptest.NewRequest("GET", "/api/recommendations/frequently-bought-together", nil)
	w := httptest.NewRecorder()
	handler.FrequentlyBoughtTogetherHandler(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", w.Code)
	}
}

func TestTrainHandler(t *testing.T) {
	handler := newTestHandler()

	r := httptest.NewRequest("POST", "/api/admin/recommendations/train", nil)
	w := httptest.NewRecorder()
	handler.TrainHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	stats := body["stats"].(map[string]interface{})
	if stats["orders"].(float64) != 8 {
		t.Errorf("stats.orders = %v, want 8", stats["orders"])
	}
}
