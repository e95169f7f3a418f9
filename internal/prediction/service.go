// Package prediction is the outward-facing demand prediction service: it
// fetches a product's aggregated order history from the store, runs the
// ensemble forecaster and writes the resulting prediction record back.
package prediction

import (
	"context"
	"log/slog"
	"time"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/forecast"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/stats"
	"github.com/google/uuid"
)

// weeklySeasonalPeriod is the seasonality lag probed for daily demand series.
// Construction-materials orders follow the work week.
const weeklySeasonalPeriod = 7

// HistoryStore fetches a product's historical daily demand, pre-aggregated to
// one point per calendar day and restricted to fulfilled-ish orders.
type HistoryStore interface {
	DailyDemandSeries(ctx context.Context, productID string, days int) ([]models.SeriesPoint, error)
}

// Recorder persists generated predictions. A nil Recorder disables write-back.
type Recorder interface {
	SavePrediction(ctx context.Context, p models.PredictionResult) error
}

// Service produces demand predictions for products.
//
// Predict never surfaces store errors to its caller: a failed history fetch is
// logged and yields a nil result, so API handlers can respond with a neutral
// "no prediction available" instead of an error page.
type Service struct {
	store    HistoryStore
	recorder Recorder
	engine   *forecast.Engine
	logger   *slog.Logger
}

// NewService constructs a prediction Service.
func NewService(store HistoryStore, recorder Recorder, engine *forecast.Engine, logger *slog.Logger) *Service {
	return &Service{store: store, recorder: recorder, engine: engine, logger: logger}
}

// Predict forecasts the product's demand for the given timeframe. The engine
// predicts the next day's demand from the timeframe's trailing history window;
// the estimated total scales that over the timeframe's horizon.
func (s *Service) Predict(ctx context.Context, productID string, timeframe models.Timeframe) *models.PredictionResult {
	series, err := s.store.DailyDemandSeries(ctx, productID, timeframe.HistoryDays())
	if err != nil {
		s.logger.Error("failed to fetch demand history",
			"product_id", productID,
			"timeframe", timeframe,
			"error", err)
		return nil
	}

	result := s.engine.Forecast(series, 1, weeklySeasonalPeriod)

	prediction := models.PredictionResult{
		ID:             uuid.New().String(),
		ProductID:      productID,
		Timeframe:      timeframe,
		Forecast:       result,
		EstimatedTotal: stats.Round1(result.PredictedDemand * float64(timeframe.HorizonDays())),
		HistoryPoints:  len(series),
		GeneratedAt:    time.Now(),
	}

	if s.recorder != nil {
		if err := s.recorder.SavePrediction(ctx, prediction); err != nil {
			// Persistence is best-effort; the caller still gets the result.
			s.logger.Error("failed to persist prediction",
				"prediction_id", prediction.ID,
				"product_id", productID,
				"error", err)
		}
	}

	s.logger.Info("demand prediction generated",
		"product_id", productID,
		"timeframe", timeframe,
		"predicted_demand", result.PredictedDemand,
		"estimated_total", prediction.EstimatedTotal,
		"confidence", result.Confidence,
		"history_points", len(series))

	return &prediction
}
