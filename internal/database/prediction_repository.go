package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
)

// PredictionRepository persists generated demand predictions so dashboards can
// show past forecasts alongside actual demand.
type PredictionRepository struct {
	db *sql.DB
}

// NewPredictionRepository creates a new prediction repository.
func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// SavePrediction inserts a prediction record. The per-method breakdown is
// stored as JSONB.
func (r *PredictionRepository) SavePrediction(ctx context.Context, p models.PredictionResult) error {
	breakdown, err := json.Marshal(p.Forecast.MethodBreakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal method breakdown: %w", err)
	}

	query := `
		INSERT INTO demand_predictions
			(id, product_id, timeframe, predicted_demand, estimated_total, confidence,
			 trend, seasonality, reasoning, method_breakdown, history_points, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.ProductID, string(p.Timeframe),
		p.Forecast.PredictedDemand, p.EstimatedTotal, p.Forecast.Confidence,
		string(p.Forecast.Trend), string(p.Forecast.Seasonality), p.Forecast.Reasoning,
		breakdown, p.HistoryPoints, p.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// RecentPredictions returns the most recent predictions for a product, newest
// first.
func (r *PredictionRepository) RecentPredictions(ctx context.Context, productID string, limit int) ([]models.PredictionResult, error) {
	query := `
		SELECT id, product_id, timeframe, predicted_demand, estimated_total, confidence,
		       trend, seasonality, reasoning, method_breakdown, history_points, generated_at
		FROM demand_predictions
		WHERE product_id = $1
		ORDER BY generated_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []models.PredictionResult
	for rows.Next() {
		var (
			p         models.PredictionResult
			breakdown []byte
		)
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Timeframe,
			&p.Forecast.PredictedDemand, &p.EstimatedTotal, &p.Forecast.Confidence,
			&p.Forecast.Trend, &p.Forecast.Seasonality, &p.Forecast.Reasoning,
			&breakdown, &p.HistoryPoints, &p.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		if len(breakdown) > 0 {
			if err := json.Unmarshal(breakdown, &p.Forecast.MethodBreakdown); err != nil {
				return nil, fmt.Errorf("failed to unmarshal method breakdown: %w", err)
			}
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}
