package models

import (
	"time"
)

// SeriesPoint is a single daily observation of demand for a product.
// Callers pre-aggregate duplicate dates before handing a series to an engine.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"` // non-negative quantity
}

// Trend classifies the overall direction of a series.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Seasonality classifies the strength of periodic repetition in a series.
type Seasonality string

const (
	SeasonalityNone   Seasonality = "none"
	SeasonalityLow    Seasonality = "low"
	SeasonalityMedium Seasonality = "medium"
	SeasonalityHigh   Seasonality = "high"
)

// MethodForecast is one ensemble member's contribution.
type MethodForecast struct {
	Method     string  `json:"method"`
	Prediction float64 `json:"prediction"`
	Weight     float64 `json:"weight"` // normalized, breakdown weights sum to 1
}

// ForecastResult is the output of the ensemble forecasting engine.
type ForecastResult struct {
	PredictedDemand float64          `json:"predicted_demand"` // >= 0, rounded to 1 decimal
	Confidence      float64          `json:"confidence"`       // in [0, 1]
	Trend           Trend            `json:"trend"`
	Seasonality     Seasonality      `json:"seasonality"`
	Reasoning       string           `json:"reasoning"`
	MethodBreakdown []MethodForecast `json:"method_breakdown"`
}
