package models

import (
	"fmt"
	"strings"
	"time"
)

// Timeframe selects the horizon a demand prediction covers.
type Timeframe string

const (
	TimeframeWeek    Timeframe = "WEEK"
	TimeframeMonth   Timeframe = "MONTH"
	TimeframeQuarter Timeframe = "QUARTER"
)

// ParseTimeframe normalizes a caller-supplied timeframe string.
func ParseTimeframe(raw string) (Timeframe, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "WEEK":
		return TimeframeWeek, nil
	case "MONTH", "":
		return TimeframeMonth, nil
	case "QUARTER":
		return TimeframeQuarter, nil
	default:
		return "", fmt.Errorf("unknown timeframe: %s", raw)
	}
}

// HorizonDays returns the number of days the timeframe spans.
func (t Timeframe) HorizonDays() int {
	switch t {
	case TimeframeWeek:
		return 7
	case TimeframeQuarter:
		return 90
	default:
		return 30
	}
}

// HistoryDays returns how many trailing days of demand history to fetch when
// forecasting for the timeframe.
func (t Timeframe) HistoryDays() int {
	switch t {
	case TimeframeWeek:
		return 30
	case TimeframeQuarter:
		return 180
	default:
		return 90
	}
}

// PredictionResult is a persisted demand prediction for a product.
type PredictionResult struct {
	ID             string         `json:"id"`
	ProductID      string         `json:"product_id"`
	Timeframe      Timeframe      `json:"timeframe"`
	Forecast       ForecastResult `json:"forecast"`
	EstimatedTotal float64        `json:"estimated_total"` // daily demand x horizon days
	HistoryPoints  int            `json:"history_points"`
	GeneratedAt    time.Time      `json:"generated_at"`
}
