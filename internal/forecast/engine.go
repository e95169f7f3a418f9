// Package forecast implements the in-process ensemble demand forecaster: six
// classical time-series methods combined via an adaptive weighted average.
// It replaces the external LLM-based prediction service the storefront used
// previously; everything here is computed locally from order history.
package forecast

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/stats"
)

// Ensemble method names as reported in the forecast breakdown.
const (
	MethodSMA         = "simple_moving_average"
	MethodEMA         = "exponential_moving_average"
	MethodLinear      = "linear_regression"
	MethodHolt        = "holt"
	MethodHoltWinters = "holt_winters"
	MethodWeighted    = "weighted_recent_average"
)

// Config holds the ensemble tunables. The defaults are heuristics, not
// calibrated values; they can be overridden through environment configuration.
type Config struct {
	// Smoothing parameters shared by EMA, Holt and Holt-Winters.
	Alpha float64
	Beta  float64
	Gamma float64

	// RecentRatio is the geometric growth factor for the weighted recent
	// average; each later point counts RecentRatio times more.
	RecentRatio float64

	// Base ensemble weights per method, re-normalized after trend adjustment.
	WeightSMA         float64
	WeightEMA         float64
	WeightLinear      float64
	WeightHolt        float64
	WeightHoltWinters float64
	WeightRecent      float64

	// TrendThreshold is the relative half-to-half mean change beyond which a
	// series is classified as increasing or decreasing.
	TrendThreshold float64

	// SeasonalityThreshold is the autocorrelation above which a series is
	// considered seasonal at the requested period.
	SeasonalityThreshold float64

	// Confidence clamp bounds.
	MinConfidence float64
	MaxConfidence float64
}

// DefaultConfig returns the ensemble defaults.
func DefaultConfig() Config {
	return Config{
		Alpha:                0.3,
		Beta:                 0.1,
		Gamma:                0.2,
		RecentRatio:          1.5,
		WeightSMA:            0.3,
		WeightEMA:            0.2,
		WeightLinear:         0.25,
		WeightHolt:           0.2,
		WeightHoltWinters:    0.25,
		WeightRecent:         0.15,
		TrendThreshold:       0.10,
		SeasonalityThreshold: 0.5,
		MinConfidence:        0.3,
		MaxConfidence:        0.95,
	}
}

// minPoints is the series length below which the engine returns a degraded
// result instead of running the ensemble.
const minPoints = 3

// holtMinPoints is the series length required for double exponential smoothing.
const holtMinPoints = 5

// Engine is the ensemble forecaster. It is stateless and safe for concurrent
// use; each call works on a private sorted copy of its input.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// NewEngine constructs an Engine with the given tunables.
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

// Forecast produces a demand prediction periodsAhead steps past the end of the
// series, probing for seasonality at seasonalPeriod. The input series does not
// need to be sorted and is never mutated. Forecast never fails: series with
// fewer than 3 points yield a degraded result with low confidence.
func (e *Engine) Forecast(series []models.SeriesPoint, periodsAhead, seasonalPeriod int) models.ForecastResult {
	if periodsAhead < 1 {
		periodsAhead = 1
	}

	if len(series) < minPoints {
		return models.ForecastResult{
			PredictedDemand: 0,
			Confidence:      e.cfg.MinConfidence,
			Trend:           models.TrendStable,
			Seasonality:     models.SeasonalityNone,
			Reasoning: fmt.Sprintf("insufficient history: need at least %d data points, got %d",
				minPoints, len(series)),
		}
	}

	values := sortedValues(series)

	trend := e.detectTrend(values)
	autocorr := 0.0
	if seasonalPeriod >= 2 {
		autocorr = stats.Autocorrelation(values, seasonalPeriod)
	}
	seasonal := autocorr > e.cfg.SeasonalityThreshold
	seasonality := e.classifySeasonality(autocorr)

	breakdown := e.runMethods(values, periodsAhead, seasonalPeriod, trend, seasonal)

	var demand float64
	predictions := make([]float64, 0, len(breakdown))
	for _, m := range breakdown {
		demand += m.Prediction * m.Weight
		predictions = append(predictions, m.Prediction)
	}
	if demand < 0 {
		demand = 0
	}
	demand = stats.Round1(demand)

	// Confidence reflects how much the ensemble members agree with each
	// other, not how noisy the input data is.
	cv := stats.CoefficientOfVariation(predictions)
	confidence := stats.Clamp(1-cv, e.cfg.MinConfidence, e.cfg.MaxConfidence)

	result := models.ForecastResult{
		PredictedDemand: demand,
		Confidence:      confidence,
		Trend:           trend,
		Seasonality:     seasonality,
		Reasoning: fmt.Sprintf(
			"ensemble of %d methods over %d observations: trend %s, seasonality %s (autocorrelation %.2f at period %d), method disagreement cv %.2f",
			len(breakdown), len(values), trend, seasonality, autocorr, seasonalPeriod, cv),
		MethodBreakdown: breakdown,
	}

	if e.logger != nil {
		e.logger.Debug("forecast computed",
			"points", len(values),
			"periods_ahead", periodsAhead,
			"predicted_demand", demand,
			"confidence", confidence,
			"trend", trend,
			"seasonality", seasonality,
			"methods", len(breakdown))
	}

	return result
}

// runMethods computes every eligible ensemble member and assigns normalized
// weights based on the detected series characteristics.
func (e *Engine) runMethods(values []float64, periodsAhead, seasonalPeriod int, trend models.Trend, seasonal bool) []models.MethodForecast {
	n := len(values)

	type member struct {
		name       string
		prediction float64
		weight     float64
	}

	smaWindow := n / 2
	if smaWindow > 7 {
		smaWindow = 7
	}
	if smaWindow < 1 {
		smaWindow = 1
	}

	fit := stats.FitLinear(values)

	members := []member{
		{MethodSMA, stats.SimpleMovingAverage(values, smaWindow), e.cfg.WeightSMA},
		{MethodEMA, stats.ExponentialMovingAverage(values, e.cfg.Alpha), e.cfg.WeightEMA},
		{MethodLinear, fit.At(float64(n - 1 + periodsAhead)), e.cfg.WeightLinear},
	}

	if n >= holtMinPoints {
		members = append(members, member{
			MethodHolt,
			stats.Holt(values, e.cfg.Alpha, e.cfg.Beta, periodsAhead),
			e.cfg.WeightHolt,
		})
	}

	if seasonal && seasonalPeriod >= 2 && n >= 2*seasonalPeriod {
		members = append(members, member{
			MethodHoltWinters,
			stats.HoltWinters(values, e.cfg.Alpha, e.cfg.Beta, e.cfg.Gamma, seasonalPeriod, periodsAhead),
			e.cfg.WeightHoltWinters,
		})
	}

	members = append(members, member{
		MethodWeighted,
		stats.WeightedRecentAverage(values, e.cfg.RecentRatio),
		e.cfg.WeightRecent,
	})

	// Trend-adaptive weighting: a stable series favors the plain moving
	// average, a trending one favors the extrapolating regression.
	for i := range members {
		switch members[i].name {
		case MethodSMA:
			if trend == models.TrendStable {
				members[i].weight *= 1.5
			} else {
				members[i].weight *= 0.5
			}
		case MethodLinear:
			if trend != models.TrendStable {
				members[i].weight *= 1.5
			}
		}
	}

	var totalWeight float64
	for _, m := range members {
		totalWeight += m.weight
	}

	breakdown := make([]models.MethodForecast, 0, len(members))
	for _, m := range members {
		prediction := m.prediction
		if prediction < 0 {
			prediction = 0
		}
		breakdown = append(breakdown, models.MethodForecast{
			Method:     m.name,
			Prediction: stats.Round1(prediction),
			Weight:     m.weight / totalWeight,
		})
	}

	return breakdown
}

// detectTrend compares the means of the first and second half of the series.
// This is a single-pass heuristic, not a statistical test.
func (e *Engine) detectTrend(values []float64) models.Trend {
	mid := len(values) / 2
	firstMean := stats.Mean(values[:mid])
	secondMean := stats.Mean(values[mid:])

	if firstMean == 0 {
		if secondMean > 0 {
			return models.TrendIncreasing
		}
		return models.TrendStable
	}

	change := (secondMean - firstMean) / firstMean
	switch {
	case change > e.cfg.TrendThreshold:
		return models.TrendIncreasing
	case change < -e.cfg.TrendThreshold:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

func (e *Engine) classifySeasonality(autocorr float64) models.Seasonality {
	threshold := e.cfg.SeasonalityThreshold
	switch {
	case autocorr <= threshold:
		return models.SeasonalityNone
	case autocorr <= threshold+0.15:
		return models.SeasonalityLow
	case autocorr <= threshold+0.30:
		return models.SeasonalityMedium
	default:
		return models.SeasonalityHigh
	}
}

// sortedValues returns the series values ordered by date, leaving the caller's
// slice untouched.
func sortedValues(series []models.SeriesPoint) []float64 {
	sorted := make([]models.SeriesPoint, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	values := make([]float64, len(sorted))
	for i, p := range sorted {
		values[i] = p.Value
	}
	return values
}
