// Package stats provides the numerical primitives behind the demand
// forecasting engine: descriptive statistics, moving averages, exponential
// smoothing and ordinary least squares. All functions are total over valid
// input; empty or too-short series yield zero values, never errors.
package stats

import (
	"math"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the population variance of values.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// CoefficientOfVariation returns stddev/mean, or 0 when the mean is 0.
// Used both as a data-quality signal and as an ensemble-disagreement proxy.
func CoefficientOfVariation(values []float64) float64 {
	mean := Mean(values)
	if mean == 0 {
		return 0
	}
	return StdDev(values) / math.Abs(mean)
}

// Autocorrelation computes the normalized autocovariance of the series with
// itself shifted by lag. Returns 0 when the series is too short or constant.
func Autocorrelation(values []float64, lag int) float64 {
	n := len(values)
	if lag <= 0 || n < lag+2 {
		return 0
	}

	mean := Mean(values)

	var num, den float64
	for i := 0; i < n-lag; i++ {
		num += (values[i] - mean) * (values[i+lag] - mean)
	}
	for i := 0; i < n; i++ {
		d := values[i] - mean
		den += d * d
	}

	if den == 0 {
		return 0
	}
	return num / den
}

// Clamp bounds v to the [lo, hi] interval.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
