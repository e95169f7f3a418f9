package stats

// SimpleMovingAverage returns the mean of the last window points. A window
// larger than the series falls back to the full series; a non-positive window
// returns 0.
func SimpleMovingAverage(values []float64, window int) float64 {
	if len(values) == 0 || window <= 0 {
		return 0
	}
	if window > len(values) {
		window = len(values)
	}
	return Mean(values[len(values)-window:])
}

// ExponentialMovingAverage applies single exponential smoothing with the given
// alpha, seeded with the first value, and returns the final smoothed level.
func ExponentialMovingAverage(values []float64, alpha float64) float64 {
	if len(values) == 0 {
		return 0
	}
	ema := values[0]
	for _, v := range values[1:] {
		ema = alpha*v + (1-alpha)*ema
	}
	return ema
}

// WeightedRecentAverage computes a geometrically weighted average where each
// successive point's weight grows by ratio, so later points dominate.
func WeightedRecentAverage(values []float64, ratio float64) float64 {
	if len(values) == 0 {
		return 0
	}

	weight := 1.0
	var weightedSum, totalWeight float64
	for _, v := range values {
		weightedSum += v * weight
		totalWeight += weight
		weight *= ratio
	}

	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}
