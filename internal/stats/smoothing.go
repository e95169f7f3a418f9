package stats

// Holt applies double exponential smoothing (level + trend) and returns the
// forecast horizon steps past the end of the series. Requires at least two
// points; shorter series fall back to the last observed value.
func Holt(values []float64, alpha, beta float64, horizon int) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return values[0]
	}

	level := values[0]
	trend := values[1] - values[0]

	for t := 1; t < n; t++ {
		lastLevel := level
		level = alpha*values[t] + (1-alpha)*(level+trend)
		trend = beta*(level-lastLevel) + (1-beta)*trend
	}

	return level + float64(horizon)*trend
}

// HoltWinters applies additive triple exponential smoothing (level + trend +
// seasonal) with the given period and returns the forecast horizon steps past
// the end of the series. Requires at least two full seasons of data; shorter
// series fall back to Holt.
func HoltWinters(values []float64, alpha, beta, gamma float64, period, horizon int) float64 {
	n := len(values)
	if period < 2 || n < 2*period {
		return Holt(values, alpha, beta, horizon)
	}

	// Initial level: mean of the first season.
	level := Mean(values[:period])

	// Initial trend: average per-step change between the first two seasons.
	trend := (Mean(values[period:2*period]) - level) / float64(period)

	// Initial seasonal components relative to the first-season level.
	seasonal := make([]float64, period)
	for i := 0; i < period; i++ {
		seasonal[i] = values[i] - level
	}

	for t := period; t < n; t++ {
		lastLevel := level
		idx := t % period
		level = alpha*(values[t]-seasonal[idx]) + (1-alpha)*(level+trend)
		trend = beta*(level-lastLevel) + (1-beta)*trend
		seasonal[idx] = gamma*(values[t]-level) + (1-gamma)*seasonal[idx]
	}

	return level + float64(horizon)*trend + seasonal[(n-1+horizon)%period]
}
