package stats

// LinearFit holds an ordinary least squares fit of value against index.
type LinearFit struct {
	Slope     float64
	Intercept float64
}

// FitLinear performs OLS regression of values against their indices 0..n-1.
// A series shorter than 2 points yields a flat fit through its only value.
func FitLinear(values []float64) LinearFit {
	n := len(values)
	if n == 0 {
		return LinearFit{}
	}
	if n == 1 {
		return LinearFit{Intercept: values[0]}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	fn := float64(n)
	den := fn*sumXX - sumX*sumX
	if den == 0 {
		return LinearFit{Intercept: Mean(values)}
	}

	slope := (fn*sumXY - sumX*sumY) / den
	intercept := (sumY - slope*sumX) / fn
	return LinearFit{Slope: slope, Intercept: intercept}
}

// At evaluates the fitted line at index x.
func (f LinearFit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}
