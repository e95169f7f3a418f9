package stats

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{4}, 4},
		{"several", []float64{1, 2, 3, 4}, 2.5},
		{"negative", []float64{-2, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.values); !approxEqual(got, tt.want) {
				t.Errorf("Mean(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestVarianceAndStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if got := Variance(values); !approxEqual(got, 4) {
		t.Errorf("Variance = %v, want 4", got)
	}
	if got := StdDev(values); !approxEqual(got, 2) {
		t.Errorf("StdDev = %v, want 2", got)
	}
	if got := Variance(nil); got != 0 {
		t.Errorf("Variance(nil) = %v, want 0", got)
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"zero mean", []float64{-1, 1}, 0},
		{"constant", []float64{5, 5, 5}, 0},
		{"known", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoefficientOfVariation(tt.values); !approxEqual(got, tt.want) {
				t.Errorf("CoefficientOfVariation(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestAutocorrelation(t *testing.T) {
	// A perfectly alternating series is strongly anti-correlated at lag 1
	// and strongly correlated at lag 2.
	alternating := []float64{10, 2, 10, 2, 10, 2, 10, 2, 10, 2}

	if got := Autocorrelation(alternating, 2); got < 0.5 {
		t.Errorf("Autocorrelation(alternating, 2) = %v, want > 0.5", got)
	}
	if got := Autocorrelation(alternating, 1); got > 0 {
		t.Errorf("Autocorrelation(alternating, 1) = %v, want negative", got)
	}
}

func TestAutocorrelationDegenerateInput(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		lag    int
	}{
		{"zero lag", []float64{1, 2, 3, 4}, 0},
		{"negative lag", []float64{1, 2, 3, 4}, -1},
		{"too short", []float64{1, 2}, 2},
		{"constant series", []float64{3, 3, 3, 3, 3, 3}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Autocorrelation(tt.values, tt.lag); got != 0 {
				t.Errorf("Autocorrelation(%v, %d) = %v, want 0", tt.values, tt.lag, got)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0.3, 0.95, 0.5},
		{0.1, 0.3, 0.95, 0.3},
		{1.2, 0.3, 0.95, 0.95},
	}

	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		v, want float64
	}{
		{1.24, 1.2},
		{1.25, 1.3},
		{7.0, 7.0},
		{-1.26, -1.3},
	}

	for _, tt := range tests {
		if got := Round1(tt.v); !approxEqual(got, tt.want) {
			t.Errorf("Round1(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
