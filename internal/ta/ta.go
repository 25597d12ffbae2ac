package ta

import "math"

// SMA returns the simple moving average of the last n values.
func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// StdDev returns the population standard deviation of the last n values.
func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

// Momentum returns the change of the latest value against the value n
// steps back. Returns NaN when the series is too short.
func Momentum(vals []float64, n int) float64 {
	if len(vals) < n+1 || n <= 0 {
		return math.NaN()
	}
	return vals[len(vals)-1] - vals[len(vals)-1-n]
}

// Trend classifies a probability series by comparing the latest value to
// its n-period SMA. Probabilities drifting above the average read as
// bullish, below as bearish.
func Trend(vals []float64, n int) string {
	m := SMA(vals, n)
	if math.IsNaN(m) || len(vals) == 0 {
		return "neutral"
	}
	last := vals[len(vals)-1]
	switch {
	case last > m*1.02:
		return "bullish"
	case last < m*0.98:
		return "bearish"
	default:
		return "neutral"
	}
}
