package strategy

import (
	"math"

	"github.com/callsight/callsight/schema"
)

// volumes extracts the call-volume sequence from the observation series.
func volumes(history []schema.Observation) []float64 {
	vals := make([]float64, len(history))
	for i, obs := range history {
		vals[i] = float64(obs.CallsVolume)
	}
	return vals
}

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev returns the sample standard deviation, or 0 when fewer than two values.
func stdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		sumSq += (v - m) * (v - m)
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// zScore returns the two-sided standard-normal quantile for the given
// confidence level, e.g. 1.96 for 0.95.
func zScore(confidence float64) float64 {
	if confidence <= 0 || confidence >= 1 {
		confidence = schema.DefaultConfidence
	}
	return math.Sqrt2 * math.Erfinv(confidence)
}

// finishPrediction clamps points to be non-negative and derives bounds from
// the per-day margins, preserving lower <= point <= upper.
func finishPrediction(points, margins []float64) *Prediction {
	n := len(points)
	pred := &Prediction{
		Points: make([]float64, n),
		Lower:  make([]float64, n),
		Upper:  make([]float64, n),
	}
	for i := range n {
		p := math.Max(0, points[i])
		m := math.Abs(margins[i])
		pred.Points[i] = p
		pred.Lower[i] = math.Max(0, p-m)
		pred.Upper[i] = p + m
	}
	return pred
}

// fitMetrics computes mae and rmse of fitted values against actuals.
func fitMetrics(actual, fitted []float64) map[string]float64 {
	n := min(len(actual), len(fitted))
	if n == 0 {
		return nil
	}
	sumAbs := 0.0
	sumSq := 0.0
	for i := range n {
		diff := actual[i] - fitted[i]
		sumAbs += math.Abs(diff)
		sumSq += diff * diff
	}
	return map[string]float64{
		"mae":  sumAbs / float64(n),
		"rmse": math.Sqrt(sumSq / float64(n)),
	}
}
