package strategy

import (
	"github.com/callsight/callsight/schema"
)

// Naive produces the fallback forecast: repeat the mean of the last
// schema.MinForecastPoints observations, with a flat band from their
// standard deviation. It never fails, so the forecast path always has a
// usable result once the series meets the minimum length.
func Naive(history []schema.Observation, horizon int, confidence float64) *Prediction {
	vals := volumes(history)
	window := vals
	if len(vals) > schema.MinForecastPoints {
		window = vals[len(vals)-schema.MinForecastPoints:]
	}

	level := mean(window)
	margin := zScore(confidence) * stdDev(window)

	points := make([]float64, horizon)
	margins := make([]float64, horizon)
	for i := range horizon {
		points[i] = level
		margins[i] = margin
	}
	return finishPrediction(points, margins)
}
