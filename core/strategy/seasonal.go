package strategy

import (
	"fmt"

	"github.com/callsight/callsight/schema"
)

// SeasonalDecompose splits the series into trend + weekly seasonal +
// residual components, extrapolates the trend linearly and repeats the
// seasonal pattern across the horizon. Bounds come from the residual
// component's standard deviation. Decomposition needs at least two full
// seasonal cycles; shorter series fail to fit and the caller falls back.
type SeasonalDecompose struct {
	cfg FitConfig
}

// NewSeasonalDecompose creates a seasonal-decomposition strategy.
func NewSeasonalDecompose(cfg FitConfig) *SeasonalDecompose {
	return &SeasonalDecompose{cfg: cfg}
}

// Name returns the method identifier.
func (s *SeasonalDecompose) Name() schema.Method {
	return schema.SeasonalDecomposeMethod
}

// FitAndPredict implements the Strategy contract.
func (s *SeasonalDecompose) FitAndPredict(history []schema.Observation, horizon int, confidence float64) (*Prediction, error) {
	vals := volumes(history)
	n := len(vals)
	period := s.cfg.SeasonalPeriod
	if period <= 0 {
		period = schema.SeasonalPeriod
	}
	if n < 2*period {
		return nil, fmt.Errorf("seasonal decomposition needs %d observations, have %d", 2*period, n)
	}

	// Centered moving-average trend. Valid for indices half..n-half-1.
	half := period / 2
	trend := make([]float64, 0, n)
	trendStart := half
	for i := half; i < n-half; i++ {
		window := vals[i-half : i+half+1]
		trend = append(trend, mean(window))
	}

	// Seasonal component: mean detrended value per position in the cycle.
	seasonalSum := make([]float64, period)
	seasonalCount := make([]int, period)
	for j, tr := range trend {
		i := trendStart + j
		detrended := vals[i] - tr
		seasonalSum[i%period] += detrended
		seasonalCount[i%period]++
	}
	seasonal := make([]float64, period)
	for p := range period {
		if seasonalCount[p] > 0 {
			seasonal[p] = seasonalSum[p] / float64(seasonalCount[p])
		}
	}

	// Residuals of the decomposition within the trend window.
	residuals := make([]float64, len(trend))
	fitted := make([]float64, len(trend))
	for j, tr := range trend {
		i := trendStart + j
		fitted[j] = tr + seasonal[i%period]
		residuals[j] = vals[i] - fitted[j]
	}
	sigma := stdDev(residuals)

	// Linear trend extrapolation from the ends of the smoothed trend.
	edge := min(3, len(trend))
	slope := 0.0
	if len(trend) > edge {
		slope = (mean(trend[len(trend)-edge:]) - mean(trend[:edge])) / float64(len(trend)-edge)
	}
	lastTrend := trend[len(trend)-1]
	lastTrendIdx := trendStart + len(trend) - 1

	z := zScore(confidence)
	points := make([]float64, horizon)
	margins := make([]float64, horizon)
	for i := range horizon {
		futureIdx := n + i
		trendComponent := lastTrend + float64(futureIdx-lastTrendIdx)*slope
		points[i] = trendComponent + seasonal[futureIdx%period]
		margins[i] = z * sigma
	}

	pred := finishPrediction(points, margins)
	actualWindow := vals[trendStart : trendStart+len(trend)]
	pred.FitMetrics = fitMetrics(actualWindow, fitted)
	return pred, nil
}
