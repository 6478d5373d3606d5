package strategy

import (
	"math"

	"github.com/callsight/callsight/schema"
)

// ExponentialSmoothing implements Holt-Winters additive smoothing with
// level, trend and weekly seasonal components when the series covers at
// least two seasonal cycles, and Holt's level+trend smoothing otherwise.
// Bounds come from the smoothing residual standard deviation and widen
// with sqrt of the forecast step.
type ExponentialSmoothing struct {
	cfg FitConfig
}

// NewExponentialSmoothing creates an exponential-smoothing strategy.
func NewExponentialSmoothing(cfg FitConfig) *ExponentialSmoothing {
	return &ExponentialSmoothing{cfg: cfg}
}

// Name returns the method identifier.
func (s *ExponentialSmoothing) Name() schema.Method {
	return schema.ExponentialSmoothingMethod
}

// FitAndPredict implements the Strategy contract.
func (s *ExponentialSmoothing) FitAndPredict(history []schema.Observation, horizon int, confidence float64) (*Prediction, error) {
	vals := volumes(history)
	period := s.cfg.SeasonalPeriod
	if period <= 0 {
		period = schema.SeasonalPeriod
	}

	var points, fitted []float64
	if len(vals) >= 2*period {
		points, fitted = s.holtWinters(vals, period, horizon)
	} else {
		points, fitted = s.holt(vals, horizon)
	}

	residuals := make([]float64, len(vals))
	for i := range vals {
		residuals[i] = vals[i] - fitted[i]
	}
	sigma := stdDev(residuals)

	z := zScore(confidence)
	margins := make([]float64, horizon)
	for i := range horizon {
		// Uncertainty grows with the forecast step.
		margins[i] = z * sigma * math.Sqrt(float64(i+1))
	}

	pred := finishPrediction(points, margins)
	pred.FitMetrics = fitMetrics(vals, fitted)
	return pred, nil
}

// holt runs level+trend double exponential smoothing.
func (s *ExponentialSmoothing) holt(vals []float64, horizon int) (points, fitted []float64) {
	n := len(vals)
	alpha, beta := s.cfg.Alpha, s.cfg.Beta

	level := vals[0]
	trend := (vals[n-1] - vals[0]) / float64(n-1)

	fitted = make([]float64, n)
	fitted[0] = vals[0]
	for t := 1; t < n; t++ {
		fitted[t] = level + trend
		prevLevel := level
		level = alpha*vals[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}

	points = make([]float64, horizon)
	for i := range horizon {
		points[i] = level + float64(i+1)*trend
	}
	return points, fitted
}

// holtWinters runs additive triple exponential smoothing with the given period.
func (s *ExponentialSmoothing) holtWinters(vals []float64, period, horizon int) (points, fitted []float64) {
	n := len(vals)
	alpha, beta, gamma := s.cfg.Alpha, s.cfg.Beta, s.cfg.Gamma

	// Initialize level from the first season, trend from the change between
	// the first two seasons, and seasonal offsets against the initial level.
	firstSeason := mean(vals[:period])
	secondSeason := mean(vals[period : 2*period])
	level := firstSeason
	trend := (secondSeason - firstSeason) / float64(period)

	seasonal := make([]float64, n+horizon)
	for i := range period {
		seasonal[i] = vals[i] - firstSeason
	}

	fitted = make([]float64, n)
	for t := range period {
		fitted[t] = level + seasonal[t]
	}
	for t := period; t < n; t++ {
		fitted[t] = level + trend + seasonal[t-period]

		prevLevel := level
		level = alpha*(vals[t]-seasonal[t-period]) + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		seasonal[t] = gamma*(vals[t]-level) + (1-gamma)*seasonal[t-period]
	}

	points = make([]float64, horizon)
	for i := range horizon {
		seasonIdx := n - period + (i % period)
		points[i] = level + float64(i+1)*trend + seasonal[seasonIdx]
	}
	return points, fitted
}
