package strategy

import (
	"math"

	"github.com/callsight/callsight/schema"
)

// ARIMA implements an ARIMA(1,1,1)-style model: the series is first-
// differenced once, an AR(1) coefficient is estimated from the lag-1
// autocorrelation of the differences, and an MA(1) correction is estimated
// from the AR residuals. Forecast-error variance accumulates across the
// integrated horizon, so the confidence band widens with sqrt of the step.
type ARIMA struct {
	cfg FitConfig
}

// NewARIMA creates an ARIMA strategy with the fixed (1,1,1) order.
func NewARIMA(cfg FitConfig) *ARIMA {
	return &ARIMA{cfg: cfg}
}

// Name returns the method identifier.
func (s *ARIMA) Name() schema.Method {
	return schema.ARIMAMethod
}

// FitAndPredict implements the Strategy contract.
func (s *ARIMA) FitAndPredict(history []schema.Observation, horizon int, confidence float64) (*Prediction, error) {
	vals := volumes(history)
	n := len(vals)

	// First difference.
	diffs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diffs[i-1] = vals[i] - vals[i-1]
	}

	phi := lag1Autocorr(diffs)

	// AR residuals, then the MA(1) correction from their lag-1 autocorrelation.
	// The first difference has no predecessor to fit against, so it carries no
	// residual and estimation starts at index 1.
	residuals := make([]float64, len(diffs))
	for i := 1; i < len(diffs); i++ {
		residuals[i] = diffs[i] - phi*diffs[i-1]
	}
	theta := lag1Autocorr(residuals[1:])
	sigma := stdDev(residuals[1:])

	// Iterate the differenced forecast and re-integrate.
	fitted := make([]float64, n)
	fitted[0] = vals[0]
	for i := 1; i < n; i++ {
		step := phi * diffs[i-1]
		if i >= 2 {
			step += theta * residuals[i-2]
		}
		fitted[i] = vals[i-1] + step
	}

	points := make([]float64, horizon)
	margins := make([]float64, horizon)
	z := zScore(confidence)

	lastDiff := diffs[len(diffs)-1]
	lastResidual := residuals[len(residuals)-1]
	level := vals[n-1]
	for i := range horizon {
		var step float64
		if i == 0 {
			step = phi*lastDiff + theta*lastResidual
		} else {
			step = phi * lastDiff
		}
		level += step
		lastDiff = step
		points[i] = level

		// Differences accumulate, so forecast variance grows roughly
		// linearly with the step count.
		margins[i] = z * sigma * math.Sqrt(float64(i+1))
	}

	pred := finishPrediction(points, margins)
	pred.FitMetrics = fitMetrics(vals, fitted)
	return pred, nil
}

// lag1Autocorr estimates the lag-1 autocorrelation, bounded away from the
// unit circle so the forecast recursion stays stable. Near-constant input
// yields 0.
func lag1Autocorr(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	var num, den float64
	for i := range n {
		dev := values[i] - m
		den += dev * dev
		if i > 0 {
			num += dev * (values[i-1] - m)
		}
	}
	if den < 1e-10 {
		return 0
	}
	coef := num / den
	return math.Max(-0.99, math.Min(0.99, coef))
}
