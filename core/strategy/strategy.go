// Package strategy implements the pluggable forecasting methods.
//
// Every strategy consumes the ordered historical series and produces point
// forecasts with per-day confidence bounds. All strategies share the same
// postconditions: predictions are clamped non-negative and every day satisfies
// lower <= point <= upper. A strategy that cannot fit the series returns an
// error; the caller decides whether to fall back to Naive (forecast path) or
// to omit the method (backtest path).
package strategy

import (
	"github.com/callsight/callsight/schema"
)

// Prediction is the output of one strategy fit: three parallel sequences of
// horizon length, plus optional metrics computed on the training fit.
type Prediction struct {
	Points []float64
	Lower  []float64
	Upper  []float64

	// FitMetrics holds training-fit scores (mae, rmse) where the method
	// computes them; nil otherwise.
	FitMetrics map[string]float64
}

// Strategy is the common contract for all forecasting methods.
type Strategy interface {
	// Name returns the method identifier.
	Name() schema.Method

	// FitAndPredict fits the method on history and predicts horizon days
	// ahead at the given confidence level. Preconditions (checked by the
	// orchestrator): len(history) >= schema.MinForecastPoints and
	// horizon in [1, schema.MaxHorizonDays].
	FitAndPredict(history []schema.Observation, horizon int, confidence float64) (*Prediction, error)
}

// FitConfig carries the method-specific tuning knobs. Each strategy reads
// only the fields that apply to it.
type FitConfig struct {
	SeasonalPeriod int // Weekly cycle length for smoothing and decomposition

	Alpha float64 // Level smoothing factor
	Beta  float64 // Trend smoothing factor
	Gamma float64 // Seasonal smoothing factor

	LagCount     int   // Number of lag features for the forest
	TreeCount    int   // Trees in the ensemble; bounded so fits finish in bounded time
	MaxTreeDepth int   // Maximum regression tree depth
	MinLeafSize  int   // Minimum samples per leaf
	Seed         int64 // Seed for deterministic, reproducible fits
}

// DefaultFitConfig returns the default tuning used by the registry.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		SeasonalPeriod: schema.SeasonalPeriod,
		Alpha:          0.3,
		Beta:           0.1,
		Gamma:          0.1,
		LagCount:       7,
		TreeCount:      50,
		MaxTreeDepth:   6,
		MinLeafSize:    2,
		Seed:           42,
	}
}
