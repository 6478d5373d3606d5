package core

import (
	"context"
	"testing"

	"github.com/callsight/callsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeAccuracyInsufficientData tests the 14-observation floor.
func TestComputeAccuracyInsufficientData(t *testing.T) {
	engine := testEngine(seedStores(t, 13))

	_, err := engine.ComputeAccuracy(context.Background())
	require.Error(t, err)
	assert.True(t, schema.IsKind(err, schema.InsufficientDataKind))
	assert.Contains(t, err.Error(), "13")
}

// TestComputeAccuracyFullSeries tests a series long enough for every method:
// 35 observations leave 28 training days after the holdout split.
func TestComputeAccuracyFullSeries(t *testing.T) {
	engine := testEngine(seedStores(t, 35))

	report, err := engine.ComputeAccuracy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, schema.HoldoutWindow, report.HoldoutDays)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Empty(t, report.Skipped)
	require.Len(t, report.Methods, len(schema.AllMethods))

	for method, acc := range report.Methods {
		assert.Len(t, acc.Actual, schema.HoldoutWindow, "method %s", method)
		assert.Len(t, acc.Predictions, schema.HoldoutWindow, "method %s", method)
		assert.GreaterOrEqual(t, acc.MAE, 0.0, "method %s", method)
		assert.GreaterOrEqual(t, acc.RMSE, acc.MAE, "method %s", method)
	}
}

// TestComputeAccuracySkipsFailingMethod tests failure isolation: with 20
// observations the 13-day training slice is too short for seasonal
// decomposition, which must land in Skipped while the rest are scored.
func TestComputeAccuracySkipsFailingMethod(t *testing.T) {
	engine := testEngine(seedStores(t, 20))

	report, err := engine.ComputeAccuracy(context.Background())
	require.NoError(t, err)

	require.Contains(t, report.Skipped, schema.SeasonalDecomposeMethod)
	assert.NotContains(t, report.Methods, schema.SeasonalDecomposeMethod)

	for _, method := range []schema.Method{
		schema.ARIMAMethod,
		schema.ExponentialSmoothingMethod,
		schema.RandomForestMethod,
		schema.LinearRegressionMethod,
	} {
		assert.Contains(t, report.Methods, method)
	}
}

// TestComputeAccuracyActualsMatchHoldout tests that the scored actuals are
// exactly the trailing week of the series.
func TestComputeAccuracyActualsMatchHoldout(t *testing.T) {
	stores := seedStores(t, 35)
	engine := testEngine(stores)

	report, err := engine.ComputeAccuracy(context.Background())
	require.NoError(t, err)

	want := make([]float64, schema.HoldoutWindow)
	for i, obs := range stores.series[len(stores.series)-schema.HoldoutWindow:] {
		want[i] = float64(obs.CallsVolume)
	}
	for method, acc := range report.Methods {
		assert.Equal(t, want, acc.Actual, "method %s", method)
	}
}

// TestScoreBacktest tests the error arithmetic against hand-computed values.
func TestScoreBacktest(t *testing.T) {
	acc := scoreBacktest(
		[]float64{100, 110, 120, 130},
		[]float64{105, 105, 125, 130},
	)
	assert.InDelta(t, (5.0+5.0+5.0+0.0)/4, acc.MAE, 1e-9)
	assert.InDelta(t, 4.330127, acc.RMSE, 1e-5)
}
