package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/callsight/callsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForecast(t *testing.T) schema.ForecastResult {
	t.Helper()
	start, err := schema.ParseDay("2025-06-01")
	require.NoError(t, err)

	return schema.ForecastResult{
		ID:                      "run-1",
		Method:                  schema.ARIMAMethod,
		ForecastDates:           schema.ForecastDates(start, 3),
		PredictedCalls:          []float64{120.5, 118.2, 131.9},
		StaffingRecommendations: []int{16, 15, 17},
		ConfidenceIntervals: schema.ConfidenceInterval{
			Lower: []float64{100.1, 98.4, 110.6},
			Upper: []float64{140.9, 138.0, 153.2},
		},
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// TestConvertForecastsFlattens tests the run-to-rows flattening.
func TestConvertForecastsFlattens(t *testing.T) {
	records := ConvertForecasts([]schema.ForecastResult{sampleForecast(t)})

	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, "run-1", rec.ForecastID)
		assert.Equal(t, "arima", rec.Method)
		assert.Equal(t, start(t).AddDays(i+1).String(), rec.Date)
		assert.False(t, rec.Fallback)
	}
	assert.InDelta(t, 120.5, records[0].PredictedCalls, 1e-9)
	assert.Equal(t, int32(17), records[2].RecommendedAgents)
}

func start(t *testing.T) schema.Day {
	t.Helper()
	d, err := schema.ParseDay("2025-06-01")
	require.NoError(t, err)
	return d
}

// TestWriteForecastsParquet tests that the writer produces a non-empty file.
func TestWriteForecastsParquet(t *testing.T) {
	records := ConvertForecasts([]schema.ForecastResult{sampleForecast(t)})
	outputPath := filepath.Join(t.TempDir(), "forecasts.parquet")

	require.NoError(t, WriteForecastsParquet(records, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

// TestWriteObservationsParquet tests the observation export path.
func TestWriteObservationsParquet(t *testing.T) {
	obs := []schema.Observation{
		{
			ID:            "obs-1",
			Date:          start(t),
			CallsVolume:   150,
			StaffingLevel: 18,
			ServiceLevel:  0.82,
			Timestamp:     time.Now().UTC(),
		},
	}
	records := ConvertObservations(obs)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-06-01", records[0].Date)
	assert.Equal(t, int32(150), records[0].CallsVolume)

	outputPath := filepath.Join(t.TempDir(), "observations.parquet")
	require.NoError(t, WriteObservationsParquet(records, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
