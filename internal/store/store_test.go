package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/callsight/callsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStores opens a fresh SQLite database in a temp dir and returns both
// store implementations backed by it.
func newTestStores(t *testing.T) (*SeriesStoreImpl, *ForecastStoreImpl) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "callsight_test.db")

	db, err := openDatabase(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, createTables(db, schema.SQLiteBackend))
	t.Cleanup(func() { _ = db.Close() })

	return &SeriesStoreImpl{db: db, backend: schema.SQLiteBackend},
		&ForecastStoreImpl{db: db, backend: schema.SQLiteBackend}
}

func testObservation(t *testing.T, date string, calls int) schema.Observation {
	t.Helper()
	day, err := schema.ParseDay(date)
	require.NoError(t, err)
	return schema.Observation{
		ID:            "obs-" + date,
		Date:          day,
		CallsVolume:   calls,
		StaffingLevel: calls / 8,
		ServiceLevel:  0.8,
		Timestamp:     time.Now().UTC(),
	}
}

// TestSeriesUpsertAndList tests basic write/read ordering.
func TestSeriesUpsertAndList(t *testing.T) {
	series, _ := newTestStores(t)
	ctx := context.Background()

	// Insert out of order; listing must come back date-ascending.
	for _, date := range []string{"2025-05-03", "2025-05-01", "2025-05-02"} {
		require.NoError(t, series.UpsertObservation(ctx, testObservation(t, date, 100)))
	}

	listed, err := series.ListObservations(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "2025-05-01", listed[0].Date.String())
	assert.Equal(t, "2025-05-02", listed[1].Date.String())
	assert.Equal(t, "2025-05-03", listed[2].Date.String())
}

// TestSeriesUpsertReplacesByDate tests that a re-submitted day replaces the
// earlier row instead of duplicating it.
func TestSeriesUpsertReplacesByDate(t *testing.T) {
	series, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, series.UpsertObservation(ctx, testObservation(t, "2025-05-01", 100)))

	correction := testObservation(t, "2025-05-01", 175)
	correction.ID = "obs-corrected"
	require.NoError(t, series.UpsertObservation(ctx, correction))

	listed, err := series.ListObservations(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 175, listed[0].CallsVolume)
	assert.Equal(t, "obs-corrected", listed[0].ID)
}

// TestSeriesBulkUpsert tests the transactional batch path.
func TestSeriesBulkUpsert(t *testing.T) {
	series, _ := newTestStores(t)
	ctx := context.Background()

	batch := make([]schema.Observation, 10)
	for i := range batch {
		batch[i] = testObservation(t, fmt.Sprintf("2025-05-%02d", i+1), 100+i)
	}
	written, err := series.BulkUpsertObservations(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 10, written)

	listed, err := series.ListObservations(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 10)

	// Empty batches are a no-op.
	written, err = series.BulkUpsertObservations(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, written)
}

// TestSeriesDeleteAll tests clearing the series.
func TestSeriesDeleteAll(t *testing.T) {
	series, _ := newTestStores(t)
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, series.UpsertObservation(ctx, testObservation(t, fmt.Sprintf("2025-05-%02d", i+1), 100)))
	}

	deleted, err := series.DeleteAllObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)

	listed, err := series.ListObservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

// TestSeriesStatus tests the status summary fields.
func TestSeriesStatus(t *testing.T) {
	series, _ := newTestStores(t)
	ctx := context.Background()

	status, err := series.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.Observations)
	assert.Nil(t, status.FirstDate)

	require.NoError(t, series.UpsertObservation(ctx, testObservation(t, "2025-05-01", 100)))
	require.NoError(t, series.UpsertObservation(ctx, testObservation(t, "2025-05-09", 120)))

	status, err = series.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.Observations)
	require.NotNil(t, status.FirstDate)
	require.NotNil(t, status.LastDate)
	assert.Equal(t, "2025-05-01", status.FirstDate.String())
	assert.Equal(t, "2025-05-09", status.LastDate.String())
}

func testForecast(t *testing.T, id string, ts time.Time) schema.ForecastResult {
	t.Helper()
	start, err := schema.ParseDay("2025-05-10")
	require.NoError(t, err)
	return schema.ForecastResult{
		ID:                      id,
		Method:                  schema.LinearRegressionMethod,
		ForecastDates:           schema.ForecastDates(start, 2),
		PredictedCalls:          []float64{110.5, 112.25},
		StaffingRecommendations: []int{14, 15},
		ConfidenceIntervals: schema.ConfidenceInterval{
			Lower: []float64{95.5, 96.0},
			Upper: []float64{125.5, 128.5},
		},
		AccuracyMetrics: map[string]float64{"mae": 4.2, "rmse": 5.1},
		Timestamp:       ts,
	}
}

// TestForecastAppendAndList tests the append-only log round trip.
func TestForecastAppendAndList(t *testing.T) {
	_, forecasts := newTestStores(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	for i := range 3 {
		result := testForecast(t, fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, forecasts.AppendForecast(ctx, result))
	}

	listed, err := forecasts.ListForecasts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	// Newest first.
	assert.Equal(t, "run-2", listed[0].ID)
	assert.Equal(t, "run-0", listed[2].ID)

	// The payload survives intact, including nested fields.
	assert.Equal(t, []float64{110.5, 112.25}, listed[0].PredictedCalls)
	assert.Equal(t, []int{14, 15}, listed[0].StaffingRecommendations)
	assert.InDelta(t, 4.2, listed[0].AccuracyMetrics["mae"], 1e-9)
	assert.Equal(t, "2025-05-11", listed[0].ForecastDates[0].String())
}

// TestForecastListLimit tests that the limit truncates from the newest end.
func TestForecastListLimit(t *testing.T) {
	_, forecasts := newTestStores(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	for i := range 5 {
		result := testForecast(t, fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, forecasts.AppendForecast(ctx, result))
	}

	listed, err := forecasts.ListForecasts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "run-4", listed[0].ID)
	assert.Equal(t, "run-3", listed[1].ID)
}

// TestForecastListSameSecondOrdering tests that appends landing within the
// same second still list newest first. The stored timestamps are fixed-width,
// so the string ordering the backend applies matches chronological order even
// when the fractional seconds differ only in trailing digits.
func TestForecastListSameSecondOrdering(t *testing.T) {
	_, forecasts := newTestStores(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	// 0.12s vs 0.1234s: the variable-width RFC3339Nano strings for these
	// compare in the wrong order.
	require.NoError(t, forecasts.AppendForecast(ctx, testForecast(t, "run-early", base.Add(120000000*time.Nanosecond))))
	require.NoError(t, forecasts.AppendForecast(ctx, testForecast(t, "run-late", base.Add(123400000*time.Nanosecond))))

	listed, err := forecasts.ListForecasts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "run-late", listed[0].ID)
	assert.Equal(t, "run-early", listed[1].ID)
}

// TestGetPlaceholder tests the per-backend SQL parameter markers.
func TestGetPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", getPlaceholder(schema.PostgreSQLBackend, 1))
	assert.Equal(t, "$4", getPlaceholder(schema.PostgreSQLBackend, 4))
	assert.Equal(t, "?", getPlaceholder(schema.SQLiteBackend, 1))
	assert.Equal(t, "?", getPlaceholder(schema.MySQLBackend, 3))
}

// TestForecastStatus tests the log status summary.
func TestForecastStatus(t *testing.T) {
	_, forecasts := newTestStores(t)
	ctx := context.Background()

	status, err := forecasts.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.Forecasts)
	assert.Nil(t, status.Newest)

	newest := time.Date(2025, 5, 10, 9, 30, 0, 0, time.UTC)
	require.NoError(t, forecasts.AppendForecast(ctx, testForecast(t, "run-a", newest.Add(-time.Hour))))
	require.NoError(t, forecasts.AppendForecast(ctx, testForecast(t, "run-b", newest)))

	status, err = forecasts.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.Forecasts)
	require.NotNil(t, status.Newest)
	assert.True(t, status.Newest.Equal(newest))
}
