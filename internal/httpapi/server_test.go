package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callsight/callsight/core"
	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/internal/store"
	"github.com/callsight/callsight/schema"
)

// newTestServer builds a server over an in-memory store manager.
func newTestServer(t *testing.T) (*Server, *store.MemoryManager) {
	t.Helper()
	stores := store.NewMemoryManager()
	cfg := &contract.Config{
		ListenAddr: ":0",
		Backend:    schema.SQLiteBackend,
		FitWorkers: 4,
		Staffing:   contract.DefaultStaffingConfig(),
		Output:     schema.JSONOut,
		Precision:  contract.DefaultPrecision,
		Limit:      contract.DefaultListLimit,
	}
	engine := core.NewEngine(stores, cfg)
	return NewServer(engine, stores, cfg), stores
}

// seedSeries loads days consecutive observations starting 2025-03-01.
func seedSeries(t *testing.T, stores *store.MemoryManager, days int) {
	t.Helper()
	start, err := schema.ParseDay("2025-03-01")
	require.NoError(t, err)

	weekly := []int{-30, 10, 15, 18, 12, -20, -40}
	now := time.Now().UTC()
	batch := make([]schema.Observation, days)
	for i := 0; i < days; i++ {
		batch[i] = schema.Observation{
			ID:            uuid.New().String(),
			Date:          start.AddDays(i),
			CallsVolume:   150 + i + weekly[i%7],
			StaffingLevel: 18,
			ServiceLevel:  0.8,
			Timestamp:     now,
		}
	}
	_, err = stores.GetSeriesStore().BulkUpsertObservations(context.Background(), batch)
	require.NoError(t, err)
}

// doJSON issues a request with an optional JSON body and decodes the reply.
func doJSON(t *testing.T, router http.Handler, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

// TestHealthEndpoint tests the liveness probe.
func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	var payload map[string]any
	rec := doJSON(t, server.Router(), http.MethodGet, "/api/health", nil, &payload)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, "memory", payload["backend"])
}

// TestGenerateForecastEndpoint tests the full forecast round trip.
func TestGenerateForecastEndpoint(t *testing.T) {
	server, stores := newTestServer(t)
	seedSeries(t, stores, 28)

	request := schema.ForecastRequest{
		Method:          schema.LinearRegressionMethod,
		ForecastDays:    7,
		ConfidenceLevel: 0.95,
	}
	var result schema.ForecastResult
	rec := doJSON(t, server.Router(), http.MethodPost, "/api/forecast", request, &result)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, schema.LinearRegressionMethod, result.Method)
	assert.Len(t, result.PredictedCalls, 7)
	assert.Len(t, result.ForecastDates, 7)
	assert.Len(t, result.StaffingRecommendations, 7)
	assert.NotEmpty(t, result.ID)

	// The result must have been appended to the forecast log.
	persisted, err := stores.GetForecastStore().ListForecasts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, result.ID, persisted[0].ID)
}

// TestGenerateForecastErrors tests the error-kind to status mapping.
func TestGenerateForecastErrors(t *testing.T) {
	server, stores := newTestServer(t)
	seedSeries(t, stores, 3) // Too short to forecast

	tests := []struct {
		name       string
		request    schema.ForecastRequest
		wantStatus int
		wantKind   schema.ErrorKind
	}{
		{
			"bad horizon",
			schema.ForecastRequest{Method: schema.ARIMAMethod, ForecastDays: 0},
			http.StatusBadRequest,
			schema.ValidationKind,
		},
		{
			"unknown method",
			schema.ForecastRequest{Method: "prophet", ForecastDays: 7},
			http.StatusBadRequest,
			schema.UnknownMethodKind,
		},
		{
			"short series",
			schema.ForecastRequest{Method: schema.ARIMAMethod, ForecastDays: 7},
			http.StatusUnprocessableEntity,
			schema.InsufficientDataKind,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body errorBody
			rec := doJSON(t, server.Router(), http.MethodPost, "/api/forecast", tc.request, &body)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantKind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}
}

// TestGenerateForecastPersistenceFailure tests that store failures map to 503.
func TestGenerateForecastPersistenceFailure(t *testing.T) {
	server, stores := newTestServer(t)
	seedSeries(t, stores, 28)
	forecasts := stores.GetForecastStore().(*store.MemoryForecastStore)
	forecasts.AppendErr = fmt.Errorf("disk full")

	request := schema.ForecastRequest{Method: schema.ARIMAMethod, ForecastDays: 5}
	var body errorBody
	rec := doJSON(t, server.Router(), http.MethodPost, "/api/forecast", request, &body)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, schema.PersistenceKind, body.Kind)
}

// TestListForecastsEndpoint tests listing with and without a limit.
func TestListForecastsEndpoint(t *testing.T) {
	server, stores := newTestServer(t)
	seedSeries(t, stores, 28)
	router := server.Router()

	for i := 0; i < 3; i++ {
		request := schema.ForecastRequest{Method: schema.ARIMAMethod, ForecastDays: 3}
		rec := doJSON(t, router, http.MethodPost, "/api/forecast", request, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var payload struct {
		Forecasts []schema.ForecastResult `json:"forecasts"`
		Count     int                     `json:"count"`
	}
	rec := doJSON(t, router, http.MethodGet, "/api/forecasts?limit=2", nil, &payload)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, payload.Count)
	require.Len(t, payload.Forecasts, 2)

	// Bad limit is a validation error.
	rec = doJSON(t, router, http.MethodGet, "/api/forecasts?limit=zero", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestListForecastsEmpty tests that an empty log returns an empty array.
func TestListForecastsEmpty(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server.Router(), http.MethodGet, "/api/forecasts", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"forecasts":[]`)
}

// TestAccuracyEndpoint tests the backtest report route.
func TestAccuracyEndpoint(t *testing.T) {
	server, stores := newTestServer(t)
	seedSeries(t, stores, 35)

	var report schema.AccuracyReport
	rec := doJSON(t, server.Router(), http.MethodGet, "/api/analytics/accuracy", nil, &report)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, schema.HoldoutWindow, report.HoldoutDays)
	assert.Len(t, report.Methods, len(schema.AllMethods))
}

// TestAccuracyEndpointInsufficientData tests the short-series mapping.
func TestAccuracyEndpointInsufficientData(t *testing.T) {
	server, stores := newTestServer(t)
	seedSeries(t, stores, 10)

	var body errorBody
	rec := doJSON(t, server.Router(), http.MethodGet, "/api/analytics/accuracy", nil, &body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, schema.InsufficientDataKind, body.Kind)
}

// TestCreateObservationEndpoint tests single upsert plus validation.
func TestCreateObservationEndpoint(t *testing.T) {
	server, stores := newTestServer(t)
	router := server.Router()

	input := map[string]any{
		"date":           "2025-05-01",
		"calls_volume":   180,
		"staffing_level": 20,
		"service_level":  0.85,
	}
	var created schema.Observation
	rec := doJSON(t, router, http.MethodPost, "/api/call-data", input, &created)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "2025-05-01", created.Date.String())
	assert.Equal(t, 180, created.CallsVolume)
	assert.NotEmpty(t, created.ID)

	stored, err := stores.GetSeriesStore().ListObservations(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)

	// Same date replaces, not duplicates.
	input["calls_volume"] = 200
	rec = doJSON(t, router, http.MethodPost, "/api/call-data", input, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	stored, err = stores.GetSeriesStore().ListObservations(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 200, stored[0].CallsVolume)

	// Rejections.
	for _, bad := range []map[string]any{
		{"date": "05/01/2025", "calls_volume": 100},
		{"date": "2025-05-01", "calls_volume": -4},
		{"date": "2025-05-01", "calls_volume": 100, "service_level": 1.4},
	} {
		rec = doJSON(t, router, http.MethodPost, "/api/call-data", bad, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

// TestBulkObservationsEndpoint tests batch upsert.
func TestBulkObservationsEndpoint(t *testing.T) {
	server, stores := newTestServer(t)
	router := server.Router()

	batch := []map[string]any{
		{"date": "2025-05-01", "calls_volume": 150},
		{"date": "2025-05-02", "calls_volume": 161},
		{"date": "2025-05-03", "calls_volume": 149},
	}
	var payload map[string]any
	rec := doJSON(t, router, http.MethodPost, "/api/call-data/bulk", batch, &payload)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.InDelta(t, 3, payload["count"], 0)

	stored, err := stores.GetSeriesStore().ListObservations(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	// Empty batch is rejected.
	rec = doJSON(t, router, http.MethodPost, "/api/call-data/bulk", []map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestListAndDeleteObservations tests the read and clear routes.
func TestListAndDeleteObservations(t *testing.T) {
	server, stores := newTestServer(t)
	seedSeries(t, stores, 5)
	router := server.Router()

	var listed struct {
		Observations []schema.Observation `json:"observations"`
		Count        int                  `json:"count"`
	}
	rec := doJSON(t, router, http.MethodGet, "/api/call-data", nil, &listed)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, listed.Count)
	assert.Equal(t, "2025-03-01", listed.Observations[0].Date.String())

	var deleted map[string]any
	rec = doJSON(t, router, http.MethodDelete, "/api/call-data", nil, &deleted)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 5, deleted["count"], 0)

	rec = doJSON(t, router, http.MethodGet, "/api/call-data", nil, &listed)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, listed.Count)
}

// TestUploadCSVEndpoint tests multipart CSV ingestion.
func TestUploadCSVEndpoint(t *testing.T) {
	server, stores := newTestServer(t)
	router := server.Router()

	csvData := strings.Join([]string{
		"date,calls_volume,staffing_level,service_level",
		"2025-05-01,150,18,0.82",
		"2025-05-02,162,19,0.79",
	}, "\n")

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", "history.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvData))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-csv", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored, err := stores.GetSeriesStore().ListObservations(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	// Missing file field is a validation error.
	req = httptest.NewRequest(http.MethodPost, "/api/upload-csv", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestCORSPreflight tests that OPTIONS requests short-circuit with headers.
func TestCORSPreflight(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/forecast", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// TestMetricsEndpoint tests that the Prometheus registry is exposed.
func TestMetricsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
