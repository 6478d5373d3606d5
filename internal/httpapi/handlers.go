package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/callsight/callsight/core"
	"github.com/callsight/callsight/schema"
)

// errorBody is the JSON error envelope returned by all failing endpoints.
type errorBody struct {
	Error string           `json:"error"`
	Kind  schema.ErrorKind `json:"kind,omitempty"`
}

// writeJSON encodes a success payload.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps engine error kinds to HTTP status codes:
// validation and unknown-method failures are client errors, a short series
// is unprocessable, and store failures are service unavailability.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch schema.KindOf(err) {
	case schema.ValidationKind, schema.UnknownMethodKind:
		status = http.StatusBadRequest
	case schema.InsufficientDataKind:
		status = http.StatusUnprocessableEntity
	case schema.PersistenceKind:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Kind: schema.KindOf(err)})
}

// handleHealth reports liveness plus store connectivity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, err := s.stores.GetSeriesStore().GetStatus(r.Context())
	if err != nil {
		writeError(w, schema.NewPersistenceError("series status", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"backend":   status.Backend,
		"connected": status.Connected,
	})
}

// handleGenerateForecast runs one forecast and returns the persisted result.
func (s *Server) handleGenerateForecast(w http.ResponseWriter, r *http.Request) {
	var req schema.ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, schema.NewValidationError("invalid request body: %v", err))
		return
	}

	result, err := s.engine.GenerateForecast(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleListForecasts returns stored results, newest first.
func (s *Server) handleListForecasts(w http.ResponseWriter, r *http.Request) {
	limit := schema.MaxForecastListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, schema.NewValidationError("limit must be a positive integer, got %q", raw))
			return
		}
		limit = parsed
	}

	results, err := s.engine.ListForecasts(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []schema.ForecastResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"forecasts": results,
		"count":     len(results),
	})
}

// handleAccuracy backtests all methods and returns the report.
func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.ComputeAccuracy(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// observationInput is the write payload for call-data endpoints.
type observationInput struct {
	Date          string  `json:"date"`
	CallsVolume   int     `json:"calls_volume"`
	StaffingLevel int     `json:"staffing_level"`
	ServiceLevel  float64 `json:"service_level"`
}

// toObservation validates the input and stamps identity.
func (in observationInput) toObservation(now time.Time) (schema.Observation, error) {
	date, err := schema.ParseDay(in.Date)
	if err != nil {
		return schema.Observation{}, schema.NewValidationError("%v", err)
	}
	if in.CallsVolume < 0 {
		return schema.Observation{}, schema.NewValidationError("calls_volume must be non-negative, got %d", in.CallsVolume)
	}
	if in.ServiceLevel < 0 || in.ServiceLevel > 1 {
		return schema.Observation{}, schema.NewValidationError("service_level must be in [0,1], got %v", in.ServiceLevel)
	}
	return schema.Observation{
		ID:            uuid.New().String(),
		Date:          date,
		CallsVolume:   in.CallsVolume,
		StaffingLevel: in.StaffingLevel,
		ServiceLevel:  in.ServiceLevel,
		Timestamp:     now,
	}, nil
}

// handleCreateObservation upserts one observation.
func (s *Server) handleCreateObservation(w http.ResponseWriter, r *http.Request) {
	var input observationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, schema.NewValidationError("invalid request body: %v", err))
		return
	}
	obs, err := input.toObservation(time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.stores.GetSeriesStore().UpsertObservation(r.Context(), obs); err != nil {
		writeError(w, schema.NewPersistenceError("upsert observation", err))
		return
	}
	writeJSON(w, http.StatusCreated, obs)
}

// handleBulkObservations upserts a batch of observations.
func (s *Server) handleBulkObservations(w http.ResponseWriter, r *http.Request) {
	var inputs []observationInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeError(w, schema.NewValidationError("invalid request body: %v", err))
		return
	}
	if len(inputs) == 0 {
		writeError(w, schema.NewValidationError("request contains no observations"))
		return
	}

	now := time.Now().UTC()
	batch := make([]schema.Observation, len(inputs))
	for i, input := range inputs {
		obs, err := input.toObservation(now)
		if err != nil {
			writeError(w, schema.NewValidationError("observation %d: %v", i, err))
			return
		}
		batch[i] = obs
	}

	written, err := s.stores.GetSeriesStore().BulkUpsertObservations(r.Context(), batch)
	if err != nil {
		writeError(w, schema.NewPersistenceError("bulk upsert observations", err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("Successfully added %d records", written),
		"count":   written,
	})
}

// handleListObservations returns the full series ordered by date.
func (s *Server) handleListObservations(w http.ResponseWriter, r *http.Request) {
	observations, err := s.stores.GetSeriesStore().ListObservations(r.Context())
	if err != nil {
		writeError(w, schema.NewPersistenceError("list observations", err))
		return
	}
	if observations == nil {
		observations = []schema.Observation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"observations": observations,
		"count":        len(observations),
	})
}

// handleDeleteObservations clears the series.
func (s *Server) handleDeleteObservations(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.stores.GetSeriesStore().DeleteAllObservations(r.Context())
	if err != nil {
		writeError(w, schema.NewPersistenceError("delete observations", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Deleted %d records", deleted),
		"count":   deleted,
	})
}

// maxCSVUploadBytes bounds CSV uploads to keep memory use predictable.
const maxCSVUploadBytes = 16 << 20

// handleUploadCSV ingests a CSV file of observations from a multipart form.
func (s *Server) handleUploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCSVUploadBytes)
	if err := r.ParseMultipartForm(maxCSVUploadBytes); err != nil {
		writeError(w, schema.NewValidationError("invalid multipart form: %v", err))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, schema.NewValidationError("missing file field: %v", err))
		return
	}
	defer func() { _ = file.Close() }()

	observations, err := core.ParseObservationsCSV(file)
	if err != nil {
		writeError(w, err)
		return
	}

	written, err := s.stores.GetSeriesStore().BulkUpsertObservations(r.Context(), observations)
	if err != nil {
		writeError(w, schema.NewPersistenceError("bulk upsert observations", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Successfully uploaded %d records", written),
		"count":   written,
	})
}
