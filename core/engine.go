// Package core implements the forecasting engine: strategy registry,
// forecast orchestration, staffing translation and accuracy backtesting.
package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/callsight/callsight/core/strategy"
	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/internal/metrics"
	"github.com/callsight/callsight/schema"
)

// Engine orchestrates forecast generation: it validates requests, loads the
// observation series, runs the selected strategy through a bounded fit pool,
// attaches staffing recommendations and appends the result to the forecast log.
type Engine struct {
	registry *Registry
	stores   contract.StoreManager
	staffing contract.StaffingConfig

	// fitSem bounds concurrent strategy fits so a burst of requests cannot
	// oversubscribe the CPU.
	fitSem *semaphore.Weighted
}

// NewEngine creates an engine over the given stores and configuration.
func NewEngine(stores contract.StoreManager, cfg *contract.Config) *Engine {
	workers := cfg.FitWorkers
	if workers <= 0 {
		workers = contract.DefaultFitWorkers
	}
	return &Engine{
		registry: NewRegistry(strategy.DefaultFitConfig()),
		stores:   stores,
		staffing: cfg.Staffing,
		fitSem:   semaphore.NewWeighted(int64(workers)),
	}
}

// Methods returns the identifiers of every registered strategy.
func (e *Engine) Methods() []schema.Method {
	return e.registry.Methods()
}

// GenerateForecast runs one forecast end to end.
//
// Steps:
//  1. Validate the request (method, horizon, confidence).
//  2. Load the full observation series; refuse with insufficient_data
//     below the forecast minimum.
//  3. Fit the selected strategy under the bounded fit pool. A fit failure
//     does not fail the request: the engine substitutes the naive forecast
//     and marks the result as a fallback.
//  4. Translate each predicted volume into a staffing recommendation.
//  5. Stamp identity and timestamp, then append to the forecast log.
//
// The returned result is exactly what was persisted.
func (e *Engine) GenerateForecast(ctx context.Context, req schema.ForecastRequest) (*schema.ForecastResult, error) {
	// Step 1: validate the request envelope.
	if req.ForecastDays < 1 || req.ForecastDays > schema.MaxHorizonDays {
		return nil, schema.NewValidationError(
			"forecast_days must be between 1 and %d, got %d", schema.MaxHorizonDays, req.ForecastDays)
	}
	confidence := req.ConfidenceLevel
	if confidence == 0 {
		confidence = schema.DefaultConfidence
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, schema.NewValidationError(
			"confidence_level must be in (0,1), got %v", req.ConfidenceLevel)
	}
	strat, err := e.registry.Resolve(req.Method)
	if err != nil {
		return nil, err
	}

	// Step 2: load the series.
	history, err := e.stores.GetSeriesStore().ListObservations(ctx)
	if err != nil {
		return nil, schema.NewPersistenceError("list observations", err)
	}
	if len(history) < schema.MinForecastPoints {
		return nil, schema.NewInsufficientDataError(len(history), schema.MinForecastPoints)
	}

	// Step 3: fit under the bounded pool.
	pred, fallback, err := e.fit(ctx, strat, history, req.ForecastDays, confidence)
	if err != nil {
		return nil, err
	}

	// Step 4: staffing translation, one recommendation per forecast day.
	staffing := make([]int, len(pred.Points))
	for i, calls := range pred.Points {
		staffing[i] = RecommendStaffing(calls, e.staffing)
	}

	// Step 5: stamp and persist.
	result := &schema.ForecastResult{
		ID:                      uuid.New().String(),
		Method:                  req.Method,
		ForecastDates:           schema.ForecastDates(history[len(history)-1].Date, req.ForecastDays),
		PredictedCalls:          pred.Points,
		StaffingRecommendations: staffing,
		ConfidenceIntervals: schema.ConfidenceInterval{
			Lower: pred.Lower,
			Upper: pred.Upper,
		},
		AccuracyMetrics: pred.FitMetrics,
		Fallback:        fallback,
		Timestamp:       time.Now().UTC(),
	}
	if err := e.stores.GetForecastStore().AppendForecast(ctx, *result); err != nil {
		return nil, schema.NewPersistenceError("append forecast", err)
	}

	metrics.ForecastsGeneratedTotal.WithLabelValues(string(req.Method)).Inc()
	return result, nil
}

// fit runs one strategy fit inside the bounded pool, substituting the naive
// forecast when the strategy cannot model the series.
func (e *Engine) fit(ctx context.Context, strat strategy.Strategy, history []schema.Observation, horizon int, confidence float64) (*strategy.Prediction, bool, error) {
	if err := e.fitSem.Acquire(ctx, 1); err != nil {
		return nil, false, err
	}
	defer e.fitSem.Release(1)

	started := time.Now()
	pred, err := strat.FitAndPredict(history, horizon, confidence)
	metrics.FitDurationSeconds.WithLabelValues(string(strat.Name())).Observe(time.Since(started).Seconds())

	if err != nil {
		log.Warn().
			Err(err).
			Str("method", string(strat.Name())).
			Int("observations", len(history)).
			Msg("strategy fit failed, using naive fallback")
		metrics.StrategyFallbacksTotal.WithLabelValues(string(strat.Name())).Inc()
		return strategy.Naive(history, horizon, confidence), true, nil
	}
	return pred, false, nil
}

// ListForecasts returns up to limit stored results, newest first. Limits
// outside (0, MaxForecastListLimit] are clamped to the cap.
func (e *Engine) ListForecasts(ctx context.Context, limit int) ([]schema.ForecastResult, error) {
	if limit <= 0 || limit > schema.MaxForecastListLimit {
		limit = schema.MaxForecastListLimit
	}
	results, err := e.stores.GetForecastStore().ListForecasts(ctx, limit)
	if err != nil {
		return nil, schema.NewPersistenceError("list forecasts", err)
	}
	return results, nil
}
