// Package schema has models, constants and errors for all parts of callsight.
package schema

import (
	"time"
)

// Observation is one historical record of call-center activity for a single day.
// Observations are ordered by date ascending and dates are unique within a series;
// corrections arrive as new upserts keyed by date, never as in-place mutation.
type Observation struct {
	ID            string  `json:"id"`
	Date          Day     `json:"date"`
	CallsVolume   int     `json:"calls_volume"`
	StaffingLevel int     `json:"staffing_level"`
	ServiceLevel  float64 `json:"service_level"` // Fraction of calls answered within target, [0,1]

	Timestamp time.Time `json:"timestamp"`
}

// ForecastRequest describes one forecast invocation.
type ForecastRequest struct {
	Method          Method  `json:"method"`
	ForecastDays    int     `json:"forecast_days"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// ConfidenceInterval holds the per-day lower and upper prediction bounds.
// Both slices run parallel to the predicted values.
type ConfidenceInterval struct {
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// ForecastResult is the immutable output of one forecast run.
// Results are stored append-only and never mutated after creation.
type ForecastResult struct {
	ID                      string             `json:"id"`
	Method                  Method             `json:"method"`
	ForecastDates           []Day              `json:"forecast_dates"`
	PredictedCalls          []float64          `json:"predicted_calls"`
	StaffingRecommendations []int              `json:"staffing_recommendations"`
	ConfidenceIntervals     ConfidenceInterval `json:"confidence_intervals"`
	AccuracyMetrics         map[string]float64 `json:"accuracy_metrics,omitempty"`
	Fallback                bool               `json:"fallback,omitempty"` // True when the method could not fit and a naive forecast was used

	Timestamp time.Time `json:"timestamp"`
}

// MethodAccuracy scores one method against the held-out window.
// Actual and Predictions always have equal length.
type MethodAccuracy struct {
	MAE         float64   `json:"mae"`
	RMSE        float64   `json:"rmse"`
	Actual      []float64 `json:"actual"`
	Predictions []float64 `json:"predictions"`
}

// AccuracyReport maps each method to its backtest scores over the most recent
// held-out window. Methods that failed to fit are listed in Skipped with the
// failure reason instead of aborting the whole report.
type AccuracyReport struct {
	HoldoutDays int                       `json:"holdout_days"`
	Methods     map[Method]MethodAccuracy `json:"methods"`
	Skipped     map[Method]string         `json:"skipped,omitempty"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// SeriesStatus summarizes the stored observation series.
type SeriesStatus struct {
	Backend      string `json:"backend"`
	Connected    bool   `json:"connected"`
	Observations int64  `json:"observations"`
	FirstDate    *Day   `json:"first_date,omitempty"`
	LastDate     *Day   `json:"last_date,omitempty"`
}

// ForecastLogStatus summarizes the stored forecast log.
type ForecastLogStatus struct {
	Backend   string     `json:"backend"`
	Connected bool       `json:"connected"`
	Forecasts int64      `json:"forecasts"`
	Newest    *time.Time `json:"newest,omitempty"`
}
