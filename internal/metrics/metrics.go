// Package metrics provides Prometheus observability metrics for the
// forecasting engine and its HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// ForecastsGeneratedTotal tracks generated forecasts by method.
var ForecastsGeneratedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "callsight",
	Name:      "forecasts_generated_total",
	Help:      "Total forecasts generated, by forecasting method",
}, []string{"method"})

// StrategyFallbacksTotal tracks fits that fell back to the naive forecast.
// High values indicate a method that cannot model the current series.
var StrategyFallbacksTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "callsight",
	Name:      "strategy_fallbacks_total",
	Help:      "Strategy fits that failed and fell back to the naive forecast, by method",
}, []string{"method"})

// FitDurationSeconds tracks time spent fitting each strategy.
var FitDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "callsight",
	Name:      "fit_duration_seconds",
	Help:      "Time taken to fit a strategy and produce predictions",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
}, []string{"method"})

// AccuracyRunsTotal tracks completed accuracy analyses.
var AccuracyRunsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "callsight",
	Name:      "accuracy_runs_total",
	Help:      "Total accuracy backtest runs completed",
})

// AccuracyMethodsSkippedTotal tracks methods omitted from accuracy reports.
var AccuracyMethodsSkippedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "callsight",
	Name:      "accuracy_methods_skipped_total",
	Help:      "Methods omitted from accuracy reports because their fit failed, by method",
}, []string{"method"})

// ObservationsIngestedTotal tracks observations written to the series store.
var ObservationsIngestedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "callsight",
	Name:      "observations_ingested_total",
	Help:      "Total observations upserted into the series store",
})

// HTTPRequestsTotal tracks API requests by route and status code.
var HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "callsight",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests, by route and status code",
}, []string{"route", "status"})

// HTTPRequestDurationSeconds tracks API request latency by route.
var HTTPRequestDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "callsight",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency, by route",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
}, []string{"route"})
