package core

import (
	"context"
	"time"

	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/internal/outwriter"
	"github.com/callsight/callsight/internal/store"
	"github.com/callsight/callsight/schema"
)

// ExecuteForecast runs one forecast against the stored series and prints the
// result. It serves as the main entry point for the 'forecast' command.
func ExecuteForecast(ctx context.Context, cfg *contract.Config, req schema.ForecastRequest) error {
	start := time.Now()
	engine := NewEngine(store.Manager, cfg)

	result, err := engine.GenerateForecast(ctx, req)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.WriteForecast(result, cfg, duration)
}

// ExecuteAccuracy backtests all methods against the holdout window and prints
// the report. It serves as the main entry point for the 'accuracy' command.
func ExecuteAccuracy(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	engine := NewEngine(store.Manager, cfg)

	report, err := engine.ComputeAccuracy(ctx)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.WriteAccuracy(report, cfg, duration)
}

// ExecuteListForecasts prints stored forecast runs, newest first.
func ExecuteListForecasts(ctx context.Context, cfg *contract.Config) error {
	engine := NewEngine(store.Manager, cfg)

	results, err := engine.ListForecasts(ctx, cfg.Limit)
	if err != nil {
		return err
	}
	return outwriter.WriteForecastList(results, cfg)
}

// ExecuteStatus prints series and forecast-log status information.
func ExecuteStatus(ctx context.Context, cfg *contract.Config) error {
	seriesStatus, err := store.Manager.GetSeriesStore().GetStatus(ctx)
	if err != nil {
		return schema.NewPersistenceError("series status", err)
	}
	forecastStatus, err := store.Manager.GetForecastStore().GetStatus(ctx)
	if err != nil {
		return schema.NewPersistenceError("forecast status", err)
	}
	return outwriter.WriteStatus(seriesStatus, forecastStatus, cfg)
}
