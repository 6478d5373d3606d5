package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/callsight/callsight/internal/parquet"
)

// ExecuteExport performs the export of stored series and forecast data to
// Parquet files.
func ExecuteExport(ctx context.Context, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	seriesStore := Manager.GetSeriesStore()
	forecastStore := Manager.GetForecastStore()

	// Check if there's any data to export
	seriesStatus, err := seriesStore.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get series status: %w", err)
	}
	forecastStatus, err := forecastStore.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get forecast status: %w", err)
	}
	if seriesStatus.Observations == 0 && forecastStatus.Forecasts == 0 {
		return errors.New("no data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", seriesStatus.Backend)
	fmt.Printf("Total observations: %d\n", seriesStatus.Observations)
	fmt.Printf("Total forecasts: %d\n", forecastStatus.Forecasts)

	observations, err := seriesStore.ListObservations(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve observations: %w", err)
	}
	forecasts, err := forecastStore.ListForecasts(ctx, int(forecastStatus.Forecasts))
	if err != nil {
		return fmt.Errorf("failed to retrieve forecasts: %w", err)
	}

	// Convert to Parquet format
	observationRecords := parquet.ConvertObservations(observations)
	forecastRecords := parquet.ConvertForecasts(forecasts)

	// Write observations to Parquet
	observationsFile := outputFile + ".observations.parquet"
	if err := parquet.WriteObservationsParquet(observationRecords, observationsFile); err != nil {
		return fmt.Errorf("failed to write observations: %w", err)
	}
	fmt.Printf("Exported %d observations to: %s\n", len(observationRecords), observationsFile)

	// Write forecast days to Parquet
	forecastsFile := outputFile + ".forecasts.parquet"
	if err := parquet.WriteForecastsParquet(forecastRecords, forecastsFile); err != nil {
		return fmt.Errorf("failed to write forecasts: %w", err)
	}
	fmt.Printf("Exported %d forecast days to: %s\n", len(forecastRecords), forecastsFile)

	return nil
}
