package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/schema"
)

// WriteStatus outputs the series and forecast-log status summaries.
func WriteStatus(series schema.SeriesStatus, forecasts schema.ForecastLogStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		payload := struct {
			Series    schema.SeriesStatus      `json:"series"`
			Forecasts schema.ForecastLogStatus `json:"forecasts"`
		}{series, forecasts}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, payload)
		}, "Wrote JSON")
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeStatusText(series, forecasts, w)
	}, "Wrote status")
}

// writeStatusText prints the plain-text status summary.
func writeStatusText(series schema.SeriesStatus, forecasts schema.ForecastLogStatus, w io.Writer) error {
	fmt.Fprintf(w, "Database Backend: %s\n", series.Backend)
	fmt.Fprintf(w, "Connected: %t\n", series.Connected)
	if !series.Connected {
		return nil
	}

	fmt.Fprintf(w, "Observations: %d\n", series.Observations)
	if series.FirstDate != nil && series.LastDate != nil {
		fmt.Fprintf(w, "Series Range: %s to %s\n", series.FirstDate, series.LastDate)
	}

	fmt.Fprintf(w, "Stored Forecasts: %d\n", forecasts.Forecasts)
	if forecasts.Newest != nil {
		fmt.Fprintf(w, "Newest Forecast: %s\n", forecasts.Newest.Format(time.RFC3339))
	}
	return nil
}
