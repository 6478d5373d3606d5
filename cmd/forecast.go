package cmd

import (
	"github.com/callsight/callsight/core"
	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// forecastCmd generates a forecast from the stored series.
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast daily call volume and staffing needs.",
	Long: `Generate a call-volume forecast from the stored observation series.

Each forecast predicts daily call volume over the requested horizon and
translates every day's prediction into a recommended agent count using an
Erlang C staffing model. Results are persisted to the forecast log so they
can be reviewed later with 'callsight forecasts'.

If the selected method cannot fit the available history, the engine falls
back to a naive forecast and marks the result accordingly.

Examples:
  # One week ahead with the default ARIMA model
  callsight forecast

  # Two weeks with exponential smoothing and wider intervals
  callsight forecast --method exponential_smoothing --days 14 --confidence 0.99

  # Machine-readable output for downstream tooling
  callsight forecast --output json --output-file forecast.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		req := schema.ForecastRequest{
			Method:          schema.Method(viper.GetString("method")),
			ForecastDays:    viper.GetInt("days"),
			ConfidenceLevel: viper.GetFloat64("confidence"),
		}
		if err := core.ExecuteForecast(rootCtx, cfg, req); err != nil {
			contract.LogFatal("Cannot generate forecast", err)
		}
	},
}

// forecastsCmd lists stored forecast runs.
var forecastsCmd = &cobra.Command{
	Use:   "forecasts",
	Short: "List previously generated forecasts, newest first.",
	Long: `Show stored forecast runs from the append-only forecast log.

Each entry shows the method, horizon, first forecast day and creation time.
Use --limit to bound how many runs are shown and --output json to dump the
full results including predictions and intervals.

Examples:
  # Most recent runs
  callsight forecasts --limit 10

  # Full payloads for auditing
  callsight forecasts --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteListForecasts(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list forecasts", err)
		}
	},
}
