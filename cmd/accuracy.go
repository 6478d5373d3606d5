package cmd

import (
	"github.com/callsight/callsight/core"
	"github.com/callsight/callsight/internal/contract"
	"github.com/spf13/cobra"
)

// accuracyCmd backtests all forecasting methods.
var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Backtest every forecasting method against recent history.",
	Long: `Evaluate forecast accuracy by backtesting against held-out history.

The most recent week of observations is withheld, every method is fitted on
the remaining history, and its predictions for the held-out week are scored
with MAE and RMSE. Methods that cannot fit the training window are reported
as skipped with the reason rather than failing the whole report.

Use this to decide which method suits your call patterns before relying on
its forecasts for staffing.

Examples:
  # Compare all methods
  callsight accuracy

  # Export scores for tracking over time
  callsight accuracy --output csv --output-file accuracy.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAccuracy(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run accuracy analysis", err)
		}
	},
}
