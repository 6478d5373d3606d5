// Package cmd defines the command-line interface for callsight.
package cmd

import (
	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(forecastsCmd)
	rootCmd.AddCommand(accuracyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the data subcommands to the parent data command
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataStatusCmd)
	dataCmd.AddCommand(dataClearCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbExportCmd)
	dbCmd.AddCommand(dbResetCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("listen", contract.DefaultListenAddr, "Address for the API server to listen on")
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Database backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("fit-workers", contract.DefaultFitWorkers, "Number of concurrent model fits")
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultListLimit, "Number of stored forecasts to list")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().Float64("staffing-aht", 0, "Average handle time per call in seconds (default 300)")
	rootCmd.PersistentFlags().Float64("staffing-target-sl", 0, "Target service level as a fraction (default 0.80)")
	rootCmd.PersistentFlags().Float64("staffing-answer-within", 0, "Service-level answer threshold in seconds (default 20)")
	rootCmd.PersistentFlags().Float64("staffing-shrinkage", 0, "Agent shrinkage as a fraction (default 0.30)")
	rootCmd.PersistentFlags().Float64("staffing-workday-hours", 0, "Staffed hours per day (default 8)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of forecastCmd to Viper
	forecastCmd.Flags().StringP("method", "m", string(schema.ARIMAMethod), "Forecasting method: arima, exponential_smoothing, random_forest, linear_regression, seasonal_decompose")
	forecastCmd.Flags().IntP("days", "d", 7, "Number of days to forecast (1-30)")
	forecastCmd.Flags().Float64("confidence", schema.DefaultConfidence, "Confidence level for prediction intervals, in (0,1)")
	if err := viper.BindPFlags(forecastCmd.Flags()); err != nil {
		contract.LogFatal("Error binding forecast flags", err)
	}

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}
}
