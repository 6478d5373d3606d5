package cmd

import (
	"fmt"

	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/internal/store"
	"github.com/callsight/callsight/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dbSetup loads minimal configuration needed for database operations.
// This is used by commands that need database access without full shared setup.
func dbSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get database-related config values
	backend := schema.DatabaseBackend(viper.GetString("backend"))
	connStr := viper.GetString("db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.Backend = backend
	cfg.DBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// dbSetupWrapper wraps dbSetup to provide PreRunE for db commands.
func dbSetupWrapper(_ *cobra.Command, _ []string) error {
	return dbSetup()
}

// dbStoreSetupWrapper is dbSetup plus store initialization, for commands
// that read data. Migrate and reset skip it so they can run on a fresh or
// broken database.
func dbStoreSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := dbSetup(); err != nil {
		return err
	}
	if err := store.InitStores(cfg.Backend, cfg.DBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// dbCmd groups database management commands.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the underlying database",
	Long: `Manage the database that stores observations and forecasts.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  migrate - Run schema migrations (upgrades/downgrades)
  export  - Export all data to Parquet for analytics
  reset   - Remove all stored data

Examples:
  # Upgrade the schema after updating callsight
  callsight db migrate

  # Export for analysis in pandas/DuckDB
  callsight db export --output-file callsight-data`,
}

// dbMigrateCmd runs database migrations.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the observation and forecast stores.

Migrations allow:
- Upgrading to new schema versions when Callsight is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  callsight db migrate

  # Migrate to specific version
  callsight db migrate --target-version 1

  # Rollback to initial state
  callsight db migrate --target-version 0`,
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		connStr := cfg.DBConnect
		if cfg.Backend == schema.SQLiteBackend && connStr == "" {
			connStr = contract.GetDBFilePath()
		}
		if err := store.Migrate(cfg.Backend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// dbExportCmd exports stored data to Parquet files.
var dbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored data to Parquet for BI tools and analytics",
	Long: `Export all stored observations and forecasts to Parquet format.

Exports two datasets:
- Observations - one row per stored day
- Forecasts    - one row per forecast day, flattened from each run

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter (used as a filename prefix)

Examples:
  # Export all data
  callsight db export --output-file callsight-data

  # Use with DuckDB for analysis
  callsight db export --output-file data
  duckdb -c "SELECT * FROM read_parquet('data.observations.parquet') LIMIT 10"`,
	PreRunE: dbStoreSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ExecuteExport(rootCtx, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export data", err)
		}
	},
}

// dbResetCmd removes all stored data.
var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove all stored observations and forecasts",
	Long: `Delete every observation and every stored forecast.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops both tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before resetting
  callsight db export --output-file backup
  callsight db reset`,
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := cfg.DBConnect
		if dbFilePath == "" {
			dbFilePath = contract.GetDBFilePath()
		}
		if err := store.ClearData(cfg.Backend, dbFilePath, cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to reset database", err)
		}
		fmt.Println("Database reset successfully.")
	},
}
