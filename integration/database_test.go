//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestCallsightWithMySQL tests the callsight CLI with a MySQL backend.
func TestCallsightWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "callsight",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/callsight", host, port.Port())
	runWorkflow(t, "mysql", connStr)
}

// TestCallsightWithPostgres tests the callsight CLI with a PostgreSQL backend.
func TestCallsightWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://postgres@%s:%s/postgres", host, port.Port())
	runWorkflow(t, "postgresql", connStr)
}

// runWorkflow exercises the full CLI surface against a live database:
// import history, forecast, backtest, list and status.
func runWorkflow(t *testing.T, backend, connStr string) {
	t.Helper()

	// Set environment variables
	_ = os.Setenv("CALLSIGHT_BACKEND", backend)
	_ = os.Setenv("CALLSIGHT_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("CALLSIGHT_BACKEND") }()
	defer func() { _ = os.Unsetenv("CALLSIGHT_DB_CONNECT") }()

	csvPath := writeHistoryCSV(t, 28)

	// Import history
	err := runCallsightCommand(t, "data", "import", csvPath)
	require.NoError(t, err)

	// Check storage status
	err = runCallsightCommand(t, "data", "status")
	require.NoError(t, err)

	// Generate a forecast
	err = runCallsightCommand(t, "forecast", "--method", "linear_regression", "--days", "7")
	require.NoError(t, err)

	// Backtest all methods
	err = runCallsightCommand(t, "accuracy")
	require.NoError(t, err)

	// List the stored forecast
	err = runCallsightCommand(t, "forecasts", "--limit", "5")
	require.NoError(t, err)

	// Clear the series
	err = runCallsightCommand(t, "data", "clear")
	require.NoError(t, err)
}

func runCallsightCommand(t *testing.T, args ...string) error {
	binaryPath := getCallsightBinary()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
