// Package main provides a performance benchmarking tool for the callsight CLI.
// It measures forecast and accuracy execution times across different series
// lengths and forecasting methods, running each test multiple times, treating
// the first successful run as cold and averaging the rest as warm, and
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - callsight binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the temporary SQLite database and CSV fixtures
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	SeriesDays int
	Command    string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Runs        int
	SeriesSizes []int
	Methods     []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     2 * time.Minute,
		Runs:        4,
		SeriesSizes: []int{30, 180, 730, 3650},
		Methods: []string{
			"arima",
			"exponential_smoothing",
			"random_forest",
			"linear_regression",
			"seasonal_decompose",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the callsight binary and work directory exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("callsight"); err != nil {
		return fmt.Errorf("callsight binary not found in PATH")
	}
	if _, err := os.Stat(config.WorkDir); os.IsNotExist(err) {
		return fmt.Errorf("work directory not found at %s", config.WorkDir)
	}
	return nil
}

// writeSeriesCSV writes a synthetic daily series of the given length.
func writeSeriesCSV(config BenchmarkConfig, days int) (string, error) {
	path := filepath.Join(config.WorkDir, fmt.Sprintf("series_%d.csv", days))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	weekly := []int{-30, 10, 15, 18, 12, -20, -40}
	start := time.Now().UTC().AddDate(0, 0, -days)
	_, _ = fmt.Fprintln(file, "date,calls_volume")
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		_, _ = fmt.Fprintf(file, "%s,%d\n", day, 150+(i%90)+weekly[i%7])
	}
	return path, nil
}

// runBenchmarks executes all benchmark tests across configured series sizes.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d series sizes, %v timeout, %d runs each\n",
		len(config.SeriesSizes), config.Timeout, config.Runs)

	for _, days := range config.SeriesSizes {
		fmt.Printf("Benchmarking %d-day series\n", days)

		dbPath := filepath.Join(config.WorkDir, fmt.Sprintf("bench_%d.db", days))
		_ = os.Remove(dbPath)
		env := []string{
			"CALLSIGHT_BACKEND=sqlite",
			"CALLSIGHT_DB_CONNECT=" + dbPath,
		}

		csvPath, err := writeSeriesCSV(config, days)
		if err != nil {
			fmt.Printf("  Failed to write series fixture: %v\n", err)
			continue
		}
		if err := runOnce(config, env, "data", "import", csvPath); err != nil {
			fmt.Printf("  Failed to import series: %v\n", err)
			continue
		}

		// Per-method forecast timings
		for _, method := range config.Methods {
			result := runBenchmarkSuite(config, env, days, "forecast "+method,
				"forecast", "--method", method, "--days", "14")
			results = append(results, result)
		}

		// Full accuracy backtest timing
		result := runBenchmarkSuite(config, env, days, "accuracy", "accuracy")
		results = append(results, result)

		_ = os.Remove(dbPath)
	}

	return results
}

// runBenchmarkSuite runs cold and warm phases for one command.
func runBenchmarkSuite(config BenchmarkConfig, env []string, days int, label string, args ...string) BenchmarkResult {
	fmt.Printf("Running %s on %d-day series\n", label, days)

	cold, times := runBenchmark(config, env, args)

	coldTimeStr := "TIMEOUT"
	if cold > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", cold)
	}
	warmAvg := "TIMEOUT"
	if len(times) > 0 {
		var sum float64
		for _, t := range times {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		SeriesDays: days,
		Command:    label,
		ColdTime:   coldTimeStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes a callsight command config.Runs times and returns
// the cold time and warm times.
func runBenchmark(config BenchmarkConfig, env, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("callsight", args...)
		cmd.Env = append(os.Environ(), env...)

		done := make(chan bool)
		var cmdErr error

		go func() {
			cmdErr = cmd.Run()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// runOnce runs a single callsight command to completion.
func runOnce(config BenchmarkConfig, env []string, args ...string) error {
	cmd := exec.Command("callsight", args...)
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w\n%s", strings.Join(args, " "), err, string(output))
	}
	return nil
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/callsight_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"series_days", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		record := []string{
			fmt.Sprintf("%d", result.SeriesDays),
			result.Command,
			result.ColdTime,
			result.WarmTime,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %6d days %-32s: Cold: %s, Warm: %s\n",
			result.SeriesDays, result.Command, result.ColdTime, result.WarmTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
