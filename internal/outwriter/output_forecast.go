package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/schema"
)

// WriteForecast outputs one forecast result, dispatching based on the output format configured.
func WriteForecast(result *schema.ForecastResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastCSV(w, result, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastTable(result, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeForecastTable generates and writes the human-readable table.
func writeForecastTable(result *schema.ForecastResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	table.Header([]string{"Day", "Date", "Calls", "Lower", "Upper", "Agents"})

	// 2. Configure alignment for the numeric columns
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, date := range result.ForecastDates {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			date.String(),
			fmtFloat(result.PredictedCalls[i]),
			fmtFloat(result.ConfidenceIntervals.Lower[i]),
			fmtFloat(result.ConfidenceIntervals.Upper[i]),
			strconv.Itoa(result.StaffingRecommendations[i]),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	method := string(result.Method)
	if result.Fallback {
		method += " (naive fallback)"
	}
	if _, err := fmt.Fprintf(writer, "Forecast %s: %d days via %s\n", result.ID, len(result.ForecastDates), method); err != nil {
		return err
	}
	if mae, ok := result.AccuracyMetrics["mae"]; ok {
		if _, err := fmt.Fprintf(writer, "In-sample fit: mae=%s rmse=%s\n", fmtFloat(mae), fmtFloat(result.AccuracyMetrics["rmse"])); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Forecast completed in %v. Database backend: %s\n", duration, cfg.Backend); err != nil {
		return err
	}
	return nil
}

// writeForecastCSV writes one row per forecast day in CSV format.
func writeForecastCSV(w io.Writer, result *schema.ForecastResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"day",
		"date",
		"method",
		"predicted_calls",
		"lower_bound",
		"upper_bound",
		"recommended_agents",
		"fallback",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i, date := range result.ForecastDates {
			rec := []string{
				strconv.Itoa(i + 1),
				date.String(),
				string(result.Method),
				fmtFloat(result.PredictedCalls[i]),
				fmtFloat(result.ConfidenceIntervals.Lower[i]),
				fmtFloat(result.ConfidenceIntervals.Upper[i]),
				fmt.Sprintf(intFmt, result.StaffingRecommendations[i]),
				strconv.FormatBool(result.Fallback),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteForecastList outputs stored forecast runs, newest first.
func WriteForecastList(results []schema.ForecastResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastListCSV(w, results)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastListTable(results, fmtFloat, w)
		}, "Wrote table")
	}
}

// writeForecastListTable writes one summary row per stored run.
func writeForecastListTable(results []schema.ForecastResult, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Method", "Days", "From", "First Day Calls", "Created"})

	var data [][]string
	for _, result := range results {
		firstDay := ""
		firstCalls := ""
		if len(result.ForecastDates) > 0 {
			firstDay = result.ForecastDates[0].String()
			firstCalls = fmtFloat(result.PredictedCalls[0])
		}
		data = append(data, []string{
			result.ID,
			string(result.Method),
			strconv.Itoa(len(result.ForecastDates)),
			firstDay,
			firstCalls,
			result.Timestamp.Format(time.RFC3339),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d stored forecasts (newest first)\n", len(results))
	return err
}

// writeForecastListCSV writes the stored run summaries in CSV format.
func writeForecastListCSV(w io.Writer, results []schema.ForecastResult) error {
	header := []string{"id", "method", "days", "from", "fallback", "created"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, result := range results {
			firstDay := ""
			if len(result.ForecastDates) > 0 {
				firstDay = result.ForecastDates[0].String()
			}
			rec := []string{
				result.ID,
				string(result.Method),
				strconv.Itoa(len(result.ForecastDates)),
				firstDay,
				strconv.FormatBool(result.Fallback),
				result.Timestamp.Format(time.RFC3339),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
