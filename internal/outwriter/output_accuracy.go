package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/schema"
)

// WriteAccuracy outputs an accuracy report, dispatching based on the output format configured.
func WriteAccuracy(report *schema.AccuracyReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAccuracyCSV(w, report, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAccuracyTable(report, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// accuracyRatio normalizes MAE against the mean of the held-out actuals so
// methods can be labeled independently of the series scale.
func accuracyRatio(acc schema.MethodAccuracy) float64 {
	var sum float64
	for _, v := range acc.Actual {
		sum += v
	}
	if len(acc.Actual) == 0 || sum == 0 {
		return 0
	}
	return acc.MAE / (sum / float64(len(acc.Actual)))
}

// writeAccuracyTable generates and writes the human-readable table.
func writeAccuracyTable(report *schema.AccuracyReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Method", "MAE", "RMSE", "Quality"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	label := contract.GetPlainLabel
	if cfg.UseColors {
		label = contract.GetColorLabel
	}

	// Preserve the canonical method ordering.
	var data [][]string
	for _, method := range schema.AllMethods {
		acc, ok := report.Methods[method]
		if !ok {
			continue
		}
		data = append(data, []string{
			string(method),
			fmtFloat(acc.MAE),
			fmtFloat(acc.RMSE),
			label(accuracyRatio(acc)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(report.Skipped) > 0 {
		maxWidth := getMaxReasonWidth()
		if _, err := fmt.Fprintln(writer, "Skipped methods:"); err != nil {
			return err
		}
		for _, method := range schema.AllMethods {
			reason, ok := report.Skipped[method]
			if !ok {
				continue
			}
			if _, err := fmt.Fprintf(writer, "  %s: %s\n", method, truncateReason(reason, maxWidth)); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(writer, "Backtested %d methods over a %d-day holdout in %v\n",
		len(report.Methods), report.HoldoutDays, duration); err != nil {
		return err
	}
	return nil
}

// writeAccuracyCSV writes one row per scored method in CSV format.
func writeAccuracyCSV(w io.Writer, report *schema.AccuracyReport, fmtFloat func(float64) string) error {
	header := []string{"method", "mae", "rmse", "quality", "holdout_days"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, method := range schema.AllMethods {
			acc, ok := report.Methods[method]
			if !ok {
				continue
			}
			rec := []string{
				string(method),
				fmtFloat(acc.MAE),
				fmtFloat(acc.RMSE),
				contract.GetPlainLabel(accuracyRatio(acc)),
				fmt.Sprintf("%d", report.HoldoutDays),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
