package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/internal/store"
	"github.com/callsight/callsight/schema"
)

// ParseObservationsCSV reads daily observations from CSV input. The header
// must contain date and calls_volume columns; staffing_level and
// service_level are optional and default to zero. Rows are stamped with
// fresh IDs and the current ingestion time.
func ParseObservationsCSV(r io.Reader) ([]schema.Observation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, schema.NewValidationError("csv input is empty or unreadable: %v", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	dateIdx, ok := columns["date"]
	if !ok {
		return nil, schema.NewValidationError("csv header is missing the date column")
	}
	callsIdx, ok := columns["calls_volume"]
	if !ok {
		return nil, schema.NewValidationError("csv header is missing the calls_volume column")
	}
	staffingIdx, hasStaffing := columns["staffing_level"]
	serviceIdx, hasService := columns["service_level"]

	now := time.Now().UTC()
	var observations []schema.Observation
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, schema.NewValidationError("csv line %d is malformed: %v", line, err)
		}

		date, err := schema.ParseDay(record[dateIdx])
		if err != nil {
			return nil, schema.NewValidationError("csv line %d: %v", line, err)
		}
		calls, err := strconv.Atoi(strings.TrimSpace(record[callsIdx]))
		if err != nil || calls < 0 {
			return nil, schema.NewValidationError("csv line %d: calls_volume must be a non-negative integer, got %q", line, record[callsIdx])
		}

		obs := schema.Observation{
			ID:          uuid.New().String(),
			Date:        date,
			CallsVolume: calls,
			Timestamp:   now,
		}
		if hasStaffing {
			if obs.StaffingLevel, err = strconv.Atoi(strings.TrimSpace(record[staffingIdx])); err != nil {
				return nil, schema.NewValidationError("csv line %d: staffing_level must be an integer, got %q", line, record[staffingIdx])
			}
		}
		if hasService {
			if obs.ServiceLevel, err = strconv.ParseFloat(strings.TrimSpace(record[serviceIdx]), 64); err != nil {
				return nil, schema.NewValidationError("csv line %d: service_level must be a number, got %q", line, record[serviceIdx])
			}
		}
		observations = append(observations, obs)
	}

	if len(observations) == 0 {
		return nil, schema.NewValidationError("csv input contains no data rows")
	}
	return observations, nil
}

// ExecuteImport loads a CSV file of observations into the series store.
// It serves as the main entry point for the 'data import' command.
func ExecuteImport(ctx context.Context, cfg *contract.Config, csvPath string) error {
	file, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", csvPath, err)
	}
	defer func() { _ = file.Close() }()

	observations, err := ParseObservationsCSV(file)
	if err != nil {
		return err
	}

	written, err := store.Manager.GetSeriesStore().BulkUpsertObservations(ctx, observations)
	if err != nil {
		return schema.NewPersistenceError("bulk upsert observations", err)
	}
	fmt.Printf("Imported %d observations from %s\n", written, csvPath)
	return nil
}

// ExecuteClearSeries deletes every stored observation.
// It serves as the main entry point for the 'data clear' command.
func ExecuteClearSeries(ctx context.Context, _ *contract.Config) error {
	deleted, err := store.Manager.GetSeriesStore().DeleteAllObservations(ctx)
	if err != nil {
		return schema.NewPersistenceError("delete observations", err)
	}
	fmt.Printf("Deleted %d observations\n", deleted)
	return nil
}
