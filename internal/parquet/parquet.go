// Package parquet provides data structures and functions for exporting
// callsight series and forecast data to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/callsight/callsight/schema"
)

// ObservationRecord represents one historical call-center day.
// This struct maps to the callsight_observations database table.
type ObservationRecord struct {
	// Date is the calendar day in YYYY-MM-DD form
	Date string `parquet:"date,snappy"`

	// CallsVolume is the total calls received that day
	CallsVolume int32 `parquet:"calls_volume,snappy"`

	// StaffingLevel is the agent count that was actually on shift
	StaffingLevel int32 `parquet:"staffing_level,snappy"`

	// ServiceLevel is the fraction of calls answered within target
	ServiceLevel float64 `parquet:"service_level,snappy"`

	// RecordedAt is when the observation was ingested
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// ForecastDayRecord represents one predicted day of one forecast run.
// A forecast run with a 7-day horizon flattens into 7 rows sharing a
// forecast_id, which suits columnar analysis better than nested lists.
type ForecastDayRecord struct {
	// ForecastID references the forecast run this day belongs to
	ForecastID string `parquet:"forecast_id,snappy"`

	// Method is the forecasting method that produced the run
	Method string `parquet:"method,snappy"`

	// Date is the predicted calendar day in YYYY-MM-DD form
	Date string `parquet:"date,snappy"`

	// PredictedCalls is the point prediction for the day
	PredictedCalls float64 `parquet:"predicted_calls,snappy"`

	// LowerBound is the lower confidence bound
	LowerBound float64 `parquet:"lower_bound,snappy"`

	// UpperBound is the upper confidence bound
	UpperBound float64 `parquet:"upper_bound,snappy"`

	// RecommendedAgents is the staffing recommendation for the day
	RecommendedAgents int32 `parquet:"recommended_agents,snappy"`

	// Fallback is true when the run used the naive fallback forecast
	Fallback bool `parquet:"fallback,snappy"`

	// GeneratedAt is when the forecast run was created
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// ConvertObservations converts schema observations to Parquet records.
func ConvertObservations(observations []schema.Observation) []ObservationRecord {
	records := make([]ObservationRecord, len(observations))
	for i, obs := range observations {
		records[i] = ObservationRecord{
			Date:          obs.Date.String(),
			CallsVolume:   int32(obs.CallsVolume),
			StaffingLevel: int32(obs.StaffingLevel),
			ServiceLevel:  obs.ServiceLevel,
			RecordedAt:    obs.Timestamp,
		}
	}
	return records
}

// ConvertForecasts flattens forecast results into per-day Parquet records.
func ConvertForecasts(results []schema.ForecastResult) []ForecastDayRecord {
	var records []ForecastDayRecord
	for _, result := range results {
		for i, date := range result.ForecastDates {
			records = append(records, ForecastDayRecord{
				ForecastID:        result.ID,
				Method:            string(result.Method),
				Date:              date.String(),
				PredictedCalls:    result.PredictedCalls[i],
				LowerBound:        result.ConfidenceIntervals.Lower[i],
				UpperBound:        result.ConfidenceIntervals.Upper[i],
				RecommendedAgents: int32(result.StaffingRecommendations[i]),
				Fallback:          result.Fallback,
				GeneratedAt:       result.Timestamp,
			})
		}
	}
	return records
}

// WriteObservationsParquet writes observation records to a Parquet file.
func WriteObservationsParquet(data []ObservationRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the ObservationRecord struct tags
	writer := parquet.NewGenericWriter[ObservationRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteForecastsParquet writes forecast day records to a Parquet file.
func WriteForecastsParquet(data []ForecastDayRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the ForecastDayRecord struct tags
	writer := parquet.NewGenericWriter[ForecastDayRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}
