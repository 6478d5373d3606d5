package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/schema"
)

// ForecastStoreImpl stores the append-only forecast log in SQL. Each result
// is one row whose payload column holds the full JSON document, so an append
// is a single atomic insert and readers never see a partial result.
type ForecastStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ForecastStore = &ForecastStoreImpl{} // Compile-time check

// AppendForecast persists one immutable forecast result.
func (f *ForecastStoreImpl) AppendForecast(ctx context.Context, result schema.ForecastResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal forecast %s: %w", result.ID, err)
	}

	quotedTableName := quoteTableName(forecastsTable, f.backend)
	query := fmt.Sprintf(`INSERT INTO %s (forecast_id, method, payload, created_at) VALUES (%s, %s, %s, %s)`,
		quotedTableName,
		getPlaceholder(f.backend, 1), getPlaceholder(f.backend, 2),
		getPlaceholder(f.backend, 3), getPlaceholder(f.backend, 4))

	_, err = f.db.ExecContext(ctx, query,
		result.ID, string(result.Method), string(payload), result.Timestamp.Format(sortableTimeLayout))
	if err != nil {
		return fmt.Errorf("failed to append forecast %s: %w", result.ID, err)
	}
	return nil
}

// ListForecasts returns up to limit results, newest first.
func (f *ForecastStoreImpl) ListForecasts(ctx context.Context, limit int) ([]schema.ForecastResult, error) {
	quotedTableName := quoteTableName(forecastsTable, f.backend)
	query := fmt.Sprintf(`SELECT payload FROM %s ORDER BY created_at DESC, forecast_id LIMIT %s`,
		quotedTableName, getPlaceholder(f.backend, 1))

	rows, err := f.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecasts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ForecastResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan forecast: %w", err)
		}
		var result schema.ForecastResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal forecast: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forecasts: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the forecast log.
func (f *ForecastStoreImpl) GetStatus(ctx context.Context) (schema.ForecastLogStatus, error) {
	status := schema.ForecastLogStatus{
		Backend:   string(f.backend),
		Connected: f.db != nil,
	}
	if f.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(forecastsTable, f.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := f.db.QueryRowContext(ctx, countQuery).Scan(&status.Forecasts); err != nil {
		return status, fmt.Errorf("failed to get forecast count: %w", err)
	}
	if status.Forecasts == 0 {
		return status, nil
	}

	newestQuery := fmt.Sprintf("SELECT MAX(created_at) FROM %s", quotedTableName)
	var newestStr string
	if err := f.db.QueryRowContext(ctx, newestQuery).Scan(&newestStr); err != nil {
		return status, fmt.Errorf("failed to get newest forecast time: %w", err)
	}
	newest, err := time.Parse(time.RFC3339Nano, newestStr)
	if err != nil {
		return status, fmt.Errorf("failed to parse newest forecast time: %w", err)
	}
	status.Newest = &newest
	return status, nil
}

// Close closes the underlying connection.
func (f *ForecastStoreImpl) Close() error {
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}
