package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/internal/metrics"
	"github.com/callsight/callsight/schema"
)

// SeriesStoreImpl stores the historical observation series in SQL.
// The calendar day is the upsert key, so corrections for an already-recorded
// day replace the old row instead of duplicating it.
type SeriesStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.SeriesStore = &SeriesStoreImpl{} // Compile-time check

// UpsertObservation inserts or replaces the observation for its date.
func (s *SeriesStoreImpl) UpsertObservation(ctx context.Context, obs schema.Observation) error {
	query := s.getUpsertQuery()
	_, err := s.db.ExecContext(ctx, query,
		obs.Date.String(), obs.ID, obs.CallsVolume, obs.StaffingLevel, obs.ServiceLevel,
		obs.Timestamp.Format(sortableTimeLayout))
	if err != nil {
		return fmt.Errorf("failed to upsert observation for %s: %w", obs.Date, err)
	}
	metrics.ObservationsIngestedTotal.Inc()
	return nil
}

// BulkUpsertObservations upserts a batch inside one transaction and returns
// the number written. The batch is all-or-nothing.
func (s *SeriesStoreImpl) BulkUpsertObservations(ctx context.Context, batch []schema.Observation) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin bulk upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.getUpsertQuery())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare bulk upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, obs := range batch {
		if _, err := stmt.ExecContext(ctx,
			obs.Date.String(), obs.ID, obs.CallsVolume, obs.StaffingLevel, obs.ServiceLevel,
			obs.Timestamp.Format(sortableTimeLayout)); err != nil {
			return 0, fmt.Errorf("failed to upsert observation for %s: %w", obs.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk upsert: %w", err)
	}
	metrics.ObservationsIngestedTotal.Add(float64(len(batch)))
	return len(batch), nil
}

// getUpsertQuery returns the UPSERT query for the backend.
func (s *SeriesStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(observationsTable, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (obs_date, obs_id, calls_volume, staffing_level, service_level, created_at) VALUES (?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE obs_id = new.obs_id, calls_volume = new.calls_volume, staffing_level = new.staffing_level, service_level = new.service_level, created_at = new.created_at`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (obs_date, obs_id, calls_volume, staffing_level, service_level, created_at) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (obs_date) DO UPDATE SET obs_id = EXCLUDED.obs_id, calls_volume = EXCLUDED.calls_volume, staffing_level = EXCLUDED.staffing_level, service_level = EXCLUDED.service_level, created_at = EXCLUDED.created_at`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (obs_date, obs_id, calls_volume, staffing_level, service_level, created_at) VALUES (?, ?, ?, ?, ?, ?)`, quotedTableName)
	}
}

// ListObservations returns the full series ordered by date ascending.
func (s *SeriesStoreImpl) ListObservations(ctx context.Context) ([]schema.Observation, error) {
	quotedTableName := quoteTableName(observationsTable, s.backend)
	query := fmt.Sprintf(`SELECT obs_date, obs_id, calls_volume, staffing_level, service_level, created_at FROM %s ORDER BY obs_date ASC`, quotedTableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.Observation
	for rows.Next() {
		var dateStr, createdStr string
		var obs schema.Observation
		if err := rows.Scan(&dateStr, &obs.ID, &obs.CallsVolume, &obs.StaffingLevel, &obs.ServiceLevel, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		obs.Date, err = schema.ParseDay(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse obs_date: %w", err)
		}
		obs.Timestamp, err = time.Parse(time.RFC3339Nano, createdStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		results = append(results, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}
	return results, nil
}

// DeleteAllObservations clears the series and returns the rows removed.
func (s *SeriesStoreImpl) DeleteAllObservations(ctx context.Context) (int64, error) {
	quotedTableName := quoteTableName(observationsTable, s.backend)
	result, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", quotedTableName))
	if err != nil {
		return 0, fmt.Errorf("failed to delete observations: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted observations: %w", err)
	}
	return deleted, nil
}

// GetStatus returns status information about the series store.
func (s *SeriesStoreImpl) GetStatus(ctx context.Context) (schema.SeriesStatus, error) {
	status := schema.SeriesStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(observationsTable, s.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&status.Observations); err != nil {
		return status, fmt.Errorf("failed to get observation count: %w", err)
	}
	if status.Observations == 0 {
		return status, nil
	}

	rangeQuery := fmt.Sprintf("SELECT MIN(obs_date), MAX(obs_date) FROM %s", quotedTableName)
	var firstStr, lastStr string
	if err := s.db.QueryRowContext(ctx, rangeQuery).Scan(&firstStr, &lastStr); err != nil {
		return status, fmt.Errorf("failed to get date range: %w", err)
	}

	first, err := schema.ParseDay(firstStr)
	if err != nil {
		return status, fmt.Errorf("failed to parse first date: %w", err)
	}
	last, err := schema.ParseDay(lastStr)
	if err != nil {
		return status, fmt.Errorf("failed to parse last date: %w", err)
	}
	status.FirstDate = &first
	status.LastDate = &last
	return status, nil
}

// Close closes the underlying connection.
func (s *SeriesStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
