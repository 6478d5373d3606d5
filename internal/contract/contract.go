// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/callsight/callsight/schema"
)

// SeriesStore defines read/write access to the ordered historical observation
// series. Implementations must return observations ordered by date ascending
// and treat the date as the unique upsert key.
type SeriesStore interface {
	// UpsertObservation inserts or replaces the observation for its date.
	UpsertObservation(ctx context.Context, obs schema.Observation) error

	// BulkUpsertObservations upserts a batch and returns the number written.
	BulkUpsertObservations(ctx context.Context, batch []schema.Observation) (int, error)

	// ListObservations returns the full series ordered by date ascending.
	ListObservations(ctx context.Context) ([]schema.Observation, error)

	// DeleteAllObservations clears the series and returns the rows removed.
	DeleteAllObservations(ctx context.Context) (int64, error)

	// GetStatus returns status information about the series store.
	GetStatus(ctx context.Context) (schema.SeriesStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// ForecastStore defines append-only access to the persisted forecast log.
// An append is atomic with respect to concurrent readers: a reader never
// observes a half-written result.
type ForecastStore interface {
	// AppendForecast persists one immutable forecast result.
	AppendForecast(ctx context.Context, result schema.ForecastResult) error

	// ListForecasts returns up to limit results, newest first.
	ListForecasts(ctx context.Context, limit int) ([]schema.ForecastResult, error)

	// GetStatus returns status information about the forecast log.
	GetStatus(ctx context.Context) (schema.ForecastLogStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for accessing the persistence layer.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetSeriesStore() SeriesStore
	GetForecastStore() ForecastStore
}
