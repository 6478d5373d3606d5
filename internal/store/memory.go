package store

import (
	"context"
	"sort"
	"sync"

	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/schema"
)

// MemoryManager is an in-memory StoreManager for testing transports and
// tooling without a database.
type MemoryManager struct {
	series    MemorySeriesStore
	forecasts MemoryForecastStore
}

var _ contract.StoreManager = &MemoryManager{} // Compile-time check

// NewMemoryManager creates an empty in-memory store manager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{}
}

// GetSeriesStore implements the StoreManager interface.
func (m *MemoryManager) GetSeriesStore() contract.SeriesStore { return &m.series }

// GetForecastStore implements the StoreManager interface.
func (m *MemoryManager) GetForecastStore() contract.ForecastStore { return &m.forecasts }

// MemorySeriesStore is an in-memory SeriesStore keyed by date.
type MemorySeriesStore struct {
	mu    sync.Mutex
	byDay map[string]schema.Observation

	// UpsertErr, when set, is returned by every write.
	UpsertErr error
	// ListErr, when set, is returned by every read.
	ListErr error
}

var _ contract.SeriesStore = &MemorySeriesStore{} // Compile-time check

// UpsertObservation implements the SeriesStore interface.
func (s *MemorySeriesStore) UpsertObservation(_ context.Context, obs schema.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpsertErr != nil {
		return s.UpsertErr
	}
	if s.byDay == nil {
		s.byDay = make(map[string]schema.Observation)
	}
	s.byDay[obs.Date.String()] = obs
	return nil
}

// BulkUpsertObservations implements the SeriesStore interface.
func (s *MemorySeriesStore) BulkUpsertObservations(ctx context.Context, batch []schema.Observation) (int, error) {
	for _, obs := range batch {
		if err := s.UpsertObservation(ctx, obs); err != nil {
			return 0, err
		}
	}
	return len(batch), nil
}

// ListObservations implements the SeriesStore interface.
func (s *MemorySeriesStore) ListObservations(_ context.Context) ([]schema.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	results := make([]schema.Observation, 0, len(s.byDay))
	for _, obs := range s.byDay {
		results = append(results, obs)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date.String() < results[j].Date.String()
	})
	return results, nil
}

// DeleteAllObservations implements the SeriesStore interface.
func (s *MemorySeriesStore) DeleteAllObservations(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := int64(len(s.byDay))
	s.byDay = nil
	return deleted, nil
}

// GetStatus implements the SeriesStore interface.
func (s *MemorySeriesStore) GetStatus(ctx context.Context) (schema.SeriesStatus, error) {
	observations, err := s.ListObservations(ctx)
	if err != nil {
		return schema.SeriesStatus{Backend: "memory"}, err
	}
	status := schema.SeriesStatus{
		Backend:      "memory",
		Connected:    true,
		Observations: int64(len(observations)),
	}
	if len(observations) > 0 {
		status.FirstDate = &observations[0].Date
		status.LastDate = &observations[len(observations)-1].Date
	}
	return status, nil
}

// Close implements the SeriesStore interface.
func (s *MemorySeriesStore) Close() error { return nil }

// MemoryForecastStore is an in-memory append-only ForecastStore.
type MemoryForecastStore struct {
	mu      sync.Mutex
	results []schema.ForecastResult

	// AppendErr, when set, is returned by every append.
	AppendErr error
}

var _ contract.ForecastStore = &MemoryForecastStore{} // Compile-time check

// AppendForecast implements the ForecastStore interface.
func (f *MemoryForecastStore) AppendForecast(_ context.Context, result schema.ForecastResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AppendErr != nil {
		return f.AppendErr
	}
	f.results = append(f.results, result)
	return nil
}

// ListForecasts implements the ForecastStore interface.
func (f *MemoryForecastStore) ListForecasts(_ context.Context, limit int) ([]schema.ForecastResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listed := make([]schema.ForecastResult, 0, limit)
	for i := len(f.results) - 1; i >= 0 && len(listed) < limit; i-- {
		listed = append(listed, f.results[i])
	}
	return listed, nil
}

// GetStatus implements the ForecastStore interface.
func (f *MemoryForecastStore) GetStatus(_ context.Context) (schema.ForecastLogStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := schema.ForecastLogStatus{
		Backend:   "memory",
		Connected: true,
		Forecasts: int64(len(f.results)),
	}
	if len(f.results) > 0 {
		newest := f.results[len(f.results)-1].Timestamp
		status.Newest = &newest
	}
	return status, nil
}

// Close implements the ForecastStore interface.
func (f *MemoryForecastStore) Close() error { return nil }
