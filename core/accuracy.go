package core

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/callsight/callsight/core/strategy"
	"github.com/callsight/callsight/internal/metrics"
	"github.com/callsight/callsight/schema"
)

// ComputeAccuracy backtests every registered method against the trailing
// holdout window. The series is split into training observations and the
// last HoldoutWindow actuals; each method fits on the training slice only
// and is scored on how well it predicts the held-out week.
//
// The five backtests run concurrently. A method whose fit fails is recorded
// in Skipped with its failure reason rather than aborting the report, so one
// fragile method never hides the scores of the others.
func (e *Engine) ComputeAccuracy(ctx context.Context) (*schema.AccuracyReport, error) {
	history, err := e.stores.GetSeriesStore().ListObservations(ctx)
	if err != nil {
		return nil, schema.NewPersistenceError("list observations", err)
	}
	if len(history) < schema.MinAccuracyPoints {
		return nil, schema.NewInsufficientDataError(len(history), schema.MinAccuracyPoints)
	}

	split := len(history) - schema.HoldoutWindow
	train := history[:split]
	actual := make([]float64, schema.HoldoutWindow)
	for i, obs := range history[split:] {
		actual[i] = float64(obs.CallsVolume)
	}

	report := &schema.AccuracyReport{
		HoldoutDays: schema.HoldoutWindow,
		Methods:     make(map[schema.Method]schema.MethodAccuracy),
		Skipped:     make(map[schema.Method]string),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, method := range e.registry.Methods() {
		strat, err := e.registry.Resolve(method)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			pred, fitErr := e.backtest(gctx, strat, train)

			mu.Lock()
			defer mu.Unlock()
			if fitErr != nil {
				report.Skipped[method] = fitErr.Error()
				metrics.AccuracyMethodsSkippedTotal.WithLabelValues(string(method)).Inc()
				return nil
			}
			report.Methods[method] = scoreBacktest(actual, pred.Points)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(report.Skipped) == 0 {
		report.Skipped = nil
	}
	report.GeneratedAt = time.Now().UTC()
	metrics.AccuracyRunsTotal.Inc()
	return report, nil
}

// backtest fits one strategy on the training slice and predicts the holdout
// window. Unlike the forecast path there is no naive substitution here: a
// failed fit propagates so the method can be omitted from the report.
func (e *Engine) backtest(ctx context.Context, strat strategy.Strategy, train []schema.Observation) (*strategy.Prediction, error) {
	if err := e.fitSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.fitSem.Release(1)

	started := time.Now()
	pred, err := strat.FitAndPredict(train, schema.HoldoutWindow, schema.DefaultConfidence)
	metrics.FitDurationSeconds.WithLabelValues(string(strat.Name())).Observe(time.Since(started).Seconds())
	return pred, err
}

// scoreBacktest computes MAE and RMSE between the held-out actuals and the
// backtest predictions. Both slices have HoldoutWindow entries.
func scoreBacktest(actual, predicted []float64) schema.MethodAccuracy {
	var absSum, sqSum float64
	for i := range actual {
		diff := actual[i] - predicted[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
	}
	n := float64(len(actual))
	return schema.MethodAccuracy{
		MAE:         absSum / n,
		RMSE:        math.Sqrt(sqSum / n),
		Actual:      actual,
		Predictions: predicted,
	}
}
