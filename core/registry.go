package core

import (
	"github.com/callsight/callsight/core/strategy"
	"github.com/callsight/callsight/schema"
)

// Registry maps method identifiers to strategy implementations. The method
// set is closed: the five strategies registered at construction are the only
// ones that exist.
type Registry struct {
	strategies map[schema.Method]strategy.Strategy
}

// NewRegistry builds the registry with all five strategies using the given
// tuning configuration.
func NewRegistry(cfg strategy.FitConfig) *Registry {
	r := &Registry{strategies: make(map[schema.Method]strategy.Strategy)}
	for _, s := range []strategy.Strategy{
		strategy.NewARIMA(cfg),
		strategy.NewExponentialSmoothing(cfg),
		strategy.NewRandomForest(cfg),
		strategy.NewLinearRegression(cfg),
		strategy.NewSeasonalDecompose(cfg),
	} {
		r.strategies[s.Name()] = s
	}
	return r
}

// Resolve returns the strategy for a method identifier, or an unknown-method
// error for anything outside the closed set.
func (r *Registry) Resolve(method schema.Method) (strategy.Strategy, error) {
	s, ok := r.strategies[method]
	if !ok {
		return nil, schema.NewUnknownMethodError(method)
	}
	return s, nil
}

// Methods returns the registered method identifiers in registration order.
func (r *Registry) Methods() []schema.Method {
	methods := make([]schema.Method, 0, len(r.strategies))
	for _, m := range schema.AllMethods {
		if _, ok := r.strategies[m]; ok {
			methods = append(methods, m)
		}
	}
	return methods
}
