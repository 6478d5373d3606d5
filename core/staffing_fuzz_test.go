package core

import (
	"math"
	"testing"

	"github.com/callsight/callsight/internal/contract"
)

// FuzzRecommendStaffing fuzzes the staffing translator with random call
// volumes and capacity parameters, checking the invariants that hold for
// every configuration the validation layer accepts.
func FuzzRecommendStaffing(f *testing.F) {
	seeds := []struct {
		calls     float64
		aht       float64
		targetSL  float64
		answer    float64
		shrinkage float64
		workday   float64
	}{
		{150, 300, 0.80, 20, 0.30, 8 * 3600},
		{0, 300, 0.80, 20, 0.30, 8 * 3600},      // empty day
		{1, 60, 0.50, 10, 0, 4 * 3600},          // tiny volume, no shrinkage
		{50000, 600, 0.95, 15, 0.45, 12 * 3600}, // heavy load, strict target
		{-25, 300, 0.80, 20, 0.30, 8 * 3600},    // negative volume
	}
	for _, seed := range seeds {
		f.Add(seed.calls, seed.aht, seed.targetSL, seed.answer, seed.shrinkage, seed.workday)
	}

	f.Fuzz(func(t *testing.T, calls, aht, targetSL, answer, shrinkage, workday float64) {
		// Constrain parameters to the ranges config validation allows.
		if !finitePositive(aht) || !finitePositive(answer) || !finitePositive(workday) {
			t.Skip("invalid capacity parameter")
		}
		if math.IsNaN(calls) || math.IsInf(calls, 0) || calls > 1e9 {
			t.Skip("volume out of range")
		}
		if math.IsNaN(targetSL) || targetSL <= 0 || targetSL >= 1 {
			t.Skip("invalid fraction")
		}
		if math.IsNaN(shrinkage) || shrinkage < 0 || shrinkage >= 1 {
			t.Skip("invalid fraction")
		}

		cfg := contract.StaffingConfig{
			AvgHandleTimeSec:   aht,
			TargetServiceLevel: targetSL,
			AnswerWithinSec:    answer,
			ShrinkageFactor:    shrinkage,
			WorkdaySec:         workday,
			CallsPerAgentDay:   96,
		}

		agents := RecommendStaffing(calls, cfg)
		if agents < 0 {
			t.Fatalf("negative staffing %d for calls=%v cfg=%+v", agents, calls, cfg)
		}
		if calls > 0 && agents < 1 {
			t.Fatalf("zero staffing for positive volume calls=%v cfg=%+v", calls, cfg)
		}
		if calls <= 0 && agents != 0 {
			t.Fatalf("staffing %d for empty day calls=%v", agents, calls)
		}

		// Doubling the volume never reduces headcount while both loads stay
		// inside the Erlang search range.
		if calls > 0 && 2*calls*aht/workday < 4000 {
			if doubled := RecommendStaffing(calls*2, cfg); doubled < agents {
				t.Fatalf("staffing fell from %d to %d when calls doubled from %v", agents, doubled, calls)
			}
		}
	})
}

// finitePositive reports whether v is a usable positive parameter value.
func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
