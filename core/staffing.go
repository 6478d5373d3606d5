package core

import (
	"math"

	"github.com/callsight/callsight/internal/contract"
)

// maxErlangAgents bounds the Erlang-C search so staffing translation always
// completes in bounded time. Daily volumes that would need more agents than
// this are handled by the ratio fallback.
const maxErlangAgents = 5000

// RecommendStaffing converts a predicted daily call volume into a recommended
// agent count using the Erlang-C queueing model: find the smallest agent count
// whose expected service level (fraction answered within the target threshold)
// meets the configured target, then inflate for shrinkage. The result is
// monotone in call volume and at least 1 whenever predicted calls > 0.
func RecommendStaffing(predictedCalls float64, cfg contract.StaffingConfig) int {
	if predictedCalls <= 0 {
		return 0
	}

	// Offered load in Erlangs over the staffed day.
	intensity := predictedCalls * cfg.AvgHandleTimeSec / cfg.WorkdaySec

	agents := erlangAgents(intensity, cfg)
	if agents <= 0 {
		// Ratio fallback: ceil(calls / capacity / target service level).
		agents = int(math.Ceil(predictedCalls / cfg.CallsPerAgentDay / cfg.TargetServiceLevel))
	}

	if cfg.ShrinkageFactor > 0 && cfg.ShrinkageFactor < 1 {
		agents = int(math.Ceil(float64(agents) / (1 - cfg.ShrinkageFactor)))
	}
	return max(1, agents)
}

// erlangAgents searches for the smallest agent count meeting the service
// target, or returns 0 when the search exceeds the agent bound.
func erlangAgents(intensity float64, cfg contract.StaffingConfig) int {
	start := int(math.Ceil(intensity)) + 1
	for n := max(1, start); n <= maxErlangAgents; n++ {
		waitProb := erlangC(float64(n), intensity)
		serviceLevel := 1 - waitProb*math.Exp(-(float64(n)-intensity)*cfg.AnswerWithinSec/cfg.AvgHandleTimeSec)
		if serviceLevel >= cfg.TargetServiceLevel {
			return n
		}
	}
	return 0
}

// erlangC returns the probability an arriving call waits, given n agents and
// offered load a. Computed through the numerically stable Erlang-B recursion
// B(k, a) = a*B(k-1, a) / (k + a*B(k-1, a)).
func erlangC(n, a float64) float64 {
	if a <= 0 {
		return 0
	}
	b := 1.0
	for k := 1.0; k <= n; k++ {
		b = a * b / (k + a*b)
	}
	rho := a / n
	return b / (1 - rho + rho*b)
}
