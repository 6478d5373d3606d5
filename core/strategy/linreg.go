package strategy

import (
	"fmt"
	"math"

	"github.com/callsight/callsight/schema"
)

// LinearRegression fits a least-squares trend line over the time index with
// a day-of-week adjustment from the fit residuals. Bounds come from the
// standard prediction-interval formula using the residual standard error.
type LinearRegression struct {
	cfg FitConfig
}

// NewLinearRegression creates a linear-regression strategy.
func NewLinearRegression(cfg FitConfig) *LinearRegression {
	return &LinearRegression{cfg: cfg}
}

// Name returns the method identifier.
func (s *LinearRegression) Name() schema.Method {
	return schema.LinearRegressionMethod
}

// FitAndPredict implements the Strategy contract.
func (s *LinearRegression) FitAndPredict(history []schema.Observation, horizon int, confidence float64) (*Prediction, error) {
	vals := volumes(history)
	n := len(vals)

	// Least squares over t = 0..n-1:
	// slope = (n*sum(t*y) - sum(t)*sum(y)) / (n*sum(t^2) - sum(t)^2)
	nf := float64(n)
	sumT, sumY, sumTY, sumT2 := 0.0, 0.0, 0.0, 0.0
	for t, y := range vals {
		tf := float64(t)
		sumT += tf
		sumY += y
		sumTY += tf * y
		sumT2 += tf * tf
	}

	denominator := nf*sumT2 - sumT*sumT
	if math.Abs(denominator) < 1e-10 {
		return nil, fmt.Errorf("time index is degenerate, cannot fit a trend line")
	}
	slope := (nf*sumTY - sumT*sumY) / denominator
	intercept := (sumY - slope*sumT) / nf

	// Residuals of the trend fit, and the mean residual per weekday.
	fitted := make([]float64, n)
	residuals := make([]float64, n)
	weekdaySum := make([]float64, 7)
	weekdayCount := make([]int, 7)
	for t := range n {
		fitted[t] = intercept + slope*float64(t)
		residuals[t] = vals[t] - fitted[t]
		wd := int(history[t].Date.Weekday())
		weekdaySum[wd] += residuals[t]
		weekdayCount[wd]++
	}
	weekdayAdj := make([]float64, 7)
	for wd := range 7 {
		if weekdayCount[wd] > 0 {
			weekdayAdj[wd] = weekdaySum[wd] / float64(weekdayCount[wd])
		}
	}
	for t := range n {
		fitted[t] += weekdayAdj[int(history[t].Date.Weekday())]
	}

	// Residual standard error of the trend fit.
	sumSqResiduals := 0.0
	for _, r := range residuals {
		sumSqResiduals += r * r
	}
	stdError := 0.0
	if n > 2 {
		stdError = math.Sqrt(sumSqResiduals / float64(n-2))
	}

	meanT := sumT / nf
	sumSqDevT := 0.0
	for t := range n {
		sumSqDevT += (float64(t) - meanT) * (float64(t) - meanT)
	}

	z := zScore(confidence)
	lastDate := history[n-1].Date

	points := make([]float64, horizon)
	margins := make([]float64, horizon)
	for i := range horizon {
		t := float64(n + i)
		wd := int(lastDate.AddDays(i + 1).Weekday())
		points[i] = intercept + slope*t + weekdayAdj[wd]

		// Prediction standard error grows with distance from the
		// training mean: s * sqrt(1 + 1/n + (t - t̄)²/Stt)
		predStdError := stdError * math.Sqrt(1+1/nf+(t-meanT)*(t-meanT)/sumSqDevT)
		margins[i] = z * predStdError
	}

	pred := finishPrediction(points, margins)
	pred.FitMetrics = fitMetrics(vals, fitted)
	return pred, nil
}
