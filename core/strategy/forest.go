package strategy

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/callsight/callsight/schema"
)

// RandomForest is a supervised regression ensemble over lag and calendar
// features. Each tree trains on a bootstrap sample with random feature
// subsets at every split; the per-day band comes from the spread of the
// per-tree predictions. Tree count and depth are bounded so a fit always
// completes in bounded time, and the seeded source keeps fits reproducible.
type RandomForest struct {
	cfg FitConfig
}

// NewRandomForest creates a random-forest strategy.
func NewRandomForest(cfg FitConfig) *RandomForest {
	return &RandomForest{cfg: cfg}
}

// Name returns the method identifier.
func (s *RandomForest) Name() schema.Method {
	return schema.RandomForestMethod
}

// FitAndPredict implements the Strategy contract.
func (s *RandomForest) FitAndPredict(history []schema.Observation, horizon int, confidence float64) (*Prediction, error) {
	vals := volumes(history)
	n := len(vals)

	// Lagged training rows: need a handful of full rows after consuming lags.
	lags := min(s.cfg.LagCount, n-5)
	if lags < 1 {
		return nil, fmt.Errorf("series too short for lag features: %d observations", n)
	}

	sampleCount := n - lags
	features := make([][]float64, sampleCount)
	targets := make([]float64, sampleCount)
	for i := range sampleCount {
		t := lags + i
		features[i] = lagRow(history[t].Date, vals, t, lags)
		targets[i] = vals[t]
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	trees := make([]*treeNode, s.cfg.TreeCount)
	for b := range trees {
		sampleIdx := make([]int, sampleCount)
		for i := range sampleIdx {
			sampleIdx[i] = rng.Intn(sampleCount)
		}
		trees[b] = buildTree(features, targets, sampleIdx, 0, s.cfg, rng)
	}

	// In-sample fit for the training metrics.
	fitted := make([]float64, sampleCount)
	for i := range sampleCount {
		fitted[i], _ = predictEnsemble(trees, features[i])
	}
	residualSigma := 0.0
	{
		residuals := make([]float64, sampleCount)
		for i := range sampleCount {
			residuals[i] = targets[i] - fitted[i]
		}
		residualSigma = stdDev(residuals)
	}

	// Recursive multi-step forecast: each predicted day becomes the lag-1
	// input of the next.
	z := zScore(confidence)
	window := append([]float64(nil), vals...)
	lastDate := history[n-1].Date

	points := make([]float64, horizon)
	margins := make([]float64, horizon)
	for i := range horizon {
		date := lastDate.AddDays(i + 1)
		row := lagRow(date, window, len(window), lags)
		point, spread := predictEnsemble(trees, row)

		points[i] = point
		margin := z * spread
		if margin == 0 {
			margin = z * residualSigma
		}
		margins[i] = margin
		window = append(window, math.Max(0, point))
	}

	pred := finishPrediction(points, margins)
	pred.FitMetrics = fitMetrics(targets, fitted)
	return pred, nil
}

// lagRow builds the feature vector for position t: calendar features first,
// then lags 1..lags of the value series.
func lagRow(date schema.Day, vals []float64, t, lags int) []float64 {
	row := make([]float64, 0, 2+lags)
	row = append(row, float64(date.Weekday()), float64(date.Day()))
	for l := 1; l <= lags; l++ {
		row = append(row, vals[t-l])
	}
	return row
}

// treeNode is one node of a regression tree. Leaves carry the mean target.
type treeNode struct {
	featureIdx int
	threshold  float64
	left       *treeNode
	right      *treeNode
	value      float64
	leaf       bool
}

// buildTree grows a regression tree over the bootstrap rows in sampleIdx.
func buildTree(features [][]float64, targets []float64, sampleIdx []int, depth int, cfg FitConfig, rng *rand.Rand) *treeNode {
	sampleTargets := make([]float64, len(sampleIdx))
	for i, idx := range sampleIdx {
		sampleTargets[i] = targets[idx]
	}
	nodeMean := mean(sampleTargets)

	if depth >= cfg.MaxTreeDepth || len(sampleIdx) < 2*cfg.MinLeafSize || stdDev(sampleTargets) < 1e-10 {
		return &treeNode{leaf: true, value: nodeMean}
	}

	bestFeature, bestThreshold, bestScore := -1, 0.0, math.Inf(1)
	featureCount := len(features[0])
	tryCount := max(1, int(math.Sqrt(float64(featureCount))))

	for range tryCount {
		f := rng.Intn(featureCount)
		for _, idx := range sampleIdx {
			threshold := features[idx][f]
			score := splitScore(features, targets, sampleIdx, f, threshold, cfg.MinLeafSize)
			if score < bestScore {
				bestFeature, bestThreshold, bestScore = f, threshold, score
			}
		}
	}
	if bestFeature < 0 {
		return &treeNode{leaf: true, value: nodeMean}
	}

	var leftIdx, rightIdx []int
	for _, idx := range sampleIdx {
		if features[idx][bestFeature] <= bestThreshold {
			leftIdx = append(leftIdx, idx)
		} else {
			rightIdx = append(rightIdx, idx)
		}
	}

	return &treeNode{
		featureIdx: bestFeature,
		threshold:  bestThreshold,
		left:       buildTree(features, targets, leftIdx, depth+1, cfg, rng),
		right:      buildTree(features, targets, rightIdx, depth+1, cfg, rng),
	}
}

// splitScore returns the summed squared error of splitting on feature f at
// the threshold, or +Inf for splits that violate the leaf minimum.
func splitScore(features [][]float64, targets []float64, sampleIdx []int, f int, threshold float64, minLeaf int) float64 {
	var leftSum, leftSq, rightSum, rightSq float64
	var leftN, rightN int
	for _, idx := range sampleIdx {
		y := targets[idx]
		if features[idx][f] <= threshold {
			leftSum += y
			leftSq += y * y
			leftN++
		} else {
			rightSum += y
			rightSq += y * y
			rightN++
		}
	}
	if leftN < minLeaf || rightN < minLeaf {
		return math.Inf(1)
	}
	// SSE = sum(y²) - n*mean² per side.
	leftSSE := leftSq - leftSum*leftSum/float64(leftN)
	rightSSE := rightSq - rightSum*rightSum/float64(rightN)
	return leftSSE + rightSSE
}

// predict walks the tree for one feature row.
func (node *treeNode) predict(row []float64) float64 {
	if node.leaf {
		return node.value
	}
	if row[node.featureIdx] <= node.threshold {
		return node.left.predict(row)
	}
	return node.right.predict(row)
}

// predictEnsemble returns the mean and spread of the per-tree predictions.
func predictEnsemble(trees []*treeNode, row []float64) (float64, float64) {
	preds := make([]float64, len(trees))
	for i, tree := range trees {
		preds[i] = tree.predict(row)
	}
	return mean(preds), stdDev(preds)
}
