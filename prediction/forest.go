package prediction

import (
	"math"
	"math/rand"
	"time"
)

// Forest is a bagged ensemble of regression trees over the 5-feature
// encoding produced by EncodeFeatures. It is JSON-serializable so the
// trained model can be persisted as an artifact and reloaded at startup.
type Forest struct {
	Trees       []*treeNode `json:"trees"`
	NumFeatures int         `json:"num_features"`
	Version     string      `json:"version"`
	TrainedAt   time.Time   `json:"trained_at"`
}

type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Value     float64   `json:"value,omitempty"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

// ForestConfig bounds tree growth. The defaults are sized for the small
// labeled batches the training endpoint accepts.
type ForestConfig struct {
	NumTrees         int
	MaxDepth         int
	MinLeafSize      int
	FeaturesPerSplit int
}

func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:         50,
		MaxDepth:         6,
		MinLeafSize:      2,
		FeaturesPerSplit: 3,
	}
}

// FitForest trains a forest on X (rows of feature vectors) and y.
// Bootstrap sampling and feature subsetting draw from rng, so a seeded
// source makes the fit reproducible.
func FitForest(X [][]float64, y []float64, cfg ForestConfig, rng *rand.Rand) *Forest {
	numFeatures := 0
	if len(X) > 0 {
		numFeatures = len(X[0])
	}

	f := &Forest{
		Trees:       make([]*treeNode, 0, cfg.NumTrees),
		NumFeatures: numFeatures,
		TrainedAt:   time.Now().UTC(),
	}

	for t := 0; t < cfg.NumTrees; t++ {
		indices := make([]int, len(X))
		for i := range indices {
			indices[i] = rng.Intn(len(X))
		}
		tree := growTree(X, y, indices, cfg, rng, 0)
		f.Trees = append(f.Trees, tree)
	}
	return f
}

// Predict returns the mean of the per-tree predictions.
func (f *Forest) Predict(features []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, tree := range f.Trees {
		sum += tree.predict(features)
	}
	return sum / float64(len(f.Trees))
}

func (n *treeNode) predict(features []float64) float64 {
	for !n.Leaf {
		if features[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func growTree(X [][]float64, y []float64, indices []int, cfg ForestConfig, rng *rand.Rand, depth int) *treeNode {
	if depth >= cfg.MaxDepth || len(indices) < 2*cfg.MinLeafSize || pure(y, indices) {
		return &treeNode{Leaf: true, Value: meanAt(y, indices)}
	}

	feature, threshold, ok := bestSplit(X, y, indices, cfg, rng)
	if !ok {
		return &treeNode{Leaf: true, Value: meanAt(y, indices)}
	}

	var left, right []int
	for _, i := range indices {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < cfg.MinLeafSize || len(right) < cfg.MinLeafSize {
		return &treeNode{Leaf: true, Value: meanAt(y, indices)}
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(X, y, left, cfg, rng, depth+1),
		Right:     growTree(X, y, right, cfg, rng, depth+1),
	}
}

// bestSplit searches a random feature subset for the threshold that
// minimizes the summed squared error of the two halves.
func bestSplit(X [][]float64, y []float64, indices []int, cfg ForestConfig, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(X[indices[0]])
	perm := rng.Perm(numFeatures)
	tryCount := cfg.FeaturesPerSplit
	if tryCount > numFeatures {
		tryCount = numFeatures
	}

	bestSSE := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	for _, feature := range perm[:tryCount] {
		values := make([]float64, 0, len(indices))
		for _, i := range indices {
			values = append(values, X[i][feature])
		}
		for _, threshold := range candidateThresholds(values) {
			sse := splitSSE(X, y, indices, feature, threshold, cfg.MinLeafSize)
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// candidateThresholds are the midpoints between consecutive distinct
// sorted values.
func candidateThresholds(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	var thresholds []float64
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			thresholds = append(thresholds, (sorted[i]+sorted[i-1])/2)
		}
	}
	return thresholds
}

func splitSSE(X [][]float64, y []float64, indices []int, feature int, threshold float64, minLeaf int) float64 {
	var leftSum, rightSum float64
	var leftN, rightN int
	for _, i := range indices {
		if X[i][feature] <= threshold {
			leftSum += y[i]
			leftN++
		} else {
			rightSum += y[i]
			rightN++
		}
	}
	if leftN < minLeaf || rightN < minLeaf {
		return math.Inf(1)
	}

	leftMean := leftSum / float64(leftN)
	rightMean := rightSum / float64(rightN)

	sse := 0.0
	for _, i := range indices {
		if X[i][feature] <= threshold {
			d := y[i] - leftMean
			sse += d * d
		} else {
			d := y[i] - rightMean
			sse += d * d
		}
	}
	return sse
}

func meanAt(y []float64, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range indices {
		sum += y[i]
	}
	return sum / float64(len(indices))
}

func pure(y []float64, indices []int) bool {
	for _, i := range indices[1:] {
		if y[i] != y[indices[0]] {
			return false
		}
	}
	return true
}
