package bart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestLeafUpdateStats(t *testing.T) {
	residual := []float64{1, 2, 3, 10, 4}
	leaf := &Leaf{Indices: []int{0, 2, 4}}
	leaf.updateStats(residual)

	assert.InDelta(t, 8.0/3.0, leaf.RMean, 1e-12)
	// (1-8/3)² + (3-8/3)² + (4-8/3)²
	assert.InDelta(t, 14.0/3.0, leaf.RSigma, 1e-12)

	empty := &Leaf{RMean: 5, RSigma: 5}
	empty.updateStats(residual)
	assert.Zero(t, empty.RMean)
	assert.Zero(t, empty.RSigma)
}

func TestLeafLogLikelihood(t *testing.T) {
	p := LeafParams{Sigma: 0.5, SigmaPrior: 0.25}
	leaf := &Leaf{RMean: 0.2, RSigma: 0.3, Indices: []int{0, 1, 2, 3}}

	a := 1 / (0.25 * 0.25)
	b := 4 / (0.5 * 0.5)
	want := 0.5*math.Log(a/(a+b)) - 0.3/(2*0.25) - 0.5*a*b*0.04/(a+b)
	assert.InDelta(t, want, LogLikelihood(leaf, p), 1e-12)

	assert.Equal(t, emptyLeafLogLikelihood, LogLikelihood(&Leaf{}, p))
}

func TestBranchLogLikelihoodIsAdditive(t *testing.T) {
	tree, _, branches := sampleTree()
	residual := []float64{0.1, -0.2, 0.4, 0.3, 0.0}
	tree.UpdateStats(residual)
	p := LeafParams{Sigma: 0.3, SigmaPrior: 0.2}

	for _, b := range branches {
		assert.InDelta(t, LogLikelihood(b.Left, p)+LogLikelihood(b.Right, p), LogLikelihood(b, p), 1e-12)
	}
}

func TestGrowthPrior(t *testing.T) {
	assert.InDelta(t, 0.95, GrowthPrior(10, 1, 0.95, 2), 1e-12)
	assert.InDelta(t, 0.95/4, GrowthPrior(5, 2, 0.95, 2), 1e-12)
	assert.InDelta(t, 0.95/9*0.001, GrowthPrior(4, 3, 0.95, 2), 1e-15)
	assert.InDelta(t, 0.95*0.001, GrowthPrior(1, 1, 0.95, 2), 1e-15)
	assert.Zero(t, GrowthPrior(0, 1, 0.95, 2))
}

func TestLogNodePrior(t *testing.T) {
	tree, leaves, branches := sampleTree()
	const alpha, beta = 0.95, 2.0

	assert.InDelta(t, math.Log(1-GrowthPrior(2, 2, alpha, beta)), LogNodePrior(leaves[0], 2, alpha, beta), 1e-12)

	// B1 holds 3 rows at depth 2, its leaves hold 1 and 2 rows at depth 3.
	b1 := math.Log(GrowthPrior(3, 2, alpha, beta)) - math.Log(3) +
		math.Log(1-GrowthPrior(1, 3, alpha, beta)) +
		math.Log(1-GrowthPrior(2, 3, alpha, beta))
	assert.InDelta(t, b1, LogNodePrior(branches[1], 2, alpha, beta), 1e-12)

	root := math.Log(GrowthPrior(5, 1, alpha, beta)) - math.Log(5) +
		math.Log(1-GrowthPrior(2, 2, alpha, beta)) + b1
	assert.InDelta(t, root, LogNodePrior(tree.Root, 1, alpha, beta), 1e-12)
}

func TestQuantileThresholdIsADataValue(t *testing.T) {
	vals := sortedColumnValues([]float64{0.4, 0.1, 0.9, 0.3}, []int{0, 1, 2, 3})
	assert.Equal(t, []float64{0.1, 0.3, 0.4, 0.9}, vals)
	for _, p := range []float64{0, 0.1, 0.26, 0.5, 0.74, 0.99} {
		assert.Contains(t, vals, quantileThreshold(p, vals))
	}
}

func TestNoncentralChiSquared(t *testing.T) {
	t.Run("zero noncentrality matches central", func(t *testing.T) {
		for _, p := range []float64{0.1, 0.5, 0.9} {
			want := distuv.ChiSquared{K: 3}.Quantile(p)
			assert.InDelta(t, want, NoncentralChiSquaredQuantile(p, 3, 0), 1e-8)
		}
	})

	t.Run("quantile inverts cdf", func(t *testing.T) {
		for _, p := range []float64{0.05, 0.1, 0.5, 0.9, 0.99} {
			q := NoncentralChiSquaredQuantile(p, 3, 1)
			assert.InDelta(t, p, NoncentralChiSquaredCDF(q, 3, 1), 1e-9)
		}
	})

	t.Run("noncentrality shifts mass right", func(t *testing.T) {
		assert.Less(t, NoncentralChiSquaredCDF(2, 3, 1), NoncentralChiSquaredCDF(2, 3, 0))
		assert.Greater(t, NoncentralChiSquaredQuantile(0.1, 3, 1), NoncentralChiSquaredQuantile(0.1, 3, 0))
	})

	t.Run("bounds", func(t *testing.T) {
		assert.Zero(t, NoncentralChiSquaredCDF(0, 3, 1))
		assert.InDelta(t, 1.0, NoncentralChiSquaredCDF(200, 3, 1), 1e-12)
		assert.Zero(t, NoncentralChiSquaredQuantile(0, 3, 1))
		assert.True(t, math.IsInf(NoncentralChiSquaredQuantile(1, 3, 1), 1))
	})
}
