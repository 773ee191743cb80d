package bart

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// leafPosterior returns the posterior mean and std of a leaf's value.
func leafPosterior(l *Leaf, p LeafParams) (mean, std float64) {
	a, b := p.precisions(len(l.Indices))
	return b * l.RMean / (a + b), 1 / math.Sqrt(a+b)
}

// resampleLeaves draws a new value for every leaf of t from its posterior.
func resampleLeaves(t *Tree, p LeafParams, rng *rand.Rand) {
	for _, leaf := range t.Leaves() {
		mean, std := leafPosterior(leaf, p)
		leaf.Value = distuv.Normal{Mu: mean, Sigma: std, Src: rng}.Rand()
	}
}

// drawSigma samples the noise std given the full-ensemble residuals:
// sigma = sqrt((nu·lambda + Σr²) / S), S ~ χ²(nu + n).
func drawSigma(residual []float64, nu, lambda float64, rng *rand.Rand) float64 {
	ss := floats.Dot(residual, residual)
	s := distuv.ChiSquared{K: nu + float64(len(residual)), Src: rng}.Rand()
	return math.Sqrt((nu*lambda + ss) / s)
}
