package bart

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// emptyLeafLogLikelihood stands in for log(0) so acceptance arithmetic stays finite.
const emptyLeafLogLikelihood = -1e10

// LeafParams are the variances the leaf likelihood is conditioned on.
type LeafParams struct {
	Sigma      float64 // residual noise standard deviation
	SigmaPrior float64 // standard deviation of the leaf-mean prior
}

func (p LeafParams) precisions(n int) (a, b float64) {
	return 1 / (p.SigmaPrior * p.SigmaPrior), float64(n) / (p.Sigma * p.Sigma)
}

// updateStats recomputes RMean and RSigma from residual over l.Indices.
func (l *Leaf) updateStats(residual []float64) {
	if len(l.Indices) == 0 {
		l.RMean, l.RSigma = 0, 0
		return
	}
	var sum float64
	for _, i := range l.Indices {
		sum += residual[i]
	}
	mean := sum / float64(len(l.Indices))
	var ss float64
	for _, i := range l.Indices {
		d := residual[i] - mean
		ss += d * d
	}
	l.RMean, l.RSigma = mean, ss
}

// UpdateStats refreshes every leaf of t against residual.
func (t *Tree) UpdateStats(residual []float64) {
	for _, leaf := range t.Leaves() {
		leaf.updateStats(residual)
	}
}

// LogLikelihood is the marginal log-likelihood of the residuals under node,
// with the leaf means integrated out. A branch sums its children.
func LogLikelihood(node Node, p LeafParams) float64 {
	switch n := node.(type) {
	case *Leaf:
		return leafLogLikelihood(n, p)
	case *Branch:
		return LogLikelihood(n.Left, p) + LogLikelihood(n.Right, p)
	}
	return 0
}

func leafLogLikelihood(l *Leaf, p LeafParams) float64 {
	if len(l.Indices) == 0 {
		return emptyLeafLogLikelihood
	}
	a, b := p.precisions(len(l.Indices))
	s2 := p.Sigma * p.Sigma
	return 0.5*math.Log(a/(a+b)) - l.RSigma/(2*s2) - 0.5*a*b*l.RMean*l.RMean/(a+b)
}

// GrowthPrior is the prior probability that a node holding rows training
// rows at the given depth is split: alpha * depth^-beta, damped by 0.001 for
// fewer than five rows and zero for an empty node.
func GrowthPrior(rows, depth int, alpha, beta float64) float64 {
	base := alpha * math.Pow(float64(depth), -beta)
	switch {
	case rows >= 5:
		return base
	case rows > 0:
		return base * 0.001
	default:
		return 0
	}
}

// LogNodePrior is the log structural prior of the subtree rooted at node,
// which sits at the given depth.
func LogNodePrior(node Node, depth int, alpha, beta float64) float64 {
	switch n := node.(type) {
	case *Leaf:
		return math.Log(1 - GrowthPrior(len(n.Indices), depth, alpha, beta))
	case *Branch:
		rows := numRows(n)
		return math.Log(GrowthPrior(rows, depth, alpha, beta)) - math.Log(float64(rows)) +
			LogNodePrior(n.Left, depth+1, alpha, beta) +
			LogNodePrior(n.Right, depth+1, alpha, beta)
	}
	return 0
}

// sortedColumnValues returns column[i] for i in indices, sorted ascending.
func sortedColumnValues(column []float64, indices []int) []float64 {
	vals := make([]float64, len(indices))
	for k, i := range indices {
		vals[k] = column[i]
	}
	sort.Float64s(vals)
	return vals
}

// quantileThreshold picks the empirical p-quantile of sorted, which is always
// one of its values.
func quantileThreshold(p float64, sorted []float64) float64 {
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
