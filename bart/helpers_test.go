package bart

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// makeData draws n rows of p uniform features and a response from f plus
// Gaussian noise.
func makeData(n, p int, noise float64, seed uint64, f func(row []float64) float64) (*mat.Dense, *mat.VecDense) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	X := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		for j := range row {
			row[j] = rng.Float64()
			X.Set(i, j, row[j])
		}
		y.SetVec(i, f(row)+noise*rng.NormFloat64())
	}
	return X, y
}

func linearResponse(row []float64) float64 {
	return 2*row[0] - row[1]
}

func stepResponse(row []float64) float64 {
	v := row[1]
	if row[0] > 0.5 {
		v += 3
	}
	return v
}

func columns(X mat.Matrix) [][]float64 {
	_, p := X.Dims()
	cols := make([][]float64, p)
	for j := range cols {
		cols[j] = mat.Col(nil, j, X)
	}
	return cols
}

func allRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// newTestMover returns a mover over random data whose residual is the
// response. p must be at least 2.
func newTestMover(n, p int, seed uint64) *mover {
	X, y := makeData(n, p, 0.1, seed, stepResponse)
	return &mover{
		cols:     columns(X),
		residual: mat.Col(nil, 0, y),
		params:   LeafParams{Sigma: 0.5, SigmaPrior: 0.3},
		alpha:    0.95,
		beta:     2,
		probs:    MoveProbabilities{BirthDeath: 0.5, Change: 0.4, Swap: 0.1},
		rng:      rand.New(rand.NewPCG(seed, 7)),
	}
}

// snapshot renders the structure, rules and leaf contents of a subtree.
func snapshot(n Node) string {
	var sb strings.Builder
	writeSnapshot(&sb, n)
	return sb.String()
}

func writeSnapshot(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Leaf:
		fmt.Fprintf(sb, "L(%v|%v|%v|%v)", n.Value, n.RMean, n.RSigma, n.Indices)
	case *Branch:
		fmt.Fprintf(sb, "B(%d,%v ", n.Feature, n.Threshold)
		writeSnapshot(sb, n.Left)
		sb.WriteString(" ")
		writeSnapshot(sb, n.Right)
		sb.WriteString(")")
	}
}

// rules lists (feature, threshold) of every branch in pre-order.
func rules(t *Tree) []string {
	var out []string
	for _, b := range t.Branches() {
		out = append(out, fmt.Sprintf("%d:%v", b.Feature, b.Threshold))
	}
	return out
}

// requireTreeInvariants checks partition completeness and disjointness,
// likelihood additivity and leaf statistics consistency.
func requireTreeInvariants(t *testing.T, tree *Tree, n int, m *mover) {
	t.Helper()
	require.Equal(t, allRows(n), TrainDataIndices(tree.Root))

	for _, b := range tree.Branches() {
		left := TrainDataIndices(b.Left)
		right := TrainDataIndices(b.Right)
		seen := make(map[int]bool, len(left))
		for _, i := range left {
			seen[i] = true
		}
		for _, i := range right {
			require.False(t, seen[i], "row %d routed to both children", i)
		}
		union := append(append([]int(nil), left...), right...)
		sort.Ints(union)
		require.Equal(t, TrainDataIndices(b), union)

		require.InDelta(t,
			LogLikelihood(b.Left, m.params)+LogLikelihood(b.Right, m.params),
			LogLikelihood(b, m.params), 1e-9)

		for _, i := range left {
			require.LessOrEqual(t, m.cols[b.Feature][i], b.Threshold)
		}
		for _, i := range right {
			require.Greater(t, m.cols[b.Feature][i], b.Threshold)
		}
	}

	for _, leaf := range tree.Leaves() {
		check := &Leaf{Indices: leaf.Indices}
		check.updateStats(m.residual)
		require.Equal(t, check.RMean, leaf.RMean)
		require.Equal(t, check.RSigma, leaf.RSigma)
	}
}
