package bart

import (
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/bartgo/pkg/errors"
)

// Move identifies a structural proposal.
type Move int

const (
	MoveBirth Move = iota
	MoveDeath
	MoveChange
	MoveSwap
	numMoves
)

func (m Move) String() string {
	switch m {
	case MoveBirth:
		return "birth"
	case MoveDeath:
		return "death"
	case MoveChange:
		return "change"
	case MoveSwap:
		return "swap"
	}
	return "unknown"
}

// MoveStats counts proposals and acceptances of one move type.
type MoveStats struct {
	Proposed int
	Accepted int
}

// AcceptRate returns Accepted/Proposed, or 0 when nothing was proposed.
func (s MoveStats) AcceptRate() float64 {
	if s.Proposed == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Proposed)
}

// moveRatio holds the factors of a birth or death acceptance ratio.
type moveRatio struct {
	prior      float64 // structural prior ratio
	transition float64 // reverse over forward proposal probability
	logLike    float64 // ll_after - ll_before
}

func (r moveRatio) acceptance() float64 {
	return errors.ClipProbability(r.prior * r.transition * math.Exp(r.logLike))
}

// mover proposes structural edits to one tree at a time. residual must hold
// the partial residual of the tree being updated.
type mover struct {
	cols     [][]float64 // training features, column-major
	residual []float64
	params   LeafParams
	alpha    float64
	beta     float64
	probs    MoveProbabilities
	rng      *rand.Rand
}

func (m *mover) growthPrior(rows, depth int) float64 {
	return GrowthPrior(rows, depth, m.alpha, m.beta)
}

func (m *mover) logPrior(n Node, depth int) float64 {
	return LogNodePrior(n, depth, m.alpha, m.beta)
}

// birthProbability is the chance of proposing a birth rather than a death.
func birthProbability(t *Tree) float64 {
	if _, ok := t.Root.(*Leaf); ok {
		return 1
	}
	return 0.5
}

// propose draws one move family and runs it against t.
func (m *mover) propose(t *Tree) (Move, float64, bool) {
	u := m.rng.Float64()
	switch {
	case u < m.probs.BirthDeath:
		if m.rng.Float64() < birthProbability(t) {
			p, ok := m.birth(t)
			return MoveBirth, p, ok
		}
		p, ok := m.death(t)
		return MoveDeath, p, ok
	case u < m.probs.BirthDeath+m.probs.Change:
		p, ok := m.changeRule(t)
		return MoveChange, p, ok
	default:
		p, ok := m.swapRule(t)
		return MoveSwap, p, ok
	}
}

// partition routes indices down node, refreshing every leaf it reaches.
func (m *mover) partition(node Node, indices []int) {
	switch n := node.(type) {
	case *Leaf:
		n.Indices = indices
		n.updateStats(m.residual)
	case *Branch:
		left, right := splitIndices(m.cols[n.Feature], indices, n.Threshold)
		m.partition(n.Left, left)
		m.partition(n.Right, right)
	}
}

func (m *mover) birth(t *Tree) (float64, bool) {
	leaves := t.Leaves()
	leaf := leaves[m.rng.IntN(len(leaves))]
	if len(leaf.Indices) == 0 {
		return 0, false
	}
	feature := m.rng.IntN(len(m.cols))
	vals := sortedColumnValues(m.cols[feature], leaf.Indices)
	threshold := quantileThreshold(m.rng.Float64(), vals)

	branch, r := m.proposeBirth(t, leaf, feature, threshold)
	prob := r.acceptance()
	if m.rng.Float64() < prob {
		t.replace(leaf, branch)
		return prob, true
	}
	return prob, false
}

// proposeBirth builds the branch that would replace leaf without touching t.
func (m *mover) proposeBirth(t *Tree, leaf *Leaf, feature int, threshold float64) (*Branch, moveRatio) {
	left, right := splitIndices(m.cols[feature], leaf.Indices, threshold)
	l := &Leaf{Value: leaf.Value, Indices: left}
	r := &Leaf{Value: leaf.Value, Indices: right}
	l.updateStats(m.residual)
	r.updateStats(m.residual)
	branch := &Branch{Feature: feature, Threshold: threshold, Left: l, Right: r}

	depth := t.Depth(leaf)
	gp := m.growthPrior(len(leaf.Indices), depth)
	gpL := m.growthPrior(len(left), depth+1)
	gpR := m.growthPrior(len(right), depth+1)

	nogAfter := len(t.NogBranches()) + 1
	if p := t.Parent(leaf); p != nil && p.IsNog() {
		nogAfter--
	}
	pBirth := birthProbability(t)
	const pDeathAfter = 0.5

	return branch, moveRatio{
		prior:      gp * (1 - gpL) * (1 - gpR) / (1 - gp),
		transition: (pDeathAfter / float64(nogAfter)) / (pBirth / float64(len(t.Leaves()))),
		logLike:    LogLikelihood(branch, m.params) - LogLikelihood(leaf, m.params),
	}
}

func (m *mover) death(t *Tree) (float64, bool) {
	nogs := t.NogBranches()
	if len(nogs) == 0 {
		return 0, false
	}
	branch := nogs[m.rng.IntN(len(nogs))]

	leaf, r := m.proposeDeath(t, branch)
	prob := r.acceptance()
	if m.rng.Float64() < prob {
		t.replace(branch, leaf)
		return prob, true
	}
	return prob, false
}

// proposeDeath builds the leaf that would replace the nog branch without touching t.
func (m *mover) proposeDeath(t *Tree, branch *Branch) (*Leaf, moveRatio) {
	left := branch.Left.(*Leaf)
	right := branch.Right.(*Leaf)
	leaf := &Leaf{
		Value:   (left.Value + right.Value) / 2,
		Indices: TrainDataIndices(branch),
	}
	leaf.updateStats(m.residual)

	depth := t.Depth(branch)
	gp := m.growthPrior(len(leaf.Indices), depth)
	gpL := m.growthPrior(len(left.Indices), depth+1)
	gpR := m.growthPrior(len(right.Indices), depth+1)

	pBirthAfter := 0.5
	if t.Root == Node(branch) {
		pBirthAfter = 1
	}
	leavesAfter := len(t.Leaves()) - 1
	const pDeath = 0.5

	return leaf, moveRatio{
		prior:      (1 - gp) / (gp * (1 - gpL) * (1 - gpR)),
		transition: (pBirthAfter / float64(leavesAfter)) / (pDeath / float64(len(t.NogBranches()))),
		logLike:    LogLikelihood(leaf, m.params) - LogLikelihood(branch, m.params),
	}
}

// subtreeScore is log prior plus log likelihood of the subtree at branch.
func (m *mover) subtreeScore(b *Branch, depth int) float64 {
	return m.logPrior(b, depth) + LogLikelihood(b, m.params)
}

func (m *mover) changeRule(t *Tree) (float64, bool) {
	branches := t.Branches()
	if len(branches) == 0 {
		return 0, false
	}
	b := branches[m.rng.IntN(len(branches))]
	indices := TrainDataIndices(b)
	if len(indices) == 0 {
		return 0, false
	}

	feature := b.Feature
	if p := len(m.cols); p > 1 {
		feature = m.rng.IntN(p - 1)
		if feature >= b.Feature {
			feature++
		}
	}
	threshold := m.cols[feature][indices[m.rng.IntN(len(indices))]]

	depth := t.Depth(b)
	before := m.subtreeScore(b, depth)
	oldFeature, oldThreshold := b.Feature, b.Threshold

	b.Feature, b.Threshold = feature, threshold
	m.partition(b, indices)
	prob := errors.AcceptanceFromLog(m.subtreeScore(b, depth) - before)
	if m.rng.Float64() < prob {
		return prob, true
	}

	b.Feature, b.Threshold = oldFeature, oldThreshold
	m.partition(b, indices)
	return prob, false
}

func (m *mover) swapRule(t *Tree) (float64, bool) {
	gps := t.GrandparentBranches()
	if len(gps) == 0 {
		return 0, false
	}
	b := gps[m.rng.IntN(len(gps))]
	child := m.pickBranchChild(b)
	indices := TrainDataIndices(b)

	depth := t.Depth(b)
	before := m.subtreeScore(b, depth)

	m.swap(b, child, indices)
	prob := errors.AcceptanceFromLog(m.subtreeScore(b, depth) - before)
	if m.rng.Float64() < prob {
		return prob, true
	}

	m.swap(b, child, indices)
	return prob, false
}

// pickBranchChild returns the branch child of a grandparent, choosing
// uniformly when both children are branches.
func (m *mover) pickBranchChild(b *Branch) *Branch {
	left, lok := b.Left.(*Branch)
	right, rok := b.Right.(*Branch)
	switch {
	case lok && rok:
		if m.rng.IntN(2) == 0 {
			return left
		}
		return right
	case lok:
		return left
	default:
		return right
	}
}

// swap exchanges the split rules of parent and child and re-routes indices.
// Applying it twice restores the original state.
func (m *mover) swap(parent, child *Branch, indices []int) {
	parent.Feature, child.Feature = child.Feature, parent.Feature
	parent.Threshold, child.Threshold = child.Threshold, parent.Threshold
	m.partition(parent, indices)
}
