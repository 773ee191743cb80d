package bart

// Node is a tree node: either a *Leaf or a *Branch.
type Node interface {
	isNode()
}

// Leaf is a terminal node. Its residual statistics always describe Indices.
type Leaf struct {
	Value   float64 // current predicted value
	RMean   float64 // mean of the residuals routed here
	RSigma  float64 // sum of squared deviations of those residuals from RMean
	Indices []int   // sorted training row indices
}

// Branch splits rows on Feature: x[Feature] <= Threshold goes Left.
type Branch struct {
	Feature   int
	Threshold float64
	Left      Node
	Right     Node
}

func (*Leaf) isNode()   {}
func (*Branch) isNode() {}

// IsNog reports whether both children are leaves.
func (b *Branch) IsNog() bool {
	_, l := b.Left.(*Leaf)
	_, r := b.Right.(*Leaf)
	return l && r
}

// IsGrandparent reports whether at least one child is a branch.
func (b *Branch) IsGrandparent() bool {
	return !b.IsNog()
}

// Tree is a single regression tree of the ensemble.
type Tree struct {
	Root Node
}

// NewTree returns a tree made of a single leaf holding the given rows.
func NewTree(indices []int) *Tree {
	return &Tree{Root: &Leaf{Indices: indices}}
}

// Leaves returns every leaf, left subtree before right.
func (t *Tree) Leaves() []*Leaf {
	return collectLeaves(t.Root, nil)
}

func collectLeaves(n Node, acc []*Leaf) []*Leaf {
	switch n := n.(type) {
	case *Leaf:
		return append(acc, n)
	case *Branch:
		acc = collectLeaves(n.Left, acc)
		return collectLeaves(n.Right, acc)
	}
	return acc
}

// Branches returns every branch in pre-order.
func (t *Tree) Branches() []*Branch {
	return collectBranches(t.Root, nil, func(*Branch) bool { return true })
}

// NogBranches returns the branches whose children are both leaves, in pre-order.
func (t *Tree) NogBranches() []*Branch {
	return collectBranches(t.Root, nil, (*Branch).IsNog)
}

// GrandparentBranches returns the branches with at least one branch child, in pre-order.
func (t *Tree) GrandparentBranches() []*Branch {
	return collectBranches(t.Root, nil, (*Branch).IsGrandparent)
}

func collectBranches(n Node, acc []*Branch, keep func(*Branch) bool) []*Branch {
	b, ok := n.(*Branch)
	if !ok {
		return acc
	}
	if keep(b) {
		acc = append(acc, b)
	}
	acc = collectBranches(b.Left, acc, keep)
	return collectBranches(b.Right, acc, keep)
}

// Depth returns the depth of node, counting the root as 1.
// It returns 0 when node is not part of the tree.
func (t *Tree) Depth(node Node) int {
	return depthOf(t.Root, node, 1)
}

func depthOf(cur, target Node, d int) int {
	if cur == target {
		return d
	}
	b, ok := cur.(*Branch)
	if !ok {
		return 0
	}
	if found := depthOf(b.Left, target, d+1); found > 0 {
		return found
	}
	return depthOf(b.Right, target, d+1)
}

// MaxDepth returns the depth of the deepest leaf.
func (t *Tree) MaxDepth() int {
	return maxDepth(t.Root)
}

func maxDepth(n Node) int {
	b, ok := n.(*Branch)
	if !ok {
		return 1
	}
	return 1 + max(maxDepth(b.Left), maxDepth(b.Right))
}

// Parent returns the branch whose child is node, compared by identity.
// It returns nil for the root and for nodes outside the tree.
func (t *Tree) Parent(node Node) *Branch {
	return parentOf(t.Root, node)
}

func parentOf(cur, target Node) *Branch {
	b, ok := cur.(*Branch)
	if !ok {
		return nil
	}
	if b.Left == target || b.Right == target {
		return b
	}
	if p := parentOf(b.Left, target); p != nil {
		return p
	}
	return parentOf(b.Right, target)
}

// TrainDataIndices returns the sorted training rows under node.
// For a branch the result is rebuilt from its leaves on every call.
func TrainDataIndices(node Node) []int {
	switch n := node.(type) {
	case *Leaf:
		return n.Indices
	case *Branch:
		return mergeSorted(TrainDataIndices(n.Left), TrainDataIndices(n.Right))
	}
	return nil
}

func numRows(node Node) int {
	switch n := node.(type) {
	case *Leaf:
		return len(n.Indices)
	case *Branch:
		return numRows(n.Left) + numRows(n.Right)
	}
	return 0
}

func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// replace swaps old for repl in place, updating the root when old is the root.
func (t *Tree) replace(old, repl Node) {
	if t.Root == old {
		t.Root = repl
		return
	}
	p := t.Parent(old)
	if p == nil {
		return
	}
	if p.Left == old {
		p.Left = repl
	} else {
		p.Right = repl
	}
}

// Predict returns the value of the leaf that row falls into.
func (t *Tree) Predict(row []float64) float64 {
	n := t.Root
	for {
		switch cur := n.(type) {
		case *Leaf:
			return cur.Value
		case *Branch:
			if row[cur.Feature] <= cur.Threshold {
				n = cur.Left
			} else {
				n = cur.Right
			}
		default:
			return 0
		}
	}
}

// fillTrainPredictions writes each leaf's value to the rows it holds.
func (t *Tree) fillTrainPredictions(dst []float64) {
	for _, leaf := range t.Leaves() {
		for _, i := range leaf.Indices {
			dst[i] = leaf.Value
		}
	}
}

// splitIndices partitions sorted rows by column <= threshold, keeping order.
func splitIndices(column []float64, indices []int, threshold float64) (left, right []int) {
	left = make([]int, 0, len(indices))
	right = make([]int, 0, len(indices))
	for _, i := range indices {
		if column[i] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}
