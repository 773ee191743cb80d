package diagnostics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/bartgo/bart"
	"github.com/goccy/go-graphviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *bart.Tree {
	return &bart.Tree{Root: &bart.Branch{
		Feature:   0,
		Threshold: 0.5,
		Left:      &bart.Leaf{Value: 1.5, Indices: []int{0, 2}},
		Right: &bart.Branch{
			Feature:   1,
			Threshold: 0.25,
			Left:      &bart.Leaf{Value: -0.75, Indices: []int{1}},
			Right:     &bart.Leaf{Value: 2, Indices: []int{3, 4}},
		},
	}}
}

func TestTreeGraphLabels(t *testing.T) {
	g, graph, err := TreeGraph(sampleTree())
	require.NoError(t, err)
	defer g.Close()
	defer graph.Close()

	var buf bytes.Buffer
	require.NoError(t, g.Render(graph, graphviz.XDOT, &buf))
	out := buf.String()

	assert.Contains(t, out, "x0 <= 0.5")
	assert.Contains(t, out, "x1 <= 0.25")
	assert.Contains(t, out, "value=1.5 n=2")
	assert.Contains(t, out, "value=-0.75 n=1")
	assert.Contains(t, out, "value=2 n=2")
}

func TestRenderTrees(t *testing.T) {
	dir := t.TempDir()
	trees := []*bart.Tree{sampleTree(), {Root: &bart.Leaf{Value: 0.1}}}

	require.NoError(t, RenderTrees(trees, graphviz.SVG, dir))

	for _, name := range []string{"tree_00000.svg", "tree_00001.svg"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
