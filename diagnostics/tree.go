package diagnostics

import (
	"fmt"
	"path/filepath"

	"github.com/YuminosukeSato/bartgo/bart"
	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// TreeGraph converts a tree into a graphviz graph. Branches are labelled
// with their split rule, leaves with their value and row count. The caller
// closes both returned values.
func TreeGraph(t *bart.Tree) (*graphviz.Graphviz, *cgraph.Graph, error) {
	g := graphviz.New()
	graph, err := g.Graph()
	if err != nil {
		g.Close()
		return nil, nil, errors.Wrap(err, "create graph")
	}

	next := 0
	if err := drawNode(graph, t.Root, nil, &next); err != nil {
		graph.Close()
		g.Close()
		return nil, nil, err
	}
	return g, graph, nil
}

func drawNode(graph *cgraph.Graph, n bart.Node, parent *cgraph.Node, next *int) error {
	node, err := graph.CreateNode(fmt.Sprintf("n%d", *next))
	if err != nil {
		return errors.Wrap(err, "create node")
	}
	*next++

	if parent != nil {
		if _, err := graph.CreateEdge("", parent, node); err != nil {
			return errors.Wrap(err, "create edge")
		}
	}

	switch n := n.(type) {
	case *bart.Leaf:
		node.Set("label", fmt.Sprintf("value=%.4g n=%d", n.Value, len(n.Indices)))
		node.Set("shape", "box")
	case *bart.Branch:
		node.Set("label", fmt.Sprintf("x%d <= %.4g", n.Feature, n.Threshold))
		if err := drawNode(graph, n.Left, node, next); err != nil {
			return err
		}
		return drawNode(graph, n.Right, node, next)
	}
	return nil
}

// RenderTree writes t to path in the given format (graphviz.SVG, graphviz.PNG, ...).
func RenderTree(t *bart.Tree, format graphviz.Format, path string) error {
	g, graph, err := TreeGraph(t)
	if err != nil {
		return err
	}
	defer g.Close()
	defer graph.Close()

	if err := g.RenderFilename(graph, format, path); err != nil {
		return errors.Wrapf(err, "render tree to %s", path)
	}
	return nil
}

// RenderTrees writes every tree into dir as tree_00000.<format>, tree_00001.<format>, ...
func RenderTrees(trees []*bart.Tree, format graphviz.Format, dir string) error {
	for i, t := range trees {
		path := filepath.Join(dir, fmt.Sprintf("tree_%05d.%s", i, format))
		if err := RenderTree(t, format, path); err != nil {
			return err
		}
	}
	return nil
}
