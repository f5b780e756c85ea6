package loadorder

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/uldpack/pkg/dag"
)

// DOTOptions configures DOT export of the loading-order graph.
type DOTOptions struct {
	// Detailed includes the ULD id and the placed position in node labels.
	// When false, only the package id is shown.
	Detailed bool
}

// ToDOT converts a loading-order graph to Graphviz DOT format. Edges point
// from each package to the packages that must be loaded before it. The
// resulting DOT string can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(g *dag.DAG, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph loadorder {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, nodeLabel(*n, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n dag.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	parts := []string{n.ID}
	if uld, ok := n.Meta["uld"].(string); ok {
		parts = append(parts, fmt.Sprintf("uld: %s", uld))
	}
	if pos, ok := n.Meta["pos"].([3]int); ok {
		parts = append(parts, fmt.Sprintf("at: (%d, %d, %d)", pos[0], pos[1], pos[2]))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
