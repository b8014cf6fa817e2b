package render

import (
	"fmt"
	"strconv"
	"strings"
)

// DOTSink renders a Graph as Graphviz DOT source with fixed node
// positions (pos="x,y!"), suitable for feeding to an external `dot`
// or `neato` binary, or for inspection by hand.
type DOTSink struct{}

func (DOTSink) Render(g *Graph) ([]byte, error) {
	var b strings.Builder
	b.WriteString("digraph incident {\n")
	b.WriteString("  graph [splines=curved];\n")
	b.WriteString("  node [fontname=\"Helvetica\"];\n")

	for _, n := range g.Nodes {
		cx := n.Box.X + n.Box.W/2
		cy := n.Box.Y + n.Box.H/2
		fmt.Fprintf(&b, "  %q [label=%q, shape=%s, style=filled, fillcolor=%q, pos=%q];\n",
			n.ID, n.Label, dotShape(n.Style.Shape), n.Style.Fill, fmt.Sprintf("%s,%s!", ftoa(cx), ftoa(cy)))
	}

	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %q -> %q [label=%q, color=%q];\n", e.From, e.To, e.Label, e.Color)
	}

	b.WriteString("}\n")
	return []byte(b.String()), nil
}

func dotShape(shape string) string {
	switch shape {
	case "note":
		return "note"
	case "ellipse":
		return "ellipse"
	case "diamond":
		return "diamond"
	default:
		return "box"
	}
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
