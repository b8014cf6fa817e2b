package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/rohankatakam/incgraph/internal/label"
)

const legendBoxWidth = 220
const legendBoxPadding = 12
const legendRowHeight = 22

// SimpleSVGSink renders a Graph as hand-built SVG, needing no
// external binary: a rect per vertex, a path per edge, text labels,
// and an optional legend box in the bottom-right corner.
type SimpleSVGSink struct{}

func (SimpleSVGSink) Render(g *Graph) ([]byte, error) {
	var b strings.Builder

	width, height := g.Width, g.Height
	if g.Legend {
		height += legendHeight() + legendBoxPadding
	}

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		ftoa(width), ftoa(height), ftoa(width), ftoa(height))
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>` + "\n")

	for _, e := range g.Edges {
		fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n", html.EscapeString(e.Path), e.Color)
		if e.Label != "" && len(e.Points) > 0 {
			mid := e.Points[len(e.Points)/2]
			fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="10" fill="%s">%s</text>`+"\n",
				ftoa(mid[0]), ftoa(mid[1]), e.Color, html.EscapeString(e.Label))
		}
	}

	for _, n := range g.Nodes {
		writeNodeShape(&b, n)
		cx := n.Box.X + n.Box.W/2
		cy := n.Box.Y + n.Box.H/2
		fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="11" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			ftoa(cx), ftoa(cy), html.EscapeString(n.Label))
	}

	if g.Legend {
		writeLegend(&b, g.Width, g.Height)
	}

	b.WriteString("</svg>\n")
	return []byte(b.String()), nil
}

func writeNodeShape(b *strings.Builder, n Node) {
	switch n.Style.Shape {
	case "ellipse":
		cx, cy := n.Box.X+n.Box.W/2, n.Box.Y+n.Box.H/2
		fmt.Fprintf(b, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="%s" stroke="#333333"/>`+"\n",
			ftoa(cx), ftoa(cy), ftoa(n.Box.W/2), ftoa(n.Box.H/2), n.Style.Fill)
	case "diamond":
		cx, cy := n.Box.X+n.Box.W/2, n.Box.Y+n.Box.H/2
		hw, hh := n.Box.W/2, n.Box.H/2
		points := fmt.Sprintf("%s,%s %s,%s %s,%s %s,%s",
			ftoa(cx), ftoa(cy-hh), ftoa(cx+hw), ftoa(cy), ftoa(cx), ftoa(cy+hh), ftoa(cx-hw), ftoa(cy))
		fmt.Fprintf(b, `<polygon points="%s" fill="%s" stroke="#333333"/>`+"\n", points, n.Style.Fill)
	default:
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s" stroke="#333333"/>`+"\n",
			ftoa(n.Box.X), ftoa(n.Box.Y), ftoa(n.Box.W), ftoa(n.Box.H), n.Style.Fill)
	}
}

func legendHeight() float64 {
	return float64(len(label.LegendEntries()))*legendRowHeight + legendBoxPadding*2
}

func writeLegend(b *strings.Builder, graphWidth, graphHeight float64) {
	entries := label.LegendEntries()
	boxHeight := legendHeight()
	x := graphWidth - legendBoxWidth - legendBoxPadding
	if x < 0 {
		x = 0
	}
	y := graphHeight + legendBoxPadding

	fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" fill="#f7f7f7" stroke="#cccccc"/>`+"\n",
		ftoa(x), ftoa(y), ftoa(legendBoxWidth), ftoa(boxHeight))

	for i, entry := range entries {
		rowY := y + legendBoxPadding + float64(i)*legendRowHeight
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="14" height="14" fill="%s" stroke="#333333"/>`+"\n",
			ftoa(x+legendBoxPadding), ftoa(rowY), entry.Style.Fill)
		fmt.Fprintf(b, `<text x="%s" y="%s" font-size="11">%s</text>`+"\n",
			ftoa(x+legendBoxPadding+20), ftoa(rowY+11), html.EscapeString(entry.Text))
	}
}
