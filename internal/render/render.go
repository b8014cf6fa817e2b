// Package render turns a laid-out, routed graph into one of the
// supported sink formats: Graphviz DOT (for the external `dot`
// renderer or for hand inspection), structured JSON, or a built-in
// "simple-SVG" vector format that needs no external binary
// (spec §4.9).
package render

import (
	"sort"

	"github.com/rohankatakam/incgraph/internal/config"
	"github.com/rohankatakam/incgraph/internal/label"
	"github.com/rohankatakam/incgraph/internal/layout"
	"github.com/rohankatakam/incgraph/internal/model"
	"github.com/rohankatakam/incgraph/internal/route"
)

// Node is one rendered vertex: its identity, drawing box, label, and style.
type Node struct {
	ID    string
	Kind  model.Kind
	Label string
	Box   route.Box
	Style label.NodeStyle
}

// Edge is one rendered, already-routed edge.
type Edge struct {
	From, To string
	Type     string
	Label    string
	Color    string
	Path     string
	Points   [][2]float64
}

// Graph is the fully assembled, render-ready picture.
type Graph struct {
	Nodes  []Node
	Edges  []Edge
	Width  float64
	Height float64
	Legend bool
}

// Sink renders a Graph to some output representation.
type Sink interface {
	Render(g *Graph) ([]byte, error)
}

// Build assembles a Graph from a completed layout: it derives each
// vertex's drawing box from the layout position and label size, then
// routes every edge in order, feeding each edge's sampled points into
// the next edge's routed-edge-avoidance penalty (spec §4.8) so edges
// drawn later steer around edges already drawn.
func Build(nodeIDs []string, edges []model.Edge, meta map[string]*model.VertexMeta, lay *layout.Result, sizes map[string][2]float64, cfg config.RenderConfig, layoutCfg config.LayoutConfig) *Graph {
	g := &Graph{Legend: cfg.Legend}

	boxes := make(map[string]route.Box, len(nodeIDs))
	for _, id := range nodeIDs {
		pos := lay.Positions[id]
		w, h := 140.0, 40.0
		if s, ok := sizes[id]; ok {
			w, h = s[0], s[1]
		}
		box := route.Box{X: pos[0], Y: pos[1], W: w, H: h}
		boxes[id] = box

		kind := model.VertexKind(id)
		g.Nodes = append(g.Nodes, Node{
			ID:    id,
			Kind:  kind,
			Label: label.Label(id, meta[id]),
			Box:   box,
			Style: label.StyleFor(kind),
		})
	}

	allBoxes := make([]route.Box, 0, len(boxes))
	for _, b := range boxes {
		allBoxes = append(allBoxes, b)
	}

	var routedSoFar [][][2]float64
	isTree := layoutCfg.Layout == config.LayoutTree
	for _, e := range edges {
		fromBox, okF := boxes[e.From]
		toBox, okT := boxes[e.To]
		if !okF || !okT {
			continue
		}
		obstacles := obstaclesExcluding(allBoxes, boxes[e.From], boxes[e.To])
		res := route.Route(route.Input{
			From:        fromBox,
			To:          toBox,
			CurveScale:  cfg.EdgeCurve,
			TreeLayout:  isTree,
			Obstacles:   obstacles,
			RoutedEdges: routedSoFar,
		})
		routedSoFar = append(routedSoFar, res.Points)

		g.Edges = append(g.Edges, Edge{
			From:   e.From,
			To:     e.To,
			Type:   e.Type,
			Label:  label.EdgeLabelText(e.Type, string(cfg.EdgeLabel)),
			Color:  label.EdgeColor(e.Type),
			Path:   res.Path,
			Points: res.Points,
		})
	}

	g.Width, g.Height = lay.Width, lay.Height
	if cfg.MaxSize > 0 {
		if g.Width > cfg.MaxSize {
			g.Width = cfg.MaxSize
		}
		if g.Height > cfg.MaxSize {
			g.Height = cfg.MaxSize
		}
	}

	return g
}

func obstaclesExcluding(all []route.Box, from, to route.Box) []route.Box {
	out := make([]route.Box, 0, len(all))
	for _, b := range all {
		if b == from || b == to {
			continue
		}
		out = append(out, b)
	}
	return out
}

// SortedNodeIDs returns node vertex IDs sorted, the order the JSON
// sink's identifier-sorted node list contract requires (spec §6).
func SortedNodeIDs(nodes map[string]bool) []string {
	out := make([]string, 0, len(nodes))
	for id := range nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
