// Package layout implements the five deterministic 2-D layout
// algorithms (spec §4.6): force-directed, circle, layered, tree, and
// time. Every algorithm takes the same Input and produces the same
// Result shape so the renderer and overlap/route stages never need to
// know which one ran.
package layout

import (
	"sort"

	"github.com/rohankatakam/incgraph/internal/config"
	"github.com/rohankatakam/incgraph/internal/model"
)

// Result is a completed layout: each vertex's top-left position and
// the overall canvas size the layout was computed against (before
// overlap separation and normalization run).
type Result struct {
	Positions map[string][2]float64
	Width     float64
	Height    float64
}

// Input is the common input every layout algorithm consumes.
type Input struct {
	Nodes  []string // stable, pre-sorted iteration order
	Edges  []model.Edge
	Sizes  map[string][2]float64 // vertex ID -> (width, height)
	Config config.LayoutConfig
}

// SortedNodes returns a deterministic vertex order, the iteration
// order every layout algorithm must use so re-running on the same
// input reproduces the same picture.
func SortedNodes(nodes map[string]bool) []string {
	out := make([]string, 0, len(nodes))
	for n := range nodes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// EffectiveGaps lifts the configured node/layer gaps by the node
// padding, so a larger --node-padding widens the spacing between
// boxes and not just the boxes themselves (spec §9 supplement,
// grounded on the original's per-axis padding addition ahead of
// layout rather than as a post-hoc separation pass).
func EffectiveGaps(cfg config.LayoutConfig) (nodeGap, layerGap float64) {
	return cfg.NodeGap + cfg.NodePadding, cfg.LayerGap + cfg.NodePadding
}

// Run dispatches to the algorithm named by cfg.Layout.
func Run(in Input) *Result {
	switch in.Config.Layout {
	case config.LayoutCircle:
		return Circle(in)
	case config.LayoutLayered:
		return Layered(in)
	case config.LayoutTree:
		return Tree(in)
	case config.LayoutTime:
		return Time(in)
	default:
		return Force(in)
	}
}

func sizeOf(in Input, id string) (float64, float64) {
	if s, ok := in.Sizes[id]; ok {
		return s[0], s[1]
	}
	return 140, 40
}

func boundingBox(positions map[string][2]float64, sizes map[string][2]float64) (w, h float64) {
	for id, p := range positions {
		sw, sh := 140.0, 40.0
		if s, ok := sizes[id]; ok {
			sw, sh = s[0], s[1]
		}
		if p[0]+sw > w {
			w = p[0] + sw
		}
		if p[1]+sh > h {
			h = p[1] + sh
		}
	}
	return w, h
}
