// Package label derives human-readable vertex labels, their
// on-canvas box sizing, and edge label/color/style lookups shared by
// every layout and render component (spec §4.5, §9 bilingual supplement).
package label

import (
	"path/filepath"
	"strings"

	"github.com/rohankatakam/incgraph/internal/model"
)

const maxLabelLen = 60

// Label derives the display label for a vertex: its resolved process
// image / file path basename when metadata supplies one, falling back
// to the vertex ID's payload segment, truncated to maxLabelLen.
func Label(vertexID string, meta *model.VertexMeta) string {
	kind, payload := model.ParseVertexID(vertexID)

	var name string
	switch kind {
	case model.KindProc:
		name = meta.DataString("image", "Image")
		if name == "" {
			name = meta.DataString("command_line", "CommandLine")
		}
		if name == "" {
			name = payload
		}
		name = baseName(name)
	case model.KindFile:
		name = meta.DataString("path", "Path")
		if name == "" {
			name = payload
		}
		name = baseName(name)
	case model.KindPath:
		name = baseName(payload)
	default:
		name = payload
		if name == "" {
			name = vertexID
		}
	}
	return truncate(name, maxLabelLen)
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	norm := strings.ReplaceAll(path, `\`, "/")
	return filepath.Base(norm)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// Size computes a label's on-canvas box dimensions from its (possibly
// multi-line) text: width clamps to [100,240] scaled by the longest
// line, height grows with the line count, both floors enforced so a
// one-character label never collapses to an unreadable box.
func Size(lbl string) (width, height float64) {
	lines := strings.Split(lbl, "\n")
	maxLine := 0
	for _, l := range lines {
		if len(l) > maxLine {
			maxLine = len(l)
		}
	}
	width = clamp(100, 240, 7*float64(maxLine)+20)
	height = 18*float64(len(lines)) + 16
	if height < 30 {
		height = 30
	}
	return width, height
}

func clamp(min, max, v float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// edgeLabels carries a bilingual English/Chinese gloss for every edge
// type the loader recognizes.
var edgeLabels = map[string]string{
	"ParentOfEdge":      "spawns process / 创建进程",
	"CreatedFileEdge":   "creates file / 创建文件",
	"ImageOfEdge":       "executable launch / 可执行文件启动",
	"ConnectEdge":       "network access / 网络访问",
	"DNSQueryEdge":      "dns query / 域名查询",
	"ProcessAccessEdge": "process access / 进程访问",
	"RemoteThreadEdge":  "remote thread / 远程线程",
	"ImageLoadEdge":     "image load / 镜像加载",
}

// EdgeLabelText resolves the display text for an edge, given the
// configured label mode: "none" suppresses text entirely, "hover"
// returns just the raw edge type (for a tooltip/title attribute),
// "text" returns the bilingual gloss when known.
func EdgeLabelText(edgeType, mode string) string {
	switch mode {
	case "none":
		return ""
	case "hover":
		return edgeType
	default:
		if gloss, ok := edgeLabels[edgeType]; ok {
			return gloss
		}
		return edgeType
	}
}

// edgeColors gives each recognized edge type a stable stroke color.
var edgeColors = map[string]string{
	"ParentOfEdge":      "#4C78A8",
	"CreatedFileEdge":   "#59A14F",
	"ImageOfEdge":       "#9D755D",
	"ConnectEdge":       "#E15759",
	"DNSQueryEdge":      "#F28E2B",
	"ProcessAccessEdge": "#B07AA1",
	"RemoteThreadEdge":  "#EDC948",
	"ImageLoadEdge":     "#76B7B2",
}

// EdgeColor returns the stroke color for an edge type, defaulting to
// a neutral gray for anything unrecognized.
func EdgeColor(edgeType string) string {
	if c, ok := edgeColors[edgeType]; ok {
		return c
	}
	return "#888888"
}

// NodeStyle is a vertex kind's shape/fill pairing for the renderer.
type NodeStyle struct {
	Shape string
	Fill  string
}

var nodeStyles = map[model.Kind]NodeStyle{
	model.KindProc:   {Shape: "box", Fill: "#D4E6F1"},
	model.KindPath:   {Shape: "note", Fill: "#FCF3CF"},
	model.KindFile:   {Shape: "note", Fill: "#FDEBD0"},
	model.KindNet:    {Shape: "ellipse", Fill: "#D5F5E3"},
	model.KindDomain:  {Shape: "ellipse", Fill: "#E8DAEF"},
	model.KindEvent:  {Shape: "diamond", Fill: "#FADBD8"},
	model.KindUnknown: {Shape: "box", Fill: "#EAECEE"},
}

// StyleFor returns the drawing style for a vertex kind.
func StyleFor(kind model.Kind) NodeStyle {
	if s, ok := nodeStyles[kind]; ok {
		return s
	}
	return nodeStyles[model.KindUnknown]
}

// LegendEntry is one row of the optional legend box.
type LegendEntry struct {
	Kind  model.Kind
	Style NodeStyle
	Text  string
}

// LegendEntries lists the (style, label) pairs the renderer draws in
// the optional legend box (spec §5 supplement), one per known vertex
// kind in a fixed order so the legend never reshuffles between runs.
func LegendEntries() []LegendEntry {
	order := []model.Kind{model.KindProc, model.KindPath, model.KindFile, model.KindNet, model.KindDomain, model.KindEvent}
	out := make([]LegendEntry, 0, len(order))
	for _, k := range order {
		out = append(out, LegendEntry{Kind: k, Style: StyleFor(k), Text: string(k)})
	}
	return out
}
