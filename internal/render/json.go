package render

import (
	"encoding/json"
	"sort"
)

type jsonNode struct {
	ID    string  `json:"id"`
	Kind  string  `json:"kind"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

type jsonEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	Color string `json:"color"`
	Path  string `json:"path"`
}

type jsonGraph struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Nodes  []jsonNode `json:"nodes"`
	Edges  []jsonEdge `json:"edges"`
}

// JSONSink renders a Graph as structured JSON: nodes sorted by
// identifier, edges in the retention order they were loaded/routed in
// (spec §6's JSON sink contract).
type JSONSink struct{}

func (JSONSink) Render(g *Graph) ([]byte, error) {
	out := jsonGraph{Width: g.Width, Height: g.Height}

	nodes := make([]Node, len(g.Nodes))
	copy(nodes, g.Nodes)
	sortNodesByID(nodes)

	for _, n := range nodes {
		out.Nodes = append(out.Nodes, jsonNode{
			ID: n.ID, Kind: string(n.Kind), Label: n.Label,
			X: n.Box.X, Y: n.Box.Y, W: n.Box.W, H: n.Box.H,
		})
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, jsonEdge{
			From: e.From, To: e.To, Type: e.Type, Label: e.Label, Color: e.Color, Path: e.Path,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

func sortNodesByID(nodes []Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
}
