// Package subgraph builds the seed-anchored incident subgraph: a
// forward, time-respecting reachability walk from one or more seed
// vertices (spec §4.2), a bidirectional "paths-through" variant
// anchored on specific edge types, and a structural IOA-tag pruning
// pass that ignores timing altogether.
package subgraph

import (
	"sort"

	"github.com/rohankatakam/incgraph/internal/model"
	"github.com/rohankatakam/incgraph/internal/timekey"
)

// Index is the adjacency index built once over a loaded edge set: each
// vertex's outgoing and incoming edges, pre-sorted by ordering key so
// traversal never re-sorts on the fly.
type Index struct {
	Forward map[string][]model.Edge
	Reverse map[string][]model.Edge
}

// BuildIndex indexes edges by source and destination vertex.
func BuildIndex(edges []model.Edge) *Index {
	idx := &Index{
		Forward: make(map[string][]model.Edge),
		Reverse: make(map[string][]model.Edge),
	}
	for _, e := range edges {
		idx.Forward[e.From] = append(idx.Forward[e.From], e)
		idx.Reverse[e.To] = append(idx.Reverse[e.To], e)
	}
	for _, list := range idx.Forward {
		sortEdges(list)
	}
	for _, list := range idx.Reverse {
		sortEdges(list)
	}
	return idx
}

func sortEdges(edges []model.Edge) {
	sort.SliceStable(edges, func(i, j int) bool {
		return timekey.SortLess(timekey.Of(&edges[i]), timekey.Of(&edges[j]))
	})
}

// Subgraph is the result of any traversal: the touched vertex set, the
// edges admitted in traversal order, and which of those edges were
// tree edges (the edge that first discovered its destination, or most
// recently improved its arrival time).
type Subgraph struct {
	Nodes     map[string]bool
	Edges     []model.Edge
	TreeEdges map[model.EdgeKey]bool
}

func newSubgraph() *Subgraph {
	return &Subgraph{
		Nodes:     make(map[string]bool),
		TreeEdges: make(map[model.EdgeKey]bool),
	}
}

// addEdge appends e to the subgraph's edge list. Callers are
// responsible for (from,to,type) dedup before calling, since the two
// traversal directions use different per-call dedup sets.
func (s *Subgraph) addEdge(e model.Edge, tree bool) {
	s.Edges = append(s.Edges, e)
	if tree {
		s.TreeEdges[e.Key()] = true
	}
	s.Nodes[e.From] = true
	s.Nodes[e.To] = true
}

// FromEdges wraps edges into a Subgraph unchanged, no traversal
// performed: the identity stage of the pipeline when neither
// paths-through nor seed BFS narrows the loaded edge set.
func FromEdges(edges []model.Edge) *Subgraph {
	sg := newSubgraph()
	dedup := make(map[model.EdgeKey]bool)
	for _, e := range edges {
		key := e.Key()
		if dedup[key] {
			continue
		}
		dedup[key] = true
		sg.addEdge(e, false)
	}
	return sg
}
