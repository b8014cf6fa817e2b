package subgraph

import "github.com/rohankatakam/incgraph/internal/model"

// PruneToIOA keeps only the edges and vertices structurally connected
// to an IOA-tagged edge (spec §4.4): unlike Build/PathsThrough this
// walk ignores timekey ordering entirely - it is pure ancestor/
// descendant reachability from every IOA edge's endpoints, unioned
// across direction so both the causes and the effects of an
// indicator-of-attack stay in the picture.
func PruneToIOA(idx *Index, edges []model.Edge) *Subgraph {
	var anchors []string
	for _, e := range edges {
		if e.HasIOA() {
			anchors = append(anchors, e.From, e.To)
		}
	}
	if len(anchors) == 0 {
		return newSubgraph()
	}

	out := newSubgraph()
	dedup := make(map[model.EdgeKey]bool)

	visited := make(map[string]bool)
	var queue []string
	for _, a := range anchors {
		if !visited[a] {
			visited[a] = true
			queue = append(queue, a)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, e := range idx.Forward[v] {
			if !dedup[e.Key()] {
				dedup[e.Key()] = true
				out.addEdge(e, false)
			}
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	visited = make(map[string]bool)
	queue = nil
	for _, a := range anchors {
		if !visited[a] {
			visited[a] = true
			queue = append(queue, a)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, e := range idx.Reverse[v] {
			if !dedup[e.Key()] {
				dedup[e.Key()] = true
				out.addEdge(e, false)
			}
			if !visited[e.From] {
				visited[e.From] = true
				queue = append(queue, e.From)
			}
		}
	}

	for _, a := range anchors {
		out.Nodes[a] = true
	}
	return out
}
