package subgraph

import (
	"sort"

	"github.com/rohankatakam/incgraph/internal/model"
	"github.com/rohankatakam/incgraph/internal/timekey"
)

// anchorSeed pairs a traversal-starting vertex with its own admission
// bound, used when a walk is seeded from several anchor edges that
// each carry a different ordering key rather than from a single
// shared bound.
type anchorSeed struct {
	vertex string
	bound  timekey.Key
}

// traverseForwardFrom is Build's forward relaxation generalized to a
// set of seeds that each carry their own starting bound, rather than
// one bound shared by every seed. BuildSince is the special case
// where every seed shares the same bound.
func traverseForwardFrom(idx *Index, seeds []anchorSeed) *Subgraph {
	sg := newSubgraph()
	best := make(map[string]*timekey.Key)
	dedup := make(map[model.EdgeKey]bool)
	var queue []string

	for _, s := range seeds {
		if sg.Nodes[s.vertex] {
			continue
		}
		b := s.bound
		best[s.vertex] = &b
		sg.Nodes[s.vertex] = true
		queue = append(queue, s.vertex)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		bound := timekey.Unknown
		if b := best[cur]; b != nil {
			bound = *b
		}

		for _, e := range idx.Forward[cur] {
			ek := timekey.Of(&e)
			if !timekey.GE(ek, bound) {
				continue
			}

			firstVisit := !sg.Nodes[e.To]
			improves := timekey.BetterForward(best[e.To], ek)

			if firstVisit || improves {
				nb := ek
				if ek.IsUnknown() {
					nb = bound
				}
				best[e.To] = &nb
				sg.Nodes[e.To] = true
				queue = append(queue, e.To)
			}

			key := e.Key()
			if !dedup[key] {
				dedup[key] = true
				sg.addEdge(e, firstVisit || improves)
			}
		}
	}

	return sg
}

// traverseReverseFrom is traverseForwardFrom's mirror image over the
// reverse index: an edge is admissible into a vertex whose best-known
// departure time is bound when the edge's ordering key is <= bound
// (timekey.LE), and relaxation prefers the latest reachable time.
func traverseReverseFrom(idx *Index, seeds []anchorSeed) *Subgraph {
	sg := newSubgraph()
	best := make(map[string]*timekey.Key)
	dedup := make(map[model.EdgeKey]bool)
	var queue []string

	for _, s := range seeds {
		if sg.Nodes[s.vertex] {
			continue
		}
		b := s.bound
		best[s.vertex] = &b
		sg.Nodes[s.vertex] = true
		queue = append(queue, s.vertex)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		bound := timekey.Unknown
		if b := best[cur]; b != nil {
			bound = *b
		}

		for _, e := range idx.Reverse[cur] {
			ek := timekey.Of(&e)
			if !timekey.LE(ek, bound) {
				continue
			}

			firstVisit := !sg.Nodes[e.From]
			improves := timekey.BetterReverse(best[e.From], ek)

			if firstVisit || improves {
				nb := ek
				if ek.IsUnknown() {
					nb = bound
				}
				best[e.From] = &nb
				sg.Nodes[e.From] = true
				queue = append(queue, e.From)
			}

			key := e.Key()
			if !dedup[key] {
				dedup[key] = true
				sg.addEdge(e, firstVisit || improves)
			}
		}
	}

	return sg
}

// PathsThrough builds the paths-through subgraph (spec §4.3): given a
// set of "special" anchor edge types, retain the union of the anchor
// edges themselves, every edge on a time-respecting path reaching an
// anchor's source (reverse BFS bounded by that anchor's own ordering
// key), and every edge on a time-respecting path leaving an anchor's
// destination (forward BFS bounded by that same key). This is
// independent of any seed vertex - it is its own pipeline stage (spec
// §2's data flow runs it before, and regardless of, seed BFS),
// mirroring the ground truth's filter_paths_through walking outward
// from each anchor edge's own endpoints rather than from a caller-
// supplied seed set. When anchorTypes is empty the filter is a no-op:
// every edge in idx passes through unchanged.
func PathsThrough(idx *Index, anchorTypes map[string]bool) *Subgraph {
	if len(anchorTypes) == 0 {
		return passthroughAll(idx)
	}

	var anchors []model.Edge
	for _, v := range sortedSources(idx) {
		for _, e := range idx.Forward[v] {
			if anchorTypes[e.Type] {
				anchors = append(anchors, e)
			}
		}
	}
	if len(anchors) == 0 {
		return newSubgraph()
	}

	preSeeds := make([]anchorSeed, 0, len(anchors))
	postSeeds := make([]anchorSeed, 0, len(anchors))
	for _, a := range anchors {
		k := timekey.Of(&a)
		preSeeds = append(preSeeds, anchorSeed{vertex: a.From, bound: k})
		postSeeds = append(postSeeds, anchorSeed{vertex: a.To, bound: k})
	}

	pre := traverseReverseFrom(idx, preSeeds)
	post := traverseForwardFrom(idx, postSeeds)

	merged := newSubgraph()
	dedup := make(map[model.EdgeKey]bool)
	for _, part := range []*Subgraph{pre, post} {
		for _, e := range part.Edges {
			key := e.Key()
			if dedup[key] {
				continue
			}
			dedup[key] = true
			merged.addEdge(e, part.TreeEdges[key])
		}
	}
	for _, a := range anchors {
		key := a.Key()
		if dedup[key] {
			continue
		}
		dedup[key] = true
		merged.addEdge(a, false)
	}

	return merged
}

// passthroughAll wraps every edge in idx into a Subgraph unchanged, no
// traversal performed.
func passthroughAll(idx *Index) *Subgraph {
	var edges []model.Edge
	for _, v := range sortedSources(idx) {
		edges = append(edges, idx.Forward[v]...)
	}
	return FromEdges(edges)
}

// sortedSources lists idx's source vertices in sorted order, so edge
// collection does not depend on map iteration order.
func sortedSources(idx *Index) []string {
	out := make([]string, 0, len(idx.Forward))
	for v := range idx.Forward {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
