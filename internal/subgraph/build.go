package subgraph

import (
	"github.com/rohankatakam/incgraph/internal/model"
	"github.com/rohankatakam/incgraph/internal/timekey"
)

// Build walks forward from seeds (spec §4.2): an edge is admissible
// from a vertex whose best-known arrival time is bound when the edge's
// ordering key is >= bound (timekey.GE), so traversal never travels
// backward in time relative to how it reached the current vertex. The
// edge that first reaches a vertex, or later re-reaches it with a
// strictly earlier key, is marked a tree edge.
func Build(idx *Index, seeds []string) *Subgraph {
	return BuildSince(idx, seeds, timekey.Unknown)
}

// BuildSince is Build with every seed's starting bound set to since
// instead of timekey.Unknown, so a configured start timestamp (spec
// §4.2/§6 --start-ts) excludes any edge departing a seed earlier than
// since, and transitively anything only reachable through such an
// edge. since == timekey.Unknown reproduces Build's behavior exactly,
// since timekey.GE admits everything against an unknown bound.
func BuildSince(idx *Index, seeds []string, since timekey.Key) *Subgraph {
	sg := newSubgraph()
	best := make(map[string]*timekey.Key)
	dedup := make(map[model.EdgeKey]bool)
	var queue []string

	for _, s := range seeds {
		if sg.Nodes[s] {
			continue
		}
		sg.Nodes[s] = true
		b := since
		best[s] = &b
		queue = append(queue, s)
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
				// An edge with no ordering key of its own doesn't reset
				// the bound to unknown - it carries the inherited bound
				// forward unchanged, the same way the departing vertex's
				// time propagates through a timestamp-less hop.
				nb := ek
				if ek.IsUnknown() {
					nb = bound
				}
				best[e.To] = &nb
				sg.Nodes[e.To] = true
				// Re-enqueue on improvement too, so descendants see
				// the tighter bound.
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
