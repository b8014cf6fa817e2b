package subgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rohankatakam/incgraph/internal/model"
	"github.com/rohankatakam/incgraph/internal/timekey"
)

func f(v float64) *float64 { return &v }

func edge(from, to, typ string, ts float64) model.Edge {
	return model.Edge{From: from, To: to, Type: typ, TS: f(ts)}
}

func TestBuildForwardRespectsTimeOrdering(t *testing.T) {
	edges := []model.Edge{
		edge("proc:a", "proc:b", "ParentOfEdge", 1),
		edge("proc:b", "proc:c", "ParentOfEdge", 2),
		// This edge happened before the seed's arrival at b and must
		// not be admitted forward from b.
		edge("proc:b", "proc:d", "ParentOfEdge", 0),
	}
	idx := BuildIndex(edges)
	sg := Build(idx, []string{"proc:a"})

	assert.True(t, sg.Nodes["proc:c"], "expected proc:c reachable forward")
	assert.False(t, sg.Nodes["proc:d"], "expected proc:d NOT reachable (edge predates arrival at b)")
}

func TestBuildTreeEdgeMarking(t *testing.T) {
	edges := []model.Edge{
		edge("proc:a", "proc:b", "ParentOfEdge", 5),
		edge("proc:a", "proc:b", "ConnectEdge", 1),
	}
	idx := BuildIndex(edges)
	sg := Build(idx, []string{"proc:a"})

	// Edges are pre-sorted by time, so the ts=1 edge is visited first
	// and becomes the tree edge; the ts=5 edge does not improve on it.
	assert.True(t, sg.TreeEdges[model.EdgeKey{From: "proc:a", To: "proc:b", Type: "ConnectEdge"}],
		"expected ConnectEdge (earlier) to be the tree edge")
}

func TestPathsThroughWalksFromAnchorEndpointsNotSeeds(t *testing.T) {
	edges := []model.Edge{
		edge("proc:p", "proc:q", "ConnectEdge", 5),
		// Disjoint component: never touches the anchor edge's endpoints.
		edge("proc:x", "proc:y", "ParentOfEdge", 1),
		edge("proc:y", "proc:z", "ParentOfEdge", 2),
	}
	idx := BuildIndex(edges)
	sg := PathsThrough(idx, map[string]bool{"ConnectEdge": true})

	assert.True(t, sg.Nodes["proc:p"] && sg.Nodes["proc:q"], "expected the anchor edge's own endpoints")
	assert.Len(t, sg.Edges, 1, "expected exactly the anchor edge, no seeds were given and no component touches it")
	assert.False(t, sg.Nodes["proc:x"] || sg.Nodes["proc:y"] || sg.Nodes["proc:z"],
		"disjoint component must not appear without being seeded or reaching the anchor")
}

func TestPathsThroughIncludesTimeRespectingApproachAndDeparture(t *testing.T) {
	edges := []model.Edge{
		// Leads into the anchor's source, before the anchor's own time.
		edge("proc:a", "proc:p", "ParentOfEdge", 3),
		edge("proc:p", "proc:q", "ConnectEdge", 5),
		// Leaves the anchor's destination, after the anchor's own time.
		edge("proc:q", "file:dropped", "CreatedFileEdge", 9),
		// Happened before the anchor reached q; not a valid onward departure.
		edge("proc:q", "file:stale", "CreatedFileEdge", 1),
	}
	idx := BuildIndex(edges)
	sg := PathsThrough(idx, map[string]bool{"ConnectEdge": true})

	assert.True(t, sg.Nodes["proc:a"], "expected reverse walk into the anchor's source")
	assert.True(t, sg.Nodes["file:dropped"], "expected forward walk out of the anchor's destination")
	assert.False(t, sg.Nodes["file:stale"], "edge predates the anchor and must not be admitted")
}

func TestPathsThroughEmptyTypesIsNoOp(t *testing.T) {
	edges := []model.Edge{
		edge("proc:a", "proc:b", "ParentOfEdge", 1),
		edge("proc:x", "proc:y", "ConnectEdge", 2),
	}
	idx := BuildIndex(edges)
	sg := PathsThrough(idx, nil)

	assert.Len(t, sg.Edges, 2, "expected every edge to pass through unchanged")
}

func TestPruneToIOAKeepsOnlyIOAConnectedEdges(t *testing.T) {
	ioaEdge := edge("proc:a", "proc:b", "ParentOfEdge", 1)
	ioaEdge.IOATags = []model.IOATag{{Name: "suspicious-parent"}}

	edges := []model.Edge{
		ioaEdge,
		edge("proc:b", "file:x", "CreatedFileEdge", 2),
		edge("proc:q", "proc:r", "ParentOfEdge", 1),
	}
	idx := BuildIndex(edges)
	sg := PruneToIOA(idx, edges)

	assert.True(t, sg.Nodes["proc:a"] && sg.Nodes["proc:b"] && sg.Nodes["file:x"],
		"expected IOA-connected vertices retained")
	assert.False(t, sg.Nodes["proc:q"] || sg.Nodes["proc:r"], "expected unrelated vertices dropped")
}

func TestBuildSinceExcludesEdgesBeforeStartBound(t *testing.T) {
	edges := []model.Edge{
		edge("proc:a", "proc:b", "ParentOfEdge", 1),
		edge("proc:a", "proc:c", "ParentOfEdge", 10),
	}
	idx := BuildIndex(edges)

	since := timekey.Key{TS: f(5)}
	sg := BuildSince(idx, []string{"proc:a"}, since)

	assert.False(t, sg.Nodes["proc:b"], "expected proc:b excluded: edge ts=1 predates start bound ts=5")
	assert.True(t, sg.Nodes["proc:c"], "expected proc:c reachable: edge ts=10 postdates start bound ts=5")
}

func TestBuildSinceUnknownBoundMatchesBuild(t *testing.T) {
	edges := []model.Edge{edge("proc:a", "proc:b", "ParentOfEdge", 1)}
	idx := BuildIndex(edges)

	want := Build(idx, []string{"proc:a"})
	got := BuildSince(idx, []string{"proc:a"}, timekey.Unknown)

	assert.Equal(t, len(want.Nodes), len(got.Nodes))
	assert.True(t, got.Nodes["proc:b"])
}

func TestBuildForwardPropagatesBoundThroughUnknownTimestampHop(t *testing.T) {
	edges := []model.Edge{
		edge("proc:a", "proc:b", "ParentOfEdge", 5),
		{From: "proc:b", To: "proc:c", Type: "ParentOfEdge"}, // unknown ts
		edge("proc:c", "proc:d", "ParentOfEdge", 3),
	}
	idx := BuildIndex(edges)
	sg := Build(idx, []string{"proc:a"})

	assert.True(t, sg.Nodes["proc:c"], "expected proc:c reachable through the unknown-ts hop")
	assert.False(t, sg.Nodes["proc:d"],
		"expected proc:d excluded: ts=3 predates the bound (5) inherited through the unknown-ts edge")
}

func TestSeedsByProcName(t *testing.T) {
	nodes := map[string]bool{"proc:a": true, "proc:b": true, "path:x": true}
	meta := map[string]*model.VertexMeta{
		"proc:a": {ID: "proc:a", Data: map[string]any{"image": `C:\evil\mal.exe`}},
		"proc:b": {ID: "proc:b", Data: map[string]any{"image": `C:\Windows\explorer.exe`}},
	}
	got := SeedsByProcName(nodes, meta, "mal.exe")
	assert.Equal(t, []string{"proc:a"}, got)
}
