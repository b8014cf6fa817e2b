package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rohankatakam/incgraph/internal/config"
	"github.com/rohankatakam/incgraph/internal/model"
)

func ts(v float64) *float64 { return &v }

func sampleInput(layoutKind config.LayoutKind) Input {
	nodes := []string{"proc:a", "proc:b", "file:c", "net:d"}
	edges := []model.Edge{
		{From: "proc:a", To: "proc:b", Type: "ParentOfEdge", TS: ts(1)},
		{From: "proc:b", To: "file:c", Type: "CreatedFileEdge", TS: ts(2)},
		{From: "proc:b", To: "net:d", Type: "ConnectEdge", TS: ts(3)},
	}
	sizes := map[string][2]float64{
		"proc:a": {140, 40}, "proc:b": {140, 40}, "file:c": {140, 40}, "net:d": {140, 40},
	}
	return Input{
		Nodes: nodes,
		Edges: edges,
		Sizes: sizes,
		Config: config.LayoutConfig{
			Layout:      layoutKind,
			Iterations:  50,
			Seed:        7,
			LayerEdge:   []string{"ParentOfEdge"},
			RankDir:     config.RankTB,
			LayerGap:    180,
			NodeGap:     200,
			NodePadding: 20,
		},
	}
}

func assertAllPlaced(t *testing.T, in Input, res *Result) {
	t.Helper()
	for _, id := range in.Nodes {
		_, ok := res.Positions[id]
		assert.True(t, ok, "vertex %s was not placed", id)
	}
}

func TestCirclePlacesEveryNode(t *testing.T) {
	in := sampleInput(config.LayoutCircle)
	res := Circle(in)
	assertAllPlaced(t, in, res)
}

func TestForcePlacesEveryNodeDeterministically(t *testing.T) {
	in := sampleInput(config.LayoutForce)
	res1 := Force(in)
	res2 := Force(in)
	assertAllPlaced(t, in, res1)
	for _, id := range in.Nodes {
		assert.Equal(t, res1.Positions[id], res2.Positions[id], "force layout not deterministic for %s", id)
	}
}

func TestLayeredOrdersByParentOfDepth(t *testing.T) {
	in := sampleInput(config.LayoutLayered)
	res := Layered(in)
	assertAllPlaced(t, in, res)
	assert.Less(t, res.Positions["proc:a"][1], res.Positions["proc:b"][1],
		"expected proc:a to sit in an earlier layer (smaller y) than proc:b")
}

func TestTreePlacesRootAboveChildren(t *testing.T) {
	in := sampleInput(config.LayoutTree)
	res := Tree(in)
	assertAllPlaced(t, in, res)
	assert.Less(t, res.Positions["proc:a"][1], res.Positions["file:c"][1],
		"expected root to sit above its descendant")
}

func TestTimeOrdersByEarliestTimestamp(t *testing.T) {
	in := sampleInput(config.LayoutTime)
	res := Time(in)
	assertAllPlaced(t, in, res)
	assert.LessOrEqual(t, res.Positions["proc:a"][1], res.Positions["net:d"][1],
		"expected earlier-touched vertex to sit in an earlier time layer")
}

func TestRunDispatchesByConfig(t *testing.T) {
	for _, kind := range []config.LayoutKind{config.LayoutForce, config.LayoutCircle, config.LayoutLayered, config.LayoutTree, config.LayoutTime} {
		in := sampleInput(kind)
		res := Run(in)
		assertAllPlaced(t, in, res)
	}
}
