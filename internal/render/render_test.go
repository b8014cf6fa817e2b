package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/incgraph/internal/config"
	"github.com/rohankatakam/incgraph/internal/layout"
	"github.com/rohankatakam/incgraph/internal/model"
)

func sampleGraph() *Graph {
	nodeIDs := []string{"proc:a", "proc:b", "file:c"}
	edges := []model.Edge{
		{From: "proc:a", To: "proc:b", Type: "ParentOfEdge"},
		{From: "proc:b", To: "file:c", Type: "CreatedFileEdge"},
	}
	meta := map[string]*model.VertexMeta{}
	lay := &layout.Result{
		Positions: map[string][2]float64{
			"proc:a": {0, 0},
			"proc:b": {200, 0},
			"file:c": {400, 0},
		},
		Width: 540, Height: 80,
	}
	sizes := map[string][2]float64{
		"proc:a": {140, 40}, "proc:b": {140, 40}, "file:c": {140, 40},
	}
	cfg := config.RenderConfig{EdgeCurve: 20, EdgeLabel: config.EdgeLabelText, Legend: true, MaxSize: 2400}
	layoutCfg := config.LayoutConfig{Layout: config.LayoutForce}
	return Build(nodeIDs, edges, meta, lay, sizes, cfg, layoutCfg)
}

func TestDOTSinkProducesValidish(t *testing.T) {
	g := sampleGraph()
	out, err := DOTSink{}.Render(g)
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, "digraph"), "expected digraph header, got %q", s[:20])
	assert.Contains(t, s, "proc:a")
}

func TestJSONSinkSortsNodesByID(t *testing.T) {
	g := sampleGraph()
	out, err := JSONSink{}.Render(g)
	require.NoError(t, err)
	var parsed jsonGraph
	require.NoError(t, json.Unmarshal(out, &parsed))
	require.Len(t, parsed.Nodes, 3)
	for i := 1; i < len(parsed.Nodes); i++ {
		assert.LessOrEqual(t, parsed.Nodes[i-1].ID, parsed.Nodes[i].ID, "nodes not sorted")
	}
	assert.Len(t, parsed.Edges, 2)
}

func TestSimpleSVGSinkProducesValidSVG(t *testing.T) {
	g := sampleGraph()
	out, err := SimpleSVGSink{}.Render(g)
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, "<svg"), "expected svg root element, got %q", s[:20])
	assert.Contains(t, s, "</svg>")
}
