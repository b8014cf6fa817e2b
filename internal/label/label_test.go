package label

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rohankatakam/incgraph/internal/model"
)

func TestLabelProcUsesImageBasename(t *testing.T) {
	meta := &model.VertexMeta{Data: map[string]any{"image": `C:\Windows\System32\cmd.exe`}}
	assert.Equal(t, "cmd.exe", Label("proc:abc-123", meta))
}

func TestLabelFallsBackToPayload(t *testing.T) {
	assert.Equal(t, "1.2.3.4:443", Label("net:1.2.3.4:443", nil))
}

func TestLabelTruncatesLongNames(t *testing.T) {
	long := ""
	for i := 0; i < 100; i++ {
		long += "a"
	}
	meta := &model.VertexMeta{Data: map[string]any{"image": long}}
	assert.Len(t, Label("proc:x", meta), maxLabelLen)
}

func TestSizeGrowsWithLines(t *testing.T) {
	w1, h1 := Size("short")
	w2, h2 := Size("short\nmultiline\nlabel")
	assert.Greater(t, h2, h1, "expected multi-line label to be taller")
	assert.GreaterOrEqual(t, w1, 100.0)
	assert.LessOrEqual(t, w1, 240.0)
	assert.GreaterOrEqual(t, w2, 100.0)
	assert.LessOrEqual(t, w2, 240.0)
}

func TestEdgeLabelTextModes(t *testing.T) {
	assert.Empty(t, EdgeLabelText("ParentOfEdge", "none"))
	assert.Equal(t, "ParentOfEdge", EdgeLabelText("ParentOfEdge", "hover"))

	got := EdgeLabelText("ParentOfEdge", "text")
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "ParentOfEdge", got)
}

func TestEdgeColorFallback(t *testing.T) {
	assert.Equal(t, "#888888", EdgeColor("NotARealEdgeType"))
}
