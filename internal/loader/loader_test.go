package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/incgraph/internal/logging"
	"github.com/rohankatakam/incgraph/internal/model"
)

func discardLogger() *logrus.Logger { return logging.Discard() }

func writeTempJSONL(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.jsonl")
	var content string
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectKindAdjacency(t *testing.T) {
	path := writeTempJSONL(t,
		`{"record_type":"vertex","vertex_id":"proc:a","data":{}}`,
		`{"record_type":"edge","vertex_id":"proc:a","adjacent_id":"proc:b","type":"ParentOfEdge"}`,
	)
	kind, err := DetectKind(path)
	require.NoError(t, err)
	assert.EqualValues(t, "adjacency", kind)
}

func TestDetectKindFinding(t *testing.T) {
	path := writeTempJSONL(t,
		`{"root":"proc:a","sequence":[{"from":"proc:a","to":"proc:b","type":"ParentOfEdge"}]}`,
	)
	kind, err := DetectKind(path)
	require.NoError(t, err)
	assert.EqualValues(t, "finding", kind)
}

func TestLoadAdjacencyDedupAndFilters(t *testing.T) {
	path := writeTempJSONL(t,
		`{"record_type":"vertex","vertex_id":"proc:a","data":{}}`,
		`{"record_type":"vertex","vertex_id":"proc:b","data":{}}`,
		`{"record_type":"edge","vertex_id":"proc:a","adjacent_id":"proc:b","type":"ParentOfEdge","ts":1.0,"record_id":1}`,
		`{"record_type":"edge","vertex_id":"proc:a","adjacent_id":"proc:b","type":"ParentOfEdge","ts":1.0,"record_id":1}`,
		`{"record_type":"edge","vertex_id":"proc:a","adjacent_id":"net:1.2.3.4:80","type":"ConnectEdge","ts":2.0,"record_id":2}`,
		`not json at all`,
	)
	res, err := loadFromAdjacency(path, Filters{AllowedKinds: toSet([]string{"proc", "net"})}, discardLogger())
	require.NoError(t, err)
	assert.Len(t, res.Edges, 2, "expected deduped edges")
	assert.True(t, res.Nodes["proc:a"])
	assert.True(t, res.Nodes["proc:b"])
}

func TestLoadAdjacencySystemProcessSkipsFileEdge(t *testing.T) {
	path := writeTempJSONL(t,
		`{"record_type":"vertex","vertex_id":"proc:a","data":{"image":"C:\\Windows\\System32\\svchost.exe"}}`,
		`{"record_type":"edge","vertex_id":"proc:a","adjacent_id":"file:deadbeef","type":"CreatedFileEdge","ts":1.0}`,
	)
	res, err := loadFromAdjacency(path, Filters{SystemProcessPrefixes: []string{`c:\windows\system32\`}}, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, res.Edges, "expected system-process file edge to be suppressed")
}

func TestMaybeFillProcMetaFromImageEdge(t *testing.T) {
	meta := map[string]*model.VertexMeta{}
	row := &rawRow{
		Type:       "ImageOfEdge",
		VertexID:   `path:C:\Windows\System32\cmd.exe`,
		AdjacentID: "proc:p1",
	}
	maybeFillProcMetaFromImageEdge(meta, row)
	got := meta["proc:p1"]
	require.NotNil(t, got, "expected proc:p1 meta to be created")
	assert.Equal(t, `C:\Windows\System32\cmd.exe`, got.DataString("image"))
}

func TestLoadFindingsExpandsSequenceAndSelectsIndex(t *testing.T) {
	path := writeTempJSONL(t,
		`{"root":"proc:a","rule_id":"R1","sequence":[{"from":"proc:a","to":"proc:b","type":"ParentOfEdge","ts":1.0},{"from":"proc:b","to":"file:x","type":"CreatedFileEdge","ts":2.0,"name":"rule-name"}]}`,
		`{"root":"proc:c","rule_id":"R2","sequence":[{"from":"proc:c","to":"proc:d","type":"ParentOfEdge","ts":1.0}]}`,
	)

	all, err := loadFromFindings(path, Filters{}, -1, discardLogger())
	require.NoError(t, err)
	assert.Len(t, all.Edges, 3, "expected edges across both findings")

	first, err := loadFromFindings(path, Filters{}, 0, discardLogger())
	require.NoError(t, err)
	require.Len(t, first.Edges, 2, "expected edges from finding 0")
	for _, e := range first.Edges {
		assert.Equal(t, "R1", e.EventID)
	}
}

func TestLoadFindingRoots(t *testing.T) {
	path := writeTempJSONL(t,
		`{"root":"proc:a","sequence":[{"from":"proc:a","to":"proc:b","type":"ParentOfEdge"}]}`,
		`{"root":"proc:c","sequence":[{"from":"proc:c","to":"proc:d","type":"ParentOfEdge"}]}`,
	)
	roots, err := LoadFindingRoots(path, -1)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "proc:a", roots[0])
	assert.Equal(t, "proc:c", roots[1])

	single, err := LoadFindingRoots(path, 1)
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, "proc:c", single[0])
}
