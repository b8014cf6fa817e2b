package loader

import (
	"strings"

	"github.com/rohankatakam/incgraph/internal/model"
)

// maybeFillProcMeta backfills a proc vertex's image/command-line
// metadata from fields embedded directly on an edge record that
// touches it, when the vertex-record pass never supplied them.
func maybeFillProcMeta(meta map[string]*model.VertexMeta, vertexID string, row *rawRow) {
	if model.VertexKind(vertexID) != model.KindProc {
		return
	}
	fields, ok := row.Data["fields"].(map[string]any)
	if !ok {
		return
	}
	image := stringField(fields, "Image", "image")
	cmdline := stringField(fields, "CommandLine", "command_line", "cmdline", "Cmdline", "cmd")
	if image == "" && cmdline == "" {
		return
	}

	existing := meta[vertexID]
	if existing == nil {
		existing = &model.VertexMeta{ID: vertexID, Data: map[string]any{}}
		meta[vertexID] = existing
	}
	if existing.Data == nil {
		existing.Data = map[string]any{}
	}
	if image != "" && existing.DataString("image", "Image") == "" {
		existing.Data["image"] = image
	}
	if cmdline != "" && existing.DataString("command_line", "CommandLine") == "" {
		existing.Data["command_line"] = cmdline
	}
}

// maybeFillProcMetaFromImageEdge backfills a proc vertex's image path
// from an ImageOfEdge (path -> proc), whose source path vertex ID
// already encodes the image path as its payload.
func maybeFillProcMetaFromImageEdge(meta map[string]*model.VertexMeta, row *rawRow) {
	if row.Type != "ImageOfEdge" {
		return
	}
	src, dst := row.VertexID, row.AdjacentID
	if model.VertexKind(src) != model.KindPath || model.VertexKind(dst) != model.KindProc {
		return
	}
	image := extractPathFromPathVertexID(src)
	if image == "" {
		return
	}

	existing := meta[dst]
	if existing == nil {
		meta[dst] = &model.VertexMeta{ID: dst, Data: map[string]any{"image": image}}
		return
	}
	if existing.Data == nil {
		existing.Data = map[string]any{}
	}
	if existing.DataString("image", "Image") == "" {
		existing.Data["image"] = image
	}
}

// extractPathFromPathVertexID returns the filesystem path payload of a
// "path:<path>" vertex ID, tolerating colons inside the path itself
// (e.g. a drive letter) by splitting only on the first separator.
func extractPathFromPathVertexID(vertexID string) string {
	if !strings.HasPrefix(vertexID, string(model.KindPath)+":") {
		return ""
	}
	parts := strings.SplitN(vertexID, ":", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func stringField(fields map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// shouldSkipFileEdge implements the system-process suppression rule
// (spec §4.1, §9): a proc<->path/file edge is dropped when the proc
// endpoint's resolved image matches a configured system-process
// prefix, keeping noisy OS-process file I/O out of the rendered graph.
func shouldSkipFileEdge(vertexID, adjacentID string, meta map[string]*model.VertexMeta, prefixes []string) bool {
	vk, ak := model.VertexKind(vertexID), model.VertexKind(adjacentID)
	if vk == model.KindProc && (ak == model.KindPath || ak == model.KindFile) {
		return isSystemProcess(meta[vertexID], prefixes)
	}
	if ak == model.KindProc && (vk == model.KindPath || vk == model.KindFile) {
		return isSystemProcess(meta[adjacentID], prefixes)
	}
	return false
}

func isSystemProcess(meta *model.VertexMeta, prefixes []string) bool {
	if meta == nil {
		return false
	}
	image := strings.ToLower(meta.DataString("image", "Image"))
	if image == "" {
		return false
	}
	for _, p := range prefixes {
		if strings.HasPrefix(image, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
