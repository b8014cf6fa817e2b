package subgraph

import (
	"sort"
	"strings"

	"github.com/rohankatakam/incgraph/internal/model"
)

// SeedsByProcName finds proc vertices whose resolved image or command
// line contains name (case-insensitive substring match), for the
// --proc-name seed-discovery mode (spec §5.1 supplement): a vertex is
// a candidate only if it is a proc vertex present in nodes.
func SeedsByProcName(nodes map[string]bool, meta map[string]*model.VertexMeta, name string) []string {
	if name == "" {
		return nil
	}
	needle := strings.ToLower(name)
	var out []string
	for id := range nodes {
		if model.VertexKind(id) != model.KindProc {
			continue
		}
		m := meta[id]
		image := strings.ToLower(m.DataString("image", "Image"))
		cmd := strings.ToLower(m.DataString("command_line", "CommandLine"))
		if strings.Contains(image, needle) || strings.Contains(cmd, needle) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
