package layout

import (
	"sort"

	"github.com/rohankatakam/incgraph/internal/model"
)

const treeCrossingSweeps = 6

// Tree lays vertices out by BFS depth from the roots of the
// configured layer-edge types, then runs alternating up/down
// barycentric sweeps to reduce edge crossings within each depth
// (spec §4.6). Non-proc vertices sit one level below an adjacent
// process and inherit that process's initial order, so a process's
// files/connections cluster near it before the crossing-reduction
// sweeps refine the picture.
func Tree(in Input) *Result {
	positions := make(map[string][2]float64, len(in.Nodes))
	if len(in.Nodes) == 0 {
		return &Result{Positions: positions}
	}

	layerTypes := make(map[string]bool, len(in.Config.LayerEdge))
	for _, t := range in.Config.LayerEdge {
		layerTypes[t] = true
	}

	children := make(map[string][]string)
	indegree := make(map[string]int)
	for _, id := range in.Nodes {
		indegree[id] = 0
	}
	for _, e := range in.Edges {
		if !layerTypes[e.Type] || e.From == e.To {
			continue
		}
		children[e.From] = append(children[e.From], e.To)
		indegree[e.To]++
	}
	for _, list := range children {
		sort.Strings(list)
	}

	depth := make(map[string]int, len(in.Nodes))
	parent := make(map[string]string, len(in.Nodes))
	visited := make(map[string]bool, len(in.Nodes))
	var roots []string
	for _, id := range in.Nodes {
		if indegree[id] == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)

	var queue []string
	for _, r := range roots {
		visited[r] = true
		depth[r] = 0
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, c := range children[v] {
			if visited[c] {
				continue
			}
			visited[c] = true
			depth[c] = depth[v] + 1
			parent[c] = v
			queue = append(queue, c)
		}
	}
	// Any vertex never reached by a layer edge (isolated or
	// disconnected from every root) still needs a row; park it at
	// depth 0 alongside the roots.
	for _, id := range in.Nodes {
		if !visited[id] {
			depth[id] = 0
		}
	}
	// Attach each non-proc vertex one level below an adjacent proc:
	// a vertex no layer edge reached takes that depth outright, one
	// already placed by the BFS moves only if this is shallower.
	for _, e := range in.Edges {
		p, o := e.From, e.To
		if model.VertexKind(p) != model.KindProc {
			p, o = o, p
		}
		if model.VertexKind(p) != model.KindProc || model.VertexKind(o) == model.KindProc {
			continue
		}
		_, reached := parent[o]
		if d := depth[p] + 1; !reached || d < depth[o] {
			depth[o] = d
			parent[o] = p
		}
	}

	maxDepth := 0
	for _, d := range depth {
		if d > maxDepth {
			maxDepth = d
		}
	}

	order := make(map[string]int, len(in.Nodes))
	byDepth := make([][]string, maxDepth+1)
	for _, id := range in.Nodes {
		d := depth[id]
		byDepth[d] = append(byDepth[d], id)
	}
	for d := range byDepth {
		row := byDepth[d]
		if d == 0 {
			sort.Strings(row)
		} else {
			sort.SliceStable(row, func(i, j int) bool {
				pi, pj := parent[row[i]], parent[row[j]]
				if order[pi] != order[pj] {
					return order[pi] < order[pj]
				}
				return row[i] < row[j]
			})
		}
		for i, id := range row {
			order[id] = i
		}
		byDepth[d] = row
	}

	barycentricSweeps(byDepth, children, parent, order)

	nodeGap, layerGap := EffectiveGaps(in.Config)
	for d, row := range byDepth {
		var cross float64
		for _, id := range row {
			w, _ := sizeOf(in, id)
			positions[id] = [2]float64{cross, float64(d) * layerGap}
			cross += w + nodeGap
		}
	}

	w, h := boundingBox(positions, in.Sizes)
	return &Result{Positions: positions, Width: w, Height: h}
}

func barycentricSweeps(byDepth [][]string, children map[string][]string, parent map[string]string, order map[string]int) {
	n := len(byDepth)
	if n == 0 {
		return
	}
	for sweep := 0; sweep < treeCrossingSweeps; sweep++ {
		if sweep%2 == 0 {
			for d := 1; d < n; d++ {
				reorderByBarycenter(byDepth[d], order, func(id string) float64 {
					p, ok := parent[id]
					if !ok {
						return float64(order[id])
					}
					return float64(order[p])
				})
			}
		} else {
			for d := n - 2; d >= 0; d-- {
				reorderByBarycenter(byDepth[d], order, func(id string) float64 {
					kids := children[id]
					if len(kids) == 0 {
						return float64(order[id])
					}
					sum := 0.0
					for _, k := range kids {
						sum += float64(order[k])
					}
					return sum / float64(len(kids))
				})
			}
		}
	}
}

func reorderByBarycenter(row []string, order map[string]int, key func(string) float64) {
	keys := make(map[string]float64, len(row))
	for _, id := range row {
		keys[id] = key(id)
	}
	sort.SliceStable(row, func(i, j int) bool {
		if keys[row[i]] != keys[row[j]] {
			return keys[row[i]] < keys[row[j]]
		}
		return row[i] < row[j]
	})
	for i, id := range row {
		order[id] = i
	}
}
