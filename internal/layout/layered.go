package layout

import "sort"

// Layered assigns each vertex a layer via longest-path leveling over
// the configured layer edge types (ParentOfEdge by default): a
// Kahn's-algorithm-style topological walk where a vertex's layer is
// one past the deepest of its layer-edge parents. Vertices untouched
// by any layer edge sit at layer 0. Layers are then laid out as
// evenly spaced rows (or columns, for RankDir LR).
func Layered(in Input) *Result {
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

	layer := make(map[string]int, len(in.Nodes))
	var queue []string
	for _, id := range in.Nodes {
		if indegree[id] == 0 {
			layer[id] = 0
			queue = append(queue, id)
		}
	}
	visited := make(map[string]bool, len(in.Nodes))
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if visited[v] {
			continue
		}
		visited[v] = true
		for _, c := range children[v] {
			if layer[v]+1 > layer[c] {
				layer[c] = layer[v] + 1
			}
			indegree[c]--
			if indegree[c] <= 0 {
				queue = append(queue, c)
			}
		}
	}
	// Anything left unvisited sits in (or below) a cycle formed
	// entirely of layer edges; it keeps whatever layer relaxation
	// already gave it, or is parked at layer 0 if it got none.
	for _, id := range in.Nodes {
		if !visited[id] {
			if _, ok := layer[id]; !ok {
				layer[id] = 0
			}
		}
	}

	byLayer := make(map[int][]string)
	maxLayer := 0
	for _, id := range in.Nodes {
		l := layer[id]
		byLayer[l] = append(byLayer[l], id)
		if l > maxLayer {
			maxLayer = l
		}
	}
	for l := range byLayer {
		sort.Strings(byLayer[l])
	}

	nodeGap, layerGap := EffectiveGaps(in.Config)
	horizontal := in.Config.RankDir == "LR"

	for l := 0; l <= maxLayer; l++ {
		row := byLayer[l]
		var cross float64
		for _, id := range row {
			w, h := sizeOf(in, id)
			size := w
			if horizontal {
				size = h
			}
			if horizontal {
				positions[id] = [2]float64{float64(l) * layerGap, cross}
			} else {
				positions[id] = [2]float64{cross, float64(l) * layerGap}
			}
			cross += size + nodeGap
		}
	}

	w, h := boundingBox(positions, in.Sizes)
	return &Result{Positions: positions, Width: w, Height: h}
}
