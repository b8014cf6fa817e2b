package layout

import "math"

// maxForceIterations caps the simulation at any graph size, whatever
// the configured iteration count; large graphs are throttled further
// inside Force, so a 5000-node adjacency dump doesn't turn an
// O(n^2)-per-iteration simulation into a multi-minute run (spec §4.6
// iteration throttling).
const maxForceIterations = 500

// Force runs a Fruchterman-Reingold simulation: vertices repel each
// other uniformly, edges pull their endpoints together, and a cooling
// temperature shrinks the per-iteration displacement so the system
// settles instead of oscillating forever.
func Force(in Input) *Result {
	n := len(in.Nodes)
	positions := make(map[string][2]float64, n)
	if n == 0 {
		return &Result{Positions: positions}
	}

	area := 600.0 * float64(n)
	k := math.Sqrt(area / float64(n))

	rng := newSplitMix64(in.Config.Seed)
	side := math.Sqrt(area)
	for _, id := range in.Nodes {
		positions[id] = [2]float64{rng.uniform(0, side), rng.uniform(0, side)}
	}

	iterations := in.Config.Iterations
	if iterations <= 0 {
		iterations = 200
	}
	if iterations > maxForceIterations {
		iterations = maxForceIterations
	}
	// A dense graph converges in far fewer steps than it costs to run
	// the full configured count; this keeps wall-clock bounded without
	// changing the result for graphs small enough to need every step.
	if n > 1500 {
		iterations = iterations / 4
		if iterations < 30 {
			iterations = 30
		}
	}

	temperature := side / 10

	for iter := 0; iter < iterations; iter++ {
		disp := make(map[string][2]float64, n)

		for i, v := range in.Nodes {
			for _, u := range in.Nodes[i+1:] {
				pv, pu := positions[v], positions[u]
				dx, dy := pv[0]-pu[0], pv[1]-pu[1]
				dist := math.Hypot(dx, dy)
				if dist < 0.01 {
					dist = 0.01
				}
				repel := (k * k) / dist
				fx, fy := (dx/dist)*repel, (dy/dist)*repel
				d := disp[v]
				disp[v] = [2]float64{d[0] + fx, d[1] + fy}
				d = disp[u]
				disp[u] = [2]float64{d[0] - fx, d[1] - fy}
			}
		}

		for _, e := range in.Edges {
			pv, ok1 := positions[e.From]
			pu, ok2 := positions[e.To]
			if !ok1 || !ok2 || e.From == e.To {
				continue
			}
			dx, dy := pv[0]-pu[0], pv[1]-pu[1]
			dist := math.Hypot(dx, dy)
			if dist < 0.01 {
				dist = 0.01
			}
			attract := (dist * dist) / k
			fx, fy := (dx/dist)*attract, (dy/dist)*attract
			d := disp[e.From]
			disp[e.From] = [2]float64{d[0] - fx, d[1] - fy}
			d = disp[e.To]
			disp[e.To] = [2]float64{d[0] + fx, d[1] + fy}
		}

		for _, v := range in.Nodes {
			d := disp[v]
			dist := math.Hypot(d[0], d[1])
			if dist < 0.01 {
				dist = 0.01
			}
			limited := math.Min(dist, temperature)
			p := positions[v]
			positions[v] = [2]float64{
				p[0] + (d[0]/dist)*limited,
				p[1] + (d[1]/dist)*limited,
			}
		}

		temperature *= 0.95
	}

	// Shift into positive coordinates and account for box size.
	minX, minY := math.Inf(1), math.Inf(1)
	for _, id := range in.Nodes {
		p := positions[id]
		if p[0] < minX {
			minX = p[0]
		}
		if p[1] < minY {
			minY = p[1]
		}
	}
	for _, id := range in.Nodes {
		w, h := sizeOf(in, id)
		p := positions[id]
		positions[id] = [2]float64{p[0] - minX + w/2, p[1] - minY + h/2}
	}

	w, h := boundingBox(positions, in.Sizes)
	return &Result{Positions: positions, Width: w, Height: h}
}
