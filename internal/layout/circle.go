package layout

import "math"

// Circle places every vertex evenly spaced around a single ring, in
// sorted-ID order, with a radius large enough to keep adjacent boxes
// from overlapping even before the separation pass runs.
func Circle(in Input) *Result {
	n := len(in.Nodes)
	positions := make(map[string][2]float64, n)
	if n == 0 {
		return &Result{Positions: positions}
	}

	nodeGap, _ := EffectiveGaps(in.Config)
	circumference := float64(n) * (nodeGap + 60)
	radius := circumference / (2 * math.Pi)
	if radius < 150 {
		radius = 150
	}
	cx, cy := radius+200, radius+200

	for i, id := range in.Nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		w, h := sizeOf(in, id)
		positions[id] = [2]float64{
			cx + radius*math.Cos(angle) - w/2,
			cy + radius*math.Sin(angle) - h/2,
		}
	}

	w, h := boundingBox(positions, in.Sizes)
	return &Result{Positions: positions, Width: w, Height: h}
}
