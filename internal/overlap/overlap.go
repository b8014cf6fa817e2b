// Package overlap runs the post-layout cleanup every layout algorithm
// shares: pairwise rectangle separation so no two boxes end up
// drawn on top of each other, and bounding-box normalization that
// shifts the whole picture to a margin-padded positive origin
// (spec §4.7).
package overlap

import (
	"math"
	"sort"
)

const maxSeparationIterations = 40

// Separate nudges overlapping boxes apart, pairwise, for up to
// maxSeparationIterations passes, stopping early once a full pass
// makes no further adjustment. positions is modified in place; sizes
// is only read, and both must share the same key set.
func Separate(positions map[string][2]float64, sizes map[string][2]float64, padding float64) {
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for iter := 0; iter < maxSeparationIterations; iter++ {
		moved := false
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				if separatePair(positions, sizes, a, b, padding) {
					moved = true
				}
			}
		}
		if !moved {
			return
		}
	}
}

func separatePair(positions, sizes map[string][2]float64, a, b string, padding float64) bool {
	pa, pb := positions[a], positions[b]
	sa, sb := sizes[a], sizes[b]

	axMin, axMax := pa[0]-padding/2, pa[0]+sa[0]+padding/2
	ayMin, ayMax := pa[1]-padding/2, pa[1]+sa[1]+padding/2
	bxMin, bxMax := pb[0]-padding/2, pb[0]+sb[0]+padding/2
	byMin, byMax := pb[1]-padding/2, pb[1]+sb[1]+padding/2

	overlapX := math.Min(axMax, bxMax) - math.Max(axMin, bxMin)
	overlapY := math.Min(ayMax, byMax) - math.Max(ayMin, byMin)
	if overlapX <= 0 || overlapY <= 0 {
		return false
	}

	// Push apart along whichever axis has the smaller overlap, so a
	// wide shallow overlap resolves with a vertical nudge and vice versa.
	if overlapX < overlapY {
		shift := overlapX/2 + 0.5
		if pa[0] < pb[0] {
			positions[a] = [2]float64{pa[0] - shift, pa[1]}
			positions[b] = [2]float64{pb[0] + shift, pb[1]}
		} else {
			positions[a] = [2]float64{pa[0] + shift, pa[1]}
			positions[b] = [2]float64{pb[0] - shift, pb[1]}
		}
	} else {
		shift := overlapY/2 + 0.5
		if pa[1] < pb[1] {
			positions[a] = [2]float64{pa[0], pa[1] - shift}
			positions[b] = [2]float64{pb[0], pb[1] + shift}
		} else {
			positions[a] = [2]float64{pa[0], pa[1] + shift}
			positions[b] = [2]float64{pb[0], pb[1] - shift}
		}
	}
	return true
}

// Normalize shifts every position so the minimum box edge sits
// margin away from the origin, and returns the resulting canvas size.
func Normalize(positions map[string][2]float64, sizes map[string][2]float64, margin float64) (width, height float64) {
	if len(positions) == 0 {
		return 0, 0
	}

	minX, minY := math.Inf(1), math.Inf(1)
	for _, p := range positions {
		if p[0] < minX {
			minX = p[0]
		}
		if p[1] < minY {
			minY = p[1]
		}
	}

	dx, dy := margin-minX, margin-minY
	maxX, maxY := 0.0, 0.0
	for id, p := range positions {
		np := [2]float64{p[0] + dx, p[1] + dy}
		positions[id] = np
		w, h := boxSize(sizes, id)
		if np[0]+w > maxX {
			maxX = np[0] + w
		}
		if np[1]+h > maxY {
			maxY = np[1] + h
		}
	}

	return maxX + margin, maxY + margin
}

func boxSize(sizes map[string][2]float64, id string) (float64, float64) {
	if s, ok := sizes[id]; ok {
		return s[0], s[1]
	}
	return 140, 40
}
