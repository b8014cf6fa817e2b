package layout

import "sort"

// maxTimeBuckets bounds how many distinct timestamp columns the time
// layout will ever draw, so a feed with thousands of distinct
// timestamps still renders a readable number of layers (spec §4.6).
const maxTimeBuckets = 120

// Time buckets vertices into timestamp-ordered layers: each distinct
// edge timestamp becomes a candidate bucket boundary, collapsed down
// to at most maxTimeBuckets evenly-sized buckets when there are more
// distinct timestamps than that. A vertex's layer is the bucket of
// the earliest timestamped edge that touches it; vertices never
// touched by a timestamped edge are placed in a trailing "unknown"
// layer after every timed one.
func Time(in Input) *Result {
	positions := make(map[string][2]float64, len(in.Nodes))
	if len(in.Nodes) == 0 {
		return &Result{Positions: positions}
	}

	tsSet := make(map[float64]bool)
	for _, e := range in.Edges {
		if e.TS != nil {
			tsSet[*e.TS] = true
		}
	}
	var distinct []float64
	for ts := range tsSet {
		distinct = append(distinct, ts)
	}
	sort.Float64s(distinct)

	bucketOf := bucketFunc(distinct, maxTimeBuckets)

	earliest := make(map[string]float64, len(in.Nodes))
	hasTS := make(map[string]bool, len(in.Nodes))
	for _, e := range in.Edges {
		if e.TS == nil {
			continue
		}
		for _, v := range [2]string{e.From, e.To} {
			if !hasTS[v] || *e.TS < earliest[v] {
				earliest[v] = *e.TS
				hasTS[v] = true
			}
		}
	}

	unknownLayer := len(distinct)
	if unknownLayer > maxTimeBuckets {
		unknownLayer = maxTimeBuckets
	}

	layer := make(map[string]int, len(in.Nodes))
	for _, id := range in.Nodes {
		if hasTS[id] {
			layer[id] = bucketOf(earliest[id])
		} else {
			layer[id] = unknownLayer
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
	for l := 0; l <= maxLayer; l++ {
		var cross float64
		for _, id := range byLayer[l] {
			w, _ := sizeOf(in, id)
			positions[id] = [2]float64{cross, float64(l) * layerGap}
			cross += w + nodeGap
		}
	}

	w, h := boundingBox(positions, in.Sizes)
	return &Result{Positions: positions, Width: w, Height: h}
}

// bucketFunc returns a function mapping a timestamp to its bucket
// index. When there are at most maxBuckets distinct timestamps, each
// gets its own bucket (exact ordering); otherwise timestamps are
// collapsed into maxBuckets evenly-sized ranges.
func bucketFunc(distinct []float64, maxBuckets int) func(float64) int {
	if len(distinct) == 0 {
		return func(float64) int { return 0 }
	}
	if len(distinct) <= maxBuckets {
		index := make(map[float64]int, len(distinct))
		for i, ts := range distinct {
			index[ts] = i
		}
		return func(ts float64) int { return index[ts] }
	}

	lo, hi := distinct[0], distinct[len(distinct)-1]
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	return func(ts float64) int {
		b := int(((ts - lo) / span) * float64(maxBuckets))
		if b >= maxBuckets {
			b = maxBuckets - 1
		}
		if b < 0 {
			b = 0
		}
		return b
	}
}
