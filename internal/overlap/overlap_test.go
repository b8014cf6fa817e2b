package overlap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func boxesOverlap(pa, pb [2]float64, sa, sb [2]float64) bool {
	axMax, bxMax := pa[0]+sa[0], pb[0]+sb[0]
	ayMax, byMax := pa[1]+sa[1], pb[1]+sb[1]
	overlapX := math.Min(axMax, bxMax) - math.Max(pa[0], pb[0])
	overlapY := math.Min(ayMax, byMax) - math.Max(pa[1], pb[1])
	return overlapX > 0 && overlapY > 0
}

func TestSeparateRemovesOverlap(t *testing.T) {
	positions := map[string][2]float64{
		"a": {0, 0},
		"b": {10, 10},
	}
	sizes := map[string][2]float64{
		"a": {100, 40},
		"b": {100, 40},
	}
	Separate(positions, sizes, 10)

	assert.False(t, boxesOverlap(positions["a"], positions["b"], sizes["a"], sizes["b"]),
		"expected boxes to no longer overlap, got %v / %v", positions["a"], positions["b"])
}

func TestSeparateIsNoopWhenAlreadyClear(t *testing.T) {
	positions := map[string][2]float64{
		"a": {0, 0},
		"b": {1000, 1000},
	}
	sizes := map[string][2]float64{
		"a": {100, 40},
		"b": {100, 40},
	}
	before := positions["a"]
	Separate(positions, sizes, 10)
	assert.Equal(t, before, positions["a"], "expected non-overlapping boxes to stay put")
}

func TestNormalizeShiftsToMargin(t *testing.T) {
	positions := map[string][2]float64{
		"a": {-50, -30},
		"b": {100, 200},
	}
	sizes := map[string][2]float64{
		"a": {100, 40},
		"b": {140, 40},
	}
	w, h := Normalize(positions, sizes, 20)

	assert.Equal(t, [2]float64{20, 20}, positions["a"], "expected min box shifted to margin")
	assert.Greater(t, w, 0.0)
	assert.Greater(t, h, 0.0)
}
