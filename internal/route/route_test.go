package route

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteStraightLineWhenCurveDisabled(t *testing.T) {
	in := Input{
		From:       Box{X: 0, Y: 0, W: 100, H: 40},
		To:         Box{X: 300, Y: 0, W: 100, H: 40},
		CurveScale: 0,
	}
	res := Route(in)
	require.NotEmpty(t, res.Points, "expected sampled points")
	assert.True(t, strings.HasPrefix(res.Path, "M "), "expected a straight-line path, got %q", res.Path)
	assert.NotContains(t, res.Path, "C ")
}

func TestRouteTreeLayoutUsesSingleCurve(t *testing.T) {
	in := Input{
		From:       Box{X: 0, Y: 0, W: 100, H: 40},
		To:         Box{X: 0, Y: 200, W: 100, H: 40},
		CurveScale: 20,
		TreeLayout: true,
	}
	res := Route(in)
	assert.Contains(t, res.Path, "C ", "expected a cubic path")
}

func TestRouteAvoidsObstacleBox(t *testing.T) {
	in := Input{
		From:       Box{X: 0, Y: 0, W: 100, H: 40},
		To:         Box{X: 0, Y: 200, W: 100, H: 40},
		CurveScale: 40,
		Obstacles:  []Box{{X: -20, Y: 80, W: 200, H: 40}},
	}
	res := Route(in)
	for _, p := range res.Points {
		assert.False(t, pointInBox(p, in.Obstacles[0]), "expected route to avoid obstacle, point %v landed inside it", p)
	}
}

func TestShrinkToBoxLandsOnPerimeter(t *testing.T) {
	box := Box{X: 0, Y: 0, W: 100, H: 40}
	p := shrinkToBox(box, [2]float64{500, 20})
	assert.Equal(t, 100.0, p[0], "expected shrink to land on right edge (x=100)")
}

func TestRouteEndpointsStayOnBoxPerimeter(t *testing.T) {
	in := Input{
		From:       Box{X: 0, Y: 0, W: 100, H: 40},
		To:         Box{X: 300, Y: 0, W: 100, H: 40},
		CurveScale: 30,
	}
	res := Route(in)
	require.NotEmpty(t, res.Points)
	first := res.Points[0]
	assert.GreaterOrEqual(t, first[0], 0.0, "expected start point to sit near the From box")
	assert.LessOrEqual(t, first[0], 100.0, "expected start point to sit near the From box")
}
