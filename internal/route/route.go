// Package route computes cubic-Bezier paths between two vertex boxes
// for the renderer (spec §4.8): a straight line when curvature is
// disabled, a single fixed curve for tree layouts (whose hierarchy
// already reads cleanly without curve variety), and otherwise an
// 8-candidate curvature search that penalizes passing through another
// vertex's box or hugging an already-routed edge too closely.
package route

import (
	"math"
	"strconv"
)

// curvatureMultipliers are searched in this order; the first to reach
// the lowest penalty wins ties, giving a slight bias toward the
// smallest curvature magnitude.
var curvatureMultipliers = []float64{1.0, -1.0, 1.6, -1.6, 2.3, -2.3, 3.0, -3.0}

const (
	nodeAvoidancePenalty = 500.0
	edgeAvoidanceScale   = 60.0
	edgeAvoidanceBuckets = 14
	sampleCount          = 18
)

// Box is an axis-aligned vertex box in canvas coordinates.
type Box struct {
	X, Y, W, H float64
}

func (b Box) center() [2]float64 {
	return [2]float64{b.X + b.W/2, b.Y + b.H/2}
}

// Result is a computed edge route: the sampled polyline (for
// avoidance scoring of subsequent edges) and an SVG cubic-Bezier path
// string built from the same curve.
type Result struct {
	Points [][2]float64
	Path   string
}

// Input bundles one edge's routing request.
type Input struct {
	From, To     Box
	CurveScale   float64 // 0 disables curvature entirely (config EdgeCurve)
	TreeLayout   bool
	Obstacles    []Box       // vertex boxes to avoid passing through, excluding From/To
	RoutedEdges  [][][2]float64 // previously routed edges' sampled points
}

// Route computes the best-scoring path for one edge.
func Route(in Input) Result {
	from, to := in.From.center(), in.To.center()

	if in.CurveScale == 0 {
		pts := samplesOnLine(shrinkToBox(in.From, to), shrinkToBox(in.To, from), sampleCount)
		return Result{Points: pts, Path: straightPath(pts)}
	}

	if in.TreeLayout {
		pts := bezierSamples(from, to, in.CurveScale*curvatureMultipliers[0])
		pts[0] = shrinkToBox(in.From, pts[1])
		pts[len(pts)-1] = shrinkToBox(in.To, pts[len(pts)-2])
		return Result{Points: pts, Path: bezierPath(pts)}
	}

	bestPenalty := math.Inf(1)
	var bestPts [][2]float64
	for _, m := range curvatureMultipliers {
		pts := bezierSamples(from, to, in.CurveScale*m)
		penalty := scoreRoute(pts, in.Obstacles, in.RoutedEdges)
		if penalty < bestPenalty {
			bestPenalty = penalty
			bestPts = pts
		}
	}

	bestPts[0] = shrinkToBox(in.From, bestPts[1])
	bestPts[len(bestPts)-1] = shrinkToBox(in.To, bestPts[len(bestPts)-2])
	return Result{Points: bestPts, Path: bezierPath(bestPts)}
}

// bezierSamples builds a symmetric cubic-Bezier control pair offset
// perpendicular to the straight line between from and to by
// magnitude, then samples sampleCount+1 points along the curve, both
// endpoints included.
func bezierSamples(from, to [2]float64, magnitude float64) [][2]float64 {
	dx, dy := to[0]-from[0], to[1]-from[1]
	length := math.Hypot(dx, dy)
	if length < 1e-6 {
		length = 1e-6
	}
	// Perpendicular unit vector.
	px, py := -dy/length, dx/length

	c1 := [2]float64{
		from[0] + dx/3 + px*magnitude,
		from[1] + dy/3 + py*magnitude,
	}
	c2 := [2]float64{
		from[0] + 2*dx/3 + px*magnitude,
		from[1] + 2*dy/3 + py*magnitude,
	}

	pts := make([][2]float64, 0, sampleCount+1)
	for i := 0; i <= sampleCount; i++ {
		t := float64(i) / float64(sampleCount)
		pts = append(pts, cubicBezierAt(from, c1, c2, to, t))
	}
	return pts
}

func cubicBezierAt(p0, p1, p2, p3 [2]float64, t float64) [2]float64 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return [2]float64{
		a*p0[0] + b*p1[0] + c*p2[0] + d*p3[0],
		a*p0[1] + b*p1[1] + c*p2[1] + d*p3[1],
	}
}

func samplesOnLine(from, to [2]float64, n int) [][2]float64 {
	pts := make([][2]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pts = append(pts, [2]float64{
			from[0] + (to[0]-from[0])*t,
			from[1] + (to[1]-from[1])*t,
		})
	}
	return pts
}

// scoreRoute penalizes a candidate path for threading through another
// vertex's box (+nodeAvoidancePenalty per obstacle it touches) and for
// running close to an already-routed edge: every pair of sample points
// (one on this path, one on the routed edge) closer than
// edgeAvoidanceBuckets adds edgeAvoidanceScale*(edgeAvoidanceBuckets-d).
func scoreRoute(pts [][2]float64, obstacles []Box, routed [][][2]float64) float64 {
	var penalty float64
	for _, box := range obstacles {
		for _, p := range pts {
			if pointInBox(p, box) {
				penalty += nodeAvoidancePenalty
				break
			}
		}
	}

	for _, other := range routed {
		for _, p := range pts {
			for _, q := range other {
				d := math.Hypot(p[0]-q[0], p[1]-q[1])
				if d < edgeAvoidanceBuckets {
					penalty += edgeAvoidanceScale * (edgeAvoidanceBuckets - d)
				}
			}
		}
	}

	return penalty
}

func pointInBox(p [2]float64, b Box) bool {
	return p[0] >= b.X && p[0] <= b.X+b.W && p[1] >= b.Y && p[1] <= b.Y+b.H
}

// shrinkToBox returns the point where the segment from box's center
// toward target first crosses box's perimeter, so an edge's drawn
// endpoint sits on the box edge instead of buried at its center.
func shrinkToBox(box Box, target [2]float64) [2]float64 {
	c := box.center()
	dx, dy := target[0]-c[0], target[1]-c[1]
	if dx == 0 && dy == 0 {
		return c
	}

	halfW, halfH := box.W/2, box.H/2
	var tx, ty float64 = math.Inf(1), math.Inf(1)
	if dx != 0 {
		tx = halfW / math.Abs(dx)
	}
	if dy != 0 {
		ty = halfH / math.Abs(dy)
	}
	t := math.Min(tx, ty)
	return [2]float64{c[0] + dx*t, c[1] + dy*t}
}

func straightPath(pts [][2]float64) string {
	if len(pts) == 0 {
		return ""
	}
	path := "M " + fmtPoint(pts[0])
	for _, p := range pts[1:] {
		path += " L " + fmtPoint(p)
	}
	return path
}

// bezierPath renders the sampled curve back out as a single cubic
// path command whose control points are approximated from the samples
// (the true control points are not passed in), falling back to
// straightPath when there are fewer than 2 points.
func bezierPath(pts [][2]float64) string {
	if len(pts) < 2 {
		return straightPath(pts)
	}
	// Approximate the control points with the samples one third and
	// two thirds of the way along the slice, which land close enough
	// to the true control polygon for rendering purposes.
	p0 := pts[0]
	p3 := pts[len(pts)-1]
	c1 := pts[len(pts)/3]
	c2 := pts[2*len(pts)/3]
	return "M " + fmtPoint(p0) + " C " + fmtPoint(c1) + ", " + fmtPoint(c2) + ", " + fmtPoint(p3)
}

func fmtPoint(p [2]float64) string {
	return ftoa(p[0]) + "," + ftoa(p[1])
}

func ftoa(v float64) string {
	// Two decimal places is plenty of precision for on-screen SVG
	// coordinates and keeps generated paths compact and diff-friendly.
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
