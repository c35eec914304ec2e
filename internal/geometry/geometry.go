// Package geometry provides the 2D primitives shared by the floorplan
// reconstruction pipeline. All functions are pure; coordinates may be in
// pixel or metric space depending on the caller.
package geometry

import "math"

// Point is a 2D point or vector.
type Point struct {
	X float64
	Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Dist returns the euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Chebyshev returns max(|dx|, |dy|). The raster-to-vector output is grid
// aligned, so corner snapping uses this metric rather than euclidean
// distance.
func Chebyshev(a, b Point) float64 {
	return math.Max(math.Abs(a.X-b.X), math.Abs(a.Y-b.Y))
}

// BBox is an axis-aligned bounding box. Min/Max ordering of the stored
// corners is not required; use Canon for a normalized copy.
type BBox struct {
	Min Point
	Max Point
}

// Canon returns the box with Min holding the smaller coordinates on both
// axes.
func (b BBox) Canon() BBox {
	out := b
	if out.Min.X > out.Max.X {
		out.Min.X, out.Max.X = out.Max.X, out.Min.X
	}
	if out.Min.Y > out.Max.Y {
		out.Min.Y, out.Max.Y = out.Max.Y, out.Min.Y
	}
	return out
}

// Center returns the box center.
func (b BBox) Center() Point {
	return Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Width returns the extent along x.
func (b BBox) Width() float64 { return math.Abs(b.Max.X - b.Min.X) }

// Height returns the extent along y.
func (b BBox) Height() float64 { return math.Abs(b.Max.Y - b.Min.Y) }

// Corners returns the four corners of the box.
func (b BBox) Corners() [4]Point {
	c := b.Canon()
	return [4]Point{
		c.Min,
		{c.Max.X, c.Min.Y},
		c.Max,
		{c.Min.X, c.Max.Y},
	}
}

// Angle returns the angle of v in degrees, measured counter-clockwise from
// the positive x axis with negative y treated as up. Floorplan images grow y
// downward, so this keeps the angular order consistent with what a viewer
// sees. v must be non-zero.
func Angle(v Point) float64 {
	h := math.Hypot(v.X, v.Y)
	ang := math.Acos(v.X/h) * 180 / math.Pi
	if v.Y > 0 {
		ang = -ang
	}
	return ang
}

// AngleBetween returns the counter-clockwise angle from a to b in degrees,
// in the range (-360, 360).
func AngleBetween(a, b Point) float64 {
	a1 := Angle(a)
	a2 := Angle(b)
	if a1 < 0 {
		a1 += 360
	}
	if a2 < 0 {
		a2 += 360
	}
	return a2 - a1
}

// PointSegmentDistance returns the shortest distance from p to the segment
// (a, b), the closest point on the segment, and the projection parameter t
// clamped to [0, 1].
func PointSegmentDistance(p, a, b Point) (dist float64, closest Point, t float64) {
	d := b.Sub(a)
	norm := d.X*d.X + d.Y*d.Y
	if norm == 0 {
		return Dist(p, a), a, 0
	}
	t = ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / norm
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest = a.Add(d.Scale(t))
	return Dist(p, closest), closest, t
}

// PointLineDistance returns the perpendicular distance from p to the
// infinite line through a and b. The segment must have non-zero length.
func PointLineDistance(p, a, b Point) float64 {
	d := b.Sub(a)
	length := math.Hypot(d.X, d.Y)
	return math.Abs(d.X*(a.Y-p.Y)-d.Y*(a.X-p.X)) / length
}

// SignedArea returns the shoelace signed area of the closed polygon. The
// sign encodes winding: positive for counter-clockwise in a y-up frame,
// which is clockwise as drawn on a y-down floorplan image.
func SignedArea(poly []Point) float64 {
	if len(poly) < 3 {
		return 0
	}
	sum := 0.0
	for i := range poly {
		j := (i + 1) % len(poly)
		sum += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return sum / 2
}

// ClosestFurthest orders the two candidates by distance to target.
func ClosestFurthest(target, p1, p2 Point) (closest, furthest Point) {
	if Dist(target, p1) < Dist(target, p2) {
		return p1, p2
	}
	return p2, p1
}

// AlongSegment converts a 1D offset measured from a toward b into a 2D
// point. offset may exceed the segment length.
func AlongSegment(a, b Point, offset float64) Point {
	d := b.Sub(a)
	length := math.Hypot(d.X, d.Y)
	return a.Add(d.Scale(offset / length))
}
