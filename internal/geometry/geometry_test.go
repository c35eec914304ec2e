package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAngle(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		v        Point
		expected float64
	}{
		{"positive x", Point{X: 1, Y: 0}, 0},
		{"up on image (negative y)", Point{X: 0, Y: -1}, 90},
		{"negative x", Point{X: -1, Y: 0}, 180},
		{"down on image (positive y)", Point{X: 0, Y: 1}, -90},
		{"diagonal up right", Point{X: 1, Y: -1}, 45},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.expected, Angle(tc.v), 1e-9)
		})
	}
}

func TestAngleBetween(t *testing.T) {
	t.Parallel()
	// Counter-clockwise (as seen on screen) quarter turn from east to
	// image-up.
	assert.InDelta(t, 90, AngleBetween(Point{X: 1, Y: 0}, Point{X: 0, Y: -1}), 1e-9)
	// The same turn read backwards is -90 or equivalently 270.
	assert.InDelta(t, -90, AngleBetween(Point{X: 0, Y: -1}, Point{X: 1, Y: 0}), 1e-9)
}

func TestSignedAreaWinding(t *testing.T) {
	t.Parallel()
	square := []Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}}
	assert.InDelta(t, 4.0, SignedArea(square), 1e-9,
		"clockwise on a y-down image is positive shoelace")

	reversed := []Point{{2, 0}, {2, 2}, {0, 2}, {0, 0}}
	assert.InDelta(t, -4.0, SignedArea(reversed), 1e-9)

	assert.Zero(t, SignedArea([]Point{{0, 0}, {1, 1}}))
}

func TestChebyshev(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5.0, Chebyshev(Point{0, 0}, Point{3, 5}))
	assert.Equal(t, 3.0, Chebyshev(Point{0, 0}, Point{-3, 1}))
}

func TestPointSegmentDistance(t *testing.T) {
	t.Parallel()
	a := Point{0, 0}
	b := Point{10, 0}

	dist, closest, tt := PointSegmentDistance(Point{5, 3}, a, b)
	assert.InDelta(t, 3.0, dist, 1e-9)
	assert.InDelta(t, 0.5, tt, 1e-9)
	assert.Equal(t, Point{5, 0}, closest)

	// Beyond the endpoint the distance includes the along-axis part.
	dist, closest, tt = PointSegmentDistance(Point{14, 3}, a, b)
	assert.InDelta(t, 5.0, dist, 1e-9)
	assert.InDelta(t, 1.0, tt, 1e-9)
	assert.Equal(t, b, closest)
}

func TestBBoxCanonAndCorners(t *testing.T) {
	t.Parallel()
	box := BBox{Min: Point{5, 1}, Max: Point{2, 4}}
	canon := box.Canon()
	assert.Equal(t, Point{2, 1}, canon.Min)
	assert.Equal(t, Point{5, 4}, canon.Max)
	assert.Equal(t, Point{3.5, 2.5}, box.Center())

	corners := box.Corners()
	require.Len(t, corners, 4)
	assert.Equal(t, Point{2, 1}, corners[0])
	assert.Equal(t, Point{5, 4}, corners[2])
}

func TestAlongSegment(t *testing.T) {
	t.Parallel()
	p := AlongSegment(Point{0, 0}, Point{10, 0}, 4)
	assert.Equal(t, Point{4, 0}, p)

	p = AlongSegment(Point{2, 2}, Point{2, 12}, 5)
	assert.Equal(t, Point{2, 7}, p)
}
