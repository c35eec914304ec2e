package wallgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
)

func pt(x, y float64) geometry.Point {
	return geometry.Point{X: x, Y: y}
}

func seg(x1, y1, x2, y2 float64) Segment {
	return Segment{P1: pt(x1, y1), P2: pt(x2, y2), Thickness: 0.1}
}

// squareSegments returns the four walls of a 10x10 square.
func squareSegments() []Segment {
	return []Segment{
		seg(0, 0, 10, 0),
		seg(10, 0, 10, 10),
		seg(10, 10, 0, 10),
		seg(0, 10, 0, 0),
	}
}

func TestBuildSnapsNearbyEndpoints(t *testing.T) {
	t.Parallel()
	segs := []Segment{
		seg(0, 0, 10, 0),
		// Endpoint is 2px off the shared corner; within tolerance it must
		// snap onto the existing node.
		seg(10, 2, 10, 10),
	}
	g, skipped := Build(segs, 5)
	assert.Zero(t, skipped)
	assert.Len(t, g.Corners, 3)
	assert.Len(t, g.Walls, 2)
	assert.Equal(t, 2, g.Degree(1))
}

func TestBuildSkipsZeroLengthSegments(t *testing.T) {
	t.Parallel()
	g, skipped := Build([]Segment{seg(3, 3, 3, 3), seg(0, 0, 5, 0)}, 5)
	assert.Equal(t, 1, skipped)
	assert.Len(t, g.Walls, 1)
}

func TestAddSegmentSameNodeTieBreak(t *testing.T) {
	t.Parallel()
	g := NewGraph(5)
	require.True(t, g.AddSegment(seg(0, 0, 10, 0)))

	// Both endpoints of this short segment are closest to corner 0. The
	// nearer endpoint keeps it, the other gets a fresh corner.
	require.True(t, g.AddSegment(seg(1, 1, 2, 2)))
	require.Len(t, g.Corners, 3)
	w := g.Walls[1]
	assert.Equal(t, 0, w.C1)
	assert.Equal(t, geometry.Point{X: 2, Y: 2}, g.Corners[w.C2].Pos)
}

func TestComponents(t *testing.T) {
	t.Parallel()
	segs := append(squareSegments(), seg(100, 100, 110, 100))
	g, _ := Build(segs, 5)
	assert.Equal(t, 2, g.Components())
}

func TestResolveRejectsBadIndices(t *testing.T) {
	t.Parallel()
	corners := []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	_, err := Resolve(corners, []IndexSegment{{C1: 0, C2: 5}})
	require.Error(t, err)
	var gerr *GeometryError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 5, gerr.Index)

	segs, err := Resolve(corners, []IndexSegment{{C1: 0, C2: 1, Thickness: 0.2}})
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, corners[1], segs[0].P2)
}

func TestSplitWallsAtTJunction(t *testing.T) {
	t.Parallel()
	segs := []Segment{
		seg(0, 0, 20, 0),
		// Vertical wall ending on the horizontal one's interior.
		seg(10, 0, 10, 8),
	}
	out, truncated := SplitWalls(segs, 2, 100)
	assert.False(t, truncated)
	require.Len(t, out, 3)

	lengths := map[float64]int{}
	for _, s := range out {
		lengths[geometry.Dist(s.P1, s.P2)]++
	}
	assert.Equal(t, 2, lengths[10], "horizontal wall split into two halves")
	assert.Equal(t, 1, lengths[8], "vertical wall untouched")
}

func TestSplitWallsCrossing(t *testing.T) {
	t.Parallel()
	segs := []Segment{
		seg(0, 10, 20, 10),
		seg(10, 0, 10, 20),
	}
	out, truncated := SplitWalls(segs, 2, 100)
	assert.False(t, truncated)
	assert.Len(t, out, 4, "both walls split at the crossing")
}

func TestSplitWallsKeepsCornerContacts(t *testing.T) {
	t.Parallel()
	out, truncated := SplitWalls(squareSegments(), 2, 100)
	assert.False(t, truncated)
	assert.Len(t, out, 4, "walls meeting at corners are not split")
}

func TestStraightenAlignsNearAxisWalls(t *testing.T) {
	t.Parallel()
	g, _ := Build([]Segment{seg(0, 0, 10, 1)}, 2)
	moved, truncated := g.Straighten(0.3, 100)
	assert.False(t, truncated)
	assert.Equal(t, 1, moved)
	assert.Equal(t, g.Corners[0].Pos.Y, g.Corners[1].Pos.Y)

	// A 45 degree wall is intentionally diagonal and must stay.
	g2, _ := Build([]Segment{seg(0, 0, 10, 10)}, 2)
	moved, _ = g2.Straighten(0.3, 100)
	assert.Zero(t, moved)
}
