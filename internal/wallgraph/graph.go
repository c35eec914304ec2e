// Package wallgraph assembles detector wall segments into a planar graph
// and derives room polygons from its bounded faces.
//
// Storage is arena style: corners and walls live in flat slices indexed by
// integer id, and half-edges are derived on demand from wall ids. This keeps
// the graph free of cyclic references while preserving navigation.
package wallgraph

import (
	"fmt"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
)

// Corner is a graph node. Walls holds incident wall ids in insertion order.
type Corner struct {
	ID    int
	Pos   geometry.Point
	Walls []int
}

// Wall is an undirected graph edge between two corners, with the thickness
// the detector measured for it. Left/RightRoomType are the detector's
// per-side room labels ("left" is the side to the left when walking C1→C2
// on a y-down image), empty when the input format does not provide them.
type Wall struct {
	ID            int
	C1            int
	C2            int
	Thickness     float64
	LeftRoomType  string
	RightRoomType string
}

// Segment is a wall segment by endpoint coordinates, the builder's input
// form. Segments are produced either directly from detector wall rows or by
// resolving a corner-index pair via Resolve.
type Segment struct {
	P1            geometry.Point
	P2            geometry.Point
	Thickness     float64
	LeftRoomType  string
	RightRoomType string
}

// IndexSegment references its endpoints as indices into a shared corner
// list.
type IndexSegment struct {
	C1            int
	C2            int
	Thickness     float64
	LeftRoomType  string
	RightRoomType string
}

// GeometryError marks structurally invalid input references. It is fatal
// for the floorplan being converted.
type GeometryError struct {
	Segment int
	Index   int
	Count   int
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("segment %d references corner index %d, have %d corners", e.Segment, e.Index, e.Count)
}

// Resolve converts index-referenced segments into coordinate segments,
// validating every corner reference.
func Resolve(corners []geometry.Point, segs []IndexSegment) ([]Segment, error) {
	out := make([]Segment, 0, len(segs))
	for i, s := range segs {
		if s.C1 < 0 || s.C1 >= len(corners) {
			return nil, &GeometryError{Segment: i, Index: s.C1, Count: len(corners)}
		}
		if s.C2 < 0 || s.C2 >= len(corners) {
			return nil, &GeometryError{Segment: i, Index: s.C2, Count: len(corners)}
		}
		out = append(out, Segment{
			P1:            corners[s.C1],
			P2:            corners[s.C2],
			Thickness:     s.Thickness,
			LeftRoomType:  s.LeftRoomType,
			RightRoomType: s.RightRoomType,
		})
	}
	return out, nil
}

// Graph is the wall linkage graph. It may be disconnected (separate
// building wings) and may contain degree-1 corners from dangling segments.
type Graph struct {
	SnapTolerance float64
	Corners       []Corner
	Walls         []Wall
}

// NewGraph returns an empty graph with the given corner snap tolerance.
func NewGraph(snapTolerance float64) *Graph {
	return &Graph{SnapTolerance: snapTolerance}
}

// Build assembles a graph from coordinate segments. Zero-length segments
// are skipped; the returned count reports how many were dropped.
func Build(segs []Segment, snapTolerance float64) (*Graph, int) {
	g := NewGraph(snapTolerance)
	skipped := 0
	for _, s := range segs {
		if !g.AddSegment(s) {
			skipped++
		}
	}
	return g, skipped
}

// AddSegment snaps the segment endpoints onto existing corners (or creates
// new ones) and adds the wall. Returns false when the segment collapses to
// a point and is not added.
func (g *Graph) AddSegment(s Segment) bool {
	if s.P1 == s.P2 {
		return false
	}

	n1, n1Backup := g.findClosest(s.P1)
	if n1 < 0 {
		n1 = g.addCorner(s.P1)
	}
	n2, n2Backup := g.findClosest(s.P2)
	if n2 < 0 {
		n2 = g.addCorner(s.P2)
	}

	if n1 == n2 {
		// Rare: both endpoints are closest to the same node. Keep that
		// node for the nearer endpoint and fall back to the second
		// closest for the other.
		if geometry.Chebyshev(g.Corners[n1].Pos, s.P1) < geometry.Chebyshev(g.Corners[n1].Pos, s.P2) {
			n2 = n2Backup
		} else {
			n1 = n1Backup
		}
		if n1 < 0 {
			n1 = g.addCorner(s.P1)
		}
		if n2 < 0 {
			n2 = g.addCorner(s.P2)
		}
	}

	wall := Wall{
		ID:            len(g.Walls),
		C1:            n1,
		C2:            n2,
		Thickness:     s.Thickness,
		LeftRoomType:  s.LeftRoomType,
		RightRoomType: s.RightRoomType,
	}
	g.Walls = append(g.Walls, wall)
	g.Corners[n1].Walls = append(g.Corners[n1].Walls, wall.ID)
	g.Corners[n2].Walls = append(g.Corners[n2].Walls, wall.ID)
	return true
}

func (g *Graph) addCorner(p geometry.Point) int {
	id := len(g.Corners)
	g.Corners = append(g.Corners, Corner{ID: id, Pos: p})
	return id
}

// findClosest returns the closest and second closest corner ids within the
// snap tolerance, or -1 when none qualify. Distance is Chebyshev, matching
// the grid-aligned detector output.
func (g *Graph) findClosest(p geometry.Point) (best, second int) {
	best, second = -1, -1
	bestDist, secondDist := 0.0, 0.0
	for i := range g.Corners {
		d := geometry.Chebyshev(g.Corners[i].Pos, p)
		if d >= g.SnapTolerance {
			continue
		}
		switch {
		case best < 0 || d < bestDist:
			second, secondDist = best, bestDist
			best, bestDist = i, d
		case second < 0 || d < secondDist:
			second, secondDist = i, d
		}
	}
	return best, second
}

// OtherCorner returns the wall endpoint that is not cornerID.
func (g *Graph) OtherCorner(wallID, cornerID int) int {
	w := &g.Walls[wallID]
	if w.C1 == cornerID {
		return w.C2
	}
	return w.C1
}

// Degree returns the number of walls incident to the corner.
func (g *Graph) Degree(cornerID int) int {
	return len(g.Corners[cornerID].Walls)
}

// WallLength returns the euclidean length of a wall.
func (g *Graph) WallLength(wallID int) float64 {
	w := &g.Walls[wallID]
	return geometry.Dist(g.Corners[w.C1].Pos, g.Corners[w.C2].Pos)
}

// Components returns the number of connected components among corners that
// have at least one incident wall.
func (g *Graph) Components() int {
	seen := make([]bool, len(g.Corners))
	count := 0
	for start := range g.Corners {
		if seen[start] || len(g.Corners[start].Walls) == 0 {
			continue
		}
		count++
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, wid := range g.Corners[c].Walls {
				next := g.OtherCorner(wid, c)
				if !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
		}
	}
	return count
}
