package wallgraph

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
)

// areaEps discards walks whose shoelace area is numerically zero, which is
// what a walk around a dangling wall tree produces.
const areaEps = 1e-6

// Face is one bounded face of the graph: a room candidate.
//
// Corners and Walls describe the simple boundary ring after spur pruning,
// with Walls[i] connecting Corners[i] to Corners[(i+1)%n]. AllWalls keeps
// every wall the face walk visited, including dangling spur walls that poke
// into the room and were pruned from the ring.
type Face struct {
	Corners  []int
	Walls    []int
	AllWalls []int
	Ring     []geometry.Point
	Area     float64
	Centroid geometry.Point

	// TypeCandidates counts the detector's per-side room labels seen along
	// the walk, keyed by label.
	TypeCandidates map[string]int
}

// FaceSet is the result of face extraction over a graph.
//
// WallSides records, per wall, the face index adjacent to each traversal
// direction: index 0 for C1→C2, index 1 for C2→C1, -1 when that side belongs
// to the outer face or to no completed walk. A wall whose both sides are -1
// touches no room.
type FaceSet struct {
	Faces     []Face
	WallSides [][2]int
	Errors    []*TopologyError
}

// TopologyError reports a face walk that did not close within the step
// budget. It is recorded rather than fatal; the offending half-edges are
// excluded from every face.
type TopologyError struct {
	Wall   int
	Corner int
	Steps  int
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("face walk from wall %d at corner %d did not close within %d steps", e.Wall, e.Corner, e.Steps)
}

// halfedge encodes wall id and direction. dir 0 walks C1→C2, dir 1 walks
// C2→C1.
func halfedge(wallID, dir int) int { return wallID*2 + dir }

func (g *Graph) halfedgeEnds(he int) (from, to int) {
	w := &g.Walls[he/2]
	if he%2 == 0 {
		return w.C1, w.C2
	}
	return w.C2, w.C1
}

// nextHalfedge picks the continuation of a face walk arriving over he: among
// the half-edges leaving the destination corner, the one making the smallest
// positive counter-clockwise turn from the reversed arrival direction. At a
// degree-1 corner that is the reverse of he itself, so dangling walls are
// walked out and back.
func (g *Graph) nextHalfedge(he int) int {
	from, to := g.halfedgeEnds(he)
	back := g.Corners[from].Pos.Sub(g.Corners[to].Pos)

	best := -1
	bestTurn := math.MaxFloat64
	for _, wid := range g.Corners[to].Walls {
		other := g.OtherCorner(wid, to)
		out := g.Corners[other].Pos.Sub(g.Corners[to].Pos)
		if out == (geometry.Point{}) {
			continue
		}
		turn := geometry.AngleBetween(back, out)
		// Fold into (0, 360] so the pure backtrack sorts last.
		for turn <= 0 {
			turn += 360
		}
		dir := 0
		if g.Walls[wid].C1 != to {
			dir = 1
		}
		if turn < bestTurn {
			bestTurn = turn
			best = halfedge(wid, dir)
		}
	}
	return best
}

// ExtractFaces walks every half-edge cycle of the graph and keeps the
// bounded faces. windingSign selects which shoelace sign marks a bounded
// face: +1 for y-down source coordinates, -1 when the geometry has been
// mirrored by a y-flip. maxSteps bounds a single walk.
func ExtractFaces(g *Graph, windingSign float64, maxSteps int) *FaceSet {
	fs := &FaceSet{WallSides: make([][2]int, len(g.Walls))}
	for i := range fs.WallSides {
		fs.WallSides[i] = [2]int{-1, -1}
	}

	visited := make([]bool, len(g.Walls)*2)
	for start := 0; start < len(g.Walls)*2; start++ {
		if visited[start] {
			continue
		}

		walk, ok := g.walkFrom(start, visited, maxSteps)
		if !ok {
			from, _ := g.halfedgeEnds(start)
			fs.Errors = append(fs.Errors, &TopologyError{Wall: start / 2, Corner: from, Steps: maxSteps})
			continue
		}

		poly := make([]geometry.Point, len(walk))
		for i, he := range walk {
			from, _ := g.halfedgeEnds(he)
			poly[i] = g.Corners[from].Pos
		}
		if geometry.SignedArea(poly)*windingSign <= areaEps {
			// Outer boundary or a degenerate spur tree.
			continue
		}

		face := g.buildFace(walk)
		if len(face.Corners) < 3 {
			continue
		}
		idx := len(fs.Faces)
		for _, he := range walk {
			fs.WallSides[he/2][he%2] = idx
		}
		fs.Faces = append(fs.Faces, face)
	}
	return fs
}

// walkFrom follows next pointers until the walk returns to start, marking
// every traversed half-edge visited. Aborted walks still mark what they
// touched so no other walk re-enters them.
func (g *Graph) walkFrom(start int, visited []bool, maxSteps int) ([]int, bool) {
	var walk []int
	he := start
	for steps := 0; ; steps++ {
		if steps >= maxSteps {
			return nil, false
		}
		visited[he] = true
		walk = append(walk, he)
		next := g.nextHalfedge(he)
		if next < 0 {
			return nil, false
		}
		if next == start {
			return walk, true
		}
		he = next
	}
}

// buildFace prunes out-and-back spur excursions from the walk and derives
// the face geometry from the remaining simple ring.
func (g *Graph) buildFace(walk []int) Face {
	face := Face{TypeCandidates: make(map[string]int)}

	seenWall := make(map[int]bool)
	for _, he := range walk {
		wid := he / 2
		if !seenWall[wid] {
			seenWall[wid] = true
			face.AllWalls = append(face.AllWalls, wid)
		}
		w := &g.Walls[wid]
		label := w.RightRoomType
		if he%2 == 1 {
			label = w.LeftRoomType
		}
		if label != "" {
			face.TypeCandidates[label]++
		}
	}

	// A spur is a wall traversed in both directions back to back. Cancel
	// such pairs with a stack, then close the cycle: the walk may have
	// started mid-spur, leaving matching walls at both ends.
	type step struct {
		corner int
		wall   int
	}
	var ring []step
	for _, he := range walk {
		from, _ := g.halfedgeEnds(he)
		wid := he / 2
		if n := len(ring); n > 0 && ring[n-1].wall == wid {
			ring = ring[:n-1]
			continue
		}
		ring = append(ring, step{corner: from, wall: wid})
	}
	for len(ring) >= 2 && ring[0].wall == ring[len(ring)-1].wall {
		ring = ring[1 : len(ring)-1]
	}
	if len(ring) < 3 {
		return face
	}

	orbRing := make(orb.Ring, 0, len(ring)+1)
	for _, s := range ring {
		face.Corners = append(face.Corners, s.corner)
		face.Walls = append(face.Walls, s.wall)
		p := g.Corners[s.corner].Pos
		face.Ring = append(face.Ring, p)
		orbRing = append(orbRing, orb.Point{p.X, p.Y})
	}
	orbRing = append(orbRing, orbRing[0])

	centroid, area := planar.CentroidArea(orbRing)
	face.Centroid = geometry.Point{X: centroid[0], Y: centroid[1]}
	face.Area = math.Abs(area)
	return face
}

// ContainsPoint reports whether p lies inside the face ring.
func (f *Face) ContainsPoint(p geometry.Point) bool {
	if len(f.Ring) < 3 {
		return false
	}
	ring := make(orb.Ring, 0, len(f.Ring)+1)
	for _, q := range f.Ring {
		ring = append(ring, orb.Point{q.X, q.Y})
	}
	ring = append(ring, ring[0])
	return planar.RingContains(ring, orb.Point{p.X, p.Y})
}
