package opening

import (
	"math"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/wallgraph"
)

// Attach resolves each opening's adjacent room faces from the wall side
// record of face extraction. An opening on a wall that borders no face is
// reported as UnattachedWallError but still emitted; it just connects no
// rooms.
func (r *Resolution) Attach(faces *wallgraph.FaceSet) {
	for i := range r.Openings {
		o := &r.Openings[i]
		o.Faces = faces.WallSides[o.Wall]
		if o.Faces[0] < 0 && o.Faces[1] < 0 {
			r.Errors = append(r.Errors, &UnattachedWallError{Icon: o.Icon, Wall: o.Wall})
		}
	}
}

// Interior reports whether the opening has a room on both sides.
func (o *Opening) Interior() bool { return o.Faces[0] >= 0 && o.Faces[1] >= 0 }

// Classify splits openings into doors and windows. The detector reports
// both under one icon class, so the distinction is structural: an opening
// between two rooms is a door, and on the building shell the opening nearest
// each entrance marker is a door while the rest are windows. Without
// entrance markers every shell opening is a window.
func (r *Resolution) Classify(g *wallgraph.Graph, entrances []geometry.BBox) {
	for i := range r.Openings {
		if r.Openings[i].Interior() {
			r.Openings[i].Class = ClassDoor
		} else {
			r.Openings[i].Class = ClassWindow
		}
	}

	for _, ent := range entrances {
		target := ent.Center()
		best := -1
		bestDist := math.MaxFloat64
		for i := range r.Openings {
			o := &r.Openings[i]
			if o.Interior() || o.Class == ClassDoor {
				continue
			}
			d := geometry.Dist(target, r.openingCenter(g, o))
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		if best >= 0 {
			r.Openings[best].Class = ClassDoor
		}
	}
}

func (r *Resolution) openingCenter(g *wallgraph.Graph, o *Opening) geometry.Point {
	w := &g.Walls[o.Wall]
	a := g.Corners[w.C1].Pos
	b := g.Corners[w.C2].Pos
	return geometry.AlongSegment(a, b, (o.Start+o.End)/2)
}

// DoorEdges returns the room adjacency implied by interior doors, one
// directed pair per direction per door. Face indices may repeat when two
// rooms share several doors.
func (r *Resolution) DoorEdges() [][2]int {
	var edges [][2]int
	for i := range r.Openings {
		o := &r.Openings[i]
		if o.Class != ClassDoor || !o.Interior() {
			continue
		}
		edges = append(edges, [2]int{o.Faces[0], o.Faces[1]}, [2]int{o.Faces[1], o.Faces[0]})
	}
	return edges
}
