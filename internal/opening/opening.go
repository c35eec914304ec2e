// Package opening attaches door and window icons from the detector output
// to their host walls and classifies them against the room faces.
package opening

import (
	"fmt"
	"math"
	"sort"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/wallgraph"
)

// Opening classes.
const (
	ClassDoor   = "door"
	ClassWindow = "window"
)

// Opening is an icon matched onto a wall. Start/End is the hole interval
// along the wall measured from its C1 corner. Faces holds the adjacent face
// indices per wall side after attachment, -1 for the outside.
type Opening struct {
	Icon  int
	Wall  int
	Start float64
	End   float64
	Class string
	Faces [2]int
}

// UnmatchedOpeningError reports an icon that lies on no wall within the
// match tolerance. Recorded, not fatal: the icon degrades to a plain object
// box downstream.
type UnmatchedOpeningError struct {
	Icon int
	Box  geometry.BBox
}

func (e *UnmatchedOpeningError) Error() string {
	c := e.Box.Center()
	return fmt.Sprintf("opening icon %d at (%.1f, %.1f) matches no wall", e.Icon, c.X, c.Y)
}

// UnattachedWallError reports an opening whose host wall borders no room
// face on either side.
type UnattachedWallError struct {
	Icon int
	Wall int
}

func (e *UnattachedWallError) Error() string {
	return fmt.Sprintf("opening icon %d sits on wall %d which borders no room", e.Icon, e.Wall)
}

// Resolution is the outcome of matching a floorplan's opening icons.
type Resolution struct {
	Openings  []Opening
	Unmatched []int
	Errors    []error
}

type candidate struct {
	icon    int
	wall    int
	score   float64
	wallLen float64
}

// Resolve matches each icon box onto the wall that contains it. A wall
// contains an icon when both icon endpoints lie within thickness/2 plus
// tolerance of the wall segment. Candidates are ranked globally by distance
// then wall length, and each icon takes the best wall still available, so a
// door squeezed between two parallel walls lands on the nearer one.
func Resolve(g *wallgraph.Graph, icons []geometry.BBox, defaultThickness, tolerance float64) *Resolution {
	var cands []candidate
	for wid := range g.Walls {
		w := &g.Walls[wid]
		a := g.Corners[w.C1].Pos
		b := g.Corners[w.C2].Pos
		wallLen := geometry.Dist(a, b)
		if wallLen == 0 {
			continue
		}
		thickness := w.Thickness
		if thickness <= 0 {
			thickness = defaultThickness
		}
		margin := thickness/2 + tolerance
		for i, box := range icons {
			d1, _, _ := geometry.PointSegmentDistance(box.Min, a, b)
			d2, _, _ := geometry.PointSegmentDistance(box.Max, a, b)
			if d1 > margin || d2 > margin {
				continue
			}
			cands = append(cands, candidate{icon: i, wall: wid, score: d1 + d2, wallLen: wallLen})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score < cands[j].score
		}
		return cands[i].wallLen < cands[j].wallLen
	})

	res := &Resolution{}
	taken := make(map[int]bool, len(icons))
	for _, c := range cands {
		if taken[c.icon] {
			continue
		}
		taken[c.icon] = true
		start, end := holeInterval(g, c.wall, icons[c.icon])
		res.Openings = append(res.Openings, Opening{
			Icon:  c.icon,
			Wall:  c.wall,
			Start: start,
			End:   end,
			Faces: [2]int{-1, -1},
		})
	}

	for i := range icons {
		if !taken[i] {
			res.Unmatched = append(res.Unmatched, i)
			res.Errors = append(res.Errors, &UnmatchedOpeningError{Icon: i, Box: icons[i]})
		}
	}

	sort.Slice(res.Openings, func(i, j int) bool { return res.Openings[i].Icon < res.Openings[j].Icon })
	return res
}

// holeInterval projects the icon endpoints onto the wall axis as Chebyshev
// offsets from the C1 corner. Walls are predominantly axis aligned, so the
// larger coordinate delta is the along-wall one.
func holeInterval(g *wallgraph.Graph, wallID int, box geometry.BBox) (start, end float64) {
	w := &g.Walls[wallID]
	origin := g.Corners[w.C1].Pos
	o1 := geometry.Chebyshev(origin, box.Min)
	o2 := geometry.Chebyshev(origin, box.Max)
	start = math.Min(o1, o2)
	end = math.Max(o1, o2)

	length := g.WallLength(wallID)
	start = math.Max(0, math.Min(start, length))
	end = math.Max(0, math.Min(end, length))
	return start, end
}
