package wallgraph

import "math"

// Straighten axis-aligns walls that are nearly horizontal or vertical by
// moving one endpoint corner onto the other's row or column. A wall
// qualifies when the off-axis gradient is below cutoffGradient but not
// already zero. Moving a corner can disturb its other walls, so the pass
// repeats until no wall qualifies or the iteration budget runs out.
//
// Returns the number of corner moves and whether the budget was exhausted.
func (g *Graph) Straighten(cutoffGradient float64, maxIter int) (moved int, truncated bool) {
	for iter := 0; ; iter++ {
		if iter >= maxIter {
			return moved, true
		}
		wid := g.findSkewedWall(cutoffGradient)
		if wid < 0 {
			return moved, false
		}
		w := &g.Walls[wid]
		p1 := &g.Corners[w.C1].Pos
		p2 := &g.Corners[w.C2].Pos
		if math.Abs(p1.X-p2.X) <= math.Abs(p1.Y-p2.Y) {
			// Nearly vertical: align x, moving the upper corner.
			if p1.Y < p2.Y {
				p1.X = p2.X
			} else {
				p2.X = p1.X
			}
		} else {
			// Nearly horizontal: align y, moving the left corner.
			if p1.X < p2.X {
				p1.Y = p2.Y
			} else {
				p2.Y = p1.Y
			}
		}
		moved++
	}
}

func (g *Graph) findSkewedWall(cutoffGradient float64) int {
	for wid := range g.Walls {
		w := &g.Walls[wid]
		p1 := g.Corners[w.C1].Pos
		p2 := g.Corners[w.C2].Pos
		length := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
		if length == 0 {
			continue
		}
		dx := math.Abs(p2.X - p1.X)
		dy := math.Abs(p2.Y - p1.Y)
		off := math.Min(dx, dy)
		if off > 0 && off/length < cutoffGradient {
			return wid
		}
	}
	return -1
}
