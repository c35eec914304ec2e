package wallgraph

import (
	"math"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
)

// SplitWalls breaks axis-aligned wall segments that T-intersect another
// wall within the join margin, so that every junction becomes a shared
// corner of the graph. Crossing walls are split on both sides over
// successive iterations. Returns the rewritten segment list and whether the
// iteration budget ran out before reaching a fixpoint.
//
// Only manhattan (axis-aligned) segments participate; inclined walls are
// left untouched, matching the raster-to-vector junction model.
func SplitWalls(segs []Segment, margin float64, maxIter int) ([]Segment, bool) {
	out := append([]Segment(nil), segs...)
	left := maxIter
	changed := true
	for changed && left > 0 {
		left--
		changed = false
	scan:
		for i := range out {
			if !isManhattan(out[i]) {
				continue
			}
			for j := range out {
				if i == j || !isManhattan(out[j]) {
					continue
				}
				target, p, ok := findTSplit(out[i], out[j], margin)
				if !ok {
					continue
				}
				idx := i
				if target == 1 {
					idx = j
				}
				broken := out[idx]
				if geometry.Chebyshev(broken.P1, p) <= margin || geometry.Chebyshev(broken.P2, p) <= margin {
					// Too close to an endpoint to produce two usable parts.
					continue
				}
				seg1 := broken
				seg1.P2 = p
				seg2 := broken
				seg2.P1 = p
				out[idx] = out[len(out)-1]
				out = out[:len(out)-1]
				out = append(out, seg1, seg2)
				changed = true
				break scan
			}
		}
	}
	return out, left == 0
}

func isManhattan(s Segment) bool {
	return s.P1.X == s.P2.X || s.P1.Y == s.P2.Y
}

// axisRange reduces a manhattan segment to (horizontal?, fixed coordinate,
// min, max along its axis).
func axisRange(s Segment) (horizontal bool, fixed, min, max float64) {
	horizontal = math.Abs(s.P1.X-s.P2.X) >= math.Abs(s.P1.Y-s.P2.Y)
	if horizontal {
		fixed = (s.P1.Y + s.P2.Y) / 2
		min, max = math.Min(s.P1.X, s.P2.X), math.Max(s.P1.X, s.P2.X)
		return
	}
	fixed = (s.P1.X + s.P2.X) / 2
	min, max = math.Min(s.P1.Y, s.P2.Y), math.Max(s.P1.Y, s.P2.Y)
	return
}

// findTSplit reports whether segment a (target 0) or b (target 1) should be
// broken at point p because the other segment's endpoint lands on its
// interior. Corner-to-corner contacts are not splits.
func findTSplit(a, b Segment, margin float64) (target int, p geometry.Point, ok bool) {
	// Endpoint-to-endpoint contact: the graph snap pass will merge these.
	for _, pa := range [2]geometry.Point{a.P1, a.P2} {
		for _, pb := range [2]geometry.Point{b.P1, b.P2} {
			if geometry.Chebyshev(pa, pb) <= margin {
				return 0, geometry.Point{}, false
			}
		}
	}

	aHoriz, aFixed, aMin, aMax := axisRange(a)
	bHoriz, bFixed, bMin, bMax := axisRange(b)
	if aHoriz == bHoriz {
		return 0, geometry.Point{}, false
	}

	// Orient as one horizontal and one vertical segment.
	hTarget, vTarget := 0, 1
	hFixed, hMin, hMax := aFixed, aMin, aMax
	vFixed, vMin, vMax := bFixed, bMin, bMax
	if !aHoriz {
		hTarget, vTarget = 1, 0
		hFixed, hMin, hMax = bFixed, bMin, bMax
		vFixed, vMin, vMax = aFixed, aMin, aMax
	}

	// The segments must actually reach each other.
	if math.Min(hFixed, vMax) < math.Max(hFixed, vMin)-margin ||
		math.Min(vFixed, hMax) < math.Max(vFixed, hMin)-margin {
		return 0, geometry.Point{}, false
	}

	p = geometry.Point{X: vFixed, Y: hFixed}
	switch {
	case math.Abs(hMin-vFixed) <= margin, math.Abs(hMax-vFixed) <= margin:
		// Horizontal endpoint rests on the vertical wall's interior.
		return vTarget, p, true
	case math.Abs(vMin-hFixed) <= margin, math.Abs(vMax-hFixed) <= margin:
		// Vertical endpoint rests on the horizontal wall's interior.
		return hTarget, p, true
	default:
		// Full crossing: break the horizontal first, the remainder pair
		// triggers the vertical split on a later iteration.
		return hTarget, p, true
	}
}
