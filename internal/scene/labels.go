package scene

import (
	"math"
	"sort"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/config"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/r2v"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/wallgraph"
)

// assignLabels picks a label and candidate type list for every face.
//
// The wall-side room types voted along the face walk are the primary source.
// Faces without usable side labels fall back to room annotation icons: first
// an annotation box sufficiently contained in the face, then the annotation
// nearest the face centroid within the room's own scale. Faces nothing
// claims get the unknown label.
func assignLabels(faces []wallgraph.Face, annots []r2v.Record, labels config.LabelsConfig, minOverlap float64, n *Normalizer) ([]string, [][]string) {
	roomType := make(map[string]bool, len(labels.RoomTypes))
	for _, t := range labels.RoomTypes {
		roomType[t] = true
	}

	chosen := make([]string, len(faces))
	types := make([][]string, len(faces))
	for i := range faces {
		types[i] = rankedCandidates(faces[i].TypeCandidates, labels.OutsideLabel)
		if len(types[i]) > 0 {
			chosen[i] = types[i][0]
			continue
		}
		if label, ok := annotationLabel(&faces[i], annots, roomType, minOverlap, n); ok {
			chosen[i] = label
			types[i] = []string{label}
			continue
		}
		chosen[i] = labels.UnknownLabel
		types[i] = []string{labels.UnknownLabel}
	}
	return chosen, types
}

// rankedCandidates orders side-label votes by count, breaking ties by name.
// The outside label never names a room.
func rankedCandidates(votes map[string]int, outside string) []string {
	var names []string
	for name := range votes {
		if name != outside {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if votes[names[i]] != votes[names[j]] {
			return votes[names[i]] > votes[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func annotationLabel(face *wallgraph.Face, annots []r2v.Record, roomType map[string]bool, minOverlap float64, n *Normalizer) (string, bool) {
	// Containment pass: score each room annotation by how many of its box
	// probe points (corners plus center) land inside the face.
	bestLabel, bestScore, bestArea := "", 0.0, math.MaxFloat64
	for _, rec := range annots {
		if !roomType[rec.Category] {
			continue
		}
		box := n.BBox(rec.Box)
		inside := 0
		probes := box.Corners()
		for _, p := range probes {
			if face.ContainsPoint(p) {
				inside++
			}
		}
		if face.ContainsPoint(box.Center()) {
			inside++
		}
		if inside == 0 {
			continue
		}
		score := float64(inside) / float64(len(probes)+1)
		if score < minOverlap || score < bestScore {
			continue
		}
		area := box.Width() * box.Height()
		if score > bestScore || area < bestArea {
			bestLabel, bestScore, bestArea = rec.Category, score, area
		}
	}
	if bestLabel != "" {
		return bestLabel, true
	}

	// Nearest-centroid pass, bounded by the room's own scale so a label
	// across the hallway is not pulled in.
	limit := math.Sqrt(face.Area)
	bestDist := limit
	for _, rec := range annots {
		if !roomType[rec.Category] {
			continue
		}
		c := n.BBox(rec.Box).Center()
		d := math.Hypot(c.X-face.Centroid.X, c.Y-face.Centroid.Y)
		if d < bestDist {
			bestDist = d
			bestLabel = rec.Category
		}
	}
	return bestLabel, bestLabel != ""
}
