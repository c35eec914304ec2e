package scene

import (
	"sort"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/api/schemas"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/r2v"
)

// BuildObjects converts non-structural icon records into normalized object
// bounding boxes. extra carries opening icons that failed wall matching and
// degrade to plain boxes. Output order is class name, then box position, so
// repeated runs serialize identically.
func BuildObjects(records []r2v.Record, extra []geometry.BBox, n *Normalizer) []schemas.ObjectBox {
	out := make([]schemas.ObjectBox, 0, len(records)+len(extra))
	for _, rec := range records {
		out = append(out, objectBox(rec.Category, n.BBox(rec.Box)))
	}
	for _, box := range extra {
		out = append(out, objectBox(r2v.CategoryDoor, n.BBox(box)))
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.BoundBox.P1[0] != b.BoundBox.P1[0] {
			return a.BoundBox.P1[0] < b.BoundBox.P1[0]
		}
		return a.BoundBox.P1[1] < b.BoundBox.P1[1]
	})
	return out
}

func objectBox(category string, b geometry.BBox) schemas.ObjectBox {
	return schemas.ObjectBox{
		Type: category,
		BoundBox: schemas.BoundBox{
			P1: [2]float64{b.Min.X, b.Min.Y},
			P2: [2]float64{b.Max.X, b.Max.Y},
		},
	}
}
