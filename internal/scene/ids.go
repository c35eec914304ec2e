package scene

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
)

// idNamespace seeds the name-based UUIDs of generated elements. Ids are
// derived from canonical geometry so reconverting the same floorplan yields
// byte-identical output.
var idNamespace = uuid.MustParse("8f2c9a44-1f6b-4f7e-9c35-2d2a4e6b9d01")

func geomID(kind string, index int, key string) string {
	u := uuid.NewMD5(idNamespace, []byte(kind+"|"+key))
	return fmt.Sprintf("%s_%d_%s", kind, index, u.String()[:8])
}

func pointKey(p geometry.Point) string {
	return fmt.Sprintf("%.4f,%.4f", p.X, p.Y)
}

func roomID(index int, ring []geometry.Point) string {
	key := ""
	for _, p := range ring {
		key += pointKey(p) + ";"
	}
	return geomID("room", index, key)
}

func wallID(index int, p1, p2 geometry.Point) string {
	return geomID("wall", index, pointKey(p1)+";"+pointKey(p2))
}

func openingID(index int, class string, wallKey string, start, end float64) string {
	return geomID(class, index, fmt.Sprintf("%s|%.4f|%.4f", wallKey, start, end))
}
