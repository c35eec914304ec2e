package scene

import (
	"fmt"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/api/schemas"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/config"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/opening"
)

// BuildArchFile serializes a scene into the scene-toolkit arch structure.
// Element order follows the scene: walls first, then floor and ceiling per
// room.
func BuildArchFile(sc *schemas.Scene, cfg config.ArchConfig) *schemas.ArchFile {
	arch := &schemas.ArchFile{
		Version:       cfg.Version,
		ID:            sc.ID,
		Up:            cfg.Up,
		Front:         cfg.Front,
		ScaleToMeters: cfg.ScaleToMeters,
		Defaults: schemas.ElementDefaults{
			Wall:    schemas.WallDefaults{Depth: cfg.WallDepth, ExtraHeight: cfg.WallExtraHeight},
			Ceiling: schemas.SurfaceDefaults{Depth: cfg.CeilingDepth},
			Floor:   schemas.SurfaceDefaults{Depth: cfg.FloorDepth},
		},
		RDR: []schemas.RDREdge{},
	}

	shortWall := make(map[string]bool, len(cfg.ShortWallRoomTypes))
	for _, t := range cfg.ShortWallRoomTypes {
		shortWall[t] = true
	}
	labelOf := make(map[string]string, len(sc.Rooms))
	for _, room := range sc.Rooms {
		labelOf[room.ID] = room.Label
	}

	holes := holesByWall(sc, cfg)
	for _, wall := range sc.Walls {
		height := cfg.WallHeight
		// Exterior walls of short-wall rooms (balconies) stay low so the
		// room reads as open.
		if len(wall.RoomIDs) == 1 && shortWall[labelOf[wall.RoomIDs[0]]] {
			height = cfg.ShortWallHeight
		}
		depth := wall.Thickness
		if depth <= 0 {
			depth = cfg.WallDepth
		}
		roomIDs := wall.RoomIDs
		if roomIDs == nil {
			roomIDs = []string{}
		}
		wh := holes[wall.ID]
		if wh == nil {
			wh = []schemas.Hole{}
		}
		arch.Elements = append(arch.Elements, schemas.WallElement{
			RoomID: roomIDs,
			ID:     wall.ID,
			Type:   "Wall",
			Points: [][3]float64{
				{wall.P1[0], wall.P1[1], 0},
				{wall.P2[0], wall.P2[1], 0},
			},
			Holes:       wh,
			Height:      height,
			Materials:   []schemas.Material{{Name: "inside"}, {Name: "outside"}},
			Depth:       depth,
			ExtraHeight: cfg.WallExtraHeight,
		})
	}

	for _, room := range sc.Rooms {
		ring := make([][3]float64, len(room.Polygon))
		for i, p := range room.Polygon {
			ring[i] = [3]float64{p[0], p[1], 0}
		}
		arch.Elements = append(arch.Elements, schemas.SurfaceElement{
			ID:        fmt.Sprintf("%s_floor", room.ID),
			RoomID:    room.ID,
			Points:    [][][3]float64{ring},
			Type:      "Floor",
			Materials: []schemas.Material{{Name: "surface"}},
			Depth:     cfg.FloorDepth,
		})
		offset := [3]float64{0, 0, cfg.WallHeight}
		arch.Elements = append(arch.Elements, schemas.SurfaceElement{
			ID:        fmt.Sprintf("%s_ceiling", room.ID),
			RoomID:    room.ID,
			Points:    [][][3]float64{ring},
			Type:      "Ceiling",
			Materials: []schemas.Material{{Name: "surface"}},
			Offset:    &offset,
			Depth:     cfg.CeilingDepth,
		})
		arch.Rooms = append(arch.Rooms, schemas.RoomInfo{ID: room.ID, Types: room.Types})
	}

	for _, edge := range sc.Adjacency {
		rdr := schemas.RDREdge{RoomID: edge.RoomID, HoleID: edge.OpeningID}
		if edge.TargetRoomID != "" {
			target := edge.TargetRoomID
			rdr.TargetRoomID = &target
		}
		arch.RDR = append(arch.RDR, rdr)
	}
	return arch
}

// holesByWall converts openings into on-wall hole boxes: x runs along the
// wall from its first point, y is height above the floor with the vertical
// extent chosen by opening class.
func holesByWall(sc *schemas.Scene, cfg config.ArchConfig) map[string][]schemas.Hole {
	out := make(map[string][]schemas.Hole)
	for _, o := range sc.Openings {
		minY, maxY := cfg.DoorMinY, cfg.DoorMaxY
		if o.Class == opening.ClassWindow {
			minY, maxY = cfg.WindowMinY, cfg.WindowMaxY
		}
		out[o.WallID] = append(out[o.WallID], schemas.Hole{
			ID:   o.ID,
			Type: o.Class,
			Box: schemas.HoleBox{
				Min: [2]float64{o.Min, minY},
				Max: [2]float64{o.Max, maxY},
			},
		})
	}
	return out
}

// BuildSceneFile wraps an arch structure in the scene.json envelope.
func BuildSceneFile(arch *schemas.ArchFile, cfg config.ArchConfig) *schemas.SceneFile {
	return &schemas.SceneFile{
		Format: "sceneState",
		Scene: schemas.SceneFileInner{
			Up:          schemas.Vec3{X: cfg.Up[0], Y: cfg.Up[1], Z: cfg.Up[2]},
			Front:       schemas.Vec3{X: cfg.Front[0], Y: cfg.Front[1], Z: cfg.Front[2]},
			Unit:        cfg.ScaleToMeters,
			AssetSource: cfg.AssetSource,
			Arch:        *arch,
			Object:      []any{},
		},
		Selected: []any{},
	}
}
