package schemas

// -- arch.json / scene.json Models --
// Wire-level structures for the scene-toolkit compatible JSON files. The
// element list mixes wall, floor and ceiling entries, so it is typed []any;
// the concrete entries below are the only values placed in it.

// Material references a named material with an optional diffuse color.
type Material struct {
	Name    string `json:"name"`
	Diffuse string `json:"diffuse,omitempty"`
}

// Hole is a cutout (door or window) in a wall element. Box coordinates are
// on-wall: x runs from the wall's first point toward its second, y is height
// from the wall bottom.
type Hole struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	Box  HoleBox `json:"box"`
}

// HoleBox is the min/max extent of a hole on the wall plane.
type HoleBox struct {
	Min [2]float64 `json:"min"`
	Max [2]float64 `json:"max"`
}

// WallElement describes one wall in the arch element list. RoomID lists every
// room the wall belongs to; shared interior walls carry two entries.
type WallElement struct {
	RoomID      []string      `json:"roomId"`
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Points      [][3]float64  `json:"points"`
	Holes       []Hole        `json:"holes"`
	Height      float64       `json:"height"`
	Materials   []Material    `json:"materials"`
	Depth       float64       `json:"depth"`
	ExtraHeight float64       `json:"extra_height"`
}

// SurfaceElement describes a floor or ceiling polygon for one room.
type SurfaceElement struct {
	ID        string         `json:"id"`
	RoomID    string         `json:"roomId"`
	Points    [][][3]float64 `json:"points"`
	Type      string         `json:"type"`
	Materials []Material     `json:"materials"`
	Offset    *[3]float64    `json:"offset,omitempty"`
	Depth     float64        `json:"depth"`
}

// ElementDefaults carries the default depths applied to untyped elements.
type ElementDefaults struct {
	Wall    WallDefaults    `json:"Wall"`
	Ceiling SurfaceDefaults `json:"Ceiling"`
	Floor   SurfaceDefaults `json:"Floor"`
}

type WallDefaults struct {
	Depth       float64 `json:"depth"`
	ExtraHeight float64 `json:"extraHeight"`
}

type SurfaceDefaults struct {
	Depth float64 `json:"depth"`
}

// RoomInfo is the per-room entry of the arch file.
type RoomInfo struct {
	ID    string   `json:"id"`
	Types []string `json:"types"`
}

// RDREdge is one room-door-room edge as serialized in the arch file.
// TargetRoomID is null for exterior doors.
type RDREdge struct {
	RoomID       string  `json:"roomId"`
	HoleID       string  `json:"holeId"`
	TargetRoomID *string `json:"targetRoomId"`
}

// ArchFile is the arch.json payload describing the whole house.
type ArchFile struct {
	Version       string          `json:"version"`
	ID            string          `json:"id"`
	Up            [3]float64      `json:"up"`
	Front         [3]float64      `json:"front"`
	ScaleToMeters float64         `json:"scaleToMeters"`
	Defaults      ElementDefaults `json:"defaults"`
	Elements      []any           `json:"elements"`
	Rooms         []RoomInfo      `json:"rooms"`
	RDR           []RDREdge       `json:"rdr"`
}

// Vec3 is the {x,y,z} object form used by scene.json.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// SceneFileInner is the "scene" object of a scene.json file.
type SceneFileInner struct {
	Up          Vec3     `json:"up"`
	Front       Vec3     `json:"front"`
	Unit        float64  `json:"unit"`
	AssetSource []string `json:"assetSource,omitempty"`
	Arch        ArchFile `json:"arch"`
	Object      []any    `json:"object"`
}

// SceneFile is the scene.json payload.
type SceneFile struct {
	Format   string         `json:"format"`
	Scene    SceneFileInner `json:"scene"`
	Selected []any          `json:"selected"`
}
