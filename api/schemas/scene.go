package schemas

// -- Core Scene Models --
// These types represent the reconstructed architecture as handed to external
// serializers. All coordinates are in the metric (normalized) frame.

// Room is a closed polygon extracted from the wall graph, one per enclosed
// region of the floorplan.
type Room struct {
	ID       string       `json:"id"`
	Index    int          `json:"index"`
	Label    string       `json:"label"`
	Types    []string     `json:"types"`
	Polygon  [][2]float64 `json:"polygon"`
	Centroid [2]float64   `json:"centroid"`
	Area     float64      `json:"area"`
}

// Wall is a single wall segment with its endpoints and thickness. A wall
// shared by two rooms appears once, with both room ids attached.
type Wall struct {
	ID        string     `json:"id"`
	P1        [2]float64 `json:"p1"`
	P2        [2]float64 `json:"p2"`
	Thickness float64    `json:"thickness"`
	RoomIDs   []string   `json:"room_ids"`
}

// Opening is a door or window bound to exactly one host wall. Min and Max are
// metric offsets along the host wall measured from its first endpoint.
// RoomIDs holds the rooms the opening connects: two for interior openings,
// one for exterior openings, zero when the host wall bounds no room.
type Opening struct {
	ID       string   `json:"id"`
	Class    string   `json:"class"`
	WallID   string   `json:"wall_id"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	Position float64  `json:"position"`
	RoomIDs  []string `json:"room_ids"`
}

// AdjacencyEdge is one room-door-room connectivity edge. TargetRoomID is
// empty for exterior doors.
type AdjacencyEdge struct {
	RoomID       string `json:"room_id"`
	OpeningID    string `json:"opening_id"`
	TargetRoomID string `json:"target_room_id,omitempty"`
}

// Scene is the assembled architecture scene structure.
type Scene struct {
	ID        string          `json:"id"`
	Rooms     []Room          `json:"rooms"`
	Walls     []Wall          `json:"walls"`
	Openings  []Opening       `json:"openings"`
	Adjacency []AdjacencyEdge `json:"adjacency"`
}

// ObjectBox is an axis-aligned bounding box for a non-wall icon detection.
// No relationship to rooms is computed for these.
type ObjectBox struct {
	Type     string   `json:"type"`
	BoundBox BoundBox `json:"bound_box"`
}

// BoundBox is the min/max corner pair of an axis-aligned box.
type BoundBox struct {
	P1 [2]float64 `json:"p1"`
	P2 [2]float64 `json:"p2"`
}

// ObjectAABBFile is the objectaabb.json payload.
type ObjectAABBFile struct {
	Objects []ObjectBox `json:"objects"`
}

// -- Anomaly Reporting --

// AnomalyKind classifies a recorded, non-fatal reconstruction problem.
type AnomalyKind string

const (
	AnomalyTopology            AnomalyKind = "topology"
	AnomalyUnmatchedOpening    AnomalyKind = "unmatched_opening"
	AnomalyUnattachedWall      AnomalyKind = "unattached_wall"
	AnomalySplitTruncated      AnomalyKind = "split_truncated"
	AnomalyStraightenTruncated AnomalyKind = "straighten_truncated"
)

// Anomaly is one recorded non-fatal problem. A run that completes carries the
// full list alongside its output so callers can tell "clean" from "degraded".
type Anomaly struct {
	Kind   AnomalyKind `json:"kind"`
	Detail string      `json:"detail"`
}

// -- Per-room adjacency summary --

// RoomNeighbor names a door-connected neighbor of a focus room.
type RoomNeighbor struct {
	RoomID    string `json:"room_id"`
	OpeningID string `json:"opening_id"`
}

// RoomSummary is the per-room view consumed by the debug sketch renderer:
// the focus room, its door-connected neighbors, and the openings on its walls.
type RoomSummary struct {
	RoomID    string         `json:"room_id"`
	Index     int            `json:"index"`
	Label     string         `json:"label"`
	Neighbors []RoomNeighbor `json:"neighbors"`
	Openings  []string       `json:"openings"`
}
