package scene

import (
	"sort"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/api/schemas"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/opening"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/wallgraph"
)

// Input bundles everything Assemble needs for one floorplan. The graph is
// expected in the normalized metric frame; Labels and Types are per face
// index as produced by label assignment.
type Input struct {
	ID       string
	Graph    *wallgraph.Graph
	Faces    *wallgraph.FaceSet
	Openings *opening.Resolution
	Labels   []string
	Types    [][]string
}

// Assemble builds the neutral scene structure. Output ordering is fully
// deterministic: rooms sort by centroid, openings by host wall then
// position, and duplicate walls between the same corner pair collapse onto
// the first occurrence.
func Assemble(in Input) *schemas.Scene {
	sc := &schemas.Scene{ID: in.ID}

	faceToRoom := assembleRooms(sc, in)
	wallIDs := assembleWalls(sc, in, faceToRoom)
	assembleOpenings(sc, in, faceToRoom, wallIDs)
	return sc
}

// assembleRooms emits rooms sorted by centroid x then y and returns the
// face-index to room-index mapping.
func assembleRooms(sc *schemas.Scene, in Input) []int {
	order := make([]int, len(in.Faces.Faces))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ca := in.Faces.Faces[order[a]].Centroid
		cb := in.Faces.Faces[order[b]].Centroid
		if ca.X != cb.X {
			return ca.X < cb.X
		}
		return ca.Y < cb.Y
	})

	faceToRoom := make([]int, len(in.Faces.Faces))
	for roomIdx, faceIdx := range order {
		face := &in.Faces.Faces[faceIdx]
		faceToRoom[faceIdx] = roomIdx

		polygon := make([][2]float64, len(face.Ring))
		for i, p := range face.Ring {
			polygon[i] = [2]float64{p.X, p.Y}
		}
		sc.Rooms = append(sc.Rooms, schemas.Room{
			ID:       roomID(roomIdx, face.Ring),
			Index:    roomIdx,
			Label:    in.Labels[faceIdx],
			Types:    in.Types[faceIdx],
			Polygon:  polygon,
			Centroid: [2]float64{face.Centroid.X, face.Centroid.Y},
			Area:     face.Area,
		})
	}
	return faceToRoom
}

// assembleWalls emits each wall once and returns the output wall id per
// graph wall index. A duplicate wall between an already emitted corner pair
// maps onto the first occurrence.
func assembleWalls(sc *schemas.Scene, in Input, faceToRoom []int) []string {
	wallIDs := make([]string, len(in.Graph.Walls))
	byPair := make(map[[2]int]string, len(in.Graph.Walls))
	for wid := range in.Graph.Walls {
		w := &in.Graph.Walls[wid]
		pair := [2]int{w.C1, w.C2}
		if pair[0] > pair[1] {
			pair[0], pair[1] = pair[1], pair[0]
		}
		if id, dup := byPair[pair]; dup {
			wallIDs[wid] = id
			continue
		}

		p1 := in.Graph.Corners[w.C1].Pos
		p2 := in.Graph.Corners[w.C2].Pos
		id := wallID(len(sc.Walls), p1, p2)
		byPair[pair] = id
		wallIDs[wid] = id

		var roomIDs []string
		for _, faceIdx := range in.Faces.WallSides[wid] {
			if faceIdx >= 0 {
				roomIDs = append(roomIDs, sc.Rooms[faceToRoom[faceIdx]].ID)
			}
		}
		sc.Walls = append(sc.Walls, schemas.Wall{
			ID:        id,
			P1:        [2]float64{p1.X, p1.Y},
			P2:        [2]float64{p2.X, p2.Y},
			Thickness: w.Thickness,
			RoomIDs:   roomIDs,
		})
	}
	return wallIDs
}

func assembleOpenings(sc *schemas.Scene, in Input, faceToRoom []int, wallIDs []string) {
	ordered := append([]opening.Opening(nil), in.Openings.Openings...)
	sort.Slice(ordered, func(a, b int) bool {
		if ordered[a].Wall != ordered[b].Wall {
			return ordered[a].Wall < ordered[b].Wall
		}
		return ordered[a].Start < ordered[b].Start
	})

	for i, o := range ordered {
		var roomIDs []string
		for _, faceIdx := range o.Faces {
			if faceIdx >= 0 {
				roomIDs = append(roomIDs, sc.Rooms[faceToRoom[faceIdx]].ID)
			}
		}
		out := schemas.Opening{
			ID:       openingID(i, o.Class, wallIDs[o.Wall], o.Start, o.End),
			Class:    o.Class,
			WallID:   wallIDs[o.Wall],
			Min:      o.Start,
			Max:      o.End,
			Position: (o.Start + o.End) / 2,
			RoomIDs:  roomIDs,
		}
		sc.Openings = append(sc.Openings, out)

		if o.Class != opening.ClassDoor {
			continue
		}
		switch len(roomIDs) {
		case 2:
			sc.Adjacency = append(sc.Adjacency,
				schemas.AdjacencyEdge{RoomID: roomIDs[0], OpeningID: out.ID, TargetRoomID: roomIDs[1]},
				schemas.AdjacencyEdge{RoomID: roomIDs[1], OpeningID: out.ID, TargetRoomID: roomIDs[0]},
			)
		case 1:
			sc.Adjacency = append(sc.Adjacency,
				schemas.AdjacencyEdge{RoomID: roomIDs[0], OpeningID: out.ID})
		}
	}
}

// Summaries derives the per-room neighbor and opening view used by the room
// JSON output and the per-room sketches.
func Summaries(sc *schemas.Scene) []schemas.RoomSummary {
	out := make([]schemas.RoomSummary, len(sc.Rooms))
	index := make(map[string]int, len(sc.Rooms))
	for i, room := range sc.Rooms {
		index[room.ID] = i
		out[i] = schemas.RoomSummary{RoomID: room.ID, Index: room.Index, Label: room.Label}
	}
	for _, edge := range sc.Adjacency {
		i := index[edge.RoomID]
		if edge.TargetRoomID != "" {
			out[i].Neighbors = append(out[i].Neighbors, schemas.RoomNeighbor{
				RoomID:    edge.TargetRoomID,
				OpeningID: edge.OpeningID,
			})
		}
	}
	for _, o := range sc.Openings {
		for _, rid := range o.RoomIDs {
			out[index[rid]].Openings = append(out[index[rid]].Openings, o.ID)
		}
	}
	return out
}
