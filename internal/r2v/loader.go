// Package r2v parses the tab-separated outputs of the raster-to-vector
// floorplan detector into the neutral record form the reconstruction
// pipeline consumes.
package r2v

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
)

// Well-known record categories. Any other category names an icon class
// (furniture, appliances, room labels).
const (
	CategoryWall     = "wall"
	CategoryDoor     = "door"
	CategoryEntrance = "entrance"
	CategoryStairs   = "stairs"
)

// Record is one detection row. Walls use Box as a (p1, p2) endpoint pair;
// icons use it as an axis-aligned box. Left/RightRoomType are only set for
// wall rows of the detector output format, which labels the room type on
// each side of every wall.
type Record struct {
	Box           geometry.BBox
	Category      string
	LeftRoomType  string
	RightRoomType string
}

// Plan is a parsed floorplan: the raw record list plus the pixel-space
// bounds of everything detected.
type Plan struct {
	Source  string
	Records []Record
	Bounds  geometry.BBox
}

// Walls returns the wall segment records.
func (p *Plan) Walls() []Record { return p.filter(func(r Record) bool { return r.Category == CategoryWall }) }

// Openings returns the door/window records. The detector reports both under
// a single "door" category; classification happens downstream.
func (p *Plan) Openings() []Record {
	return p.filter(func(r Record) bool { return r.Category == CategoryDoor })
}

// Entrances returns the entrance marker records.
func (p *Plan) Entrances() []Record {
	return p.filter(func(r Record) bool { return r.Category == CategoryEntrance })
}

// Stairs returns the stair records.
func (p *Plan) Stairs() []Record {
	return p.filter(func(r Record) bool { return r.Category == CategoryStairs })
}

// Objects returns every record that is neither structure nor opening: the
// furniture and appliance icons.
func (p *Plan) Objects() []Record {
	return p.filter(func(r Record) bool {
		return r.Category != CategoryWall && r.Category != CategoryDoor && r.Category != CategoryEntrance
	})
}

// RoomAnnotations returns the records considered for room label assignment:
// everything except walls and openings. Entrances and stairs are included,
// matching the annotation convention of the detector.
func (p *Plan) RoomAnnotations() []Record {
	return p.filter(func(r Record) bool {
		return r.Category != CategoryWall && r.Category != CategoryDoor
	})
}

func (p *Plan) filter(keep func(Record) bool) []Record {
	var out []Record
	for _, r := range p.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// LoadOutputFile parses a raster-to-vector output file. The format is TSV:
// row 0 holds the image dimensions, row 1 the wall count N, the next N rows
// are walls (4 coordinates + left/right room-type indices into roomTypes),
// and the remaining rows are icons (4 coordinates, category, two unused
// columns).
func LoadOutputFile(path string, roomTypes []string) (*Plan, error) {
	rows, err := readTSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("r2v output %s: expected at least 2 header rows, got %d", path, len(rows))
	}

	wallCount, err := parseCoord(rows[1][0])
	if err != nil {
		return nil, fmt.Errorf("r2v output %s: bad wall count: %w", path, err)
	}

	plan := &Plan{Source: path}
	for i, row := range rows[2:] {
		if i < int(wallCount) {
			if len(row) != 6 {
				return nil, fmt.Errorf("r2v output %s row %d: wall row needs 6 columns, got %d", path, i+2, len(row))
			}
			rec, err := parseWallRow(row, roomTypes)
			if err != nil {
				return nil, fmt.Errorf("r2v output %s row %d: %w", path, i+2, err)
			}
			plan.Records = append(plan.Records, rec)
			continue
		}
		if len(row) != 7 {
			return nil, fmt.Errorf("r2v output %s row %d: icon row needs 7 columns, got %d", path, i+2, len(row))
		}
		rec, err := parseIconRow(row)
		if err != nil {
			return nil, fmt.Errorf("r2v output %s row %d: %w", path, i+2, err)
		}
		plan.Records = append(plan.Records, rec)
	}

	plan.computeBounds()
	return plan, nil
}

// LoadAnnotFile parses a raster-to-vector annotation file: uniform 7-column
// rows with explicit category names and no wall-side room types.
func LoadAnnotFile(path string) (*Plan, error) {
	rows, err := readTSV(path)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Source: path}
	for i, row := range rows {
		if len(row) != 7 {
			return nil, fmt.Errorf("r2v annot %s row %d: needs 7 columns, got %d", path, i, len(row))
		}
		rec, err := parseIconRow(row)
		if err != nil {
			return nil, fmt.Errorf("r2v annot %s row %d: %w", path, i, err)
		}
		plan.Records = append(plan.Records, rec)
	}

	plan.computeBounds()
	return plan, nil
}

func readTSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open r2v file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read r2v file %s: %w", path, err)
	}
	return rows, nil
}

func parseWallRow(row []string, roomTypes []string) (Record, error) {
	box, err := parseBox(row[:4])
	if err != nil {
		return Record{}, err
	}
	left, err := parseCoord(row[4])
	if err != nil {
		return Record{}, fmt.Errorf("left room type index: %w", err)
	}
	right, err := parseCoord(row[5])
	if err != nil {
		return Record{}, fmt.Errorf("right room type index: %w", err)
	}
	leftIdx, rightIdx := int(left), int(right)
	if leftIdx < 0 || leftIdx >= len(roomTypes) {
		return Record{}, fmt.Errorf("left room type index %d out of range (%d labels)", leftIdx, len(roomTypes))
	}
	if rightIdx < 0 || rightIdx >= len(roomTypes) {
		return Record{}, fmt.Errorf("right room type index %d out of range (%d labels)", rightIdx, len(roomTypes))
	}
	return Record{
		Box:           box,
		Category:      CategoryWall,
		LeftRoomType:  roomTypes[leftIdx],
		RightRoomType: roomTypes[rightIdx],
	}, nil
}

func parseIconRow(row []string) (Record, error) {
	box, err := parseBox(row[:4])
	if err != nil {
		return Record{}, err
	}
	if row[4] == "" {
		return Record{}, fmt.Errorf("empty category")
	}
	return Record{Box: box, Category: row[4]}, nil
}

func parseBox(cols []string) (geometry.BBox, error) {
	var vals [4]float64
	for i, col := range cols {
		v, err := parseCoord(col)
		if err != nil {
			return geometry.BBox{}, fmt.Errorf("coordinate %d: %w", i, err)
		}
		vals[i] = v
	}
	return geometry.BBox{
		Min: geometry.Point{X: vals[0], Y: vals[1]},
		Max: geometry.Point{X: vals[2], Y: vals[3]},
	}, nil
}

// parseCoord accepts both integer and float spellings; some detector dumps
// write coordinates as "123.0".
func parseCoord(s string) (float64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(v), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return math.Trunc(v), nil
}

func (p *Plan) computeBounds() {
	if len(p.Records) == 0 {
		return
	}
	bounds := p.Records[0].Box.Canon()
	for _, r := range p.Records[1:] {
		c := r.Box.Canon()
		bounds.Min.X = math.Min(bounds.Min.X, c.Min.X)
		bounds.Min.Y = math.Min(bounds.Min.Y, c.Min.Y)
		bounds.Max.X = math.Max(bounds.Max.X, c.Max.X)
		bounds.Max.Y = math.Max(bounds.Max.Y, c.Max.Y)
	}
	p.Bounds = bounds
}
