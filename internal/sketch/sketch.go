// Package sketch renders debug previews of a reconstructed scene: one
// overview image per floorplan and one focus image per room.
package sketch

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/api/schemas"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/scene"
)

const (
	maxDim = 1000
	pad    = 24
)

var (
	colBackground = color.NRGBA{255, 255, 255, 255}
	colWall       = color.NRGBA{40, 40, 40, 255}
	colDoor       = color.NRGBA{190, 95, 30, 255}
	colWindow     = color.NRGBA{60, 110, 220, 255}
	colObject     = color.NRGBA{150, 150, 150, 255}
	colText       = color.NRGBA{10, 10, 10, 255}
	colNeighbor   = color.NRGBA{225, 225, 235, 255}
)

// canvas maps metric scene coordinates onto image pixels.
type canvas struct {
	img    *image.NRGBA
	min    [2]float64
	scale  float64
	height int
}

func newCanvas(sc *schemas.Scene) *canvas {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	grow := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, w := range sc.Walls {
		grow(w.P1[0], w.P1[1])
		grow(w.P2[0], w.P2[1])
	}
	if minX > maxX {
		grow(0, 0)
		grow(1, 1)
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	s := float64(maxDim-2*pad) / span
	w := int(math.Ceil((maxX-minX)*s)) + 2*pad
	h := int(math.Ceil((maxY-minY)*s)) + 2*pad
	return &canvas{
		img:    imaging.New(w, h, colBackground),
		min:    [2]float64{minX, minY},
		scale:  s,
		height: h,
	}
}

func (c *canvas) pt(x, y float64) (int, int) {
	px := int(math.Round((x-c.min[0])*c.scale)) + pad
	// Metric y grows upward; images grow downward.
	py := c.height - (int(math.Round((y-c.min[1])*c.scale)) + pad)
	return px, py
}

func (c *canvas) line(x1, y1, x2, y2 float64, col color.NRGBA, width int) {
	ax, ay := c.pt(x1, y1)
	bx, by := c.pt(x2, y2)
	steps := int(math.Max(math.Abs(float64(bx-ax)), math.Abs(float64(by-ay)))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(ax) + t*float64(bx-ax)))
		y := int(math.Round(float64(ay) + t*float64(by-ay)))
		for dx := -width / 2; dx <= width/2; dx++ {
			for dy := -width / 2; dy <= width/2; dy++ {
				c.img.SetNRGBA(x+dx, y+dy, col)
			}
		}
	}
}

// fill paints a polygon with even-odd scanline filling.
func (c *canvas) fill(poly [][2]float64, col color.NRGBA) {
	if len(poly) < 3 {
		return
	}
	pts := make([][2]int, len(poly))
	minY, maxY := math.MaxInt32, -math.MaxInt32
	for i, p := range poly {
		x, y := c.pt(p[0], p[1])
		pts[i] = [2]int{x, y}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	for y := minY; y <= maxY; y++ {
		var xs []float64
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			if a[1] == b[1] {
				continue
			}
			if (y >= a[1]) != (y >= b[1]) {
				t := float64(y-a[1]) / float64(b[1]-a[1])
				xs = append(xs, float64(a[0])+t*float64(b[0]-a[0]))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				c.img.SetNRGBA(x, y, col)
			}
		}
	}
}

func (c *canvas) box(b schemas.BoundBox, col color.NRGBA) {
	c.line(b.P1[0], b.P1[1], b.P2[0], b.P1[1], col, 1)
	c.line(b.P2[0], b.P1[1], b.P2[0], b.P2[1], col, 1)
	c.line(b.P2[0], b.P2[1], b.P1[0], b.P2[1], col, 1)
	c.line(b.P1[0], b.P2[1], b.P1[0], b.P1[1], col, 1)
}

func (c *canvas) label(x, y float64, text string) {
	px, py := c.pt(x, y)
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(colText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(px-len(text)*basicfont.Face7x13.Advance/2, py),
	}
	d.DrawString(text)
}

// roomColor assigns each room a stable pastel fill by index.
func roomColor(index, total int) color.NRGBA {
	if total < 1 {
		total = 1
	}
	hue := 360 * float64(index) / float64(total)
	r, g, b := colorful.Hsv(hue, 0.35, 0.97).RGB255()
	return color.NRGBA{r, g, b, 255}
}

func drawWallsAndOpenings(c *canvas, sc *schemas.Scene) {
	walls := make(map[string]schemas.Wall, len(sc.Walls))
	for _, w := range sc.Walls {
		walls[w.ID] = w
		c.line(w.P1[0], w.P1[1], w.P2[0], w.P2[1], colWall, 2)
	}
	for _, o := range sc.Openings {
		w, ok := walls[o.WallID]
		if !ok {
			continue
		}
		col := colDoor
		if o.Class == "window" {
			col = colWindow
		}
		length := math.Hypot(w.P2[0]-w.P1[0], w.P2[1]-w.P1[1])
		if length == 0 {
			continue
		}
		t1, t2 := o.Min/length, o.Max/length
		x1 := w.P1[0] + t1*(w.P2[0]-w.P1[0])
		y1 := w.P1[1] + t1*(w.P2[1]-w.P1[1])
		x2 := w.P1[0] + t2*(w.P2[0]-w.P1[0])
		y2 := w.P1[1] + t2*(w.P2[1]-w.P1[1])
		c.line(x1, y1, x2, y2, col, 4)
	}
}

// RenderOverview draws the whole floorplan: room fills with labels, walls,
// openings and object boxes.
func RenderOverview(res *scene.Result) *image.NRGBA {
	c := newCanvas(res.Scene)
	for _, room := range res.Scene.Rooms {
		c.fill(room.Polygon, roomColor(room.Index, len(res.Scene.Rooms)))
	}
	for _, obj := range res.Objects {
		c.box(obj.BoundBox, colObject)
	}
	drawWallsAndOpenings(c, res.Scene)
	for _, room := range res.Scene.Rooms {
		c.label(room.Centroid[0], room.Centroid[1], room.Label)
	}
	return c.img
}

// RenderRoom draws one focus room in color with its door-connected
// neighbors shaded.
func RenderRoom(res *scene.Result, roomIdx int) *image.NRGBA {
	c := newCanvas(res.Scene)
	room := res.Scene.Rooms[roomIdx]

	neighbors := make(map[string]bool)
	for _, n := range res.Summaries[roomIdx].Neighbors {
		neighbors[n.RoomID] = true
	}
	for _, other := range res.Scene.Rooms {
		if neighbors[other.ID] {
			c.fill(other.Polygon, colNeighbor)
		}
	}
	c.fill(room.Polygon, roomColor(room.Index, len(res.Scene.Rooms)))
	drawWallsAndOpenings(c, res.Scene)
	c.label(room.Centroid[0], room.Centroid[1], room.Label)
	return c.img
}

// WritePreviews saves the overview and per-room sketches into dir.
func WritePreviews(res *scene.Result, dir string) error {
	if err := imaging.Save(RenderOverview(res), filepath.Join(dir, "overview.png")); err != nil {
		return fmt.Errorf("save overview sketch: %w", err)
	}
	for i, room := range res.Scene.Rooms {
		name := fmt.Sprintf("room_%d.png", room.Index)
		if err := imaging.Save(RenderRoom(res, i), filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("save room sketch %s: %w", name, err)
		}
	}
	return nil
}
