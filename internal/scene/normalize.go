// Package scene turns the wall graph, faces and openings of one floorplan
// into the output scene structures and serialized artifacts.
package scene

import (
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/config"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
)

// Normalizer maps detector pixel coordinates into the metric output frame:
// scale by the configured factor, optionally mirror the y axis, then shift
// by the origin offset. Normalization happens before any geometry work so
// every tolerance comparison runs in one frame.
type Normalizer struct {
	Scale  float64
	FlipY  bool
	Origin geometry.Point
}

// NewNormalizer validates the scale convention. A non-positive scale factor
// is a *config.ConfigError.
func NewNormalizer(cfg config.ArchConfig) (*Normalizer, error) {
	if cfg.ScaleFactor <= 0 {
		return nil, &config.ConfigError{Field: "arch.scale_factor", Reason: "must be > 0"}
	}
	return &Normalizer{
		Scale:  cfg.ScaleFactor,
		FlipY:  cfg.FlipY,
		Origin: geometry.Point{X: cfg.Origin[0], Y: cfg.Origin[1]},
	}, nil
}

// Point maps a pixel point into the metric frame.
func (n *Normalizer) Point(p geometry.Point) geometry.Point {
	out := p.Scale(n.Scale)
	if n.FlipY {
		out.Y = -out.Y
	}
	return out.Add(n.Origin)
}

// BBox maps a pixel box into the metric frame in canonical form.
func (n *Normalizer) BBox(b geometry.BBox) geometry.BBox {
	return geometry.BBox{Min: n.Point(b.Min), Max: n.Point(b.Max)}.Canon()
}

// Length maps a pixel distance into the metric frame.
func (n *Normalizer) Length(d float64) float64 { return d * n.Scale }

// Invert maps a metric point back into pixel coordinates.
func (n *Normalizer) Invert(p geometry.Point) geometry.Point {
	out := p.Sub(n.Origin)
	if n.FlipY {
		out.Y = -out.Y
	}
	return out.Scale(1 / n.Scale)
}

// WindingSign returns the shoelace sign that marks a bounded face in the
// normalized frame. Mirroring the y axis flips every walk's winding.
func (n *Normalizer) WindingSign() float64 {
	if n.FlipY {
		return -1
	}
	return 1
}
