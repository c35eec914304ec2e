package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/config"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
)

func TestNewNormalizerRejectsBadScale(t *testing.T) {
	t.Parallel()
	_, err := NewNormalizer(config.ArchConfig{ScaleFactor: 0})
	require.Error(t, err)
	var cerr *config.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "arch.scale_factor", cerr.Field)
}

func TestNormalizerRoundTrip(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		cfg  config.ArchConfig
	}{
		{"identity", config.ArchConfig{ScaleFactor: 1}},
		{"scaled", config.ArchConfig{ScaleFactor: 0.05}},
		{"flipped", config.ArchConfig{ScaleFactor: 0.05, FlipY: true}},
		{"shifted", config.ArchConfig{ScaleFactor: 2, FlipY: true, Origin: [2]float64{-3, 7}}},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			n, err := NewNormalizer(tc.cfg)
			require.NoError(t, err)

			src := geometry.Point{X: 123, Y: 456}
			back := n.Invert(n.Point(src))
			assert.InDelta(t, src.X, back.X, 1e-9)
			assert.InDelta(t, src.Y, back.Y, 1e-9)
		})
	}
}

func TestNormalizerFlipY(t *testing.T) {
	t.Parallel()
	n, err := NewNormalizer(config.ArchConfig{ScaleFactor: 0.5, FlipY: true})
	require.NoError(t, err)

	p := n.Point(geometry.Point{X: 10, Y: 10})
	assert.Equal(t, geometry.Point{X: 5, Y: -5}, p)
	assert.Equal(t, -1.0, n.WindingSign())
	assert.Equal(t, 5.0, n.Length(10))

	// Boxes come back in canonical min/max order after the mirror.
	box := n.BBox(geometry.BBox{Min: geometry.Point{X: 0, Y: 0}, Max: geometry.Point{X: 4, Y: 4}})
	assert.Equal(t, geometry.Point{X: 0, Y: -2}, box.Min)
	assert.Equal(t, geometry.Point{X: 2, Y: 0}, box.Max)
}

func TestGeomIDsAreDeterministic(t *testing.T) {
	t.Parallel()
	ring := []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	assert.Equal(t, roomID(0, ring), roomID(0, ring))
	assert.NotEqual(t, roomID(0, ring), roomID(1, ring))

	a := wallID(0, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 5, Y: 0})
	b := wallID(0, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 5, Y: 1})
	assert.NotEqual(t, a, b, "different geometry yields different ids")
}
