package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefaults(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)
	return cfg
}

func TestDefaultsAreValid(t *testing.T) {
	t.Parallel()
	cfg := loadDefaults(t)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 1.0, cfg.Arch.ScaleFactor)
	assert.True(t, cfg.Parser.SplitWalls.Enabled)
	assert.True(t, cfg.Output.ClassifyOpenings)
	assert.Contains(t, cfg.Labels.RoomTypes, "kitchen")
	assert.Equal(t, "outside", cfg.Labels.OutsideLabel)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero scale factor", func(c *Config) { c.Arch.ScaleFactor = 0 }, "arch.scale_factor"},
		{"negative scale factor", func(c *Config) { c.Arch.ScaleFactor = -2 }, "arch.scale_factor"},
		{"no room types", func(c *Config) { c.Labels.RoomTypes = nil }, "labels.room_types"},
		{"empty room type", func(c *Config) { c.Labels.RoomTypes = []string{"kitchen", ""} }, "labels.room_types"},
		{"duplicate room type", func(c *Config) { c.Labels.RoomTypes = []string{"a", "a"} }, "labels.room_types"},
		{"empty unknown label", func(c *Config) { c.Labels.UnknownLabel = "" }, "labels.unknown_label"},
		{"negative snap tolerance", func(c *Config) { c.Parser.CornerSnapTolerance = -1 }, "parser.corner_snap_tolerance"},
		{"zero walk budget", func(c *Config) { c.Parser.FaceWalkMaxSteps = 0 }, "parser.face_walk_max_steps"},
		{"overlap above one", func(c *Config) { c.Parser.RoomLabelOverlap = 1.5 }, "parser.room_label_overlap"},
		{"zero wall thickness", func(c *Config) { c.Arch.DefaultWallThickness = 0 }, "arch.default_wall_thickness"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := loadDefaults(t)
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tc.field, cerr.Field)
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()
	v := viper.New()
	SetDefaults(v)
	v.Set("arch.scale_factor", 0.02)
	v.Set("arch.flip_y", true)
	v.Set("output.previews", false)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 0.02, cfg.Arch.ScaleFactor)
	assert.True(t, cfg.Arch.FlipY)
	assert.False(t, cfg.Output.Previews)
	require.NoError(t, cfg.Validate())
}
