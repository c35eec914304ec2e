// The application's root configuration: logger, room-type labels, parser
// thresholds and the architectural defaults baked into generated scenes.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the root configuration structure for a conversion run. It is
// immutable once validated and is passed explicitly into every component, so
// multiple floorplans can be converted in parallel against one instance.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger"`
	Labels LabelsConfig `mapstructure:"labels"`
	Parser ParserConfig `mapstructure:"parser"`
	Arch   ArchConfig   `mapstructure:"arch"`
	Output OutputConfig `mapstructure:"output"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" json:"level" yaml:"level"`
	Format      string `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" json:"compress" yaml:"compress"`
}

// LabelsConfig holds the ordered room-type label list. Wall rows of the
// raster-to-vector output format reference room types by index into this
// list, so its order is part of the input contract.
type LabelsConfig struct {
	RoomTypes    []string `mapstructure:"room_types"`
	UnknownLabel string   `mapstructure:"unknown_label"`
	OutsideLabel string   `mapstructure:"outside_label"`
}

// SplitWallsConfig bounds the wall splitting pass.
type SplitWallsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	MaxIter int  `mapstructure:"max_iter"`
}

// StraightenWallsConfig bounds the axis-alignment pass.
type StraightenWallsConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	CutoffGradient float64 `mapstructure:"cutoff_gradient"`
	MaxIter        int     `mapstructure:"max_iter"`
}

// ParserConfig holds the geometric thresholds of the reconstruction. All
// distances are in source pixels; the pipeline rescales them by the
// configured scale factor before use in the metric frame.
type ParserConfig struct {
	CornerSnapTolerance   float64               `mapstructure:"corner_snap_tolerance"`
	WallJoinMargin        float64               `mapstructure:"wall_join_margin"`
	OpeningMatchTolerance float64               `mapstructure:"opening_match_tolerance"`
	RoomLabelOverlap      float64               `mapstructure:"room_label_overlap"`
	FaceWalkMaxSteps      int                   `mapstructure:"face_walk_max_steps"`
	SplitWalls            SplitWallsConfig      `mapstructure:"split_walls"`
	StraightenWalls       StraightenWallsConfig `mapstructure:"straighten_walls"`
}

// ArchConfig holds the scale/axis conventions and the architectural defaults
// written into generated arch/scene files.
type ArchConfig struct {
	ScaleFactor          float64    `mapstructure:"scale_factor"`
	FlipY                bool       `mapstructure:"flip_y"`
	Origin               [2]float64 `mapstructure:"origin"`
	DefaultWallThickness float64    `mapstructure:"default_wall_thickness"`

	Version       string     `mapstructure:"version"`
	Up            [3]float64 `mapstructure:"up"`
	Front         [3]float64 `mapstructure:"front"`
	ScaleToMeters float64    `mapstructure:"scale_to_meters"`
	AssetSource   []string   `mapstructure:"asset_source"`

	WallHeight      float64 `mapstructure:"wall_height"`
	ShortWallHeight float64 `mapstructure:"short_wall_height"`
	WallDepth       float64 `mapstructure:"wall_depth"`
	WallExtraHeight float64 `mapstructure:"wall_extra_height"`
	CeilingDepth    float64 `mapstructure:"ceiling_depth"`
	FloorDepth      float64 `mapstructure:"floor_depth"`

	DoorMinY   float64 `mapstructure:"door_min_y"`
	DoorMaxY   float64 `mapstructure:"door_max_y"`
	WindowMinY float64 `mapstructure:"window_min_y"`
	WindowMaxY float64 `mapstructure:"window_max_y"`

	// Rooms of these types get short exterior walls (e.g. balconies).
	ShortWallRoomTypes []string `mapstructure:"short_wall_room_types"`
}

// OutputConfig controls which artifacts a conversion writes and which
// optional pipeline stages run.
type OutputConfig struct {
	Previews         bool   `mapstructure:"previews"`
	RoomJSON         bool   `mapstructure:"room_json"`
	Objects          bool   `mapstructure:"objects"`
	RDR              bool   `mapstructure:"rdr"`
	ClassifyOpenings bool   `mapstructure:"classify_openings"`
	IndexDB          string `mapstructure:"index_db"`
}

// ConfigError marks a configuration as unusable. It is fatal and aborts a
// run before any geometry work starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// SetDefaults registers default values so the tool can run with a minimal
// config file. The parser thresholds mirror the reference importer settings.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "r2v-to-plan2scene")

	v.SetDefault("labels.room_types", []string{
		"outside", "kitchen", "bedroom", "bathroom", "living_room",
		"office", "garage", "balcony", "hallway", "other_room",
	})
	v.SetDefault("labels.unknown_label", "unknown")
	v.SetDefault("labels.outside_label", "outside")

	v.SetDefault("parser.corner_snap_tolerance", 10.0)
	v.SetDefault("parser.wall_join_margin", 5.0)
	v.SetDefault("parser.opening_match_tolerance", 8.0)
	v.SetDefault("parser.room_label_overlap", 0.5)
	v.SetDefault("parser.face_walk_max_steps", 500)
	v.SetDefault("parser.split_walls.enabled", true)
	v.SetDefault("parser.split_walls.max_iter", 10000)
	v.SetDefault("parser.straighten_walls.enabled", true)
	v.SetDefault("parser.straighten_walls.cutoff_gradient", 0.3)
	v.SetDefault("parser.straighten_walls.max_iter", 2000)

	v.SetDefault("arch.scale_factor", 1.0)
	v.SetDefault("arch.flip_y", false)
	v.SetDefault("arch.default_wall_thickness", 0.1)
	v.SetDefault("arch.version", "arch@1.0.2")
	v.SetDefault("arch.up", [3]float64{0, 0, 1})
	v.SetDefault("arch.front", [3]float64{0, 1, 0})
	v.SetDefault("arch.scale_to_meters", 1.0)
	v.SetDefault("arch.wall_height", 2.7)
	v.SetDefault("arch.short_wall_height", 1.0)
	v.SetDefault("arch.wall_depth", 0.1)
	v.SetDefault("arch.wall_extra_height", 0.035)
	v.SetDefault("arch.ceiling_depth", 0.05)
	v.SetDefault("arch.floor_depth", 0.05)
	v.SetDefault("arch.door_min_y", 0.0)
	v.SetDefault("arch.door_max_y", 2.0)
	v.SetDefault("arch.window_min_y", 0.9)
	v.SetDefault("arch.window_max_y", 1.8)
	v.SetDefault("arch.short_wall_room_types", []string{"balcony"})

	v.SetDefault("output.previews", true)
	v.SetDefault("output.room_json", false)
	v.SetDefault("output.objects", true)
	v.SetDefault("output.rdr", true)
	v.SetDefault("output.classify_openings", true)
}

// Load unmarshals the configuration from Viper.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values the pipeline cannot work
// with. All violations are reported as *ConfigError.
func (c *Config) Validate() error {
	if c.Arch.ScaleFactor <= 0 {
		return &ConfigError{Field: "arch.scale_factor", Reason: "must be > 0"}
	}
	if len(c.Labels.RoomTypes) == 0 {
		return &ConfigError{Field: "labels.room_types", Reason: "must not be empty"}
	}
	seen := make(map[string]struct{}, len(c.Labels.RoomTypes))
	for _, label := range c.Labels.RoomTypes {
		if label == "" {
			return &ConfigError{Field: "labels.room_types", Reason: "contains an empty label"}
		}
		if _, dup := seen[label]; dup {
			return &ConfigError{Field: "labels.room_types", Reason: fmt.Sprintf("duplicate label %q", label)}
		}
		seen[label] = struct{}{}
	}
	if c.Labels.UnknownLabel == "" {
		return &ConfigError{Field: "labels.unknown_label", Reason: "must not be empty"}
	}
	if c.Parser.CornerSnapTolerance < 0 {
		return &ConfigError{Field: "parser.corner_snap_tolerance", Reason: "must be >= 0"}
	}
	if c.Parser.OpeningMatchTolerance < 0 {
		return &ConfigError{Field: "parser.opening_match_tolerance", Reason: "must be >= 0"}
	}
	if c.Parser.WallJoinMargin < 0 {
		return &ConfigError{Field: "parser.wall_join_margin", Reason: "must be >= 0"}
	}
	if c.Parser.FaceWalkMaxSteps <= 0 {
		return &ConfigError{Field: "parser.face_walk_max_steps", Reason: "must be > 0"}
	}
	if c.Parser.RoomLabelOverlap < 0 || c.Parser.RoomLabelOverlap > 1 {
		return &ConfigError{Field: "parser.room_label_overlap", Reason: "must be in [0, 1]"}
	}
	if c.Arch.DefaultWallThickness <= 0 {
		return &ConfigError{Field: "arch.default_wall_thickness", Reason: "must be > 0"}
	}
	return nil
}
