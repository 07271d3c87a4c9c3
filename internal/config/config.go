package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cjeanneret/FovGo/internal/logic/units"
)

// MonitorConfig describes the physical monitor panel. Either width+height
// or diagonal+aspect must be given; width+height wins when both are set.
type MonitorConfig struct {
	WidthMm    float64 `yaml:"width_mm"`
	HeightMm   float64 `yaml:"height_mm"`
	DiagonalMm float64 `yaml:"diagonal_mm"`
	Aspect     float64 `yaml:"aspect"` // width / height
}

// ViewerConfig describes where the viewer sits.
type ViewerConfig struct {
	DistanceMm float64 `yaml:"distance_mm"` // eye to screen plane
}

// FocusedConfig holds defaults for focused-mode calculations.
type FocusedConfig struct {
	ReferenceDistanceMm float64 `yaml:"reference_distance_mm"` // accurate-scale distance
	RelativeTo          string  `yaml:"relative_to"`           // "monitor" or "eye"
}

// UnitsConfig selects the display unit and the application unit scale.
type UnitsConfig struct {
	Display          string  `yaml:"display"`             // e.g. "mm", "cm", "m", "in", "ft"
	AppUnitsPerMeter float64 `yaml:"app_units_per_meter"` // game/engine units per real meter
}

// HistoryConfig controls the calculation history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	Mode       string `yaml:"mode"`        // default calculation mode: "portal" or "focused"
	DebugLevel int    `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
}

// Config aggregates all application configuration.
type Config struct {
	Monitor  MonitorConfig  `yaml:"monitor"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Focused  FocusedConfig  `yaml:"focused"`
	Units    UnitsConfig    `yaml:"units"`
	History  HistoryConfig  `yaml:"history"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Basic validation
	if err := checkOptionalLength("monitor.width_mm", cfg.Monitor.WidthMm); err != nil {
		return nil, err
	}
	if err := checkOptionalLength("monitor.height_mm", cfg.Monitor.HeightMm); err != nil {
		return nil, err
	}
	if err := checkOptionalLength("monitor.diagonal_mm", cfg.Monitor.DiagonalMm); err != nil {
		return nil, err
	}
	if err := checkOptionalLength("monitor.aspect", cfg.Monitor.Aspect); err != nil {
		return nil, err
	}
	if err := checkOptionalLength("viewer.distance_mm", cfg.Viewer.DistanceMm); err != nil {
		return nil, err
	}

	if cfg.Focused.ReferenceDistanceMm == 0 {
		cfg.Focused.ReferenceDistanceMm = 10000 // 10 m is a sensible in-world default
	}
	if err := checkOptionalLength("focused.reference_distance_mm", cfg.Focused.ReferenceDistanceMm); err != nil {
		return nil, err
	}
	switch cfg.Focused.RelativeTo {
	case "":
		cfg.Focused.RelativeTo = "monitor" // matches the original tool's behavior
	case "monitor", "eye":
	default:
		return nil, fmt.Errorf("focused.relative_to must be \"monitor\" or \"eye\", got %q", cfg.Focused.RelativeTo)
	}

	if cfg.Units.Display == "" {
		cfg.Units.Display = "mm"
	}
	if _, err := units.Parse(cfg.Units.Display); err != nil {
		return nil, fmt.Errorf("units.display: %w", err)
	}
	if cfg.Units.AppUnitsPerMeter == 0 {
		cfg.Units.AppUnitsPerMeter = 1
	}
	if err := checkOptionalLength("units.app_units_per_meter", cfg.Units.AppUnitsPerMeter); err != nil {
		return nil, err
	}

	if cfg.History.Enabled && cfg.History.Path == "" {
		cfg.History.Path = "fovgo.db"
	}

	switch cfg.Defaults.Mode {
	case "":
		cfg.Defaults.Mode = "portal"
	case "portal", "focused":
	default:
		return nil, fmt.Errorf("defaults.mode must be \"portal\" or \"focused\", got %q", cfg.Defaults.Mode)
	}
	if cfg.Defaults.DebugLevel < 0 || cfg.Defaults.DebugLevel > 4 {
		return nil, fmt.Errorf("debug_level must be between 0 and 4, got %d", cfg.Defaults.DebugLevel)
	}

	return &cfg, nil
}

// DisplayUnit returns the parsed display unit.
func (c *Config) DisplayUnit() units.Unit {
	u, err := units.Parse(c.Units.Display)
	if err != nil {
		return units.Millimeters
	}
	return u
}

// AppScale returns the application unit scale.
func (c *Config) AppScale() (units.Scale, error) {
	return units.NewScale(c.Units.AppUnitsPerMeter, units.Meters)
}

// ReferenceRelativeToMonitor reports whether the focused-mode reference
// distance is measured from the monitor surface rather than the eye.
func (c *Config) ReferenceRelativeToMonitor() bool {
	return c.Focused.RelativeTo == "monitor"
}

// checkOptionalLength rejects negative, NaN, and infinite values.
// Zero is allowed and means "not provided" (callers default or reject later).
func checkOptionalLength(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%s must be a non-negative finite number, got %g", name, v)
	}
	return nil
}
