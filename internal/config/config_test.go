package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cjeanneret/FovGo/internal/logic/units"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "default.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
monitor:
  width_mm: 600
  height_mm: 340
viewer:
  distance_mm: 700
focused:
  reference_distance_mm: 10000
  relative_to: monitor
units:
  display: cm
  app_units_per_meter: 1
history:
  enabled: true
  path: test.db
defaults:
  mode: portal
  debug_level: 1
`

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Monitor.WidthMm != 600 || cfg.Monitor.HeightMm != 340 {
		t.Errorf("monitor = %+v, want 600x340", cfg.Monitor)
	}
	if cfg.Viewer.DistanceMm != 700 {
		t.Errorf("distance = %v, want 700", cfg.Viewer.DistanceMm)
	}
	if cfg.DisplayUnit() != units.Centimeters {
		t.Errorf("display unit = %v, want cm", cfg.DisplayUnit())
	}
	if !cfg.ReferenceRelativeToMonitor() {
		t.Error("relative_to monitor should report true")
	}
	if cfg.History.Path != "test.db" {
		t.Errorf("history path = %q, want test.db", cfg.History.Path)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "monitor: [not a map")); err == nil {
		t.Error("expected error for malformed yaml, got nil")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "monitor:\n  width_mm: 600\n  height_mm: 340\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Focused.ReferenceDistanceMm != 10000 {
		t.Errorf("reference default = %v, want 10000", cfg.Focused.ReferenceDistanceMm)
	}
	if cfg.Focused.RelativeTo != "monitor" {
		t.Errorf("relative_to default = %q, want monitor", cfg.Focused.RelativeTo)
	}
	if cfg.Units.Display != "mm" {
		t.Errorf("display default = %q, want mm", cfg.Units.Display)
	}
	if cfg.Units.AppUnitsPerMeter != 1 {
		t.Errorf("app_units_per_meter default = %v, want 1", cfg.Units.AppUnitsPerMeter)
	}
	if cfg.Defaults.Mode != "portal" {
		t.Errorf("mode default = %q, want portal", cfg.Defaults.Mode)
	}
	if cfg.History.Enabled {
		t.Error("history should default to disabled")
	}
}

func TestLoad_HistoryPathDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, "history:\n  enabled: true\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.History.Path != "fovgo.db" {
		t.Errorf("history path default = %q, want fovgo.db", cfg.History.Path)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"negative_width", "monitor:\n  width_mm: -600\n"},
		{"negative_distance", "viewer:\n  distance_mm: -700\n"},
		{"negative_reference", "focused:\n  reference_distance_mm: -1\n"},
		{"bad_relative_to", "focused:\n  relative_to: keyboard\n"},
		{"bad_unit", "units:\n  display: furlongs\n"},
		{"negative_app_scale", "units:\n  app_units_per_meter: -2\n"},
		{"bad_mode", "defaults:\n  mode: cinematic\n"},
		{"debug_too_high", "defaults:\n  debug_level: 9\n"},
		{"debug_negative", "defaults:\n  debug_level: -1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.yaml)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestAppScale(t *testing.T) {
	cfg, err := Load(writeConfig(t, "units:\n  app_units_per_meter: 2\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scale, err := cfg.AppScale()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2 app units per meter: 500 mm is 1 app unit.
	if got := scale.AppUnits(500); got != 1 {
		t.Errorf("AppUnits(500) = %v, want 1", got)
	}
}
