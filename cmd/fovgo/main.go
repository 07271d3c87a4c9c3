package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/cjeanneret/FovGo/internal/config"
	"github.com/cjeanneret/FovGo/internal/debug"
	"github.com/cjeanneret/FovGo/internal/logic/geometry"
	"github.com/cjeanneret/FovGo/internal/logic/units"
	"github.com/cjeanneret/FovGo/internal/store"
	"github.com/cjeanneret/FovGo/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	widthMm := flag.Float64("width_mm", 0, "override monitor width in mm")
	heightMm := flag.Float64("height_mm", 0, "override monitor height in mm")
	diagonalMm := flag.Float64("diagonal_mm", 0, "override monitor diagonal in mm (with -aspect)")
	aspect := flag.Float64("aspect", 0, "override monitor aspect ratio (width/height)")
	distanceMm := flag.Float64("distance_mm", 0, "override viewer distance in mm")
	mode := flag.String("mode", "", "override calculation mode: portal or focused")
	referenceMm := flag.Float64("reference_mm", 0, "override focused-mode reference distance in mm")
	relativeTo := flag.String("relative_to", "", "focused reference measured from: monitor or eye")
	unit := flag.String("unit", "", "override display unit: mm, cm, m, in, ft")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Validate CLI overrides (only non-zero values are applied; zero means "use config default")
	ov := overrides{
		WidthMm:     *widthMm,
		HeightMm:    *heightMm,
		DiagonalMm:  *diagonalMm,
		Aspect:      *aspect,
		DistanceMm:  *distanceMm,
		Mode:        *mode,
		ReferenceMm: *referenceMm,
		RelativeTo:  *relativeTo,
		Unit:        *unit,
	}
	if err := validateCLIOverrides(ov); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	applyOverrides(cfg, ov)

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)

	scale, err := cfg.AppScale()
	if err != nil {
		log.Fatalf("invalid application unit scale: %v", err)
	}

	// Open calculation history if enabled
	var history *store.DB
	if cfg.History.Enabled {
		debug.Step(1, "Opening history database")
		history, err = store.Open(cfg.History.Path)
		if err != nil {
			log.Fatalf("open history failed: %v", err)
		}
		defer func() {
			if err := history.Close(); err != nil {
				log.Printf("closing history failed: %v", err)
			}
		}()
		debug.Value("History path", cfg.History.Path)
	}

	if port := webPort.port(); port > 0 {
		webAddr := fmt.Sprintf(":%d", port)
		broadcaster := web.NewResultBroadcaster()
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))

		handlers := web.NewHandlers(broadcaster, history, formDefaults(cfg), scale, web.StaticFS())
		srv := web.NewServer(webAddr, handlers)
		if err := srv.Run(ctx); err != nil {
			log.Fatalf("web server: %v", err)
		}
		return
	}

	// Run one calculation with current config (already has CLI overrides applied)
	if err := runCalculation(cfg, scale, history); err != nil {
		log.Fatalf("calculation failed: %v", err)
	}
}

// runCalculation performs a single calculation from config values and
// prints the results, recording them to history when enabled.
func runCalculation(cfg *config.Config, scale units.Scale, history *store.DB) error {
	req := web.CalcRequest{
		WidthMm:     cfg.Monitor.WidthMm,
		HeightMm:    cfg.Monitor.HeightMm,
		DiagonalMm:  cfg.Monitor.DiagonalMm,
		Aspect:      cfg.Monitor.Aspect,
		DistanceMm:  cfg.Viewer.DistanceMm,
		Mode:        cfg.Defaults.Mode,
		ReferenceMm: cfg.Focused.ReferenceDistanceMm,
		RelativeTo:  cfg.Focused.RelativeTo,
	}
	debug.Step(2, "Calculating field of view")
	debug.PrintStruct("Request", req)

	resp, err := web.Compute(req, scale)
	if err != nil {
		return err
	}
	dims, err := geometry.ResolveDimensions(req.WidthMm, req.HeightMm, req.DiagonalMm, req.Aspect)
	if err != nil {
		return err
	}
	debug.Monitor(dims.WidthMm, dims.HeightMm)

	debug.Summary("Calculation Result")
	debug.Angle("Horizontal FOV", resp.HorizontalDeg)
	debug.Angle("Vertical FOV", resp.VerticalDeg)

	displayUnit := cfg.DisplayUnit()
	fmt.Printf("Field of view: %s horizontal, %s vertical\n",
		units.FormatAngle(resp.HorizontalDeg), units.FormatAngle(resp.VerticalDeg))
	if resp.AspectName != "" {
		fmt.Printf("Aspect ratio: %s (%s)\n", units.FormatValue(resp.Aspect), resp.AspectName)
	} else {
		fmt.Printf("Aspect ratio: %s\n", units.FormatValue(resp.Aspect))
	}
	switch resp.Mode {
	case "portal":
		moveBack := units.FromMillimeters(resp.MoveBackMm, displayUnit)
		fmt.Printf("Move the camera back %s %s (%s application units)\n",
			units.FormatValue(moveBack), displayUnit.Name(), units.FormatValue(resp.MoveBackApp))
	case "focused":
		fmt.Printf("Scale factor vs portal-like: %s\n", units.FormatValue(resp.ScaleFactor))
	}

	if history != nil {
		refMm := 0.0
		if resp.Mode == "focused" {
			refMm = req.ReferenceMm
		}
		rec := store.Calculation{
			Mode:          resp.Mode,
			WidthMm:       dims.WidthMm,
			HeightMm:      dims.HeightMm,
			DistanceMm:    cfg.Viewer.DistanceMm,
			ReferenceMm:   refMm,
			HorizontalDeg: resp.HorizontalDeg,
			VerticalDeg:   resp.VerticalDeg,
		}
		if _, err := history.Save(rec); err != nil {
			log.Printf("save history failed: %v", err)
		}
	}
	return nil
}

// overrides holds CLI override values. Zero/empty means "use config default".
type overrides struct {
	WidthMm     float64
	HeightMm    float64
	DiagonalMm  float64
	Aspect      float64
	DistanceMm  float64
	Mode        string
	ReferenceMm float64
	RelativeTo  string
	Unit        string
}

// validateCLIOverrides checks that non-zero CLI overrides are sane.
// Zero values are ignored (they mean "use config default").
func validateCLIOverrides(ov overrides) error {
	lengths := []struct {
		name string
		val  float64
	}{
		{"width_mm", ov.WidthMm},
		{"height_mm", ov.HeightMm},
		{"diagonal_mm", ov.DiagonalMm},
		{"aspect", ov.Aspect},
		{"distance_mm", ov.DistanceMm},
		{"reference_mm", ov.ReferenceMm},
	}
	for _, l := range lengths {
		if l.val == 0 {
			continue
		}
		if math.IsNaN(l.val) || math.IsInf(l.val, 0) || l.val < 0 {
			return fmt.Errorf("%s must be a positive finite number, got %g", l.name, l.val)
		}
	}
	switch ov.Mode {
	case "", "portal", "focused":
	default:
		return fmt.Errorf("mode must be portal or focused, got %q", ov.Mode)
	}
	switch ov.RelativeTo {
	case "", "monitor", "eye":
	default:
		return fmt.Errorf("relative_to must be monitor or eye, got %q", ov.RelativeTo)
	}
	if ov.Unit != "" {
		if _, err := units.Parse(ov.Unit); err != nil {
			return err
		}
	}
	return nil
}

// applyOverrides mutates cfg with overrides. Only non-zero values are applied.
func applyOverrides(cfg *config.Config, ov overrides) {
	if ov.WidthMm > 0 {
		cfg.Monitor.WidthMm = ov.WidthMm
	}
	if ov.HeightMm > 0 {
		cfg.Monitor.HeightMm = ov.HeightMm
	}
	if ov.DiagonalMm > 0 {
		cfg.Monitor.DiagonalMm = ov.DiagonalMm
	}
	if ov.Aspect > 0 {
		cfg.Monitor.Aspect = ov.Aspect
	}
	if ov.DistanceMm > 0 {
		cfg.Viewer.DistanceMm = ov.DistanceMm
	}
	if ov.Mode != "" {
		cfg.Defaults.Mode = ov.Mode
	}
	if ov.ReferenceMm > 0 {
		cfg.Focused.ReferenceDistanceMm = ov.ReferenceMm
	}
	if ov.RelativeTo != "" {
		cfg.Focused.RelativeTo = ov.RelativeTo
	}
	if ov.Unit != "" {
		cfg.Units.Display = ov.Unit
	}
}

// formDefaults builds web form defaults from config.
func formDefaults(cfg *config.Config) web.FormConfig {
	return web.FormConfig{
		WidthMm:          cfg.Monitor.WidthMm,
		HeightMm:         cfg.Monitor.HeightMm,
		DiagonalMm:       cfg.Monitor.DiagonalMm,
		Aspect:           cfg.Monitor.Aspect,
		DistanceMm:       cfg.Viewer.DistanceMm,
		ReferenceMm:      cfg.Focused.ReferenceDistanceMm,
		RelativeTo:       cfg.Focused.RelativeTo,
		Mode:             cfg.Defaults.Mode,
		DisplayUnit:      cfg.Units.Display,
		AppUnitsPerMeter: cfg.Units.AppUnitsPerMeter,
	}
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
