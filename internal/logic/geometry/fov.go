package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is wrapped by every validation failure in this package:
// a length, distance, or ratio that is non-positive or non-finite.
// Callers can detect it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Setup describes the physical viewing arrangement: the monitor panel
// and the distance from the viewer's eye to the screen plane.
type Setup struct {
	Dimensions Dimensions
	DistanceMm float64
}

// Result holds computed field of view angles in degrees, plus the
// aspect ratio they were derived from.
type Result struct {
	HorizontalDeg float64
	VerticalDeg   float64
	Aspect        float64
}

// FocusedResult is a Result with the zoom-equivalent magnification
// relative to portal-like mode. A ScaleFactor of 1.0 means the two
// modes coincide; above 1.0 the focused FOV is wider.
type FocusedResult struct {
	Result
	ScaleFactor float64
}

// Calculator computes field of view angles for a validated monitor setup.
type Calculator struct {
	setup Setup
}

// NewCalculator validates the setup and returns a calculator.
// All lengths must be positive and finite.
func NewCalculator(setup Setup) (*Calculator, error) {
	if err := checkLength("width_mm", setup.Dimensions.WidthMm); err != nil {
		return nil, err
	}
	if err := checkLength("height_mm", setup.Dimensions.HeightMm); err != nil {
		return nil, err
	}
	if err := checkLength("distance_mm", setup.DistanceMm); err != nil {
		return nil, err
	}
	return &Calculator{setup: setup}, nil
}

// Setup returns the validated setup the calculator was built from.
func (c *Calculator) Setup() Setup {
	return c.setup
}

// PortalFOV calculates the field of view that makes the screen subtend
// the same angle virtually as it does physically, so it appears as a
// window into the rendered world.
// Formula: FOV = 2 × arctan(size / (2 × distance)), per axis.
func (c *Calculator) PortalFOV() Result {
	w := c.setup.Dimensions.WidthMm
	h := c.setup.Dimensions.HeightMm
	d := c.setup.DistanceMm
	return Result{
		HorizontalDeg: 2.0 * math.Atan(w/(2.0*d)) * 180.0 / math.Pi,
		VerticalDeg:   2.0 * math.Atan(h/(2.0*d)) * 180.0 / math.Pi,
		Aspect:        c.setup.Dimensions.Aspect(),
	}
}

// FocusedFOV calculates the field of view that renders objects at the
// given reference distance in the 3D world with accurate real-world
// scale. The reference distance is measured from the monitor surface
// when relativeToMonitor is true, otherwise from the eye. With an
// eye-relative reference distance equal to the viewer distance this
// degenerates to PortalFOV.
//
// Derivation, per axis: the portal half-angle fixes the ratio
// (size/2)/distance; projecting that ray out to the eye-relative
// reference distance gives the half-extent accurately visible there,
// and the arctangent of that half-extent over the reference distance
// is the focused half-angle.
func (c *Calculator) FocusedFOV(referenceMm float64, relativeToMonitor bool) (FocusedResult, error) {
	if err := checkLength("reference_mm", referenceMm); err != nil {
		return FocusedResult{}, err
	}
	d := c.setup.DistanceMm
	distanceFromEye := referenceMm
	if relativeToMonitor {
		distanceFromEye = referenceMm + d
	}

	axis := func(sizeMm float64) float64 {
		baseHalf := math.Atan(sizeMm / (2.0 * d))
		halfExtentAtRef := math.Tan(baseHalf) * distanceFromEye
		return 2.0 * math.Atan(halfExtentAtRef/referenceMm) * 180.0 / math.Pi
	}

	return FocusedResult{
		Result: Result{
			HorizontalDeg: axis(c.setup.Dimensions.WidthMm),
			VerticalDeg:   axis(c.setup.Dimensions.HeightMm),
			Aspect:        c.setup.Dimensions.Aspect(),
		},
		ScaleFactor: distanceFromEye / referenceMm,
	}, nil
}

// WidthForFOV solves the portal formula backwards: the physical width
// that would produce the given horizontal FOV at the setup's distance.
// Formula: w = 2 × d × tan(FOV / 2).
func (c *Calculator) WidthForFOV(horizontalDeg float64) (float64, error) {
	if math.IsNaN(horizontalDeg) || math.IsInf(horizontalDeg, 0) || horizontalDeg <= 0 || horizontalDeg >= 180 {
		return 0, fmt.Errorf("%w: horizontal FOV must be between 0 and 180 degrees exclusive, got %g", ErrInvalidInput, horizontalDeg)
	}
	halfRad := horizontalDeg / 2.0 * math.Pi / 180.0
	return 2.0 * c.setup.DistanceMm * math.Tan(halfRad), nil
}

func checkLength(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be a positive finite length, got %g", ErrInvalidInput, name, v)
	}
	return nil
}
