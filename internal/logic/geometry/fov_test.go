package geometry

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 0.01 // tolerance for float comparisons (degrees)

func newSetup(widthMm, heightMm, distanceMm float64) Setup {
	return Setup{
		Dimensions: Dimensions{WidthMm: widthMm, HeightMm: heightMm},
		DistanceMm: distanceMm,
	}
}

func TestNewCalculator_Valid(t *testing.T) {
	calc, err := NewCalculator(newSetup(600, 340, 700))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calc == nil {
		t.Fatal("expected non-nil calculator")
	}
}

func TestNewCalculator_InvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		w, h, d float64
	}{
		{"zero_width", 0, 340, 700},
		{"zero_height", 600, 0, 700},
		{"zero_distance", 600, 340, 0},
		{"negative_width", -600, 340, 700},
		{"negative_height", 600, -340, 700},
		{"negative_distance", 600, 340, -700},
		{"nan_width", math.NaN(), 340, 700},
		{"nan_distance", 600, 340, math.NaN()},
		{"inf_width", math.Inf(1), 340, 700},
		{"inf_distance", 600, 340, math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCalculator(newSetup(tc.w, tc.h, tc.d))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error %v should wrap ErrInvalidInput", err)
			}
		})
	}
}

// Reference: 600x340 mm monitor viewed from 700 mm.
// HorizontalFOV = 2 * atan(300/700) * 180/pi ~ 46.40 deg
// VerticalFOV   = 2 * atan(170/700) * 180/pi ~ 27.31 deg
func TestPortalFOV_Reference600x340At700(t *testing.T) {
	calc, _ := NewCalculator(newSetup(600, 340, 700))
	got := calc.PortalFOV()

	wantH := 2.0 * math.Atan(300.0/700.0) * 180.0 / math.Pi
	wantV := 2.0 * math.Atan(170.0/700.0) * 180.0 / math.Pi

	if math.Abs(got.HorizontalDeg-wantH) > epsilon {
		t.Errorf("HorizontalDeg = %v, want ~%v", got.HorizontalDeg, wantH)
	}
	if math.Abs(got.VerticalDeg-wantV) > epsilon {
		t.Errorf("VerticalDeg = %v, want ~%v", got.VerticalDeg, wantV)
	}
	if math.Abs(got.HorizontalDeg-46.40) > epsilon {
		t.Errorf("HorizontalDeg = %v, want ~46.40", got.HorizontalDeg)
	}
	if math.Abs(got.VerticalDeg-27.31) > epsilon {
		t.Errorf("VerticalDeg = %v, want ~27.31", got.VerticalDeg)
	}
	if math.Abs(got.Aspect-600.0/340.0) > epsilon {
		t.Errorf("Aspect = %v, want %v", got.Aspect, 600.0/340.0)
	}
}

func TestPortalFOV_DecreasesWithDistance(t *testing.T) {
	near, _ := NewCalculator(newSetup(600, 340, 700))
	far, _ := NewCalculator(newSetup(600, 340, 1400))

	if near.PortalFOV().HorizontalDeg <= far.PortalFOV().HorizontalDeg {
		t.Errorf("FOV at 700mm (%v) should be larger than at 1400mm (%v)",
			near.PortalFOV().HorizontalDeg, far.PortalFOV().HorizontalDeg)
	}
	if near.PortalFOV().VerticalDeg <= far.PortalFOV().VerticalDeg {
		t.Errorf("vertical FOV at 700mm (%v) should be larger than at 1400mm (%v)",
			near.PortalFOV().VerticalDeg, far.PortalFOV().VerticalDeg)
	}
}

func TestPortalFOV_IncreasesWithWidth(t *testing.T) {
	narrow, _ := NewCalculator(newSetup(600, 340, 700))
	wide, _ := NewCalculator(newSetup(1200, 340, 700))

	if wide.PortalFOV().HorizontalDeg <= narrow.PortalFOV().HorizontalDeg {
		t.Errorf("1200mm wide FOV (%v) should be larger than 600mm wide FOV (%v)",
			wide.PortalFOV().HorizontalDeg, narrow.PortalFOV().HorizontalDeg)
	}
}

func TestPortalFOV_NeverNaN_TinyDistance(t *testing.T) {
	// Distance vanishingly small relative to screen size: the angle
	// approaches 180 degrees but must stay a real number.
	calc, err := NewCalculator(newSetup(600, 340, 1e-9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := calc.PortalFOV()
	if math.IsNaN(got.HorizontalDeg) || math.IsNaN(got.VerticalDeg) {
		t.Fatalf("FOV must not be NaN, got h=%v v=%v", got.HorizontalDeg, got.VerticalDeg)
	}
	if got.HorizontalDeg >= 180 || got.HorizontalDeg <= 179 {
		t.Errorf("HorizontalDeg = %v, want just under 180", got.HorizontalDeg)
	}
}

// ---------- FocusedFOV ----------

func TestFocusedFOV_EyeRelativeAtViewerDistance_EqualsPortal(t *testing.T) {
	calc, _ := NewCalculator(newSetup(600, 340, 700))
	portal := calc.PortalFOV()

	focused, err := calc.FocusedFOV(700, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(focused.HorizontalDeg-portal.HorizontalDeg) > epsilon {
		t.Errorf("focused horizontal = %v, want portal %v", focused.HorizontalDeg, portal.HorizontalDeg)
	}
	if math.Abs(focused.VerticalDeg-portal.VerticalDeg) > epsilon {
		t.Errorf("focused vertical = %v, want portal %v", focused.VerticalDeg, portal.VerticalDeg)
	}
	if math.Abs(focused.ScaleFactor-1.0) > epsilon {
		t.Errorf("ScaleFactor = %v, want 1.0 at the degenerate case", focused.ScaleFactor)
	}
}

func TestFocusedFOV_MonitorRelative_Formula(t *testing.T) {
	// 10 m of accurate scale past the monitor surface.
	calc, _ := NewCalculator(newSetup(600, 340, 700))
	got, err := calc.FocusedFOV(10000, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// half-extent visible at eye distance ref+d, reprojected over ref
	wantH := 2.0 * math.Atan((300.0/700.0)*10700.0/10000.0) * 180.0 / math.Pi
	wantV := 2.0 * math.Atan((170.0/700.0)*10700.0/10000.0) * 180.0 / math.Pi

	if math.Abs(got.HorizontalDeg-wantH) > epsilon {
		t.Errorf("HorizontalDeg = %v, want ~%v", got.HorizontalDeg, wantH)
	}
	if math.Abs(got.VerticalDeg-wantV) > epsilon {
		t.Errorf("VerticalDeg = %v, want ~%v", got.VerticalDeg, wantV)
	}
	if math.Abs(got.ScaleFactor-1.07) > epsilon {
		t.Errorf("ScaleFactor = %v, want 1.07", got.ScaleFactor)
	}
}

func TestFocusedFOV_MonitorRelative_WiderThanPortal(t *testing.T) {
	calc, _ := NewCalculator(newSetup(600, 340, 700))
	portal := calc.PortalFOV()
	focused, err := calc.FocusedFOV(5000, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if focused.HorizontalDeg <= portal.HorizontalDeg {
		t.Errorf("monitor-relative focused FOV (%v) should be wider than portal (%v)",
			focused.HorizontalDeg, portal.HorizontalDeg)
	}
}

func TestFocusedFOV_InvalidReference(t *testing.T) {
	calc, _ := NewCalculator(newSetup(600, 340, 700))
	for _, ref := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := calc.FocusedFOV(ref, true); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("FocusedFOV(%v): expected ErrInvalidInput, got %v", ref, err)
		}
	}
}

// ---------- WidthForFOV ----------

func TestWidthForFOV_RoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		widthMm float64
	}{
		{"narrow_300", 300},
		{"reference_600", 600},
		{"ultrawide_1200", 1200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calc, _ := NewCalculator(newSetup(tc.widthMm, 340, 700))
			fov := calc.PortalFOV().HorizontalDeg
			got, err := calc.WidthForFOV(fov)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tc.widthMm) > epsilon {
				t.Errorf("WidthForFOV(%v) = %v, want %v", fov, got, tc.widthMm)
			}
		})
	}
}

func TestWidthForFOV_InvalidAngle(t *testing.T) {
	calc, _ := NewCalculator(newSetup(600, 340, 700))
	for _, deg := range []float64{0, -10, 180, 360, math.NaN(), math.Inf(1)} {
		if _, err := calc.WidthForFOV(deg); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("WidthForFOV(%v): expected ErrInvalidInput, got %v", deg, err)
		}
	}
}
