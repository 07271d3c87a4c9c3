package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestProjection_FocalScale(t *testing.T) {
	// For a perspective matrix, m[1][1] = 1/tan(fovy/2) and
	// m[0][0] = m[1][1]/aspect.
	res := Result{HorizontalDeg: 106.26, VerticalDeg: 90, Aspect: 16.0 / 9.0}
	m, err := res.Projection(0.1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantF := 1.0 / math.Tan(math.Pi/4.0) // fovy 90 deg
	if math.Abs(m.At(1, 1)-wantF) > epsilon {
		t.Errorf("m[1][1] = %v, want %v", m.At(1, 1), wantF)
	}
	if math.Abs(m.At(0, 0)-wantF/res.Aspect) > epsilon {
		t.Errorf("m[0][0] = %v, want %v", m.At(0, 0), wantF/res.Aspect)
	}
}

func TestProjection_FromPortalResult(t *testing.T) {
	calc, _ := NewCalculator(newSetup(600, 340, 700))
	res := calc.PortalFOV()
	m, err := res.Projection(0.1, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantF := 1.0 / math.Tan(res.VerticalDeg/2.0*math.Pi/180.0)
	if math.Abs(m.At(1, 1)-wantF) > epsilon {
		t.Errorf("m[1][1] = %v, want %v", m.At(1, 1), wantF)
	}
}

func TestProjection_InvalidPlanes(t *testing.T) {
	res := Result{HorizontalDeg: 90, VerticalDeg: 60, Aspect: 16.0 / 9.0}
	cases := []struct {
		name      string
		near, far float64
	}{
		{"zero_near", 0, 100},
		{"negative_near", -0.1, 100},
		{"far_before_near", 10, 1},
		{"far_equals_near", 10, 10},
		{"nan_near", math.NaN(), 100},
		{"inf_far", 0.1, math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := res.Projection(tc.near, tc.far); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
