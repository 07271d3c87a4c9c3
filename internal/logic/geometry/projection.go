package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Projection builds the perspective projection matrix for a camera
// rendering with this result's vertical FOV and aspect ratio, with the
// given near and far clip planes in world units.
func (r Result) Projection(near, far float64) (mgl64.Mat4, error) {
	if math.IsNaN(near) || math.IsInf(near, 0) || near <= 0 {
		return mgl64.Mat4{}, fmt.Errorf("%w: near plane must be a positive finite number, got %g", ErrInvalidInput, near)
	}
	if math.IsNaN(far) || math.IsInf(far, 0) || far <= near {
		return mgl64.Mat4{}, fmt.Errorf("%w: far plane must be finite and beyond the near plane, got %g", ErrInvalidInput, far)
	}
	return mgl64.Perspective(mgl64.DegToRad(r.VerticalDeg), r.Aspect, near, far), nil
}
