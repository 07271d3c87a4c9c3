package geometry

import (
	"fmt"
	"math"
)

// Dimensions holds the physical size of a monitor panel in millimeters.
type Dimensions struct {
	WidthMm  float64
	HeightMm float64
}

// NewDimensions validates a direct width/height measurement.
func NewDimensions(widthMm, heightMm float64) (Dimensions, error) {
	if err := checkLength("width_mm", widthMm); err != nil {
		return Dimensions{}, err
	}
	if err := checkLength("height_mm", heightMm); err != nil {
		return Dimensions{}, err
	}
	return Dimensions{WidthMm: widthMm, HeightMm: heightMm}, nil
}

// DimensionsFromDiagonal derives width and height from the diagonal
// length and the aspect ratio (width / height):
// height = diagonal / sqrt(aspect² + 1), width = height × aspect.
func DimensionsFromDiagonal(diagonalMm, aspect float64) (Dimensions, error) {
	if err := checkLength("diagonal_mm", diagonalMm); err != nil {
		return Dimensions{}, err
	}
	if math.IsNaN(aspect) || math.IsInf(aspect, 0) || aspect <= 0 {
		return Dimensions{}, fmt.Errorf("%w: aspect ratio must be a positive finite number, got %g", ErrInvalidInput, aspect)
	}
	height := diagonalMm / math.Sqrt(aspect*aspect+1.0)
	return Dimensions{WidthMm: height * aspect, HeightMm: height}, nil
}

// ResolveDimensions picks between direct and indirect measurements:
// width+height when both are set, otherwise diagonal+aspect.
// Values of zero mean "not provided".
func ResolveDimensions(widthMm, heightMm, diagonalMm, aspect float64) (Dimensions, error) {
	if widthMm != 0 || heightMm != 0 {
		return NewDimensions(widthMm, heightMm)
	}
	if diagonalMm != 0 || aspect != 0 {
		return DimensionsFromDiagonal(diagonalMm, aspect)
	}
	return Dimensions{}, fmt.Errorf("%w: monitor dimensions are required (width+height or diagonal+aspect)", ErrInvalidInput)
}

// Aspect returns the aspect ratio (width / height).
func (d Dimensions) Aspect() float64 {
	return d.WidthMm / d.HeightMm
}

// DiagonalMm returns the diagonal length via the Pythagorean theorem.
func (d Dimensions) DiagonalMm() float64 {
	return math.Sqrt(d.WidthMm*d.WidthMm + d.HeightMm*d.HeightMm)
}
