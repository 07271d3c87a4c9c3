package geometry

import (
	"math"

	"github.com/cjeanneret/FovGo/internal/logic/units"
)

// AspectRatio pairs a numeric ratio with its conventional w:h form.
type AspectRatio struct {
	Ratio  float64
	Width  float64
	Height float64
}

// String returns the conventional "w:h" form, e.g. "16:9".
func (a AspectRatio) String() string {
	return units.FormatValue(a.Width) + ":" + units.FormatValue(a.Height)
}

// CommonAspectRatios lists commonly used monitor aspect ratios,
// most common first.
var CommonAspectRatios = []AspectRatio{
	{16.0 / 9.0, 16, 9},
	{16.0 / 10.0, 16, 10},
	{4.0 / 3.0, 4, 3},
	{5.0 / 4.0, 5, 4},
	{3.0 / 2.0, 3, 2},
	// Ultrawide
	{17.0 / 9.0, 17, 9},
	{21.0 / 9.0, 21, 9},
	{32.0 / 9.0, 32, 9},
	{1.0, 1, 1},
	{4.0, 4, 1},
}

// FindCommonAspectRatio looks up a common ratio within the given
// rounding tolerance of the measured ratio. The second return value
// reports whether a match was found.
func FindCommonAspectRatio(ratio, rounding float64) (AspectRatio, bool) {
	for _, a := range CommonAspectRatios {
		if math.Abs(ratio-a.Ratio) < rounding {
			return a, true
		}
	}
	return AspectRatio{}, false
}
