package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is a physical length unit accepted for monitor measurements
// and viewer distances. All internal math is done in millimeters.
type Unit int

const (
	Millimeters Unit = iota
	Centimeters
	Meters
	Inches
	Feet
)

// DegreeSign is appended to formatted angle values.
const DegreeSign = "°"

// millimeters per one inch / foot (exact definitions).
const (
	mmPerInch = 25.4
	mmPerFoot = 304.8
)

// Parse converts a unit name (short or long, singular or plural)
// into a Unit. Matching is case-insensitive.
func Parse(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mm", "millimeter", "millimeters":
		return Millimeters, nil
	case "cm", "centimeter", "centimeters":
		return Centimeters, nil
	case "m", "meter", "meters":
		return Meters, nil
	case "in", "inch", "inches":
		return Inches, nil
	case "ft", "foot", "feet":
		return Feet, nil
	default:
		return Millimeters, fmt.Errorf("unknown unit: %q", s)
	}
}

// String returns the short name of the unit ("mm", "cm", "m", "in", "ft").
func (u Unit) String() string {
	switch u {
	case Millimeters:
		return "mm"
	case Centimeters:
		return "cm"
	case Meters:
		return "m"
	case Inches:
		return "in"
	case Feet:
		return "ft"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// Name returns the long plural name of the unit.
func (u Unit) Name() string {
	switch u {
	case Millimeters:
		return "millimeters"
	case Centimeters:
		return "centimeters"
	case Meters:
		return "meters"
	case Inches:
		return "inches"
	case Feet:
		return "feet"
	default:
		return u.String()
	}
}

// Millimeters returns the length of one of this unit in millimeters.
func (u Unit) Millimeters() float64 {
	switch u {
	case Millimeters:
		return 1
	case Centimeters:
		return 10
	case Meters:
		return 1000
	case Inches:
		return mmPerInch
	case Feet:
		return mmPerFoot
	default:
		return 1
	}
}

// ToMillimeters converts a value expressed in the given unit to millimeters.
func ToMillimeters(val float64, u Unit) float64 {
	return val * u.Millimeters()
}

// FromMillimeters converts a value in millimeters to the given unit.
func FromMillimeters(mm float64, u Unit) float64 {
	return mm / u.Millimeters()
}

// Convert re-expresses a value of unit `from` in unit `to`.
func Convert(val float64, from, to Unit) float64 {
	return val * from.Millimeters() / to.Millimeters()
}

// Scale maps real-world lengths to application (game/engine) units.
// The zero value is unusable; construct with NewScale.
type Scale struct {
	appPerMillimeter float64
}

// NewScale builds a scale from "appUnits application units per one `per`".
// For example NewScale(1, Meters) means one application unit is one meter.
func NewScale(appUnits float64, per Unit) (Scale, error) {
	if math.IsNaN(appUnits) || math.IsInf(appUnits, 0) || appUnits <= 0 {
		return Scale{}, fmt.Errorf("application units per %s must be a positive finite number, got %g", per.Name(), appUnits)
	}
	return Scale{appPerMillimeter: appUnits / per.Millimeters()}, nil
}

// AppUnits converts a real length in millimeters to application units.
func (s Scale) AppUnits(mm float64) float64 {
	return mm * s.appPerMillimeter
}

// RealLength converts a length in application units back to a real
// length expressed in the given unit.
func (s Scale) RealLength(appUnits float64, in Unit) float64 {
	return FromMillimeters(appUnits/s.appPerMillimeter, in)
}

// AppPerUnit returns how many application units one `per` is.
func (s Scale) AppPerUnit(per Unit) float64 {
	return s.appPerMillimeter * per.Millimeters()
}

// FormatValue renders a float with up to three decimals, trailing zeros
// trimmed. NaN and infinities get sentinel strings instead of garbage.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "<error>"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	formatted := strconv.FormatFloat(v, 'f', 3, 64)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimSuffix(formatted, ".")
	return formatted
}

// FormatAngle renders an angle in degrees with the degree sign.
func FormatAngle(deg float64) string {
	return FormatValue(deg) + DegreeSign
}
