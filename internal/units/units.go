// Package units converts user and upstream measurements into the canonical
// units the recommendation engine works in (centimeters, kilograms, feet of
// wave height, knots of wind).
//
// Conversions never return errors. An unrecognized unit or a NaN input yields
// NaN, which propagates through any later arithmetic and must be rejected by
// the caller before display.
package units

import (
	"fmt"
	"math"
	"strings"
)

// MassUnit tags a raw body-weight value.
type MassUnit string

const (
	Kilograms MassUnit = "kg"
	Pounds    MassUnit = "lb"
)

// LengthUnit tags a raw body-height value.
type LengthUnit string

const (
	Centimeters LengthUnit = "cm"
	Inches      LengthUnit = "in"
)

const (
	kgPerLb      = 0.45359237
	cmPerInch    = 2.54
	feetPerMeter = 3.28084
	ktsPerMS     = 1.94384449
)

// ParseMassUnit normalizes a user-supplied unit tag. Unknown tags are returned
// as-is so ToKilograms can map them to NaN.
func ParseMassUnit(s string) MassUnit {
	return MassUnit(strings.ToLower(strings.TrimSpace(s)))
}

// ParseLengthUnit normalizes a user-supplied unit tag.
func ParseLengthUnit(s string) LengthUnit {
	return LengthUnit(strings.ToLower(strings.TrimSpace(s)))
}

// ToKilograms converts a mass in the given unit to kilograms.
func ToKilograms(v float64, u MassUnit) float64 {
	switch u {
	case Kilograms:
		return v
	case Pounds:
		return v * kgPerLb
	default:
		return math.NaN()
	}
}

// ToCentimeters converts a length in the given unit to centimeters.
func ToCentimeters(v float64, u LengthUnit) float64 {
	switch u {
	case Centimeters:
		return v
	case Inches:
		return v * cmPerInch
	default:
		return math.NaN()
	}
}

// MetersToFeet converts a wave height in meters to feet.
func MetersToFeet(m float64) float64 {
	return m * feetPerMeter
}

// MetersPerSecondToKnots converts a wind speed in m/s to knots.
func MetersPerSecondToKnots(ms float64) float64 {
	return ms * ktsPerMS
}

// FormatFeetInches renders a length in centimeters as feet and inches, e.g.
// 182.88 -> 6'0". Non-finite input renders as the empty string.
func FormatFeetInches(cm float64) string {
	if math.IsNaN(cm) || math.IsInf(cm, 0) {
		return ""
	}
	totalIn := cm / cmPerInch
	feet := math.Floor(totalIn / 12)
	inches := math.Round(totalIn - feet*12)
	if inches == 12 {
		feet++
		inches = 0
	}
	return fmt.Sprintf("%d'%d\"", int(feet), int(inches))
}
