package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/surf-buddy/internal/units"
)

// Plausible human ranges. Values outside are rejected before the engine runs,
// which is different from the engine's own clamp.
const (
	plausibleMinHeightCm = 90.0
	plausibleMaxHeightCm = 250.0
	plausibleMinWeightKg = 25.0
	plausibleMaxWeightKg = 250.0
)

// ParseBody converts raw height and weight text with their unit tags into a
// BodyMeasurement. Errors wrap ErrInputInvalid or ErrInputOutOfRange and name
// the offending field.
func ParseBody(rawHeight string, heightUnit units.LengthUnit, rawWeight string, weightUnit units.MassUnit) (BodyMeasurement, error) {
	h := units.ToCentimeters(parseNumber(rawHeight), heightUnit)
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return BodyMeasurement{}, fmt.Errorf("height %q %s: %w", rawHeight, heightUnit, ErrInputInvalid)
	}
	w := units.ToKilograms(parseNumber(rawWeight), weightUnit)
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return BodyMeasurement{}, fmt.Errorf("weight %q %s: %w", rawWeight, weightUnit, ErrInputInvalid)
	}

	if h < plausibleMinHeightCm || h > plausibleMaxHeightCm {
		return BodyMeasurement{}, fmt.Errorf("height %.1f cm: %w", h, ErrInputOutOfRange)
	}
	if w < plausibleMinWeightKg || w > plausibleMaxWeightKg {
		return BodyMeasurement{}, fmt.Errorf("weight %.1f kg: %w", w, ErrInputOutOfRange)
	}
	return BodyMeasurement{HeightCm: h, WeightKg: w}, nil
}

// parseNumber returns NaN for anything that is not a plain decimal number.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
