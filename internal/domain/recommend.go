package domain

import (
	"math"

	"github.com/couchcryptid/surf-buddy/internal/units"
)

// Body measurement and exposure bounds used for internal scaling. These are
// not input validation; see ParseBody for the rejection ranges.
const (
	minHeightCm = 120.0
	maxHeightCm = 220.0
	minWeightKg = 35.0
	maxWeightKg = 150.0
	minExposure = 0.6
	maxExposure = 1.25
)

// Heuristic thresholds. Energy is wave height (ft) scaled by period/10 s.
const (
	cleanWindKts      = 15.0
	heavyEnergy       = 6.5
	extremeEnergy     = 7.5
	extremeWaveFt     = 8.0
	longboardBelowFt  = 3.0
	midlengthBelowFt  = 5.0
	shortboardBelowFt = 7.0
	periodNormalizer  = 10.0
	heavyMinFactor    = 0.95
	heavyMaxFactor    = 0.98
	choppyMinFactor   = 1.05
	choppyMaxFactor   = 1.08
)

type fractionRange struct{ min, max float64 }

type volumeFractions struct {
	allAround fractionRange
	short     fractionRange
}

// Liters of board volume per kilogram of body weight.
var volumeTable = map[Ability]volumeFractions{
	Beginner:     {allAround: fractionRange{0.65, 0.85}, short: fractionRange{0.45, 0.58}},
	Intermediate: {allAround: fractionRange{0.55, 0.72}, short: fractionRange{0.38, 0.50}},
	Advanced:     {allAround: fractionRange{0.48, 0.65}, short: fractionRange{0.34, 0.45}},
}

type lengthOffset struct{ min, max float64 }

// Centimeters added to the surfer's height. Board types without an entry use
// defaultLengthOffset.
var lengthTable = map[BoardType]lengthOffset{
	Longboard:  {35, 55},
	Shortboard: {-5, 10},
	StepUp:     {10, 30},
}

var defaultLengthOffset = lengthOffset{10, 25}

// Board types an ability level is moved off of. Advanced never downgrades.
var downgrades = map[Ability]map[BoardType]BoardType{
	Beginner: {
		Shortboard: Midlength,
		StepUp:     Midlength,
	},
	Intermediate: {
		StepUp: Shortboard,
	},
}

// Recommend computes board type, length and volume ranges for a surfer.
// Conditions may be nil; unusable conditions behave exactly like nil.
// The function is pure and never fails; NaN inputs propagate to NaN outputs.
func Recommend(heightCm, weightKg float64, ability Ability, cond *Conditions) Recommendation {
	h := clamp(heightCm, minHeightCm, maxHeightCm)
	w := clamp(weightKg, minWeightKg, maxWeightKg)

	hasForecast := cond.Usable()

	var waveFt, energy float64
	var isClean bool
	if hasForecast {
		waveFt = cond.WaveHeightFt * cond.Exposure()
		energy = waveFt * (cond.PeriodS / periodNormalizer)
		isClean = cond.WindKts <= cleanWindKts
	}
	isHeavy := hasForecast && energy >= heavyEnergy && isClean
	isExtreme := hasForecast && (waveFt >= extremeWaveFt || (energy >= extremeEnergy && isClean))

	board := AllAround
	if hasForecast {
		board = boardForWave(waveFt)
		if to, ok := downgrades[ability][board]; ok {
			board = to
		}
	}

	fr, ok := volumeTable[ability]
	if !ok {
		fr = volumeTable[Intermediate]
	}
	volMin := w * fr.allAround.min
	volMax := w * fr.allAround.max
	if isHeavy {
		volMin *= heavyMinFactor
		volMax *= heavyMaxFactor
	}
	if hasForecast && !isClean {
		volMin *= choppyMinFactor
		volMax *= choppyMaxFactor
	}

	off, ok := lengthTable[board]
	if !ok {
		off = defaultLengthOffset
	}
	lenMin := h + off.min
	lenMax := h + off.max

	return Recommendation{
		BoardType:       board,
		IsExtreme:       isExtreme,
		LengthMinCm:     lenMin,
		LengthMaxCm:     lenMax,
		LengthMinHuman:  units.FormatFeetInches(lenMin),
		LengthMaxHuman:  units.FormatFeetInches(lenMax),
		VolumeMinL:      math.Round(volMin),
		VolumeMaxL:      math.Round(volMax),
		VolumeShortMinL: math.Round(w * fr.short.min),
		VolumeShortMaxL: math.Round(w * fr.short.max),
	}
}

func boardForWave(waveFt float64) BoardType {
	switch {
	case waveFt < longboardBelowFt:
		return Longboard
	case waveFt < midlengthBelowFt:
		return Midlength
	case waveFt < shortboardBelowFt:
		return Shortboard
	default:
		return StepUp
	}
}
