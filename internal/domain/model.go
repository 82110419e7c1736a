package domain

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Ability is the surfer's self-reported skill level.
type Ability string

const (
	Beginner     Ability = "beginner"
	Intermediate Ability = "intermediate"
	Advanced     Ability = "advanced"
)

// ParseAbility maps free-form input to an Ability. Anything unrecognized is
// treated as intermediate.
func ParseAbility(s string) Ability {
	switch a := Ability(strings.ToLower(strings.TrimSpace(s))); a {
	case Beginner, Intermediate, Advanced:
		return a
	default:
		return Intermediate
	}
}

// BoardType is the coarse surfboard category driving the length range.
type BoardType string

const (
	Longboard  BoardType = "Longboard"
	Midlength  BoardType = "Midlength"
	Shortboard BoardType = "Shortboard"
	StepUp     BoardType = "Step-up"
	AllAround  BoardType = "All-around"
)

// BodyMeasurement is a validated height and weight in canonical units.
type BodyMeasurement struct {
	HeightCm float64 `json:"heightCm"`
	WeightKg float64 `json:"weightKg"`
}

// Conditions is the live-conditions input to the engine. Missing readings
// are NaN. SpotExposure is nil when the spot has no exposure rating.
type Conditions struct {
	WaveHeightFt float64
	PeriodS      float64
	WindKts      float64
	SpotExposure *float64
}

// Usable reports whether wave height, period and wind are all finite.
func (c *Conditions) Usable() bool {
	return c != nil && isFinite(c.WaveHeightFt) && isFinite(c.PeriodS) && isFinite(c.WindKts)
}

// Exposure returns the spot exposure multiplier clamped to [0.6, 1.25],
// defaulting to 1.0.
func (c *Conditions) Exposure() float64 {
	if c == nil || c.SpotExposure == nil || math.IsNaN(*c.SpotExposure) {
		return 1.0
	}
	return clamp(*c.SpotExposure, minExposure, maxExposure)
}

type conditionsJSON struct {
	WaveHeightFt *float64 `json:"waveHeightFt"`
	PeriodS      *float64 `json:"periodS"`
	WindKts      *float64 `json:"windKts"`
	SpotExposure *float64 `json:"spotExposure,omitempty"`
}

// MarshalJSON encodes missing (NaN) readings as null.
func (c Conditions) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionsJSON{
		WaveHeightFt: finiteOrNil(c.WaveHeightFt),
		PeriodS:      finiteOrNil(c.PeriodS),
		WindKts:      finiteOrNil(c.WindKts),
		SpotExposure: c.SpotExposure,
	})
}

// UnmarshalJSON decodes null or absent readings as NaN.
func (c *Conditions) UnmarshalJSON(data []byte) error {
	var raw conditionsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.WaveHeightFt = nanIfNil(raw.WaveHeightFt)
	c.PeriodS = nanIfNil(raw.PeriodS)
	c.WindKts = nanIfNil(raw.WindKts)
	c.SpotExposure = raw.SpotExposure
	return nil
}

// Recommendation is the engine output. Volume fields hold whole liters; they
// stay float64 so a NaN weight propagates instead of silently becoming zero.
type Recommendation struct {
	BoardType       BoardType `json:"boardType"`
	IsExtreme       bool      `json:"isExtreme"`
	LengthMinCm     float64   `json:"lengthMinCm"`
	LengthMaxCm     float64   `json:"lengthMaxCm"`
	LengthMinHuman  string    `json:"lengthMinHuman"`
	LengthMaxHuman  string    `json:"lengthMaxHuman"`
	VolumeMinL      float64   `json:"volumeMinL"`
	VolumeMaxL      float64   `json:"volumeMaxL"`
	VolumeShortMinL float64   `json:"volumeShortMinL"`
	VolumeShortMaxL float64   `json:"volumeShortMaxL"`
}

// Renderable reports whether every numeric field is finite.
func (r Recommendation) Renderable() bool {
	for _, v := range []float64{r.LengthMinCm, r.LengthMaxCm, r.VolumeMinL, r.VolumeMaxL, r.VolumeShortMinL, r.VolumeShortMaxL} {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Observation is a single NDBC buoy reading. Nil fields were not reported.
type Observation struct {
	Station         string    `json:"station"`
	ObservedAt      time.Time `json:"observedAt"`
	WaveHeightM     *float64  `json:"significantWaveHeightM"`
	DominantPeriodS *float64  `json:"dominantPeriodS"`
	WaveDirDeg      *float64  `json:"waveDirectionDeg"`
	WindSpeedMS     *float64  `json:"windSpeedMS"`
	WindGustMS      *float64  `json:"windGustMS"`
	WindDirDeg      *float64  `json:"windDirectionDeg"`
	WaterTempC      *float64  `json:"waterTempC"`
}

// MarineSample is one hour of the marine forecast. Missing values are NaN.
type MarineSample struct {
	Time              time.Time
	WaveHeightM       float64
	WavePeriodS       float64
	WindWaveHeightM   float64
	WindWavePeriodS   float64
	WindWaveDirection float64
	TideHeightM       float64
}

// WeatherPoint is a current or hourly weather reading. Missing values are NaN.
type WeatherPoint struct {
	Time            time.Time
	WindSpeedMS     float64
	WindDirDeg      float64
	TemperatureC    float64
	PrecipitationMM float64
}

// WeatherReport holds current and hourly weather for a coordinate.
type WeatherReport struct {
	Current WeatherPoint
	Hourly  []WeatherPoint
}

// Place is the region portion of a reverse-geocode result.
type Place struct {
	CountryCode string `json:"countryCode,omitempty"`
	State       string `json:"state,omitempty"`
	StateCode   string `json:"stateCode,omitempty"`
}

// Empty reports whether the geocoder returned no usable region.
func (p Place) Empty() bool {
	return p.CountryCode == "" && p.State == "" && p.StateCode == ""
}

// Spot is a surf break with its nearest NDBC station.
type Spot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Region   string  `json:"region"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Station  string  `json:"station"`
	Exposure float64 `json:"exposure"`
}

// ConditionsSnapshot is the latest derived conditions for a station.
type ConditionsSnapshot struct {
	ID         string     `json:"id"`
	Station    string     `json:"station"`
	SpotID     string     `json:"spotId,omitempty"`
	ObservedAt time.Time  `json:"observedAt"`
	FetchedAt  time.Time  `json:"fetchedAt"`
	Conditions Conditions `json:"conditions"`
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOrNil(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}

func nanIfNil(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
