package domain

import (
	"math"
	"time"

	"github.com/couchcryptid/surf-buddy/internal/units"
)

// ConditionsFromObservation derives engine conditions from a buoy reading.
// Buoy wind is preferred; the weather report's current wind fills in when the
// buoy has no anemometer reading. A nil observation yields nil conditions.
// Exposure is attached only when positive.
func ConditionsFromObservation(obs *Observation, weather *WeatherReport, exposure float64) *Conditions {
	if obs == nil {
		return nil
	}

	windMS := nanIfNil(obs.WindSpeedMS)
	if math.IsNaN(windMS) && weather != nil {
		windMS = weather.Current.WindSpeedMS
	}

	c := &Conditions{
		WaveHeightFt: units.MetersToFeet(nanIfNil(obs.WaveHeightM)),
		PeriodS:      nanIfNil(obs.DominantPeriodS),
		WindKts:      units.MetersPerSecondToKnots(windMS),
	}
	if exposure > 0 {
		c.SpotExposure = &exposure
	}
	return c
}

// NewSnapshot derives a station snapshot from a buoy reading. Exposure is left
// unset because one station serves several spots; see ForSpot. A reading
// without a timestamp is stamped with fetchedAt.
func NewSnapshot(id string, obs Observation, weather *WeatherReport, fetchedAt time.Time) ConditionsSnapshot {
	observed := obs.ObservedAt
	if observed.IsZero() {
		observed = fetchedAt
	}
	return ConditionsSnapshot{
		ID:         id,
		Station:    obs.Station,
		ObservedAt: observed,
		FetchedAt:  fetchedAt,
		Conditions: *ConditionsFromObservation(&obs, weather, 0),
	}
}

// Fresh reports whether the snapshot was fetched no more than maxAge before now.
func (s ConditionsSnapshot) Fresh(now time.Time, maxAge time.Duration) bool {
	return !s.FetchedAt.IsZero() && now.Sub(s.FetchedAt) <= maxAge
}

// ForSpot returns a copy carrying the spot's ID and exposure rating.
func (s ConditionsSnapshot) ForSpot(spot *Spot) ConditionsSnapshot {
	if spot == nil {
		return s
	}
	s.SpotID = spot.ID
	s.Conditions.SpotExposure = nil
	if spot.Exposure > 0 {
		exposure := spot.Exposure
		s.Conditions.SpotExposure = &exposure
	}
	return s
}

// NeedsWind reports whether the buoy reported no wind speed.
func (s ConditionsSnapshot) NeedsWind() bool {
	return math.IsNaN(s.Conditions.WindKts)
}

// WithWeatherWind returns a copy whose missing wind is filled from the weather
// report's current wind. A buoy wind reading is never replaced.
func (s ConditionsSnapshot) WithWeatherWind(weather *WeatherReport) ConditionsSnapshot {
	if weather == nil || !s.NeedsWind() {
		return s
	}
	s.Conditions.WindKts = units.MetersPerSecondToKnots(weather.Current.WindSpeedMS)
	return s
}
