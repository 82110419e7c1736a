package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestConditionsFromObservation(t *testing.T) {
	obs := &Observation{
		Station:         "46206",
		WaveHeightM:     ptr(2.0),
		DominantPeriodS: ptr(12),
		WindSpeedMS:     ptr(5),
	}

	c := ConditionsFromObservation(obs, nil, 1.1)
	require.NotNil(t, c)
	assert.InDelta(t, 6.56168, c.WaveHeightFt, 1e-5)
	assert.InDelta(t, 12.0, c.PeriodS, 1e-9)
	assert.InDelta(t, 9.71922, c.WindKts, 1e-5)
	require.NotNil(t, c.SpotExposure)
	assert.InDelta(t, 1.1, *c.SpotExposure, 1e-9)
	assert.True(t, c.Usable())
}

func TestConditionsFromObservation_WindFallback(t *testing.T) {
	obs := &Observation{WaveHeightM: ptr(1), DominantPeriodS: ptr(9)}
	weather := &WeatherReport{Current: WeatherPoint{WindSpeedMS: 10}}

	c := ConditionsFromObservation(obs, weather, 0)
	assert.InDelta(t, 19.4384449, c.WindKts, 1e-6)
	assert.Nil(t, c.SpotExposure)
	assert.True(t, c.Usable())
}

func TestConditionsFromObservation_Missing(t *testing.T) {
	assert.Nil(t, ConditionsFromObservation(nil, nil, 1))

	c := ConditionsFromObservation(&Observation{WaveHeightM: ptr(1)}, nil, 1)
	require.NotNil(t, c)
	assert.True(t, math.IsNaN(c.PeriodS))
	assert.True(t, math.IsNaN(c.WindKts))
	assert.False(t, c.Usable())
}

func TestConditions_JSON(t *testing.T) {
	c := Conditions{WaveHeightFt: 4, PeriodS: math.NaN(), WindKts: 10}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"waveHeightFt":4,"periodS":null,"windKts":10}`, string(data))

	var back Conditions
	require.NoError(t, json.Unmarshal(data, &back))
	assert.InDelta(t, 4.0, back.WaveHeightFt, 1e-9)
	assert.True(t, math.IsNaN(back.PeriodS))
	assert.False(t, back.Usable())
}

func TestConditions_Exposure(t *testing.T) {
	var nilCond *Conditions
	assert.InDelta(t, 1.0, nilCond.Exposure(), 1e-9)
	assert.False(t, nilCond.Usable())
	assert.InDelta(t, 1.25, (&Conditions{SpotExposure: ptr(2)}).Exposure(), 1e-9)
	assert.InDelta(t, 0.6, (&Conditions{SpotExposure: ptr(0.2)}).Exposure(), 1e-9)
	assert.InDelta(t, 1.0, (&Conditions{SpotExposure: ptr(math.NaN())}).Exposure(), 1e-9)
}

func TestNewSnapshot(t *testing.T) {
	fetched := time.Date(2026, 10, 14, 19, 0, 0, 0, time.UTC)
	obs := Observation{
		Station:         "46206",
		ObservedAt:      time.Date(2026, 10, 14, 18, 40, 0, 0, time.UTC),
		WaveHeightM:     ptr(2.0),
		DominantPeriodS: ptr(12),
		WindSpeedMS:     ptr(5),
	}

	snap := NewSnapshot("id-1", obs, nil, fetched)
	assert.Equal(t, "id-1", snap.ID)
	assert.Equal(t, "46206", snap.Station)
	assert.Equal(t, obs.ObservedAt, snap.ObservedAt)
	assert.Equal(t, fetched, snap.FetchedAt)
	assert.Nil(t, snap.Conditions.SpotExposure)
	assert.True(t, snap.Conditions.Usable())

	obs.ObservedAt = time.Time{}
	assert.Equal(t, fetched, NewSnapshot("id-2", obs, nil, fetched).ObservedAt)
}

func TestConditionsSnapshot_Fresh(t *testing.T) {
	fetched := time.Date(2026, 10, 14, 19, 0, 0, 0, time.UTC)
	snap := ConditionsSnapshot{FetchedAt: fetched}

	assert.True(t, snap.Fresh(fetched.Add(30*time.Minute), 30*time.Minute))
	assert.False(t, snap.Fresh(fetched.Add(31*time.Minute), 30*time.Minute))
	assert.False(t, ConditionsSnapshot{}.Fresh(fetched, time.Hour))
}

func TestConditionsSnapshot_ForSpot(t *testing.T) {
	snap := ConditionsSnapshot{Station: "46206", Conditions: Conditions{WaveHeightFt: 4, PeriodS: 10, WindKts: 5}}

	cox := snap.ForSpot(&Spot{ID: "cox-bay", Exposure: 1.1})
	assert.Equal(t, "cox-bay", cox.SpotID)
	require.NotNil(t, cox.Conditions.SpotExposure)
	assert.InDelta(t, 1.1, *cox.Conditions.SpotExposure, 1e-9)
	assert.Nil(t, snap.Conditions.SpotExposure, "receiver is not modified")

	unrated := cox.ForSpot(&Spot{ID: "somewhere"})
	assert.Nil(t, unrated.Conditions.SpotExposure)

	assert.Equal(t, snap, snap.ForSpot(nil))
}

func TestConditionsSnapshot_WithWeatherWind(t *testing.T) {
	weather := &WeatherReport{Current: WeatherPoint{WindSpeedMS: 4}}

	calm := ConditionsSnapshot{Conditions: Conditions{WaveHeightFt: 4, PeriodS: 10, WindKts: math.NaN()}}
	require.True(t, calm.NeedsWind())
	filled := calm.WithWeatherWind(weather)
	assert.InDelta(t, 7.77537796, filled.Conditions.WindKts, 1e-6)
	assert.True(t, filled.Conditions.Usable())
	assert.True(t, math.IsNaN(calm.Conditions.WindKts), "receiver is not modified")

	measured := ConditionsSnapshot{Conditions: Conditions{WaveHeightFt: 4, PeriodS: 10, WindKts: 12}}
	assert.False(t, measured.NeedsWind())
	assert.InDelta(t, 12.0, measured.WithWeatherWind(weather).Conditions.WindKts, 1e-9)

	assert.True(t, math.IsNaN(calm.WithWeatherWind(nil).Conditions.WindKts))
}
