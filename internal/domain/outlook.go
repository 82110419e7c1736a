package domain

import (
	"math"
	"time"

	"github.com/couchcryptid/surf-buddy/internal/units"
)

// OutlookDays is the default number of days in a marine outlook.
const OutlookDays = 3

// DayOutlook summarizes one local calendar day of the hourly marine forecast.
// Nil fields mean the day had no usable samples for that metric.
type DayOutlook struct {
	Date         string   `json:"date"`
	WaveMaxM     *float64 `json:"waveMaxM"`
	WaveMaxFt    *float64 `json:"waveMaxFt"`
	PeriodMeanS  *float64 `json:"periodMeanS"`
	WindWaveMaxM *float64 `json:"windWaveMaxM"`
	Samples      int      `json:"samples"`
}

type dayAccumulator struct {
	waveMax     float64
	periodSum   float64
	periodN     int
	windWaveMax float64
	samples     int
}

// Outlook buckets hourly samples into the given number of local days starting
// with the day containing now. The zone of the first sample defines "local".
func Outlook(samples []MarineSample, now time.Time, days int) []DayOutlook {
	if len(samples) == 0 || days <= 0 {
		return nil
	}

	loc := samples[0].Time.Location()
	y, m, d := now.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)

	acc := make([]dayAccumulator, days)
	for i := range acc {
		acc[i].waveMax = math.NaN()
		acc[i].windWaveMax = math.NaN()
	}

	for _, s := range samples {
		i := dayIndex(start, s.Time.In(loc), days)
		if i < 0 {
			continue
		}
		a := &acc[i]
		a.samples++
		if isFinite(s.WaveHeightM) && (math.IsNaN(a.waveMax) || s.WaveHeightM > a.waveMax) {
			a.waveMax = s.WaveHeightM
		}
		if isFinite(s.WindWaveHeightM) && (math.IsNaN(a.windWaveMax) || s.WindWaveHeightM > a.windWaveMax) {
			a.windWaveMax = s.WindWaveHeightM
		}
		if isFinite(s.WavePeriodS) {
			a.periodSum += s.WavePeriodS
			a.periodN++
		}
	}

	out := make([]DayOutlook, days)
	for i, a := range acc {
		day := DayOutlook{
			Date:         start.AddDate(0, 0, i).Format(time.DateOnly),
			WaveMaxM:     finiteOrNil(a.waveMax),
			WaveMaxFt:    finiteOrNil(units.MetersToFeet(a.waveMax)),
			WindWaveMaxM: finiteOrNil(a.windWaveMax),
			Samples:      a.samples,
		}
		if a.periodN > 0 {
			day.PeriodMeanS = finiteOrNil(a.periodSum / float64(a.periodN))
		}
		out[i] = day
	}
	return out
}

// dayIndex returns which of the days starting at start contains t, or -1.
func dayIndex(start, t time.Time, days int) int {
	for i := range days {
		from := start.AddDate(0, 0, i)
		to := start.AddDate(0, 0, i+1)
		if !t.Before(from) && t.Before(to) {
			return i
		}
	}
	return -1
}
