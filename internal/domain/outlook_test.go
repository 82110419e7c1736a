package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marineSeries(start time.Time, hours int) []MarineSample {
	out := make([]MarineSample, hours)
	for i := range hours {
		day := i / 24
		windWave := 0.3 + float64(day)*0.1
		if day == 2 {
			windWave = math.NaN()
		}
		out[i] = MarineSample{
			Time:            start.Add(time.Duration(i) * time.Hour),
			WaveHeightM:     1 + float64(day)*0.5 + float64(i%24)*0.01,
			WavePeriodS:     10 + float64(day),
			WindWaveHeightM: windWave,
			TideHeightM:     math.NaN(),
		}
	}
	return out
}

func TestOutlook_BucketsByLocalDay(t *testing.T) {
	pdt := time.FixedZone("PDT", -7*3600)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, pdt)
	samples := marineSeries(start, 80)
	now := time.Date(2024, 6, 1, 17, 30, 0, 0, time.UTC) // 10:30 local

	days := Outlook(samples, now, OutlookDays)
	require.Len(t, days, 3)

	assert.Equal(t, "2024-06-01", days[0].Date)
	assert.Equal(t, "2024-06-02", days[1].Date)
	assert.Equal(t, "2024-06-03", days[2].Date)

	for i, d := range days {
		assert.Equal(t, 24, d.Samples, "day %d", i)
		require.NotNil(t, d.WaveMaxM)
		assert.InDelta(t, 1.23+float64(i)*0.5, *d.WaveMaxM, 1e-9)
		require.NotNil(t, d.WaveMaxFt)
		assert.InDelta(t, (1.23+float64(i)*0.5)*3.28084, *d.WaveMaxFt, 1e-9)
		require.NotNil(t, d.PeriodMeanS)
		assert.InDelta(t, 10+float64(i), *d.PeriodMeanS, 1e-9)
	}

	require.NotNil(t, days[1].WindWaveMaxM)
	assert.InDelta(t, 0.4, *days[1].WindWaveMaxM, 1e-9)
	assert.Nil(t, days[2].WindWaveMaxM, "all wind-wave samples missing")
}

func TestOutlook_StartsAtToday(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	samples := marineSeries(start, 96)

	days := Outlook(samples, start.Add(36*time.Hour), 2)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-06-02", days[0].Date)
	assert.Equal(t, 24, days[0].Samples)
	assert.Equal(t, "2024-06-03", days[1].Date)
}

func TestOutlook_DaysWithoutData(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	samples := marineSeries(start, 12)

	days := Outlook(samples, start, OutlookDays)
	require.Len(t, days, 3)
	assert.Equal(t, 12, days[0].Samples)
	assert.Equal(t, 0, days[1].Samples)
	assert.Nil(t, days[1].WaveMaxM)
	assert.Nil(t, days[1].PeriodMeanS)
}

func TestOutlook_Empty(t *testing.T) {
	assert.Nil(t, Outlook(nil, time.Now(), OutlookDays))
	assert.Nil(t, Outlook(marineSeries(time.Now(), 5), time.Now(), 0))
}
