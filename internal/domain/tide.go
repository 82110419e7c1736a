package domain

import "time"

// TideTrend is the direction the tide is moving at a point in time.
type TideTrend string

const (
	TideRising  TideTrend = "rising"
	TideFalling TideTrend = "falling"
	TideSlack   TideTrend = "slack"
)

// ExtremumKind distinguishes high and low tide.
type ExtremumKind string

const (
	HighTide ExtremumKind = "high"
	LowTide  ExtremumKind = "low"
)

// tideDeadbandM is the hourly change below which the tide counts as slack.
const tideDeadbandM = 0.02

// TideExtremum is a local high or low in the hourly tide series.
type TideExtremum struct {
	Kind    ExtremumKind `json:"kind"`
	Time    time.Time    `json:"time"`
	HeightM float64      `json:"heightM"`
}

// TideTrendAt compares the sample at or just before now with the following
// hour. It returns false when there is no usable pair of samples.
func TideTrendAt(samples []MarineSample, now time.Time) (TideTrend, bool) {
	i := currentIndex(samples, now)
	if i < 0 || i+1 >= len(samples) {
		return "", false
	}
	cur, next := samples[i].TideHeightM, samples[i+1].TideHeightM
	if !isFinite(cur) || !isFinite(next) {
		return "", false
	}

	switch delta := next - cur; {
	case delta > tideDeadbandM:
		return TideRising, true
	case delta < -tideDeadbandM:
		return TideFalling, true
	default:
		return TideSlack, true
	}
}

// NextTideExtremum scans forward from now for the first sample that is >= or
// <= both of its neighbors. Samples with missing tide heights are skipped.
func NextTideExtremum(samples []MarineSample, now time.Time) (TideExtremum, bool) {
	start := max(currentIndex(samples, now)+1, 1)
	for i := start; i < len(samples)-1; i++ {
		prev, cur, next := samples[i-1].TideHeightM, samples[i].TideHeightM, samples[i+1].TideHeightM
		if !isFinite(prev) || !isFinite(cur) || !isFinite(next) {
			continue
		}
		if cur >= prev && cur >= next {
			return TideExtremum{Kind: HighTide, Time: samples[i].Time, HeightM: cur}, true
		}
		if cur <= prev && cur <= next {
			return TideExtremum{Kind: LowTide, Time: samples[i].Time, HeightM: cur}, true
		}
	}
	return TideExtremum{}, false
}

// currentIndex returns the last sample not after now, 0 when now precedes the
// series, and -1 for an empty series. Samples must be time-ordered.
func currentIndex(samples []MarineSample, now time.Time) int {
	if len(samples) == 0 {
		return -1
	}
	idx := 0
	for i, s := range samples {
		if s.Time.After(now) {
			break
		}
		idx = i
	}
	return idx
}
