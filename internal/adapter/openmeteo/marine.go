package openmeteo

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/surf-buddy/internal/domain"
)

type marineResponse struct {
	UTCOffsetSeconds int          `json:"utc_offset_seconds"`
	Timezone         string       `json:"timezone"`
	Hourly           marineHourly `json:"hourly"`
}

type marineHourly struct {
	Time              []string `json:"time"`
	WaveHeight        series   `json:"wave_height"`
	WavePeriod        series   `json:"wave_period"`
	WindWaveHeight    series   `json:"wind_wave_height"`
	WindWavePeriod    series   `json:"wind_wave_period"`
	WindWaveDirection series   `json:"wind_wave_direction"`
	SeaLevel          series   `json:"sea_level_height_msl"`
}

// MarineForecast returns hourly wave and sea-level samples for a coordinate.
func (c *Client) MarineForecast(ctx context.Context, lat, lon float64) ([]domain.MarineSample, error) {
	if err := validCoord(lat, lon); err != nil {
		return nil, err
	}
	params := coordParams(lat, lon)
	params.Set("hourly", strings.Join(marineVariables, ","))

	var resp marineResponse
	if err := c.marine.GetJSON(ctx, c.marineURL+"/v1/marine?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("marine forecast: %w", err)
	}
	return resp.samples()
}

func (r marineResponse) samples() ([]domain.MarineSample, error) {
	loc := zone(r.UTCOffsetSeconds, r.Timezone)
	h := r.Hourly

	out := make([]domain.MarineSample, 0, len(h.Time))
	for i, ts := range h.Time {
		t, err := parseLocal(ts, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.MarineSample{
			Time:              t,
			WaveHeightM:       h.WaveHeight.at(i),
			WavePeriodS:       h.WavePeriod.at(i),
			WindWaveHeightM:   h.WindWaveHeight.at(i),
			WindWavePeriodS:   h.WindWavePeriod.at(i),
			WindWaveDirection: h.WindWaveDirection.at(i),
			TideHeightM:       h.SeaLevel.at(i),
		})
	}
	return out, nil
}
