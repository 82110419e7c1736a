package openmeteo

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/couchcryptid/surf-buddy/internal/domain"
)

type weatherResponse struct {
	UTCOffsetSeconds int            `json:"utc_offset_seconds"`
	Timezone         string         `json:"timezone"`
	Current          *weatherValues `json:"current"`
	Hourly           weatherHourly  `json:"hourly"`
}

type weatherValues struct {
	Time          string   `json:"time"`
	WindSpeed     *float64 `json:"windspeed_10m"`
	WindDirection *float64 `json:"winddirection_10m"`
	Temperature   *float64 `json:"temperature_2m"`
	Precipitation *float64 `json:"precipitation"`
}

type weatherHourly struct {
	Time          []string `json:"time"`
	WindSpeed     series   `json:"windspeed_10m"`
	WindDirection series   `json:"winddirection_10m"`
	Temperature   series   `json:"temperature_2m"`
	Precipitation series   `json:"precipitation"`
}

// Weather returns current and hourly wind, temperature and precipitation.
// Wind speed is requested in m/s to match the buoy feed.
func (c *Client) Weather(ctx context.Context, lat, lon float64) (domain.WeatherReport, error) {
	if err := validCoord(lat, lon); err != nil {
		return domain.WeatherReport{}, err
	}
	vars := strings.Join(weatherVariables, ",")
	params := coordParams(lat, lon)
	params.Set("current", vars)
	params.Set("hourly", vars)
	params.Set("wind_speed_unit", "ms")

	var resp weatherResponse
	if err := c.weather.GetJSON(ctx, c.weatherURL+"/v1/forecast?"+params.Encode(), &resp); err != nil {
		return domain.WeatherReport{}, fmt.Errorf("weather forecast: %w", err)
	}
	return resp.report()
}

func (r weatherResponse) report() (domain.WeatherReport, error) {
	loc := zone(r.UTCOffsetSeconds, r.Timezone)

	report := domain.WeatherReport{Current: missingPoint()}
	if r.Current != nil {
		t, err := parseLocal(r.Current.Time, loc)
		if err != nil {
			return domain.WeatherReport{}, err
		}
		report.Current = domain.WeatherPoint{
			Time:            t,
			WindSpeedMS:     value(r.Current.WindSpeed),
			WindDirDeg:      value(r.Current.WindDirection),
			TemperatureC:    value(r.Current.Temperature),
			PrecipitationMM: value(r.Current.Precipitation),
		}
	}

	h := r.Hourly
	report.Hourly = make([]domain.WeatherPoint, 0, len(h.Time))
	for i, ts := range h.Time {
		t, err := parseLocal(ts, loc)
		if err != nil {
			return domain.WeatherReport{}, err
		}
		report.Hourly = append(report.Hourly, domain.WeatherPoint{
			Time:            t,
			WindSpeedMS:     h.WindSpeed.at(i),
			WindDirDeg:      h.WindDirection.at(i),
			TemperatureC:    h.Temperature.at(i),
			PrecipitationMM: h.Precipitation.at(i),
		})
	}
	return report, nil
}

func value(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func missingPoint() domain.WeatherPoint {
	nan := math.NaN()
	return domain.WeatherPoint{WindSpeedMS: nan, WindDirDeg: nan, TemperatureC: nan, PrecipitationMM: nan}
}
