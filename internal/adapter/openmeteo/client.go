// Package openmeteo fetches hourly marine and weather forecasts from the
// Open-Meteo APIs.
//
// Hourly times arrive as local wall-clock strings ("2026-10-14T13:00") in
// the timezone of the requested coordinate. They are parsed with the
// response's utc_offset_seconds so day bucketing in the outlook follows the
// spot's calendar rather than the server's.
package openmeteo

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/surf-buddy/internal/adapter/upstream"
	"github.com/couchcryptid/surf-buddy/internal/domain"
)

const localTimeLayout = "2006-01-02T15:04"

var marineVariables = []string{
	"wave_height",
	"wave_period",
	"wind_wave_height",
	"wind_wave_period",
	"wind_wave_direction",
	"sea_level_height_msl",
}

var weatherVariables = []string{
	"windspeed_10m",
	"winddirection_10m",
	"temperature_2m",
	"precipitation",
}

// Client implements domain.MarineSource and domain.WeatherSource.
type Client struct {
	marine     *upstream.Client
	weather    *upstream.Client
	marineURL  string
	weatherURL string
}

// NewClient creates an Open-Meteo client. The marine and weather APIs live on
// different hosts and are metered separately.
func NewClient(marine, weather *upstream.Client, marineURL, weatherURL string) *Client {
	return &Client{
		marine:     marine,
		weather:    weather,
		marineURL:  strings.TrimRight(marineURL, "/"),
		weatherURL: strings.TrimRight(weatherURL, "/"),
	}
}

func coordParams(lat, lon float64) url.Values {
	return url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', -1, 64)},
		"timezone":  {"auto"},
	}
}

func validCoord(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: lat/lon %v,%v", domain.ErrInputInvalid, lat, lon)
	}
	return nil
}

// series is an hourly array where null marks a missing value.
type series []*float64

func (s series) at(i int) float64 {
	if i >= len(s) || s[i] == nil {
		return math.NaN()
	}
	return *s[i]
}

func parseLocal(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(localTimeLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q: %w", domain.ErrUpstreamMalformed, value, err)
	}
	return t, nil
}

func zone(offsetSeconds int, name string) *time.Location {
	if name == "" {
		name = "UTC"
	}
	return time.FixedZone(name, offsetSeconds)
}
