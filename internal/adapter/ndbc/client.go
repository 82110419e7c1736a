// Package ndbc reads the latest realtime observation for a NOAA NDBC buoy.
package ndbc

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/surf-buddy/internal/adapter/upstream"
	"github.com/couchcryptid/surf-buddy/internal/domain"
)

// Client implements domain.ObservationSource against the NDBC realtime2 feed.
type Client struct {
	http    *upstream.Client
	baseURL string
}

// NewClient creates an NDBC client rooted at baseURL.
func NewClient(hc *upstream.Client, baseURL string) *Client {
	return &Client{http: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// StationURL returns the realtime text file for station.
func (c *Client) StationURL(station string) string {
	return fmt.Sprintf("%s/data/realtime2/%s.txt", c.baseURL, station)
}

// LatestObservation fetches and parses the newest row of the station file.
func (c *Client) LatestObservation(ctx context.Context, station string) (domain.Observation, error) {
	if !ValidStation(station) {
		return domain.Observation{}, fmt.Errorf("%w: station %q", domain.ErrInputInvalid, station)
	}

	text, err := c.http.GetText(ctx, c.StationURL(station))
	if err != nil {
		return domain.Observation{}, fmt.Errorf("fetch station %s: %w", station, err)
	}
	return ParseRealtime(station, text)
}

// ValidStation reports whether s looks like an NDBC station identifier.
func ValidStation(s string) bool {
	if s == "" || len(s) > 8 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// ParseRealtime parses a realtime2 standard meteorological file. The first
// '#' line names the columns and the first data line is the newest reading.
// "MM" marks a value the buoy did not report.
func ParseRealtime(station, text string) (domain.Observation, error) {
	var header, data []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if header == nil {
				header = strings.Fields(strings.TrimPrefix(line, "#"))
			}
			continue
		}
		data = strings.Fields(line)
		break
	}
	if len(header) == 0 || len(data) == 0 {
		return domain.Observation{}, fmt.Errorf("%w: station %s: no data found", domain.ErrUpstreamMalformed, station)
	}

	row := make(map[string]*float64, len(header))
	for i, col := range header {
		if _, dup := row[col]; dup || i >= len(data) {
			continue
		}
		row[col] = number(data[i])
	}

	period := row["DPD"]
	if period == nil {
		period = row["APD"]
	}

	return domain.Observation{
		Station:         station,
		ObservedAt:      observedAt(row),
		WaveHeightM:     row["WVHT"],
		DominantPeriodS: period,
		WaveDirDeg:      row["MWD"],
		WindSpeedMS:     row["WSPD"],
		WindGustMS:      row["GST"],
		WindDirDeg:      row["WDIR"],
		WaterTempC:      row["WTMP"],
	}, nil
}

func number(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// observedAt builds the UTC reading time, or the zero time when any part is missing.
func observedAt(row map[string]*float64) time.Time {
	var parts [5]int
	for i, col := range []string{"YY", "MM", "DD", "hh", "mm"} {
		v := row[col]
		if v == nil {
			return time.Time{}
		}
		parts[i] = int(*v)
	}
	year := parts[0]
	if year < 100 {
		year += 2000
	}
	return time.Date(year, time.Month(parts[1]), parts[2], parts[3], parts[4], 0, 0, time.UTC)
}
