// Package nominatim reverse-geocodes coordinates to the country and state
// used to pick a regional spot catalog.
package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/surf-buddy/internal/adapter/upstream"
	"github.com/couchcryptid/surf-buddy/internal/domain"
)

// Client implements domain.Geocoder using the Nominatim reverse endpoint.
type Client struct {
	http    *upstream.Client
	baseURL string
}

// NewClient creates a Nominatim client rooted at baseURL.
func NewClient(hc *upstream.Client, baseURL string) *Client {
	return &Client{http: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// ReverseGeocode converts coordinates to country and state details.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.Place, error) {
	params := url.Values{
		"format":         {"jsonv2"},
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"zoom":           {"10"},
		"addressdetails": {"1"},
	}

	var resp response
	if err := c.http.GetJSON(ctx, c.baseURL+"/reverse?"+params.Encode(), &resp); err != nil {
		return domain.Place{}, fmt.Errorf("reverse geocode: %w", err)
	}
	return resp.Address.place(), nil
}

// Nominatim API response types.

type response struct {
	Address address `json:"address"`
}

type address struct {
	CountryCode string `json:"country_code"`
	State       string `json:"state"`
	StateCode   string `json:"state_code"`
	ISOLevel4   string `json:"ISO3166-2-lvl4"` // e.g. "CA-BC"
}

func (a address) place() domain.Place {
	p := domain.Place{
		CountryCode: strings.ToUpper(a.CountryCode),
		State:       a.State,
		StateCode:   strings.ToUpper(a.StateCode),
	}
	if p.StateCode == "" && a.ISOLevel4 != "" {
		if _, code, ok := strings.Cut(a.ISOLevel4, "-"); ok {
			p.StateCode = strings.ToUpper(code)
		}
	}
	return p
}
