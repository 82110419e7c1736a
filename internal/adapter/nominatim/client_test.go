package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/surf-buddy/internal/adapter/upstream"
	"github.com/couchcryptid/surf-buddy/internal/domain"
	"github.com/couchcryptid/surf-buddy/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	hc := upstream.NewClient("nominatim", "surf-buddy-test", 5*time.Second,
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewClient(hc, baseURL)
}

func TestClient_ReverseGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "jsonv2", q.Get("format"))
		assert.Equal(t, "49.0278", q.Get("lat"))
		assert.Equal(t, "-125.7003", q.Get("lon"))
		assert.Equal(t, "10", q.Get("zoom"))
		assert.Equal(t, "1", q.Get("addressdetails"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"display_name": "Tofino, British Columbia, Canada",
			"address": {
				"town": "Tofino",
				"state": "British Columbia",
				"ISO3166-2-lvl4": "CA-BC",
				"country": "Canada",
				"country_code": "ca"
			}
		}`))
	}))
	defer srv.Close()

	place, err := testClient(srv.URL).ReverseGeocode(context.Background(), 49.0278, -125.7003)
	require.NoError(t, err)
	assert.Equal(t, domain.Place{CountryCode: "CA", State: "British Columbia", StateCode: "BC"}, place)
}

func TestClient_ReverseGeocode_StateCodePreferred(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"address":{"state":"Hawaii","state_code":"hi","ISO3166-2-lvl4":"US-XX","country_code":"us"}}`))
	}))
	defer srv.Close()

	place, err := testClient(srv.URL).ReverseGeocode(context.Background(), 21.66, -158.05)
	require.NoError(t, err)
	assert.Equal(t, "US", place.CountryCode)
	assert.Equal(t, "HI", place.StateCode)
}

func TestClient_ReverseGeocode_OpenOcean(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	place, err := testClient(srv.URL).ReverseGeocode(context.Background(), 30, -140)
	require.NoError(t, err)
	assert.True(t, place.Empty())
}

func TestClient_ReverseGeocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ReverseGeocode(context.Background(), 49, -125)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_ReverseGeocode_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ReverseGeocode(context.Background(), 49, -125)
	require.ErrorIs(t, err, domain.ErrUpstreamMalformed)
}
