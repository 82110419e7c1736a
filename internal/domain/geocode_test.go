package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock geocoder ---

type mockGeocoder struct {
	place Place
	err   error
	calls int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (Place, error) {
	m.calls++
	return m.place, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestResolveCatalog_NilGeocoder(t *testing.T) {
	catalog, place := ResolveCatalog(context.Background(), nil, 37.76, -122.51, discardLogger())

	assert.Equal(t, "CA-BC", catalog.Region)
	assert.True(t, place.Empty())
}

func TestResolveCatalog_KnownRegion(t *testing.T) {
	geo := &mockGeocoder{place: Place{CountryCode: "US", State: "California", StateCode: "CA"}}

	catalog, place := ResolveCatalog(context.Background(), geo, 37.76, -122.51, discardLogger())

	assert.Equal(t, "US-CA", catalog.Region)
	assert.Equal(t, "California", place.State)
	assert.Equal(t, 1, geo.calls)
	require.NotEmpty(t, catalog.Spots)
	for _, s := range catalog.Spots {
		assert.Equal(t, "US-CA", s.Region)
	}
}

func TestResolveCatalog_UnknownRegionFallsBack(t *testing.T) {
	geo := &mockGeocoder{place: Place{CountryCode: "FR", State: "Nouvelle-Aquitaine"}}

	catalog, place := ResolveCatalog(context.Background(), geo, 43.48, -1.56, discardLogger())

	assert.Equal(t, "CA-BC", catalog.Region)
	assert.Equal(t, "FR", place.CountryCode)
}

func TestResolveCatalog_GeocodeError(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("timeout")}

	catalog, place := ResolveCatalog(context.Background(), geo, 21.66, -158.05, discardLogger())

	assert.Equal(t, "CA-BC", catalog.Region)
	assert.True(t, place.Empty())
	assert.Equal(t, 1, geo.calls)
}

func TestRegionKey(t *testing.T) {
	assert.Equal(t, "US-HI", RegionKey(Place{CountryCode: "us", StateCode: "hi"}))
	assert.Equal(t, "CA", RegionKey(Place{CountryCode: "CA", State: "British Columbia"}))
	assert.Equal(t, "", RegionKey(Place{}))
}

func TestFindSpot(t *testing.T) {
	s, ok := FindSpot("pipeline")
	require.True(t, ok)
	assert.Equal(t, "US-HI", s.Region)
	assert.Equal(t, "51201", s.Station)
	assert.InDelta(t, 1.25, s.Exposure, 1e-9)

	_, ok = FindSpot("nowhere")
	assert.False(t, ok)
}

func TestCatalogFor_ReturnsCopy(t *testing.T) {
	a := CatalogFor(Place{CountryCode: "US", StateCode: "HI"})
	a.Spots[0].Name = "changed"

	b := CatalogFor(Place{CountryCode: "US", StateCode: "HI"})
	assert.NotEqual(t, "changed", b.Spots[0].Name)
}
