package nominatim

import (
	"context"
	"fmt"

	"github.com/couchcryptid/surf-buddy/internal/cache"
	"github.com/couchcryptid/surf-buddy/internal/domain"
	"github.com/couchcryptid/surf-buddy/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *cache.LRU[domain.Place]
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   cache.NewLRU[domain.Place](maxEntries),
		metrics: metrics,
	}
}

// ReverseGeocode serves from the cache when the rounded coordinate is known.
// Roughly 11 m of precision at 4 decimal places.
func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.Place, error) {
	key := fmt.Sprintf("rev:%.4f,%.4f", lat, lon)
	if place, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return place, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	place, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return place, err
	}
	// Only cache non-empty results so open-ocean lookups can be retried.
	if !place.Empty() {
		c.cache.Put(key, place)
	}
	return place, nil
}
