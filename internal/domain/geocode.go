package domain

import (
	"context"
	"log/slog"
)

// ResolveCatalog picks the spot catalog for a coordinate. If geocoder is nil
// or the lookup fails, the default catalog is returned (graceful degradation)
// along with an empty Place.
func ResolveCatalog(ctx context.Context, geocoder Geocoder, lat, lon float64, logger *slog.Logger) (Catalog, Place) {
	if geocoder == nil {
		return DefaultCatalog(), Place{}
	}

	place, err := geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", lat,
			"lon", lon,
			"error", err,
		)
		return DefaultCatalog(), Place{}
	}
	return CatalogFor(place), place
}
