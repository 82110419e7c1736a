package domain

import "context"

// Geocoder resolves coordinates to the region used to pick a spot catalog.
type Geocoder interface {
	// ReverseGeocode converts coordinates to country and state details.
	ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error)
}

// ObservationSource returns the latest buoy reading for an NDBC station.
type ObservationSource interface {
	LatestObservation(ctx context.Context, station string) (Observation, error)
}

// MarineSource returns the hourly marine forecast for a coordinate.
type MarineSource interface {
	MarineForecast(ctx context.Context, lat, lon float64) ([]MarineSample, error)
}

// WeatherSource returns current and hourly weather for a coordinate.
type WeatherSource interface {
	Weather(ctx context.Context, lat, lon float64) (WeatherReport, error)
}
