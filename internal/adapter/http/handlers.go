package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/surf-buddy/internal/adapter/ndbc"
	"github.com/couchcryptid/surf-buddy/internal/advisor"
	"github.com/couchcryptid/surf-buddy/internal/domain"
)

// Cache lifetimes per route. Error responses are never cached.
const (
	forecastMaxAge = 300
	marineMaxAge   = 900
	weatherMaxAge  = 900
	reverseMaxAge  = 86400
)

// Error codes returned in the envelope's "code" field.
const (
	codeInvalidInput = "invalid_input"
	codeOutOfRange   = "out_of_range"
	codeInvalidCoord = "invalid_coordinates"
	codeUpstream     = "upstream_error"
	codeSuperseded   = "superseded"
	codeInternal     = "internal_error"
)

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- /api/forecast ---

type forecastResponse struct {
	OK         bool              `json:"ok"`
	Source     forecastSource    `json:"source"`
	Timestamp  forecastTimestamp `json:"timestamp"`
	Waves      forecastWaves     `json:"waves"`
	Wind       forecastWind      `json:"wind"`
	WaterTempC *float64          `json:"waterTempC"`
}

type forecastSource struct {
	Provider string `json:"provider"`
	Station  string `json:"station"`
	URL      string `json:"url"`
}

type forecastTimestamp struct {
	Year   *int `json:"year"`
	Month  *int `json:"month"`
	Day    *int `json:"day"`
	Hour   *int `json:"hour"`
	Minute *int `json:"minute"`
}

type forecastWaves struct {
	SignificantWaveHeightM *float64 `json:"significantWaveHeightM"`
	DominantPeriodS        *float64 `json:"dominantPeriodS"`
	DirectionDeg           *float64 `json:"directionDeg"`
}

type forecastWind struct {
	SpeedMS      *float64 `json:"speedMS"`
	GustMS       *float64 `json:"gustMS"`
	DirectionDeg *float64 `json:"directionDeg"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	station := r.URL.Query().Get("station")
	if station == "" {
		station = s.deps.DefaultStation
	}
	if !ndbc.ValidStation(station) {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid station")
		return
	}

	obs, err := s.deps.Buoys.LatestObservation(r.Context(), station)
	if err != nil {
		s.upstreamError(w, "ndbc", err, "station", station)
		return
	}

	writeCached(w, forecastMaxAge, forecastResponse{
		OK: true,
		Source: forecastSource{
			Provider: "NOAA NDBC",
			Station:  station,
			URL:      s.deps.Buoys.StationURL(station),
		},
		Timestamp: timestampOf(obs.ObservedAt),
		Waves: forecastWaves{
			SignificantWaveHeightM: obs.WaveHeightM,
			DominantPeriodS:        obs.DominantPeriodS,
			DirectionDeg:           obs.WaveDirDeg,
		},
		Wind: forecastWind{
			SpeedMS:      obs.WindSpeedMS,
			GustMS:       obs.WindGustMS,
			DirectionDeg: obs.WindDirDeg,
		},
		WaterTempC: obs.WaterTempC,
	})
}

func timestampOf(t time.Time) forecastTimestamp {
	if t.IsZero() {
		return forecastTimestamp{}
	}
	t = t.UTC()
	year, month, day, hour, minute := t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute()
	return forecastTimestamp{Year: &year, Month: &month, Day: &day, Hour: &hour, Minute: &minute}
}

// --- /api/marine ---

type marineResponse struct {
	OK      bool                `json:"ok"`
	Outlook []domain.DayOutlook `json:"outlook"`
	Tide    *domain.TideView    `json:"tide"`
}

func (s *Server) handleMarine(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := coordinates(w, r)
	if !ok {
		return
	}

	samples, err := s.deps.Marine.MarineForecast(r.Context(), lat, lon)
	if err != nil {
		s.upstreamError(w, "marine", err, "lat", lat, "lon", lon)
		return
	}

	now := domain.Now()
	resp := marineResponse{OK: true, Outlook: domain.Outlook(samples, now, domain.OutlookDays)}
	if trend, ok := domain.TideTrendAt(samples, now); ok {
		resp.Tide = &domain.TideView{Trend: trend}
		if next, ok := domain.NextTideExtremum(samples, now); ok {
			resp.Tide.Next = &next
		}
	}
	writeCached(w, marineMaxAge, resp)
}

// --- /api/weather ---

type weatherResponse struct {
	OK      bool           `json:"ok"`
	Current weatherPoint   `json:"current"`
	Hourly  []weatherPoint `json:"hourly"`
}

type weatherPoint struct {
	Time             *time.Time `json:"time"`
	WindSpeedMS      *float64   `json:"windSpeedMS"`
	WindDirectionDeg *float64   `json:"windDirectionDeg"`
	TemperatureC     *float64   `json:"temperatureC"`
	PrecipitationMM  *float64   `json:"precipitationMM"`
}

func newWeatherPoint(p domain.WeatherPoint) weatherPoint {
	out := weatherPoint{
		WindSpeedMS:      finite(p.WindSpeedMS),
		WindDirectionDeg: finite(p.WindDirDeg),
		TemperatureC:     finite(p.TemperatureC),
		PrecipitationMM:  finite(p.PrecipitationMM),
	}
	if !p.Time.IsZero() {
		t := p.Time
		out.Time = &t
	}
	return out
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := coordinates(w, r)
	if !ok {
		return
	}

	report, err := s.deps.Weather.Weather(r.Context(), lat, lon)
	if err != nil {
		s.upstreamError(w, "weather", err, "lat", lat, "lon", lon)
		return
	}

	resp := weatherResponse{
		OK:      true,
		Current: newWeatherPoint(report.Current),
		Hourly:  make([]weatherPoint, len(report.Hourly)),
	}
	for i, p := range report.Hourly {
		resp.Hourly[i] = newWeatherPoint(p)
	}
	writeCached(w, weatherMaxAge, resp)
}

// --- /api/reverse ---

type reverseResponse struct {
	OK          bool    `json:"ok"`
	CountryCode *string `json:"countryCode"`
	State       *string `json:"state"`
	StateCode   *string `json:"stateCode"`
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := coordinates(w, r)
	if !ok {
		return
	}

	place, err := s.deps.Geocoder.ReverseGeocode(r.Context(), lat, lon)
	if err != nil {
		s.upstreamError(w, "nominatim", err, "lat", lat, "lon", lon)
		return
	}

	writeCached(w, reverseMaxAge, reverseResponse{
		OK:          true,
		CountryCode: nonEmpty(place.CountryCode),
		State:       nonEmpty(place.State),
		StateCode:   nonEmpty(place.StateCode),
	})
}

// --- /api/spots ---

type spotsResponse struct {
	OK     bool          `json:"ok"`
	Region string        `json:"region"`
	Place  *domain.Place `json:"place,omitempty"`
	Spots  []domain.Spot `json:"spots"`
}

func (s *Server) handleSpots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("lat") == "" && q.Get("lon") == "" {
		c := domain.DefaultCatalog()
		writeNoStore(w, http.StatusOK, spotsResponse{OK: true, Region: c.Region, Spots: c.Spots})
		return
	}

	lat, lon, ok := coordinates(w, r)
	if !ok {
		return
	}
	c, place := domain.ResolveCatalog(r.Context(), s.deps.Geocoder, lat, lon, s.logger)
	resp := spotsResponse{OK: true, Region: c.Region, Spots: c.Spots}
	if !place.Empty() {
		resp.Place = &place
	}
	writeNoStore(w, http.StatusOK, resp)
}

// --- /api/recommend ---

type recommendResponse struct {
	OK   bool        `json:"ok"`
	View domain.View `json:"view"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := advisor.Request{
		Height:     q.Get("height"),
		HeightUnit: q.Get("heightUnit"),
		Weight:     q.Get("weight"),
		WeightUnit: q.Get("weightUnit"),
		Ability:    q.Get("ability"),
		SpotID:     q.Get("spot"),
		Station:    q.Get("station"),
	}
	if req.Station != "" && !ndbc.ValidStation(req.Station) {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid station")
		return
	}

	view, err := s.deps.Advisor.Advise(r.Context(), req)
	switch {
	case errors.Is(err, domain.ErrInputOutOfRange):
		writeError(w, http.StatusBadRequest, codeOutOfRange, err.Error())
		return
	case errors.Is(err, domain.ErrInputInvalid):
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	case err != nil:
		s.logger.Error("recommend failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}
	writeNoStore(w, http.StatusOK, recommendResponse{OK: true, View: view})
}

// --- /api/locate ---

type locateRequest struct {
	Session string   `json:"session"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

type locateResponse struct {
	OK     bool          `json:"ok"`
	Region string        `json:"region"`
	Place  *domain.Place `json:"place,omitempty"`
	Spots  []domain.Spot `json:"spots"`
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	var body locateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body")
		return
	}
	if body.Lat == nil || body.Lon == nil || !validCoordinates(*body.Lat, *body.Lon) {
		writeError(w, http.StatusBadRequest, codeInvalidCoord, "Invalid lat/lon")
		return
	}

	loc, err := s.deps.Locator.Locate(r.Context(), body.Session, *body.Lat, *body.Lon)
	if errors.Is(err, domain.ErrSuperseded) {
		writeError(w, http.StatusConflict, codeSuperseded, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("locate failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}

	resp := locateResponse{OK: true, Region: loc.Catalog.Region, Spots: loc.Catalog.Spots}
	if !loc.Place.Empty() {
		resp.Place = &loc.Place
	}
	writeNoStore(w, http.StatusOK, resp)
}

// --- helpers ---

func (s *Server) upstreamError(w http.ResponseWriter, service string, err error, attrs ...any) {
	if errors.Is(err, domain.ErrInputInvalid) {
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}
	s.logger.Warn("upstream request failed", append([]any{"service", service, "error", err}, attrs...)...)
	writeError(w, http.StatusBadGateway, codeUpstream, fmt.Sprintf("Upstream error: %s", service))
}

// coordinates parses lat/lon query parameters, writing a 400 on failure.
func coordinates(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil || !validCoordinates(lat, lon) {
		writeError(w, http.StatusBadRequest, codeInvalidCoord, "Invalid lat/lon")
		return 0, 0, false
	}
	return lat, lon, true
}

func validCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeCached(w http.ResponseWriter, maxAge int, v any) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	writeJSON(w, http.StatusOK, v)
}

func writeNoStore(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, status, v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeNoStore(w, status, errorResponse{OK: false, Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
