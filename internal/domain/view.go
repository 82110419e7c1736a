package domain

import (
	"fmt"
	"time"
)

// ViewState is everything a page render depends on. It is built fresh for
// every request and never mutated; Render derives the output from it.
type ViewState struct {
	Spot            *Spot
	StationOverride string
	Body            BodyMeasurement
	Ability         Ability
	Snapshot        *ConditionsSnapshot
	Marine          []MarineSample
	Now             time.Time
}

// Station returns the station the view reads conditions from.
func (s ViewState) Station() string {
	switch {
	case s.StationOverride != "":
		return s.StationOverride
	case s.Spot != nil && s.Spot.Station != "":
		return s.Spot.Station
	default:
		return DefaultStation
	}
}

// TideView is the tide portion of a rendered view.
type TideView struct {
	Trend TideTrend     `json:"trend"`
	Next  *TideExtremum `json:"next,omitempty"`
}

// View is the display-ready result of Render.
type View struct {
	Spot             *Spot           `json:"spot,omitempty"`
	Station          string          `json:"station"`
	Ability          Ability         `json:"ability"`
	HasForecast      bool            `json:"hasForecast"`
	Conditions       *Conditions     `json:"conditions,omitempty"`
	ObservedAt       *time.Time      `json:"observedAt,omitempty"`
	Recommendation   *Recommendation `json:"recommendation,omitempty"`
	LengthRange      string          `json:"lengthRange"`
	VolumeRange      string          `json:"volumeRange"`
	ShortVolumeRange string          `json:"shortVolumeRange"`
	Warning          string          `json:"warning,omitempty"`
	Tide             *TideView       `json:"tide,omitempty"`
	Outlook          []DayOutlook    `json:"outlook,omitempty"`
}

// Render computes the view for a state. It is pure: the same state always
// renders the same view. A recommendation with non-finite numbers renders
// with empty ranges and no recommendation block.
func Render(state ViewState) View {
	v := View{
		Spot:    state.Spot,
		Station: state.Station(),
		Ability: state.Ability,
	}

	var cond *Conditions
	if state.Snapshot != nil {
		c := state.Snapshot.Conditions
		cond = &c
		v.Conditions = &c
		observed := state.Snapshot.ObservedAt
		v.ObservedAt = &observed
	}
	v.HasForecast = cond.Usable()

	rec := Recommend(state.Body.HeightCm, state.Body.WeightKg, state.Ability, cond)
	if rec.Renderable() {
		v.Recommendation = &rec
		v.LengthRange = fmt.Sprintf("%s - %s", rec.LengthMinHuman, rec.LengthMaxHuman)
		v.VolumeRange = fmt.Sprintf("%.0f-%.0f L", rec.VolumeMinL, rec.VolumeMaxL)
		v.ShortVolumeRange = fmt.Sprintf("%.0f-%.0f L", rec.VolumeShortMinL, rec.VolumeShortMaxL)
		v.Warning = extremeWarning(rec, state.Ability)
	}

	if trend, ok := TideTrendAt(state.Marine, state.Now); ok {
		tv := &TideView{Trend: trend}
		if next, ok := NextTideExtremum(state.Marine, state.Now); ok {
			tv.Next = &next
		}
		v.Tide = tv
	}
	v.Outlook = Outlook(state.Marine, state.Now, OutlookDays)
	return v
}

func extremeWarning(rec Recommendation, ability Ability) string {
	if !rec.IsExtreme {
		return ""
	}
	if ability == Advanced {
		return "Extreme conditions: experienced surfers only."
	}
	return fmt.Sprintf("Extreme conditions: not recommended for %s surfers.", ability)
}
