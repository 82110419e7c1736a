// Command recommend prints a board recommendation from the command line.
//
// By default it fetches live conditions for the spot's buoy. With -offline it
// skips the network and uses -wave, -period and -wind when given, which is
// handy for exploring how the heuristic reacts to conditions.
//
// Usage:
//
//	go run ./cmd/recommend -height 180 -weight 75 -ability intermediate -spot cox-bay
//	go run ./cmd/recommend -height 71 -height-unit in -weight 165 -weight-unit lb -offline -wave 4 -period 11 -wind 8
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/couchcryptid/surf-buddy/internal/adapter/ndbc"
	"github.com/couchcryptid/surf-buddy/internal/adapter/openmeteo"
	"github.com/couchcryptid/surf-buddy/internal/adapter/upstream"
	"github.com/couchcryptid/surf-buddy/internal/advisor"
	"github.com/couchcryptid/surf-buddy/internal/config"
	"github.com/couchcryptid/surf-buddy/internal/domain"
	"github.com/couchcryptid/surf-buddy/internal/observability"
	"github.com/couchcryptid/surf-buddy/internal/units"
)

type options struct {
	req     advisor.Request
	offline bool
	asJSON  bool
	waveFt  float64
	periodS float64
	windKts float64
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	var view domain.View
	if opts.offline {
		view, err = offlineView(opts)
	} else {
		view, err = liveView(opts.req)
	}
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	printView(out, view)
	return nil
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	var o options
	fs.StringVar(&o.req.Height, "height", "", "surfer height")
	fs.StringVar(&o.req.HeightUnit, "height-unit", "cm", "height unit: cm or in")
	fs.StringVar(&o.req.Weight, "weight", "", "surfer weight")
	fs.StringVar(&o.req.WeightUnit, "weight-unit", "kg", "weight unit: kg or lb")
	fs.StringVar(&o.req.Ability, "ability", "intermediate", "beginner, intermediate or advanced")
	fs.StringVar(&o.req.SpotID, "spot", "", "spot id, e.g. chesterman")
	fs.StringVar(&o.req.Station, "station", "", "NDBC station override")
	fs.BoolVar(&o.offline, "offline", false, "do not fetch live conditions")
	fs.BoolVar(&o.asJSON, "json", false, "print the view as JSON")
	fs.Float64Var(&o.waveFt, "wave", math.NaN(), "offline wave height in feet")
	fs.Float64Var(&o.periodS, "period", math.NaN(), "offline swell period in seconds")
	fs.Float64Var(&o.windKts, "wind", math.NaN(), "offline wind speed in knots")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if o.req.Height == "" || o.req.Weight == "" {
		fs.Usage()
		return options{}, fmt.Errorf("missing required flags: -height, -weight")
	}
	return o, nil
}

func offlineView(o options) (domain.View, error) {
	body, err := domain.ParseBody(o.req.Height, units.ParseLengthUnit(o.req.HeightUnit), o.req.Weight, units.ParseMassUnit(o.req.WeightUnit))
	if err != nil {
		return domain.View{}, err
	}

	state := domain.ViewState{
		StationOverride: o.req.Station,
		Body:            body,
		Ability:         domain.ParseAbility(o.req.Ability),
		Now:             domain.Now(),
	}
	if o.req.SpotID != "" {
		spot, ok := domain.FindSpot(o.req.SpotID)
		if !ok {
			return domain.View{}, fmt.Errorf("spot %q: %w", o.req.SpotID, domain.ErrInputInvalid)
		}
		state.Spot = &spot
	}
	if !math.IsNaN(o.waveFt) || !math.IsNaN(o.periodS) || !math.IsNaN(o.windKts) {
		snap := domain.ConditionsSnapshot{
			Station:    state.Station(),
			ObservedAt: state.Now,
			Conditions: domain.Conditions{WaveHeightFt: o.waveFt, PeriodS: o.periodS, WindKts: o.windKts},
		}.ForSpot(state.Spot)
		state.Snapshot = &snap
	}
	return domain.Render(state), nil
}

func liveView(req advisor.Request) (domain.View, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return domain.View{}, err
	}
	cfg, err := config.Load()
	if err != nil {
		return domain.View{}, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetricsForTesting()
	newUpstream := func(service string) *upstream.Client {
		return upstream.NewClient(service, cfg.UserAgent, cfg.UpstreamTimeout, metrics, logger)
	}
	meteo := openmeteo.NewClient(newUpstream("marine"), newUpstream("weather"), cfg.MarineBaseURL, cfg.WeatherBaseURL)

	svc := advisor.NewService(
		advisor.Sources{
			Observations: ndbc.NewClient(newUpstream("ndbc"), cfg.NDBCBaseURL),
			Marine:       meteo,
			Weather:      meteo,
		},
		nil,
		advisor.Options{DefaultStation: cfg.DefaultStation, FetchTimeout: cfg.UpstreamTimeout},
		logger, metrics,
	)
	return svc.Advise(context.Background(), req)
}

func printView(out io.Writer, v domain.View) {
	where := "station " + v.Station
	if v.Spot != nil {
		where = fmt.Sprintf("%s (%s, station %s)", v.Spot.Name, v.Spot.Region, v.Station)
	}
	fmt.Fprintf(out, "Spot:        %s\n", where)

	if v.HasForecast {
		c := v.Conditions
		fmt.Fprintf(out, "Conditions:  %.1f ft @ %.0f s, wind %.0f kts\n", c.WaveHeightFt, c.PeriodS, c.WindKts)
	} else {
		fmt.Fprintln(out, "Conditions:  unavailable, using all-around sizing")
	}

	if v.Recommendation == nil {
		fmt.Fprintln(out, "Board:       no recommendation")
		return
	}
	fmt.Fprintf(out, "Board:       %s\n", v.Recommendation.BoardType)
	fmt.Fprintf(out, "Length:      %s\n", v.LengthRange)
	fmt.Fprintf(out, "Volume:      %s\n", v.VolumeRange)
	fmt.Fprintf(out, "Shortboard:  %s\n", v.ShortVolumeRange)
	if v.Warning != "" {
		fmt.Fprintf(out, "Warning:     %s\n", v.Warning)
	}

	if v.Tide != nil {
		line := string(v.Tide.Trend)
		if v.Tide.Next != nil {
			line += fmt.Sprintf(", next %s at %s (%.2f m)", v.Tide.Next.Kind, v.Tide.Next.Time.Format("15:04"), v.Tide.Next.HeightM)
		}
		fmt.Fprintf(out, "Tide:        %s\n", line)
	}
	for _, d := range v.Outlook {
		if d.WaveMaxFt == nil {
			continue
		}
		fmt.Fprintf(out, "Outlook:     %s up to %.1f ft\n", d.Date, *d.WaveMaxFt)
	}
}
