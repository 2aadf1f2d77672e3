// Package chart is the application core: it turns parsed birth records into
// computed charts and synastry reports. The service owns the instant
// conversion policy (timezone-aware when the place resolves, naive otherwise)
// and the containment rule for oracle failures: one body failing never fails
// a chart.
package chart

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/astroluna/astroluna/internal/domain/astro"
	"github.com/astroluna/astroluna/internal/domain/birth"
	"github.com/astroluna/astroluna/internal/telemetry/metrics"
)

// Oracle yields a raw position result for one body at one instant. Result
// shapes vary by backend; decodeLongitude knows the accepted ones.
type Oracle interface {
	Calc(ctx context.Context, jd astro.JulianDay, body astro.Body) (any, error)
}

// TimezoneResolver finds the zone a place keeps its clocks in.
type TimezoneResolver interface {
	Resolve(place string) (*time.Location, string, bool)
}

// InstantPath names which conversion produced a chart's instant.
type InstantPath string

const (
	// PathTimezone means the wall clock was converted through the place's zone.
	PathTimezone InstantPath = "tz"
	// PathNaive means the wall clock was read as universal time directly.
	PathNaive InstantPath = "naive"
)

// Chart is one computed natal chart.
type Chart struct {
	Record    birth.Record
	JD        astro.JulianDay
	Path      InstantPath
	Positions astro.PositionMap
	Signs     map[astro.Body]astro.Sign
}

// Synastry is a pairwise comparison of two charts.
type Synastry struct {
	A       *Chart
	B       *Chart
	Aspects []astro.Aspect
}

// Service computes charts. Safe for concurrent use.
type Service struct {
	oracle  Oracle
	zones   TimezoneResolver
	metrics *metrics.Registry
}

// NewService wires a chart service. zones may be nil (every chart then takes
// the naive path) and metrics may be nil (nothing is recorded).
func NewService(oracle Oracle, zones TimezoneResolver, m *metrics.Registry) *Service {
	return &Service{oracle: oracle, zones: zones, metrics: m}
}

// Instant converts a record's wall clock into a julian day. Known places go
// through their zone to UTC; unknown places, and clock values no calendar
// can hold, fall back to reading the wall clock as universal time. The
// fallback is silent: charts stay comparable with ones computed before
// timezone support existed, and the user is never blocked by geography.
func (s *Service) Instant(rec birth.Record) (astro.JulianDay, InstantPath, error) {
	civil, err := rec.Civil()
	if err != nil {
		return 0, "", err
	}

	if s.zones != nil && civil.Valid() {
		if loc, zone, ok := s.zones.Resolve(rec.Place); ok {
			local := time.Date(civil.Year, time.Month(civil.Month), civil.Day,
				civil.Hour, civil.Minute, 0, 0, loc)
			utc := local.UTC()
			hours := float64(utc.Hour()) + float64(utc.Minute())/60 + float64(utc.Second())/3600
			jd := astro.JulianDayUT(utc.Year(), int(utc.Month()), utc.Day(), hours)
			s.metrics.RecordInstantPath(string(PathTimezone))
			log.Debug().Str("place", rec.Place).Str("zone", zone).
				Float64("jd", float64(jd)).Msg("instant converted through timezone")
			return jd, PathTimezone, nil
		}
	}

	jd := astro.JulianDayUT(civil.Year, civil.Month, civil.Day, civil.ClockHours())
	s.metrics.RecordInstantPath(string(PathNaive))
	log.Debug().Str("place", rec.Place).Float64("jd", float64(jd)).
		Msg("no timezone mapping, reading wall clock as universal time")
	return jd, PathNaive, nil
}

// Compute builds the natal chart for a record. Oracle failures are contained
// per body: the failing body is marked unresolved and the chart proceeds.
// Only an unreadable record or a canceled context fails the whole chart.
func (s *Service) Compute(ctx context.Context, rec birth.Record) (*Chart, error) {
	timer := s.metrics.StartTimer("natal")

	jd, path, err := s.Instant(rec)
	if err != nil {
		timer.Stop("error")
		return nil, err
	}

	positions := astro.NewPositionMap()
	for _, body := range astro.Bodies {
		if err := ctx.Err(); err != nil {
			timer.Stop("canceled")
			return nil, err
		}
		res, calcErr := s.oracle.Calc(ctx, jd, body)
		if calcErr != nil {
			log.Warn().Err(calcErr).Str("body", body.String()).
				Msg("oracle failed for body, marking unresolved")
			s.metrics.RecordBodyUnresolved(body.String())
			continue
		}
		lon, ok := decodeLongitude(res)
		if !ok {
			log.Warn().Str("body", body.String()).
				Msg("undecodable oracle result, marking unresolved")
			s.metrics.RecordBodyUnresolved(body.String())
			continue
		}
		positions[body] = astro.Position{Longitude: astro.Norm360(lon), Resolved: true}
	}

	signs := make(map[astro.Body]astro.Sign)
	for _, body := range astro.Bodies {
		if lon, ok := positions.Longitude(body); ok {
			signs[body] = astro.SignOf(lon)
		}
	}

	timer.Stop("success")
	return &Chart{Record: rec, JD: jd, Path: path, Positions: positions, Signs: signs}, nil
}

// Synastry computes both charts and classifies the per-body angular
// separations between them. Bodies unresolved on either side are skipped.
func (s *Service) Synastry(ctx context.Context, a, b birth.Record) (*Synastry, error) {
	timer := s.metrics.StartTimer("synastry")

	chartA, err := s.Compute(ctx, a)
	if err != nil {
		timer.Stop("error")
		return nil, err
	}
	chartB, err := s.Compute(ctx, b)
	if err != nil {
		timer.Stop("error")
		return nil, err
	}

	timer.Stop("success")
	return &Synastry{
		A:       chartA,
		B:       chartB,
		Aspects: astro.Synastry(chartA.Positions, chartB.Positions),
	}, nil
}
