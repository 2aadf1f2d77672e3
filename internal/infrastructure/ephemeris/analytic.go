// Package ephemeris computes geocentric ecliptic positions for the tracked
// bodies from closed-form mean orbital elements. It is the built-in position
// oracle: no data files, no network, accuracy on the order of arcminutes for
// the Moon and a few hundredths to tenths of a degree for the planets over
// 1800-2050. That is orders of magnitude finer than the 30 degree sign
// buckets and multi-degree aspect orbs downstream.
package ephemeris

import (
	"context"
	"fmt"
	"math"

	"github.com/astroluna/astroluna/internal/domain/astro"
)

const (
	j2000          = 2451545.0
	daysPerCentury = 36525.0

	// General precession in ecliptic longitude, degrees per Julian century.
	// The planetary elements are referred to the J2000 frame; adding this
	// shifts longitudes to the equinox of date, which is what sign
	// classification works in. The lunar series is of-date already.
	precessionCy = 1.3969713
)

// Analytic is a self-contained position oracle for the tracked body set.
// Zero value is not usable; construct with NewAnalytic. Safe for concurrent
// use: all state is read-only tables.
type Analytic struct{}

// NewAnalytic returns the built-in analytic oracle.
func NewAnalytic() *Analytic {
	return &Analytic{}
}

// Calc returns the body's geocentric position at the given instant as a
// three element vector: ecliptic longitude and latitude in degrees (equinox
// of date) and distance in au. The vector shape matches what external
// ephemeris backends produce, so the caller's result decoding stays uniform.
func (a *Analytic) Calc(ctx context.Context, jd astro.JulianDay, body astro.Body) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := (float64(jd) - j2000) / daysPerCentury

	switch body {
	case astro.Moon:
		lon, lat, dist := moonPosition(t)
		return []float64{astro.Norm360(lon), lat, dist}, nil
	case astro.Sun:
		ex, ey, ez := helioPosition(earthElements, t)
		return geocentric(-ex, -ey, -ez, t), nil
	default:
		el, ok := planetElements[body]
		if !ok {
			return nil, fmt.Errorf("ephemeris: no orbital elements for body %v", body)
		}
		px, py, pz := helioPosition(el, t)
		ex, ey, ez := helioPosition(earthElements, t)
		return geocentric(px-ex, py-ey, pz-ez, t), nil
	}
}

// geocentric converts a geocentric ecliptic vector (J2000 frame, au) into
// the [lon, lat, dist] result shape, with longitude precessed to the equinox
// of date.
func geocentric(x, y, z, t float64) []float64 {
	dist := math.Sqrt(x*x + y*y + z*z)
	lon := astro.Norm360(deg(math.Atan2(y, x)) + precessionCy*t)
	lat := deg(math.Atan2(z, math.Hypot(x, y)))
	return []float64{lon, lat, dist}
}
