package ephemeris

import (
	"math"

	"github.com/astroluna/astroluna/internal/domain/astro"
)

// elements is one body's mean Keplerian orbit: value at J2000 plus a linear
// rate per Julian century. Angles in degrees, semi-major axis in au.
type elements struct {
	a, aDot float64 // semi-major axis
	e, eDot float64 // eccentricity
	i, iDot float64 // inclination
	l, lDot float64 // mean longitude
	p, pDot float64 // longitude of perihelion
	n, nDot float64 // longitude of ascending node
}

// planetElements are the JPL approximate elements (Standish, Table 1), valid
// 1800-2050. Outside that span the linear rates extrapolate and accuracy
// degrades gracefully.
var planetElements = map[astro.Body]elements{
	astro.Mercury: {
		a: 0.38709927, aDot: 0.00000037,
		e: 0.20563593, eDot: 0.00001906,
		i: 7.00497902, iDot: -0.00594749,
		l: 252.25032350, lDot: 149472.67411175,
		p: 77.45779628, pDot: 0.16047689,
		n: 48.33076593, nDot: -0.12534081,
	},
	astro.Venus: {
		a: 0.72333566, aDot: 0.00000390,
		e: 0.00677672, eDot: -0.00004107,
		i: 3.39467605, iDot: -0.00078890,
		l: 181.97909950, lDot: 58517.81538729,
		p: 131.60246718, pDot: 0.00268329,
		n: 76.67984255, nDot: -0.27769418,
	},
	astro.Mars: {
		a: 1.52371034, aDot: 0.00001847,
		e: 0.09339410, eDot: 0.00007882,
		i: 1.84969142, iDot: -0.00813131,
		l: -4.55343205, lDot: 19140.30268499,
		p: -23.94362959, pDot: 0.44441088,
		n: 49.55953891, nDot: -0.29257343,
	},
	astro.Jupiter: {
		a: 5.20288700, aDot: -0.00011607,
		e: 0.04838624, eDot: -0.00013253,
		i: 1.30439695, iDot: -0.00183714,
		l: 34.39644051, lDot: 3034.74612775,
		p: 14.72847983, pDot: 0.21252668,
		n: 100.47390909, nDot: 0.20469106,
	},
	astro.Saturn: {
		a: 9.53667594, aDot: -0.00125060,
		e: 0.05386179, eDot: -0.00050991,
		i: 2.48599187, iDot: 0.00193609,
		l: 49.95424423, lDot: 1222.49362201,
		p: 92.59887831, pDot: -0.41897216,
		n: 113.66242448, nDot: -0.28867794,
	},
}

// earthElements is the Earth-Moon barycenter orbit, used both for the Sun's
// geocentric position (by reflection) and to shift heliocentric planet
// vectors to the geocenter.
var earthElements = elements{
	a: 1.00000261, aDot: 0.00000562,
	e: 0.01671123, eDot: -0.00004392,
	i: -0.00001531, iDot: -0.01294668,
	l: 100.46457166, lDot: 35999.37244981,
	p: 102.93768193, pDot: 0.32327364,
	n: 0.0, nDot: 0.0,
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
func deg(r float64) float64   { return r * 180 / math.Pi }

// solveKepler finds the eccentric anomaly for a mean anomaly (radians) by
// Newton iteration. Converges in a handful of steps for planetary
// eccentricities.
func solveKepler(m, e float64) float64 {
	E := m
	if e > 0.8 {
		E = math.Pi
	}
	for i := 0; i < 25; i++ {
		d := (E - e*math.Sin(E) - m) / (1 - e*math.Cos(E))
		E -= d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	return E
}

// helioPosition evaluates one orbit at t Julian centuries past J2000 and
// returns the heliocentric ecliptic vector (J2000 frame, au).
func helioPosition(el elements, t float64) (x, y, z float64) {
	a := el.a + el.aDot*t
	e := el.e + el.eDot*t
	inc := rad(el.i + el.iDot*t)
	meanLon := el.l + el.lDot*t
	periLon := el.p + el.pDot*t
	nodeLon := el.n + el.nDot*t

	m := rad(astro.Norm360(meanLon - periLon))
	w := rad(periLon - nodeLon)
	om := rad(nodeLon)

	E := solveKepler(m, e)
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cw, sw := math.Cos(w), math.Sin(w)
	co, so := math.Cos(om), math.Sin(om)
	ci, si := math.Cos(inc), math.Sin(inc)

	x = (cw*co-sw*so*ci)*xp + (-sw*co-cw*so*ci)*yp
	y = (cw*so+sw*co*ci)*xp + (-sw*so+cw*co*ci)*yp
	z = sw*si*xp + cw*si*yp
	return x, y, z
}
