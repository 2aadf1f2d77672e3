package ephemeris

import "math"

// Lunar mean arguments, linear in Julian centuries past J2000, referred to
// the mean equinox of date. Degrees.
const (
	moonMeanLon   = 218.3164477 // L'
	moonMeanLonCy = 481267.88123421

	moonElong   = 297.8501921 // D
	moonElongCy = 445267.1114034

	sunAnom   = 357.5291092 // M
	sunAnomCy = 35999.0502909

	moonAnom   = 134.9633964 // M'
	moonAnomCy = 477198.8675055

	moonLatArg   = 93.2720950 // F
	moonLatArgCy = 483202.0175233
)

// moonTerm is one periodic term: a coefficient and the integer multipliers of
// the four fundamental arguments D, M, M', F.
type moonTerm struct {
	coeff      float64
	d, m, mp, f int
}

// Principal periodic terms of the lunar longitude (degrees) and distance
// (km), the largest entries of the classical series. Truncation keeps the
// longitude within a few arcminutes, which is far inside a 30 degree sign
// bucket and the coarsest aspect orb.
var moonLonTerms = []moonTerm{
	{6.288774, 0, 0, 1, 0},
	{1.274027, 2, 0, -1, 0},
	{0.658314, 2, 0, 0, 0},
	{0.213618, 0, 0, 2, 0},
	{-0.185116, 0, 1, 0, 0},
	{-0.114332, 0, 0, 0, 2},
	{0.058793, 2, 0, -2, 0},
	{0.057066, 2, -1, -1, 0},
	{0.053322, 2, 0, 1, 0},
	{0.045758, 2, -1, 0, 0},
	{-0.040923, 0, 1, -1, 0},
	{-0.034720, 1, 0, 0, 0},
	{-0.030383, 0, 1, 1, 0},
	{0.015327, 2, 0, 0, -2},
	{-0.012528, 0, 0, 1, 2},
	{0.010980, 0, 0, 1, -2},
}

var moonLatTerms = []moonTerm{
	{5.128122, 0, 0, 0, 1},
	{0.280602, 0, 0, 1, 1},
	{0.277693, 0, 0, 1, -1},
	{0.173237, 2, 0, 0, -1},
	{0.055413, 2, 0, -1, 1},
	{0.046271, 2, 0, -1, -1},
}

var moonDistTerms = []moonTerm{
	{-20905.355, 0, 0, 1, 0},
	{-3699.111, 2, 0, -1, 0},
	{-2955.968, 2, 0, 0, 0},
	{-569.925, 0, 0, 2, 0},
}

const (
	moonMeanDistKM = 385000.56
	kmPerAU        = 149597870.7
)

// moonPosition returns the Moon's geocentric ecliptic longitude and latitude
// (degrees, equinox of date) and distance (au) at t Julian centuries past
// J2000.
func moonPosition(t float64) (lon, lat, dist float64) {
	lp := moonMeanLon + moonMeanLonCy*t
	d := rad(moonElong + moonElongCy*t)
	m := rad(sunAnom + sunAnomCy*t)
	mp := rad(moonAnom + moonAnomCy*t)
	f := rad(moonLatArg + moonLatArgCy*t)

	arg := func(term moonTerm) float64 {
		return float64(term.d)*d + float64(term.m)*m + float64(term.mp)*mp + float64(term.f)*f
	}

	sumLon := 0.0
	for _, term := range moonLonTerms {
		sumLon += term.coeff * math.Sin(arg(term))
	}
	sumLat := 0.0
	for _, term := range moonLatTerms {
		sumLat += term.coeff * math.Sin(arg(term))
	}
	sumDist := 0.0
	for _, term := range moonDistTerms {
		sumDist += term.coeff * math.Cos(arg(term))
	}

	return lp + sumLon, sumLat, (moonMeanDistKM + sumDist) / kmPerAU
}
