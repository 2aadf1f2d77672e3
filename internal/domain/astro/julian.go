package astro

import "math"

// JulianDay is a continuous astronomical day count with fractional-day
// resolution, referenced to UT. It is the single time representation the
// chart pipeline computes with: monotonically increasing with real time and
// independent of calendar or timezone.
type JulianDay float64

// JulianDayUT converts a civil calendar date plus a decimal hour-of-day into
// a julian day number (Meeus, Astronomical Algorithms, ch. 7). Dates on or
// after 1582-10-15 are treated as Gregorian, earlier dates as Julian, matching
// the usual ephemeris convention. Out-of-range months or days are carried
// through the arithmetic rather than rejected.
func JulianDayUT(year, month, day int, hours float64) JulianDay {
	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}

	var b int
	if year > 1582 || (year == 1582 && (month > 10 || (month == 10 && day >= 15))) {
		a := y / 100
		b = 2 - a + a/4
	}

	jd := math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(day) + hours/24.0 +
		float64(b) - 1524.5

	return JulianDay(jd)
}

// Norm360 reduces an angle in degrees into [0, 360).
func Norm360(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
