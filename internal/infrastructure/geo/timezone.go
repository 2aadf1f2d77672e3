// Package geo resolves user-entered place names: a timezone index for the
// birth instant conversion and a Nominatim client for coordinates. Both are
// best-effort surfaces; callers treat a miss as "compute without it", never
// as a failure of the chart itself.
package geo

import (
	"time"
	_ "time/tzdata" // charts must convert zones even on hosts without a system tz database
)

// cityZones maps well-known city spellings to IANA zone names. User-facing
// Russian spellings are first-class here. Extended per deployment via config;
// lookups are exact-case.
var cityZones = map[string]string{
	"Костанай":        "Asia/Almaty",
	"Алматы":          "Asia/Almaty",
	"Астана":          "Asia/Nur-Sultan",
	"Нур-Султан":      "Asia/Nur-Sultan",
	"Москва":          "Europe/Moscow",
	"Санкт-Петербург": "Europe/Moscow",
	"Лондон":          "Europe/London",
	"Нью-Йорк":        "America/New_York",
	"Karachi":         "Asia/Karachi",
	"Карачи":          "Asia/Karachi",
}

// TimezoneIndex answers "what zone is this place in" from the builtin city
// table plus deployment extras, falling back to reading the place string
// itself as an IANA zone name.
type TimezoneIndex struct {
	zones map[string]string
}

// NewTimezoneIndex merges extra city mappings over the builtin table. Extras
// win on collision.
func NewTimezoneIndex(extra map[string]string) *TimezoneIndex {
	zones := make(map[string]string, len(cityZones)+len(extra))
	for city, zone := range cityZones {
		zones[city] = zone
	}
	for city, zone := range extra {
		zones[city] = zone
	}
	return &TimezoneIndex{zones: zones}
}

// Resolve returns the location for a place, the zone name it resolved
// through, and whether resolution succeeded. An empty place never resolves;
// a table entry naming a zone the tz database does not know reads as a miss
// so the caller can take its naive path.
func (ti *TimezoneIndex) Resolve(place string) (*time.Location, string, bool) {
	if place == "" {
		return nil, "", false
	}
	if zone, ok := ti.zones[place]; ok {
		if loc, err := time.LoadLocation(zone); err == nil {
			return loc, zone, true
		}
		return nil, "", false
	}
	// The place may itself be a zone name ("Europe/Berlin").
	if loc, err := time.LoadLocation(place); err == nil {
		return loc, place, true
	}
	return nil, "", false
}

// Known reports whether the place is in the city table, without touching the
// tz database.
func (ti *TimezoneIndex) Known(place string) bool {
	_, ok := ti.zones[place]
	return ok
}
