// Package astro holds the pure chart computation core: the tracked body set,
// julian day arithmetic, zodiac classification and the synastry aspect engine.
// Everything in this package is a deterministic function of its inputs; the
// only state is a handful of fixed tables initialized at load time.
package astro

// Body identifies one of the tracked celestial bodies. The numeric value is
// the body's stable external ephemeris code (Swiss Ephemeris numbering), which
// oracles receive verbatim.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
)

// Bodies is the fixed, ordered set of tracked bodies. Chart output and
// synastry sequences follow this order. Never mutated at runtime.
var Bodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn}

var bodyNames = map[Body]string{
	Sun:     "Sun",
	Moon:    "Moon",
	Mercury: "Mercury",
	Venus:   "Venus",
	Mars:    "Mars",
	Jupiter: "Jupiter",
	Saturn:  "Saturn",
}

func (b Body) String() string {
	if name, ok := bodyNames[b]; ok {
		return name
	}
	return "unknown"
}

// Code returns the external ephemeris identifier for the body.
func (b Body) Code() int {
	return int(b)
}
