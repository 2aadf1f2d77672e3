package astro

// Position is one body's resolved ecliptic longitude, or an unresolved marker
// when the ephemeris oracle failed for that body. Unresolved positions flow
// through classification and synastry as skips, never as errors.
type Position struct {
	Longitude float64 // degrees in [0, 360); meaningless when !Resolved
	Resolved  bool
}

// PositionMap holds exactly one Position per tracked body.
type PositionMap map[Body]Position

// NewPositionMap returns a map with every tracked body present and marked
// unresolved, preserving the one-entry-per-body invariant before resolution.
func NewPositionMap() PositionMap {
	m := make(PositionMap, len(Bodies))
	for _, b := range Bodies {
		m[b] = Position{}
	}
	return m
}

// Longitude returns the body's longitude and whether it resolved.
func (m PositionMap) Longitude(b Body) (float64, bool) {
	p, ok := m[b]
	if !ok || !p.Resolved {
		return 0, false
	}
	return p.Longitude, true
}

// ResolvedCount reports how many of the tracked bodies carry a usable
// longitude.
func (m PositionMap) ResolvedCount() int {
	n := 0
	for _, b := range Bodies {
		if m[b].Resolved {
			n++
		}
	}
	return n
}
