package astro

import "math"

// AspectKind names the angular relationship category between two bodies'
// longitudes.
type AspectKind int

const (
	Conjunction AspectKind = iota
	Opposition
	Trine
	Square
	Sextile
	Minor // none of the major windows matched
)

var aspectNames = [...]string{
	"conjunction", "opposition", "trine", "square", "sextile", "minor",
}

func (k AspectKind) String() string {
	if k < 0 || int(k) >= len(aspectNames) {
		return "unknown"
	}
	return aspectNames[k]
}

// aspectWindow is one classification band: a center angle and a tolerance
// half-width around it.
type aspectWindow struct {
	kind   AspectKind
	center float64
	orb    float64
}

// aspectWindows is evaluated in order and the first match wins. The windows
// overlap at some boundary angles; the order and half-widths are fixed and
// earlier entries take priority.
var aspectWindows = []aspectWindow{
	{Conjunction, 0, 8},
	{Opposition, 180, 8},
	{Trine, 120, 8},
	{Square, 90, 7},
	{Sextile, 60, 6},
}

// Separation returns the circular angular distance between two longitudes,
// in [0, 180], symmetric in its arguments and correct across the 0°/360°
// wrap.
func Separation(a, b float64) float64 {
	m := math.Mod(a-b+180, 360)
	if m < 0 {
		m += 360
	}
	return math.Abs(m - 180)
}

// ClassifyAspect buckets an angular separation into its aspect category.
func ClassifyAspect(sep float64) AspectKind {
	for _, w := range aspectWindows {
		if math.Abs(sep-w.center) < w.orb {
			return w.kind
		}
	}
	return Minor
}

// Aspect is one synastry finding: the shared body, the numeric separation
// kept for display, and its category.
type Aspect struct {
	Body       Body
	Separation float64
	Kind       AspectKind
}

// Synastry compares two charts body by body, in Bodies order, and classifies
// the angular separation of each shared body. A body unresolved on either
// side is skipped rather than reported. The full sequence is returned;
// truncation for display is the caller's business.
func Synastry(a, b PositionMap) []Aspect {
	out := make([]Aspect, 0, len(Bodies))
	for _, body := range Bodies {
		la, okA := a.Longitude(body)
		lb, okB := b.Longitude(body)
		if !okA || !okB {
			continue
		}
		sep := Separation(la, lb)
		out = append(out, Aspect{Body: body, Separation: sep, Kind: ClassifyAspect(sep)})
	}
	return out
}
