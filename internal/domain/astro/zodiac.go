package astro

import "math"

// Sign is one of the 12 zodiac signs, each covering a fixed 30° arc of
// ecliptic longitude starting at 0° Aries.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [...]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

func (s Sign) String() string {
	if s < 0 || int(s) >= len(signNames) {
		return "unknown"
	}
	return signNames[s]
}

// SignOf maps an ecliptic longitude to its zodiac sign. Periodic over the
// full circle: SignOf(d) == SignOf(d+360) for any real d.
func SignOf(deg float64) Sign {
	idx := int(math.Floor(Norm360(deg)/30)) % 12
	return Sign(idx)
}
