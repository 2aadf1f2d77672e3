package render

import (
	"fmt"
	"strings"

	"github.com/astroluna/astroluna/internal/application/chart"
	"github.com/astroluna/astroluna/internal/domain/astro"
)

// maxAspectLines caps the synastry aspect listing.
const maxAspectLines = 40

// NatalReport renders the natal summary in Markdown. Bodies the oracle could
// not resolve get a dash line instead of disappearing, so the reader sees
// the full body set either way.
func NatalReport(c *chart.Chart) string {
	var b strings.Builder
	b.WriteString("🌟 *Натальная карта*\n")
	fmt.Fprintf(&b, "📅 %s   ⏰ %s   📍 %s\n", c.Record.Date, c.Record.Time, orUnknown(c.Record.Place))
	b.WriteString("\n")

	for _, body := range astro.Bodies {
		lon, ok := c.Positions.Longitude(body)
		if !ok {
			fmt.Fprintf(&b, "• %s: — (н/д)\n", BodyRU(body))
			continue
		}
		sign := astro.SignOf(lon)
		fmt.Fprintf(&b, "• %s в *%s* (%.1f°) — %s\n", BodyRU(body), SignRU(sign), lon, Description(sign))
	}
	return strings.TrimRight(b.String(), "\n")
}

// SynastryReport renders the pairwise comparison: one line per shared body
// with its angle and mood, capped at maxAspectLines, plus a reading hint.
func SynastryReport(s *chart.Synastry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💞 Синастрия: %s — %s\n\n", orUnknown(s.A.Record.Name), orUnknown(s.B.Record.Name))
	b.WriteString("🔗 Межпланетные аспекты (по одинаковым планетам):\n")

	lines := make([]string, 0, len(s.Aspects))
	for _, asp := range s.Aspects {
		lines = append(lines, fmt.Sprintf("%s: угол ≈ %.1f° — %s", BodyRU(asp.Body), asp.Separation, AspectMood(asp.Kind)))
	}
	if len(lines) > maxAspectLines {
		lines = lines[:maxAspectLines]
	}
	b.WriteString(strings.Join(lines, "\n"))

	b.WriteString("\n\n(Простой анализ: конъюнкции/трины/секстили — гармония; квадраты/оппозиции — напряжение.)")
	return b.String()
}
