package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/basicfont"

	"github.com/astroluna/astroluna/internal/application/chart"
	"github.com/astroluna/astroluna/internal/domain/astro"
)

// WheelConfig sizes the wheel canvas and points at a Cyrillic-capable font.
// With no usable font file the renderer falls back to a builtin bitmap face;
// the wheel still draws, just with plainer lettering.
type WheelConfig struct {
	Size     int
	FontPath string
}

// DefaultWheelConfig matches the classic 8 inch, 150 dpi wheel.
func DefaultWheelConfig() WheelConfig {
	return WheelConfig{Size: 1200}
}

// Candidate fonts with Cyrillic coverage, in preference order.
var defaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/noto/NotoSans-Regular.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
}

// Body dot colors, one per tracked body in Bodies order.
var wheelPalette = [][3]float64{
	{0.122, 0.467, 0.706},
	{1.000, 0.498, 0.055},
	{0.173, 0.627, 0.173},
	{0.839, 0.153, 0.157},
	{0.580, 0.404, 0.741},
	{0.549, 0.337, 0.294},
	{0.890, 0.467, 0.761},
}

// Wheel renders chart wheels to PNG.
type Wheel struct {
	cfg WheelConfig
}

// NewWheel builds a renderer; zero config fields take defaults.
func NewWheel(cfg WheelConfig) *Wheel {
	if cfg.Size <= 0 {
		cfg.Size = 1200
	}
	return &Wheel{cfg: cfg}
}

// Natal draws one chart: zodiac ring, sector spokes, a dot per resolved body
// with its name and degree, and a title with the birth data.
func (w *Wheel) Natal(c *chart.Chart) ([]byte, error) {
	size := float64(w.cfg.Size)
	dc := gg.NewContext(w.cfg.Size, w.cfg.Size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	cx, cy := size/2, size/2+size*0.02
	radius := size * 0.38

	w.drawZodiacRing(dc, cx, cy, radius)
	w.drawBodies(dc, c.Positions, cx, cy, radius, true)

	w.setFont(dc, size*0.022)
	dc.SetRGB(0, 0, 0)
	title := fmt.Sprintf("Натальная карта %s %s", c.Record.Date, c.Record.Time)
	dc.DrawStringAnchored(title, size/2, size*0.045, 0.5, 0.5)
	dc.DrawStringAnchored(orUnknown(c.Record.Place), size/2, size*0.045+size*0.03, 0.5, 0.5)

	return encodePNG(dc)
}

// Synastry draws both charts side by side, titled with the two names.
func (w *Wheel) Synastry(s *chart.Synastry) ([]byte, error) {
	size := float64(w.cfg.Size)
	dc := gg.NewContext(2*w.cfg.Size, w.cfg.Size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	radius := size * 0.33
	panels := []struct {
		chart *chart.Chart
		cx    float64
	}{
		{s.A, size / 2},
		{s.B, size + size/2},
	}
	for _, p := range panels {
		cy := size/2 + size*0.02
		w.drawZodiacRing(dc, p.cx, cy, radius)
		w.drawBodies(dc, p.chart.Positions, p.cx, cy, radius, false)

		w.setFont(dc, size*0.024)
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(orUnknown(p.chart.Record.Name), p.cx, size*0.05, 0.5, 0.5)
	}

	return encodePNG(dc)
}

// drawZodiacRing draws the outer circle, the twelve 30 degree spokes and the
// sign names just outside the rim.
func (w *Wheel) drawZodiacRing(dc *gg.Context, cx, cy, radius float64) {
	dc.SetRGB(0.83, 0.83, 0.83)
	dc.SetLineWidth(2)
	dc.DrawCircle(cx, cy, radius)
	dc.Stroke()

	dc.SetLineWidth(0.8)
	for i := 0; i < 12; i++ {
		ang := float64(i) * 30 * math.Pi / 180
		dc.DrawLine(cx, cy, cx+radius*math.Cos(ang), cy-radius*math.Sin(ang))
		dc.Stroke()
	}

	w.setFont(dc, radius*0.055)
	dc.SetRGB(0.2, 0.2, 0.2)
	for i := 0; i < 12; i++ {
		ang := float64(i) * 30 * math.Pi / 180
		sx := cx + 1.08*radius*math.Cos(ang)
		sy := cy - 1.08*radius*math.Sin(ang)
		dc.DrawStringAnchored(signRU[i], sx, sy, 0.5, 0.5)
	}
}

// drawBodies plots a dot per resolved body. Longitude zero sits at the right
// edge and grows counterclockwise, as on the classic wheel. withDegrees adds
// the numeric longitude under the body name.
func (w *Wheel) drawBodies(dc *gg.Context, positions astro.PositionMap, cx, cy, radius float64, withDegrees bool) {
	dotRadius := 0.78
	labelRadius := 0.92
	if !withDegrees {
		dotRadius = 0.75
		labelRadius = 0.86
	}

	w.setFont(dc, radius*0.05)
	for i, body := range astro.Bodies {
		lon, ok := positions.Longitude(body)
		if !ok {
			continue
		}
		ang := lon * math.Pi / 180
		x := cx + dotRadius*radius*math.Cos(ang)
		y := cy - dotRadius*radius*math.Sin(ang)

		color := wheelPalette[i%len(wheelPalette)]
		dc.SetRGB(color[0], color[1], color[2])
		dc.DrawPoint(x, y, radius*0.022)
		dc.Fill()

		lx := cx + labelRadius*radius*math.Cos(ang)
		ly := cy - labelRadius*radius*math.Sin(ang)
		dc.SetRGB(0.1, 0.1, 0.1)
		if withDegrees {
			dc.DrawStringAnchored(BodyRU(body), lx, ly-radius*0.03, 0.5, 0.5)
			dc.DrawStringAnchored(fmt.Sprintf("%.1f°", lon), lx, ly+radius*0.03, 0.5, 0.5)
		} else {
			dc.DrawStringAnchored(BodyRU(body), lx, ly, 0.5, 0.5)
		}
	}
}

// setFont loads the configured font at the given size, walking the default
// candidates otherwise. The builtin bitmap face is the last resort.
func (w *Wheel) setFont(dc *gg.Context, points float64) {
	if w.cfg.FontPath != "" {
		if err := dc.LoadFontFace(w.cfg.FontPath, points); err == nil {
			return
		}
		log.Debug().Str("font", w.cfg.FontPath).Msg("configured font not loadable, trying defaults")
	}
	for _, path := range defaultFontPaths {
		if err := dc.LoadFontFace(path, points); err == nil {
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("render: encode wheel: %w", err)
	}
	return buf.Bytes(), nil
}
