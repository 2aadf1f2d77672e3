package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroluna/astroluna/internal/application/chart"
	"github.com/astroluna/astroluna/internal/domain/astro"
	"github.com/astroluna/astroluna/internal/domain/birth"
)

func fixtureChart(name, place string) *chart.Chart {
	positions := astro.NewPositionMap()
	longs := map[astro.Body]float64{
		astro.Sun:     45,    // Телец
		astro.Moon:    95,    // Рак
		astro.Mercury: 10,    // Овен
		astro.Venus:   200.5, // Весы
		astro.Mars:    280,   // Козерог
		astro.Jupiter: 330,   // Рыбы
		astro.Saturn:  150,   // Дева
	}
	signs := make(map[astro.Body]astro.Sign)
	for body, lon := range longs {
		positions[body] = astro.Position{Longitude: lon, Resolved: true}
		signs[body] = astro.SignOf(lon)
	}
	return &chart.Chart{
		Record:    birth.Record{Name: name, Date: "01.05.1990", Time: "14:30", Place: place},
		JD:        astro.JulianDayUT(1990, 5, 1, 14.5),
		Path:      chart.PathNaive,
		Positions: positions,
		Signs:     signs,
	}
}

func TestNatalReport(t *testing.T) {
	report := NatalReport(fixtureChart("Ann", "Москва"))
	lines := strings.Split(report, "\n")

	require.GreaterOrEqual(t, len(lines), 10)
	assert.Equal(t, "🌟 *Натальная карта*", lines[0])
	assert.Equal(t, "📅 01.05.1990   ⏰ 14:30   📍 Москва", lines[1])
	assert.Empty(t, lines[2])

	assert.Contains(t, report, "• Солнце в *Телец* (45.0°) — спокойная, надёжная и практичная личность")
	assert.Contains(t, report, "• Луна в *Рак* (95.0°) — эмоциональная и заботливая личность")
	assert.Contains(t, report, "• Венера в *Весы* (200.5°) — уравновешенная и дипломатичная личность")

	// Bodies come out in the fixed tracked order.
	assert.Less(t, strings.Index(report, "Солнце"), strings.Index(report, "Луна"))
	assert.Less(t, strings.Index(report, "Луна"), strings.Index(report, "Меркурий"))
}

func TestNatalReport_UnresolvedBodyGetsDashLine(t *testing.T) {
	c := fixtureChart("Ann", "Москва")
	c.Positions[astro.Moon] = astro.Position{}
	delete(c.Signs, astro.Moon)

	report := NatalReport(c)
	assert.Contains(t, report, "• Луна: — (н/д)")
	assert.NotContains(t, report, "Луна в")
}

func TestNatalReport_EmptyPlaceShowsPlaceholder(t *testing.T) {
	report := NatalReport(fixtureChart("Ann", ""))
	assert.Contains(t, report, "📍 Неизвестно")
}

func TestSynastryReport(t *testing.T) {
	a := fixtureChart("Ann", "Москва")
	b := fixtureChart("Боб", "Алматы")
	syn := &chart.Synastry{A: a, B: b, Aspects: astro.Synastry(a.Positions, b.Positions)}

	report := SynastryReport(syn)
	assert.True(t, strings.HasPrefix(report, "💞 Синастрия: Ann — Боб\n"))
	assert.Contains(t, report, "🔗 Межпланетные аспекты (по одинаковым планетам):")
	assert.Contains(t, report, "Солнце: угол ≈ 0.0° — Конъюнкция (сильная связь)")
	assert.True(t, strings.HasSuffix(report,
		"(Простой анализ: конъюнкции/трины/секстили — гармония; квадраты/оппозиции — напряжение.)"))
}

func TestSynastryReport_MoodPerAspectKind(t *testing.T) {
	a := fixtureChart("A", "")
	b := fixtureChart("B", "")
	syn := &chart.Synastry{A: a, B: b, Aspects: []astro.Aspect{
		{Body: astro.Sun, Separation: 2.0, Kind: astro.Conjunction},
		{Body: astro.Moon, Separation: 176.4, Kind: astro.Opposition},
		{Body: astro.Mercury, Separation: 118.0, Kind: astro.Trine},
		{Body: astro.Venus, Separation: 92.3, Kind: astro.Square},
		{Body: astro.Mars, Separation: 61.0, Kind: astro.Sextile},
		{Body: astro.Jupiter, Separation: 33.3, Kind: astro.Minor},
	}}

	report := SynastryReport(syn)
	assert.Contains(t, report, "Луна: угол ≈ 176.4° — Оппозиция (напряжение)")
	assert.Contains(t, report, "Меркурий: угол ≈ 118.0° — Трин (гармония)")
	assert.Contains(t, report, "Венера: угол ≈ 92.3° — Квадрат (конфликт)")
	assert.Contains(t, report, "Марс: угол ≈ 61.0° — Секстиль (возможность)")
	assert.Contains(t, report, "Юпитер: угол ≈ 33.3° — Незначительный аспект")
}

func TestSynastryReport_CapsLineCount(t *testing.T) {
	a := fixtureChart("A", "")
	b := fixtureChart("B", "")
	aspects := make([]astro.Aspect, 0, 50)
	for i := 0; i < 50; i++ {
		aspects = append(aspects, astro.Aspect{Body: astro.Sun, Separation: float64(i), Kind: astro.Minor})
	}
	syn := &chart.Synastry{A: a, B: b, Aspects: aspects}

	report := SynastryReport(syn)
	assert.Equal(t, maxAspectLines, strings.Count(report, "угол ≈"))
}

func TestSynastryReport_UnknownNames(t *testing.T) {
	a := fixtureChart("", "")
	b := fixtureChart("", "")
	syn := &chart.Synastry{A: a, B: b, Aspects: nil}
	assert.Contains(t, SynastryReport(syn), "💞 Синастрия: Неизвестно — Неизвестно")
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Овен", SignRU(astro.Aries))
	assert.Equal(t, "Рыбы", SignRU(astro.Pisces))
	assert.Equal(t, Unknown, SignRU(astro.Sign(99)))

	assert.Equal(t, "Солнце", BodyRU(astro.Sun))
	assert.Equal(t, "Сатурн", BodyRU(astro.Saturn))

	assert.Equal(t, "Конъюнкция (сильная связь)", AspectMood(astro.Conjunction))
	assert.Equal(t, "Незначительный аспект", AspectMood(astro.Minor))
	assert.NotEmpty(t, Description(astro.Leo))
}

func TestUserError(t *testing.T) {
	_, err := birth.Parse("привет")
	require.Error(t, err)
	assert.Equal(t, "Неверный формат. Используйте: Имя, ДД.MM.ГГГГ, ЧЧ:ММ, Город", UserError(err))

	r := birth.Record{Date: "xx.yy.zzzz", Time: "14:30"}
	_, err = r.Civil()
	require.Error(t, err)
	assert.Equal(t, "Неверный формат даты или времени. Используйте ДД.MM.YYYY и HH:MM", UserError(err))

	plain := errors.New("нет связи")
	assert.Equal(t, "нет связи", UserError(plain))
}
