// Package render produces the user-facing artifacts of a chart: Russian
// text reports and PNG wheel images. All product wording lives here; the
// domain layers below speak identifiers only.
package render

import (
	"errors"

	"github.com/astroluna/astroluna/internal/domain/astro"
	"github.com/astroluna/astroluna/internal/domain/birth"
)

// Unknown substitutes for a name or place the parser could not find.
const Unknown = "Неизвестно"

var signRU = [...]string{
	"Овен", "Телец", "Близнецы", "Рак", "Лев", "Дева",
	"Весы", "Скорпион", "Стрелец", "Козерог", "Водолей", "Рыбы",
}

var bodyRU = map[astro.Body]string{
	astro.Sun:     "Солнце",
	astro.Moon:    "Луна",
	astro.Mercury: "Меркурий",
	astro.Venus:   "Венера",
	astro.Mars:    "Марс",
	astro.Jupiter: "Юпитер",
	astro.Saturn:  "Сатурн",
}

// signDescriptions characterizes a personality per sign. Every body's report
// line draws from this one table.
var signDescriptions = map[astro.Sign]string{
	astro.Aries:       "активная, энергичная и решительная личность",
	astro.Taurus:      "спокойная, надёжная и практичная личность",
	astro.Gemini:      "умная, подвижная и любознательная личность",
	astro.Cancer:      "эмоциональная и заботливая личность",
	astro.Leo:         "уверенная, щедрая и яркая личность",
	astro.Virgo:       "внимательная, логичная и аккуратная личность",
	astro.Libra:       "уравновешенная и дипломатичная личность",
	astro.Scorpio:     "глубокая, страстная и сильная личность",
	astro.Sagittarius: "искренняя, философская и свободолюбивая личность",
	astro.Capricorn:   "ответственная, дисциплинированная личность",
	astro.Aquarius:    "независимая, оригинальная и гуманная личность",
	astro.Pisces:      "интуитивная, добрая и чувствительная личность",
}

var aspectMoods = map[astro.AspectKind]string{
	astro.Conjunction: "Конъюнкция (сильная связь)",
	astro.Opposition:  "Оппозиция (напряжение)",
	astro.Trine:       "Трин (гармония)",
	astro.Square:      "Квадрат (конфликт)",
	astro.Sextile:     "Секстиль (возможность)",
	astro.Minor:       "Незначительный аспект",
}

// SignRU returns the Russian sign name.
func SignRU(s astro.Sign) string {
	if s < 0 || int(s) >= len(signRU) {
		return Unknown
	}
	return signRU[s]
}

// BodyRU returns the Russian body name, falling back to the identifier for
// bodies outside the tracked set.
func BodyRU(b astro.Body) string {
	if name, ok := bodyRU[b]; ok {
		return name
	}
	return b.String()
}

// Description returns the personality line for a sign.
func Description(s astro.Sign) string {
	return signDescriptions[s]
}

// AspectMood returns the display label for an aspect category.
func AspectMood(k astro.AspectKind) string {
	return aspectMoods[k]
}

// UserError translates engine errors into the wording users see. Unmapped
// errors pass through as is.
func UserError(err error) string {
	switch {
	case errors.Is(err, birth.ErrFormat):
		return "Неверный формат. Используйте: Имя, ДД.MM.ГГГГ, ЧЧ:ММ, Город"
	case errors.Is(err, birth.ErrDateTime):
		return "Неверный формат даты или времени. Используйте ДД.MM.YYYY и HH:MM"
	}
	return err.Error()
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
