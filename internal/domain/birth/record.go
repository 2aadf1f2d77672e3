// Package birth parses free-form birth records of the shape
// "Name, DD.MM.YYYY, HH:MM, Place" and extracts their numeric calendar
// components. Parsing is deliberately forgiving: commas, semicolons and a
// bare token scan are all accepted, and stray non-digit characters inside
// date or time fields are stripped before conversion.
package birth

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrFormat reports input that cannot be split into a birth record.
	ErrFormat = errors.New("birth: unrecognized record format")
	// ErrDateTime reports date or time fields that do not read as numbers.
	ErrDateTime = errors.New("birth: bad date or time")
)

// Record is one person's birth data as entered. Date and Time stay verbatim
// strings here; Civil extracts the numbers on demand.
type Record struct {
	Name  string
	Date  string
	Time  string
	Place string
}

// Civil holds the numeric calendar components of a record's local wall clock.
type Civil struct {
	Day    int
	Month  int
	Year   int
	Hour   int
	Minute int
}

// ClockHours folds the wall clock into a decimal hour count.
func (c Civil) ClockHours() float64 {
	return float64(c.Hour) + float64(c.Minute)/60.0
}

// Valid reports whether the components form a representable calendar
// datetime. Out-of-range values (hour 25, February 30) still carry meaning
// for the arithmetic day-count fallback, so they are not a parse error; they
// just cannot take the timezone-aware path.
func (c Civil) Valid() bool {
	if c.Year < 1 || c.Year > 9999 {
		return false
	}
	t := time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, 0, 0, time.UTC)
	return t.Year() == c.Year && int(t.Month()) == c.Month && t.Day() == c.Day &&
		t.Hour() == c.Hour && t.Minute() == c.Minute
}

var (
	semiSplit = regexp.MustCompile(`[;,]\s*`)
	dateShape = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`)
	timeShape = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	nonDigit  = regexp.MustCompile(`\D`)
)

// Parse reads one input line into a Record.
//
// Strategy, in order: plain comma split; comma-or-semicolon split; a token
// scan that hunts for adjacent DD.MM.YYYY and HH:MM tokens. With fewer than
// four comma fields the token scan decides, and a record found that way may
// carry an empty Name or Place (callers substitute a display placeholder).
// With four or more fields the extras are rejoined into Place, so city names
// containing commas survive.
func Parse(line string) (Record, error) {
	parts := splitTrim(strings.Split(line, ","))
	if len(parts) < 4 {
		parts = splitTrim(semiSplit.Split(line, -1))
	}
	if len(parts) < 4 {
		return scanTokens(line)
	}
	return Record{
		Name:  parts[0],
		Date:  parts[1],
		Time:  parts[2],
		Place: strings.TrimSpace(strings.Join(parts[3:], ", ")),
	}, nil
}

func splitTrim(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// scanTokens is the last-resort parse: find the first date-shaped token and
// require the very next token to be time-shaped. Words before the pair become
// the name, words after it the place.
func scanTokens(line string) (Record, error) {
	tokens := strings.Fields(line)
	for i, tok := range tokens {
		if !dateShape.MatchString(tok) {
			continue
		}
		if i+1 >= len(tokens) || !timeShape.MatchString(tokens[i+1]) {
			break
		}
		return Record{
			Name:  strings.Join(tokens[:i], " "),
			Date:  tok,
			Time:  tokens[i+1],
			Place: strings.Join(tokens[i+2:], " "),
		}, nil
	}
	return Record{}, fmt.Errorf("%w: want \"Name, DD.MM.YYYY, HH:MM, Place\"", ErrFormat)
}

// Civil converts the record's date and time strings into numbers. Each
// component is stripped of non-digit characters first, so "1990г." or "14ч"
// still convert. Missing components or components with no digits at all are
// ErrDateTime.
func (r Record) Civil() (Civil, error) {
	d := strings.Split(r.Date, ".")
	t := strings.Split(r.Time, ":")
	if len(d) < 3 {
		return Civil{}, fmt.Errorf("%w: date %q", ErrDateTime, r.Date)
	}
	if len(t) < 2 {
		return Civil{}, fmt.Errorf("%w: time %q", ErrDateTime, r.Time)
	}

	var c Civil
	for _, f := range []struct {
		raw string
		dst *int
	}{
		{d[0], &c.Day},
		{d[1], &c.Month},
		{d[2], &c.Year},
		{t[0], &c.Hour},
		{t[1], &c.Minute},
	} {
		n, err := strconv.Atoi(nonDigit.ReplaceAllString(f.raw, ""))
		if err != nil {
			return Civil{}, fmt.Errorf("%w: field %q", ErrDateTime, f.raw)
		}
		*f.dst = n
	}
	return c, nil
}
