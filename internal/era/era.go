// Package era converts dates between the Japanese calendar (Meiji through
// Reiwa) and the western calendar.
package era

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var ErrUnknownFormat = errors.New("unrecognized date format")

type Era struct {
	Name    string
	Initial string
	Start   time.Time
}

// Eras in descending order of start date; lookup walks this list and
// takes the first era that has begun.
var eras = []Era{
	{Name: "令和", Initial: "R", Start: time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)},
	{Name: "平成", Initial: "H", Start: time.Date(1989, 1, 8, 0, 0, 0, 0, time.UTC)},
	{Name: "昭和", Initial: "S", Start: time.Date(1926, 12, 25, 0, 0, 0, 0, time.UTC)},
	{Name: "大正", Initial: "T", Start: time.Date(1912, 7, 30, 0, 0, 0, 0, time.UTC)},
	{Name: "明治", Initial: "M", Start: time.Date(1868, 10, 23, 0, 0, 0, 0, time.UTC)},
}

var (
	longForm  = regexp.MustCompile(`^(明治|大正|昭和|平成|令和)(元|\d{1,2})年(\d{1,2})月(\d{1,2})日$`)
	shortForm = regexp.MustCompile(`^([MTSHR])(\d{1,2})[./](\d{1,2})[./](\d{1,2})$`)
	western   = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})$`)
)

// Parse reads a Japanese-calendar date in long form (令和5年10月3日,
// including 元年 for the first year) or short form (R5.10.3, R5/10/3).
func Parse(s string) (time.Time, error) {
	if m := longForm.FindStringSubmatch(s); m != nil {
		return resolve(findByName(m[1]), m[2], m[3], m[4])
	}
	if m := shortForm.FindStringSubmatch(s); m != nil {
		return resolve(findByInitial(m[1]), m[2], m[3], m[4])
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Convert auto-detects the input calendar: a western date converts to the
// Japanese form in the given style and a Japanese date converts to ISO
// form.
func Convert(s string, style Style) (converted, eraName string, err error) {
	if m := western.FindStringSubmatch(s); m != nil {
		t, err := westernDate(m)
		if err != nil {
			return "", "", err
		}
		formatted, err := Format(t, style)
		if err != nil {
			return "", "", err
		}
		name, _ := Name(t)
		return formatted, name, nil
	}
	t, err := Parse(s)
	if err != nil {
		return "", "", err
	}
	name, _ := Name(t)
	return t.Format("2006-01-02"), name, nil
}

type Style string

const (
	StyleLong  Style = "long"  // 令和5年10月3日
	StyleShort Style = "short" // R5.10.3
	StyleSlash Style = "slash" // R5/10/3
)

// Format renders a western date in the Japanese calendar.
func Format(t time.Time, style Style) (string, error) {
	e, year, err := lookup(t)
	if err != nil {
		return "", err
	}
	switch style {
	case StyleLong, "":
		y := strconv.Itoa(year)
		if year == 1 {
			y = "元"
		}
		return fmt.Sprintf("%s%s年%d月%d日", e.Name, y, t.Month(), t.Day()), nil
	case StyleShort:
		return fmt.Sprintf("%s%d.%d.%d", e.Initial, year, t.Month(), t.Day()), nil
	case StyleSlash:
		return fmt.Sprintf("%s%d/%d/%d", e.Initial, year, t.Month(), t.Day()), nil
	}
	return "", fmt.Errorf("unknown format style: %q", style)
}

// Name returns the era name for a western date.
func Name(t time.Time) (string, error) {
	e, _, err := lookup(t)
	if err != nil {
		return "", err
	}
	return e.Name, nil
}

func lookup(t time.Time) (Era, int, error) {
	for _, e := range eras {
		if !t.Before(e.Start) {
			return e, t.Year() - e.Start.Year() + 1, nil
		}
	}
	return Era{}, 0, fmt.Errorf("date %s precedes the Meiji era", t.Format("2006-01-02"))
}

func resolve(e *Era, yearStr, monthStr, dayStr string) (time.Time, error) {
	if e == nil {
		return time.Time{}, fmt.Errorf("%w: unknown era", ErrUnknownFormat)
	}
	year := 1
	if yearStr != "元" {
		year, _ = strconv.Atoi(yearStr)
	}
	if year < 1 {
		return time.Time{}, fmt.Errorf("era year must be positive, got %d", year)
	}
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	t := time.Date(e.Start.Year()+year-1, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid calendar date: %s%d年%d月%d日", e.Name, year, month, day)
	}
	if t.Before(e.Start) {
		return time.Time{}, fmt.Errorf("%s%d年%d月%d日 precedes the start of the era", e.Name, year, month, day)
	}
	if next := nextEra(*e); next != nil && !t.Before(next.Start) {
		return time.Time{}, fmt.Errorf("%s%d年%d月%d日 falls after the end of the era", e.Name, year, month, day)
	}
	return t, nil
}

func westernDate(m []string) (time.Time, error) {
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid calendar date: %04d-%02d-%02d", year, month, day)
	}
	return t, nil
}

func findByName(name string) *Era {
	for i := range eras {
		if eras[i].Name == name {
			return &eras[i]
		}
	}
	return nil
}

func findByInitial(initial string) *Era {
	for i := range eras {
		if eras[i].Initial == initial {
			return &eras[i]
		}
	}
	return nil
}

func nextEra(e Era) *Era {
	// eras are sorted newest first; the "next" era is the previous entry.
	for i := range eras {
		if eras[i].Name == e.Name {
			if i == 0 {
				return nil
			}
			return &eras[i-1]
		}
	}
	return nil
}
