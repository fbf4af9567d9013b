// Package calendar implements the Korean public-holiday calendar used by
// delivery scheduling: fixed solar holidays, the lunar holidays (Seollal
// block, Buddha's Birthday, Chuseok block) via a precomputed Gregorian
// table, substitute-holiday rules, and optional ad-hoc closures loaded from
// a YAML file.
package calendar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const dayFormat = "2006-01-02"

type Calendar struct {
	holidays map[string]bool
}

// substitution policies per holiday. The Seollal/Chuseok blocks have their
// own Sunday-only rule in addBlock.
type subPolicy int

const (
	subNone subPolicy = iota
	// subWeekend: Saturday or Sunday triggers a substitute day.
	subWeekend
)

type holiday struct {
	month  time.Month
	day    int
	policy subPolicy
}

// lunarDates holds the Gregorian date of each lunar holiday's principal day.
// The table covers 2020-2030; outside it only solar holidays are known.
type lunarDates struct {
	seollal time.Time
	buddha  time.Time
	chuseok time.Time
}

var lunarTable = map[int]lunarDates{
	2020: {d(2020, 1, 25), d(2020, 4, 30), d(2020, 10, 1)},
	2021: {d(2021, 2, 12), d(2021, 5, 19), d(2021, 9, 21)},
	2022: {d(2022, 2, 1), d(2022, 5, 8), d(2022, 9, 10)},
	2023: {d(2023, 1, 22), d(2023, 5, 27), d(2023, 9, 29)},
	2024: {d(2024, 2, 10), d(2024, 5, 15), d(2024, 9, 17)},
	2025: {d(2025, 1, 29), d(2025, 5, 5), d(2025, 10, 6)},
	2026: {d(2026, 2, 17), d(2026, 5, 24), d(2026, 9, 25)},
	2027: {d(2027, 2, 7), d(2027, 5, 13), d(2027, 9, 15)},
	2028: {d(2028, 1, 27), d(2028, 5, 2), d(2028, 10, 3)},
	2029: {d(2029, 2, 13), d(2029, 5, 20), d(2029, 9, 22)},
	2030: {d(2030, 2, 3), d(2030, 5, 9), d(2030, 9, 12)},
}

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Solar holidays are built for this whole range; lunar holidays only where
// the table has an entry.
const (
	firstYear = 2020
	lastYear  = 2040
)

// NewKorean builds the calendar for every year in [firstYear, lastYear],
// plus the given extra closure dates.
func NewKorean(extraClosures ...time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string]bool)}
	for year := firstYear; year <= lastYear; year++ {
		c.addYear(year)
	}
	for _, closure := range extraClosures {
		c.holidays[closure.Format(dayFormat)] = true
	}
	return c
}

func (c *Calendar) addYear(year int) {
	solar := []holiday{
		{time.January, 1, subNone},
		{time.March, 1, subWeekend},
		{time.May, 5, subWeekend}, // Children's Day
		{time.June, 6, subNone},
		{time.August, 15, subWeekend},
		{time.October, 3, subWeekend},
		{time.October, 9, subWeekend},
	}
	for _, h := range solar {
		c.add(d(year, h.month, h.day), h.policy)
	}

	// Christmas and Buddha's Birthday gained substitute days in 2023.
	christmasPolicy := subNone
	buddhaPolicy := subNone
	if year >= 2023 {
		christmasPolicy = subWeekend
		buddhaPolicy = subWeekend
	}
	c.add(d(year, time.December, 25), christmasPolicy)

	lunar, ok := lunarTable[year]
	if !ok {
		return
	}
	c.addBlock(lunar.seollal)
	c.add(lunar.buddha, buddhaPolicy)
	c.addBlock(lunar.chuseok)
}

// addBlock adds the three-day Seollal/Chuseok block. A Sunday anywhere in
// the block yields one substitute day after it.
func (c *Calendar) addBlock(principal time.Time) {
	needsSub := false
	for offset := -1; offset <= 1; offset++ {
		day := principal.AddDate(0, 0, offset)
		if day.Weekday() == time.Sunday || c.holidays[day.Format(dayFormat)] {
			needsSub = true
		}
		c.holidays[day.Format(dayFormat)] = true
	}
	if needsSub {
		c.addSubstitute(principal.AddDate(0, 0, 1))
	}
}

func (c *Calendar) add(day time.Time, policy subPolicy) {
	key := day.Format(dayFormat)
	collision := c.holidays[key]
	c.holidays[key] = true

	if policy == subWeekend {
		if collision || day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			c.addSubstitute(day)
		}
	}
}

// addSubstitute marks the first weekday after the given date that is not
// already a holiday.
func (c *Calendar) addSubstitute(after time.Time) {
	day := after.AddDate(0, 0, 1)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday || c.holidays[day.Format(dayFormat)] {
		day = day.AddDate(0, 0, 1)
	}
	c.holidays[day.Format(dayFormat)] = true
}

// IsHoliday reports whether the civil date (in its own location) is a
// recognized holiday, a substitute day, or a configured closure.
func (c *Calendar) IsHoliday(date time.Time) bool {
	return c.holidays[date.Format(dayFormat)]
}

type closuresFile struct {
	Closures []string `yaml:"closures"`
}

// LoadExtraClosures reads ad-hoc company closures (inventory days, bridge
// days) from a YAML file. A missing path is not an error.
func LoadExtraClosures(path string) ([]time.Time, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read closures file: %w", err)
	}

	var parsed closuresFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse closures yaml: %w", err)
	}

	out := make([]time.Time, 0, len(parsed.Closures))
	for _, entry := range parsed.Closures {
		day, err := time.Parse(dayFormat, entry)
		if err != nil {
			return nil, fmt.Errorf("parse closure date %q: %w", entry, err)
		}
		out = append(out, day)
	}
	return out, nil
}
