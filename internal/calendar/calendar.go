package calendar

import (
	"time"

	"github.com/example/nemt-pricing/internal/models"
)

// Engine classifies trip dates against the holiday rule set. It is a pure
// function over the date: no clock, no locale, no I/O.
type Engine struct {
	surchargeCents int64
	fixed          []fixedRule
	floating       []floatingRule
}

// NewEngine builds an engine charging the given flat surcharge (cents) for
// every matched holiday. The surcharge is identical across holidays; the
// federal flag is display-only.
func NewEngine(surchargeCents int64) *Engine {
	return &Engine{
		surchargeCents: surchargeCents,
		fixed:          fixedRules,
		floating:       floatingRules,
	}
}

type fixedRule struct {
	month   time.Month
	day     int
	name    string
	federal bool
}

type floatingRule struct {
	name    string
	federal bool
	// match reports whether the rule fires for the given date.
	match func(y int, m time.Month, d int) bool
}

var fixedRules = []fixedRule{
	{time.January, 1, "New Year's Day", true},
	{time.June, 19, "Juneteenth", true},
	{time.July, 4, "Independence Day", true},
	{time.November, 11, "Veterans Day", true},
	{time.December, 24, "Christmas Eve", false},
	{time.December, 25, "Christmas Day", true},
	{time.December, 31, "New Year's Eve", false},
}

var floatingRules = []floatingRule{
	{"Martin Luther King Jr. Day", true, nthWeekday(time.Monday, 3, time.January)},
	{"Presidents' Day", true, nthWeekday(time.Monday, 3, time.February)},
	{"Memorial Day", true, lastWeekday(time.Monday, time.May)},
	{"Labor Day", true, nthWeekday(time.Monday, 1, time.September)},
	{"Columbus Day", true, nthWeekday(time.Monday, 2, time.October)},
	{"Thanksgiving Day", true, nthWeekday(time.Thursday, 4, time.November)},
	{"Day After Thanksgiving", false, dayAfterNthWeekday(time.Thursday, 4, time.November)},
	{"Easter Sunday", false, easterSunday},
}

// Classify returns the holiday standing of a date. Fixed-date rules are
// checked before floating rules; the first match wins, so a date is never
// surcharged twice. A zero time classifies as not-a-holiday.
func (e *Engine) Classify(t time.Time) models.HolidayInfo {
	if t.IsZero() {
		return models.HolidayInfo{}
	}
	y, m, d := t.Date()
	for _, r := range e.fixed {
		if r.month == m && r.day == d {
			return e.match(r.name, r.federal)
		}
	}
	for _, r := range e.floating {
		if r.match(y, m, d) {
			return e.match(r.name, r.federal)
		}
	}
	return models.HolidayInfo{}
}

func (e *Engine) match(name string, federal bool) models.HolidayInfo {
	return models.HolidayInfo{
		IsHoliday:      true,
		Name:           name,
		Federal:        federal,
		SurchargeCents: e.surchargeCents,
	}
}

// nthWeekday matches the nth occurrence of a weekday within a month,
// e.g. the 3rd Monday of January.
func nthWeekday(wd time.Weekday, n int, month time.Month) func(int, time.Month, int) bool {
	return func(y int, m time.Month, d int) bool {
		if m != month {
			return false
		}
		return d == nthWeekdayDay(y, month, wd, n)
	}
}

// dayAfterNthWeekday matches the literal next calendar day after the nth
// weekday, e.g. the Friday after the 4th Thursday of November.
func dayAfterNthWeekday(wd time.Weekday, n int, month time.Month) func(int, time.Month, int) bool {
	return func(y int, m time.Month, d int) bool {
		base := time.Date(y, month, nthWeekdayDay(y, month, wd, n), 0, 0, 0, 0, time.UTC)
		next := base.AddDate(0, 0, 1)
		return next.Year() == y && next.Month() == m && next.Day() == d
	}
}

func lastWeekday(wd time.Weekday, month time.Month) func(int, time.Month, int) bool {
	return func(y int, m time.Month, d int) bool {
		if m != month {
			return false
		}
		return d == lastWeekdayDay(y, month, wd)
	}
}

// nthWeekdayDay returns the day-of-month of the nth weekday in a month.
func nthWeekdayDay(year int, month time.Month, wd time.Weekday, n int) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(wd) - int(first.Weekday()) + 7) % 7
	return 1 + offset + (n-1)*7
}

// lastWeekdayDay returns the day-of-month of the final weekday occurrence.
func lastWeekdayDay(year int, month time.Month, wd time.Weekday) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC) // day 0 of next month
	offset := (int(last.Weekday()) - int(wd) + 7) % 7
	return last.Day() - offset
}

func easterSunday(y int, m time.Month, d int) bool {
	em, ed := Computus(y)
	return m == em && d == ed
}

// Computus returns the month and day of Easter Sunday in the Gregorian
// calendar for the given year (anonymous Gregorian algorithm).
func Computus(year int) (time.Month, int) {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Month(month), day
}
