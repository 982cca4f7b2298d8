package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestClassify_FixedDates(t *testing.T) {
	e := NewEngine(10000)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"new year", date(2025, time.January, 1), "New Year's Day"},
		{"independence day 2024", date(2024, time.July, 4), "Independence Day"},
		{"independence day 2031", date(2031, time.July, 4), "Independence Day"},
		{"christmas eve", date(2026, time.December, 24), "Christmas Eve"},
		{"christmas", date(2026, time.December, 25), "Christmas Day"},
		{"new year's eve", date(2027, time.December, 31), "New Year's Eve"},
		{"juneteenth", date(2025, time.June, 19), "Juneteenth"},
		{"veterans day", date(2025, time.November, 11), "Veterans Day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Classify(tt.t)
			if !got.IsHoliday || got.Name != tt.want {
				t.Fatalf("Classify(%v) = %+v, want %s", tt.t, got, tt.want)
			}
			if got.SurchargeCents != 10000 {
				t.Fatalf("surcharge = %d, want 10000", got.SurchargeCents)
			}
		})
	}
}

func TestClassify_FloatingDates(t *testing.T) {
	e := NewEngine(10000)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		// 3rd Monday of January 2025: Mondays fall on 6, 13, 20.
		{"mlk 2025", date(2025, time.January, 20), "Martin Luther King Jr. Day"},
		{"presidents 2025", date(2025, time.February, 17), "Presidents' Day"},
		// May 2025 ends on Saturday the 31st; last Monday is the 26th.
		{"memorial 2025", date(2025, time.May, 26), "Memorial Day"},
		{"labor 2025", date(2025, time.September, 1), "Labor Day"},
		{"columbus 2025", date(2025, time.October, 13), "Columbus Day"},
		// 4th Thursday of November 2025 is the 27th; day after is the 28th.
		{"thanksgiving 2025", date(2025, time.November, 27), "Thanksgiving Day"},
		{"day after thanksgiving 2025", date(2025, time.November, 28), "Day After Thanksgiving"},
		{"mlk 2027", date(2027, time.January, 18), "Martin Luther King Jr. Day"},
		{"memorial 2026", date(2026, time.May, 25), "Memorial Day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Classify(tt.t)
			if !got.IsHoliday || got.Name != tt.want {
				t.Fatalf("Classify(%v) = %+v, want %s", tt.t, got, tt.want)
			}
		})
	}
}

func TestClassify_EasterViaComputus(t *testing.T) {
	e := NewEngine(10000)
	got := e.Classify(date(2025, time.April, 20))
	if !got.IsHoliday || got.Name != "Easter Sunday" {
		t.Fatalf("expected Easter Sunday, got %+v", got)
	}
	if got.Federal {
		t.Fatalf("Easter must not carry the federal flag")
	}
}

func TestComputus_KnownYears(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
	}{
		{2024, time.March, 31},
		{2025, time.April, 20},
		{2026, time.April, 5},
		{2027, time.March, 28},
		{2030, time.April, 21},
		// Edge of the Gregorian cycle: the latest possible Easter.
		{2038, time.April, 25},
		{2000, time.April, 23},
		{1999, time.April, 4},
	}
	for _, tt := range tests {
		m, d := Computus(tt.year)
		if m != tt.month || d != tt.day {
			t.Errorf("Computus(%d) = %v %d, want %v %d", tt.year, m, d, tt.month, tt.day)
		}
	}
}

func TestClassify_OrdinaryDay(t *testing.T) {
	e := NewEngine(10000)
	got := e.Classify(date(2025, time.August, 20))
	if got.IsHoliday || got.Name != "" || got.SurchargeCents != 0 {
		t.Fatalf("expected non-holiday, got %+v", got)
	}
}

func TestClassify_ZeroTime(t *testing.T) {
	e := NewEngine(10000)
	if got := e.Classify(time.Time{}); got.IsHoliday {
		t.Fatalf("zero time must classify as non-holiday, got %+v", got)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	e := NewEngine(10000)
	d := date(2025, time.December, 25)
	first := e.Classify(d)
	for i := 0; i < 5; i++ {
		if got := e.Classify(d); got != first {
			t.Fatalf("classification drifted: %+v vs %+v", got, first)
		}
	}
}

func TestClassify_FixedWinsOverFloating(t *testing.T) {
	// 2039: Easter Sunday computes to April 10; make sure a fixed rule on
	// the same weekday elsewhere never shadows and vice versa. Christmas
	// 2022 fell on a Sunday and must report as the fixed rule.
	e := NewEngine(10000)
	got := e.Classify(date(2022, time.December, 25))
	if got.Name != "Christmas Day" {
		t.Fatalf("expected Christmas Day, got %+v", got)
	}
}
