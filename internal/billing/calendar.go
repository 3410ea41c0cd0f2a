// Package billing implements the recurring-expense billing engine: the
// normalizer that attributes template amounts to calendar periods and the
// expander that materializes dated occurrences.
//
// Everything here is pure and free of I/O. Calendar math is done exclusively
// on core.Date values (UTC midnight), never on local-time instants; deriving
// a weekday from a local-time constructor can shift it by one day depending
// on the host timezone.
package billing

import (
	"time"

	"agridom/internal/core"
)

// daysInMonth returns the number of days in (year, month).
func daysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampDay maps a template's anchor day onto a concrete month, pulling days
// that don't exist back to the month's last day (day 31 in April -> 30,
// Feb 29 in a non-leap year -> 28).
func clampDay(year, month, day int) int {
	if last := daysInMonth(year, month); day > last {
		return last
	}
	return day
}

// WeekdayCount counts how many days of (year, month) fall on the given
// weekday (Sunday = 0). The count is computed by walking the month's days;
// a month has 4 or 5 of each weekday and period-exact statistics need the
// real count, not a 4.33 average.
func WeekdayCount(year, month, weekday int) int {
	count := 0
	for day := 1; day <= daysInMonth(year, month); day++ {
		if core.NewDate(year, month, day).Weekday() == weekday {
			count++
		}
	}
	return count
}

// inWindow reports whether a date lies inside the template's recurrence
// window: on/after the anchor and, when an end date is set, on/before it.
func inWindow(t core.ExpenseTemplate, d core.Date) bool {
	if d.Before(t.AnchorDate) {
		return false
	}
	if !t.EndDate.IsZero() && d.After(t.EndDate) {
		return false
	}
	return true
}

// monthInWindow reports whether (year, month) overlaps the recurrence window
// at month granularity: on/after the anchor's month and on/before the end
// date's month when one is set.
func monthInWindow(t core.ExpenseTemplate, year, month int) bool {
	if year < t.AnchorDate.Year() {
		return false
	}
	if year == t.AnchorDate.Year() && month < t.AnchorDate.Month() {
		return false
	}
	if !t.EndDate.IsZero() {
		if year > t.EndDate.Year() {
			return false
		}
		if year == t.EndDate.Year() && month > t.EndDate.Month() {
			return false
		}
	}
	return true
}

// weeklyDates enumerates the dates in (year, month) that fall on the
// template's anchor weekday and lie inside the recurrence window. Both the
// normalizer and the expander derive weekly behavior from this single
// enumeration so their results can never drift apart.
func weeklyDates(t core.ExpenseTemplate, year, month int) []core.Date {
	weekday := t.AnchorDate.Weekday()
	var dates []core.Date
	for day := 1; day <= daysInMonth(year, month); day++ {
		d := core.NewDate(year, month, day)
		if d.Weekday() != weekday {
			continue
		}
		if !inWindow(t, d) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}
