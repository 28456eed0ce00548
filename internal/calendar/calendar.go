package calendar

import (
	"sort"
	"time"
)

// Calendar is a business-day calendar: weekdays that are not listed holidays.
// It is read-only after construction.
type Calendar struct {
	holidays map[time.Time]struct{}
}

// MonthBatch is the set of business days that fall in one calendar month.
type MonthBatch struct {
	Month time.Time // first day of the month
	Days  []time.Time
}

// New builds a calendar from a holiday list. Times are truncated to the date.
func New(holidays []time.Time) *Calendar {
	m := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		m[Truncate(h)] = struct{}{}
	}
	return &Calendar{holidays: m}
}

// Truncate drops the clock part of t and moves it to UTC, keeping the calendar date.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Len returns the number of holidays.
func (c *Calendar) Len() int { return len(c.holidays) }

// IsHoliday reports whether d is a listed holiday.
func (c *Calendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays[Truncate(d)]
	return ok
}

// IsBusinessDay reports whether d is neither a weekend day nor a holiday.
func (c *Calendar) IsBusinessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(d)
}

// Next returns the first business day strictly after d.
func (c *Calendar) Next(d time.Time) time.Time {
	d = Truncate(d).AddDate(0, 0, 1)
	for !c.IsBusinessDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// Prev returns the last business day strictly before d.
func (c *Calendar) Prev(d time.Time) time.Time {
	d = Truncate(d).AddDate(0, 0, -1)
	for !c.IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// Range returns every business day in [start, end], in increasing order.
// Empty when start is after end.
func (c *Calendar) Range(start, end time.Time) []time.Time {
	start, end = Truncate(start), Truncate(end)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// GroupByMonth splits dates into month batches keyed by the first day of the month.
// Batches and the days inside them are chronological.
func GroupByMonth(dates []time.Time) []MonthBatch {
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var batches []MonthBatch
	for _, d := range sorted {
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		if n := len(batches); n > 0 && batches[n-1].Month.Equal(month) {
			batches[n-1].Days = append(batches[n-1].Days, d)
			continue
		}
		batches = append(batches, MonthBatch{Month: month, Days: []time.Time{d}})
	}
	return batches
}
