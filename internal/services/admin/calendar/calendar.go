// Package calendar builds the dashboard's month grid: 42 consecutive days
// anchored on the configured week start, with dated events bucketed by
// local calendar day.
package calendar

import (
	"strings"
	"time"
)

// GridDays is the fixed number of cells in a month grid (6 weeks of 7 days).
const GridDays = 42

const dayKeyLayout = "2006-01-02"

// Event is one dated occurrence shown on the calendar. Date keeps the raw
// upstream value; events whose Date cannot be parsed are never bucketed.
type Event struct {
	ID    string
	Title string
	Date  string
	Kind  string
	// URL links the event to its console detail page.
	URL string
}

// Day is one grid cell.
type Day struct {
	Date           time.Time
	InCurrentMonth bool
	Events         []Event
}

// Key returns the cell's YYYY-MM-DD key.
func (d Day) Key() string {
	return DayKey(d.Date)
}

// Grid is a month view of exactly GridDays consecutive days.
type Grid struct {
	// Month is the start of the first day of the reference month.
	Month        time.Time
	WeekStartsOn time.Weekday
	Days         [GridDays]Day
}

// Weeks returns the grid as six rows of seven days.
func (g Grid) Weeks() [6][7]Day {
	var weeks [6][7]Day
	for i, day := range g.Days {
		weeks[i/7][i%7] = day
	}
	return weeks
}

// Weekdays returns the column headers in grid order.
func (g Grid) Weekdays() [7]time.Weekday {
	var out [7]time.Weekday
	for i := range out {
		out[i] = time.Weekday((int(g.WeekStartsOn) + i) % 7)
	}
	return out
}

// EventCount returns the number of events attached to the grid.
func (g Grid) EventCount() int {
	total := 0
	for _, day := range g.Days {
		total += len(day.Events)
	}
	return total
}

// BuildMonthGrid lays out the month containing reference. Only the year and
// month of reference are read, in reference's location, which is also the
// location used to bucket events.
func BuildMonthGrid(reference time.Time, events []Event, weekStartsOn time.Weekday) Grid {
	loc := reference.Location()
	year, month := reference.Year(), reference.Month()
	weekStartsOn = normalizeWeekday(weekStartsOn)

	// Cells step through civil dates in UTC, which has no gaps, and are
	// mapped into loc one day at a time.
	civilFirst := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(civilFirst.Weekday()) - int(weekStartsOn) + 7) % 7
	anchor := civilFirst.AddDate(0, 0, -offset)

	buckets := bucketEvents(events, loc)

	grid := Grid{Month: startOfDay(year, month, 1, loc), WeekStartsOn: weekStartsOn}
	for i := 0; i < GridDays; i++ {
		civil := anchor.AddDate(0, 0, i)
		key := civil.Format(dayKeyLayout)
		dayEvents := buckets[key]
		if dayEvents == nil {
			dayEvents = []Event{}
		}
		grid.Days[i] = Day{
			Date:           startOfDay(civil.Year(), civil.Month(), civil.Day(), loc),
			InCurrentMonth: civil.Year() == year && civil.Month() == month,
			Events:         dayEvents,
		}
	}
	return grid
}

// startOfDay returns the first instant of the civil day y-m-d in loc. Zones
// that begin DST at midnight have no 00:00 on that day, so the day starts at
// the first wall time after the gap.
func startOfDay(y int, m time.Month, d int, loc *time.Location) time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	for i := 0; i < 24 && !onCivilDay(t, y, m, d); i++ {
		t = t.Add(time.Hour)
	}
	return t
}

func onCivilDay(t time.Time, y int, m time.Month, d int) bool {
	ty, tm, td := t.Date()
	return ty == y && tm == m && td == d
}

func bucketEvents(events []Event, loc *time.Location) map[string][]Event {
	buckets := make(map[string][]Event, len(events))
	for _, evt := range events {
		when, ok := ParseEventDate(evt.Date, loc)
		if !ok {
			continue
		}
		key := DayKey(when)
		buckets[key] = append(buckets[key], evt)
	}
	return buckets
}

// DayKey formats t as YYYY-MM-DD in t's own location.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// Layouts accepted for event dates. Zone-less layouts are read as local
// wall time in the grid's location.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00",
		"2006-01-02 15:04:05Z07:00",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		dayKeyLayout,
	}
)

// ParseEventDate parses an upstream date string. Timestamps with an offset
// are converted into loc; dates without one are taken as wall time in loc.
func ParseEventDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc), true
		}
	}
	for _, layout := range localLayouts {
		civil, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		y, m, d := civil.Date()
		t := time.Date(y, m, d, civil.Hour(), civil.Minute(), civil.Second(), civil.Nanosecond(), loc)
		if !onCivilDay(t, y, m, d) {
			// The wall time fell into a DST gap that crosses midnight.
			t = startOfDay(y, m, d, loc)
		}
		return t, true
	}
	return time.Time{}, false
}

// ShiftMonth moves the month cursor by delta whole months and returns the
// start of the first of the resulting month. There is no bound.
func ShiftMonth(reference time.Time, delta int) time.Time {
	civil := time.Date(reference.Year(), reference.Month()+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return startOfDay(civil.Year(), civil.Month(), 1, reference.Location())
}

// ParseMonth reads a YYYY-MM value in loc, returning fallback's month when
// raw is empty or malformed.
func ParseMonth(raw string, loc *time.Location, fallback time.Time) time.Time {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse("2006-01", strings.TrimSpace(raw)); err == nil {
		return startOfDay(t.Year(), t.Month(), 1, loc)
	}
	fallback = fallback.In(loc)
	return startOfDay(fallback.Year(), fallback.Month(), 1, loc)
}

// MonthParam formats a month cursor for query strings.
func MonthParam(t time.Time) string {
	return t.Format("2006-01")
}

// ParseWeekday accepts English weekday names or their first three letters.
func ParseWeekday(raw string, fallback time.Weekday) time.Weekday {
	value := strings.ToLower(strings.TrimSpace(raw))
	if len(value) < 3 {
		return fallback
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.HasPrefix(strings.ToLower(d.String()), value[:3]) {
			return d
		}
	}
	return fallback
}

func normalizeWeekday(d time.Weekday) time.Weekday {
	return time.Weekday(((int(d) % 7) + 7) % 7)
}
