package calendar

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// ICSOptions configures an iCalendar export.
type ICSOptions struct {
	// Name is shown by calendar clients as the feed title.
	Name string
	// BaseURL is prefixed to relative event URLs.
	BaseURL string
	// Location interprets zone-less event dates.
	Location *time.Location
	// Now stamps DTSTAMP; callers pass the request time.
	Now time.Time
}

// ExportICS renders events as a VCALENDAR document. Events without a
// parseable date are skipped. Date-only values become all-day events.
func ExportICS(events []Event, opts ICSOptions) string {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//atlasdata//alfurij-admin//EN")
	if name := strings.TrimSpace(opts.Name); name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := opts.Now.UTC()
	for _, evt := range events {
		when, ok := ParseEventDate(evt.Date, loc)
		if !ok {
			continue
		}
		vevent := cal.AddEvent(eventUID(evt))
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(evt.Title)
		if strings.TrimSpace(evt.Kind) != "" {
			vevent.SetDescription(evt.Kind)
		}
		if isDateOnly(evt.Date) {
			vevent.SetAllDayStartAt(when)
			vevent.SetAllDayEndAt(when.AddDate(0, 0, 1))
		} else {
			vevent.SetStartAt(when)
			vevent.SetEndAt(when.Add(time.Hour))
		}
		if link := eventURL(opts.BaseURL, evt.URL); link != "" {
			vevent.SetURL(link)
		}
	}
	return cal.Serialize()
}

// eventUID depends on the event ID only; Kind follows the auction's status
// and would otherwise change the UID as the auction moves through its life.
func eventUID(evt Event) string {
	return "auction-" + strings.TrimSpace(evt.ID) + "@alfurij-admin"
}

func eventURL(base, link string) string {
	link = strings.TrimSpace(link)
	if link == "" || strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return strings.TrimRight(strings.TrimSpace(base), "/") + link
}

func isDateOnly(raw string) bool {
	_, err := time.Parse(dayKeyLayout, strings.TrimSpace(raw))
	return err == nil
}
