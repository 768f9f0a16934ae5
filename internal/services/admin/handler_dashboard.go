package admin

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"

	"github.com/atlasdata/alfurij-admin/internal/services/admin/calendar"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/templates"
)

// maxAuctionPages bounds how many auction pages one view walks.
const maxAuctionPages = 10

// listAllAuctions walks the auction pages up to maxAuctionPages.
func listAllAuctions(ctx context.Context, client *marketapi.Client, filter marketapi.AuctionFilter) ([]marketapi.Auction, error) {
	var all []marketapi.Auction
	for page := 1; page <= maxAuctionPages; page++ {
		filter.Page = page
		auctions, meta, err := client.ListAuctions(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, auctions...)
		if !meta.HasNext() {
			break
		}
	}
	return all, nil
}

// auctionEvents projects auctions onto calendar events at their start.
func (h *Handler) auctionEvents(auctions []marketapi.Auction) []calendar.Event {
	now := h.clock()
	out := make([]calendar.Event, 0, len(auctions))
	for _, auction := range auctions {
		status := auction.StatusAt(now)
		out = append(out, calendar.Event{
			ID:    auction.ID.String(),
			Title: auction.DisplayTitle(),
			Date:  auction.StartAt,
			Kind:  string(status),
			URL:   auctionDetailURL(status, auction.ID.String()),
		})
	}
	return out
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	loc, tag := h.localizer(w, r)
	client := h.client(r)
	ctx := r.Context()
	now := h.clock()
	month := calendar.ParseMonth(r.URL.Query().Get("month"), h.location, now)

	var (
		mu       sync.Mutex
		failures []error
		pending  int
		auctions []marketapi.Auction
		reports  int
	)
	fail := func(err error) {
		mu.Lock()
		failures = append(failures, err)
		mu.Unlock()
	}

	// Each source degrades independently; the group never cancels siblings.
	var group errgroup.Group
	group.Go(func() error {
		listings, meta, err := client.ListAdminListings(ctx, marketapi.ListingFilter{Status: string(marketapi.ListingPending)})
		if err != nil {
			fail(err)
			return nil
		}
		pending = pageTotal(meta, len(listings))
		return nil
	})
	group.Go(func() error {
		list, err := listAllAuctions(ctx, client, marketapi.AuctionFilter{})
		if err != nil {
			fail(err)
			return nil
		}
		auctions = list
		return nil
	})
	group.Go(func() error {
		complaints, meta, err := client.ListComplaints(ctx, marketapi.FeedFilter{})
		if err != nil {
			fail(err)
			return nil
		}
		reports = pageTotal(meta, len(complaints))
		return nil
	})
	_ = group.Wait()

	for _, err := range failures {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
	}

	view := templates.DashboardView{}
	for _, err := range failures {
		log.Printf("admin: dashboard source: %v", err)
		view.Errors = append(view.Errors, errorMessage(loc, err))
	}

	live, scheduled := 0, 0
	for _, auction := range auctions {
		switch auction.StatusAt(now) {
		case marketapi.AuctionLive:
			live++
		case marketapi.AuctionScheduled:
			scheduled++
		}
	}
	view.Counts = []templates.CountCard{
		{Label: loc.Sprintf("dashboard.pending_listings"), Value: formatCount(loc, pending), URL: routepath.Listings + "?status=pending"},
		{Label: loc.Sprintf("dashboard.live_auctions"), Value: formatCount(loc, live), URL: routepath.Live},
		{Label: loc.Sprintf("dashboard.scheduled_auctions"), Value: formatCount(loc, scheduled), URL: routepath.AuctionsTab(string(marketapi.AuctionScheduled), "")},
		{Label: loc.Sprintf("dashboard.complaints"), Value: formatCount(loc, reports), URL: routepath.Complaints},
	}

	grid := calendar.BuildMonthGrid(month, h.auctionEvents(auctions), h.weekStart)
	view.Calendar = buildCalendarView(loc, grid, now)

	page := h.pageContext(r, loc, tag, "dashboard.title")
	h.render(w, r, page, templates.DashboardPage(page, view), http.StatusOK)
}

// buildCalendarView converts a month grid into its view model.
func buildCalendarView(loc *message.Printer, grid calendar.Grid, now time.Time) templates.CalendarView {
	today := calendar.DayKey(now)
	view := templates.CalendarView{
		MonthLabel:  monthLabel(loc, grid.Month),
		PrevURL:     routepath.DashboardMonth(calendar.MonthParam(calendar.ShiftMonth(grid.Month, -1))),
		NextURL:     routepath.DashboardMonth(calendar.MonthParam(calendar.ShiftMonth(grid.Month, 1))),
		TodayURL:    routepath.Dashboard,
		SubscribeTo: routepath.DashboardCalendar + "?month=" + calendar.MonthParam(grid.Month),
	}
	for _, day := range grid.Weekdays() {
		view.Weekdays = append(view.Weekdays, weekdayLabel(loc, day))
	}
	for _, week := range grid.Weeks() {
		row := make([]templates.CalendarDay, 0, len(week))
		for _, day := range week {
			cell := templates.CalendarDay{
				Day:     day.Date.Day(),
				Key:     day.Key(),
				InMonth: day.InCurrentMonth,
				Today:   day.Key() == today,
			}
			for _, evt := range day.Events {
				cell.Events = append(cell.Events, templates.CalendarEvent{Title: evt.Title, URL: evt.URL, Kind: evt.Kind})
			}
			row = append(row, cell)
		}
		view.Weeks = append(view.Weeks, row)
	}
	return view
}

// handleDashboardCalendar exports the auction schedule as an iCalendar feed.
func (h *Handler) handleDashboardCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	loc, tag := h.localizer(w, r)
	auctions, err := listAllAuctions(r.Context(), h.client(r), marketapi.AuctionFilter{})
	if err != nil {
		h.renderError(w, r, loc, tag, err)
		return
	}

	body := calendar.ExportICS(h.auctionEvents(auctions), calendar.ICSOptions{
		Name:     loc.Sprintf("calendar.feed_name"),
		BaseURL:  h.baseURL(r),
		Location: h.location,
		Now:      h.now(),
	})
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="auctions.ics"`)
	_, _ = w.Write([]byte(body))
}

// baseURL is the configured public origin, or the request's own when unset.
func (h *Handler) baseURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func pageTotal(meta marketapi.Page, fallback int) int {
	if meta.Total > 0 {
		return meta.Total
	}
	return fallback
}
