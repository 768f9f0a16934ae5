package admin

import (
	"log"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/forms"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/events"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/streamlink"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/streamwatch"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/templates"
	"github.com/atlasdata/alfurij-admin/internal/services/shared/htmx"
)

// auctionDetailURL links the detail view for statuses that have one.
func auctionDetailURL(status marketapi.AuctionStatus, auctionID string) string {
	switch status {
	case marketapi.AuctionLive, marketapi.AuctionScheduled, marketapi.AuctionEnded:
		return routepath.AuctionDetail(string(status), auctionID)
	default:
		return ""
	}
}

func (h *Handler) auctionRow(loc *message.Printer, auction marketapi.Auction) templates.AuctionRow {
	status := auction.StatusAt(h.clock())
	id := auction.ID.String()
	price := auction.StartingPrice
	if auction.CurrentPrice.Valid {
		price = auction.CurrentPrice.Decimal
	}
	row := templates.AuctionRow{
		ID:          id,
		Title:       auction.DisplayTitle(),
		Status:      string(status),
		StatusLabel: auctionStatusLabel(loc, status),
		StartAt:     formatDate(auction.StartAt, h.location),
		EndAt:       formatDate(auction.EndAt, h.location),
		Price:       formatMoney(loc, price, marketapi.DefaultCurrency),
		OnAir:       auction.OnAir(),
		DetailURL:   auctionDetailURL(status, id),
	}
	if status == marketapi.AuctionLive || status == marketapi.AuctionScheduled {
		row.StreamURL = routepath.AuctionStream(id)
	}
	if link, ok := streamlink.Parse(auction.StreamURL); ok {
		row.EmbedURL = link.EmbedURL
	}
	return row
}

func (h *Handler) handleAuctionsPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	loc, tag := h.localizer(w, r)
	search := strings.TrimSpace(r.URL.Query().Get("q"))
	active := marketapi.ParseAuctionStatus(r.URL.Query().Get("tab"))

	tabs := make([]templates.Tab, 0, len(marketapi.AuctionStatuses))
	for _, status := range marketapi.AuctionStatuses {
		tabs = append(tabs, templates.Tab{
			Value: string(status),
			Label: loc.Sprintf("auctions.tab." + string(status)),
			URL:   routepath.AuctionsTab(string(status), search),
		})
	}
	view := templates.AuctionsView{
		Tabs:   templates.NewTabSet(string(active), tabs),
		Search: search,
	}
	selected := marketapi.AuctionStatus(view.Tabs.Active)

	auctions, err := listAllAuctions(r.Context(), h.client(r), marketapi.AuctionFilter{Search: search})
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		log.Printf("admin: list auctions: %v", err)
		view.Error = errorMessage(loc, err)
		view.RetryURL = retryURL(r)
	}
	now := h.clock()
	for _, auction := range auctions {
		if auction.StatusAt(now) == selected {
			view.Rows = append(view.Rows, h.auctionRow(loc, auction))
		}
	}

	page := h.pageContext(r, loc, tag, "auctions.title")
	h.render(w, r, page, templates.AuctionsPage(page, view), http.StatusOK)
}

func (h *Handler) handleLiveBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	loc, tag := h.localizer(w, r)
	view := templates.LiveView{}
	auctions, err := listAllAuctions(r.Context(), h.client(r), marketapi.AuctionFilter{Status: string(marketapi.AuctionLive)})
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		log.Printf("admin: list live auctions: %v", err)
		view.Error = errorMessage(loc, err)
		view.RetryURL = retryURL(r)
	}
	now := h.clock()
	for _, auction := range auctions {
		if auction.StatusAt(now) == marketapi.AuctionLive {
			view.Rows = append(view.Rows, h.auctionRow(loc, auction))
		}
	}

	page := h.pageContext(r, loc, tag, "live.title")
	h.render(w, r, page, templates.LivePage(page, view), http.StatusOK)
}

func (h *Handler) handleAuctionDetail(w http.ResponseWriter, r *http.Request, segment string, auctionID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	loc, tag := h.localizer(w, r)
	page := h.pageContext(r, loc, tag, "auctions.detail_title")
	client := h.client(r)

	auction, err := client.GetAuction(r.Context(), auctionID)
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		log.Printf("admin: get auction %s: %v", auctionID, err)
		view := templates.AuctionDetailView{Error: errorMessage(loc, err), RetryURL: retryURL(r)}
		h.render(w, r, page, templates.AuctionDetailPage(page, view), apperrors.CodeOf(err).HTTPStatus())
		return
	}

	// Links go stale as auctions move between states; follow the auction.
	status := auction.StatusAt(h.clock())
	if canonical := auctionDetailURL(status, auctionID); canonical != "" && string(status) != segment {
		http.Redirect(w, r, canonical, http.StatusFound)
		return
	}

	row := h.auctionRow(loc, auction)
	page.Title = row.Title
	view := templates.AuctionDetailView{Auction: row}

	bids, err := client.ListBids(r.Context(), auctionID)
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		log.Printf("admin: list bids for auction %s: %v", auctionID, err)
		view.BidsError = errorMessage(loc, err)
	}
	summary := marketapi.SummarizeBids(auction, bids)
	view.Highest = formatMoney(loc, summary.Highest, summary.Currency)
	view.Participants = summary.Participants
	for _, bid := range summary.Bids {
		view.Bids = append(view.Bids, templates.BidRow{
			Bidder:    bid.BidderName,
			Amount:    formatMoney(loc, bid.Amount, bid.Currency),
			CreatedAt: formatDate(bid.CreatedAt, h.location),
		})
	}
	h.render(w, r, page, templates.AuctionDetailPage(page, view), http.StatusOK)
}

func (h *Handler) handleStreamControl(w http.ResponseWriter, r *http.Request, auctionID string) {
	loc, tag := h.localizer(w, r)
	switch r.Method {
	case http.MethodGet:
		h.renderStreamControl(w, r, loc, tag, auctionID, templates.FormState{}, http.StatusOK)
	case http.MethodPost:
		h.submitStreamControl(w, r, loc, tag, auctionID)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// currentStream returns the auction's working stream; a failed lookup is
// treated as no stream so the operator can still start one.
func (h *Handler) currentStream(w http.ResponseWriter, r *http.Request, auctionID string) (marketapi.Stream, bool, bool) {
	streams, err := h.client(r).ListStreams(r.Context(), auctionID)
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return marketapi.Stream{}, false, true
		}
		log.Printf("admin: list streams for auction %s: %v", auctionID, err)
		return marketapi.Stream{}, false, false
	}
	stream, ok := marketapi.CurrentStream(streams)
	return stream, ok, false
}

func (h *Handler) renderStreamControl(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, auctionID string, state templates.FormState, status int) {
	auction, err := h.client(r).GetAuction(r.Context(), auctionID)
	if err != nil {
		h.renderError(w, r, loc, tag, err)
		return
	}
	stream, hasStream, done := h.currentStream(w, r, auctionID)
	if done {
		return
	}

	watchURL := auction.StreamURL
	if hasStream {
		watchURL = firstNonEmpty(stream.WatchURL, watchURL)
	}
	if state.Values == nil {
		state.Values = map[string]string{"stream_url": watchURL}
	}
	view := templates.StreamControlView{
		Auction:   h.auctionRow(loc, auction),
		Form:      state,
		HasStream: hasStream,
		OnAir:     auction.OnAir(),
		Elapsed:   streamwatch.FormatElapsed(auction.StreamElapsed(h.clock())),
		FeedURL:   routepath.AuctionStreamFeed(auctionID),
		ActionURL: routepath.AuctionStream(auctionID),
	}
	if hasStream && stream.EmbedURL != "" {
		view.EmbedURL = stream.EmbedURL
	} else if link, ok := streamlink.Parse(watchURL); ok {
		view.EmbedURL = link.EmbedURL
	}

	page := h.pageContext(r, loc, tag, "stream.title")
	h.render(w, r, page, templates.StreamControlPage(page, view), status)
}

func (h *Handler) submitStreamControl(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, auctionID string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	rawURL := strings.TrimSpace(r.PostFormValue("stream_url"))
	values := map[string]string{"stream_url": rawURL}
	client := h.client(r)
	ctx := r.Context()

	var (
		err    error
		kind   events.Kind
		notice string
	)
	switch r.PostFormValue("action") {
	case "save":
		kind, notice = events.StreamSaved, "notice.stream_saved"
		var link streamlink.Link
		if link, err = forms.StreamURL(rawURL); err != nil {
			break
		}
		stream, hasStream, done := h.currentStream(w, r, auctionID)
		if done {
			return
		}
		err = h.saveStream(r, auctionID, stream, hasStream, link)
	case "start":
		kind, notice = events.StreamStarted, "notice.stream_started"
		stream, hasStream, done := h.currentStream(w, r, auctionID)
		if done {
			return
		}
		if !hasStream || rawURL != "" {
			var link streamlink.Link
			if link, err = forms.StreamURL(rawURL); err != nil {
				break
			}
			if !hasStream {
				err = client.StartAuctionStream(ctx, auctionID, link.WatchURL)
				break
			}
			if link.WatchURL != stream.WatchURL {
				if err = h.saveStream(r, auctionID, stream, true, link); err != nil {
					break
				}
			}
		}
		err = client.StartStream(ctx, stream.ID.String())
	case "end":
		kind, notice = events.StreamEnded, "notice.stream_ended"
		err = client.EndAuctionStream(ctx, auctionID)
	default:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		log.Printf("admin: stream %s for auction %s: %v", kind, auctionID, err)
		h.renderStreamControl(w, r, loc, tag, auctionID, formState(loc, values, err), formStatus(err))
		return
	}

	h.emit(r, kind, auctionID, map[string]string{"stream_url": rawURL})
	htmx.Redirect(w, r, withNotice(routepath.AuctionStream(auctionID), notice))
}

// saveStream updates the working stream link, or attaches a new one.
func (h *Handler) saveStream(r *http.Request, auctionID string, stream marketapi.Stream, hasStream bool, link streamlink.Link) error {
	input := marketapi.StreamInput{
		Platform:  streamlink.PlatformYouTube,
		StreamURL: link.WatchURL,
		EmbedURL:  link.EmbedURL,
	}
	var err error
	if hasStream {
		_, err = h.client(r).UpdateStream(r.Context(), auctionID, stream.ID.String(), input)
	} else {
		_, err = h.client(r).CreateStream(r.Context(), auctionID, input)
	}
	return err
}

func (h *Handler) handleStreamFeed(w http.ResponseWriter, r *http.Request, auctionID string) {
	h.poller.ServeFeed(w, r, h.client(r), auctionID)
}
