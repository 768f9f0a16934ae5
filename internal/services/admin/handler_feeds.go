package admin

import (
	"log"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/templates"
)

// feedCellLimit caps free text in feed tables.
const feedCellLimit = 140

// feedPage is one loaded page of a read-only feed.
type feedPage struct {
	rows []templates.FeedRow
	meta marketapi.Page
	err  error
}

func (h *Handler) handleComplaints(w http.ResponseWriter, r *http.Request) {
	kind := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	if kind != "complaint" && kind != "suggestion" {
		kind = ""
	}
	h.serveFeed(w, r, "feeds.complaints.title", func(loc *message.Printer) (templates.FeedView, feedPage) {
		filter := templates.NewSelectField("type", kind, []templates.SelectOption{
			{Value: "", Label: loc.Sprintf("feeds.complaints.all")},
			{Value: "complaint", Label: loc.Sprintf("feeds.complaints.type.complaint")},
			{Value: "suggestion", Label: loc.Sprintf("feeds.complaints.type.suggestion")},
		})
		view := templates.FeedView{
			Filter: &filter,
			Columns: []string{
				loc.Sprintf("feeds.col.type"),
				loc.Sprintf("feeds.col.user"),
				loc.Sprintf("feeds.col.message"),
				loc.Sprintf("feeds.col.date"),
			},
		}
		complaints, meta, err := h.client(r).ListComplaints(r.Context(), marketapi.FeedFilter{Type: kind, Page: pageParam(r)})
		out := feedPage{meta: meta, err: err}
		for _, complaint := range complaints {
			typeLabel := complaint.Type
			if complaint.IsComplaint() {
				typeLabel = loc.Sprintf("feeds.complaints.type.complaint")
			} else if strings.EqualFold(strings.TrimSpace(complaint.Type), "suggestion") {
				typeLabel = loc.Sprintf("feeds.complaints.type.suggestion")
			}
			out.rows = append(out.rows, templates.FeedRow{
				Cells: []string{
					typeLabel,
					firstNonEmpty(complaint.User.Name, complaint.User.Email, complaint.User.Phone),
					truncate(complaint.Message, feedCellLimit),
					formatDate(complaint.CreatedAt, h.location),
				},
				Highlight: complaint.IsComplaint(),
			})
		}
		return view, out
	})
}

func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, "feeds.notifications.title", func(loc *message.Printer) (templates.FeedView, feedPage) {
		view := templates.FeedView{
			Columns: []string{
				loc.Sprintf("feeds.col.title"),
				loc.Sprintf("feeds.col.message"),
				loc.Sprintf("feeds.col.type"),
				loc.Sprintf("feeds.col.date"),
			},
		}
		notifications, meta, err := h.client(r).ListNotifications(r.Context(), marketapi.FeedFilter{Page: pageParam(r)})
		out := feedPage{meta: meta, err: err}
		for _, n := range notifications {
			out.rows = append(out.rows, templates.FeedRow{
				Cells: []string{
					n.Title,
					truncate(n.Body, feedCellLimit),
					n.Type,
					formatDate(n.CreatedAt, h.location),
				},
				Highlight: !n.Read,
			})
		}
		return view, out
	})
}

func (h *Handler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, "feeds.transactions.title", func(loc *message.Printer) (templates.FeedView, feedPage) {
		view := templates.FeedView{
			Columns: []string{
				loc.Sprintf("feeds.col.reference"),
				loc.Sprintf("feeds.col.user"),
				loc.Sprintf("feeds.col.type"),
				loc.Sprintf("feeds.col.status"),
				loc.Sprintf("feeds.col.amount"),
				loc.Sprintf("feeds.col.date"),
			},
		}
		transactions, meta, err := h.client(r).ListTransactions(r.Context(), marketapi.FeedFilter{Page: pageParam(r)})
		out := feedPage{meta: meta, err: err}
		for _, tx := range transactions {
			out.rows = append(out.rows, templates.FeedRow{
				Cells: []string{
					firstNonEmpty(tx.Reference, "#"+tx.ID.String()),
					firstNonEmpty(tx.User.Name, tx.User.Email, tx.User.Phone),
					tx.Type,
					tx.Status,
					formatMoney(loc, tx.Amount, tx.Currency),
					formatDate(tx.CreatedAt, h.location),
				},
			})
		}
		return view, out
	})
}

// serveFeed renders a paginated read-only feed built by load.
func (h *Handler) serveFeed(w http.ResponseWriter, r *http.Request, titleKey string, load func(loc *message.Printer) (templates.FeedView, feedPage)) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	loc, tag := h.localizer(w, r)
	view, result := load(loc)
	if result.err != nil {
		if h.endSessionOnUnauthorized(w, r, result.err) {
			return
		}
		log.Printf("admin: load %s: %v", r.URL.Path, result.err)
		view.Error = errorMessage(loc, result.err)
		view.RetryURL = retryURL(r)
	}
	view.Heading = loc.Sprintf(titleKey)
	view.Rows = result.rows
	view.Pager = templates.NewPager(r.URL.RequestURI(), pageParam(r), result.meta.HasNext())

	h.renderFeed(w, r, loc, tag, titleKey, view)
}

func (h *Handler) renderFeed(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, titleKey string, view templates.FeedView) {
	page := h.pageContext(r, loc, tag, titleKey)
	h.render(w, r, page, templates.FeedPage(page, view), http.StatusOK)
}
