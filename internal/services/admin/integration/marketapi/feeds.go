package marketapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// FeedFilter narrows the read-only feeds. Type selects a complaint kind,
// notification kind, or transaction type depending on the feed.
type FeedFilter struct {
	Type string
	Page int
}

func (f FeedFilter) query() url.Values {
	q := url.Values{}
	setQuery(q, "type", f.Type)
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

// ListComplaints returns user complaints and suggestions, newest first as
// the API orders them.
func (c *Client) ListComplaints(ctx context.Context, filter FeedFilter) ([]Complaint, Page, error) {
	return listOf[Complaint](ctx, c, call{
		resource: "complaints",
		method:   http.MethodGet,
		path:     "/complaints",
		query:    filter.query(),
		fallback: "Failed to fetch complaints",
	}, "complaints")
}

// ListNotifications returns notifications sent to marketplace users.
func (c *Client) ListNotifications(ctx context.Context, filter FeedFilter) ([]Notification, Page, error) {
	return listOf[Notification](ctx, c, call{
		resource: "notifications",
		method:   http.MethodGet,
		path:     "/admin/notifications",
		query:    filter.query(),
		fallback: "Failed to fetch notifications",
	}, "notifications")
}

// ListTransactions returns the financial ledger.
func (c *Client) ListTransactions(ctx context.Context, filter FeedFilter) ([]Transaction, Page, error) {
	return listOf[Transaction](ctx, c, call{
		resource: "transactions",
		method:   http.MethodGet,
		path:     "/admin/transactions",
		query:    filter.query(),
		fallback: "Failed to fetch transactions",
	}, "transactions")
}
