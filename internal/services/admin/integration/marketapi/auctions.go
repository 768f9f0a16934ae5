package marketapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
)

// AuctionFilter narrows the admin auction list. Status is passed through
// for servers that filter; callers still bucket by StatusAt.
type AuctionFilter struct {
	Status string
	Search string
	Page   int
}

func (f AuctionFilter) query() url.Values {
	q := url.Values{}
	setQuery(q, "status", f.Status)
	setQuery(q, "search", f.Search)
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

// ListAuctions returns auctions for staff.
func (c *Client) ListAuctions(ctx context.Context, filter AuctionFilter) ([]Auction, Page, error) {
	return listOf[Auction](ctx, c, call{
		resource: "auctions",
		method:   http.MethodGet,
		path:     "/admin/auctions",
		query:    filter.query(),
		fallback: "Failed to fetch auctions",
	}, "auctions")
}

// GetAuction returns one auction with its listing.
func (c *Client) GetAuction(ctx context.Context, id string) (Auction, error) {
	var auction Auction
	err := c.doInto(ctx, call{
		resource: "auctions",
		method:   http.MethodGet,
		path:     "/auctions/" + pathID(id),
		fallback: "Failed to fetch auction",
	}, &auction, "auction")
	return auction, err
}

// AuctionUpdate changes an auction's schedule or pricing; empty fields are
// left untouched.
type AuctionUpdate struct {
	Title         string           `json:"title,omitempty"`
	Status        string           `json:"status,omitempty"`
	StartAt       string           `json:"start_time,omitempty"`
	EndAt         string           `json:"end_time,omitempty"`
	StartingPrice *decimal.Decimal `json:"starting_price,omitempty"`
}

// UpdateAuction applies update and returns the stored auction.
func (c *Client) UpdateAuction(ctx context.Context, id string, update AuctionUpdate) (Auction, error) {
	req, err := jsonCall("auctions", http.MethodPut, "/auctions/"+pathID(id), update, "Failed to update auction")
	if err != nil {
		return Auction{}, err
	}
	var auction Auction
	if err := c.doInto(ctx, req, &auction, "auction"); err != nil {
		return Auction{}, err
	}
	return auction, nil
}

// ListBids returns an auction's bids. Deployments without the nested route
// answer 404, in which case the flat /bids?auction_id= route is tried.
func (c *Client) ListBids(ctx context.Context, auctionID string) ([]Bid, error) {
	bids, _, err := listOf[Bid](ctx, c, call{
		resource: "bids",
		method:   http.MethodGet,
		path:     "/auctions/" + pathID(auctionID) + "/bids",
		fallback: "Failed to fetch bids",
	}, "bids")
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		return bids, err
	}
	bids, _, err = listOf[Bid](ctx, c, call{
		resource: "bids",
		method:   http.MethodGet,
		path:     "/bids",
		query:    url.Values{"auction_id": {auctionID}},
		fallback: "Failed to fetch bids",
	}, "bids")
	return bids, err
}
