package routepath

import (
	"net/url"
	"strings"
)

const (
	Root = "/"
)

const (
	StaticPrefix = "/static/"
	Healthz      = "/healthz"
	Metrics      = "/metrics"
)

const (
	Login  = "/login"
	Logout = "/logout"
)

const (
	Dashboard         = "/dashboard"
	DashboardCalendar = "/dashboard/calendar.ics"
)

const (
	Listings       = "/listings"
	ListingsNew    = "/listings/new"
	ListingsPrefix = "/listings/"
)

const (
	Auctions       = "/auctions"
	AuctionsPrefix = "/auctions/"
	Live           = "/live"
)

const (
	Banners       = "/banners"
	BannersPrefix = "/banners/"
)

const (
	Models          = "/models"
	ModelsDeleteAll = "/models/delete-all"
	ModelsPrefix    = "/models/"
)

const (
	Complaints    = "/complaints"
	Notifications = "/notifications"
	Transactions  = "/transactions"
)

const (
	AccountPassword  = "/account/password"
	AccountEmployees = "/account/employees"
)

// DashboardMonth links the dashboard calendar to a YYYY-MM month.
func DashboardMonth(month string) string {
	month = strings.TrimSpace(month)
	if month == "" {
		return Dashboard
	}
	return Dashboard + "?month=" + url.QueryEscape(month)
}

func Listing(listingID string) string {
	return Listings + "/" + escapeSegment(listingID)
}

func ListingApprove(listingID string) string {
	return Listing(listingID) + "/approve"
}

func ListingReject(listingID string) string {
	return Listing(listingID) + "/reject"
}

// AuctionsTab links the auctions board with an active tab and search.
func AuctionsTab(tab string, search string) string {
	query := url.Values{}
	if tab = strings.TrimSpace(tab); tab != "" {
		query.Set("tab", tab)
	}
	if search = strings.TrimSpace(search); search != "" {
		query.Set("q", search)
	}
	if len(query) == 0 {
		return Auctions
	}
	return Auctions + "?" + query.Encode()
}

// AuctionDetail links the detail view of an auction under its status
// segment: live, scheduled, or ended.
func AuctionDetail(status string, auctionID string) string {
	return Auctions + "/" + escapeSegment(status) + "/" + escapeSegment(auctionID)
}

func AuctionStream(auctionID string) string {
	return Auctions + "/" + escapeSegment(auctionID) + "/stream"
}

func AuctionStreamFeed(auctionID string) string {
	return AuctionStream(auctionID) + "/ws"
}

func BannerDelete(bannerID string) string {
	return Banners + "/" + escapeSegment(bannerID) + "/delete"
}

func BannerMove(bannerID string) string {
	return Banners + "/" + escapeSegment(bannerID) + "/move"
}

func Model(modelID string) string {
	return Models + "/" + escapeSegment(modelID)
}

func ModelDelete(modelID string) string {
	return Model(modelID) + "/delete"
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
