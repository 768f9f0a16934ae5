package routepath

import "testing"

func TestTopLevelRoutes(t *testing.T) {
	t.Parallel()

	routes := map[string]string{
		Root:              "/",
		StaticPrefix:      "/static/",
		Login:             "/login",
		Logout:            "/logout",
		Dashboard:         "/dashboard",
		DashboardCalendar: "/dashboard/calendar.ics",
		Listings:          "/listings",
		ListingsNew:       "/listings/new",
		Auctions:          "/auctions",
		Live:              "/live",
		Banners:           "/banners",
		Models:            "/models",
		ModelsDeleteAll:   "/models/delete-all",
		Complaints:        "/complaints",
		Notifications:     "/notifications",
		Transactions:      "/transactions",
		AccountPassword:   "/account/password",
		AccountEmployees:  "/account/employees",
	}
	for got, want := range routes {
		if got != want {
			t.Fatalf("route = %q, want %q", got, want)
		}
	}
}

func TestListingBuilders(t *testing.T) {
	t.Parallel()

	if got := Listing("12"); got != "/listings/12" {
		t.Fatalf("Listing = %q", got)
	}
	if got := ListingApprove("12"); got != "/listings/12/approve" {
		t.Fatalf("ListingApprove = %q", got)
	}
	if got := ListingReject(" 12 "); got != "/listings/12/reject" {
		t.Fatalf("ListingReject = %q", got)
	}
}

func TestAuctionBuilders(t *testing.T) {
	t.Parallel()

	if got := AuctionDetail("scheduled", "9"); got != "/auctions/scheduled/9" {
		t.Fatalf("AuctionDetail = %q", got)
	}
	if got := AuctionStream("9"); got != "/auctions/9/stream" {
		t.Fatalf("AuctionStream = %q", got)
	}
	if got := AuctionStreamFeed("9"); got != "/auctions/9/stream/ws" {
		t.Fatalf("AuctionStreamFeed = %q", got)
	}
	if got := AuctionsTab("", ""); got != "/auctions" {
		t.Fatalf("AuctionsTab empty = %q", got)
	}
	if got := AuctionsTab("ended", "volvo fh"); got != "/auctions?q=volvo+fh&tab=ended" {
		t.Fatalf("AuctionsTab = %q", got)
	}
}

func TestCatalogBuilders(t *testing.T) {
	t.Parallel()

	if got := BannerDelete("3"); got != "/banners/3/delete" {
		t.Fatalf("BannerDelete = %q", got)
	}
	if got := BannerMove("3"); got != "/banners/3/move" {
		t.Fatalf("BannerMove = %q", got)
	}
	if got := Model("a b"); got != "/models/a%20b" {
		t.Fatalf("Model = %q", got)
	}
	if got := ModelDelete("4"); got != "/models/4/delete" {
		t.Fatalf("ModelDelete = %q", got)
	}
}

func TestDashboardMonth(t *testing.T) {
	t.Parallel()

	if got := DashboardMonth(""); got != "/dashboard" {
		t.Fatalf("DashboardMonth empty = %q", got)
	}
	if got := DashboardMonth("2025-03"); got != "/dashboard?month=2025-03" {
		t.Fatalf("DashboardMonth = %q", got)
	}
}

func TestEscapeSegment(t *testing.T) {
	t.Parallel()

	if got := escapeSegment(" a/b "); got != "a%2Fb" {
		t.Fatalf("escapeSegment = %q", got)
	}
}
