package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"golang.org/x/text/message"
)

type fakeLocalizer struct {
	value string
}

func (f fakeLocalizer) Sprintf(key message.Reference, args ...any) string {
	return f.value
}

func TestTranslateFallback(t *testing.T) {
	if T(nil, "listings.title") != "listings.title" {
		t.Fatal("expected key fallback")
	}
}

func TestTranslateLocalizer(t *testing.T) {
	loc := fakeLocalizer{value: "translated"}
	if T(loc, "hello") != "translated" {
		t.Fatal("expected translated value")
	}
}

func TestComposePageTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: AppName},
		{input: "Listings", want: "Listings | " + AppName},
		{input: "Listings | " + AppName, want: "Listings | " + AppName},
		{input: "Listings - " + AppName, want: "Listings | " + AppName},
		{input: "  Auctions  ", want: "Auctions | " + AppName},
	}
	for _, tc := range tests {
		if got := ComposePageTitle(tc.input); got != tc.want {
			t.Fatalf("ComposePageTitle(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNewTabSet(t *testing.T) {
	tabs := []Tab{{Value: "live"}, {Value: "scheduled"}, {Value: "ended"}}

	set := NewTabSet("ended", tabs)
	if set.Active != "ended" || !set.Tabs[2].Active || set.Tabs[0].Active {
		t.Fatalf("set = %+v", set)
	}
	if tabs[2].Active {
		t.Fatal("input tabs were mutated")
	}

	fallback := NewTabSet("bogus", tabs)
	if fallback.Active != "live" || !fallback.Tabs[0].Active {
		t.Fatalf("fallback = %+v", fallback)
	}

	if empty := NewTabSet("live", nil); empty.Active != "" {
		t.Fatalf("empty = %+v", empty)
	}
}

func TestNewSelectField(t *testing.T) {
	options := []SelectOption{{Value: "", Label: "All"}, {Value: "pending", Label: "Pending", Selected: true}, {Value: "approved", Label: "Approved"}}

	field := NewSelectField("status", "approved", options)
	if field.Value != "approved" || !field.Options[2].Selected || field.Options[1].Selected {
		t.Fatalf("field = %+v", field)
	}

	unknown := NewSelectField("status", "nope", options)
	if unknown.Value != "" {
		t.Fatalf("unknown value = %q", unknown.Value)
	}
	for _, opt := range unknown.Options {
		if opt.Selected {
			t.Fatalf("unexpected selection %+v", opt)
		}
	}
}

func TestNewPager(t *testing.T) {
	first := NewPager("/listings?q=volvo", 1, true)
	if first.PrevURL != "" {
		t.Fatalf("prev = %q", first.PrevURL)
	}
	if first.NextURL != "/listings?page=2&q=volvo" {
		t.Fatalf("next = %q", first.NextURL)
	}

	middle := NewPager("/listings?page=3", 3, false)
	if middle.PrevURL != "/listings?page=2" || middle.NextURL != "" {
		t.Fatalf("middle = %+v", middle)
	}
	if !middle.Visible() {
		t.Fatal("expected visible pager")
	}

	if NewPager("/listings", 0, false).Visible() {
		t.Fatal("single page should hide pager")
	}
}

func TestAppendQueryParam(t *testing.T) {
	if got := AppendQueryParam("/live", "notice", "a b"); got != "/live?notice=a+b" {
		t.Fatalf("got %q", got)
	}
	if got := AppendQueryParam("/live?x=1", "y", "2"); got != "/live?x=1&y=2" {
		t.Fatalf("got %q", got)
	}
}

func renderString(t *testing.T, component templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := component.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestEveryPageRendersZeroView(t *testing.T) {
	page := PageContext{Lang: "en-US", Dir: "ltr", Title: "Test"}
	components := map[string]templ.Component{
		"login":          LoginPage(page, LoginView{}),
		"dashboard":      DashboardPage(page, DashboardView{}),
		"listings":       ListingsPage(page, ListingsView{}),
		"listing_detail": ListingDetailPage(page, ListingDetailView{}),
		"listing_form":   ListingFormPage(page, ListingFormView{}),
		"auctions":       AuctionsPage(page, AuctionsView{}),
		"auction_detail": AuctionDetailPage(page, AuctionDetailView{}),
		"stream_control": StreamControlPage(page, StreamControlView{}),
		"live":           LivePage(page, LiveView{}),
		"banners":        BannersPage(page, BannersView{}),
		"models":         ModelsPage(page, ModelsView{}),
		"feed":           FeedPage(page, FeedView{}),
		"password":       PasswordPage(page, PasswordView{}),
		"employees":      EmployeesPage(page, EmployeesView{}),
		"error":          ErrorPage(page, ErrorView{}),
	}
	for name, component := range components {
		html := renderString(t, component)
		if !strings.Contains(html, `<main id="main">`) {
			t.Fatalf("%s: missing main container", name)
		}
		if !strings.Contains(html, "Test | "+AppName) {
			t.Fatalf("%s: missing composed title", name)
		}
	}
}

func TestLoginPageEscapesValuesAndHidesNav(t *testing.T) {
	page := PageContext{Lang: "en-US", Dir: "ltr", Nav: []NavItem{{Label: "Listings", URL: "/listings"}}}
	html := renderString(t, LoginPage(page, LoginView{
		Form: FormState{
			Values: map[string]string{"email": `"><script>`},
			Fields: map[string]string{"password": "Required"},
		},
	}))
	if strings.Contains(html, "<script>x") || strings.Contains(html, `value=""><script>`) {
		t.Fatal("form value not escaped")
	}
	if !strings.Contains(html, "Required") {
		t.Fatal("missing field error")
	}
	if strings.Contains(html, `class="sidebar"`) {
		t.Fatal("nav rendered without a session")
	}
}

func TestPagesUseLocalizer(t *testing.T) {
	page := PageContext{Lang: "ar", Dir: "rtl", Loc: fakeLocalizer{value: "مرحبا"}, AdminName: "Sara"}
	html := renderString(t, ErrorPage(page, ErrorView{Message: "boom", RetryURL: "/listings"}))
	if !strings.Contains(html, `dir="rtl"`) {
		t.Fatal("missing rtl direction")
	}
	if !strings.Contains(html, "مرحبا") {
		t.Fatal("expected translated text")
	}
	if !strings.Contains(html, "boom") || !strings.Contains(html, `href="/listings"`) {
		t.Fatal("missing error message or retry link")
	}
	if !strings.Contains(html, `class="sidebar"`) {
		t.Fatal("expected nav for signed-in page")
	}
}
