package admin

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/forms"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/events"
)

const pendingListingJSON = `{"data":{"id":5,"title":"Volvo FH16 2019","city":"Riyadh","category":"شاحنات",
	"price_in_sar":"250000","ad_type":"live_auction","approval_status":"pending",
	"seller":{"name":"Fahad"},"media":["listings/5/a.jpg"],"other":["ABS","Retarder"]}}`

func TestListingsPageForwardsFilters(t *testing.T) {
	env := newTestEnv(t)
	env.api.reply(http.MethodGet, "/admin/listings", http.StatusOK, `{"data":{"data":[
		{"id":5,"title":"Volvo FH16 2019","city":"Riyadh","category":"شاحنات","approval_status":"pending","seller":{"email":"f@example.com"}}
	],"current_page":2,"last_page":3}}`)

	rec := env.get(t, "/listings?q=volvo&status=pending&city=Riyadh&category=%D8%B4%D8%A7%D8%AD%D9%86%D8%A7%D8%AA&page=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	assertContains(t, body, "Volvo FH16 2019", "f@example.com", `href="/listings/5"`, "page=1", "page=3")

	call, ok := env.api.lastCall(http.MethodGet, "/admin/listings")
	if !ok {
		t.Fatal("expected listings call")
	}
	want := map[string]string{"search": "volvo", "status": "pending", "city": "Riyadh", "category": "شاحنات", "page": "2"}
	for key, value := range want {
		if got := call.Query.Get(key); got != value {
			t.Fatalf("query %s = %q, want %q", key, got, value)
		}
	}
}

func TestListingsPageDropsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	env.api.reply(http.MethodGet, "/admin/listings", http.StatusOK, `[]`)

	env.get(t, "/listings?status=everything")
	call, _ := env.api.lastCall(http.MethodGet, "/admin/listings")
	if call.Query.Has("status") {
		t.Fatalf("unknown status forwarded: %v", call.Query)
	}
}

func TestListingDetailShowsModeration(t *testing.T) {
	env := newTestEnv(t)
	env.api.reply(http.MethodGet, "/listings/5", http.StatusOK, pendingListingJSON)

	rec := env.get(t, "/listings/5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	assertContains(t, rec.Body.String(),
		"Volvo FH16 2019",
		"https://cdn.example.com/storage/listings/5/a.jpg",
		"Retarder",
		`action="/listings/5/approve"`,
		`name="start_at"`,
		`action="/listings/5/reject"`,
	)
}

func TestListingDetailNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.get(t, "/listings/404")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListingApproveAsAuction(t *testing.T) {
	env := newTestEnv(t)
	env.api.reply(http.MethodPost, "/listings/5/approve", http.StatusOK, `{"message":"approved"}`)

	rec := env.postForm(t, "/listings/5/approve", url.Values{
		"start_at":       {"2026-03-12T10:00"},
		"end_at":         {"2026-03-12T12:00"},
		"starting_price": {"100000"},
	})
	assertRedirect(t, rec, "/listings/5?notice=notice.listing_approved")

	call, _ := env.api.lastCall(http.MethodPost, "/listings/5/approve")
	var payload map[string]any
	decodeJSONBody(t, call, &payload)
	if payload["auction_start_at"] != "2026-03-12 10:00:00" || payload["auction_end_at"] != "2026-03-12 12:00:00" {
		t.Fatalf("payload = %v", payload)
	}
	if kinds := env.events.kinds(); len(kinds) != 1 || kinds[0] != events.ListingApproved {
		t.Fatalf("events = %v", kinds)
	}
	if env.events.events[0].ActorEmail != "sara@example.com" || env.events.events[0].ResourceID != "5" {
		t.Fatalf("event = %+v", env.events.events[0])
	}
}

func TestListingApprovePlainAd(t *testing.T) {
	env := newTestEnv(t)
	env.api.reply(http.MethodPost, "/listings/5/approve", http.StatusOK, `{}`)

	rec := env.postForm(t, "/listings/5/approve", url.Values{})
	assertRedirect(t, rec, "/listings/5?notice=notice.listing_approved")
	call, _ := env.api.lastCall(http.MethodPost, "/listings/5/approve")
	if got := strings.TrimSpace(string(call.Body)); got != "{}" {
		t.Fatalf("body = %s, want {}", got)
	}
}

func TestListingApproveRejectsInvertedWindow(t *testing.T) {
	env := newTestEnv(t)
	env.api.reply(http.MethodGet, "/listings/5", http.StatusOK, pendingListingJSON)

	rec := env.postForm(t, "/listings/5/approve", url.Values{
		"start_at":       {"2026-03-12T12:00"},
		"end_at":         {"2026-03-12T10:00"},
		"starting_price": {"100000"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if env.api.called(http.MethodPost, "/listings/5/approve") {
		t.Fatal("invalid window reached the API")
	}
	assertContains(t, rec.Body.String(), `value="2026-03-12T12:00"`, `value="100000"`)
}

func TestListingRejectRequiresConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.api.reply(http.MethodGet, "/listings/5", http.StatusOK, pendingListingJSON)
	env.api.reply(http.MethodPost, "/listings/5/reject", http.StatusOK, `{}`)

	rec := env.postForm(t, "/listings/5/reject", url.Values{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if env.api.called(http.MethodPost, "/listings/5/reject") {
		t.Fatal("unconfirmed reject reached the API")
	}

	rec = env.postForm(t, "/listings/5/reject", url.Values{"confirm": {"yes"}})
	assertRedirect(t, rec, "/listings/5?notice=notice.listing_rejected")
	if kinds := env.events.kinds(); len(kinds) != 1 || kinds[0] != events.ListingRejected {
		t.Fatalf("events = %v", kinds)
	}
}

func TestListingFormOffersModels(t *testing.T) {
	env := newTestEnv(t)
	env.api.reply(http.MethodGet, "/models", http.StatusOK, `[{"id":1,"truck_name":"Volvo","model_name":"FH16"}]`)

	rec := env.get(t, "/listings/new")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), `value="Volvo FH16"`, `name="serial_number"`, `name="auction_start_date"`, `enctype="multipart/form-data"`)
}

// listingUpload builds a multipart add-truck submission.
func listingUpload(t *testing.T, fields map[string]string, files map[string][]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for field, contentTypes := range files {
		for i, contentType := range contentTypes {
			header := textproto.MIMEHeader{}
			header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+field+string(rune('a'+i))+`"`)
			header.Set("Content-Type", contentType)
			part, err := writer.CreatePart(header)
			if err != nil {
				t.Fatalf("create part: %v", err)
			}
			_, _ = io.WriteString(part, "content-"+field)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestListingCreateUploadsMedia(t *testing.T) {
	env := newTestEnv(t)
	received := make(chan *multipart.Form, 1)
	env.api.on(http.MethodPost, "/listings", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse upstream form: %v", err)
		}
		received <- r.MultipartForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"listing":{"id":77,"title":"Scania R500"}}`)
	})

	body, contentType := listingUpload(t, map[string]string{
		"ad_type":   "ad",
		"title":     "Scania R500",
		"category":  "شاحنات",
		"city":      "Jeddah",
		"condition": "used",
		"price":     "180000",
		"features":  "ABS\n\nAir suspension\n",
	}, map[string][]string{
		"image": {"image/jpeg", "image/png"},
		"pdf":   {"application/pdf"},
	})
	req := httptest.NewRequest(http.MethodPost, "/listings/new", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(env.signIn(t))

	rec := env.serve(req)
	assertRedirect(t, rec, "/listings/77?notice=notice.listing_created")

	form := <-received
	if got := form.Value["title"]; len(got) != 1 || got[0] != "Scania R500" {
		t.Fatalf("title = %v", got)
	}
	if got := form.Value["other[]"]; len(got) != 2 {
		t.Fatalf("features = %v", got)
	}
	if got := len(form.File["files[image][]"]); got != 2 {
		t.Fatalf("images = %d, want 2", got)
	}
	if got := len(form.File["files[pdf][]"]); got != 1 {
		t.Fatalf("documents = %d, want 1", got)
	}
	if kinds := env.events.kinds(); len(kinds) != 1 || kinds[0] != events.ListingCreated {
		t.Fatalf("events = %v", kinds)
	}
}

func TestListingCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	env.api.reply(http.MethodGet, "/models", http.StatusOK, `[]`)

	body, contentType := listingUpload(t, map[string]string{
		"ad_type": "scheduled_auction",
		"title":   "Scania R500",
		"price":   "lots",
	}, map[string][]string{
		"image": {"application/zip"},
	})
	req := httptest.NewRequest(http.MethodPost, "/listings/new", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(env.signIn(t))

	rec := env.serve(req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body: %s", rec.Code, rec.Body.String())
	}
	if env.api.called(http.MethodPost, "/listings") {
		t.Fatal("invalid listing reached the API")
	}
	assertContains(t, rec.Body.String(), `value="Scania R500"`, `value="lots"`)
}

func TestMergeValidation(t *testing.T) {
	if err := mergeValidation(nil, nil); err != nil {
		t.Fatalf("merge of nils = %v", err)
	}
	first := apperrors.WithMetadata(apperrors.CodeValidation, forms.KeyFailed, map[string]string{"title": forms.KeyRequired})
	second := apperrors.WithMetadata(apperrors.CodeValidation, forms.KeyFailed, map[string]string{"title": forms.KeyNumber, "price": forms.KeyNumber})
	fields := apperrors.Fields(mergeValidation(first, nil, second))
	if fields["title"] != forms.KeyRequired || fields["price"] != forms.KeyNumber {
		t.Fatalf("fields = %v", fields)
	}

	transport := apperrors.New(apperrors.CodeTransport, "down")
	if got := mergeValidation(first, transport); apperrors.CodeOf(got) != apperrors.CodeTransport {
		t.Fatalf("non-validation error lost: %v", got)
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines(" ABS \r\n\nRetarder\n")
	if len(got) != 2 || got[0] != "ABS" || got[1] != "Retarder" {
		t.Fatalf("splitLines = %q", got)
	}
}
