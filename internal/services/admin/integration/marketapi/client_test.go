package marketapi

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
)

// recordedRequest is what the fake upstream saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// fakeUpstream answers every request with a fixed status and body.
type fakeUpstream struct {
	mu     sync.Mutex
	status int
	body   string
	routes map[string]string
	last   recordedRequest
	calls  []recordedRequest
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rec := recordedRequest{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	}
	f.mu.Lock()
	f.last = rec
	f.calls = append(f.calls, rec)
	status, payload := f.status, f.body
	if routed, ok := f.routes[r.Method+" "+r.URL.Path]; ok {
		status, payload = http.StatusOK, routed
	}
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, payload)
}

func (f *fakeUpstream) lastRequest() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func newTestClient(t *testing.T, upstream *fakeUpstream) *Client {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)
	client, err := NewClient(Config{BaseURL: server.URL + "/api", HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client.WithSession(Session{Token: "tok-1"})
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "ftp://example.com/api", "://bad"} {
		if _, err := NewClient(Config{BaseURL: raw}); err == nil {
			t.Fatalf("NewClient(%q) error = nil, want error", raw)
		}
	}
	client, err := NewClient(Config{BaseURL: "https://api.example.com/api/"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if got := client.MediaURL("trucks/a.jpg"); got != "https://api.example.com/storage/trucks/a.jpg" {
		t.Fatalf("MediaURL = %q", got)
	}
}

func TestSessionIsExplicit(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `[]`}
	server := httptest.NewServer(upstream)
	defer server.Close()
	base, err := NewClient(Config{BaseURL: server.URL + "/api", HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := base.ListModels(context.Background()); err != nil {
		t.Fatalf("list models: %v", err)
	}
	if got := upstream.lastRequest().Header.Get("Authorization"); got != "" {
		t.Fatalf("Authorization without session = %q, want empty", got)
	}

	bound := base.WithSession(Session{Token: "tok-9"})
	if _, err := bound.ListModels(context.Background()); err != nil {
		t.Fatalf("list models: %v", err)
	}
	if got := upstream.lastRequest().Header.Get("Authorization"); got != "Bearer tok-9" {
		t.Fatalf("Authorization = %q, want %q", got, "Bearer tok-9")
	}
	if base.Session().Valid() {
		t.Fatal("WithSession mutated the base client")
	}
}

func TestUpstreamErrorsMapToTaxonomy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    apperrors.Code
		wantMessage string
	}{
		{name: "message field", status: 422, body: `{"message":"Title is required"}`, wantCode: apperrors.CodeHTTPStatus, wantMessage: "Title is required"},
		{name: "fallback", status: 500, body: `{}`, wantCode: apperrors.CodeHTTPStatus, wantMessage: "Failed to fetch listing"},
		{name: "not json", status: 502, body: `<html>`, wantCode: apperrors.CodeHTTPStatus, wantMessage: "Failed to fetch listing"},
		{name: "unauthorized", status: 401, body: `{"message":"Unauthenticated."}`, wantCode: apperrors.CodeUnauthorized, wantMessage: "Unauthenticated."},
		{name: "not found", status: 404, body: `{"message":"No query results"}`, wantCode: apperrors.CodeNotFound, wantMessage: "No query results"},
		{name: "decode", status: 200, body: `not-json`, wantCode: apperrors.CodeDecode, wantMessage: "Failed to fetch listing"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, &fakeUpstream{status: tc.status, body: tc.body})
			_, err := client.GetListing(context.Background(), "7")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.CodeOf(err); got != tc.wantCode {
				t.Fatalf("code = %q, want %q", got, tc.wantCode)
			}
			if got := apperrors.UserMessage(err, ""); got != tc.wantMessage {
				t.Fatalf("message = %q, want %q", got, tc.wantMessage)
			}
		})
	}
}

func TestTransportErrorIsClassified(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: base + "/api"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.ListBanners(context.Background())
	if got := apperrors.CodeOf(err); got != apperrors.CodeTransport {
		t.Fatalf("code = %q, want %q (err=%v)", got, apperrors.CodeTransport, err)
	}
}

func TestValidationMetadataFromLaravelErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, &fakeUpstream{status: 422, body: `{"message":"The given data was invalid.","errors":{"email":["The email has already been taken."]}}`})
	_, err := client.CreateEmployee(context.Background(), EmployeeInput{Name: "a", Email: "a@b.c", Phone: "1", Password: "12345678"})
	var appErr *apperrors.Error
	if !asAppError(err, &appErr) {
		t.Fatalf("error type = %T, want *errors.Error", err)
	}
	if got := appErr.Metadata["email"]; got != "The email has already been taken." {
		t.Fatalf("metadata[email] = %q", got)
	}
}

func asAppError(err error, target **apperrors.Error) bool {
	e, ok := err.(*apperrors.Error)
	if ok {
		*target = e
	}
	return ok
}

func TestLoginDecodesTokenAndAdmin(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		`{"token":"abc","admin":{"id":1,"name":"Sara","email":"sara@example.com"}}`,
		`{"data":{"token":"abc","admin":{"id":"1","name":"Sara","email":"sara@example.com"}}}`,
	} {
		upstream := &fakeUpstream{body: body}
		client := newTestClient(t, upstream)
		got, err := client.Login(context.Background(), " sara@example.com ", "pw")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if got.Token != "abc" || got.Admin.ID != "1" || got.Admin.Name != "Sara" {
			t.Fatalf("login result = %+v", got)
		}
		req := upstream.lastRequest()
		if req.Method != http.MethodPost || req.Path != "/api/admin/login" {
			t.Fatalf("request = %s %s", req.Method, req.Path)
		}
		if !strings.Contains(string(req.Body), `"email":"sara@example.com"`) {
			t.Fatalf("body = %s", req.Body)
		}
	}

	client := newTestClient(t, &fakeUpstream{body: `{"admin":{}}`})
	if _, err := client.Login(context.Background(), "a@b.c", "pw"); apperrors.CodeOf(err) != apperrors.CodeDecode {
		t.Fatalf("login without token code = %q, want decode", apperrors.CodeOf(err))
	}
}

func TestLoginRejectionKeepsServerMessage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, &fakeUpstream{status: http.StatusUnauthorized, body: `{"message":"Account suspended by supervisor"}`})
	_, err := client.Login(context.Background(), "a@b.c", "pw")
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("code = %q, want unauthorized", apperrors.CodeOf(err))
	}
	if got := apperrors.UserMessage(err, "fallback"); got != "Account suspended by supervisor" {
		t.Fatalf("message = %q", got)
	}

	client = newTestClient(t, &fakeUpstream{status: http.StatusUnauthorized, body: `{}`})
	_, err = client.Login(context.Background(), "a@b.c", "pw")
	if got := apperrors.UserMessage(err, "fallback"); got != "fallback" {
		t.Fatalf("message without body message = %q, want fallback", got)
	}
}

func TestChangePasswordPayload(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"message":"ok"}`}
	client := newTestClient(t, upstream)
	if err := client.ChangePassword(context.Background(), PasswordChange{Current: "old", New: "newpass12", Confirmation: "newpass12"}); err != nil {
		t.Fatalf("change password: %v", err)
	}
	body := string(upstream.lastRequest().Body)
	for _, want := range []string{`"current_password":"old"`, `"new_password":"newpass12"`, `"password_confirmation":"newpass12"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("body %s missing %s", body, want)
		}
	}
}

func TestListAdminListingsQueryAndEnvelope(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"data":{"data":[{"id":3,"title":"Volvo FH","approval_status":"approved","price_in_sar":"125000.50"}],"current_page":1,"last_page":2}}`}
	client := newTestClient(t, upstream)
	listings, page, err := client.ListAdminListings(context.Background(), ListingFilter{Search: " volvo ", Status: "approved", Page: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	req := upstream.lastRequest()
	if req.Path != "/api/admin/listings" {
		t.Fatalf("path = %q", req.Path)
	}
	if req.Query != "page=2&search=volvo&status=approved" {
		t.Fatalf("query = %q", req.Query)
	}
	if len(listings) != 1 || listings[0].ID != "3" || listings[0].Status != ListingApproved {
		t.Fatalf("listings = %+v", listings)
	}
	if !listings[0].Price.Equal(decimal.RequireFromString("125000.50")) {
		t.Fatalf("price = %s", listings[0].Price)
	}
	if !page.HasNext() {
		t.Fatalf("page = %+v, want another page", page)
	}
}

func TestApproveListingSendsAuctionData(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"message":"approved"}`}
	client := newTestClient(t, upstream)
	price := decimal.NewFromInt(50000)
	err := client.ApproveListing(context.Background(), "12", ApproveInput{StartAt: "2025-03-01 10:00", EndAt: "2025-03-02 10:00", StartingPrice: &price})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	req := upstream.lastRequest()
	if req.Path != "/api/listings/12/approve" || req.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("request = %s %s", req.Path, req.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(req.Body), `"auction_start_at":"2025-03-01 10:00"`) {
		t.Fatalf("body = %s", req.Body)
	}

	if err := client.ApproveListing(context.Background(), "12", ApproveInput{}); err != nil {
		t.Fatalf("approve plain: %v", err)
	}
	if got := string(upstream.lastRequest().Body); got != "{}" {
		t.Fatalf("plain approve body = %s, want {}", got)
	}
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{}`}
	client := newTestClient(t, upstream)
	if err := client.RejectListing(context.Background(), "a/b"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got := upstream.lastRequest().Path; got != "/api/listings/a%2Fb/reject" {
		t.Fatalf("path = %q", got)
	}
}

func TestCreateListingMultipart(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"data":{"id":99,"title":"Scania"}}`}
	client := newTestClient(t, upstream)
	created, err := client.CreateListing(context.Background(), ListingInput{
		Title:    "Scania",
		Price:    decimal.NewFromInt(1000),
		Features: []string{"gps", "bluetooth"},
		Images: []Upload{
			{Filename: "a.jpg", ContentType: "image/jpeg", Content: strings.NewReader("img-a")},
			{Filename: "b.jpg", ContentType: "image/jpeg", Content: strings.NewReader("img-b")},
		},
		Documents: []Upload{{Filename: "r.pdf", ContentType: "application/pdf", Content: strings.NewReader("pdf")}},
		Video:     &Upload{Filename: "v.mp4", ContentType: "video/mp4", Content: strings.NewReader("vid")},
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if created.ID != "99" {
		t.Fatalf("created id = %q", created.ID)
	}

	req := upstream.lastRequest()
	fields, files := readMultipart(t, req)
	if got := fields["ad_type"]; len(got) != 1 || got[0] != "ad" {
		t.Fatalf("ad_type = %v, want default ad", got)
	}
	if got := fields["condition"]; len(got) != 1 || got[0] != "new" {
		t.Fatalf("condition = %v, want default new", got)
	}
	if got := fields["buy_now"]; len(got) != 1 || got[0] != "1" {
		t.Fatalf("buy_now = %v", got)
	}
	if got := fields["other[]"]; len(got) != 2 || got[0] != "bluetooth" || got[1] != "gps" {
		t.Fatalf("other[] = %v", got)
	}
	if got := files["files[image][]"]; len(got) != 2 || got[0] != "img-a" {
		t.Fatalf("images = %v", got)
	}
	if got := files["files[pdf][]"]; len(got) != 1 {
		t.Fatalf("pdfs = %v", got)
	}
	if got := files["files[video]"]; len(got) != 1 || got[0] != "vid" {
		t.Fatalf("video = %v", got)
	}
}

func TestUpdateModelUsesMethodOverride(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"model":{"id":4,"truck_name":"Volvo","model_name":"FH16","image_path":"models/fh.png"}}`}
	client := newTestClient(t, upstream)
	model, err := client.UpdateModel(context.Background(), "4", ModelInput{TruckName: "Volvo", ModelName: "FH16"})
	if err != nil {
		t.Fatalf("update model: %v", err)
	}
	req := upstream.lastRequest()
	if req.Method != http.MethodPost || req.Path != "/api/models/4" {
		t.Fatalf("request = %s %s", req.Method, req.Path)
	}
	if got := req.Header.Get("X-HTTP-Method-Override"); got != http.MethodPut {
		t.Fatalf("override = %q, want PUT", got)
	}
	if model.DisplayName() != "Volvo FH16" || model.Image != "models/fh.png" {
		t.Fatalf("model = %+v", model)
	}
	fields, _ := readMultipart(t, req)
	if fields["truckName"][0] != "Volvo" || fields["model"][0] != "FH16" {
		t.Fatalf("fields = %v", fields)
	}
}

func TestDeleteAllModels(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"message":"deleted"}`}
	client := newTestClient(t, upstream)
	if err := client.DeleteAllModels(context.Background()); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if req := upstream.lastRequest(); req.Method != http.MethodDelete || req.Path != "/api/models/delete-all" {
		t.Fatalf("request = %s %s", req.Method, req.Path)
	}
}

func TestBannersSortedAndOrderPayload(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"data":[{"id":1,"order":2,"image_path":"b\/1.png"},{"id":2,"position":"1"},{"id":3,"order":3}]}`}
	client := newTestClient(t, upstream)
	banners, err := client.ListBanners(context.Background())
	if err != nil {
		t.Fatalf("list banners: %v", err)
	}
	if banners[0].ID != "2" || banners[1].ID != "1" || banners[2].ID != "3" {
		t.Fatalf("order = %v %v %v", banners[0].ID, banners[1].ID, banners[2].ID)
	}
	if got := client.MediaURL(banners[1].Image); !strings.HasSuffix(got, "/storage/b/1.png") {
		t.Fatalf("media url = %q", got)
	}

	if err := client.UpdateBannerOrder(context.Background(), []ID{"3", "1", "x-2"}); err != nil {
		t.Fatalf("update order: %v", err)
	}
	if got := string(upstream.lastRequest().Body); got != `{"order":[3,1,"x-2"]}` {
		t.Fatalf("order body = %s", got)
	}
}

func TestListBidsFallsBackToFlatRoute(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{
		status: http.StatusNotFound,
		body:   `{"message":"not found"}`,
		routes: map[string]string{"GET /api/bids": `{"bids":[{"id":1,"amount":"10","user_id":5}]}`},
	}
	client := newTestClient(t, upstream)
	bids, err := client.ListBids(context.Background(), "8")
	if err != nil {
		t.Fatalf("list bids: %v", err)
	}
	if len(bids) != 1 || !bids[0].Amount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("bids = %+v", bids)
	}
	if got := upstream.lastRequest().Query; got != "auction_id=8" {
		t.Fatalf("query = %q", got)
	}
}

func TestStreamLifecycleEndpoints(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"data":{"id":5,"watch_url":"https://youtu.be/abc","status":"idle"}}`}
	client := newTestClient(t, upstream)
	ctx := context.Background()

	stream, err := client.CreateStream(ctx, "8", StreamInput{StreamURL: "https://youtu.be/abc", EmbedURL: "https://www.youtube.com/embed/abc?autoplay=1"})
	if err != nil {
		t.Fatalf("create stream: %v", err)
	}
	if stream.ID != "5" || stream.WatchURL != "https://youtu.be/abc" {
		t.Fatalf("stream = %+v", stream)
	}
	if body := string(upstream.lastRequest().Body); !strings.Contains(body, `"platform":"youtube"`) {
		t.Fatalf("create body = %s", body)
	}

	steps := []struct {
		name   string
		run    func() error
		method string
		path   string
	}{
		{"update", func() error { _, err := client.UpdateStream(ctx, "8", "5", StreamInput{StreamURL: "x"}); return err }, http.MethodPut, "/api/auctions/8/streams/5"},
		{"start", func() error { return client.StartStream(ctx, "5") }, http.MethodPost, "/api/streams/5/start"},
		{"start auction", func() error { return client.StartAuctionStream(ctx, "8", "https://youtu.be/abc") }, http.MethodPost, "/api/auctions/8/streams/start"},
		{"end", func() error { return client.EndAuctionStream(ctx, "8") }, http.MethodPost, "/api/auctions/8/streams/end"},
		{"delete", func() error { return client.DeleteStream(ctx, "8", "5") }, http.MethodDelete, "/api/auctions/8/streams/5"},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if req := upstream.lastRequest(); req.Method != step.method || req.Path != step.path {
			t.Fatalf("%s request = %s %s, want %s %s", step.name, req.Method, req.Path, step.method, step.path)
		}
	}
}

func TestGetAuctionUnwrapsNamedKey(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"auction":{"id":8,"is_streaming":1,"listing":{"title":"MAN TGX"}}}`}
	client := newTestClient(t, upstream)
	auction, err := client.GetAuction(context.Background(), "8")
	if err != nil {
		t.Fatalf("get auction: %v", err)
	}
	if auction.ID != "8" || !auction.OnAir() || auction.DisplayTitle() != "MAN TGX" {
		t.Fatalf("auction = %+v", auction)
	}
}

func readMultipart(t *testing.T, req recordedRequest) (map[string][]string, map[string][]string) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("content type = %q (%v)", req.Header.Get("Content-Type"), err)
	}
	reader := multipart.NewReader(strings.NewReader(string(req.Body)), params["boundary"])
	fields := map[string][]string{}
	files := map[string][]string{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		data, _ := io.ReadAll(part)
		if part.FileName() != "" {
			files[part.FormName()] = append(files[part.FormName()], string(data))
		} else {
			fields[part.FormName()] = append(fields[part.FormName()], string(data))
		}
	}
	return fields, files
}

func TestListRoutesAndFilters(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"data":[]}`}
	client := newTestClient(t, upstream)
	ctx := context.Background()

	tests := []struct {
		name  string
		run   func() error
		path  string
		query string
	}{
		{"public listings", func() error {
			_, _, err := client.ListListings(ctx, ListingFilter{City: "Riyadh", Page: 1})
			return err
		}, "/api/listings", "city=Riyadh"},
		{"auctions", func() error {
			_, _, err := client.ListAuctions(ctx, AuctionFilter{Search: "volvo", Page: 2})
			return err
		}, "/api/admin/auctions", "page=2&search=volvo"},
		{"complaints", func() error {
			_, _, err := client.ListComplaints(ctx, FeedFilter{Type: "suggestion"})
			return err
		}, "/api/complaints", "type=suggestion"},
		{"notifications", func() error {
			_, _, err := client.ListNotifications(ctx, FeedFilter{Page: 3})
			return err
		}, "/api/admin/notifications", "page=3"},
		{"transactions", func() error {
			_, _, err := client.ListTransactions(ctx, FeedFilter{})
			return err
		}, "/api/admin/transactions", ""},
	}
	for _, tc := range tests {
		if err := tc.run(); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		req := upstream.lastRequest()
		if req.Method != http.MethodGet || req.Path != tc.path || req.Query != tc.query {
			t.Fatalf("%s request = %s %s?%s, want GET %s?%s", tc.name, req.Method, req.Path, req.Query, tc.path, tc.query)
		}
	}
}

func TestUpdateAuctionOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"data":{"id":8,"start_time":"2026-04-01 09:00:00"}}`}
	client := newTestClient(t, upstream)
	price := decimal.RequireFromString("25000")
	auction, err := client.UpdateAuction(context.Background(), "8", AuctionUpdate{
		StartAt:       "2026-04-01 09:00:00",
		StartingPrice: &price,
	})
	if err != nil {
		t.Fatalf("update auction: %v", err)
	}
	if auction.ID != "8" {
		t.Fatalf("auction = %+v", auction)
	}
	req := upstream.lastRequest()
	if req.Method != http.MethodPut || req.Path != "/api/auctions/8" {
		t.Fatalf("request = %s %s", req.Method, req.Path)
	}
	if got := string(req.Body); got != `{"start_time":"2026-04-01 09:00:00","starting_price":"25000"}` {
		t.Fatalf("body = %s", got)
	}
}

func TestCatalogDeletes(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{body: `{"message":"deleted"}`}
	client := newTestClient(t, upstream)
	ctx := context.Background()

	if err := client.DeleteBanner(ctx, "3"); err != nil {
		t.Fatalf("delete banner: %v", err)
	}
	if req := upstream.lastRequest(); req.Method != http.MethodDelete || req.Path != "/api/banners/3" {
		t.Fatalf("banner request = %s %s", req.Method, req.Path)
	}
	if err := client.DeleteModel(ctx, "12"); err != nil {
		t.Fatalf("delete model: %v", err)
	}
	if req := upstream.lastRequest(); req.Method != http.MethodDelete || req.Path != "/api/models/12" {
		t.Fatalf("model request = %s %s", req.Method, req.Path)
	}
}
