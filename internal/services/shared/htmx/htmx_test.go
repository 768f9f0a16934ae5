package htmx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func staticPage(body string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, body)
		return err
	})
}

const fullPage = `<html><head><title>Listings | Alfurij Admin</title></head><body><nav>menu</nav><main id="main"><h1>Listings</h1></main></body></html>`

func TestIsHTMXRequest(t *testing.T) {
	t.Run("missing_request_is_not_htmx", func(t *testing.T) {
		t.Parallel()
		if got := IsHTMXRequest(nil); got {
			t.Fatalf("IsHTMXRequest(nil) = true, want false")
		}
	})

	t.Run("true_request_is_htmx", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/test", nil)
		r.Header.Set(RequestHeader, "true")
		if got := IsHTMXRequest(r); !got {
			t.Fatalf("IsHTMXRequest(request) = false, want true")
		}
	})
}

func TestTitleTag(t *testing.T) {
	t.Parallel()
	got := TitleTag(`Trucks <Admin>`)
	want := "<title>Trucks &lt;Admin&gt;</title>"
	if got != want {
		t.Fatalf("TitleTag(...) = %q, want %q", got, want)
	}
	if TitleTag("  ") != "" {
		t.Fatal("expected empty tag for blank title")
	}
}

func TestRenderPageFullNavigation(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/listings", nil)

	RenderPage(rec, req, staticPage(fullPage), http.StatusOK, "Listings")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != fullPage {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestRenderPageHTMXSwapsMainOnly(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/listings", nil)
	req.Header.Set(RequestHeader, "true")

	RenderPage(rec, req, staticPage(fullPage), http.StatusUnprocessableEntity, "Listings | Alfurij Admin")

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	want := "<title>Listings | Alfurij Admin</title><h1>Listings</h1>"
	if rec.Body.String() != want {
		t.Fatalf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestRenderPageRenderError(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/listings", nil)
	broken := templ.ComponentFunc(func(context.Context, io.Writer) error { return errors.New("boom") })

	RenderPage(rec, req, broken, http.StatusOK, "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Redirect(rec, httptest.NewRequest(http.MethodPost, "/banners", nil), "/banners?notice=x")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/banners?notice=x" {
		t.Fatalf("plain redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/banners", nil)
	req.Header.Set(RequestHeader, "true")
	Redirect(rec, req, "/login")
	if rec.Code != http.StatusOK || rec.Header().Get(RedirectHeader) != "/login" {
		t.Fatalf("htmx redirect = %d %q", rec.Code, rec.Header().Get(RedirectHeader))
	}
}

func TestExtractMainContentWithoutMain(t *testing.T) {
	t.Parallel()
	if _, ok := extractMainContent([]byte("<div>no main</div>")); ok {
		t.Fatal("expected no main content")
	}
}
