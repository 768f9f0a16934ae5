package i18n

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestResolveTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		target      string
		cookie      string
		accept      string
		want        language.Tag
		wantPersist bool
	}{
		{name: "default", target: "/", want: english},
		{name: "query param persists", target: "/?lang=ar", want: arabic, wantPersist: true},
		{name: "query region variant", target: "/?lang=ar-SA", want: arabic, wantPersist: true},
		{name: "unknown query falls through to cookie", target: "/?lang=xx", cookie: "ar", want: arabic},
		{name: "cookie", target: "/", cookie: "en-US", want: english},
		{name: "accept language", target: "/", accept: "ar-EG,ar;q=0.9,en;q=0.5", want: arabic},
		{name: "unsupported accept language", target: "/", accept: "ja", want: english},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			got, persist := ResolveTag(req)
			if got != tc.want || persist != tc.wantPersist {
				t.Fatalf("ResolveTag = %v, %v; want %v, %v", got, persist, tc.want, tc.wantPersist)
			}
		})
	}
}

func TestResolveTagNilRequest(t *testing.T) {
	t.Parallel()

	if got, _ := ResolveTag(nil); got != Default() {
		t.Fatalf("ResolveTag(nil) = %v", got)
	}
}

func TestDirectionOf(t *testing.T) {
	t.Parallel()

	if DirectionOf(arabic) != RTL {
		t.Fatal("expected arabic to be rtl")
	}
	if DirectionOf(english) != LTR {
		t.Fatal("expected english to be ltr")
	}
}

func TestSetLanguageCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SetLanguageCookie(rec, arabic)
	header := rec.Header().Get("Set-Cookie")
	if !strings.Contains(header, LangCookieName+"=ar") {
		t.Fatalf("Set-Cookie = %q", header)
	}
	SetLanguageCookie(nil, arabic)
}

func TestLanguageOptions(t *testing.T) {
	t.Parallel()

	options := LanguageOptions(arabic, "/listings", "status=pending&lang=en-US", func(key string) string {
		return "label:" + key
	})
	if len(options) != 2 {
		t.Fatalf("options = %d, want 2", len(options))
	}
	if options[0].Active || !options[1].Active {
		t.Fatalf("active flags = %v/%v", options[0].Active, options[1].Active)
	}
	if options[1].Label != "label:core.lang_ar" {
		t.Fatalf("label = %q", options[1].Label)
	}
	if options[1].URL != "/listings?lang=ar&status=pending" {
		t.Fatalf("url = %q", options[1].URL)
	}
}

func TestLanguageURLDefaultsPath(t *testing.T) {
	t.Parallel()

	if got := LanguageURL("", "%zz", "ar"); got != "/?lang=ar" {
		t.Fatalf("LanguageURL = %q", got)
	}
}
