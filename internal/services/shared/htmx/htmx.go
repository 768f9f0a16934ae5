// Package htmx renders server pages for both full navigations and htmx swaps.
package htmx

import (
	"bytes"
	"html"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// Request and response headers used by htmx.
const (
	RequestHeader  = "HX-Request"
	RedirectHeader = "HX-Redirect"
)

// IsHTMXRequest reports whether the request was initiated by htmx.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeader), "true")
}

// TitleTag formats an escaped `<title>` element.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// RenderPage renders page with the given status code. htmx requests receive
// only the contents of the page's <main> element, prefixed with a title tag
// so the browser title follows the swap.
func RenderPage(w http.ResponseWriter, r *http.Request, page templ.Component, status int, title string) {
	if page == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if status <= 0 {
		status = http.StatusOK
	}

	var body bytes.Buffer
	if err := page.Render(r.Context(), &body); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	out := body.Bytes()
	if IsHTMXRequest(r) {
		if main, ok := extractMainContent(out); ok {
			out = main
		}
		if tag := TitleTag(title); tag != "" && !bytes.Contains(bytes.ToLower(out), []byte("<title")) {
			out = append([]byte(tag), out...)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// Redirect sends the client to target after a form post. htmx requests get
// an HX-Redirect header so the full page is reloaded; others get a 303.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMXRequest(r) {
		w.Header().Set(RedirectHeader, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func extractMainContent(body []byte) ([]byte, bool) {
	start := bytes.Index(body, []byte("<main"))
	if start < 0 {
		return nil, false
	}
	openClose := bytes.IndexByte(body[start:], '>')
	if openClose < 0 {
		return nil, false
	}
	contentStart := start + openClose + 1
	end := bytes.LastIndex(body[contentStart:], []byte("</main>"))
	if end < 0 {
		return nil, false
	}
	return body[contentStart : contentStart+end], true
}
