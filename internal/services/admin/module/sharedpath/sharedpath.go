// Package sharedpath parses the ID-bearing suffixes of admin routes.
package sharedpath

import (
	"net/http"
	"strings"
)

// SplitPathParts normalizes a slash-delimited route suffix into non-empty path segments.
func SplitPathParts(path string) []string {
	rawParts := strings.Split(path, "/")
	parts := make([]string, 0, len(rawParts))
	for _, part := range rawParts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

// RedirectTrailingSlash canonicalizes request paths by stripping trailing "/"
// characters, keeping the query string.
//
// It returns true when a redirect was written. Route handlers should stop further
// processing when true.
func RedirectTrailingSlash(w http.ResponseWriter, r *http.Request) bool {
	if w == nil || r == nil || r.URL == nil {
		return false
	}
	original := r.URL.Path
	canonical := strings.TrimRight(original, "/")
	if canonical == "" {
		canonical = "/"
	}
	if canonical == original {
		return false
	}
	if r.URL.RawQuery != "" {
		canonical += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, canonical, http.StatusMovedPermanently)
	return true
}

// Suffix redirects trailing slashes, then returns the segments after prefix.
// ok is false when a redirect was written.
func Suffix(w http.ResponseWriter, r *http.Request, prefix string) (parts []string, ok bool) {
	if RedirectTrailingSlash(w, r) {
		return nil, false
	}
	return SplitPathParts(strings.TrimPrefix(r.URL.Path, prefix)), true
}
