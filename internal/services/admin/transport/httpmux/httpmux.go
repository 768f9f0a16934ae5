// Package httpmux assembles the console's root HTTP handler: static assets,
// operational endpoints, the console routes, and the middleware around them.
package httpmux

import (
	"io"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"

	"github.com/atlasdata/alfurij-admin/internal/platform/telemetry/metrics"
	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
)

// MountStatic wires static asset serving into the root mux.
func MountStatic(rootMux *http.ServeMux, staticFS fs.FS, withStaticMime func(http.Handler) http.Handler) {
	if rootMux == nil || staticFS == nil {
		return
	}
	staticHandler := http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(staticFS)))
	if withStaticMime != nil {
		staticHandler = withStaticMime(staticHandler)
	}
	rootMux.Handle(routepath.StaticPrefix, staticHandler)
}

// MountAdminRoutes mounts admin application routes under root path.
func MountAdminRoutes(rootMux *http.ServeMux, adminHandler http.Handler) {
	if rootMux == nil || adminHandler == nil {
		return
	}
	rootMux.Handle(routepath.Root, adminHandler)
}

// MountOps wires the liveness check and, when reg is set, the Prometheus
// scrape endpoint.
func MountOps(rootMux *http.ServeMux, reg *metrics.Registry) {
	if rootMux == nil {
		return
	}
	rootMux.HandleFunc(routepath.Healthz, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = io.WriteString(w, "ok\n")
	})
	if reg != nil {
		rootMux.Handle(routepath.Metrics, reg.Handler())
	}
}

// StaticCache marks embedded assets as cacheable for an hour.
func StaticCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}

// RouteLabel collapses a request path to its top-level section so metric
// label cardinality stays bounded.
func RouteLabel(r *http.Request) string {
	path := strings.Trim(r.URL.Path, "/")
	if path == "" {
		return "/"
	}
	section, _, _ := strings.Cut(path, "/")
	return "/" + section
}

// Wrap applies proxy header handling, request metrics, panic recovery, and
// combined access logging to next. out receives access log lines; nil
// uses the standard logger's writer.
func Wrap(next http.Handler, reg *metrics.Registry, out io.Writer) http.Handler {
	if out == nil {
		out = log.Writer()
	}
	h := reg.Middleware(RouteLabel, next)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.Default()),
		handlers.PrintRecoveryStack(true),
	)(h)
	h = handlers.CombinedLoggingHandler(out, h)
	return handlers.ProxyHeaders(h)
}
