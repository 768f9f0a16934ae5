package admin

import (
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/time/rate"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/forms"
	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/storage"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/templates"
	"github.com/atlasdata/alfurij-admin/internal/services/shared/htmx"
)

const (
	// defaultLoginInterval spaces login attempts from one client address.
	defaultLoginInterval = 12 * time.Second
	// defaultLoginBurst allows a few quick retries before throttling.
	defaultLoginBurst = 5
	// limiterIdle drops per-address limiters unused for this long.
	limiterIdle = 30 * time.Minute
)

// requireAuth resolves the operator session from its cookie and sends
// unauthenticated requests to the login page. Only the login page and the
// operational endpoints are reachable without a session.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.loadSession(r)
		if ok {
			next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), session)))
			return
		}
		if isAuthExempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if _, err := r.Cookie(sessionCookieName); err == nil {
			h.clearSessionCookie(w)
		}
		htmx.Redirect(w, r, loginRedirect(r))
	})
}

// isAuthExempt returns true for paths that should bypass authentication.
func isAuthExempt(path string) bool {
	switch path {
	case routepath.Login, routepath.Healthz, routepath.Metrics:
		return true
	}
	return strings.HasPrefix(path, routepath.StaticPrefix)
}

func (h *Handler) loadSession(r *http.Request) (storage.Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return storage.Session{}, false
	}
	session, err := h.sessions.GetSession(r.Context(), cookie.Value, h.now())
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("admin: load session: %v", err)
		}
		return storage.Session{}, false
	}
	return session, true
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session storage.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionExpiry returns when a session for token should end: the configured
// TTL, shortened to the token's own exp claim when it has one. The token is
// issued by the marketplace API, so its signature is not checked here.
func sessionExpiry(token string, now time.Time, ttl time.Duration) time.Time {
	expires := now.Add(ttl)
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return expires
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.After(now) && claims.ExpiresAt.Time.Before(expires) {
		return claims.ExpiresAt.Time
	}
	return expires
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	loc, tag := h.localizer(w, r)
	switch r.Method {
	case http.MethodGet:
		if _, ok := sessionFromContext(r.Context()); ok {
			http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusFound)
			return
		}
		h.renderLogin(w, r, loc, tag, templates.LoginView{Next: r.URL.Query().Get("next")}, http.StatusOK)
	case http.MethodPost:
		h.submitLogin(w, r, loc, tag)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) submitLogin(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	view := templates.LoginView{
		Next: r.PostFormValue("next"),
		Form: templates.FormState{Values: map[string]string{"email": email}},
	}

	if !h.limiter.allow(clientAddr(r), h.now()) {
		h.metrics.LoginThrottled()
		view.Form.Error = loc.Sprintf("auth.login.throttled")
		h.renderLogin(w, r, loc, tag, view, http.StatusTooManyRequests)
		return
	}
	if err := forms.Login(email, password); err != nil {
		view.Form = formState(loc, view.Form.Values, err)
		h.renderLogin(w, r, loc, tag, view, http.StatusUnprocessableEntity)
		return
	}

	result, err := h.api.Login(r.Context(), email, password)
	if err != nil {
		view.Form = formState(loc, view.Form.Values, err)
		status := formStatus(err)
		if apperrors.CodeOf(err) == apperrors.CodeUnauthorized {
			view.Form.Error = apperrors.UserMessage(err, loc.Sprintf("auth.login.invalid"))
			status = http.StatusUnauthorized
		}
		h.renderLogin(w, r, loc, tag, view, status)
		return
	}

	now := h.now()
	session, err := h.sessions.PutSession(r.Context(), storage.Session{
		Token:      result.Token,
		AdminID:    result.Admin.ID.String(),
		AdminName:  result.Admin.DisplayName(),
		AdminEmail: firstNonEmpty(result.Admin.Email, email),
		CreatedAt:  now,
		ExpiresAt:  sessionExpiry(result.Token, now, h.sessionTTL),
	})
	if err != nil {
		log.Printf("admin: store session: %v", err)
		view.Form.Error = loc.Sprintf("errors.unknown")
		h.renderLogin(w, r, loc, tag, view, http.StatusInternalServerError)
		return
	}
	h.setSessionCookie(w, session)
	log.Printf("admin: operator %s signed in", session.AdminEmail)
	http.Redirect(w, r, safeNext(view.Next), http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, view templates.LoginView, status int) {
	page := h.pageContext(r, loc, tag, "auth.login.title")
	h.render(w, r, page, templates.LoginPage(page, view), status)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if session, ok := sessionFromContext(r.Context()); ok {
		if err := h.sessions.DeleteSession(r.Context(), session.ID); err != nil {
			log.Printf("admin: delete session: %v", err)
		}
	}
	h.clearSessionCookie(w)
	htmx.Redirect(w, r, routepath.Login)
}

// clientAddr returns the request's client host for throttling.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// loginLimiter throttles sign-in attempts per client address.
type loginLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLoginLimiter(limit rate.Limit, burst int) *loginLimiter {
	if limit <= 0 {
		limit = rate.Every(defaultLoginInterval)
	}
	if burst <= 0 {
		burst = defaultLoginBurst
	}
	return &loginLimiter{limit: limit, burst: burst, clients: make(map[string]*limiterEntry)}
}

func (l *loginLimiter) allow(addr string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, entry := range l.clients {
		if now.Sub(entry.lastSeen) > limiterIdle {
			delete(l.clients, key)
		}
	}
	entry, ok := l.clients[addr]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[addr] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}
