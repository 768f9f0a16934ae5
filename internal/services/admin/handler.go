package admin

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/time/rate"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
	"github.com/atlasdata/alfurij-admin/internal/platform/telemetry/metrics"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/forms"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/i18n"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/events"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
	accountmodule "github.com/atlasdata/alfurij-admin/internal/services/admin/module/account"
	auctionsmodule "github.com/atlasdata/alfurij-admin/internal/services/admin/module/auctions"
	authmodule "github.com/atlasdata/alfurij-admin/internal/services/admin/module/auth"
	catalogmodule "github.com/atlasdata/alfurij-admin/internal/services/admin/module/catalog"
	dashboardmodule "github.com/atlasdata/alfurij-admin/internal/services/admin/module/dashboard"
	feedsmodule "github.com/atlasdata/alfurij-admin/internal/services/admin/module/feeds"
	listingsmodule "github.com/atlasdata/alfurij-admin/internal/services/admin/module/listings"
	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/storage"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/streamwatch"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/templates"
	"github.com/atlasdata/alfurij-admin/internal/services/shared/htmx"
)

const (
	// sessionCookieName stores the local session ID, never the bearer token.
	sessionCookieName = "alfurij_session"
	// defaultSessionTTL applies when neither config nor token set an expiry.
	defaultSessionTTL = 12 * time.Hour
	// noticeParam carries a confirmation message key across a redirect.
	noticeParam = "notice"
	// maxUploadBytes caps multipart request bodies.
	maxUploadBytes = 80 << 20
	// displayDateLayout formats upstream timestamps in tables.
	displayDateLayout = "2006-01-02 15:04"
)

// HandlerConfig wires the handler to its collaborators.
type HandlerConfig struct {
	// API is the unauthenticated marketplace client; requests bind the
	// operator session onto a copy.
	API      *marketapi.Client
	Sessions storage.SessionStore
	Events   events.Publisher
	Poller   *streamwatch.Poller
	Metrics  *metrics.Registry
	// Location is the operator time zone used for the calendar and forms.
	Location  *time.Location
	WeekStart time.Weekday
	// SessionTTL caps how long a session lives; tokens with an earlier
	// expiry shorten it.
	SessionTTL    time.Duration
	LoginRate     rate.Limit
	LoginBurst    int
	SecureCookies bool
	// PublicURL is the external origin used for absolute links.
	PublicURL string
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Handler serves the admin console pages.
type Handler struct {
	api           *marketapi.Client
	sessions      storage.SessionStore
	events        events.Publisher
	poller        *streamwatch.Poller
	metrics       *metrics.Registry
	location      *time.Location
	weekStart     time.Weekday
	sessionTTL    time.Duration
	secureCookies bool
	publicURL     string
	limiter       *loginLimiter
	now           func() time.Time
}

// NewHandler builds the HTTP handler for the admin console.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	h, err := newHandler(cfg)
	if err != nil {
		return nil, err
	}
	return h.routes(), nil
}

func newHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.API == nil {
		return nil, errors.New("admin: marketplace client is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("admin: session store is required")
	}
	h := &Handler{
		api:           cfg.API,
		sessions:      cfg.Sessions,
		events:        cfg.Events,
		poller:        cfg.Poller,
		metrics:       cfg.Metrics,
		location:      cfg.Location,
		weekStart:     cfg.WeekStart,
		sessionTTL:    cfg.SessionTTL,
		secureCookies: cfg.SecureCookies,
		publicURL:     strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/"),
		limiter:       newLoginLimiter(cfg.LoginRate, cfg.LoginBurst),
		now:           cfg.Now,
	}
	if h.events == nil {
		h.events = events.Noop{}
	}
	if h.poller == nil {
		h.poller = streamwatch.NewPoller(0, cfg.Metrics)
	}
	if h.location == nil {
		h.location = time.UTC
	}
	if h.sessionTTL <= 0 {
		h.sessionTTL = defaultSessionTTL
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h, nil
}

// routes wires the console route modules behind the session gate.
func (h *Handler) routes() http.Handler {
	mux := http.NewServeMux()
	authmodule.RegisterRoutes(mux, h)
	dashboardmodule.RegisterRoutes(mux, h)
	listingsmodule.RegisterRoutes(mux, h)
	auctionsmodule.RegisterRoutes(mux, h)
	catalogmodule.RegisterRoutes(mux, h)
	feedsmodule.RegisterRoutes(mux, h)
	accountmodule.RegisterRoutes(mux, h)
	return h.requireAuth(mux)
}

func (h *Handler) clock() time.Time {
	return h.now().In(h.location)
}

// client returns the marketplace client bound to the request's session.
func (h *Handler) client(r *http.Request) *marketapi.Client {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		return h.api
	}
	return h.api.WithSession(marketapi.Session{
		Token: session.Token,
		Admin: marketapi.Admin{
			ID:    marketapi.ID(session.AdminID),
			Name:  session.AdminName,
			Email: session.AdminEmail,
		},
	})
}

func (h *Handler) localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, language.Tag) {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	return i18n.Printer(tag), tag
}

func (h *Handler) pageContext(r *http.Request, loc *message.Printer, tag language.Tag, titleKey string) templates.PageContext {
	page := templates.PageContext{
		Lang:         tag.String(),
		Dir:          i18n.DirectionOf(tag),
		Loc:          loc,
		CurrentPath:  r.URL.Path,
		CurrentQuery: r.URL.RawQuery,
		Title:        loc.Sprintf(titleKey),
		Languages: i18n.LanguageOptions(tag, r.URL.Path, r.URL.RawQuery, func(key string) string {
			return loc.Sprintf(key)
		}),
		Notice: noticeText(loc, r.URL.Query().Get(noticeParam)),
	}
	if session, ok := sessionFromContext(r.Context()); ok {
		page.AdminName = firstNonEmpty(session.AdminName, session.AdminEmail)
		page.Nav = navItems(loc, r.URL.Path)
	}
	return page
}

type navEntry struct {
	key string
	url string
}

var navEntries = []navEntry{
	{key: "nav.dashboard", url: routepath.Dashboard},
	{key: "nav.listings", url: routepath.Listings},
	{key: "nav.auctions", url: routepath.Auctions},
	{key: "nav.live", url: routepath.Live},
	{key: "nav.banners", url: routepath.Banners},
	{key: "nav.models", url: routepath.Models},
	{key: "nav.complaints", url: routepath.Complaints},
	{key: "nav.notifications", url: routepath.Notifications},
	{key: "nav.transactions", url: routepath.Transactions},
	{key: "nav.password", url: routepath.AccountPassword},
	{key: "nav.employees", url: routepath.AccountEmployees},
}

func navItems(loc *message.Printer, currentPath string) []templates.NavItem {
	items := make([]templates.NavItem, 0, len(navEntries))
	for _, entry := range navEntries {
		items = append(items, templates.NavItem{
			Label:  loc.Sprintf(entry.key),
			URL:    entry.url,
			Active: currentPath == entry.url || strings.HasPrefix(currentPath, entry.url+"/"),
		})
	}
	return items
}

// noticeText translates a redirect notice. Only keys in the notice
// namespace are shown so the parameter cannot inject arbitrary text.
func noticeText(loc *message.Printer, key string) string {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, "notice.") {
		return ""
	}
	return loc.Sprintf(key)
}

// withNotice appends a notice key to a redirect target.
func withNotice(target string, key string) string {
	return templates.AppendQueryParam(target, noticeParam, key)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page templates.PageContext, component templ.Component, status int) {
	htmx.RenderPage(w, r, component, status, templates.ComposePageTitle(page.Title))
}

// renderError renders a full-page error for err with a retry link.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, err error) {
	if h.endSessionOnUnauthorized(w, r, err) {
		return
	}
	page := h.pageContext(r, loc, tag, "core.error.title")
	status := apperrors.CodeOf(err).HTTPStatus()
	h.render(w, r, page, templates.ErrorPage(page, templates.ErrorView{
		Message:  errorMessage(loc, err),
		RetryURL: retryURL(r),
	}), status)
}

// endSessionOnUnauthorized ends the local session and sends the operator
// to the login page when the upstream rejected their token.
func (h *Handler) endSessionOnUnauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !isSessionRejected(err) {
		return false
	}
	if session, ok := sessionFromContext(r.Context()); ok {
		if delErr := h.sessions.DeleteSession(r.Context(), session.ID); delErr != nil {
			log.Printf("admin: delete rejected session: %v", delErr)
		}
	}
	h.clearSessionCookie(w)
	htmx.Redirect(w, r, loginRedirect(r))
	return true
}

// isSessionRejected reports whether err is an upstream 401. A 403 means the
// token is valid but lacks permission, which keeps the session.
func isSessionRejected(err error) bool {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr == nil {
		return false
	}
	if appErr.Code != apperrors.CodeUnauthorized {
		return false
	}
	return appErr.Status == 0 || appErr.Status == http.StatusUnauthorized
}

// errorMessage returns the translated operator-facing text for err.
func errorMessage(loc *message.Printer, err error) string {
	if err == nil {
		return ""
	}
	switch apperrors.CodeOf(err) {
	case apperrors.CodeTransport:
		return loc.Sprintf("errors.transport")
	case apperrors.CodeDecode:
		return loc.Sprintf("errors.decode")
	case apperrors.CodeValidation:
		return loc.Sprintf(forms.KeyFailed)
	case apperrors.CodeNotFound:
		return apperrors.UserMessage(err, loc.Sprintf("errors.not_found"))
	case apperrors.CodeUnauthorized:
		return apperrors.UserMessage(err, loc.Sprintf("errors.forbidden"))
	case apperrors.CodeHTTPStatus:
		return apperrors.UserMessage(err, loc.Sprintf("errors.upstream"))
	default:
		log.Printf("admin: unexpected error: %v", err)
		return loc.Sprintf("errors.unknown")
	}
}

// formState builds a form's state from submitted values and err. Local
// validation keys are translated; server field messages are shown as sent.
func formState(loc *message.Printer, values map[string]string, err error) templates.FormState {
	state := templates.FormState{Values: values}
	if err == nil {
		return state
	}
	state.Error = errorMessage(loc, err)
	fields := apperrors.Fields(err)
	if fields == nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Status == http.StatusUnprocessableEntity {
			fields = appErr.Metadata
		}
	}
	if len(fields) > 0 {
		state.Fields = make(map[string]string, len(fields))
		for field, msg := range fields {
			if strings.HasPrefix(msg, "validation.") {
				msg = loc.Sprintf(msg)
			}
			state.Fields[field] = msg
		}
	}
	return state
}

// formStatus returns the status code for a form re-rendered after err.
func formStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Status == http.StatusUnprocessableEntity {
		return http.StatusUnprocessableEntity
	}
	return apperrors.CodeOf(err).HTTPStatus()
}

func retryURL(r *http.Request) string {
	if r.Method != http.MethodGet {
		return r.URL.Path
	}
	return r.URL.RequestURI()
}

func loginRedirect(r *http.Request) string {
	next := r.URL.RequestURI()
	if r.Method != http.MethodGet || next == routepath.Root || strings.HasPrefix(next, routepath.Login) {
		return routepath.Login
	}
	return routepath.Login + "?next=" + url.QueryEscape(next)
}

// safeNext keeps post-login redirects on this host.
func safeNext(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return routepath.Dashboard
	}
	if strings.HasPrefix(raw, routepath.Login) || strings.HasPrefix(raw, routepath.Logout) {
		return routepath.Dashboard
	}
	return raw
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// actor describes the operator for published events.
func actor(r *http.Request) (id string, email string) {
	session, _ := sessionFromContext(r.Context())
	return session.AdminID, session.AdminEmail
}

func (h *Handler) emit(r *http.Request, kind events.Kind, resourceID string, attrs map[string]string) {
	id, email := actor(r)
	events.Emit(r.Context(), h.events, events.Event{
		Kind:       kind,
		ResourceID: resourceID,
		ActorID:    id,
		ActorEmail: email,
		OccurredAt: h.now().UTC(),
		Attributes: attrs,
	})
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page")))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
