package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/atlasdata/alfurij-admin/internal/platform/telemetry/metrics"
	"github.com/atlasdata/alfurij-admin/internal/platform/timeouts"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/events"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/static"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/storage"
	adminsqlite "github.com/atlasdata/alfurij-admin/internal/services/admin/storage/sqlite"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/streamwatch"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/transport/httpmux"
)

// defaultSessionSweep runs the expired-session janitor.
const defaultSessionSweep = "@every 15m"

// Config defines the inputs for the admin console process.
//
// The console is a front end over the marketplace REST API; it keeps only
// operator sessions locally.
type Config struct {
	HTTPAddr   string
	APIBaseURL string
	// StorageURL hosts relative media paths; empty derives it from APIBaseURL.
	StorageURL string
	DBPath     string
	// SessionKey seals bearer tokens at rest.
	SessionKey string
	SessionTTL time.Duration
	Location   *time.Location
	WeekStart  time.Weekday
	// AMQPURL enables admin action events when set.
	AMQPURL string
	// SessionSweep is the cron spec of the expired-session janitor.
	SessionSweep  string
	LoginRate     rate.Limit
	LoginBurst    int
	SecureCookies bool
	StreamPoll    time.Duration
	// PublicURL is the console's external origin; calendar links use it
	// instead of the request Host when set.
	PublicURL string
}

// Server hosts the admin console and owns its local resources.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	adminStore *adminsqlite.Store
	events     events.Publisher
	janitor    *cron.Cron
}

// NewServer builds a configured admin server.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if strings.TrimSpace(config.APIBaseURL) == "" {
		return nil, errors.New("api base url is required")
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	reg := metrics.New()
	client, err := marketapi.NewClient(marketapi.Config{
		BaseURL:    config.APIBaseURL,
		StorageURL: config.StorageURL,
		Metrics:    reg,
	})
	if err != nil {
		return nil, err
	}

	adminStore, err := openAdminStore(config.DBPath, config.SessionKey)
	if err != nil {
		return nil, err
	}

	publisher := dialEvents(config.AMQPURL, reg)

	handler, err := NewHandler(HandlerConfig{
		API:           client,
		Sessions:      adminStore,
		Events:        publisher,
		Poller:        streamwatch.NewPoller(config.StreamPoll, reg),
		Metrics:       reg,
		Location:      config.Location,
		WeekStart:     config.WeekStart,
		SessionTTL:    config.SessionTTL,
		LoginRate:     config.LoginRate,
		LoginBurst:    config.LoginBurst,
		SecureCookies: config.SecureCookies,
		PublicURL:     config.PublicURL,
	})
	if err != nil {
		_ = publisher.Close()
		_ = adminStore.Close()
		return nil, err
	}

	janitor, err := newJanitor(ctx, config.SessionSweep, config.Location, adminStore)
	if err != nil {
		_ = publisher.Close()
		_ = adminStore.Close()
		return nil, err
	}

	rootMux := http.NewServeMux()
	httpmux.MountStatic(rootMux, static.FS, httpmux.StaticCache)
	httpmux.MountOps(rootMux, reg)
	httpmux.MountAdminRoutes(rootMux, handler)

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           otelhttp.NewHandler(httpmux.Wrap(rootMux, reg, nil), "admin"),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		httpAddr:   httpAddr,
		httpServer: httpServer,
		adminStore: adminStore,
		events:     publisher,
		janitor:    janitor,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("admin server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if s.janitor != nil {
		s.janitor.Start()
		defer func() { <-s.janitor.Stop().Done() }()
	}

	serveErr := make(chan error, 1)
	log.Printf("admin listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the event broker connection and the session store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			log.Printf("close admin event publisher: %v", err)
		}
	}
	if s.adminStore != nil {
		if err := s.adminStore.Close(); err != nil {
			log.Printf("close admin store: %v", err)
		}
	}
}

func openAdminStore(path, key string) (*adminsqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("admin db path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := adminsqlite.Open(path, key)
	if err != nil {
		return nil, fmt.Errorf("open admin sqlite store: %w", err)
	}
	return store, nil
}

// dialEvents connects the action event publisher. A broker that cannot be
// reached leaves the console running without events.
func dialEvents(url string, reg *metrics.Registry) events.Publisher {
	if strings.TrimSpace(url) == "" {
		return events.Noop{}
	}
	publisher, err := events.Dial(url, reg)
	if err != nil {
		log.Printf("admin: event broker unavailable, continuing without events: %v", err)
		return events.Noop{}
	}
	return publisher
}

// newJanitor schedules the expired-session sweep on spec.
func newJanitor(ctx context.Context, spec string, loc *time.Location, store storage.SessionStore) (*cron.Cron, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = defaultSessionSweep
	}
	if loc == nil {
		loc = time.UTC
	}
	janitor := cron.New(cron.WithLocation(loc))
	if _, err := janitor.AddFunc(spec, func() {
		sweepSessions(ctx, store, time.Now())
	}); err != nil {
		return nil, fmt.Errorf("schedule session sweep %q: %w", spec, err)
	}
	return janitor, nil
}

// sweepSessions deletes sessions expired at now and returns how many went.
func sweepSessions(ctx context.Context, store storage.SessionStore, now time.Time) int64 {
	if store == nil {
		return 0
	}
	removed, err := store.DeleteExpired(ctx, now)
	if err != nil {
		log.Printf("admin: sweep sessions: %v", err)
		return 0
	}
	if removed > 0 {
		log.Printf("admin: swept %d expired sessions", removed)
	}
	return removed
}
