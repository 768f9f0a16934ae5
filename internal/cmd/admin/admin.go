package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"golang.org/x/time/rate"

	platformcmd "github.com/atlasdata/alfurij-admin/internal/platform/cmd"
	"github.com/atlasdata/alfurij-admin/internal/platform/config"
	"github.com/atlasdata/alfurij-admin/internal/services/admin"
)

const (
	defaultHTTPAddr   = ":8082"
	defaultAPIBaseURL = "http://localhost:8000/api"
	defaultSessionTTL = 12 * time.Hour
	defaultTimezone   = "Asia/Riyadh"
	defaultWeekStart  = "sunday"
	defaultLoginRate  = 0.2
	defaultLoginBurst = 5
)

// Config holds the admin command configuration. Values are layered: the
// optional YAML file named by ADMIN_CONFIG_FILE, then the environment
// (including a local .env file), then flags.
type Config struct {
	HTTPAddr      string        `env:"ADMIN_HTTP_ADDR" yaml:"http_addr"`
	APIBaseURL    string        `env:"ADMIN_API_BASE_URL" yaml:"api_base_url"`
	StorageURL    string        `env:"ADMIN_STORAGE_URL" yaml:"storage_url"`
	DBPath        string        `env:"ADMIN_DB_PATH" yaml:"db_path"`
	SessionKey    string        `env:"ADMIN_SESSION_KEY" yaml:"session_key"`
	SessionTTL    time.Duration `env:"ADMIN_SESSION_TTL" yaml:"session_ttl"`
	Timezone      string        `env:"ADMIN_TIMEZONE" yaml:"timezone"`
	WeekStart     string        `env:"ADMIN_WEEK_START" yaml:"week_start"`
	AMQPURL       string        `env:"ADMIN_AMQP_URL" yaml:"amqp_url"`
	SessionSweep  string        `env:"ADMIN_SESSION_SWEEP" yaml:"session_sweep"`
	LoginRate     float64       `env:"ADMIN_LOGIN_RATE" yaml:"login_rate"`
	LoginBurst    int           `env:"ADMIN_LOGIN_BURST" yaml:"login_burst"`
	SecureCookies bool          `env:"ADMIN_SECURE_COOKIES" yaml:"secure_cookies"`
	StreamPoll    time.Duration `env:"ADMIN_STREAM_POLL" yaml:"stream_poll"`
	PublicURL     string        `env:"ADMIN_PUBLIC_URL" yaml:"public_url"`
}

// ParseConfig loads the layered configuration and parses flags into it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := platformcmd.LoadConfig(&cfg, os.Getenv("ADMIN_CONFIG_FILE")); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "marketplace API base URL")
	fs.StringVar(&cfg.StorageURL, "storage-url", cfg.StorageURL, "host serving uploaded media")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to the session database")
	fs.StringVar(&cfg.AMQPURL, "amqp-url", cfg.AMQPURL, "broker URL for admin action events")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "external console URL used in calendar links")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		c.HTTPAddr = defaultHTTPAddr
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = filepath.Join("data", "admin.db")
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = defaultSessionTTL
	}
	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = defaultTimezone
	}
	if strings.TrimSpace(c.WeekStart) == "" {
		c.WeekStart = defaultWeekStart
	}
	if c.LoginRate <= 0 {
		c.LoginRate = defaultLoginRate
	}
	if c.LoginBurst <= 0 {
		c.LoginBurst = defaultLoginBurst
	}
}

// serverConfig resolves the command configuration into server inputs.
func (c Config) serverConfig() (admin.Config, error) {
	if strings.TrimSpace(c.SessionKey) == "" {
		return admin.Config{}, errors.New("ADMIN_SESSION_KEY is required")
	}
	loc, err := time.LoadLocation(strings.TrimSpace(c.Timezone))
	if err != nil {
		return admin.Config{}, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	weekStart, err := parseWeekday(c.WeekStart)
	if err != nil {
		return admin.Config{}, err
	}
	return admin.Config{
		HTTPAddr:      c.HTTPAddr,
		APIBaseURL:    c.APIBaseURL,
		StorageURL:    c.StorageURL,
		DBPath:        c.DBPath,
		SessionKey:    c.SessionKey,
		SessionTTL:    c.SessionTTL,
		Location:      loc,
		WeekStart:     weekStart,
		AMQPURL:       c.AMQPURL,
		SessionSweep:  c.SessionSweep,
		LoginRate:     rate.Limit(c.LoginRate),
		LoginBurst:    c.LoginBurst,
		SecureCookies: c.SecureCookies,
		StreamPoll:    c.StreamPoll,
		PublicURL:     c.PublicURL,
	}, nil
}

func parseWeekday(raw string) (time.Weekday, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for day := time.Sunday; day <= time.Saturday; day++ {
		name := strings.ToLower(day.String())
		if raw == name || raw == name[:3] {
			return day, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown week start %q", raw)
}

// Run starts the admin console.
func Run(ctx context.Context, cfg Config) error {
	serverCfg, err := cfg.serverConfig()
	if err != nil {
		return fmt.Errorf("admin config: %w", err)
	}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceAdmin, func(ctx context.Context) error {
		server, err := admin.NewServer(ctx, serverCfg)
		if err != nil {
			return fmt.Errorf("init admin server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve admin: %w", err)
		}
		return nil
	})
}
