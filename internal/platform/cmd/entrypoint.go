// Package cmd holds the startup plumbing shared by console entrypoints.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/atlasdata/alfurij-admin/internal/platform/config"
	"github.com/atlasdata/alfurij-admin/internal/platform/otel"
	"github.com/atlasdata/alfurij-admin/internal/platform/timeouts"
)

// ServiceAdmin names the admin console for telemetry and logging.
const ServiceAdmin = "alfurij-admin"

// ParseConfig loads environment values into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// LoadConfig layers configuration: the optional YAML file first, then the
// environment (after .env files are merged into it).
func LoadConfig[T any](cfg *T, file string, dotenv ...string) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if err := config.LoadDotEnv(dotenv...); err != nil {
		return err
	}
	if err := config.LoadYAMLFile(file, cfg); err != nil {
		return err
	}
	return ParseConfig(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry installs the OTel tracer provider for service, runs the
// service loop, and flushes telemetry once it returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s: flush telemetry: %v", service, err)
		}
	}()
	return run(ctx)
}
