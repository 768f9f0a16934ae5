// Package main starts the marketplace admin console.
//
// The console is a server-rendered front end over the marketplace REST API;
// it holds only operator sessions locally.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	admincmd "github.com/atlasdata/alfurij-admin/internal/cmd/admin"
	"github.com/atlasdata/alfurij-admin/internal/platform/config"
)

func main() {
	cfg, err := admincmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError(err, "parse config")
	log.SetPrefix("[ADMIN] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := admincmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
