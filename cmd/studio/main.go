// Package main starts the studio service.
//
// The process serves onboarding, the product wizard and role dashboards over
// HTTP, plus gRPC health for orchestrator health checks.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	studiocmd "github.com/louisbranch/printstudio/internal/cmd/studio"
)

func main() {
	cfg, err := studiocmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[STUDIO] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := studiocmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
