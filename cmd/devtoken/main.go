// Package main prints a signed session token for local development.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/louisbranch/printstudio/internal/tools/devtoken"
)

func main() {
	cfg, err := devtoken.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	if err := devtoken.Run(cfg, os.Stdout, nil); err != nil {
		log.Fatalf("mint token: %v", err)
	}
}
