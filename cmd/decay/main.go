// Package main runs the daily influence decay once, for deployments that
// drive decay from an external scheduler instead of the in-server loop.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashfall-games/territory/internal/platform/config"
	"github.com/ashfall-games/territory/internal/territory/app"
	"github.com/ashfall-games/territory/internal/territory/storage/sqlite"
	"github.com/ashfall-games/territory/internal/territory/tuning"
)

func main() {
	dbPath := flag.String("db", "territory.db", "path to the SQLite database")
	tuningPath := flag.String("tuning", "", "path to the tuning YAML file (optional)")
	date := flag.String("date", "", "UTC day to run decay for, as YYYY-MM-DD (default: today)")
	flag.Parse()

	day := time.Now().UTC()
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			config.Exitf("Error: invalid -date %q: %v", *date, err)
		}
		day = parsed
	}

	tn, err := tuning.Load(*tuningPath)
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := app.NewDecayRunner(store, tn).RunOnce(ctx, day)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	log.Printf("decay %s: completed=%d skipped=%d failed=%d mutations=%d",
		report.DateKey, report.Completed, report.Skipped, report.Failed, report.Mutations)
	if report.Failed > 0 {
		os.Exit(1)
	}
}
