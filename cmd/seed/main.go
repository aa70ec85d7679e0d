// Package main initializes a world from a YAML fixture.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashfall-games/territory/internal/platform/config"
	"github.com/ashfall-games/territory/internal/territory/app"
	"github.com/ashfall-games/territory/internal/territory/seed"
	"github.com/ashfall-games/territory/internal/territory/storage/sqlite"
	"github.com/ashfall-games/territory/internal/territory/tuning"
)

func main() {
	dbPath := flag.String("db", "territory.db", "path to the SQLite database")
	tuningPath := flag.String("tuning", "", "path to the tuning YAML file (optional)")
	fixturePath := flag.String("fixture", "", "path to the world fixture YAML file")
	flag.Parse()

	if *fixturePath == "" {
		config.Exitf("Error: -fixture is required")
	}

	fixture, err := seed.Load(*fixturePath)
	if err != nil {
		config.Exitf("Error: %v", err)
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

	svc := app.NewService(store, tn)
	if err := seed.Apply(ctx, store, svc, fixture); err != nil {
		config.Exitf("Error: %v", err)
	}
	log.Printf("seeded %d territories, %d factions, %d influence entries",
		len(fixture.Territories), len(fixture.Factions), len(fixture.Influence))
}
