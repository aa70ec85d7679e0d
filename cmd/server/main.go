// Package main runs the territory influence service: the JSON API plus the
// in-process daily decay loop.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ashfall-games/territory/internal/platform/config"
	api "github.com/ashfall-games/territory/internal/territory/api/http"
	"github.com/ashfall-games/territory/internal/territory/app"
	"github.com/ashfall-games/territory/internal/territory/storage/sqlite"
	"github.com/ashfall-games/territory/internal/territory/tuning"
)

type serverConfig struct {
	Port       int    `env:"TERRITORY_PORT" envDefault:"8080"`
	DBPath     string `env:"TERRITORY_DB_PATH" envDefault:"territory.db"`
	TuningPath string `env:"TERRITORY_TUNING_PATH"`
	// DecayInterval is how often the decay loop wakes up. Runs are
	// idempotent per UTC day, so frequent wakeups only cost marker checks.
	DecayInterval time.Duration `env:"TERRITORY_DECAY_INTERVAL" envDefault:"1h"`
	// DecayDisabled turns the in-process loop off for deployments that
	// drive decay through an external scheduler and cmd/decay.
	DecayDisabled bool `env:"TERRITORY_DECAY_DISABLED"`
}

func main() {
	var cfg serverConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("Error: %v", err)
	}

	tn, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer store.Close()

	svc := app.NewService(store, tn)
	router := api.NewRouter(svc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("territory service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if !cfg.DecayDisabled {
		runner := app.NewDecayRunner(store, tn)
		group.Go(func() error {
			return runner.RunLoop(ctx, cfg.DecayInterval)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		config.Exitf("Error: %v", err)
	}
	log.Printf("territory service stopped")
}
