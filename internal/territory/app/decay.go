package app

import (
	"context"
	"log"
	"time"

	"github.com/ashfall-games/territory/internal/territory/domain"
	"github.com/ashfall-games/territory/internal/territory/observability"
	"github.com/ashfall-games/territory/internal/territory/storage"
	"github.com/ashfall-games/territory/internal/territory/tuning"
)

// dateKeyLayout is the per-day idempotency key for decay run markers.
const dateKeyLayout = "2006-01-02"

// DecayRunner applies the daily influence decay. Each run moves every
// touched (territory, faction) value one step toward equilibrium through
// the normal mutation path, so decay shows up in history like any other
// influence change.
//
// Runs are idempotent per territory per UTC day. Each territory's decay is
// one atomic unit: the store commits the day marker and every faction's
// delta in a single transaction, so a mid-territory failure leaves nothing
// applied and a retry within the same day window picks up exactly the
// territories that did not finish, applying each at most once.
type DecayRunner struct {
	store  storage.Store
	tuning tuning.Tuning
	now    func() time.Time
	logf   func(format string, args ...any)
}

// NewDecayRunner builds a runner over the given store and tuning.
func NewDecayRunner(store storage.Store, tn tuning.Tuning) *DecayRunner {
	return &DecayRunner{
		store:  store,
		tuning: tn,
		now:    time.Now,
		logf:   log.Printf,
	}
}

// DecayReport summarizes one decay run.
type DecayReport struct {
	DateKey string
	// Completed counts territories fully processed this run.
	Completed int
	// Skipped counts territories whose marker for the day already existed.
	Skipped int
	// Failed counts territories aborted by an error; their day markers
	// rolled back with their deltas, so the next run retries them.
	Failed int
	// Mutations counts influence events the run appended.
	Mutations int
}

// RunOnce executes the decay task for the given day. Cancellation is
// honored between territories; a cancelled run leaves completed territories
// marked and unprocessed ones unclaimed.
func (r *DecayRunner) RunOnce(ctx context.Context, day time.Time) (DecayReport, error) {
	report := DecayReport{DateKey: day.UTC().Format(dateKeyLayout)}

	factions, err := r.store.ListFactions(ctx)
	if err != nil {
		return report, err
	}
	if len(factions) == 0 {
		return report, nil
	}
	equilibrium := domain.Equilibrium(len(factions))

	territories, err := r.store.ListTerritories(ctx)
	if err != nil {
		return report, err
	}

	for _, state := range territories {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		territoryID := state.Territory.ID

		muts, err := r.decayMutations(ctx, territoryID, equilibrium)
		if err != nil {
			report.Failed++
			observability.DecayTerritoriesTotal.WithLabelValues(observability.DecayFailed).Inc()
			r.logf("decay %s: territory %s: %v", report.DateKey, territoryID, err)
			continue
		}

		results, acquired, err := r.store.DecayTerritory(ctx, territoryID, report.DateKey, muts)
		if err != nil {
			report.Failed++
			observability.DecayTerritoriesTotal.WithLabelValues(observability.DecayFailed).Inc()
			r.logf("decay %s: territory %s: %v", report.DateKey, territoryID, err)
			continue
		}
		if !acquired {
			report.Skipped++
			observability.DecayTerritoriesTotal.WithLabelValues(observability.DecaySkipped).Inc()
			continue
		}
		report.Completed++
		report.Mutations += len(results)
		observability.DecayTerritoriesTotal.WithLabelValues(observability.DecayCompleted).Inc()
	}
	return report, nil
}

// decayMutations builds one step toward equilibrium for every touched
// faction in the territory. Untouched factions have no ledger row and are
// left alone.
func (r *DecayRunner) decayMutations(ctx context.Context, territoryID string, equilibrium float64) ([]storage.Mutation, error) {
	snapshot, err := r.store.InfluenceSnapshot(ctx, territoryID)
	if err != nil {
		return nil, err
	}

	muts := make([]storage.Mutation, 0, len(snapshot))
	for _, factionID := range sortedFactionIDs(snapshot) {
		delta := domain.DecayDelta(snapshot[factionID], equilibrium,
			r.tuning.Decay.Rate, r.tuning.Decay.MaxStep, r.tuning.Floor)
		if delta == 0 {
			continue
		}
		muts = append(muts, storage.Mutation{
			TerritoryID: territoryID,
			FactionID:   factionID,
			Delta:       delta,
			Floor:       r.tuning.Floor,
			Source:      domain.SourceDecay,
			ActorKind:   domain.ActorSystem,
			Timestamp:   r.now().UTC(),
		})
	}
	return muts, nil
}

// RunLoop runs decay immediately and then once per interval until the
// context is cancelled. Each pass uses the current UTC day as its
// idempotency key, so a short interval costs nothing beyond marker checks.
func (r *DecayRunner) RunLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := r.RunOnce(ctx, r.now())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logf("decay %s: run: %v", report.DateKey, err)
		} else if report.Completed > 0 || report.Failed > 0 {
			r.logf("decay %s: completed=%d skipped=%d failed=%d mutations=%d",
				report.DateKey, report.Completed, report.Skipped, report.Failed, report.Mutations)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
