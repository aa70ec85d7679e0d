// Package app orchestrates the territory influence service: it validates
// inbound mutations, drives the atomic ledger apply, detects control
// transitions, and serves the read facade with a short-lived overview cache.
package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ashfall-games/territory/internal/errors"
	"github.com/ashfall-games/territory/internal/territory/domain"
	"github.com/ashfall-games/territory/internal/territory/observability"
	"github.com/ashfall-games/territory/internal/territory/storage"
	"github.com/ashfall-games/territory/internal/territory/storage/cursor"
	"github.com/ashfall-games/territory/internal/territory/tuning"
)

const defaultOverviewTTL = 15 * time.Second

// Service is the application layer over the influence store. All gameplay
// systems mutate influence through ApplyInfluence; the query methods are the
// read facade consumed by the HTTP API.
type Service struct {
	store    storage.Store
	tuning   tuning.Tuning
	benefits domain.BenefitTable
	now      func() time.Time

	mu          sync.Mutex
	overviews   map[string]overviewEntry
	overviewTTL time.Duration
}

type overviewEntry struct {
	overview FactionOverview
	expires  time.Time
}

// NewService builds a Service with the given store and tuning.
func NewService(store storage.Store, tn tuning.Tuning) *Service {
	return &Service{
		store:       store,
		tuning:      tn,
		benefits:    tn.BenefitTable(),
		now:         time.Now,
		overviews:   make(map[string]overviewEntry),
		overviewTTL: defaultOverviewTTL,
	}
}

// ApplyCommand is one requested influence mutation from a gameplay system.
type ApplyCommand struct {
	TerritoryID string
	FactionID   string
	Delta       float64
	Source      domain.Source
	ActorKind   domain.ActorKind
	ActorID     string
}

// ApplyInfluence validates and commits one influence mutation. The returned
// result carries the clamped value, the appended history event, and the
// before/after control classifications.
func (s *Service) ApplyInfluence(ctx context.Context, cmd ApplyCommand) (storage.MutationResult, error) {
	start := time.Now()

	if math.IsNaN(cmd.Delta) || math.IsInf(cmd.Delta, 0) {
		err := apperrors.New(apperrors.CodeInvalidDelta, "influence delta must be a finite number")
		observability.MutationFailuresTotal.WithLabelValues(string(apperrors.GetCode(err))).Inc()
		return storage.MutationResult{}, err
	}
	if !cmd.Source.Valid() {
		observability.MutationFailuresTotal.WithLabelValues(string(apperrors.CodeInvalidSource)).Inc()
		return storage.MutationResult{}, domain.ErrInvalidSource
	}

	result, err := s.store.ApplyInfluence(ctx, storage.Mutation{
		TerritoryID: cmd.TerritoryID,
		FactionID:   cmd.FactionID,
		Delta:       cmd.Delta,
		Floor:       s.tuning.Floor,
		Source:      cmd.Source,
		ActorKind:   cmd.ActorKind,
		ActorID:     cmd.ActorID,
		EventID:     uuid.NewString(),
		Timestamp:   s.now().UTC(),
	})
	if err != nil {
		observability.MutationFailuresTotal.WithLabelValues(string(apperrors.GetCode(err))).Inc()
		return storage.MutationResult{}, err
	}

	observability.MutationsTotal.WithLabelValues(string(cmd.Source)).Inc()
	observability.ApplyDurationSeconds.Observe(time.Since(start).Seconds())

	if result.ControllerChanged {
		observability.ControlTransitionsTotal.WithLabelValues(observability.TransitionController).Inc()
		log.Printf("territory %s controller changed: %q -> %q (%s)",
			cmd.TerritoryID, result.Previous.ControllingFactionID,
			result.Current.ControllingFactionID, result.Current.Level)
	}
	if result.LevelChanged {
		observability.ControlTransitionsTotal.WithLabelValues(observability.TransitionLevel).Inc()
	}
	if result.ControllerChanged || result.LevelChanged {
		s.dropOverviews()
	}
	return result, nil
}

// TerritorySummary is the per-territory read model: the influence snapshot,
// the control classification, and the controller's active benefits.
type TerritorySummary struct {
	Territory domain.Territory
	Influence map[string]float64
	Control   domain.ControlState
	// Benefits is the set the controlling faction's players currently
	// enjoy; all-zero when the territory is contested.
	Benefits domain.BenefitSet
}

// GetTerritory returns the full summary for one territory.
func (s *Service) GetTerritory(ctx context.Context, territoryID string) (TerritorySummary, error) {
	state, err := s.store.GetTerritory(ctx, territoryID)
	if err != nil {
		return TerritorySummary{}, err
	}
	snapshot, err := s.store.InfluenceSnapshot(ctx, territoryID)
	if err != nil {
		return TerritorySummary{}, err
	}
	return TerritorySummary{
		Territory: state.Territory,
		Influence: snapshot,
		Control:   state.Control,
		Benefits:  domain.ComputeBenefits(s.benefits, state.Control.ControllingFactionID, state.Control),
	}, nil
}

// ListTerritories returns summaries for every territory, ordered by id.
func (s *Service) ListTerritories(ctx context.Context) ([]TerritorySummary, error) {
	states, err := s.store.ListTerritories(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]TerritorySummary, 0, len(states))
	for _, state := range states {
		snapshot, err := s.store.InfluenceSnapshot(ctx, state.Territory.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, TerritorySummary{
			Territory: state.Territory,
			Influence: snapshot,
			Control:   state.Control,
			Benefits:  domain.ComputeBenefits(s.benefits, state.Control.ControllingFactionID, state.Control),
		})
	}
	return summaries, nil
}

// AlignmentBenefits returns the benefits a faction's aligned players get in
// a territory. Any faction other than the controller gets an all-zero set.
func (s *Service) AlignmentBenefits(ctx context.Context, territoryID, factionID string) (domain.BenefitSet, error) {
	if _, err := s.store.GetFaction(ctx, factionID); err != nil {
		return domain.BenefitSet{}, err
	}
	state, err := s.store.GetTerritory(ctx, territoryID)
	if err != nil {
		return domain.BenefitSet{}, err
	}
	return domain.ComputeBenefits(s.benefits, factionID, state.Control), nil
}

// HeldTerritory is one territory a faction currently controls.
type HeldTerritory struct {
	TerritoryID string
	Name        string
	Level       domain.Level
}

// FactionOverview aggregates a faction's standing across the whole map.
type FactionOverview struct {
	Faction         domain.Faction
	DominatedCount  int
	ControlledCount int
	DisputedCount   int
	Territories     []HeldTerritory
	GeneratedAt     time.Time
}

// FactionOverview returns the faction's map-wide standing. Results are
// cached for a short TTL; the cache is dropped on any control transition.
func (s *Service) FactionOverview(ctx context.Context, factionID string) (FactionOverview, error) {
	s.mu.Lock()
	entry, ok := s.overviews[factionID]
	s.mu.Unlock()
	if ok && s.now().Before(entry.expires) {
		return entry.overview, nil
	}

	faction, err := s.store.GetFaction(ctx, factionID)
	if err != nil {
		return FactionOverview{}, err
	}
	states, err := s.store.ListTerritories(ctx)
	if err != nil {
		return FactionOverview{}, err
	}

	overview := FactionOverview{Faction: faction, GeneratedAt: s.now().UTC()}
	for _, state := range states {
		if state.Control.ControllingFactionID != factionID {
			continue
		}
		switch state.Control.Level {
		case domain.LevelDominated:
			overview.DominatedCount++
		case domain.LevelControlled:
			overview.ControlledCount++
		case domain.LevelDisputed:
			overview.DisputedCount++
		}
		overview.Territories = append(overview.Territories, HeldTerritory{
			TerritoryID: state.Territory.ID,
			Name:        state.Territory.Name,
			Level:       state.Control.Level,
		})
	}

	s.mu.Lock()
	s.overviews[factionID] = overviewEntry{overview: overview, expires: s.now().Add(s.overviewTTL)}
	s.mu.Unlock()
	return overview, nil
}

func (s *Service) dropOverviews() {
	s.mu.Lock()
	s.overviews = make(map[string]overviewEntry)
	s.mu.Unlock()
}

// HistoryQuery selects a filtered, cursor-paginated slice of the audit
// trail. Source is the raw string from the caller and is validated here.
type HistoryQuery struct {
	TerritoryID string
	FactionID   string
	ActorID     string
	Source      string
	Since       time.Time
	Until       time.Time
	PageSize    int
	PageToken   string
}

// HistoryResult is one chronological page plus the token for the next.
type HistoryResult struct {
	Events []domain.InfluenceEvent
	// NextPageToken is empty on the final page.
	NextPageToken string
}

// History returns matching history records in chronological order. Page
// tokens are bound to the filter that produced them; reusing a token with
// different filters is rejected.
func (s *Service) History(ctx context.Context, q HistoryQuery) (HistoryResult, error) {
	filter := storage.HistoryFilter{
		TerritoryID: q.TerritoryID,
		FactionID:   q.FactionID,
		ActorID:     q.ActorID,
		Since:       q.Since,
		Until:       q.Until,
		Limit:       q.PageSize,
	}
	if q.Source != "" {
		src, err := domain.ParseSource(q.Source)
		if err != nil {
			return HistoryResult{}, err
		}
		filter.Source = src
	}

	hash := cursor.HashFilter(historyFilterKey(filter))
	if q.PageToken != "" {
		c, err := cursor.Decode(q.PageToken)
		if err != nil {
			return HistoryResult{}, apperrors.Wrap(apperrors.CodeInvalidQuery, "page token is malformed", err)
		}
		if c.FilterHash != hash {
			return HistoryResult{}, apperrors.New(apperrors.CodeInvalidQuery, "page token does not match the query filters")
		}
		filter.AfterSeq = c.Seq
	}

	page, err := s.store.ListHistory(ctx, filter)
	if err != nil {
		return HistoryResult{}, err
	}

	result := HistoryResult{Events: page.Events}
	if page.HasMore {
		token, err := cursor.Encode(cursor.Cursor{Seq: page.LastSeq, FilterHash: hash})
		if err != nil {
			return HistoryResult{}, apperrors.Wrap(apperrors.CodeUnknown, "encode page token", err)
		}
		result.NextPageToken = token
	}
	return result, nil
}

// Sources lists the accepted influence source values, for API discovery.
func (s *Service) Sources() []domain.Source {
	return domain.Sources()
}

func historyFilterKey(f storage.HistoryFilter) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d|%d",
		f.TerritoryID, f.FactionID, f.ActorID, f.Source,
		f.Since.UnixMilli(), f.Until.UnixMilli())
}

// sortedFactionIDs returns snapshot keys in a deterministic order.
func sortedFactionIDs(values map[string]float64) []string {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
