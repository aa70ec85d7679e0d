// Package storage defines the persistence contracts for the territory
// influence service. The influence ledger and history log are the only
// shared mutable state in the system; nothing outside this subsystem
// writes to them directly.
package storage

import (
	"context"
	"time"

	"github.com/ashfall-games/territory/internal/territory/domain"
)

// Mutation is one requested influence change against a (territory, faction)
// pair. Delta is signed and unbounded; the store clamps.
type Mutation struct {
	TerritoryID string
	FactionID   string
	Delta       float64
	// Floor is the configured minimum influence for touched pairs.
	Floor     float64
	Source    domain.Source
	ActorKind domain.ActorKind
	ActorID   string
	// EventID and Timestamp are assigned by the caller so the store stays
	// clock-free; the store fills them in when left empty.
	EventID   string
	Timestamp time.Time
}

// MutationResult reports the committed outcome of one influence mutation.
type MutationResult struct {
	// Event is the appended history record, including the post-mutation value.
	Event domain.InfluenceEvent
	// NewValue is the clamped post-mutation influence value.
	NewValue float64
	// Previous and Current are the control classifications before and
	// after the mutation.
	Previous domain.ControlState
	Current  domain.ControlState
	// ControllerChanged is true when the controlling faction identity
	// changed, including transitions to or from no controller.
	ControllerChanged bool
	// LevelChanged is true when the control level changed, which can
	// happen without a controller change (e.g. controlled -> dominated).
	LevelChanged bool
}

// TerritoryState pairs a territory with its cached control classification.
type TerritoryState struct {
	Territory domain.Territory
	Control   domain.ControlState
}

// HistoryFilter selects history records. Zero-valued fields are ignored.
type HistoryFilter struct {
	TerritoryID string
	FactionID   string
	ActorID     string
	Source      domain.Source
	Since       time.Time
	Until       time.Time
	// AfterSeq resumes a paginated scan past the given sequence number.
	AfterSeq uint64
	// Limit bounds the page size; the store applies a default when zero.
	Limit int
}

// HistoryPage is one chronological page of history records.
type HistoryPage struct {
	Events []domain.InfluenceEvent
	// LastSeq is the sequence number of the final event in the page.
	LastSeq uint64
	// HasMore reports whether records beyond LastSeq match the filter.
	HasMore bool
}

// InfluenceStore is the authoritative influence ledger.
type InfluenceStore interface {
	// ApplyInfluence atomically clamps and commits one mutation, appends
	// its history record, and reclassifies the territory. Concurrent
	// calls against the same pair serialize with no lost updates.
	ApplyInfluence(ctx context.Context, m Mutation) (MutationResult, error)
	// InfluenceSnapshot returns the current per-faction values for a
	// territory. Factions that were never touched are absent.
	InfluenceSnapshot(ctx context.Context, territoryID string) (map[string]float64, error)
}

// TerritoryStore persists the fixed territory and faction sets.
type TerritoryStore interface {
	PutTerritory(ctx context.Context, t domain.Territory) error
	GetTerritory(ctx context.Context, id string) (TerritoryState, error)
	ListTerritories(ctx context.Context) ([]TerritoryState, error)
	PutFaction(ctx context.Context, f domain.Faction) error
	GetFaction(ctx context.Context, id string) (domain.Faction, error)
	ListFactions(ctx context.Context) ([]domain.Faction, error)
}

// HistoryStore reads the append-only influence audit trail.
type HistoryStore interface {
	ListHistory(ctx context.Context, filter HistoryFilter) (HistoryPage, error)
}

// DecayStore applies the daily decay. Each territory's decay is one atomic
// unit: the per-(territory, date) marker and every mutation commit together
// or not at all, which keeps the task idempotent per day window even across
// mid-run failures and retries.
type DecayStore interface {
	// DecayTerritory claims the (territory, date) marker and applies the
	// given mutations in a single transaction. When the marker already
	// exists the call is a no-op and acquired is false. Any failure rolls
	// back the marker and every mutation, so a retry inside the same day
	// window applies the territory's decay exactly once.
	DecayTerritory(ctx context.Context, territoryID, dateKey string, muts []Mutation) (results []MutationResult, acquired bool, err error)
}

// Store aggregates every persistence concern the service needs.
type Store interface {
	InfluenceStore
	TerritoryStore
	HistoryStore
	DecayStore
}
