package domain

import (
	"strings"
	"time"

	apperrors "github.com/ashfall-games/territory/internal/errors"
)

// Source identifies the gameplay system that produced an influence mutation.
type Source string

const (
	SourceQuest         Source = "quest"
	SourceDonation      Source = "donation"
	SourceCombat        Source = "combat"
	SourceConstruction  Source = "construction"
	SourceEvent         Source = "event"
	SourceDecay         Source = "decay"
	SourceCrime         Source = "crime"
	SourceGangAlignment Source = "gangAlignment"
)

// Sources lists every defined influence source.
func Sources() []Source {
	return []Source{
		SourceQuest,
		SourceDonation,
		SourceCombat,
		SourceConstruction,
		SourceEvent,
		SourceDecay,
		SourceCrime,
		SourceGangAlignment,
	}
}

// Valid reports whether the source is a defined enum value.
func (s Source) Valid() bool {
	switch s {
	case SourceQuest, SourceDonation, SourceCombat, SourceConstruction,
		SourceEvent, SourceDecay, SourceCrime, SourceGangAlignment:
		return true
	}
	return false
}

// ErrInvalidSource indicates a mutation with an unrecognized source enum.
var ErrInvalidSource = apperrors.New(apperrors.CodeInvalidSource, "influence source is not recognized")

// ParseSource validates a raw source string.
func ParseSource(raw string) (Source, error) {
	s := Source(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", apperrors.WithMetadata(apperrors.CodeInvalidSource, "influence source is not recognized", map[string]string{
			"source": raw,
		})
	}
	return s, nil
}

// ActorKind identifies what kind of actor produced a mutation.
type ActorKind string

const (
	ActorCharacter ActorKind = "character"
	ActorGang      ActorKind = "gang"
	// ActorSystem marks mutations with no player behind them, such as decay.
	ActorSystem ActorKind = "system"
)

// Valid reports whether the actor kind is a known value.
func (k ActorKind) Valid() bool {
	return k == ActorCharacter || k == ActorGang || k == ActorSystem
}

// InfluenceEvent is one immutable history record. The full time-ordered
// sequence for a territory is the canonical audit trail: re-clamping the
// running sum of Delta values reproduces the stored influence value.
type InfluenceEvent struct {
	ID string
	// Seq is the global append order assigned by the history log.
	Seq         uint64
	TerritoryID string
	FactionID   string
	// Delta is the requested (pre-clamp) amount, preserving intent even
	// when the stored value saturated at a bound.
	Delta float64
	// EffectiveDelta is the movement actually applied after clamping.
	EffectiveDelta float64
	Source         Source
	ActorKind      ActorKind
	ActorID        string
	// Value is the post-mutation influence value, denormalized for audit.
	Value     float64
	Timestamp time.Time
}

// Validate checks the event's reference and enum fields.
func (e InfluenceEvent) Validate() error {
	if strings.TrimSpace(e.TerritoryID) == "" {
		return apperrors.New(apperrors.CodeUnknownTerritory, "event territory id is required")
	}
	if strings.TrimSpace(e.FactionID) == "" {
		return apperrors.New(apperrors.CodeUnknownFaction, "event faction id is required")
	}
	if !e.Source.Valid() {
		return ErrInvalidSource
	}
	if e.ActorKind != "" && !e.ActorKind.Valid() {
		return apperrors.WithMetadata(apperrors.CodeInvalidQuery, "event actor kind is invalid", map[string]string{
			"actor_kind": string(e.ActorKind),
		})
	}
	return nil
}
