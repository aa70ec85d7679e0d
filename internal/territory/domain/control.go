package domain

import (
	"sort"
	"time"
)

// Level classifies how firmly the leading faction holds a territory.
type Level string

const (
	// LevelContested means no faction has meaningful presence, or the top
	// factions are exactly tied.
	LevelContested  Level = "contested"
	LevelDisputed   Level = "disputed"
	LevelControlled Level = "controlled"
	LevelDominated  Level = "dominated"
)

// Classification thresholds on the leading faction's influence value.
const (
	DisputedThreshold   = 30.0
	ControlledThreshold = 50.0
	DominatedThreshold  = 70.0
)

// Valid reports whether the level is a known value.
func (l Level) Valid() bool {
	switch l {
	case LevelContested, LevelDisputed, LevelControlled, LevelDominated:
		return true
	}
	return false
}

// ControlState is the derived classification for a territory. It is
// recomputed from the influence snapshot, never independently mutated.
type ControlState struct {
	Level Level
	// ControllingFactionID is empty when the territory is contested.
	ControllingFactionID string
	// ControlChangedAt updates only when the controlling faction identity
	// changes, not on every value tweak.
	ControlChangedAt time.Time
}

// Controlled reports whether some faction holds the territory.
func (s ControlState) Controlled() bool {
	return s.ControllingFactionID != ""
}

// ResolveControl classifies a territory from its current influence
// snapshot. Absent factions are treated as zero. The function is pure:
// identical snapshots always produce identical results.
//
// An exact tie at the maximum resolves to contested regardless of the
// value; instability is preferred over arbitrary ordering.
func ResolveControl(values map[string]float64) ControlState {
	if len(values) == 0 {
		return ControlState{Level: LevelContested}
	}

	// Sorted iteration keeps the leader deterministic when values differ
	// only by map order.
	factions := make([]string, 0, len(values))
	for id := range values {
		factions = append(factions, id)
	}
	sort.Strings(factions)

	var leader string
	var maxVal float64
	tied := false
	for _, id := range factions {
		v := values[id]
		switch {
		case leader == "" || v > maxVal:
			leader = id
			maxVal = v
			tied = false
		case v == maxVal:
			tied = true
		}
	}

	if maxVal < DisputedThreshold || tied {
		return ControlState{Level: LevelContested}
	}

	level := LevelDisputed
	switch {
	case maxVal >= DominatedThreshold:
		level = LevelDominated
	case maxVal >= ControlledThreshold:
		level = LevelControlled
	}
	return ControlState{Level: level, ControllingFactionID: leader}
}
