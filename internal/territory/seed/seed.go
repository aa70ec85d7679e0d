// Package seed initializes a world from a YAML fixture: the fixed territory
// and faction sets plus an optional starting influence distribution.
package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ashfall-games/territory/internal/territory/app"
	"github.com/ashfall-games/territory/internal/territory/domain"
	"github.com/ashfall-games/territory/internal/territory/storage"
)

// Fixture is the on-disk seed file format.
type Fixture struct {
	Territories []TerritoryFixture `yaml:"territories"`
	Factions    []FactionFixture   `yaml:"factions"`
	Influence   []InfluenceFixture `yaml:"influence"`
}

// TerritoryFixture declares one territory.
type TerritoryFixture struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Category       string `yaml:"category"`
	StrategicValue int    `yaml:"strategic_value"`
}

// FactionFixture declares one faction.
type FactionFixture struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// InfluenceFixture declares a starting influence value for one pair. The
// value is applied as a normal mutation, so it lands in history and is
// clamped like any other change.
type InfluenceFixture struct {
	TerritoryID string  `yaml:"territory_id"`
	FactionID   string  `yaml:"faction_id"`
	Value       float64 `yaml:"value"`
}

// Load reads a fixture from a YAML file.
func Load(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return f, nil
}

// Apply writes the fixture into the store. Territories and factions upsert,
// so re-running a seed is safe; influence entries append fresh mutations
// each time and are meant for empty worlds.
func Apply(ctx context.Context, store storage.Store, svc *app.Service, f Fixture) error {
	for _, t := range f.Territories {
		err := store.PutTerritory(ctx, domain.Territory{
			ID:             t.ID,
			Name:           t.Name,
			Category:       domain.Category(t.Category),
			StrategicValue: t.StrategicValue,
		})
		if err != nil {
			return fmt.Errorf("seed territory %s: %w", t.ID, err)
		}
	}

	for _, fa := range f.Factions {
		if err := store.PutFaction(ctx, domain.Faction{ID: fa.ID, Name: fa.Name}); err != nil {
			return fmt.Errorf("seed faction %s: %w", fa.ID, err)
		}
	}

	for _, in := range f.Influence {
		_, err := svc.ApplyInfluence(ctx, app.ApplyCommand{
			TerritoryID: in.TerritoryID,
			FactionID:   in.FactionID,
			Delta:       in.Value,
			Source:      domain.SourceEvent,
			ActorKind:   domain.ActorSystem,
		})
		if err != nil {
			return fmt.Errorf("seed influence %s/%s: %w", in.TerritoryID, in.FactionID, err)
		}
	}
	return nil
}
