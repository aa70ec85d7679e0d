package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ashfall-games/territory/internal/territory/app"
	"github.com/ashfall-games/territory/internal/territory/domain"
	"github.com/ashfall-games/territory/internal/territory/storage/sqlite"
	"github.com/ashfall-games/territory/internal/territory/tuning"
)

const fixtureYAML = `
territories:
  - id: red-gulch
    name: Red Gulch
    category: settlement
    strategic_value: 7
factions:
  - id: iron-circle
    name: Iron Circle
  - id: dust-runners
    name: Dust Runners
influence:
  - territory_id: red-gulch
    faction_id: iron-circle
    value: 40
`

func TestLoadAndApplyFixture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	if err := os.WriteFile(path, []byte(fixtureYAML), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fixture, err := Load(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	if len(fixture.Territories) != 1 || len(fixture.Factions) != 2 {
		t.Fatalf("unexpected fixture shape: %+v", fixture)
	}

	store, err := sqlite.Open(filepath.Join(dir, "territory.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	svc := app.NewService(store, tuning.Default())
	ctx := context.Background()
	if err := Apply(ctx, store, svc, fixture); err != nil {
		t.Fatalf("apply fixture: %v", err)
	}

	state, err := store.GetTerritory(ctx, "red-gulch")
	if err != nil {
		t.Fatalf("get territory: %v", err)
	}
	if state.Control.Level != domain.LevelDisputed {
		t.Fatalf("expected disputed at 40, got %s", state.Control.Level)
	}
	if state.Control.ControllingFactionID != "iron-circle" {
		t.Fatalf("expected iron-circle controller, got %q", state.Control.ControllingFactionID)
	}

	// Re-applying territories and factions is an upsert, not an error.
	fixture.Influence = nil
	if err := Apply(ctx, store, svc, fixture); err != nil {
		t.Fatalf("re-apply fixture: %v", err)
	}
}

func TestLoadRejectsMalformedFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("territories: {not: a list}"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
