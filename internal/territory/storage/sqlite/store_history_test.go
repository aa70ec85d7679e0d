package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ashfall-games/territory/internal/territory/domain"
	"github.com/ashfall-games/territory/internal/territory/storage"
)

func seedHistory(t *testing.T, store *Store) {
	t.Helper()
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	mutations := []storage.Mutation{
		{TerritoryID: "red-gulch", FactionID: "iron-circle", Delta: 15, Source: domain.SourceQuest, ActorKind: domain.ActorCharacter, ActorID: "char-7", Timestamp: base},
		{TerritoryID: "red-gulch", FactionID: "dust-runners", Delta: 10, Source: domain.SourceCrime, ActorKind: domain.ActorGang, ActorID: "gang-3", Timestamp: base.Add(time.Hour)},
		{TerritoryID: "broken-mesa", FactionID: "iron-circle", Delta: 5, Source: domain.SourceDonation, ActorKind: domain.ActorCharacter, ActorID: "char-7", Timestamp: base.Add(2 * time.Hour)},
		{TerritoryID: "red-gulch", FactionID: "iron-circle", Delta: -2, Source: domain.SourceDecay, ActorKind: domain.ActorSystem, Timestamp: base.Add(3 * time.Hour)},
	}
	for _, m := range mutations {
		m.Floor = 0
		if _, err := store.ApplyInfluence(context.Background(), m); err != nil {
			t.Fatalf("apply %s/%s: %v", m.TerritoryID, m.FactionID, err)
		}
	}
}

func TestListHistoryChronological(t *testing.T) {
	store := openTestStore(t)
	seedWorld(t, store)
	seedHistory(t, store)

	page, err := store.ListHistory(context.Background(), storage.HistoryFilter{})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(page.Events) != 4 {
		t.Fatalf("expected 4 records, got %d", len(page.Events))
	}
	for i := 1; i < len(page.Events); i++ {
		if page.Events[i].Seq <= page.Events[i-1].Seq {
			t.Fatalf("expected ascending seq, got %d after %d", page.Events[i].Seq, page.Events[i-1].Seq)
		}
	}
}

func TestListHistoryFilters(t *testing.T) {
	store := openTestStore(t)
	seedWorld(t, store)
	seedHistory(t, store)
	ctx := context.Background()

	byTerritory, err := store.ListHistory(ctx, storage.HistoryFilter{TerritoryID: "red-gulch"})
	if err != nil {
		t.Fatalf("filter by territory: %v", err)
	}
	if len(byTerritory.Events) != 3 {
		t.Fatalf("expected 3 red-gulch records, got %d", len(byTerritory.Events))
	}

	byFaction, err := store.ListHistory(ctx, storage.HistoryFilter{FactionID: "dust-runners"})
	if err != nil {
		t.Fatalf("filter by faction: %v", err)
	}
	if len(byFaction.Events) != 1 {
		t.Fatalf("expected 1 dust-runners record, got %d", len(byFaction.Events))
	}

	byActor, err := store.ListHistory(ctx, storage.HistoryFilter{ActorID: "char-7"})
	if err != nil {
		t.Fatalf("filter by actor: %v", err)
	}
	if len(byActor.Events) != 2 {
		t.Fatalf("expected 2 char-7 records, got %d", len(byActor.Events))
	}

	bySource, err := store.ListHistory(ctx, storage.HistoryFilter{Source: domain.SourceDecay})
	if err != nil {
		t.Fatalf("filter by source: %v", err)
	}
	if len(bySource.Events) != 1 {
		t.Fatalf("expected 1 decay record, got %d", len(bySource.Events))
	}
	if bySource.Events[0].ActorKind != domain.ActorSystem {
		t.Fatalf("expected system actor on decay record, got %s", bySource.Events[0].ActorKind)
	}

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	byWindow, err := store.ListHistory(ctx, storage.HistoryFilter{
		Since: base.Add(30 * time.Minute),
		Until: base.Add(150 * time.Minute),
	})
	if err != nil {
		t.Fatalf("filter by window: %v", err)
	}
	if len(byWindow.Events) != 2 {
		t.Fatalf("expected 2 records in window, got %d", len(byWindow.Events))
	}
}

func TestListHistoryPagination(t *testing.T) {
	store := openTestStore(t)
	seedWorld(t, store)
	seedHistory(t, store)
	ctx := context.Background()

	first, err := store.ListHistory(ctx, storage.HistoryFilter{Limit: 3})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Events) != 3 {
		t.Fatalf("expected 3 records on first page, got %d", len(first.Events))
	}
	if !first.HasMore {
		t.Fatal("expected more records past first page")
	}

	second, err := store.ListHistory(ctx, storage.HistoryFilter{Limit: 3, AfterSeq: first.LastSeq})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Events) != 1 {
		t.Fatalf("expected 1 record on second page, got %d", len(second.Events))
	}
	if second.HasMore {
		t.Fatal("expected no more records past second page")
	}
}

func TestListHistoryRejectsInvalidSource(t *testing.T) {
	store := openTestStore(t)
	seedWorld(t, store)

	_, err := store.ListHistory(context.Background(), storage.HistoryFilter{Source: "bribery"})
	if !errors.Is(err, domain.ErrInvalidSource) {
		t.Fatalf("expected invalid source error, got %v", err)
	}
}
