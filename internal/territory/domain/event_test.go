package domain

import (
	"errors"
	"testing"

	apperrors "github.com/ashfall-games/territory/internal/errors"
)

func TestParseSource(t *testing.T) {
	for _, source := range Sources() {
		parsed, err := ParseSource(string(source))
		if err != nil {
			t.Fatalf("parse %s: %v", source, err)
		}
		if parsed != source {
			t.Fatalf("expected %s, got %s", source, parsed)
		}
	}
}

func TestParseSourceRejectsUnknown(t *testing.T) {
	_, err := ParseSource("bribery")
	if !errors.Is(err, ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
	if !apperrors.IsCode(err, apperrors.CodeInvalidSource) {
		t.Fatalf("expected INVALID_SOURCE code, got %s", apperrors.GetCode(err))
	}
}

func TestInfluenceEventValidate(t *testing.T) {
	valid := InfluenceEvent{
		TerritoryID: "red-gulch",
		FactionID:   "iron-circle",
		Delta:       15,
		Source:      SourceQuest,
		ActorKind:   ActorCharacter,
		ActorID:     "char-7",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	tests := []struct {
		name     string
		mutate   func(*InfluenceEvent)
		wantCode apperrors.Code
	}{
		{name: "missing territory", mutate: func(e *InfluenceEvent) { e.TerritoryID = " " }, wantCode: apperrors.CodeUnknownTerritory},
		{name: "missing faction", mutate: func(e *InfluenceEvent) { e.FactionID = "" }, wantCode: apperrors.CodeUnknownFaction},
		{name: "bad source", mutate: func(e *InfluenceEvent) { e.Source = "bribery" }, wantCode: apperrors.CodeInvalidSource},
		{name: "bad actor kind", mutate: func(e *InfluenceEvent) { e.ActorKind = "npc" }, wantCode: apperrors.CodeInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := valid
			tt.mutate(&evt)
			err := evt.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.IsCode(err, tt.wantCode) {
				t.Fatalf("expected code %s, got %s", tt.wantCode, apperrors.GetCode(err))
			}
		})
	}
}
