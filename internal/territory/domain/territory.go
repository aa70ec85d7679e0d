package domain

import (
	"strings"

	apperrors "github.com/ashfall-games/territory/internal/errors"
)

// Category describes the kind of settlement a territory is.
type Category string

const (
	CategorySettlement Category = "settlement"
	CategoryWilderness Category = "wilderness"
)

// Valid reports whether the category is a known value.
func (c Category) Valid() bool {
	return c == CategorySettlement || c == CategoryWilderness
}

// Territory is a fixed region of the world factions compete over.
// Territories are created once at world initialization and never deleted.
type Territory struct {
	ID   string
	Name string
	// Category distinguishes settlements from wilderness regions.
	Category Category
	// StrategicValue is a static 1-10 scalar used for display and
	// weighting by other subsystems. The influence core never reads it.
	StrategicValue int
}

// Validate checks territory identity fields.
func (t Territory) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return apperrors.New(apperrors.CodeUnknownTerritory, "territory id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return apperrors.New(apperrors.CodeInvalidQuery, "territory name is required")
	}
	if !t.Category.Valid() {
		return apperrors.WithMetadata(apperrors.CodeInvalidQuery, "territory category is invalid", map[string]string{
			"category": string(t.Category),
		})
	}
	if t.StrategicValue < 1 || t.StrategicValue > 10 {
		return apperrors.New(apperrors.CodeInvalidQuery, "territory strategic value must be between 1 and 10")
	}
	return nil
}

// Faction is one of the fixed set of groups competing for territory control.
type Faction struct {
	ID   string
	Name string
}

// Validate checks faction identity fields.
func (f Faction) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return apperrors.New(apperrors.CodeUnknownFaction, "faction id is required")
	}
	if strings.TrimSpace(f.Name) == "" {
		return apperrors.New(apperrors.CodeInvalidQuery, "faction name is required")
	}
	return nil
}
