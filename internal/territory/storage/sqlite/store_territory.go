package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ashfall-games/territory/internal/errors"
	"github.com/ashfall-games/territory/internal/territory/domain"
	"github.com/ashfall-games/territory/internal/territory/storage"
)

// PutTerritory persists a territory record. Control cache columns keep
// their defaults on first insert and survive re-puts of identity fields.
func (s *Store) PutTerritory(ctx context.Context, t domain.Territory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return apperrors.New(apperrors.CodeStoreUnavailable, "storage is not configured")
	}
	if err := t.Validate(); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO territories (id, name, category, strategic_value, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	category = excluded.category,
	strategic_value = excluded.strategic_value
`,
		t.ID,
		t.Name,
		string(t.Category),
		t.StrategicValue,
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("put territory: %w", err)
	}
	return nil
}

// GetTerritory loads a territory with its cached control classification.
func (s *Store) GetTerritory(ctx context.Context, id string) (storage.TerritoryState, error) {
	if err := ctx.Err(); err != nil {
		return storage.TerritoryState{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.TerritoryState{}, apperrors.New(apperrors.CodeStoreUnavailable, "storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return storage.TerritoryState{}, apperrors.New(apperrors.CodeUnknownTerritory, "territory id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, category, strategic_value, control_level, controlling_faction_id, control_changed_at
FROM territories
WHERE id = ?
`, id)

	state, err := scanTerritoryState(row)
	if err == sql.ErrNoRows {
		return storage.TerritoryState{}, apperrors.WithMetadata(apperrors.CodeUnknownTerritory, "territory does not exist", map[string]string{
			"territory_id": id,
		})
	}
	if err != nil {
		return storage.TerritoryState{}, fmt.Errorf("get territory: %w", err)
	}
	return state, nil
}

// ListTerritories returns every territory with its cached control state,
// ordered by id for stable output.
func (s *Store) ListTerritories(ctx context.Context) ([]storage.TerritoryState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, apperrors.New(apperrors.CodeStoreUnavailable, "storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, category, strategic_value, control_level, controlling_faction_id, control_changed_at
FROM territories
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("list territories: %w", err)
	}
	defer rows.Close()

	var states []storage.TerritoryState
	for rows.Next() {
		state, err := scanTerritoryState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan territory: %w", err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read territories: %w", err)
	}
	return states, nil
}

// PutFaction persists a faction record.
func (s *Store) PutFaction(ctx context.Context, f domain.Faction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return apperrors.New(apperrors.CodeStoreUnavailable, "storage is not configured")
	}
	if err := f.Validate(); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO factions (id, name, created_at)
VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name
`,
		f.ID,
		f.Name,
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("put faction: %w", err)
	}
	return nil
}

// GetFaction loads one faction.
func (s *Store) GetFaction(ctx context.Context, id string) (domain.Faction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Faction{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Faction{}, apperrors.New(apperrors.CodeStoreUnavailable, "storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return domain.Faction{}, apperrors.New(apperrors.CodeUnknownFaction, "faction id is required")
	}

	var f domain.Faction
	err := s.sqlDB.QueryRowContext(ctx, "SELECT id, name FROM factions WHERE id = ?", id).Scan(&f.ID, &f.Name)
	if err == sql.ErrNoRows {
		return domain.Faction{}, apperrors.WithMetadata(apperrors.CodeUnknownFaction, "faction does not exist", map[string]string{
			"faction_id": id,
		})
	}
	if err != nil {
		return domain.Faction{}, fmt.Errorf("get faction: %w", err)
	}
	return f, nil
}

// ListFactions returns every defined faction ordered by id.
func (s *Store) ListFactions(ctx context.Context) ([]domain.Faction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, apperrors.New(apperrors.CodeStoreUnavailable, "storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, "SELECT id, name FROM factions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list factions: %w", err)
	}
	defer rows.Close()

	var factions []domain.Faction
	for rows.Next() {
		var f domain.Faction
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("scan faction: %w", err)
		}
		factions = append(factions, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read factions: %w", err)
	}
	return factions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTerritoryState(row rowScanner) (storage.TerritoryState, error) {
	var state storage.TerritoryState
	var category string
	var level string
	var changedAt sql.NullInt64
	if err := row.Scan(
		&state.Territory.ID,
		&state.Territory.Name,
		&category,
		&state.Territory.StrategicValue,
		&level,
		&state.Control.ControllingFactionID,
		&changedAt,
	); err != nil {
		return storage.TerritoryState{}, err
	}
	state.Territory.Category = domain.Category(category)
	state.Control.Level = domain.Level(level)
	state.Control.ControlChangedAt = fromNullMillis(changedAt)
	return state, nil
}
