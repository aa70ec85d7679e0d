package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ashfall-games/territory/internal/errors"
	"github.com/ashfall-games/territory/internal/territory/domain"
	"github.com/ashfall-games/territory/internal/territory/storage"
)

// ApplyInfluence commits one influence mutation as a single transaction:
// the increment-with-clamp happens in a conditional SQL expression, the
// history record is appended, and the territory's cached control
// classification is refreshed. The single-connection pool serializes
// concurrent callers so no update is ever lost.
func (s *Store) ApplyInfluence(ctx context.Context, m storage.Mutation) (storage.MutationResult, error) {
	if err := ctx.Err(); err != nil {
		return storage.MutationResult{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.MutationResult{}, apperrors.New(apperrors.CodeStoreUnavailable, "storage is not configured")
	}

	m, err := normalizeMutation(m)
	if err != nil {
		return storage.MutationResult{}, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.MutationResult{}, apperrors.Wrap(apperrors.CodeStoreUnavailable, "begin mutation", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := applyInfluenceTx(ctx, tx, m)
	if err != nil {
		return storage.MutationResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return storage.MutationResult{}, apperrors.Wrap(apperrors.CodeStoreUnavailable, "commit mutation", err)
	}
	return result, nil
}

// normalizeMutation trims ids, validates the source, and fills in the
// event id and timestamp defaults before a mutation enters a transaction.
func normalizeMutation(m storage.Mutation) (storage.Mutation, error) {
	m.TerritoryID = strings.TrimSpace(m.TerritoryID)
	m.FactionID = strings.TrimSpace(m.FactionID)
	if m.TerritoryID == "" {
		return storage.Mutation{}, apperrors.New(apperrors.CodeUnknownTerritory, "territory id is required")
	}
	if m.FactionID == "" {
		return storage.Mutation{}, apperrors.New(apperrors.CodeUnknownFaction, "faction id is required")
	}
	if !m.Source.Valid() {
		return storage.Mutation{}, domain.ErrInvalidSource
	}
	if m.EventID == "" {
		m.EventID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	m.Timestamp = m.Timestamp.UTC().Truncate(time.Millisecond)
	return m, nil
}

func applyInfluenceTx(ctx context.Context, tx *sql.Tx, m storage.Mutation) (storage.MutationResult, error) {
	previous, err := territoryControlTx(ctx, tx, m.TerritoryID)
	if err != nil {
		return storage.MutationResult{}, err
	}

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM factions WHERE id = ?", m.FactionID).Scan(&exists)
	if err == sql.ErrNoRows {
		return storage.MutationResult{}, apperrors.WithMetadata(apperrors.CodeUnknownFaction, "faction does not exist", map[string]string{
			"faction_id": m.FactionID,
		})
	}
	if err != nil {
		return storage.MutationResult{}, fmt.Errorf("check faction: %w", err)
	}

	// Prior value for the effective-delta calculation; absent pairs read
	// as zero per the ledger contract.
	var oldValue float64
	err = tx.QueryRowContext(ctx,
		"SELECT value FROM faction_influence WHERE territory_id = ? AND faction_id = ?",
		m.TerritoryID, m.FactionID,
	).Scan(&oldValue)
	if err != nil && err != sql.ErrNoRows {
		return storage.MutationResult{}, fmt.Errorf("read current value: %w", err)
	}

	// The clamp lives in this one expression; callers never pre-clamp and
	// magnitude never causes a rejection.
	var newValue float64
	err = tx.QueryRowContext(ctx, `
INSERT INTO faction_influence (territory_id, faction_id, value, updated_at)
VALUES (?1, ?2, MAX(?3, MIN(100.0, ?4)), ?5)
ON CONFLICT(territory_id, faction_id) DO UPDATE SET
	value = MAX(?3, MIN(100.0, value + ?4)),
	updated_at = ?5
RETURNING value
`,
		m.TerritoryID,
		m.FactionID,
		m.Floor,
		m.Delta,
		toMillis(m.Timestamp),
	).Scan(&newValue)
	if err != nil {
		return storage.MutationResult{}, fmt.Errorf("apply influence delta: %w", err)
	}

	snapshot, err := influenceSnapshotTx(ctx, tx, m.TerritoryID)
	if err != nil {
		return storage.MutationResult{}, err
	}

	current := domain.ResolveControl(snapshot)
	current.ControlChangedAt = previous.ControlChangedAt
	controllerChanged := current.ControllingFactionID != previous.ControllingFactionID
	levelChanged := current.Level != previous.Level
	if controllerChanged {
		current.ControlChangedAt = m.Timestamp
	}
	if controllerChanged || levelChanged {
		if _, err := tx.ExecContext(ctx, `
UPDATE territories
SET control_level = ?, controlling_faction_id = ?, control_changed_at = ?
WHERE id = ?
`,
			string(current.Level),
			current.ControllingFactionID,
			toNullMillis(current.ControlChangedAt),
			m.TerritoryID,
		); err != nil {
			return storage.MutationResult{}, fmt.Errorf("update control cache: %w", err)
		}
	}

	evt := domain.InfluenceEvent{
		ID:             m.EventID,
		TerritoryID:    m.TerritoryID,
		FactionID:      m.FactionID,
		Delta:          m.Delta,
		EffectiveDelta: newValue - oldValue,
		Source:         m.Source,
		ActorKind:      m.ActorKind,
		ActorID:        m.ActorID,
		Value:          newValue,
		Timestamp:      m.Timestamp,
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO influence_history (id, territory_id, faction_id, delta, effective_delta, source, actor_kind, actor_id, value, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		evt.ID,
		evt.TerritoryID,
		evt.FactionID,
		evt.Delta,
		evt.EffectiveDelta,
		string(evt.Source),
		string(evt.ActorKind),
		evt.ActorID,
		evt.Value,
		toMillis(evt.Timestamp),
	)
	if err != nil {
		return storage.MutationResult{}, fmt.Errorf("append history: %w", err)
	}
	if seq, err := res.LastInsertId(); err == nil {
		evt.Seq = uint64(seq)
	}

	return storage.MutationResult{
		Event:             evt,
		NewValue:          newValue,
		Previous:          previous,
		Current:           current,
		ControllerChanged: controllerChanged,
		LevelChanged:      levelChanged,
	}, nil
}

// InfluenceSnapshot returns the per-faction influence values for a territory.
func (s *Store) InfluenceSnapshot(ctx context.Context, territoryID string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, apperrors.New(apperrors.CodeStoreUnavailable, "storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT faction_id, value FROM faction_influence WHERE territory_id = ?",
		territoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("read influence snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := make(map[string]float64)
	for rows.Next() {
		var factionID string
		var value float64
		if err := rows.Scan(&factionID, &value); err != nil {
			return nil, fmt.Errorf("scan influence row: %w", err)
		}
		snapshot[factionID] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read influence rows: %w", err)
	}
	return snapshot, nil
}

func territoryControlTx(ctx context.Context, tx *sql.Tx, territoryID string) (domain.ControlState, error) {
	var level string
	var controller string
	var changedAt sql.NullInt64
	err := tx.QueryRowContext(ctx,
		"SELECT control_level, controlling_faction_id, control_changed_at FROM territories WHERE id = ?",
		territoryID,
	).Scan(&level, &controller, &changedAt)
	if err == sql.ErrNoRows {
		return domain.ControlState{}, apperrors.WithMetadata(apperrors.CodeUnknownTerritory, "territory does not exist", map[string]string{
			"territory_id": territoryID,
		})
	}
	if err != nil {
		return domain.ControlState{}, fmt.Errorf("check territory: %w", err)
	}
	return domain.ControlState{
		Level:                domain.Level(level),
		ControllingFactionID: controller,
		ControlChangedAt:     fromNullMillis(changedAt),
	}, nil
}

func influenceSnapshotTx(ctx context.Context, tx *sql.Tx, territoryID string) (map[string]float64, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT faction_id, value FROM faction_influence WHERE territory_id = ?",
		territoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("read influence snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := make(map[string]float64)
	for rows.Next() {
		var factionID string
		var value float64
		if err := rows.Scan(&factionID, &value); err != nil {
			return nil, fmt.Errorf("scan influence row: %w", err)
		}
		snapshot[factionID] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read influence rows: %w", err)
	}
	return snapshot, nil
}
