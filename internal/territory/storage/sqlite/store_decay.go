package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ashfall-games/territory/internal/errors"
	"github.com/ashfall-games/territory/internal/territory/storage"
)

// DecayTerritory applies one territory's daily decay as a single
// transaction. The per-(territory, date) marker row is claimed inside the
// same transaction as the mutations, so a mid-territory failure rolls back
// the marker along with every applied delta and the next run inside the day
// window starts over cleanly. A false acquired return means the marker
// already exists and the territory's decay for the day is done.
func (s *Store) DecayTerritory(ctx context.Context, territoryID, dateKey string, muts []storage.Mutation) ([]storage.MutationResult, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, false, apperrors.New(apperrors.CodeStoreUnavailable, "storage is not configured")
	}
	if strings.TrimSpace(territoryID) == "" || strings.TrimSpace(dateKey) == "" {
		return nil, false, fmt.Errorf("territory id and date key are required")
	}

	normalized := make([]storage.Mutation, 0, len(muts))
	for _, m := range muts {
		n, err := normalizeMutation(m)
		if err != nil {
			return nil, false, err
		}
		if n.TerritoryID != strings.TrimSpace(territoryID) {
			return nil, false, fmt.Errorf("mutation territory %q does not match decay territory %q", n.TerritoryID, territoryID)
		}
		normalized = append(normalized, n)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeStoreUnavailable, "begin decay", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := toMillis(time.Now())
	res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO decay_runs (territory_id, run_date, started_at, completed_at)
VALUES (?, ?, ?, ?)
`,
		territoryID,
		dateKey,
		now,
		now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("claim decay marker: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("claim decay marker: %w", err)
	}
	if affected == 0 {
		return nil, false, nil
	}

	results := make([]storage.MutationResult, 0, len(normalized))
	for _, m := range normalized {
		result, err := applyInfluenceTx(ctx, tx, m)
		if err != nil {
			return nil, false, err
		}
		results = append(results, result)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeStoreUnavailable, "commit decay", err)
	}
	return results, true, nil
}
