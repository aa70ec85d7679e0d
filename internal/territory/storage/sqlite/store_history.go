package sqlite

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/ashfall-games/territory/internal/errors"
	"github.com/ashfall-games/territory/internal/territory/domain"
	"github.com/ashfall-games/territory/internal/territory/storage"
)

const (
	defaultHistoryPageSize = 50
	maxHistoryPageSize     = 500
)

// ListHistory returns history records matching the filter in chronological
// (sequence) order. The page size is bounded; HasMore signals that another
// page exists past LastSeq.
func (s *Store) ListHistory(ctx context.Context, filter storage.HistoryFilter) (storage.HistoryPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.HistoryPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.HistoryPage{}, apperrors.New(apperrors.CodeStoreUnavailable, "storage is not configured")
	}
	if filter.Source != "" && !filter.Source.Valid() {
		return storage.HistoryPage{}, domain.ErrInvalidSource
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	if limit > maxHistoryPageSize {
		limit = maxHistoryPageSize
	}

	var conditions []string
	var args []any
	conditions = append(conditions, "seq > ?")
	args = append(args, filter.AfterSeq)
	if filter.TerritoryID != "" {
		conditions = append(conditions, "territory_id = ?")
		args = append(args, filter.TerritoryID)
	}
	if filter.FactionID != "" {
		conditions = append(conditions, "faction_id = ?")
		args = append(args, filter.FactionID)
	}
	if filter.ActorID != "" {
		conditions = append(conditions, "actor_id = ?")
		args = append(args, filter.ActorID)
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, string(filter.Source))
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, toMillis(filter.Since))
	}
	if !filter.Until.IsZero() {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, toMillis(filter.Until))
	}

	// Fetch one extra row to detect whether another page exists.
	args = append(args, limit+1)
	query := fmt.Sprintf(`
SELECT seq, id, territory_id, faction_id, delta, effective_delta, source, actor_kind, actor_id, value, timestamp
FROM influence_history
WHERE %s
ORDER BY seq
LIMIT ?
`, strings.Join(conditions, " AND "))

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.HistoryPage{}, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var events []domain.InfluenceEvent
	for rows.Next() {
		var evt domain.InfluenceEvent
		var source, actorKind string
		var ts int64
		if err := rows.Scan(
			&evt.Seq,
			&evt.ID,
			&evt.TerritoryID,
			&evt.FactionID,
			&evt.Delta,
			&evt.EffectiveDelta,
			&source,
			&actorKind,
			&evt.ActorID,
			&evt.Value,
			&ts,
		); err != nil {
			return storage.HistoryPage{}, fmt.Errorf("scan history record: %w", err)
		}
		evt.Source = domain.Source(source)
		evt.ActorKind = domain.ActorKind(actorKind)
		evt.Timestamp = fromMillis(ts)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return storage.HistoryPage{}, fmt.Errorf("read history records: %w", err)
	}

	page := storage.HistoryPage{}
	if len(events) > limit {
		page.HasMore = true
		events = events[:limit]
	}
	page.Events = events
	if len(events) > 0 {
		page.LastSeq = events[len(events)-1].Seq
	}
	return page, nil
}
