package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ashfall-games/territory/internal/errors"
	"github.com/ashfall-games/territory/internal/territory/app"
	"github.com/ashfall-games/territory/internal/territory/domain"
)

type applyInfluenceRequest struct {
	TerritoryID string `json:"territory_id" binding:"required"`
	FactionID   string `json:"faction_id" binding:"required"`
	// Delta is a pointer so a missing field is distinguishable from zero.
	Delta     *float64 `json:"delta" binding:"required"`
	Source    string   `json:"source" binding:"required"`
	ActorKind string   `json:"actor_kind"`
	ActorID   string   `json:"actor_id"`
}

type controlStateResponse struct {
	Level                string `json:"level"`
	ControllingFactionID string `json:"controlling_faction_id,omitempty"`
	ControlChangedAt     string `json:"control_changed_at,omitempty"`
}

type benefitsResponse struct {
	ShopDiscount         float64 `json:"shop_discount"`
	ReputationMultiplier float64 `json:"reputation_multiplier"`
	HeatReduction        float64 `json:"heat_reduction"`
}

type applyInfluenceResponse struct {
	EventID           string               `json:"event_id"`
	TerritoryID       string               `json:"territory_id"`
	FactionID         string               `json:"faction_id"`
	NewValue          float64              `json:"new_value"`
	RequestedDelta    float64              `json:"requested_delta"`
	EffectiveDelta    float64              `json:"effective_delta"`
	ControllerChanged bool                 `json:"controller_changed"`
	LevelChanged      bool                 `json:"level_changed"`
	Control           controlStateResponse `json:"control"`
}

type territoryResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Category       string               `json:"category"`
	StrategicValue int                  `json:"strategic_value"`
	Influence      map[string]float64   `json:"influence"`
	Control        controlStateResponse `json:"control"`
	Benefits       benefitsResponse     `json:"benefits"`
}

type heldTerritoryResponse struct {
	TerritoryID string `json:"territory_id"`
	Name        string `json:"name"`
	Level       string `json:"level"`
}

type factionOverviewResponse struct {
	FactionID       string                  `json:"faction_id"`
	FactionName     string                  `json:"faction_name"`
	DominatedCount  int                     `json:"dominated_count"`
	ControlledCount int                     `json:"controlled_count"`
	DisputedCount   int                     `json:"disputed_count"`
	Territories     []heldTerritoryResponse `json:"territories"`
	GeneratedAt     string                  `json:"generated_at"`
}

type historyEventResponse struct {
	ID             string  `json:"id"`
	Seq            uint64  `json:"seq"`
	TerritoryID    string  `json:"territory_id"`
	FactionID      string  `json:"faction_id"`
	Delta          float64 `json:"delta"`
	EffectiveDelta float64 `json:"effective_delta"`
	Source         string  `json:"source"`
	ActorKind      string  `json:"actor_kind,omitempty"`
	ActorID        string  `json:"actor_id,omitempty"`
	Value          float64 `json:"value"`
	Timestamp      string  `json:"timestamp"`
}

type historyResponse struct {
	Events        []historyEventResponse `json:"events"`
	NextPageToken string                 `json:"next_page_token,omitempty"`
}

// writeError maps a domain error onto an HTTP status and JSON body.
func writeError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	c.JSON(code.HTTPStatus(), gin.H{
		"code":  string(code),
		"error": err.Error(),
	})
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func applyInfluence(svc *app.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req applyInfluenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":  string(apperrors.CodeInvalidQuery),
				"error": "invalid request body: " + err.Error(),
			})
			return
		}

		source, err := domain.ParseSource(req.Source)
		if err != nil {
			writeError(c, err)
			return
		}

		result, err := svc.ApplyInfluence(c.Request.Context(), app.ApplyCommand{
			TerritoryID: req.TerritoryID,
			FactionID:   req.FactionID,
			Delta:       *req.Delta,
			Source:      source,
			ActorKind:   domain.ActorKind(req.ActorKind),
			ActorID:     req.ActorID,
		})
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, applyInfluenceResponse{
			EventID:           result.Event.ID,
			TerritoryID:       req.TerritoryID,
			FactionID:         req.FactionID,
			NewValue:          result.NewValue,
			RequestedDelta:    result.Event.Delta,
			EffectiveDelta:    result.Event.EffectiveDelta,
			ControllerChanged: result.ControllerChanged,
			LevelChanged:      result.LevelChanged,
			Control:           toControlResponse(result.Current),
		})
	}
}

func listSources(svc *app.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sources := svc.Sources()
		names := make([]string, 0, len(sources))
		for _, s := range sources {
			names = append(names, string(s))
		}
		c.JSON(http.StatusOK, gin.H{"sources": names})
	}
}

func listTerritories(svc *app.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := svc.ListTerritories(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]territoryResponse, 0, len(summaries))
		for _, s := range summaries {
			out = append(out, toTerritoryResponse(s))
		}
		c.JSON(http.StatusOK, gin.H{"territories": out})
	}
}

func getTerritory(svc *app.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.GetTerritory(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toTerritoryResponse(summary))
	}
}

func getAlignmentBenefits(svc *app.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		factionID := c.Query("faction_id")
		if factionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":  string(apperrors.CodeInvalidQuery),
				"error": "faction_id query parameter is required",
			})
			return
		}
		benefits, err := svc.AlignmentBenefits(c.Request.Context(), c.Param("id"), factionID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBenefitsResponse(benefits))
	}
}

func getFactionOverview(svc *app.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := svc.FactionOverview(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		held := make([]heldTerritoryResponse, 0, len(overview.Territories))
		for _, t := range overview.Territories {
			held = append(held, heldTerritoryResponse{
				TerritoryID: t.TerritoryID,
				Name:        t.Name,
				Level:       string(t.Level),
			})
		}
		c.JSON(http.StatusOK, factionOverviewResponse{
			FactionID:       overview.Faction.ID,
			FactionName:     overview.Faction.Name,
			DominatedCount:  overview.DominatedCount,
			ControlledCount: overview.ControlledCount,
			DisputedCount:   overview.DisputedCount,
			Territories:     held,
			GeneratedAt:     overview.GeneratedAt.Format(time.RFC3339),
		})
	}
}

func listHistory(svc *app.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := app.HistoryQuery{
			TerritoryID: c.Query("territory_id"),
			FactionID:   c.Query("faction_id"),
			ActorID:     c.Query("actor_id"),
			Source:      c.Query("source"),
			PageToken:   c.Query("page_token"),
		}

		if raw := c.Query("page_size"); raw != "" {
			size, err := strconv.Atoi(raw)
			if err != nil || size < 0 {
				c.JSON(http.StatusBadRequest, gin.H{
					"code":  string(apperrors.CodeInvalidQuery),
					"error": "page_size must be a non-negative integer",
				})
				return
			}
			query.PageSize = size
		}

		var err error
		if query.Since, err = parseTimeParam(c.Query("since")); err != nil {
			writeError(c, err)
			return
		}
		if query.Until, err = parseTimeParam(c.Query("until")); err != nil {
			writeError(c, err)
			return
		}

		result, err := svc.History(c.Request.Context(), query)
		if err != nil {
			writeError(c, err)
			return
		}

		events := make([]historyEventResponse, 0, len(result.Events))
		for _, evt := range result.Events {
			events = append(events, historyEventResponse{
				ID:             evt.ID,
				Seq:            evt.Seq,
				TerritoryID:    evt.TerritoryID,
				FactionID:      evt.FactionID,
				Delta:          evt.Delta,
				EffectiveDelta: evt.EffectiveDelta,
				Source:         string(evt.Source),
				ActorKind:      string(evt.ActorKind),
				ActorID:        evt.ActorID,
				Value:          evt.Value,
				Timestamp:      evt.Timestamp.Format(time.RFC3339Nano),
			})
		}
		c.JSON(http.StatusOK, historyResponse{
			Events:        events,
			NextPageToken: result.NextPageToken,
		})
	}
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.WithMetadata(apperrors.CodeInvalidQuery,
			"time parameters must be RFC 3339 timestamps", map[string]string{"value": raw})
	}
	return t, nil
}

func toControlResponse(state domain.ControlState) controlStateResponse {
	out := controlStateResponse{
		Level:                string(state.Level),
		ControllingFactionID: state.ControllingFactionID,
	}
	if !state.ControlChangedAt.IsZero() {
		out.ControlChangedAt = state.ControlChangedAt.Format(time.RFC3339Nano)
	}
	return out
}

func toBenefitsResponse(b domain.BenefitSet) benefitsResponse {
	return benefitsResponse{
		ShopDiscount:         b.ShopDiscount,
		ReputationMultiplier: b.ReputationMultiplier,
		HeatReduction:        b.HeatReduction,
	}
}

func toTerritoryResponse(s app.TerritorySummary) territoryResponse {
	return territoryResponse{
		ID:             s.Territory.ID,
		Name:           s.Territory.Name,
		Category:       string(s.Territory.Category),
		StrategicValue: s.Territory.StrategicValue,
		Influence:      s.Influence,
		Control:        toControlResponse(s.Control),
		Benefits:       toBenefitsResponse(s.Benefits),
	}
}
