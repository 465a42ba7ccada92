package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/pulsefeed/pkg/eventstore"
	"github.com/codeready-toolchain/pulsefeed/pkg/feed"
	"github.com/codeready-toolchain/pulsefeed/pkg/interactions"
	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/codeready-toolchain/pulsefeed/pkg/ranker"
)

// handleStatus implements GET /status.
func (s *Server) handleStatus(c *gin.Context) {
	ctx := c.Request.Context()
	dbHealth, dbErr := s.db.Health(ctx)

	services := gin.H{"database": "unreachable"}
	if dbErr == nil && dbHealth.Reachable {
		services["database"] = "ok"
	}
	if s.scheduler != nil {
		schedHealth := s.scheduler.Health()
		services["ingest"] = gin.H{
			"activeSources": schedHealth.ActiveSources,
			"queueDepth":    schedHealth.QueueDepth,
			"lastRunAt":     schedHealth.LastRunAt,
			"lastRunError":  schedHealth.LastRunError,
			"runsCompleted": schedHealth.RunsCompleted,
		}
	}

	status := "healthy"
	if dbErr != nil || !dbHealth.Reachable {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"services":  services,
		"timestamp": time.Now().UTC(),
	})
}

// handleGetFeed implements GET /feed.
func (s *Server) handleGetFeed(c *gin.Context) {
	days := 1
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 31 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "days must be between 1 and 31"})
			return
		}
		days = n
	}
	pageSize := 20
	if raw := c.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "pageSize must be between 1 and 50"})
			return
		}
		pageSize = n
	}

	start := time.Now().UTC()
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "start must be RFC3339"})
			return
		}
		start = parsed.UTC()
	}

	var tags []string
	if raw := c.Query("tags"); raw != "" {
		tags = strings.Split(raw, ",")
		if len(tags) > 10 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "tags accepts at most 10 values"})
			return
		}
	}

	result, err := s.feed.Query(c.Request.Context(), feed.Query{
		UserID:    c.Query("userId"),
		Start:     start,
		End:       start.AddDate(0, 0, days),
		Tags:      tags,
		PageSize:  pageSize,
		PageToken: c.Query("pageToken"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":         result.Count,
		"events":        scoredItems(result.Events),
		"nextPageToken": result.NextPageToken,
		"isCaughtUp":    result.IsCaughtUp,
		"window":        gin.H{"start": result.WindowStart, "end": result.WindowEnd},
		"personalized":  result.Personalized,
	})
}

// scoredItems projects ranker.Scored into the JSON wire shape, inlining each
// content item's capability-set fields alongside its blended score.
func scoredItems(scored []ranker.Scored) []gin.H {
	out := make([]gin.H, 0, len(scored))
	for _, sc := range scored {
		out = append(out, gin.H{
			"id":          sc.Item.ItemID(),
			"title":       sc.Item.ItemTitle(),
			"contentType": sc.Item.ItemContentType(),
			"tags":        sc.Item.ItemTags(),
			"createdAt":   sc.Item.ItemCreatedAt(),
			"stats":       sc.Item.ItemStats(),
			"metadata":    sc.Item.ItemMetadata(),
			"score":       sc.Score,
		})
	}
	return out
}

// handleRecordInteraction implements POST /interactions.
func (s *Server) handleRecordInteraction(c *gin.Context) {
	var in models.UserInteraction
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	ids, err := s.interactions.RecordInteractions(c.Request.Context(), []models.UserInteraction{in})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "interactionId": ids[0]})
}

// handleRecordInteractionBatch implements POST /interactions/batch.
func (s *Server) handleRecordInteractionBatch(c *gin.Context) {
	var req struct {
		Interactions []models.UserInteraction `json:"interactions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	ids, err := s.interactions.RecordInteractions(c.Request.Context(), req.Interactions)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "count": len(ids), "interactionIds": ids})
}

// handleGetPinnedEvents implements GET /users/{userId}/pinned-events.
func (s *Server) handleGetPinnedEvents(c *gin.Context) {
	if !requireMatchingUser(c) {
		return
	}
	userID := c.Param("userId")

	pageSize := 10
	if raw := c.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 30 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "pageSize must be between 1 and 30"})
			return
		}
		pageSize = n
	}

	query := interactions.PinnedEventsQuery{Mode: c.Query("mode"), PageSize: pageSize, PageToken: c.Query("pageToken")}
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "start must be RFC3339"})
			return
		}
		query.Start = &parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "end must be RFC3339"})
			return
		}
		query.End = &parsed
	}

	window, err := interactions.ResolveWindow(query, time.Now().UTC(), s.displayTZ)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}
	offset, err := ranker.DecodePageToken(query.PageToken)
	if err != nil {
		writeError(c, err)
		return
	}

	events, nextToken, err := s.interactions.GetPinnedEvents(c.Request.Context(), userID, window, offset, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":        events,
		"nextPageToken": nextToken,
		"window":        gin.H{"start": window.Start, "end": window.End},
		"updatedAt":     time.Now().UTC(),
	})
}

// handleSetPinnedEvent implements POST /users/{userId}/pinned-events.
func (s *Server) handleSetPinnedEvent(c *gin.Context) {
	if !requireMatchingUser(c) {
		return
	}
	userID := c.Param("userId")

	var req struct {
		EventID string `json:"eventId" binding:"required"`
		Pinned  *bool  `json:"pinned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}
	pinned := true
	if req.Pinned != nil {
		pinned = *req.Pinned
	}

	if err := s.interactions.TogglePin(c.Request.Context(), userID, req.EventID, pinned); err != nil {
		writeError(c, err)
		return
	}

	events := eventstore.New(s.db)
	event, err := events.GetEvent(c.Request.Context(), req.EventID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pinned": pinned, "event": event})
}

// handleGetTagProposals implements GET /tag-proposals.
func (s *Server) handleGetTagProposals(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	proposals, err := s.proposals.GetTopProposals(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": proposals, "count": len(proposals)})
}

// handleAdminIngestAll implements POST /admin/ingest.
func (s *Server) handleAdminIngestAll(c *gin.Context) {
	if s.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable", "message": "scheduler not wired"})
		return
	}
	err := s.scheduler.RunNow(c.Request.Context())
	result := gin.H{"source": "all"}
	if err != nil {
		result["error"] = err.Error()
	}
	c.JSON(http.StatusOK, gin.H{"results": []gin.H{result}})
}

// handleAdminIngestOne implements POST /admin/ingest/{sourceId}.
func (s *Server) handleAdminIngestOne(c *gin.Context) {
	if s.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable", "message": "scheduler not wired"})
		return
	}
	sourceID := c.Param("sourceId")
	if err := s.scheduler.RunSource(c.Request.Context(), sourceID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": []gin.H{{"source": sourceID}}})
}
