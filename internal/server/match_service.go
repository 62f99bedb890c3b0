// file: internal/server/match_service.go
// version: 1.2.0
// guid: 8e9f0a1b-2c3d-4e5f-6a7b-0a1b2c3d4e5f

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giftwell/giftwell/internal/metrics"
	"github.com/giftwell/giftwell/internal/resolver"
)

// matchRecipient resolves a free-form name reference against one owner's
// recipients. GET /api/v1/match?term=sarha&owner_id=...
func (s *Server) matchRecipient(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not initialized"})
		return
	}

	term := c.Query("term")
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}

	start := time.Now()
	result, err := resolver.Match(term, ownerID, s.store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.ObserveMatchDuration(result.Method, time.Since(start))
	metrics.IncMatchAttempt(result.Method, result.Confidence)

	c.JSON(http.StatusOK, result)
}

// suggestRecipients returns ranked typeahead candidates.
// GET /api/v1/suggest?q=sa&owner_id=...&limit=5
func (s *Server) suggestRecipients(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not initialized"})
		return
	}

	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	suggestions, err := resolver.Suggest(c.Query("q"), ownerID, s.store, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.IncSuggestQuery()

	// Ensure we never return null - always return empty array
	if suggestions == nil {
		suggestions = []resolver.Suggestion{}
	}

	c.JSON(http.StatusOK, gin.H{"items": suggestions, "count": len(suggestions)})
}
