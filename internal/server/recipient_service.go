// file: internal/server/recipient_service.go
// version: 1.2.0
// guid: 6d7e8f9a-0b1c-2d3e-4f5a-8a9b0c1d2e3f

package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/giftwell/giftwell/internal/database"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// recipientRequest is the create/update payload.
type recipientRequest struct {
	OwnerID      string `json:"owner_id"`
	Name         string `json:"name"`
	Alias        string `json:"alias"`
	Relationship string `json:"relationship"`
	Birthday     string `json:"birthday"`
	Notes        string `json:"notes"`
}

func (r *recipientRequest) toRecord() *database.Recipient {
	recipient := &database.Recipient{
		OwnerID: r.OwnerID,
		Name:    r.Name,
	}
	if r.Alias != "" {
		recipient.Alias = stringPtr(r.Alias)
	}
	if r.Relationship != "" {
		recipient.Relationship = stringPtr(r.Relationship)
	}
	if r.Birthday != "" {
		recipient.Birthday = stringPtr(r.Birthday)
	}
	if r.Notes != "" {
		recipient.Notes = stringPtr(r.Notes)
	}
	return recipient
}

func (s *Server) listRecipients(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not initialized"})
		return
	}

	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}

	recipients, err := s.store.GetRecipientsByOwner(ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Optional loose filter for browse/search boxes. This is
	// subsequence matching ("sj" finds "Sarah Johnson"), distinct from
	// the resolution pipeline behind /match and /suggest.
	if q := c.Query("q"); q != "" {
		names := make([]string, len(recipients))
		for i, r := range recipients {
			names[i] = r.Name
		}
		ranks := fuzzy.RankFindNormalizedFold(q, names)
		filtered := make([]database.Recipient, 0, len(ranks))
		for _, rank := range ranks {
			filtered = append(filtered, recipients[rank.OriginalIndex])
		}
		recipients = filtered
	}

	// Ensure we never return null - always return empty array
	if recipients == nil {
		recipients = []database.Recipient{}
	}

	c.JSON(http.StatusOK, gin.H{"items": recipients, "count": len(recipients)})
}

func (s *Server) createRecipient(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not initialized"})
		return
	}

	var req recipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.OwnerID == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id and name are required"})
		return
	}

	created, err := s.store.CreateRecipient(req.toRecord())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) getRecipient(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not initialized"})
		return
	}

	recipient, err := s.store.GetRecipientByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if recipient == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
		return
	}

	c.JSON(http.StatusOK, recipient)
}

func (s *Server) updateRecipient(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not initialized"})
		return
	}

	var req recipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	updated, err := s.store.UpdateRecipient(c.Param("id"), req.toRecord())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteRecipient(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not initialized"})
		return
	}

	id := c.Param("id")
	if err := s.store.DeleteRecipient(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Deleted: true, ID: id})
}

func (s *Server) listRecipientGifts(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not initialized"})
		return
	}

	id := c.Param("id")
	recipient, err := s.store.GetRecipientByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if recipient == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
		return
	}

	gifts, err := s.store.GetGiftsByRecipient(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if gifts == nil {
		gifts = []database.Gift{}
	}

	c.JSON(http.StatusOK, gin.H{"items": gifts, "count": len(gifts)})
}

// parseLimitOffset reads limit/offset query params with sane bounds.
func parseLimitOffset(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
