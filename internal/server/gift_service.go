// file: internal/server/gift_service.go
// version: 1.2.0
// guid: 0b1c2d3e-4f5a-6b7c-8d9e-2b3c4d5e6f7a

package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giftwell/giftwell/internal/database"
	"github.com/giftwell/giftwell/internal/metrics"
	"github.com/giftwell/giftwell/internal/resolver"
)

// giftRequest is the create payload. Either recipient_id or recipient must
// be set; a recipient string goes through the resolution pipeline.
type giftRequest struct {
	OwnerID     string `json:"owner_id"`
	RecipientID string `json:"recipient_id"`
	Recipient   string `json:"recipient"`
	Description string `json:"description"`
	Occasion    string `json:"occasion"`
	AmountCents int64  `json:"amount_cents"`
	GiftedAt    string `json:"gifted_at"` // RFC 3339
}

func (s *Server) createGift(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not initialized"})
		return
	}

	var req giftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.OwnerID == "" || req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id and description are required"})
		return
	}

	recipientID := req.RecipientID
	if recipientID == "" {
		if req.Recipient == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipient_id or recipient is required"})
			return
		}

		start := time.Now()
		result, err := resolver.Match(req.Recipient, req.OwnerID, s.store)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		metrics.ObserveMatchDuration(result.Method, time.Since(start))
		metrics.IncMatchAttempt(result.Method, result.Confidence)

		if result.Matched == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":       "no matching recipient",
				"match":       result,
				"suggestions": result.Suggestions,
			})
			return
		}
		if result.ShouldConfirm {
			// The client should confirm and resubmit with recipient_id
			c.JSON(http.StatusConflict, gin.H{
				"error": "recipient match needs confirmation",
				"match": result,
			})
			return
		}
		recipientID = result.Matched.ID
	}

	gift := &database.Gift{
		OwnerID:     req.OwnerID,
		RecipientID: recipientID,
		Description: req.Description,
		Source:      "web",
	}
	if req.Occasion != "" {
		gift.Occasion = stringPtr(req.Occasion)
	}
	if req.AmountCents > 0 {
		gift.AmountCents = int64Ptr(req.AmountCents)
	}
	if req.GiftedAt != "" {
		giftedAt, err := time.Parse(time.RFC3339, req.GiftedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gifted_at must be RFC 3339"})
			return
		}
		gift.GiftedAt = &giftedAt
	}

	created, err := s.store.CreateGift(gift)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.IncGiftLogged("web")

	c.JSON(http.StatusCreated, created)
}

func (s *Server) listGifts(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not initialized"})
		return
	}

	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}
	limit, offset := parseLimitOffset(c)

	gifts, err := s.store.GetGiftsByOwner(ownerID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if gifts == nil {
		gifts = []database.Gift{}
	}

	c.JSON(http.StatusOK, NewListResponse(gifts, len(gifts), limit, offset))
}

func (s *Server) getGift(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not initialized"})
		return
	}

	gift, err := s.store.GetGiftByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if gift == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "gift not found"})
		return
	}

	c.JSON(http.StatusOK, gift)
}
