// file: internal/server/sms_webhook.go
// version: 1.1.0
// guid: 2c3d4e5f-6a7b-8c9d-0e1f-4c5d6e7f8a9b

package server

import (
	"encoding/xml"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// twimlResponse is the minimal TwiML document a Twilio webhook answers with.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// smsWebhook handles inbound messages posted by the SMS provider as form
// data (From, Body). The reply text rides back in the TwiML response.
func (s *Server) smsWebhook(c *gin.Context) {
	if s.sms == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sms handling not configured"})
		return
	}

	from := c.PostForm("From")
	body := c.PostForm("Body")
	if from == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "From is required"})
		return
	}

	reply, err := s.sms.HandleMessage(c.Request.Context(), from, body)
	if err != nil {
		// The sender still gets the generic reply; log the cause
		log.Printf("[WARN] SMS handling failed for %s: %v", from, err)
	}

	c.XML(http.StatusOK, twimlResponse{Message: reply.Body})
}
