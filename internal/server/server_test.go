// file: internal/server/server_test.go
// version: 1.2.0
// guid: 8f9a0b1c-2d3e-4f5a-6b7c-0b1c2d3e4f5a

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giftwell/giftwell/internal/ai"
	"github.com/giftwell/giftwell/internal/config"
	"github.com/giftwell/giftwell/internal/database"
	"github.com/giftwell/giftwell/internal/resolver"
	"github.com/giftwell/giftwell/internal/sms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedParser feeds the SMS pipeline a canned extraction result
type fixedParser struct {
	gift *ai.ParsedGift
}

func (p *fixedParser) IsEnabled() bool { return true }

func (p *fixedParser) ParseMessage(ctx context.Context, message string) (*ai.ParsedGift, error) {
	return p.gift, nil
}

// setupTestServer creates a test server with a SQLite database in a temp dir
func setupTestServer(t *testing.T, parser sms.GiftParser) (*Server, database.Store) {
	gin.SetMode(gin.TestMode)

	config.AppConfig = config.Config{
		DatabaseType:          "sqlite",
		DatabasePath:          filepath.Join(t.TempDir(), "test.db"),
		EnableSQLite:          true,
		APIRateLimitPerMinute: 10000,
	}

	store, err := database.NewSQLiteStore(config.AppConfig.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	smsHandler := sms.NewHandler(parser, store, "owner1", time.Minute)
	return NewServer(store, smsHandler), store
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func createTestRecipient(t *testing.T, store database.Store, name, relationship string) *database.Recipient {
	t.Helper()
	r := &database.Recipient{OwnerID: "owner1", Name: name}
	if relationship != "" {
		r.Relationship = &relationship
	}
	created, err := store.CreateRecipient(r)
	require.NoError(t, err)
	return created
}

func TestHealthCheck(t *testing.T) {
	s, _ := setupTestServer(t, nil)

	w := doJSON(t, s, "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "sqlite", resp["database_type"])
}

func TestRecipientCRUD(t *testing.T) {
	s, _ := setupTestServer(t, nil)

	// Create
	w := doJSON(t, s, "POST", "/api/v1/recipients", map[string]any{
		"owner_id":     "owner1",
		"name":         "Sarah Johnson",
		"alias":        "Sar",
		"relationship": "Friend",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created database.Recipient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	// Get
	w = doJSON(t, s, "GET", "/api/v1/recipients/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// List
	w = doJSON(t, s, "GET", "/api/v1/recipients?owner_id=owner1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var list map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, float64(1), list["count"])

	// Update
	w = doJSON(t, s, "PUT", "/api/v1/recipients/"+created.ID, map[string]any{
		"name": "Sarah Johnson-Lee",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated database.Recipient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Sarah Johnson-Lee", updated.Name)

	// Delete
	w = doJSON(t, s, "DELETE", "/api/v1/recipients/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, "GET", "/api/v1/recipients/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRecipientValidation(t *testing.T) {
	s, _ := setupTestServer(t, nil)

	w := doJSON(t, s, "POST", "/api/v1/recipients", map[string]any{"name": "No Owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, "GET", "/api/v1/recipients", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRecipientsFuzzyFilter(t *testing.T) {
	s, store := setupTestServer(t, nil)
	createTestRecipient(t, store, "Sarah Johnson", "")
	createTestRecipient(t, store, "Margaret Jones", "")

	// "sj" is a subsequence of "Sarah Johnson" only
	w := doJSON(t, s, "GET", "/api/v1/recipients?owner_id=owner1&q=sj", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []database.Recipient `json:"items"`
		Count int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Sarah Johnson", resp.Items[0].Name)
}

func TestMatchEndpoint(t *testing.T) {
	s, store := setupTestServer(t, nil)
	createTestRecipient(t, store, "Sarah Johnson", "Friend")

	w := doJSON(t, s, "GET", "/api/v1/match?owner_id=owner1&term="+url.QueryEscape("sarha"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result resolver.MatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	// "sarha" is outside the 5-char edit threshold; no confident match
	assert.Equal(t, resolver.ConfidenceNone, result.Confidence)

	w = doJSON(t, s, "GET", "/api/v1/match?owner_id=owner1&term=Sarah", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, resolver.ConfidenceHigh, result.Confidence)
	assert.Equal(t, resolver.MethodFuzzyFirstName, result.Method)
	require.NotNil(t, result.Matched)
	assert.Equal(t, "Sarah Johnson", result.Matched.Name)
}

func TestMatchEndpointRequiresOwner(t *testing.T) {
	s, _ := setupTestServer(t, nil)

	w := doJSON(t, s, "GET", "/api/v1/match?term=Sarah", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestEndpoint(t *testing.T) {
	s, store := setupTestServer(t, nil)
	createTestRecipient(t, store, "Sarah Johnson", "")
	createTestRecipient(t, store, "Samuel Adams", "")

	w := doJSON(t, s, "GET", "/api/v1/suggest?owner_id=owner1&q=sa", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []resolver.Suggestion `json:"items"`
		Count int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, 100, resp.Items[0].Score)
}

func TestCreateGiftWithRecipientID(t *testing.T) {
	s, store := setupTestServer(t, nil)
	recipient := createTestRecipient(t, store, "Sarah Johnson", "")

	w := doJSON(t, s, "POST", "/api/v1/gifts", map[string]any{
		"owner_id":     "owner1",
		"recipient_id": recipient.ID,
		"description":  "silver earrings",
		"occasion":     "birthday",
		"amount_cents": 4500,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var gift database.Gift
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gift))
	assert.Equal(t, "web", gift.Source)
	require.NotNil(t, gift.AmountCents)
	assert.Equal(t, int64(4500), *gift.AmountCents)
}

func TestCreateGiftResolvesRecipientName(t *testing.T) {
	s, store := setupTestServer(t, nil)
	recipient := createTestRecipient(t, store, "Sarah Johnson", "")

	w := doJSON(t, s, "POST", "/api/v1/gifts", map[string]any{
		"owner_id":    "owner1",
		"recipient":   "Sarah Johnson",
		"description": "a cookbook",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var gift database.Gift
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gift))
	assert.Equal(t, recipient.ID, gift.RecipientID)
}

func TestCreateGiftAmbiguousRecipientNeedsConfirmation(t *testing.T) {
	s, store := setupTestServer(t, nil)
	createTestRecipient(t, store, "Sarah Johnson", "")

	// "Sara" resolves at medium confidence -> 409 with the match attached
	w := doJSON(t, s, "POST", "/api/v1/gifts", map[string]any{
		"owner_id":    "owner1",
		"recipient":   "Sara",
		"description": "a scarf",
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Did you mean Sarah Johnson?")
}

func TestCreateGiftUnknownRecipient(t *testing.T) {
	s, _ := setupTestServer(t, nil)

	w := doJSON(t, s, "POST", "/api/v1/gifts", map[string]any{
		"owner_id":    "owner1",
		"recipient":   "Xavier",
		"description": "a book",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAndGetGifts(t *testing.T) {
	s, store := setupTestServer(t, nil)
	recipient := createTestRecipient(t, store, "Sarah Johnson", "")

	for i := 0; i < 3; i++ {
		_, err := store.CreateGift(&database.Gift{
			OwnerID:     "owner1",
			RecipientID: recipient.ID,
			Description: fmt.Sprintf("gift %d", i),
		})
		require.NoError(t, err)
	}

	w := doJSON(t, s, "GET", "/api/v1/gifts?owner_id=owner1&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	w = doJSON(t, s, "GET", "/api/v1/recipients/"+recipient.ID+"/gifts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, "GET", "/api/v1/gifts/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSMSWebhook(t *testing.T) {
	parser := &fixedParser{gift: &ai.ParsedGift{
		RecipientRef: "Sarah Johnson",
		Description:  "silver earrings",
		Confidence:   "high",
	}}
	s, store := setupTestServer(t, parser)
	createTestRecipient(t, store, "Sarah Johnson", "")

	form := url.Values{}
	form.Set("From", "+15550001")
	form.Set("Body", "got sarah johnson some silver earrings")

	req, err := http.NewRequest("POST", "/api/v1/sms/webhook", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "<Message>")
	assert.Contains(t, w.Body.String(), "Sarah Johnson")

	gifts, err := store.GetGiftsByOwner("owner1", 10, 0)
	require.NoError(t, err)
	require.Len(t, gifts, 1)
	assert.Equal(t, "sms", gifts[0].Source)
	assert.Equal(t, "silver earrings", gifts[0].Description)
}

func TestSMSWebhookRequiresFrom(t *testing.T) {
	s, _ := setupTestServer(t, &fixedParser{})

	req, err := http.NewRequest("POST", "/api/v1/sms/webhook", strings.NewReader("Body=hello"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
