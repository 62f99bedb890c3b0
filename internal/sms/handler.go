// file: internal/sms/handler.go
// version: 1.2.0
// guid: 6d7e8f9a-0b1c-2d3e-4f5a-8b9c0d1e2f3a

// Package sms turns inbound text messages into logged gifts. A message like
// "got sarha earrings for her birthday" is run through AI extraction, the
// recipient reference is resolved by the matcher, and depending on match
// confidence the gift is either logged immediately or parked behind a
// yes/no confirmation exchange.
package sms

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/giftwell/giftwell/internal/ai"
	"github.com/giftwell/giftwell/internal/database"
	"github.com/giftwell/giftwell/internal/metrics"
	"github.com/giftwell/giftwell/internal/resolver"
)

// Handling outcomes, used as metric labels and for tests.
const (
	OutcomeLogged      = "logged"
	OutcomeConfirmed   = "confirmed"
	OutcomeDeclined    = "declined"
	OutcomePending     = "pending"
	OutcomeNoMatch     = "no_match"
	OutcomeParseFailed = "parse_failed"
	OutcomeDisabled    = "disabled"
	OutcomeStoreFailed = "store_failed"
	OutcomeStaleReply  = "stale_reply"
)

// GiftParser extracts a structured gift from free text. *ai.GiftParser
// satisfies it; tests use fakes.
type GiftParser interface {
	IsEnabled() bool
	ParseMessage(ctx context.Context, message string) (*ai.ParsedGift, error)
}

// pendingGift is a parsed gift waiting on a yes/no reply from the sender.
type pendingGift struct {
	gift      *database.Gift
	recipient string // display name, for the decline reply
	expiresAt time.Time
}

// Handler processes inbound SMS messages for one deployment. Pending
// confirmations are kept in memory keyed by sender phone number; a restart
// drops them, which costs the user one re-send.
type Handler struct {
	parser GiftParser
	store  database.Store
	ttl    time.Duration

	// OwnerForPhone maps a sender phone number to an owner scope. The
	// default maps every sender to the configured single-tenant owner.
	OwnerForPhone func(phone string) string

	mu      sync.Mutex
	pending map[string]pendingGift
}

// NewHandler creates an SMS handler. ttl bounds how long a confirmation
// question stays answerable.
func NewHandler(parser GiftParser, store database.Store, ownerID string, ttl time.Duration) *Handler {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Handler{
		parser:        parser,
		store:         store,
		ttl:           ttl,
		OwnerForPhone: func(string) string { return ownerID },
		pending:       make(map[string]pendingGift),
	}
}

// Reply is what gets sent back to the sender.
type Reply struct {
	Body    string
	Outcome string
}

// HandleMessage processes one inbound message and returns the reply to
// send. Internal failures (store or record fetch) return an error alongside
// a generic reply so the webhook can still answer the sender.
func (h *Handler) HandleMessage(ctx context.Context, from, body string) (*Reply, error) {
	text := strings.TrimSpace(body)
	if text == "" {
		return &Reply{Body: "Send me a gift note, like: got mom a candle for christmas", Outcome: OutcomeParseFailed}, nil
	}

	// A yes/no answer to an open confirmation takes priority over parsing
	if reply := h.handleConfirmationReply(from, text); reply != nil {
		return reply, nil
	}

	if h.parser == nil || !h.parser.IsEnabled() {
		metrics.IncSMSMessage(OutcomeDisabled)
		return &Reply{Body: "Gift logging by text is not set up yet.", Outcome: OutcomeDisabled}, nil
	}

	parsed, err := h.parser.ParseMessage(ctx, text)
	if err != nil || parsed == nil || parsed.RecipientRef == "" || parsed.Description == "" {
		log.Printf("[WARN] SMS parse failed for %s: %v", from, err)
		metrics.IncSMSMessage(OutcomeParseFailed)
		return &Reply{Body: "Sorry, I couldn't understand that. Try: got mom a candle for christmas", Outcome: OutcomeParseFailed}, nil
	}

	ownerID := h.OwnerForPhone(from)

	start := time.Now()
	result, err := resolver.Match(parsed.RecipientRef, ownerID, h.store)
	if err != nil {
		metrics.IncSMSMessage(OutcomeStoreFailed)
		return &Reply{Body: "Something went wrong on our end. Please try again in a bit.", Outcome: OutcomeStoreFailed},
			fmt.Errorf("match recipient: %w", err)
	}
	metrics.ObserveMatchDuration(result.Method, time.Since(start))
	metrics.IncMatchAttempt(result.Method, result.Confidence)

	switch {
	case result.Matched == nil:
		metrics.IncSMSMessage(OutcomeNoMatch)
		return &Reply{
			Body:    fmt.Sprintf("I don't know %q yet. Add them in the app first, then try again.", parsed.RecipientRef),
			Outcome: OutcomeNoMatch,
		}, nil

	case result.ShouldConfirm:
		gift := h.buildGift(ownerID, result.Matched.ID, parsed)
		h.stashPending(from, gift, result.Matched.Name)
		metrics.IncSMSMessage(OutcomePending)
		return &Reply{
			Body:    result.ConfirmationMessage + " Reply YES to log it or NO to cancel.",
			Outcome: OutcomePending,
		}, nil

	default:
		gift := h.buildGift(ownerID, result.Matched.ID, parsed)
		if _, err := h.store.CreateGift(gift); err != nil {
			metrics.IncSMSMessage(OutcomeStoreFailed)
			return &Reply{Body: "Something went wrong saving that. Please try again.", Outcome: OutcomeStoreFailed},
				fmt.Errorf("create gift: %w", err)
		}
		metrics.IncGiftLogged("sms")
		metrics.IncSMSMessage(OutcomeLogged)
		return &Reply{
			Body:    fmt.Sprintf("Got it! Logged %q for %s.", gift.Description, result.Matched.Name),
			Outcome: OutcomeLogged,
		}, nil
	}
}

// handleConfirmationReply resolves an open yes/no question. Returns nil if
// the message is not a confirmation answer or nothing is pending.
func (h *Handler) handleConfirmationReply(from, text string) *Reply {
	answer := strings.ToLower(strings.TrimRight(text, ".!"))
	if answer != "yes" && answer != "y" && answer != "no" && answer != "n" {
		return nil
	}

	h.mu.Lock()
	p, ok := h.pending[from]
	if ok {
		delete(h.pending, from)
	}
	h.mu.Unlock()

	if !ok || time.Now().After(p.expiresAt) {
		metrics.IncSMSMessage(OutcomeStaleReply)
		return &Reply{Body: "Nothing waiting on a yes or no right now.", Outcome: OutcomeStaleReply}
	}

	if answer == "no" || answer == "n" {
		metrics.IncSMSMessage(OutcomeDeclined)
		return &Reply{
			Body:    fmt.Sprintf("Okay, I didn't log it for %s. Send it again with the full name.", p.recipient),
			Outcome: OutcomeDeclined,
		}
	}

	if _, err := h.store.CreateGift(p.gift); err != nil {
		log.Printf("[WARN] Failed to save confirmed gift from %s: %v", from, err)
		metrics.IncSMSMessage(OutcomeStoreFailed)
		return &Reply{Body: "Something went wrong saving that. Please try again.", Outcome: OutcomeStoreFailed}
	}
	metrics.IncGiftLogged("sms")
	metrics.IncSMSMessage(OutcomeConfirmed)
	return &Reply{
		Body:    fmt.Sprintf("Got it! Logged %q for %s.", p.gift.Description, p.recipient),
		Outcome: OutcomeConfirmed,
	}
}

func (h *Handler) buildGift(ownerID, recipientID string, parsed *ai.ParsedGift) *database.Gift {
	gift := &database.Gift{
		OwnerID:     ownerID,
		RecipientID: recipientID,
		Description: parsed.Description,
		Source:      "sms",
	}
	if parsed.Occasion != "" {
		occasion := parsed.Occasion
		gift.Occasion = &occasion
	}
	if parsed.AmountCents > 0 {
		amount := parsed.AmountCents
		gift.AmountCents = &amount
	}
	return gift
}

func (h *Handler) stashPending(from string, gift *database.Gift, recipientName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Opportunistic sweep; the map only ever holds one entry per active sender
	now := time.Now()
	for phone, p := range h.pending {
		if now.After(p.expiresAt) {
			delete(h.pending, phone)
		}
	}

	h.pending[from] = pendingGift{
		gift:      gift,
		recipient: recipientName,
		expiresAt: now.Add(h.ttl),
	}
}
