// file: internal/ai/gift_parser.go
// version: 1.1.0
// guid: 5b6c7d8e-9f0a-1b2c-3d4e-7f8a9b0c1d2e

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

// ParsedGift represents a structured gift extracted from a free-text message
type ParsedGift struct {
	RecipientRef string `json:"recipient_ref"` // the raw name reference as written ("sarha", "mom")
	Description  string `json:"description"`
	Occasion     string `json:"occasion,omitempty"`
	AmountCents  int64  `json:"amount_cents,omitempty"`
	Confidence   string `json:"confidence"` // high, medium, low
}

// GiftParser handles AI-powered gift extraction from SMS text using OpenAI
type GiftParser struct {
	client     *openai.Client
	model      string
	maxRetries int
	enabled    bool
}

// NewGiftParser creates a new gift parser
func NewGiftParser(apiKey string, enabled bool) *GiftParser {
	if !enabled || apiKey == "" {
		return &GiftParser{enabled: false}
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &GiftParser{
		client:     &client,
		model:      "gpt-4o-mini", // Fast and cost-effective
		maxRetries: 2,
		enabled:    true,
	}
}

// IsEnabled returns whether the parser is enabled
func (p *GiftParser) IsEnabled() bool {
	return p.enabled
}

// ParseMessage uses OpenAI to extract a gift from a free-text SMS message.
// The recipient reference is returned verbatim — resolution of misspellings
// and nicknames is the matcher's job, not the model's.
func (p *GiftParser) ParseMessage(ctx context.Context, message string) (*ParsedGift, error) {
	if !p.enabled {
		return nil, fmt.Errorf("gift parser is not enabled")
	}

	// Create the system prompt (will be cached by OpenAI)
	systemPrompt := `You are an expert at extracting gift records from casual text messages.

Common patterns:
- "got mom a candle for christmas"
- "bought Sarah earrings, $45"
- "grabbed a lego set for Tommy's birthday"
- "liz - cookbook - anniversary"

Rules:
- recipient_ref is the person reference EXACTLY as written, including typos.
  Do NOT correct spelling or expand nicknames.
- amount_cents is the price in cents if a price is mentioned (e.g. "$45" -> 4500).

Return ONLY valid JSON with these fields (omit if not found):
{
  "recipient_ref": "name as written",
  "description": "what the gift is",
  "occasion": "birthday|christmas|anniversary|...",
  "amount_cents": 4500,
  "confidence": "high|medium|low"
}

Set confidence based on how clearly the message describes a gift.`

	// User prompt with the actual message
	userPrompt := fmt.Sprintf("Extract the gift from this message:\n\n%s", message)

	// Create chat completion with response format for JSON
	jsonObjectFormat := shared.NewResponseFormatJSONObjectParam()

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model:       shared.ChatModel(p.model),
		Temperature: param.NewOpt(0.1),
		MaxTokens:   param.NewOpt[int64](300),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &jsonObjectFormat,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	// Parse the JSON response
	var gift ParsedGift
	content := completion.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &gift); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI response: %w", err)
	}

	return &gift, nil
}

// TestConnection tests the OpenAI API connection
func (p *GiftParser) TestConnection(ctx context.Context) error {
	if !p.enabled {
		return fmt.Errorf("gift parser is not enabled")
	}

	// Set timeout for test
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Simple test parse
	_, err := p.ParseMessage(ctx, "got mom a candle for christmas")
	return err
}
