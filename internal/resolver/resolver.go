// file: internal/resolver/resolver.go
// version: 1.3.0
// guid: 2b3c4d5e-6f7a-8b9c-0d1e-4f5a6b7c8d9e

// Package resolver resolves free-form, possibly misspelled name references
// ("sarha", "Mom", "Johnny") to one recipient record within an owner's
// scope. Matching runs a strict priority cascade: exact name, exact alias,
// relationship keyword, nickname-dictionary expansion, then edit-distance
// fuzzy matching with adaptive thresholds and confidence scoring.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/giftwell/giftwell/internal/database"
)

// Confidence levels, ordered. Exact is reserved for lookup-based matches;
// fuzzy scoring alone never produces it.
const (
	ConfidenceExact  = "exact"
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
	ConfidenceNone   = "none"
)

// Match methods identify which pipeline stage produced a match.
const (
	MethodExactName      = "exact_name"
	MethodExactAlias     = "exact_alias"
	MethodRelationship   = "relationship"
	MethodNickname       = "fuzzy_alias" // nickname-dictionary expansion
	MethodFuzzyName      = "fuzzy_name"
	MethodFuzzyFirstName = "fuzzy_first_name"
	MethodFuzzyNickname  = "fuzzy_nickname" // edit distance against the record's alias
	MethodNone           = "none"
)

// maxMatchSuggestions caps the alternatives attached to a match result.
const maxMatchSuggestions = 5

// RecipientSource is the injected record-fetch capability. database.Store
// satisfies it; tests use small fakes.
type RecipientSource interface {
	GetRecipientsByOwner(ownerID string) ([]database.Recipient, error)
}

// Suggestion is one alternative candidate with its similarity score.
type Suggestion struct {
	Recipient    database.Recipient `json:"recipient"`
	Score        int                `json:"score"` // 0-100
	EditDistance int                `json:"edit_distance"`
	Reason       string             `json:"reason"`
}

// MatchResult is the outcome of one resolution attempt. It is computed
// fresh per call and never cached.
type MatchResult struct {
	Matched             *database.Recipient `json:"matched,omitempty"`
	Confidence          string              `json:"confidence"`
	Method              string              `json:"method"`
	Score               int                 `json:"score,omitempty"` // similarity %, fuzzy stages only
	ShouldConfirm       bool                `json:"should_confirm"`
	ConfirmationMessage string              `json:"confirmation_message,omitempty"`
	Suggestions         []Suggestion        `json:"suggestions,omitempty"`
}

func noMatch() *MatchResult {
	return &MatchResult{Confidence: ConfidenceNone, Method: MethodNone}
}

// Match resolves searchTerm to one recipient owned by ownerID. The cascade
// is strict: the first satisfied stage wins and short-circuits all later
// stages, so an exact name match beats any fuzzy score on a different
// record. A fetch failure propagates as an error and is never reported as
// "no match" — the caller needs to tell "I don't know that person" apart
// from "couldn't reach the data store".
func Match(searchTerm, ownerID string, source RecipientSource) (*MatchResult, error) {
	term := strings.TrimSpace(searchTerm)
	if term == "" {
		return noMatch(), nil
	}

	recipients, err := source.GetRecipientsByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch recipients: %w", err)
	}
	if len(recipients) == 0 {
		return noMatch(), nil
	}

	normTerm := Normalize(term)

	// Stage 1: exact name
	for i := range recipients {
		if Normalize(recipients[i].Name) == normTerm {
			return &MatchResult{
				Matched:    &recipients[i],
				Confidence: ConfidenceExact,
				Method:     MethodExactName,
			}, nil
		}
	}

	// Stage 2: exact alias
	for i := range recipients {
		if recipients[i].Alias != nil && Normalize(*recipients[i].Alias) == normTerm {
			return &MatchResult{
				Matched:    &recipients[i],
				Confidence: ConfidenceExact,
				Method:     MethodExactAlias,
			}, nil
		}
	}

	// Stage 3: relationship keyword ("Mom" -> the record labeled "Mother")
	if result := matchRelationship(term, recipients); result != nil {
		return result, nil
	}

	// Stage 4: nickname-dictionary expansion ("Liz" -> "Elizabeth ...")
	if result := matchNickname(term, recipients); result != nil {
		return result, nil
	}

	// Stage 5: fuzzy cascade
	return matchFuzzy(term, recipients), nil
}

func matchRelationship(term string, recipients []database.Recipient) *MatchResult {
	category, ok := NormalizeRelationship(term)
	if !ok {
		return nil
	}

	for i := range recipients {
		if recipients[i].Relationship == nil {
			continue
		}
		if rc, ok := NormalizeRelationship(*recipients[i].Relationship); ok && rc == category {
			return &MatchResult{
				Matched:    &recipients[i],
				Confidence: ConfidenceExact,
				Method:     MethodRelationship,
			}
		}
	}

	// Fallback: the relationship word embedded in a descriptive name
	// ("Grandma Rose"). Known sharp edge: a name that incidentally
	// contains the word also matches ("Sonny" contains "son").
	rawTerm := strings.ToLower(term)
	for i := range recipients {
		if strings.Contains(Normalize(recipients[i].Name), rawTerm) {
			return &MatchResult{
				Matched:    &recipients[i],
				Confidence: ConfidenceExact,
				Method:     MethodRelationship,
			}
		}
	}
	return nil
}

func matchNickname(term string, recipients []database.Recipient) *MatchResult {
	if !IsKnownNickname(term) {
		return nil
	}
	formal := FormalName(term)
	for i := range recipients {
		if FirstToken(recipients[i].Name) == formal {
			// Nickname -> formal inference is a semantic guess, not a
			// literal-string guarantee, so confirmation is required even
			// at high confidence.
			return &MatchResult{
				Matched:             &recipients[i],
				Confidence:          ConfidenceHigh,
				Method:              MethodNickname,
				ShouldConfirm:       true,
				ConfirmationMessage: fmt.Sprintf("Did you mean %s?", recipients[i].Name),
			}
		}
	}
	return nil
}

type scoredCandidate struct {
	index    int
	score    int
	distance int
	method   string
}

func matchFuzzy(term string, recipients []database.Recipient) *MatchResult {
	normTerm := Normalize(term)
	threshold := AdaptiveMaxDistance(term)

	var scored []scoredCandidate
	for i := range recipients {
		name := Normalize(recipients[i].Name)

		// Full name first; a hit here stops evaluation for this candidate
		if d := Distance(normTerm, name); d <= threshold {
			scored = append(scored, scoredCandidate{
				index:    i,
				score:    SimilarityPercent(normTerm, name),
				distance: d,
				method:   MethodFuzzyName,
			})
			continue
		}

		first := FirstToken(recipients[i].Name)
		if d := Distance(normTerm, first); d <= threshold {
			scored = append(scored, scoredCandidate{
				index:    i,
				score:    SimilarityPercent(normTerm, first),
				distance: d,
				method:   MethodFuzzyFirstName,
			})
			continue
		}

		if recipients[i].Alias != nil {
			alias := Normalize(*recipients[i].Alias)
			if d := Distance(normTerm, alias); d <= threshold {
				scored = append(scored, scoredCandidate{
					index:    i,
					score:    SimilarityPercent(normTerm, alias),
					distance: d,
					method:   MethodFuzzyNickname,
				})
			}
		}
	}

	if len(scored) == 0 {
		return noMatch()
	}

	// Ties keep candidate order, so the first structurally-best record wins
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	confidence := confidenceFromScore(scored[0].score)
	if confidence == ConfidenceNone {
		result := noMatch()
		result.Suggestions = toSuggestions(scored, recipients, maxMatchSuggestions)
		return result
	}

	best := scored[0]
	matched := &recipients[best.index]
	result := &MatchResult{
		Matched:     matched,
		Confidence:  confidence,
		Method:      best.method,
		Score:       best.score,
		Suggestions: toSuggestions(scored[1:], recipients, maxMatchSuggestions),
	}

	switch confidence {
	case ConfidenceMedium:
		result.ShouldConfirm = true
		result.ConfirmationMessage = fmt.Sprintf("Did you mean %s?", matched.Name)
	case ConfidenceLow:
		result.ShouldConfirm = true
		result.ConfirmationMessage = fmt.Sprintf("Not sure if you meant %s. Is this correct?", matched.Name)
	}

	return result
}

// confidenceFromScore applies only to fuzzy-stage results; lookup-based
// stages are always exact.
func confidenceFromScore(score int) string {
	switch {
	case score >= 95:
		return ConfidenceHigh
	case score >= 80:
		return ConfidenceMedium
	case score >= 60:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

func toSuggestions(scored []scoredCandidate, recipients []database.Recipient, limit int) []Suggestion {
	if len(scored) > limit {
		scored = scored[:limit]
	}
	var suggestions []Suggestion
	for _, sc := range scored {
		suggestions = append(suggestions, Suggestion{
			Recipient:    recipients[sc.index],
			Score:        sc.score,
			EditDistance: sc.distance,
			Reason:       sc.method,
		})
	}
	return suggestions
}
