// file: internal/resolver/suggest.go
// version: 1.1.0
// guid: 7c8d9e0f-1a2b-3c4d-5e6f-8a9b0c1d2e3f

package resolver

import (
	"fmt"
	"sort"
	"strings"
)

// Suggest reasons, distinct from match methods. Prefix reasons rank above
// any fuzzy score.
const (
	ReasonPrefix          = "prefix"
	ReasonFirstNamePrefix = "first_name_prefix"
	ReasonAliasPrefix     = "alias_prefix"
	ReasonFuzzy           = "fuzzy"
)

const defaultSuggestLimit = 10

// Suggest returns ranked candidates for a partial query, for type-ahead
// use. Unlike Match it never picks a single winner and never asks for
// confirmation; it only orders candidates. Prefix hits outrank fuzzy hits:
// full-name prefix 100, first-name prefix 95, alias prefix 90, and
// everything else falls back to similarity percent with a floor of 60.
func Suggest(query, ownerID string, source RecipientSource, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	normQuery := Normalize(query)
	if normQuery == "" {
		return nil, nil
	}

	recipients, err := source.GetRecipientsByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch recipients: %w", err)
	}

	var suggestions []Suggestion
	for i := range recipients {
		name := Normalize(recipients[i].Name)

		switch {
		case strings.HasPrefix(name, normQuery):
			suggestions = append(suggestions, Suggestion{
				Recipient: recipients[i],
				Score:     100,
				Reason:    ReasonPrefix,
			})
		case strings.HasPrefix(FirstToken(recipients[i].Name), normQuery):
			suggestions = append(suggestions, Suggestion{
				Recipient: recipients[i],
				Score:     95,
				Reason:    ReasonFirstNamePrefix,
			})
		case recipients[i].Alias != nil && strings.HasPrefix(Normalize(*recipients[i].Alias), normQuery):
			suggestions = append(suggestions, Suggestion{
				Recipient: recipients[i],
				Score:     90,
				Reason:    ReasonAliasPrefix,
			})
		default:
			score := SimilarityPercent(normQuery, name)
			if score >= 60 {
				suggestions = append(suggestions, Suggestion{
					Recipient:    recipients[i],
					Score:        score,
					EditDistance: Distance(normQuery, name),
					Reason:       ReasonFuzzy,
				})
			}
		}
	}

	// Stable: equal scores keep storage order, so output is deterministic
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}
