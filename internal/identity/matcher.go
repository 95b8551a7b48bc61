// Package identity resolves Canvas user records to locally known
// candidates. Canvas has been observed to hand out different numeric IDs
// for the same person across endpoints, so matching falls back from the
// ID through progressively weaker keys.
package identity

import (
	"strings"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

// Tier names which fallback produced a match.
type Tier string

const (
	TierNone      Tier = ""
	TierID        Tier = "id"
	TierEmail     Tier = "email"
	TierExactName Tier = "exact_name"
	TierFuzzyName Tier = "fuzzy_name"
)

// Match resolves a Canvas user against the given candidate set, trying in
// strict precedence:
//
//  1. exact Canvas user ID
//  2. exact email, case-sensitive as supplied
//  3. exact display name, case-sensitive and untrimmed
//  4. normalized name: lowercase+trim both sides, equal or either a
//     substring of the other
//
// Returns (nil, TierNone) when nothing matches. The caller decides
// whether a miss means "create a candidate" (roster sync) or "skip the
// record" (submission sync). Tier 4 carries real false-positive risk
// ("Ana Silva" matches "Ana Silva Costa") and is kept for parity with
// observed Canvas behavior; callers log fuzzy matches so they stay
// auditable.
func Match(canvasUserID, name, email string, candidates []model.Candidate) (*model.Candidate, Tier) {
	if canvasUserID != "" {
		for i := range candidates {
			if candidates[i].CanvasUserID == canvasUserID {
				return &candidates[i], TierID
			}
		}
	}

	if email != "" {
		for i := range candidates {
			if candidates[i].Email == email {
				return &candidates[i], TierEmail
			}
		}
	}

	if name != "" {
		for i := range candidates {
			if candidates[i].Name == name {
				return &candidates[i], TierExactName
			}
		}

		norm := normalize(name)
		if norm != "" {
			for i := range candidates {
				other := normalize(candidates[i].Name)
				if other == "" {
					continue
				}
				if other == norm || strings.Contains(other, norm) || strings.Contains(norm, other) {
					return &candidates[i], TierFuzzyName
				}
			}
		}
	}

	return nil, TierNone
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
