package clean

import (
	"strings"

	"github.com/brunobiangulo/exambank/store"
)

// dedup removes exact and near duplicates, always keeping the first
// occurrence in discovery order. At most one representative of each
// duplicate cluster is ever removed per comparison, so re-running dedup
// on its own output removes nothing.
func (c *Cleaner) dedup(records []store.QuestionRecord) ([]store.QuestionRecord, int) {
	removed := 0
	seenHashes := make(map[string]bool, len(records))
	kept := make([]store.QuestionRecord, 0, len(records))
	keptTokens := make([]map[string]bool, 0, len(records))

	for _, q := range records {
		key := store.ContentHash(strings.ToLower(q.Text))
		if seenHashes[key] {
			removed++
			continue
		}

		tokens := tokenSet(q.Text)
		dup := false
		for _, existing := range keptTokens {
			if tokenOverlap(tokens, existing) >= c.cfg.SimilarityThreshold {
				dup = true
				break
			}
		}
		if dup {
			removed++
			continue
		}

		seenHashes[key] = true
		kept = append(kept, q)
		keptTokens = append(keptTokens, tokens)
	}
	return kept, removed
}

// tokenSet lowercases text and splits it into a set of word tokens.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?()[]\"'")
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}

// tokenOverlap is the Jaccard similarity of two token sets.
func tokenOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	inter := 0
	for tok := range small {
		if large[tok] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
