package engine

import (
	"sort"

	"github.com/stavsoft/boqflow/internal/model"
	"github.com/stavsoft/boqflow/internal/normalize"
)

// MaxSimilarResults caps how many items one apply-to-similar call may
// touch, keeping the operation predictable for the caller.
const MaxSimilarResults = 50

// DefaultMinSimilarity is the similarity threshold used when the caller
// does not supply one.
const DefaultMinSimilarity = 0.7

// ApplyCategoryToSimilar copies the source item's category to items whose
// normalized text is at least minSimilarity similar. Already-categorized
// items and the source itself are skipped. Matches are applied highest
// similarity first, at most MaxSimilarResults of them. Returns the
// indices of the modified items; an empty result is a normal outcome.
func ApplyCategoryToSimilar(source *model.Item, items []model.Item, minSimilarity float64) []int {
	if source.Category == "" {
		return nil
	}
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}

	srcText := normalize.Text(source.SearchText())
	if srcText == "" {
		return nil
	}

	type candidate struct {
		index int
		score float64
	}
	var candidates []candidate

	for i := range items {
		if items[i].ID == source.ID || items[i].Category != "" {
			continue
		}
		text := normalize.Text(items[i].SearchText())
		if text == "" {
			continue
		}
		if score := TextSimilarity(srcText, text); score >= minSimilarity {
			candidates = append(candidates, candidate{index: i, score: score})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	if len(candidates) > MaxSimilarResults {
		candidates = candidates[:MaxSimilarResults]
	}

	affected := make([]int, 0, len(candidates))
	for _, c := range candidates {
		items[c.index].Category = source.Category
		items[c.index].CategorySource = model.SourceManual
		items[c.index].Confidence = c.score * 100
		affected = append(affected, c.index)
	}

	return affected
}

// TextSimilarity combines word-token Jaccard overlap with trigram
// similarity. Tokens capture shared vocabulary, trigrams tolerate
// inflected word endings, which Czech BOQ descriptions are full of.
func TextSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	tokens := jaccard(tokenSet(a), tokenSet(b))
	trigrams := jaccard(ngramSet(a, 3), ngramSet(b, 3))
	return 0.5*tokens + 0.5*trigrams
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range normalize.Tokens(s) {
		set[tok] = true
	}
	return set
}

func ngramSet(s string, n int) map[string]bool {
	set := make(map[string]bool)
	runes := []rune(s)
	if len(runes) < n {
		if len(runes) > 0 {
			set[string(runes)] = true
		}
		return set
	}
	for i := 0; i <= len(runes)-n; i++ {
		set[string(runes[i:i+n])] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
