package engine

import (
	"github.com/stavsoft/boqflow/internal/model"
)

// Resolve picks the winning category from a set of per-rule scores.
//
// Entries with score <= 0 are discarded. Each surviving category gains
// +0.3 for every category in its priorityOver list that also survived,
// letting a narrow high-precision rule beat a broad one that matched the
// same keywords. The winner is the highest adjusted score; ties break by
// rule priority, then by declaration order.
//
// The scores slice must be in rule declaration order (as produced by
// ScoreAll). Resolution is stateless across items: same input, same
// output.
func Resolve(scores []model.RuleScore, rules []model.CategoryRule) (model.RuleScore, bool) {
	positive := make(map[string]bool, len(scores))
	for _, s := range scores {
		if s.Score > 0 {
			positive[s.Category] = true
		}
	}
	if len(positive) == 0 {
		return model.RuleScore{}, false
	}

	priorityOver := make(map[string][]string, len(rules))
	priority := make(map[string]int, len(rules))
	for _, r := range rules {
		priorityOver[r.Category] = r.PriorityOver
		priority[r.Category] = r.Priority
	}

	var winner model.RuleScore
	found := false

	for _, s := range scores {
		if s.Score <= 0 {
			continue
		}

		s.Adjusted = s.Score
		for _, target := range priorityOver[s.Category] {
			if positive[target] {
				s.Adjusted += model.PriorityOverBonus
			}
		}

		if !found {
			winner, found = s, true
			continue
		}
		if s.Adjusted > winner.Adjusted {
			winner = s
			continue
		}
		if s.Adjusted == winner.Adjusted && priority[s.Category] > priority[winner.Category] {
			winner = s
		}
		// Equal adjusted score and priority: the earlier declaration wins.
	}

	return winner, found
}
