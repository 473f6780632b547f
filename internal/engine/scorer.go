package engine

import (
	"strings"

	"github.com/stavsoft/boqflow/internal/model"
)

// ScoreRule scores one item's normalized text and unit against one rule.
// Include hits add 1.0 and land in the evidence list, exclude hits
// subtract 2.0, a matching unit adds 0.5.
func ScoreRule(text, unit string, rule model.CategoryRule) model.RuleScore {
	result := model.RuleScore{Category: rule.Category}

	for _, kw := range rule.Include {
		if kw != "" && strings.Contains(text, kw) {
			result.Score += model.IncludeWeight
			result.Evidence = append(result.Evidence, kw)
		}
	}

	for _, kw := range rule.Exclude {
		if kw != "" && strings.Contains(text, kw) {
			result.Score += model.ExcludeWeight
		}
	}

	if unit != "" {
		for _, u := range rule.UnitBoost {
			if u == unit {
				result.Score += model.UnitBoostWeight
				break
			}
		}
	}

	result.Adjusted = result.Score
	return result
}

// ScoreAll scores an item against every rule in declaration order.
func ScoreAll(text, unit string, rules []model.CategoryRule) []model.RuleScore {
	scores := make([]model.RuleScore, len(rules))
	for i, rule := range rules {
		scores[i] = ScoreRule(text, unit, rule)
	}
	return scores
}
