package model

// CategoryRule matches BOQ item text against one work-group category.
// Keywords are stored pre-normalized (diacritics stripped, lowercase) so
// scoring is a plain substring check against normalized item text.
type CategoryRule struct {
	Category     string   `json:"category"`
	Name         string   `json:"name"`
	Include      []string `json:"include"`
	Exclude      []string `json:"exclude"`
	UnitBoost    []string `json:"unit_boost,omitempty"`
	PriorityOver []string `json:"priority_over,omitempty"`
	Priority     int      `json:"priority"`
}

// Scoring weights. An exclude hit is worth two include hits so a single
// strong negative signal can overturn two weak positive ones.
const (
	IncludeWeight           = 1.0
	ExcludeWeight           = -2.0
	UnitBoostWeight         = 0.5
	PriorityOverBonus       = 0.3
	ConfidenceFullAtTwoHits = 2.0
)

// RuleScore is the outcome of scoring one item against one rule.
type RuleScore struct {
	Category string
	Evidence []string
	Score    float64 // raw include/exclude/unit score
	Adjusted float64 // Score plus priorityOver bonuses, set by the resolver
}

// Confidence converts the raw score to a 0-100 display value. Priority
// bonuses order candidates but say nothing about how well the text
// matched, so they are not part of the confidence.
func (s RuleScore) Confidence() float64 {
	c := s.Score / ConfidenceFullAtTwoHits * 100
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
