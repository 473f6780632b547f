package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stavsoft/boqflow/internal/model"
)

func TestScoreRule(t *testing.T) {
	rule := model.CategoryRule{
		Category:  "beton_monolit",
		Include:   []string{"betonaz", "monolit", "bedneni"},
		Exclude:   []string{"prefabrik"},
		UnitBoost: []string{"m3"},
	}

	tests := []struct {
		name         string
		text         string
		unit         string
		wantScore    float64
		wantEvidence []string
	}{
		{
			name:         "single include hit",
			text:         "betonaz zakladu",
			wantScore:    1.0,
			wantEvidence: []string{"betonaz"},
		},
		{
			name:         "include plus unit boost",
			text:         "betonaz zakladu",
			unit:         "m3",
			wantScore:    1.5,
			wantEvidence: []string{"betonaz"},
		},
		{
			name:         "two includes",
			text:         "betonaz monoliticke steny",
			wantScore:    2.0,
			wantEvidence: []string{"betonaz", "monolit"},
		},
		{
			name:         "exclude outweighs include",
			text:         "betonaz prefabrikovanych dilcu",
			wantScore:    -1.0,
			wantEvidence: []string{"betonaz"},
		},
		{
			name:      "no hits",
			text:      "hloubeni jam",
			wantScore: 0,
		},
		{
			name:      "unit boost alone",
			text:      "hloubeni jam",
			unit:      "m3",
			wantScore: 0.5,
		},
		{
			name:      "unit must match exactly",
			text:      "hloubeni jam",
			unit:      "m33",
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreRule(tt.text, tt.unit, rule)
			assert.Equal(t, "beton_monolit", got.Category)
			assert.InDelta(t, tt.wantScore, got.Score, 0.0001)
			assert.Equal(t, tt.wantEvidence, got.Evidence)
		})
	}
}

func TestScoreAllKeepsDeclarationOrder(t *testing.T) {
	rules := []model.CategoryRule{
		{Category: "a", Include: []string{"x"}},
		{Category: "b", Include: []string{"y"}},
	}

	scores := ScoreAll("x y", "", rules)

	assert.Len(t, scores, 2)
	assert.Equal(t, "a", scores[0].Category)
	assert.Equal(t, "b", scores[1].Category)
}

func TestRuleScoreConfidence(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{"one hit", 1.0, 50},
		{"two hits saturate", 2.0, 100},
		{"above saturation clamps", 3.5, 100},
		{"negative clamps to zero", -1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := model.RuleScore{Score: tt.score}
			assert.InDelta(t, tt.want, rs.Confidence(), 0.0001)
		})
	}
}
