package engine

import (
	"fmt"

	"github.com/stavsoft/boqflow/internal/common"
	"github.com/stavsoft/boqflow/internal/model"
)

// DefaultRules returns the built-in work-group rule table for Czech BOQ
// sheets. Keywords are stored pre-normalized (lowercase, diacritics
// stripped) so they match normalized item text directly.
func DefaultRules() []model.CategoryRule {
	return []model.CategoryRule{
		{
			Category:  "zemni_prace",
			Name:      "Earthworks",
			Include:   []string{"vykop", "hloubeni", "odkopavk", "prokopavk", "nasyp", "zasyp", "pazeni", "sejmuti ornice", "svahovani", "terenni uprav"},
			Exclude:   []string{"betonaz", "prefabrik"},
			UnitBoost: []string{"m3"},
			Priority:  50,
		},
		{
			Category:  "zakladani",
			Name:      "Foundations",
			Include:   []string{"zaklad", "pilota", "pilot", "mikropilota", "podkladni beton", "stetovnic", "zapor"},
			UnitBoost: []string{"m3", "m"},
			Priority:  55,
		},
		{
			Category:  "beton_monolit",
			Name:      "Cast-in-place concrete",
			Include:   []string{"betonaz", "beton c", "monolit", "bedneni", "odbedneni", "zelezobeton"},
			Exclude:   []string{"prefabrik", "prefa"},
			UnitBoost: []string{"m3", "m2"},
			Priority:  60,
		},
		{
			Category:     "prefabrikaty",
			Name:         "Precast elements",
			Include:      []string{"prefabrik", "prefa", "osazeni panel", "osazovani dilc", "montaz dilc"},
			UnitBoost:    []string{"kus", "ks"},
			Priority:      60,
			PriorityOver: []string{"beton_monolit"},
		},
		{
			Category:  "vyztuz",
			Name:      "Reinforcement",
			Include:   []string{"vyztuz", "armatur", "betonarska ocel", "ocel 10 505", "kari sit", "armokos"},
			UnitBoost: []string{"t", "kg"},
			Priority:  55,
		},
		{
			Category:     "kotveni",
			Name:         "Anchoring",
			Include:      []string{"kotva", "kotvy", "kotveni", "zemni kotv", "tycove", "pramencov", "trvale", "docasne", "injektaz", "hlava kotvy"},
			UnitBoost:    []string{"kus", "ks", "m"},
			Priority:      70,
			PriorityOver: []string{"vyztuz", "zakladani"},
		},
		{
			Category:  "zdivo",
			Name:      "Masonry",
			Include:   []string{"zdivo", "zdeni", "cihl", "tvarnic", "priczk", "pricka", "porobeton"},
			UnitBoost: []string{"m2", "m3"},
			Priority:  50,
		},
		{
			Category:  "izolace",
			Name:      "Waterproofing and insulation",
			Include:   []string{"izolace", "hydroizolace", "asfaltovy pas", "geotextil", "folie", "penetrac", "tepelna izolace"},
			UnitBoost: []string{"m2"},
			Priority:  50,
		},
		{
			Category:  "komunikace",
			Name:      "Roadworks and paving",
			Include:   []string{"asfalt", "kryt vozovky", "podkladni vrstv", "dlazb", "dlazeb", "obrubnik", "kamenivo zpevnene", "postrik"},
			UnitBoost: []string{"m2"},
			Priority:  50,
		},
		{
			Category:  "demolice",
			Name:      "Demolition",
			Include:   []string{"bourani", "demolice", "odstraneni konstrukc", "vybourani", "rozebrani"},
			Exclude:   []string{"montaz"},
			UnitBoost: []string{"m3", "m2"},
			Priority:  45,
		},
		{
			Category:  "ocelove_konstrukce",
			Name:      "Steel structures",
			Include:   []string{"ocelova konstrukce", "montaz ocel", "svarovani", "ocelovy profil", "valcovane profily"},
			Exclude:   []string{"betonarska ocel"},
			UnitBoost: []string{"t", "kg"},
			Priority:  55,
		},
		{
			Category:  "presun_hmot",
			Name:      "Material haulage",
			Include:   []string{"presun hmot", "preprava", "odvoz", "skladk", "nakladani", "vodorovne premisteni"},
			UnitBoost: []string{"t"},
			Priority:  40,
		},
	}
}

// ValidateRules checks a rule table before a classification run. The
// engine never partially loads a table: any defect fails the whole load.
func ValidateRules(rules []model.CategoryRule) error {
	if len(rules) == 0 {
		return fmt.Errorf("%w: empty rule table", common.ErrInvalidRuleSet)
	}

	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Category == "" {
			return fmt.Errorf("%w: rule with empty category id", common.ErrInvalidRuleSet)
		}
		if seen[r.Category] {
			return fmt.Errorf("%w: duplicate category %q", common.ErrInvalidRuleSet, r.Category)
		}
		seen[r.Category] = true
		if len(r.Include) == 0 {
			return fmt.Errorf("%w: category %q has no include keywords", common.ErrInvalidRuleSet, r.Category)
		}
	}

	for _, r := range rules {
		for _, target := range r.PriorityOver {
			if !seen[target] {
				return fmt.Errorf("%w: category %q outranks unknown category %q",
					common.ErrInvalidRuleSet, r.Category, target)
			}
		}
	}

	return nil
}
