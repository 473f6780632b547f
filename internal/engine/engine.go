// Package engine implements the BOQ work-item classification engine:
// row-role detection, keyword rule scoring, priority conflict resolution,
// cascade propagation and override precedence.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/stavsoft/boqflow/internal/model"
	"github.com/stavsoft/boqflow/internal/normalize"
	"github.com/stavsoft/boqflow/internal/service"
)

// ClassificationEngine orchestrates the classification of a batch of BOQ
// items. The engine owns the rule table and the override store for the
// duration of a run; items belong to the caller and only their category,
// confidence and (on first run) role fields are written.
type ClassificationEngine struct {
	overrides  service.OverrideStore
	fallback   FallbackClassifier
	rules      []model.CategoryRule
	categories []string
}

// New creates a classification engine. The rule table is validated up
// front; a table that references unknown categories never loads.
// overrides and fallback may be nil, disabling the respective step.
func New(rules []model.CategoryRule, overrides service.OverrideStore, fallback FallbackClassifier) (*ClassificationEngine, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, fmt.Errorf("failed to load rule table: %w", err)
	}

	categories := make([]string, len(rules))
	for i, r := range rules {
		categories[i] = r.Category
	}

	return &ClassificationEngine{
		rules:      rules,
		categories: categories,
		overrides:  overrides,
		fallback:   fallback,
	}, nil
}

// Rules returns the engine's rule table in declaration order.
func (e *ClassificationEngine) Rules() []model.CategoryRule {
	return e.rules
}

// Categories returns the configured category ids in declaration order.
func (e *ClassificationEngine) Categories() []string {
	return e.categories
}

// ClassifyBatch classifies every item in the batch and returns run
// statistics. In ModeEmptyOnly items that already carry a category are
// left untouched; ModeReclassifyAll overwrites everything.
//
// The input slice is never reordered or resized; the engine works on a
// sorted view and writes results back by index.
func (e *ClassificationEngine) ClassifyBatch(ctx context.Context, items []model.Item, mode model.ClassifyMode) (model.Summary, error) {
	summary := model.Summary{Total: len(items)}
	if len(items) == 0 {
		return summary, nil
	}

	if err := ValidateRowPositions(items); err != nil {
		return summary, err
	}

	order := sortedOrder(items)
	view := make([]model.Item, len(items))
	for k, idx := range order {
		view[k] = items[idx]
	}

	AssignRoles(view)

	// Tracks cascade assignments made in this run so a later per-item
	// override can displace them without skewing the counters.
	cascaded := make([]bool, len(view))

	for k := range view {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		it := &view[k]

		switch it.Role {
		case model.RoleUnknown:
			if mode == model.ModeReclassifyAll {
				clearCategory(it)
			}

		case model.RoleSubordinate:
			// Subordinate rows never enter rule scoring: they inherit via
			// cascade, unless an explicit code override exists.
			if it.Code == "" {
				continue
			}
			if mode == model.ModeEmptyOnly && it.Category != "" && !cascaded[k] {
				continue
			}
			if entry := e.lookupOverride(ctx, it.Code); entry != nil {
				if cascaded[k] {
					summary.ByCascade--
					cascaded[k] = false
				}
				applyCategory(it, entry.Category, model.SourceOverride, 100)
				summary.ByOverride++
			}

		case model.RoleMain, model.RoleSection:
			if mode == model.ModeEmptyOnly && it.Category != "" {
				summary.Skipped++
			} else {
				e.classifyStructural(ctx, it, mode, &summary)
			}

			if it.Category == "" {
				continue
			}
			for _, j := range CascadeRun(view, k) {
				sub := &view[j]
				if mode == model.ModeEmptyOnly && sub.Category != "" {
					continue
				}
				applyCategory(sub, it.Category, model.SourceCascade, it.Confidence)
				if !cascaded[j] {
					summary.ByCascade++
					cascaded[j] = true
				}
			}
		}
	}

	for k, idx := range order {
		items[idx].Role = view[k].Role
		items[idx].Category = view[k].Category
		items[idx].CategorySource = view[k].CategorySource
		items[idx].Confidence = view[k].Confidence
	}

	for i := range items {
		if items[i].Category == "" {
			summary.Unclassified++
		}
	}

	return summary, nil
}

// classifyStructural resolves the category of one main or section row:
// override lookup first, then rule scoring, then the optional fallback.
func (e *ClassificationEngine) classifyStructural(ctx context.Context, it *model.Item, mode model.ClassifyMode, summary *model.Summary) {
	if entry := e.lookupOverride(ctx, it.Code); entry != nil {
		applyCategory(it, entry.Category, model.SourceOverride, 100)
		summary.ByOverride++
		return
	}

	text := normalize.Text(it.SearchText())
	unit := normalize.Text(it.Unit)
	scores := ScoreAll(text, unit, e.rules)

	if winner, ok := Resolve(scores, e.rules); ok {
		applyCategory(it, winner.Category, model.SourceRules, winner.Confidence())
		summary.ByRules++
		return
	}

	if e.fallback != nil {
		if suggestion := e.consultFallback(ctx, it); suggestion != nil {
			applyCategory(it, suggestion.Category, model.SourceFallback, suggestion.Confidence)
			summary.ByFallback++
			return
		}
	}

	if mode == model.ModeReclassifyAll {
		clearCategory(it)
	}
}

// consultFallback asks the AI fallback for a suggestion. Errors and
// unknown categories degrade to "no suggestion"; an unclassified item is
// a normal outcome, not a failure.
func (e *ClassificationEngine) consultFallback(ctx context.Context, it *model.Item) *service.FallbackSuggestion {
	suggestion, err := e.fallback.SuggestCategory(ctx, *it, e.categories)
	if err != nil {
		slog.Warn("Fallback classification failed",
			"item_id", it.ID,
			"error", err)
		return nil
	}
	if suggestion == nil || suggestion.Category == "" {
		return nil
	}

	for _, c := range e.categories {
		if c == suggestion.Category {
			return suggestion
		}
	}

	slog.Warn("Fallback suggested unknown category, ignoring",
		"item_id", it.ID,
		"category", suggestion.Category)
	return nil
}

func (e *ClassificationEngine) lookupOverride(ctx context.Context, code string) *model.OverrideEntry {
	if e.overrides == nil || code == "" {
		return nil
	}

	entry, err := e.overrides.GetOverride(ctx, normalize.Code(code))
	if err != nil {
		slog.Warn("Override lookup failed", "code", code, "error", err)
		return nil
	}
	return entry
}

func applyCategory(it *model.Item, category string, source model.CategorySource, confidence float64) {
	it.Category = category
	it.CategorySource = source
	it.Confidence = confidence
}

func clearCategory(it *model.Item) {
	it.Category = ""
	it.CategorySource = ""
	it.Confidence = 0
}

// sortedOrder returns item indices ordered by sheet, then row position.
func sortedOrder(items []model.Item) []int {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := items[order[a]], items[order[b]]
		if ia.Sheet != ib.Sheet {
			return ia.Sheet < ib.Sheet
		}
		return ia.RowPosition < ib.RowPosition
	})
	return order
}
