package engine

import (
	"context"

	"github.com/stavsoft/boqflow/internal/model"
	"github.com/stavsoft/boqflow/internal/service"
)

// FallbackClassifier is the optional AI fallback consulted when rule
// scoring leaves a main or section row unclassified. Its suggestions are
// treated exactly like a rule match for cascade purposes and are never
// recorded into the override store.
type FallbackClassifier interface {
	SuggestCategory(ctx context.Context, item model.Item, categories []string) (*service.FallbackSuggestion, error)
}
