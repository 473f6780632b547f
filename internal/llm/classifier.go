package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stavsoft/boqflow/internal/common"
	"github.com/stavsoft/boqflow/internal/model"
	"github.com/stavsoft/boqflow/internal/normalize"
	"github.com/stavsoft/boqflow/internal/service"
)

// FallbackClassifier implements the engine's fallback interface on top
// of an LLM API client.
type FallbackClassifier struct {
	client    Client
	cache     *suggestionCache
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

// NewFallbackClassifier creates a new LLM-backed fallback classifier.
func NewFallbackClassifier(cfg Config, logger *slog.Logger) (*FallbackClassifier, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &FallbackClassifier{
		client:    client,
		cache:     newSuggestionCache(cfg.CacheTTL),
		logger:    logger,
		retryOpts: retryOpts,
	}, nil
}

// SuggestCategory asks the LLM to pick a work-group category for one
// item. Only the configured category ids are offered; the engine still
// validates the answer against its rule table.
func (f *FallbackClassifier) SuggestCategory(ctx context.Context, item model.Item, categories []string) (*service.FallbackSuggestion, error) {
	cacheKey := normalize.Text(item.SearchText())
	if cacheKey == "" {
		return nil, nil
	}

	if cached, found := f.cache.get(cacheKey); found {
		f.logger.Debug("cache hit for item", "item_id", item.ID)
		return toSuggestion(cached), nil
	}

	prompt := buildPrompt(item, categories)

	var response ClassificationResponse
	err := common.WithRetry(ctx, func() error {
		var classifyErr error
		response, classifyErr = f.client.Classify(ctx, prompt)
		return classifyErr
	}, f.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("fallback classification failed: %w", err)
	}

	f.cache.set(cacheKey, response)
	return toSuggestion(response), nil
}

func toSuggestion(r ClassificationResponse) *service.FallbackSuggestion {
	return &service.FallbackSuggestion{
		Category:   r.Category,
		Confidence: r.Confidence,
		Evidence:   r.Evidence,
	}
}

// buildPrompt renders the classification request for one item.
func buildPrompt(item model.Item, categories []string) string {
	var b strings.Builder

	b.WriteString("Classify this construction bill-of-quantities item into exactly one work group.\n\n")
	fmt.Fprintf(&b, "Description: %s\n", item.Description)
	if item.FullDescription != "" && item.FullDescription != item.Description {
		fmt.Fprintf(&b, "Details: %s\n", item.FullDescription)
	}
	if item.Unit != "" {
		fmt.Fprintf(&b, "Unit: %s\n", item.Unit)
	}
	if item.Code != "" {
		fmt.Fprintf(&b, "Code: %s\n", item.Code)
	}

	b.WriteString("\nAvailable work groups:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	b.WriteString("\nRespond with JSON: {\"category\": \"<work group id>\", " +
		"\"confidence\": <0-100>, \"evidence\": [\"<matched term>\", ...]}\n")
	b.WriteString("Use only the listed work group ids.")

	return b.String()
}
