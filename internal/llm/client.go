// Package llm implements the optional AI fallback classifier. It is
// consulted only when rule scoring leaves a structural row unclassified,
// and its answers are never recorded into the override store.
package llm

import (
	"context"
	"time"
)

// Client defines the contract for LLM API interactions.
type Client interface {
	Classify(ctx context.Context, prompt string) (ClassificationResponse, error)
}

// ClassificationResponse is the parsed answer from the LLM.
type ClassificationResponse struct {
	Category   string
	Evidence   []string
	Confidence float64 // 0-100
}

// Config holds configuration for the fallback classifier.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}
