// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/stavsoft/boqflow/internal/model"
)

// ItemFilter defines filtering options for item queries.
type ItemFilter struct {
	Project      string
	Sheet        string
	Category     string
	Unclassified bool
	Limit        int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Item operations
	SaveItems(ctx context.Context, items []model.Item) error
	GetItems(ctx context.Context, filter ItemFilter) ([]model.Item, error)
	GetItemByID(ctx context.Context, id string) (*model.Item, error)
	UpdateItemClassification(ctx context.Context, item *model.Item) error
	DeleteProjectItems(ctx context.Context, project string) error
	ListProjects(ctx context.Context) ([]string, error)

	// Override store operations
	GetOverride(ctx context.Context, code string) (*model.OverrideEntry, error)
	SaveOverride(ctx context.Context, entry *model.OverrideEntry) error
	GetAllOverrides(ctx context.Context) ([]model.OverrideEntry, error)
	DeleteOverride(ctx context.Context, code string) error
	ClearOverrides(ctx context.Context) error
	CountOverrides(ctx context.Context) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// OverrideStore is the subset of Storage the classification engine needs.
// Lookup happens before rule scoring; Record only ever runs on explicit
// user consent.
type OverrideStore interface {
	GetOverride(ctx context.Context, code string) (*model.OverrideEntry, error)
	SaveOverride(ctx context.Context, entry *model.OverrideEntry) error
}

// FallbackSuggestion is a category proposed by the optional AI fallback.
type FallbackSuggestion struct {
	Category   string
	Evidence   []string
	Confidence float64
}

// CompletionStats shows the results of a classification run.
type CompletionStats struct {
	Duration     time.Duration
	Total        int
	Classified   int
	Unclassified int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
