package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/stavsoft/boqflow/internal/config"
	"github.com/stavsoft/boqflow/internal/engine"
	"github.com/stavsoft/boqflow/internal/llm"
	"github.com/stavsoft/boqflow/internal/storage"
)

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newEngine assembles the classification engine over the given store.
// The AI fallback is wired in only when explicitly requested and an API
// key is configured.
func newEngine(store *storage.SQLiteStorage, withFallback bool) (*engine.ClassificationEngine, error) {
	var fallback engine.FallbackClassifier
	if withFallback {
		cfg := config.LoadLLMConfig()
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("AI fallback requested but no API key configured (set llm.api_key or OPENAI_API_KEY)")
		}

		fc, err := llm.NewFallbackClassifier(cfg, slog.Default())
		if err != nil {
			return nil, fmt.Errorf("failed to create fallback classifier: %w", err)
		}
		fallback = fc
	}

	return engine.New(engine.DefaultRules(), store, fallback)
}
