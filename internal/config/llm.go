package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/stavsoft/boqflow/internal/llm"
)

// LoadLLMConfig assembles the AI fallback configuration. Precedence is
// viper (config file or BOQFLOW_ env vars) first, then the conventional
// OPENAI_API_KEY environment variable.
func LoadLLMConfig() llm.Config {
	cfg := llm.Config{
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if v := viper.GetDuration("llm.timeout"); v > 0 {
		cfg.Timeout = v
	}
	if v := viper.GetDuration("llm.cache_ttl"); v > 0 {
		cfg.CacheTTL = v
	}
	if v := viper.GetDuration("llm.retry_delay"); v > 0 {
		cfg.RetryDelay = v
	} else if cfg.MaxRetries > 0 {
		cfg.RetryDelay = time.Second
	}

	return cfg
}
