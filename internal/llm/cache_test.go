package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionCache(t *testing.T) {
	cache := newSuggestionCache(time.Minute)

	_, ok := cache.get("betonaz zakladu")
	assert.False(t, ok)

	cache.set("betonaz zakladu", ClassificationResponse{Category: "beton_monolit", Confidence: 85})

	got, ok := cache.get("betonaz zakladu")
	require.True(t, ok)
	assert.Equal(t, "beton_monolit", got.Category)
}

func TestSuggestionCacheExpiry(t *testing.T) {
	cache := newSuggestionCache(time.Millisecond)
	cache.set("k", ClassificationResponse{Category: "zdivo"})

	time.Sleep(5 * time.Millisecond)

	_, ok := cache.get("k")
	assert.False(t, ok)
}
