package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavsoft/boqflow/internal/model"
)

func TestConfirmOverride(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes word", "yes\n", true},
		{"czech yes", "ano\n", true},
		{"no", "n\n", false},
		{"empty defaults to no", "\n", false},
		{"garbage defaults to no", "maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.ConfirmOverride(context.Background(), "231112", "beton_monolit")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "231112")
		})
	}
}

func TestConfirmOverrideCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPrompter(strings.NewReader("y\n"), &bytes.Buffer{})
	_, err := p.ConfirmOverride(ctx, "231112", "beton_monolit")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfirmDestructive(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("yes\n"), &out)

	ok, err := p.ConfirmDestructive(context.Background(), "Clearing all overrides")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Clearing all overrides")
}

func TestRenderSummary(t *testing.T) {
	var out bytes.Buffer
	summary := model.Summary{
		Total:        10,
		ByOverride:   2,
		ByRules:      4,
		ByCascade:    3,
		Unclassified: 1,
	}

	require.NoError(t, RenderSummary(&out, summary))

	s := out.String()
	assert.Contains(t, s, "Items processed:  10")
	assert.Contains(t, s, "Unclassified")
}
