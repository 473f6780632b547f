package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "czech diacritics stripped",
			input: "Betonáž základů",
			want:  "betonaz zakladu",
		},
		{
			name:  "whitespace collapsed",
			input: "  kotvy \t trvalé \n tyčové  ",
			want:  "kotvy trvale tycove",
		},
		{
			name:  "already plain ascii",
			input: "ocelova konstrukce",
			want:  "ocelova konstrukce",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "mixed case with numbers",
			input: "Beton C 25/30",
			want:  "beton c 25/30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestCode(t *testing.T) {
	assert.Equal(t, "231112", Code(" 231112 "))
	assert.Equal(t, "r-123.4", Code("R-123.4"))
	assert.Equal(t, "prilozka", Code("Příložka"))
	assert.Equal(t, "", Code("   "))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"hloubeni", "jam", "do", "4", "m"}, Tokens("Hloubení jam, do 4 m"))
	assert.Empty(t, Tokens("  ,. "))
}
