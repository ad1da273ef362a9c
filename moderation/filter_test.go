package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const maskChar = '*'

// The dictionary uses specific words to avoid partial collisions
// (e.g., "he" inside "The")
func TestFilter_Mask(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"badger", "snake"}
	filter, err := NewFilter(dictionary, maskChar)
	req.NoError(err)
	req.True(filter.Enabled())

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
		},
		{
			name:     "Multiple occurrences",
			input:    "badger badger",
			expected: "****** ******",
		},
		{
			name:     "Uppercase",
			input:    "BADGER bites",
			expected: "****** bites",
		},
		{
			name:     "Leet speak",
			input:    "a b4dg3r passed by",
			expected: "a ****** passed by",
		},
		{
			name:     "Internal punctuation",
			input:    "B.a.d.g.e.r rocks",
			expected: "*********** rocks",
		},
		{
			name:     "Interleaved spacing",
			input:    "s n a k e",
			expected: "*********",
		},
		{
			name:     "Two censored words in one body",
			input:    "the badger met a snake",
			expected: "the ****** met a *****",
		},
		{
			name:     "Clean body untouched",
			input:    "nothing to see here",
			expected: "nothing to see here",
		},
		{
			name:     "Accented text around the word (UTF-8)",
			input:    "Un été avec un badger",
			expected: "Un été avec un ******",
		},
		{
			name:     "Empty body",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, filter.Mask(tt.input))
		})
	}
}

func TestFilter_Disabled_Without_Words(t *testing.T) {
	req := require.New(t)
	filter, err := NewFilter(nil, maskChar)
	req.NoError(err)

	req.False(filter.Enabled())
	req.Equal("any badger walks free", filter.Mask("any badger walks free"))
}
