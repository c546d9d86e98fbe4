package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShort(t *testing.T) {
	assert.Equal(t, []string{"привет"}, splitText("привет", 10))
	assert.Equal(t, []string{""}, splitText("", 10))
}

func TestSplitTextPrefersNewlines(t *testing.T) {
	text := strings.Repeat("а", 6) + "\n" + strings.Repeat("б", 6)
	chunks := splitText(text, 10)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("а", 6), chunks[0])
	assert.Equal(t, strings.Repeat("б", 6), chunks[1])
}

func TestSplitTextHardBreak(t *testing.T) {
	text := strings.Repeat("я", 25)
	chunks := splitText(text, 10)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 10)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}
