package tgui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"", 5, ""},
		{"abc", 5, "abc"},
		{"abc", 3, "abc"},
		{"abcdef", 3, "abc…"},
		{"привет", 4, "прив…"},
		{"abc", 0, ""},
		{"abc", -1, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncRunes(tt.in, tt.n), "TruncRunes(%q, %d)", tt.in, tt.n)
	}
}

func TestInlineMarkup(t *testing.T) {
	rm := NewInline().
		Row(URLBtn("site", "https://example.org")).
		Row(Btn("toggle", "mailing")).
		Markup()

	assert.Len(t, rm.InlineKeyboard, 2)
	assert.Equal(t, "https://example.org", rm.InlineKeyboard[0][0].URL)
	assert.Equal(t, "mailing", rm.InlineKeyboard[1][0].Data)
}
