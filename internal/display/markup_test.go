package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanMarkup(t *testing.T) {
	assert.Equal(t, `<span size="10240" weight="normal">a &amp; b</span>`, spanMarkup("a & b", 10, false))
	assert.Equal(t, `<span size="24576" weight="bold">&lt;b&gt;</span>`, spanMarkup("<b>", 24, true))
}

func TestBodySpanMarkup_KeepsMarkup(t *testing.T) {
	assert.Equal(t, `<span size="8192" weight="normal"><b>done</b> now</span>`,
		bodySpanMarkup("<b>done</b> now", 200, 8))
}

func TestBodyMarkup(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		maxLen int
		want   string
	}{
		{"plain", "plain text", 200, "plain text"},
		{"bold", "<b>bold</b> text", 200, "<b>bold</b> text"},
		{"nested", "<i>a <u>b</u></i>", 200, "<i>a <u>b</u></i>"},
		{"link stripped", `see <a href="https://example.com">docs</a>`, 200, "see docs"},
		{"image dropped", `<img src="a.png" alt="pic"/>x`, 200, "x"},
		{"entities", "a &lt; b &amp; c", 200, "a &lt; b &amp; c"},
		{"whitespace collapsed", "line1\n\n  line2", 200, "line1 line2"},
		{"bare ampersand", "Tom & Jerry", 200, "Tom &amp; Jerry"},
		{"unclosed tag", "<b>unclosed", 200, "&lt;b&gt;unclosed"},
		{"exact length", "abcdef", 6, "abcdef"},
		{"truncated inside tag", "<b>" + strings.Repeat("x", 10) + "</b> tail", 8, "<b>xxxxx...</b>"},
		{"truncated fallback", "a & bbbbbbbbbb", 8, "a &amp; b..."},
		{"zero length", "<b>x</b>", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bodyMarkup(tt.body, tt.maxLen))
		})
	}
}
