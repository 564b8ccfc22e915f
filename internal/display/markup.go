package display

import (
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"unicode"

	"github.com/jmylchreest/ncenter/internal/model"
)

// bodyTags are the markup tags kept in a notification body. Any other tag
// is dropped and its text kept.
var bodyTags = map[string]bool{
	"b": true,
	"i": true,
	"u": true,
}

// spanMarkup wraps escaped text in a Pango span of the given point size.
func spanMarkup(text string, points int, bold bool) string {
	return span(html.EscapeString(text), points, bold)
}

// bodySpanMarkup is spanMarkup for a body that may carry markup.
func bodySpanMarkup(body string, maxLen, points int) string {
	return span(bodyMarkup(body, maxLen), points, false)
}

func span(markup string, points int, bold bool) string {
	weight := "normal"
	if bold {
		weight = "bold"
	}
	return fmt.Sprintf(`<span size="%d" weight="%s">%s</span>`, points*1024, weight, markup)
}

// bodyMarkup turns a notification body into Pango markup holding at most
// maxLen runes of text. A body that is not well formed is shown as plain
// text.
func bodyMarkup(body string, maxLen int) string {
	out, err := sanitizeMarkup(body, maxLen)
	if err != nil {
		return html.EscapeString(model.BodyTruncated(body, maxLen))
	}
	return out
}

func sanitizeMarkup(body string, maxLen int) (string, error) {
	dec := xml.NewDecoder(strings.NewReader("<body>" + body + "</body>"))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity

	var (
		b         strings.Builder
		open      []string
		remaining = maxLen
	)
	for remaining > 0 {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse body markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if bodyTags[t.Name.Local] {
				b.WriteString("<" + t.Name.Local + ">")
				open = append(open, t.Name.Local)
			}
		case xml.EndElement:
			if bodyTags[t.Name.Local] {
				b.WriteString("</" + t.Name.Local + ">")
				open = open[:len(open)-1]
			}
		case xml.CharData:
			text := []rune(collapseSpace(string(t)))
			if len(text) > remaining {
				keep := max(remaining-3, 0)
				b.WriteString(html.EscapeString(string(text[:keep])) + "...")
				remaining = 0
				continue
			}
			remaining -= len(text)
			b.WriteString(html.EscapeString(string(text)))
		}
	}

	// truncation can stop inside a tag
	for i := len(open) - 1; i >= 0; i-- {
		b.WriteString("</" + open[i] + ">")
	}
	return b.String(), nil
}

// collapseSpace folds every whitespace run into a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
