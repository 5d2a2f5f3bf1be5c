package picker

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// matchSpans returns the byte ranges of text to highlight for query.
// Literal case-insensitive occurrences win; when there are none, the
// characters of a subsequence match are highlighted one by one.
func matchSpans(text, query string) [][2]int {
	if query == "" || text == "" {
		return nil
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err == nil {
		if locs := re.FindAllStringIndex(text, -1); len(locs) > 0 {
			spans := make([][2]int, len(locs))
			for i, l := range locs {
				spans[i] = [2]int{l[0], l[1]}
			}
			return spans
		}
	}

	matches := fuzzy.Find(query, []string{text})
	if len(matches) == 0 {
		return nil
	}
	idx := matches[0].MatchedIndexes
	spans := make([][2]int, 0, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(text) {
			continue
		}
		end := i + 1
		for end < len(text) && !isRuneStart(text[end]) {
			end++
		}
		spans = append(spans, [2]int{i, end})
	}
	return spans
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// highlight renders text with the query matches in hl and the rest in base.
func highlight(text, query string, base, hl lipgloss.Style) string {
	spans := matchSpans(text, query)
	if len(spans) == 0 {
		return base.Render(text)
	}

	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s[0] < pos {
			continue
		}
		if s[0] > pos {
			b.WriteString(base.Render(text[pos:s[0]]))
		}
		b.WriteString(hl.Render(text[s[0]:s[1]]))
		pos = s[1]
	}
	if pos < len(text) {
		b.WriteString(base.Render(text[pos:]))
	}
	return b.String()
}
