package picker

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// escapeRE matches terminal escape sequences a hostile page title could
// carry: CSI, OSC (terminated by BEL or ST) and two-byte escapes.
var escapeRE = regexp.MustCompile(`\x1b(?:\[[0-9;?]*[ -/]*[@-~]|\][^\x07\x1b]*(?:\x07|\x1b\\)|[ -/]*[0-~])`)

// controlRE matches runs of C0 and C1 control characters.
var controlRE = regexp.MustCompile(`[\x00-\x1f\x7f\x{80}-\x{9f}]+`)

// Clean makes a page title or URL safe to print on one terminal line.
// Escape sequences are dropped, invalid UTF-8 becomes U+FFFD and control
// characters collapse to a single space.
func Clean(s string) string {
	s = strings.ToValidUTF8(s, "�")
	s = escapeRE.ReplaceAllString(s, "")
	s = controlRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ShortURL drops the parts of a URL that carry no information in a list
// row: the http(s) scheme and a leading "www.".
func ShortURL(u string) string {
	for _, p := range []string{"https://", "http://"} {
		if strings.HasPrefix(u, p) {
			u = u[len(p):]
			break
		}
	}
	return strings.TrimPrefix(u, "www.")
}

// TruncateEnd cuts s to width columns, ending with an ellipsis.
func TruncateEnd(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// TruncateMiddle cuts s to width columns by replacing its middle with an
// ellipsis, so both the host and the last path segment of a URL survive.
// Widths below 3 fall back to TruncateEnd.
func TruncateMiddle(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width < 3 {
		return TruncateEnd(s, width)
	}

	avail := width - runewidth.StringWidth(ellipsis)
	head := runewidth.Truncate(s, (avail+1)/2, "")
	return head + ellipsis + tailWidth(s, avail/2)
}

// tailWidth returns the longest suffix of s at most width columns wide.
func tailWidth(s string, width int) string {
	runes := []rune(s)
	w := 0
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if w+rw > width {
			break
		}
		w += rw
		start = i
	}
	return string(runes[start:])
}
