package picker

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestMatchSpans_Substring(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 2}, {7, 9}}, matchSpans("Go and go", "go"))
	assert.Equal(t, [][2]int{{4, 7}}, matchSpans("the Git book", "GIT"))
}

func TestMatchSpans_QuotesMetacharacters(t *testing.T) {
	assert.Equal(t, [][2]int{{2, 5}}, matchSpans("a c++ b", "c++"))
}

func TestMatchSpans_Subsequence(t *testing.T) {
	spans := matchSpans("axbxc", "abc")
	assert.Equal(t, [][2]int{{0, 1}, {2, 3}, {4, 5}}, spans)
}

func TestMatchSpans_NoMatch(t *testing.T) {
	assert.Nil(t, matchSpans("hello", "xyz"))
	assert.Nil(t, matchSpans("hello", ""))
	assert.Nil(t, matchSpans("", "x"))
}

func TestHighlight_PreservesText(t *testing.T) {
	plain := lipgloss.NewStyle()
	for _, tc := range []struct{ text, query string }{
		{"Go Documentation", "doc"},
		{"axbxc", "abc"},
		{"nothing here", "zzz"},
		{"café crème", "crè"},
	} {
		assert.Equal(t, tc.text, highlight(tc.text, tc.query, plain, plain), tc.text)
	}
}
