// Package fuzzy scores and ranks items against a free-text query.
//
// Scoring is tiered rather than additive: the first tier that matches decides
// the score, so an exact hit always beats a prefix hit, which always beats a
// word-boundary hit, and so on down to a bounded subsequence match.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Tier scores, highest first.
const (
	ScoreExact        = 1.0
	ScorePrefix       = 0.9
	ScoreWordBoundary = 0.75
	ScoreSubstring    = 0.6

	// Subsequence matches land in [scoreSparseFloor, scoreSparseFloor+scoreSparseRange).
	scoreSparseFloor = 0.4
	scoreSparseRange = 0.2

	// maxSpreadFactor bounds how far apart (in runes, per query rune) the
	// characters of a subsequence match may be before it scores 0.
	maxSpreadFactor = 3
)

// Score returns the relevance of text for query in [0,1].
func Score(text, query string) float64 {
	return Compile(query).Score(text)
}

// Query is a query prepared for scoring many texts. The zero Query is the
// empty query.
type Query struct {
	lower    string
	boundary *regexp.Regexp // nil when the query cannot form a pattern
}

// Compile prepares query for repeated scoring.
func Compile(query string) Query {
	q := Query{lower: strings.ToLower(query)}
	if q.lower != "" {
		// Boundaries follow regexp's ASCII \b, so scripts without ASCII word
		// characters never match the word-boundary tier.
		q.boundary, _ = regexp.Compile(`\b` + regexp.QuoteMeta(q.lower) + `\b`)
	}
	return q
}

// Score returns the relevance of text for q in [0,1].
func (q Query) Score(text string) float64 {
	if q.lower == "" {
		return ScoreExact
	}

	lowerText := strings.ToLower(text)

	if lowerText == q.lower {
		return ScoreExact
	}
	if strings.HasPrefix(lowerText, q.lower) {
		return ScorePrefix
	}
	if q.boundary != nil && q.boundary.MatchString(lowerText) {
		return ScoreWordBoundary
	}
	if strings.Contains(lowerText, q.lower) {
		return ScoreSubstring
	}
	return sparseScore(lowerText, q.lower)
}

// sparseScore matches query runes in order anywhere in text and scores the
// match by how tightly the matched runes cluster. Both arguments must already
// be lowercased.
func sparseScore(text, query string) float64 {
	q := []rune(query)
	qi := 0
	first, last := -1, -1

	pos := 0
	for _, r := range text {
		if qi == len(q) {
			break
		}
		if r == q[qi] {
			if first == -1 {
				first = pos
			}
			last = pos
			qi++
		}
		pos++
	}

	if qi < len(q) || first == -1 {
		return 0
	}

	spread := last - first
	maxSpread := utf8.RuneCountInString(query) * maxSpreadFactor
	if spread > maxSpread {
		return 0
	}

	ratio := 1 - float64(spread)/float64(maxSpread)
	if ratio < 0 {
		ratio = 0
	}
	return scoreSparseFloor + ratio*scoreSparseRange
}
