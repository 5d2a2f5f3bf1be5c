package fuzzy

import "sort"

const (
	// MinScore is the lowest combined score an item may have and still be
	// returned by Search.
	MinScore = 0.5

	// URLWeight discounts URL matches relative to title matches.
	URLWeight = 0.8
)

// Searchable is anything with a title and a URL to match against.
type Searchable interface {
	SearchTitle() string
	SearchURL() string
}

// Result pairs an item with its combined score for one query.
type Result[T any] struct {
	Item  T
	Score float64
}

// Search scores every item against query and returns the ones scoring at
// least MinScore, best first. Items with equal scores keep their input order.
// An empty query returns every item with score 1 in input order.
//
// items is never modified; the returned slice is freshly allocated.
func Search[T Searchable](items []T, query string) []Result[T] {
	if query == "" {
		results := make([]Result[T], len(items))
		for i, item := range items {
			results[i] = Result[T]{Item: item, Score: ScoreExact}
		}
		return results
	}

	q := Compile(query)
	results := make([]Result[T], 0, len(items))
	for _, item := range items {
		score := q.Combined(item)
		if score < MinScore {
			continue
		}
		results = append(results, Result[T]{Item: item, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Combined returns max(title score, URL score × URLWeight) for one item.
func Combined(item Searchable, query string) float64 {
	return Compile(query).Combined(item)
}

// Combined returns max(title score, URL score × URLWeight) for one item.
func (q Query) Combined(item Searchable) float64 {
	titleScore := q.Score(item.SearchTitle())
	urlScore := q.Score(item.SearchURL()) * URLWeight
	if urlScore > titleScore {
		return urlScore
	}
	return titleScore
}
