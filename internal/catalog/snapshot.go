package catalog

import (
	"time"

	"github.com/runger/omnibar/internal/fuzzy"
)

// Snapshot is the read-only set of items captured when an overlay session
// opens. Nothing in this package mutates a Snapshot after construction.
type Snapshot struct {
	Tabs      []Item
	Bookmarks []Item
	History   []Item
	TakenAt   time.Time
}

// NewSnapshot builds a Snapshot, stamping every item with its category.
// The input slices are copied.
func NewSnapshot(tabs, bookmarks, history []Item) *Snapshot {
	return &Snapshot{
		Tabs:      stamp(tabs, CategoryTab),
		Bookmarks: stamp(bookmarks, CategoryBookmark),
		History:   stamp(history, CategoryHistory),
		TakenAt:   time.Now(),
	}
}

func stamp(items []Item, c Category) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		it.Category = c
		out[i] = it
	}
	return out
}

// Items returns the collection for a category.
func (s *Snapshot) Items(c Category) []Item {
	if s == nil {
		return nil
	}
	switch c {
	case CategoryTab:
		return s.Tabs
	case CategoryBookmark:
		return s.Bookmarks
	case CategoryHistory:
		return s.History
	default:
		return nil
	}
}

// Len returns the total number of items across categories.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Tabs) + len(s.Bookmarks) + len(s.History)
}

// Search ranks each requested category independently. With no categories
// given, all of them are searched.
func (s *Snapshot) Search(query string, categories ...Category) Results {
	if len(categories) == 0 {
		categories = Categories
	}
	res := Results{Query: query}
	for _, c := range categories {
		res.set(c, fuzzy.Search(s.Items(c), query))
	}
	return res
}

// Results holds the ranked hits of one query, per category.
type Results struct {
	Query     string
	Tabs      []fuzzy.Result[Item]
	Bookmarks []fuzzy.Result[Item]
	History   []fuzzy.Result[Item]
}

// For returns the hits for a category.
func (r Results) For(c Category) []fuzzy.Result[Item] {
	switch c {
	case CategoryTab:
		return r.Tabs
	case CategoryBookmark:
		return r.Bookmarks
	case CategoryHistory:
		return r.History
	default:
		return nil
	}
}

func (r *Results) set(c Category, hits []fuzzy.Result[Item]) {
	switch c {
	case CategoryTab:
		r.Tabs = hits
	case CategoryBookmark:
		r.Bookmarks = hits
	case CategoryHistory:
		r.History = hits
	}
}

// Limit caps every category at n hits. n <= 0 means no cap.
func (r Results) Limit(n int) Results {
	if n <= 0 {
		return r
	}
	r.Tabs = capHits(r.Tabs, n)
	r.Bookmarks = capHits(r.Bookmarks, n)
	r.History = capHits(r.History, n)
	return r
}

func capHits(hits []fuzzy.Result[Item], n int) []fuzzy.Result[Item] {
	if len(hits) > n {
		return hits[:n]
	}
	return hits
}

// Flatten returns all hits in display order: tabs, bookmarks, history.
func (r Results) Flatten() []fuzzy.Result[Item] {
	out := make([]fuzzy.Result[Item], 0, r.Len())
	out = append(out, r.Tabs...)
	out = append(out, r.Bookmarks...)
	out = append(out, r.History...)
	return out
}

// Len returns the total number of hits.
func (r Results) Len() int {
	return len(r.Tabs) + len(r.Bookmarks) + len(r.History)
}
