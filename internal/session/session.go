// Package session holds the state of one quick-switcher overlay session.
//
// State is a plain value. Every operation takes a State and returns the next
// one; nothing here keeps package-level state, so a caller may hold several
// sessions, replay updates in tests, or discard a session by dropping it.
package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/runger/omnibar/internal/catalog"
	"github.com/runger/omnibar/internal/fuzzy"
)

// Hit is one ranked item in a session's flattened result list.
type Hit = fuzzy.Result[catalog.Item]

// TooShortNotice is shown while the query is non-empty but shorter than
// Options.MinQueryLen.
func TooShortNotice(minLen int) string {
	return fmt.Sprintf("Type at least %d characters to search", minLen)
}

// Options controls how queries are turned into a visible result list.
type Options struct {
	MinQueryLen    int                // Shorter non-empty queries show no results
	MaxPerCategory int                // Cap per category (0 = unlimited)
	EmptyQueryTabs int                // Tabs shown for an empty query
	Categories     []catalog.Category // Categories searched (nil = all)
}

// DefaultOptions returns the overlay defaults.
func DefaultOptions() Options {
	return Options{
		MinQueryLen:    3,
		MaxPerCategory: 5,
		EmptyQueryTabs: 5,
	}
}

// State is the complete state of one overlay session.
type State struct {
	ID       string
	Open     bool
	Snapshot *catalog.Snapshot
	Query    string
	Results  catalog.Results
	Hits     []Hit
	Selected int    // Index into Hits; -1 when nothing is selected
	Notice   string // Message to show instead of results, if any
}

// New returns an open session with no snapshot yet.
func New() State {
	return State{
		ID:       uuid.New().String(),
		Open:     true,
		Selected: -1,
	}
}

// Attach stores the snapshot the session will search. The snapshot is
// captured once per session and never replaced.
func Attach(s State, snap *catalog.Snapshot) State {
	if s.Snapshot != nil {
		return s
	}
	s.Snapshot = snap
	return s
}

// Close ends the session and drops everything it held.
func Close(s State) State {
	return State{ID: s.ID, Selected: -1}
}

// Evaluate computes the visible results for query against snap. It is pure
// and safe to run off the UI goroutine.
func Evaluate(snap *catalog.Snapshot, query string, opts Options) (catalog.Results, string) {
	if snap == nil {
		return catalog.Results{Query: query}, ""
	}

	if query == "" {
		if !wants(opts.Categories, catalog.CategoryTab) {
			return catalog.Results{Query: query}, ""
		}
		tabs := fuzzy.Search(snap.Tabs, "")
		if opts.EmptyQueryTabs > 0 && len(tabs) > opts.EmptyQueryTabs {
			tabs = tabs[:opts.EmptyQueryTabs]
		}
		return catalog.Results{Query: query, Tabs: tabs}, ""
	}

	if len([]rune(query)) < opts.MinQueryLen {
		return catalog.Results{Query: query}, TooShortNotice(opts.MinQueryLen)
	}

	return snap.Search(query, opts.Categories...).Limit(opts.MaxPerCategory), ""
}

func wants(categories []catalog.Category, c catalog.Category) bool {
	if len(categories) == 0 {
		return true
	}
	for _, x := range categories {
		if x == c {
			return true
		}
	}
	return false
}

// Apply installs the results of a query. When neither the query nor the
// ordered list of item IDs changed, the previous selection is kept;
// otherwise the selection is cleared.
func Apply(s State, results catalog.Results, notice string) State {
	hits := results.Flatten()
	unchanged := s.Query == results.Query && sameItems(s.Hits, hits)

	s.Query = results.Query
	s.Results = results
	s.Hits = hits
	s.Notice = notice
	if !unchanged {
		s.Selected = -1
	}
	return s
}

// Search evaluates query against the session snapshot and applies the result.
func Search(s State, query string, opts Options) State {
	results, notice := Evaluate(s.Snapshot, query, opts)
	return Apply(s, results, notice)
}

func sameItems(a, b []Hit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Item.Category != b[i].Item.Category || a[i].Item.ID != b[i].Item.ID {
			return false
		}
	}
	return true
}

// Down moves the selection one row down, stopping at the last hit.
func Down(s State) State {
	if s.Selected < len(s.Hits)-1 {
		s.Selected++
	}
	return s
}

// Up moves the selection one row up. Moving up from the first hit clears the
// selection.
func Up(s State) State {
	if s.Selected > -1 {
		s.Selected--
	}
	return s
}

// Selection returns the selected item, if any.
func Selection(s State) (catalog.Item, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Hits) {
		return catalog.Item{}, false
	}
	return s.Hits[s.Selected].Item, true
}
