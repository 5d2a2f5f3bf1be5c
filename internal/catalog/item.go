// Package catalog defines the items the quick-switcher searches over and the
// per-session snapshot that holds them.
package catalog

import (
	"fmt"
	"time"
)

// Category identifies which collection an item came from.
type Category string

const (
	CategoryTab      Category = "tab"
	CategoryBookmark Category = "bookmark"
	CategoryHistory  Category = "history"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryTab, CategoryBookmark, CategoryHistory}

// ParseCategory converts user input ("tabs", "bookmark", ...) into a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "tab", "tabs":
		return CategoryTab, nil
	case "bookmark", "bookmarks":
		return CategoryBookmark, nil
	case "history":
		return CategoryHistory, nil
	default:
		return "", fmt.Errorf("unknown category %q (must be tabs, bookmarks, or history)", s)
	}
}

// Label returns the plural heading used when rendering a category.
func (c Category) Label() string {
	switch c {
	case CategoryTab:
		return "Tabs"
	case CategoryBookmark:
		return "Bookmarks"
	case CategoryHistory:
		return "History"
	default:
		return string(c)
	}
}

// Item is one searchable record. ID is unique within its Category and stable
// for the lifetime of the snapshot that holds it. Everything after URL is
// informational and never consulted by scoring.
type Item struct {
	ID       string   `json:"id"`
	Title    string   `json:"title,omitempty"`
	URL      string   `json:"url"`
	Category Category `json:"category"`

	Pinned     bool      `json:"pinned,omitempty"`
	WindowID   string    `json:"window_id,omitempty"`
	Folder     string    `json:"folder,omitempty"`
	VisitCount int       `json:"visit_count,omitempty"`
	LastVisit  time.Time `json:"last_visit,omitempty"`
	FaviconURL string    `json:"favicon_url,omitempty"`

	// Source names the browser/profile the item was read from. Actions on a
	// tab are routed back to the endpoint that listed it.
	Source string `json:"source,omitempty"`
}

// SearchTitle implements fuzzy.Searchable.
func (it Item) SearchTitle() string { return it.Title }

// SearchURL implements fuzzy.Searchable.
func (it Item) SearchURL() string { return it.URL }

// DisplayTitle returns the title, falling back to the URL when empty.
func (it Item) DisplayTitle() string {
	if it.Title != "" {
		return it.Title
	}
	return it.URL
}

// Text returns the combined searchable text ("title url") used for
// highlighting.
func (it Item) Text() string {
	if it.Title == "" {
		return it.URL
	}
	return it.Title + " " + it.URL
}
