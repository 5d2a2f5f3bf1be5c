package browser

import (
	"github.com/runger/omnibar/internal/catalog"
)

// MergeTabs merges tab lists fetched through different strategies by tab
// ID; the first list to contain an ID wins. Internal pages are dropped,
// blank titles fall back to the URL and pinned tabs get a marker prefix.
func MergeTabs(lists ...[]catalog.Item) []catalog.Item {
	seen := make(map[string]bool)
	var merged []catalog.Item

	for _, tabs := range lists {
		for _, t := range tabs {
			if seen[t.ID] || IsInternalURL(t.URL) {
				continue
			}
			seen[t.ID] = true

			t.Category = catalog.CategoryTab
			t.Title = titleOrURL(t.Title, t.URL)
			if t.Pinned {
				t.Title = pinnedPrefix + t.Title
			}
			merged = append(merged, t)
		}
	}
	return merged
}
