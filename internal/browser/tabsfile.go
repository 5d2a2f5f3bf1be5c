package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/runger/omnibar/internal/catalog"
)

// TabsFile reads the tab list a companion browser extension dumps to disk.
// The file holds a JSON array of objects with id, title, url, pinned,
// windowId and favIconUrl, the shape of chrome.tabs.Tab.
type TabsFile struct {
	Path string
}

// Compile-time check that TabsFile implements Source.
var _ Source = (*TabsFile)(nil)

// Name implements Source.
func (f *TabsFile) Name() string { return "tabs-file" }

// Category implements Source.
func (f *TabsFile) Category() catalog.Category { return catalog.CategoryTab }

type dumpedTab struct {
	ID         flexID `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Pinned     bool   `json:"pinned"`
	WindowID   flexID `json:"windowId"`
	FaviconURL string `json:"favIconUrl"`
}

// flexID accepts both numeric and string identifiers.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

// Fetch reads the dump. A missing file yields no tabs and no error.
func (f *TabsFile) Fetch(ctx context.Context) ([]catalog.Item, error) {
	if f.Path == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tabs file: %w", err)
	}

	var dumped []dumpedTab
	if err := json.Unmarshal(data, &dumped); err != nil {
		return nil, fmt.Errorf("tabs file %s: %w", f.Path, err)
	}

	items := make([]catalog.Item, 0, len(dumped))
	for _, t := range dumped {
		if t.ID == "" {
			continue
		}
		items = append(items, catalog.Item{
			ID:         string(t.ID),
			Title:      t.Title,
			URL:        t.URL,
			Category:   catalog.CategoryTab,
			Pinned:     t.Pinned,
			WindowID:   string(t.WindowID),
			FaviconURL: t.FaviconURL,
			Source:     f.Name(),
		})
	}
	return items, nil
}
