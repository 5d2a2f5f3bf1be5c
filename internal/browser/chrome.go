package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runger/omnibar/internal/catalog"
)

// DefaultHistoryLimit caps the number of history entries read per source.
const DefaultHistoryLimit = 1000

// ChromeBookmarks reads the Bookmarks JSON file of a Chromium profile.
type ChromeBookmarks struct {
	Profile string
}

// Compile-time check that ChromeBookmarks implements Source.
var _ Source = (*ChromeBookmarks)(nil)

// Name implements Source.
func (b *ChromeBookmarks) Name() string { return "chrome-bookmarks" }

// Category implements Source.
func (b *ChromeBookmarks) Category() catalog.Category { return catalog.CategoryBookmark }

type bookmarkNode struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	URL      string         `json:"url"`
	Children []bookmarkNode `json:"children"`
}

type bookmarksFile struct {
	Roots map[string]bookmarkNode `json:"roots"`
}

// bookmarkRoots lists the roots in the order the browser shows them.
var bookmarkRoots = []string{"bookmark_bar", "other", "synced"}

// Fetch parses the bookmark tree. A missing file yields no bookmarks.
func (b *ChromeBookmarks) Fetch(ctx context.Context) ([]catalog.Item, error) {
	if b.Profile == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(b.Profile, "Bookmarks")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chrome bookmarks: %w", err)
	}

	var file bookmarksFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("chrome bookmarks %s: %w", path, err)
	}

	var items []catalog.Item
	for _, name := range bookmarkRoots {
		root, ok := file.Roots[name]
		if !ok {
			continue
		}
		items = b.walk(items, root, root.Name)
	}
	return items, nil
}

// walk appends every url node below n in depth-first order.
func (b *ChromeBookmarks) walk(dst []catalog.Item, n bookmarkNode, folder string) []catalog.Item {
	for _, child := range n.Children {
		switch child.Type {
		case "url":
			if child.URL == "" {
				continue
			}
			dst = append(dst, catalog.Item{
				ID:       "chrome:" + child.ID,
				Title:    child.Name,
				URL:      child.URL,
				Category: catalog.CategoryBookmark,
				Folder:   folder,
				Source:   b.Name(),
			})
		case "folder":
			dst = b.walk(dst, child, joinFolder(folder, child.Name))
		}
	}
	return dst
}

func joinFolder(parent, name string) string {
	switch {
	case parent == "":
		return name
	case name == "":
		return parent
	default:
		return parent + "/" + name
	}
}

// ChromeHistory reads the History database of a Chromium profile.
type ChromeHistory struct {
	Profile string
	Limit   int
	// TempDir receives the working copy of the database; empty means os.TempDir.
	TempDir string
}

// Compile-time check that ChromeHistory implements Source.
var _ Source = (*ChromeHistory)(nil)

// Name implements Source.
func (h *ChromeHistory) Name() string { return "chrome-history" }

// Category implements Source.
func (h *ChromeHistory) Category() catalog.Category { return catalog.CategoryHistory }

const chromeHistoryQuery = `
SELECT id, url, COALESCE(title, ''), visit_count, last_visit_time
FROM urls
WHERE hidden = 0
ORDER BY last_visit_time DESC
LIMIT ?`

// Fetch returns the most recently visited pages, newest first. A profile
// without a History database yields nothing.
func (h *ChromeHistory) Fetch(ctx context.Context) ([]catalog.Item, error) {
	if h.Profile == "" {
		return nil, nil
	}
	path := filepath.Join(h.Profile, "History")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	db, cleanup, err := openSnapshotDB(ctx, path, h.TempDir)
	if err != nil {
		return nil, fmt.Errorf("chrome history: %w", err)
	}
	defer cleanup()

	rows, err := db.QueryContext(ctx, chromeHistoryQuery, limitOrDefault(h.Limit))
	if err != nil {
		return nil, fmt.Errorf("chrome history: query: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var (
			id, visits, lastVisit int64
			u, title              string
		)
		if err := rows.Scan(&id, &u, &title, &visits, &lastVisit); err != nil {
			return nil, fmt.Errorf("chrome history: scan: %w", err)
		}
		if IsInternalURL(u) {
			continue
		}
		items = append(items, catalog.Item{
			ID:         fmt.Sprintf("chrome:%d", id),
			Title:      titleOrURL(title, u),
			URL:        u,
			Category:   catalog.CategoryHistory,
			VisitCount: int(visits),
			LastVisit:  fromWebKit(lastVisit),
			Source:     h.Name(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chrome history: %w", err)
	}
	return items, nil
}

func limitOrDefault(n int) int {
	if n <= 0 {
		return DefaultHistoryLimit
	}
	return n
}

// chromeProfileCandidates lists default profile directories of Chromium
// based browsers relative to the user config dir, most common first.
var chromeProfileCandidates = []string{
	"Google/Chrome/Default",
	"google-chrome/Default",
	"chromium/Default",
	"Chromium/Default",
	"BraveSoftware/Brave-Browser/Default",
	"Microsoft Edge/Default",
	"microsoft-edge/Default",
	"Arc/User Data/Default",
}

// DetectChromeProfile returns the first existing default Chromium profile
// under the user's config directory, or "" when none is found.
func DetectChromeProfile() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, rel := range chromeProfileCandidates {
		dir := filepath.Join(base, filepath.FromSlash(rel))
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
