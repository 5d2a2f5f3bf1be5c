package browser

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runger/omnibar/internal/catalog"
)

// placesDB is the Firefox database holding both bookmarks and history.
const placesDB = "places.sqlite"

// FirefoxBookmarks reads bookmarks from a Firefox profile.
type FirefoxBookmarks struct {
	Profile string
	TempDir string
}

// Compile-time check that FirefoxBookmarks implements Source.
var _ Source = (*FirefoxBookmarks)(nil)

// Name implements Source.
func (b *FirefoxBookmarks) Name() string { return "firefox-bookmarks" }

// Category implements Source.
func (b *FirefoxBookmarks) Category() catalog.Category { return catalog.CategoryBookmark }

// Bookmark type 1 is a URL; the parent join yields the containing folder.
const firefoxBookmarksQuery = `
SELECT b.id, COALESCE(b.title, ''), p.url, COALESCE(f.title, '')
FROM moz_bookmarks b
JOIN moz_places p ON p.id = b.fk
LEFT JOIN moz_bookmarks f ON f.id = b.parent
WHERE b.type = 1 AND p.url NOT LIKE 'place:%'
ORDER BY b.parent, b.position`

// Fetch returns every URL bookmark of the profile.
func (b *FirefoxBookmarks) Fetch(ctx context.Context) ([]catalog.Item, error) {
	db, cleanup, err := openPlaces(ctx, b.Profile, b.TempDir)
	if err != nil || db == nil {
		return nil, wrapFirefox("bookmarks", err)
	}
	defer cleanup()

	rows, err := db.QueryContext(ctx, firefoxBookmarksQuery)
	if err != nil {
		return nil, fmt.Errorf("firefox bookmarks: query: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var (
			id               int64
			title, u, folder string
		)
		if err := rows.Scan(&id, &title, &u, &folder); err != nil {
			return nil, fmt.Errorf("firefox bookmarks: scan: %w", err)
		}
		items = append(items, catalog.Item{
			ID:       fmt.Sprintf("firefox:%d", id),
			Title:    title,
			URL:      u,
			Category: catalog.CategoryBookmark,
			Folder:   folder,
			Source:   b.Name(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("firefox bookmarks: %w", err)
	}
	return items, nil
}

// FirefoxHistory reads recently visited pages from a Firefox profile.
type FirefoxHistory struct {
	Profile string
	Limit   int
	TempDir string
}

// Compile-time check that FirefoxHistory implements Source.
var _ Source = (*FirefoxHistory)(nil)

// Name implements Source.
func (h *FirefoxHistory) Name() string { return "firefox-history" }

// Category implements Source.
func (h *FirefoxHistory) Category() catalog.Category { return catalog.CategoryHistory }

const firefoxHistoryQuery = `
SELECT id, url, COALESCE(title, ''), visit_count, last_visit_date
FROM moz_places
WHERE hidden = 0 AND last_visit_date IS NOT NULL
ORDER BY last_visit_date DESC
LIMIT ?`

// Fetch returns visited pages, newest first.
func (h *FirefoxHistory) Fetch(ctx context.Context) ([]catalog.Item, error) {
	db, cleanup, err := openPlaces(ctx, h.Profile, h.TempDir)
	if err != nil || db == nil {
		return nil, wrapFirefox("history", err)
	}
	defer cleanup()

	rows, err := db.QueryContext(ctx, firefoxHistoryQuery, limitOrDefault(h.Limit))
	if err != nil {
		return nil, fmt.Errorf("firefox history: query: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var (
			id, visits, lastVisit int64
			u, title              string
		)
		if err := rows.Scan(&id, &u, &title, &visits, &lastVisit); err != nil {
			return nil, fmt.Errorf("firefox history: scan: %w", err)
		}
		if IsInternalURL(u) {
			continue
		}
		items = append(items, catalog.Item{
			ID:         fmt.Sprintf("firefox:%d", id),
			Title:      titleOrURL(title, u),
			URL:        u,
			Category:   catalog.CategoryHistory,
			VisitCount: int(visits),
			LastVisit:  fromUnixMicro(lastVisit),
			Source:     h.Name(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("firefox history: %w", err)
	}
	return items, nil
}

// openPlaces opens a copy of the profile's places database. It returns a nil
// database and no error when the profile is unset or has no database.
func openPlaces(ctx context.Context, profile, tmpRoot string) (*sql.DB, func(), error) {
	if profile == "" {
		return nil, nil, nil
	}
	path := filepath.Join(profile, placesDB)
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		return nil, nil, nil
	}
	sqlDB, cleanup, err := openSnapshotDB(ctx, path, tmpRoot)
	if err != nil {
		return nil, nil, err
	}
	return sqlDB, cleanup, nil
}

func wrapFirefox(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("firefox %s: %w", what, err)
}

// firefoxProfileGlobs match default profile directories, newest naming first.
var firefoxProfileGlobs = []string{
	"~/.mozilla/firefox/*.default-release",
	"~/.mozilla/firefox/*.default",
	"~/Library/Application Support/Firefox/Profiles/*.default-release",
	"~/Library/Application Support/Firefox/Profiles/*.default",
	"~/snap/firefox/common/.mozilla/firefox/*.default",
}

// DetectFirefoxProfile returns the first default Firefox profile that has a
// places database, or "".
func DetectFirefoxProfile() string {
	for _, pattern := range firefoxProfileGlobs {
		matches, _ := filepath.Glob(expandHome(pattern))
		for _, m := range matches {
			if _, err := os.Stat(filepath.Join(m, placesDB)); err == nil {
				return m
			}
		}
	}
	return ""
}
