package browser

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/omnibar/internal/catalog"
)

func writePlaces(t *testing.T, profile string) time.Time {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(profile, placesDB))
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE moz_places (
			id INTEGER PRIMARY KEY,
			url LONGVARCHAR,
			title LONGVARCHAR,
			visit_count INTEGER DEFAULT 0,
			hidden INTEGER DEFAULT 0 NOT NULL,
			last_visit_date INTEGER
		)`,
		`CREATE TABLE moz_bookmarks (
			id INTEGER PRIMARY KEY,
			type INTEGER,
			fk INTEGER DEFAULT NULL,
			parent INTEGER,
			position INTEGER,
			title LONGVARCHAR
		)`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	places := [][]any{
		{1, "https://go.dev", "Go", 4, 0, now.Add(-time.Hour).UnixMicro()},
		{2, "https://pkg.go.dev", nil, 2, 0, now.UnixMicro()},
		{3, "https://never.example.com", "Never", 0, 0, nil},
		{4, "place:type=6&sort=14", "Recent tags", 0, 0, nil},
		{5, "https://hidden.example.com", "Hidden", 1, 1, now.UnixMicro()},
	}
	for _, p := range places {
		_, err := db.Exec(`INSERT INTO moz_places (id, url, title, visit_count, hidden, last_visit_date) VALUES (?, ?, ?, ?, ?, ?)`, p...)
		require.NoError(t, err)
	}

	bookmarks := [][]any{
		{10, 2, nil, 0, 0, "toolbar"},
		{11, 1, 1, 10, 0, "Go website"},
		{12, 1, 3, 10, 1, "Never visited"},
		{13, 1, 4, 10, 2, "Smart folder"},
	}
	for _, b := range bookmarks {
		_, err := db.Exec(`INSERT INTO moz_bookmarks (id, type, fk, parent, position, title) VALUES (?, ?, ?, ?, ?, ?)`, b...)
		require.NoError(t, err)
	}
	return now
}

func TestFirefoxHistory_Fetch(t *testing.T) {
	t.Parallel()

	profile := t.TempDir()
	now := writePlaces(t, profile)

	items, err := (&FirefoxHistory{Profile: profile, TempDir: t.TempDir()}).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "firefox:2", items[0].ID)
	assert.Equal(t, "https://pkg.go.dev", items[0].Title)
	assert.Equal(t, now, items[0].LastVisit)
	assert.Equal(t, catalog.CategoryHistory, items[0].Category)
	assert.Equal(t, "firefox-history", items[0].Source)

	assert.Equal(t, "Go", items[1].Title)
	assert.Equal(t, 4, items[1].VisitCount)
}

func TestFirefoxBookmarks_Fetch(t *testing.T) {
	t.Parallel()

	profile := t.TempDir()
	writePlaces(t, profile)

	items, err := (&FirefoxBookmarks{Profile: profile, TempDir: t.TempDir()}).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "firefox:11", items[0].ID)
	assert.Equal(t, "Go website", items[0].Title)
	assert.Equal(t, "https://go.dev", items[0].URL)
	assert.Equal(t, "toolbar", items[0].Folder)
	assert.Equal(t, catalog.CategoryBookmark, items[0].Category)

	assert.Equal(t, "https://never.example.com", items[1].URL)
}

func TestFirefox_NoProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	items, err := (&FirefoxHistory{}).Fetch(ctx)
	assert.NoError(t, err)
	assert.Empty(t, items)

	items, err = (&FirefoxBookmarks{Profile: t.TempDir()}).Fetch(ctx)
	assert.NoError(t, err)
	assert.Empty(t, items)
}
