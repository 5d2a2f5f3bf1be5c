package browser

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/omnibar/internal/catalog"
)

const chromeBookmarksJSON = `{
  "roots": {
    "bookmark_bar": {
      "name": "Bookmarks bar", "type": "folder",
      "children": [
        {"id": "5", "name": "Go", "type": "url", "url": "https://go.dev"},
        {"id": "6", "name": "Work", "type": "folder", "children": [
          {"id": "7", "name": "Tracker", "type": "url", "url": "https://tracker.example.com"},
          {"id": "8", "name": "Empty", "type": "url", "url": ""}
        ]}
      ]
    },
    "other": {
      "name": "Other bookmarks", "type": "folder",
      "children": [
        {"id": "9", "name": "Blog", "type": "url", "url": "https://blog.example.com"}
      ]
    },
    "synced": {"name": "Mobile bookmarks", "type": "folder", "children": []}
  },
  "version": 1
}`

func TestChromeBookmarks_Fetch(t *testing.T) {
	t.Parallel()

	profile := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(profile, "Bookmarks"), []byte(chromeBookmarksJSON), 0o600))

	items, err := (&ChromeBookmarks{Profile: profile}).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "chrome:5", items[0].ID)
	assert.Equal(t, "Go", items[0].Title)
	assert.Equal(t, "Bookmarks bar", items[0].Folder)
	assert.Equal(t, catalog.CategoryBookmark, items[0].Category)

	assert.Equal(t, "Tracker", items[1].Title)
	assert.Equal(t, "Bookmarks bar/Work", items[1].Folder)

	assert.Equal(t, "Blog", items[2].Title)
	assert.Equal(t, "Other bookmarks", items[2].Folder)
}

func TestChromeBookmarks_MissingFile(t *testing.T) {
	t.Parallel()

	items, err := (&ChromeBookmarks{Profile: t.TempDir()}).Fetch(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestChromeBookmarks_Malformed(t *testing.T) {
	t.Parallel()

	profile := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(profile, "Bookmarks"), []byte("["), 0o600))

	_, err := (&ChromeBookmarks{Profile: profile}).Fetch(context.Background())
	assert.Error(t, err)
}

// toWebKit converts a time to a Chromium timestamp.
func toWebKit(ts time.Time) int64 {
	return ts.UnixMicro() + webkitEpochOffset
}

func writeChromeHistory(t *testing.T, profile string, rows [][]any) {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(profile, "History"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE urls (
		id INTEGER PRIMARY KEY,
		url LONGVARCHAR,
		title LONGVARCHAR,
		visit_count INTEGER DEFAULT 0 NOT NULL,
		typed_count INTEGER DEFAULT 0 NOT NULL,
		last_visit_time INTEGER NOT NULL,
		hidden INTEGER DEFAULT 0 NOT NULL
	)`)
	require.NoError(t, err)

	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO urls (id, url, title, visit_count, last_visit_time, hidden) VALUES (?, ?, ?, ?, ?, ?)`, r...)
		require.NoError(t, err)
	}
}

func TestChromeHistory_Fetch(t *testing.T) {
	t.Parallel()

	profile := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	writeChromeHistory(t, profile, [][]any{
		{1, "https://go.dev", "Go", 10, toWebKit(now.Add(-time.Hour)), 0},
		{2, "https://pkg.go.dev", nil, 3, toWebKit(now), 0},
		{3, "https://hidden.example.com", "Hidden", 1, toWebKit(now), 1},
		{4, "chrome://settings", "Settings", 1, toWebKit(now.Add(-2 * time.Hour)), 0},
	})

	h := &ChromeHistory{Profile: profile, TempDir: t.TempDir()}
	items, err := h.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "chrome:2", items[0].ID)
	assert.Equal(t, "https://pkg.go.dev", items[0].Title, "blank title falls back to URL")
	assert.Equal(t, now, items[0].LastVisit)
	assert.Equal(t, 3, items[0].VisitCount)
	assert.Equal(t, catalog.CategoryHistory, items[0].Category)

	assert.Equal(t, "Go", items[1].Title)
}

func TestChromeHistory_Limit(t *testing.T) {
	t.Parallel()

	profile := t.TempDir()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var rows [][]any
	for i := 1; i <= 5; i++ {
		rows = append(rows, []any{i, "https://example.com/" + string(rune('a'+i)), "page", 1, toWebKit(base.Add(time.Duration(i) * time.Minute)), 0})
	}
	writeChromeHistory(t, profile, rows)

	items, err := (&ChromeHistory{Profile: profile, Limit: 2, TempDir: t.TempDir()}).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "chrome:5", items[0].ID)
	assert.Equal(t, "chrome:4", items[1].ID)
}

func TestChromeHistory_LeavesNoCopyBehind(t *testing.T) {
	t.Parallel()

	profile := t.TempDir()
	writeChromeHistory(t, profile, nil)
	tmp := t.TempDir()

	_, err := (&ChromeHistory{Profile: profile, TempDir: tmp}).Fetch(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChromeHistory_MissingDatabase(t *testing.T) {
	t.Parallel()

	items, err := (&ChromeHistory{Profile: t.TempDir()}).Fetch(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestFromWebKit(t *testing.T) {
	t.Parallel()

	assert.True(t, fromWebKit(0).IsZero())
	assert.Equal(t, time.Unix(0, 0).UTC(), fromWebKit(webkitEpochOffset))
}

func TestLimitOrDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultHistoryLimit, limitOrDefault(0))
	assert.Equal(t, DefaultHistoryLimit, limitOrDefault(-1))
	assert.Equal(t, 10, limitOrDefault(10))
}
