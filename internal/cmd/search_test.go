package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/runger/omnibar/internal/catalog"
)

func withSearchFlags(t *testing.T, jsonOut bool, limit int, cats []string) {
	t.Helper()
	searchJSON, searchLimit, searchCategories = jsonOut, limit, cats
	t.Cleanup(func() {
		searchJSON, searchLimit, searchCategories = false, 0, nil
	})
}

func TestRunSearch_GroupsByCategory(t *testing.T) {
	withTestEnv(t, staticCollector{snap: testSnapshot()})
	withSearchFlags(t, false, 0, nil)

	output := captureStdout(t, func() {
		if err := runSearch(searchCmd, []string{"go.dev"}); err != nil {
			t.Fatalf("runSearch error: %v", err)
		}
	})

	if !strings.Contains(output, "Bookmarks") || !strings.Contains(output, "History") {
		t.Fatalf("expected bookmark and history headings, got %q", output)
	}
	if strings.Contains(output, "Tabs\n") {
		t.Errorf("empty tab group should not be printed, got %q", output)
	}
	if strings.Index(output, "Bookmarks") > strings.Index(output, "History") {
		t.Errorf("bookmarks should be listed before history, got %q", output)
	}
}

func TestRunSearch_ShortQueryNotice(t *testing.T) {
	withTestEnv(t, staticCollector{snap: testSnapshot()})
	withSearchFlags(t, false, 0, nil)

	output := captureStdout(t, func() {
		if err := runSearch(searchCmd, []string{"go"}); err != nil {
			t.Fatalf("runSearch error: %v", err)
		}
	})

	if !strings.Contains(output, "Type at least 3 characters to search") {
		t.Errorf("expected short query notice, got %q", output)
	}
}

func TestRunSearch_NoResults(t *testing.T) {
	withTestEnv(t, staticCollector{snap: testSnapshot()})
	withSearchFlags(t, false, 0, nil)

	output := captureStdout(t, func() {
		if err := runSearch(searchCmd, []string{"zzzzqqq"}); err != nil {
			t.Fatalf("runSearch error: %v", err)
		}
	})

	if !strings.Contains(output, "No results found.") {
		t.Errorf("expected no results message, got %q", output)
	}
}

func TestRunSearch_JSON(t *testing.T) {
	withTestEnv(t, staticCollector{snap: testSnapshot()})
	withSearchFlags(t, true, 0, []string{"bookmarks"})

	output := captureStdout(t, func() {
		if err := runSearch(searchCmd, []string{"documentation"}); err != nil {
			t.Fatalf("runSearch error: %v", err)
		}
	})

	var resp searchResponse
	if err := json.Unmarshal([]byte(output), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", output, err)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %+v", resp)
	}
	got := resp.Results[0]
	if got.Category != string(catalog.CategoryBookmark) || got.URL != "https://go.dev/doc/" {
		t.Errorf("unexpected result %+v", got)
	}
	if got.Folder != "bookmark_bar/dev" {
		t.Errorf("folder = %q, want bookmark_bar/dev", got.Folder)
	}
}

func TestRunSearch_LimitPerCategory(t *testing.T) {
	var tabs []catalog.Item
	for _, id := range []string{"a", "b", "c", "d"} {
		tabs = append(tabs, catalog.Item{ID: id, Title: "Project " + id, URL: "https://example.com/" + id})
	}
	withTestEnv(t, staticCollector{snap: catalog.NewSnapshot(tabs, nil, nil)})
	withSearchFlags(t, true, 2, nil)

	output := captureStdout(t, func() {
		if err := runSearch(searchCmd, []string{"project"}); err != nil {
			t.Fatalf("runSearch error: %v", err)
		}
	})

	var resp searchResponse
	if err := json.Unmarshal([]byte(output), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", output, err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
}

func TestRunSearch_UnknownCategory(t *testing.T) {
	withTestEnv(t, staticCollector{snap: testSnapshot()})
	withSearchFlags(t, false, 0, []string{"downloads"})

	if err := runSearch(searchCmd, []string{"github"}); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer title", 10, "much lo..."},
		{"日本語のタイトル", 6, "日本語..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
