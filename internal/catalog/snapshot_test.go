package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *Snapshot {
	return NewSnapshot(
		[]Item{
			{ID: "t1", Title: "Go Playground", URL: "https://go.dev/play"},
			{ID: "t2", Title: "Inbox", URL: "https://mail.example.com"},
		},
		[]Item{
			{ID: "b1", Title: "Go Documentation", URL: "https://go.dev/doc"},
			{ID: "b2", Title: "Recipes", URL: "https://food.example.com"},
		},
		[]Item{
			{ID: "h1", Title: "golang/go issues", URL: "https://github.com/golang/go/issues"},
			{ID: "h2", Title: "", URL: "https://news.example.com"},
		},
	)
}

func TestNewSnapshot_StampsCategories(t *testing.T) {
	in := []Item{{ID: "x", Category: CategoryHistory}}
	s := NewSnapshot(in, nil, nil)

	require.Len(t, s.Tabs, 1)
	assert.Equal(t, CategoryTab, s.Tabs[0].Category)
	assert.Equal(t, CategoryHistory, in[0].Category, "input must not be modified")
	assert.False(t, s.TakenAt.IsZero())
}

func TestSnapshot_Search(t *testing.T) {
	s := testSnapshot()

	res := s.Search("go d")
	require.Len(t, res.Bookmarks, 1)
	assert.Equal(t, "b1", res.Bookmarks[0].Item.ID)
	assert.Empty(t, res.Tabs)
	assert.Equal(t, "go d", res.Query)
}

func TestSnapshot_SearchSelectedCategories(t *testing.T) {
	s := testSnapshot()

	res := s.Search("go", CategoryHistory)
	assert.Empty(t, res.Tabs)
	assert.Empty(t, res.Bookmarks)
	require.Len(t, res.History, 1)
	assert.Equal(t, "h1", res.History[0].Item.ID)
}

func TestSnapshot_EmptyQuery(t *testing.T) {
	s := testSnapshot()

	res := s.Search("")
	assert.Equal(t, 6, res.Len())
	assert.Equal(t, "t1", res.Flatten()[0].Item.ID)
	assert.Equal(t, "h2", res.Flatten()[5].Item.ID)
}

func TestResults_Limit(t *testing.T) {
	s := testSnapshot()

	res := s.Search("").Limit(1)
	assert.Len(t, res.Tabs, 1)
	assert.Len(t, res.Bookmarks, 1)
	assert.Len(t, res.History, 1)

	assert.Equal(t, 6, s.Search("").Limit(0).Len())
}

func TestNilSnapshot(t *testing.T) {
	var s *Snapshot
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Items(CategoryTab))
}

func TestItem_DisplayAndText(t *testing.T) {
	it := Item{URL: "https://x.example"}
	assert.Equal(t, "https://x.example", it.DisplayTitle())
	assert.Equal(t, "https://x.example", it.Text())

	it.Title = "X"
	assert.Equal(t, "X", it.DisplayTitle())
	assert.Equal(t, "X https://x.example", it.Text())
}

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{
		"tab": CategoryTab, "tabs": CategoryTab,
		"bookmark": CategoryBookmark, "bookmarks": CategoryBookmark,
		"history": CategoryHistory,
	} {
		got, err := ParseCategory(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseCategory("downloads")
	assert.Error(t, err)
}
