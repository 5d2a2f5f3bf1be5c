// Package browser collects tabs, bookmarks and history from locally running
// or installed browsers and carries out the actions the picker selects.
//
// Every source is best-effort: a browser that is not running, a profile that
// does not exist, or a locked database contributes nothing rather than
// failing the whole snapshot.
package browser

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/runger/omnibar/internal/catalog"
)

var (
	// ErrNoEndpoint is returned when an action needs a DevTools endpoint and
	// none is configured or reachable.
	ErrNoEndpoint = errors.New("no devtools endpoint available")

	// ErrTabNotFound is returned when a tab to activate no longer exists.
	ErrTabNotFound = errors.New("tab not found")
)

// Source produces the items of one category from one place.
type Source interface {
	// Name identifies the source in logs and reports ("chrome-history").
	Name() string
	Category() catalog.Category
	Fetch(ctx context.Context) ([]catalog.Item, error)
}

// internalPrefixes are URL prefixes of browser-internal pages that can be
// neither searched usefully nor navigated to from outside the browser.
var internalPrefixes = []string{
	"chrome://",
	"chrome-extension://",
	"chrome-untrusted://",
	"arc://",
	"about:",
	"devtools://",
	"edge://",
	"brave://",
	"moz-extension://",
}

// IsInternalURL reports whether u is empty or points at a browser-internal page.
func IsInternalURL(u string) bool {
	if u == "" {
		return true
	}
	for _, p := range internalPrefixes {
		if strings.HasPrefix(u, p) {
			return true
		}
	}
	return false
}

// NormalizeURL drops the fragment and a single trailing slash so that two
// spellings of the same page compare equal. Unparseable input is returned
// unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	u.Fragment = ""
	u.RawFragment = ""
	s := u.String()
	return strings.TrimSuffix(s, "/")
}

// pinnedPrefix decorates pinned tab titles.
const pinnedPrefix = "📌 "

// titleOrURL returns title, or u when title is blank.
func titleOrURL(title, u string) string {
	if strings.TrimSpace(title) == "" {
		return u
	}
	return title
}
