package browser

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/runger/omnibar/internal/catalog"
	"github.com/runger/omnibar/internal/config"
	omnilog "github.com/runger/omnibar/internal/log"
)

// profileDisabled turns off profile auto-detection.
const profileDisabled = "none"

// SourceReport describes how one source fared during a collection.
type SourceReport struct {
	Name     string
	Category catalog.Category
	Count    int
	Took     time.Duration
	Err      error
}

// Collector captures snapshots from a fixed set of sources.
type Collector struct {
	sources   []Source
	endpoints []*DevToolsClient
	timeout   time.Duration
	logger    *slog.Logger
}

// NewCollector creates a collector over the given sources. A zero timeout
// leaves each fetch bounded only by the caller's context.
func NewCollector(sources []Source, timeout time.Duration, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = omnilog.Discard()
	}
	c := &Collector{sources: sources, timeout: timeout, logger: logger}
	for _, s := range sources {
		if dt, ok := s.(*DevToolsClient); ok {
			c.endpoints = append(c.endpoints, dt)
		}
	}
	return c
}

// FromConfig builds the collector described by cfg. tmpDir receives
// working copies of browser databases.
func FromConfig(cfg *config.BrowserConfig, tmpDir string, logger *slog.Logger) *Collector {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	httpClient := &http.Client{Timeout: timeout}
	if timeout == 0 {
		httpClient.Timeout = defaultHTTPTimeout
	}

	var sources []Source
	for _, ep := range cfg.DevToolsEndpoints {
		sources = append(sources, NewDevToolsClient(ep, httpClient))
	}
	if cfg.TabsFile != "" {
		sources = append(sources, &TabsFile{Path: expandHome(cfg.TabsFile)})
	}

	if chrome := resolveProfile(cfg.ChromeProfile, DetectChromeProfile, true); chrome != "" {
		sources = append(sources,
			&ChromeBookmarks{Profile: chrome},
			&ChromeHistory{Profile: chrome, Limit: cfg.HistoryLimit, TempDir: tmpDir},
		)
	}
	if firefox := resolveProfile(cfg.FirefoxProfile, DetectFirefoxProfile, false); firefox != "" {
		sources = append(sources,
			&FirefoxBookmarks{Profile: firefox, TempDir: tmpDir},
			&FirefoxHistory{Profile: firefox, Limit: cfg.HistoryLimit, TempDir: tmpDir},
		)
	}

	return NewCollector(sources, timeout, logger)
}

// resolveProfile maps a configured profile to a directory. "none" disables
// the browser and "auto" runs detect. An empty value runs detect only when
// detectWhenEmpty is set.
func resolveProfile(configured string, detect func() string, detectWhenEmpty bool) string {
	switch {
	case configured == profileDisabled:
		return ""
	case configured == "auto", configured == "" && detectWhenEmpty:
		return detect()
	case configured == "":
		return ""
	default:
		return expandHome(configured)
	}
}

// Sources returns the configured sources.
func (c *Collector) Sources() []Source { return c.sources }

// Endpoints returns the DevTools clients among the sources, for Actions.
func (c *Collector) Endpoints() []*DevToolsClient { return c.endpoints }

// Collect fetches every source concurrently and assembles a snapshot.
// Failing sources are logged and contribute nothing; the snapshot itself
// is never nil.
func (c *Collector) Collect(ctx context.Context) (*catalog.Snapshot, []SourceReport) {
	start := time.Now()

	fetched := make([][]catalog.Item, len(c.sources))
	reports := make([]SourceReport, len(c.sources))

	var wg sync.WaitGroup
	for i, src := range c.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			fetched[i], reports[i] = c.fetch(ctx, src)
		}(i, src)
	}
	wg.Wait()

	var tabLists [][]catalog.Item
	var bookmarks, history []catalog.Item
	for i, src := range c.sources {
		if reports[i].Err != nil {
			omnilog.LogSourceFailed(c.logger, src.Name(), reports[i].Err)
			continue
		}
		switch src.Category() {
		case catalog.CategoryTab:
			tabLists = append(tabLists, fetched[i])
		case catalog.CategoryBookmark:
			bookmarks = append(bookmarks, fetched[i]...)
		case catalog.CategoryHistory:
			history = append(history, fetched[i]...)
		}
	}

	snap := catalog.NewSnapshot(MergeTabs(tabLists...), bookmarks, history)
	omnilog.LogSnapshot(c.logger, len(snap.Tabs), len(snap.Bookmarks), len(snap.History), time.Since(start))
	return snap, reports
}

// Load implements the picker's snapshot loader.
func (c *Collector) Load(ctx context.Context) (*catalog.Snapshot, error) {
	snap, _ := c.Collect(ctx)
	return snap, nil
}

func (c *Collector) fetch(ctx context.Context, src Source) ([]catalog.Item, SourceReport) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	items, err := src.Fetch(ctx)
	report := SourceReport{
		Name:     src.Name(),
		Category: src.Category(),
		Count:    len(items),
		Took:     time.Since(start),
		Err:      err,
	}
	if err != nil {
		items = nil
		report.Count = 0
	}
	return items, report
}
