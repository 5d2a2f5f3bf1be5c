package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/runger/omnibar/internal/browser"
	"github.com/runger/omnibar/internal/catalog"
	"github.com/runger/omnibar/internal/config"
)

// staticCollector serves a fixed snapshot without touching any browser.
type staticCollector struct {
	snap    *catalog.Snapshot
	reports []browser.SourceReport
}

func (c staticCollector) Collect(context.Context) (*catalog.Snapshot, []browser.SourceReport) {
	return c.snap, c.reports
}

func (c staticCollector) Endpoints() []*browser.DevToolsClient { return nil }

type recordingOpener struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (o *recordingOpener) Open(_ context.Context, url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, url)
	return o.err
}

func (o *recordingOpener) opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.urls...)
}

// withTestEnv isolates config and log paths in a temp dir and replaces the
// collector and opener used by commands.
func withTestEnv(t *testing.T, c staticCollector) *recordingOpener {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir+"/config")
	t.Setenv("XDG_DATA_HOME", dir+"/data")
	t.Setenv("XDG_CACHE_HOME", dir+"/cache")
	for _, name := range []string{
		"OMNIBAR_DEBUG", "OMNIBAR_LOG_LEVEL", "OMNIBAR_DEVTOOLS",
		"OMNIBAR_TABS_FILE", "OMNIBAR_CHROME_PROFILE", "OMNIBAR_FIREFOX_PROFILE",
	} {
		t.Setenv(name, "")
	}

	opener := &recordingOpener{}
	oldCollector, oldOpener, oldMode := newCollector, newOpener, colorMode
	newCollector = func(*config.Config, *config.Paths, *slog.Logger) snapshotCollector { return c }
	newOpener = func(*config.Config) browser.Opener { return opener }
	colorMode = "never"

	t.Cleanup(func() {
		newCollector, newOpener, colorMode = oldCollector, oldOpener, oldMode
	})
	return opener
}

// testSnapshot is a small snapshot shared by command tests.
func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot(
		[]catalog.Item{
			{ID: "t1", Title: "GitHub - runger/omnibar", URL: "https://github.com/runger/omnibar"},
			{ID: "t2", Title: "Inbox", URL: "https://mail.example.com/"},
		},
		[]catalog.Item{
			{ID: "chrome:1", Title: "Go Documentation", URL: "https://go.dev/doc/", Folder: "bookmark_bar/dev"},
		},
		[]catalog.Item{
			{ID: "chrome:10", Title: "Effective Go", URL: "https://go.dev/doc/effective_go", VisitCount: 3},
		},
	)
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()
	_ = w.Close()
	os.Stdout = old
	out := <-outC
	_ = r.Close()
	return out
}
