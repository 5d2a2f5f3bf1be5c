package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/omnibar/internal/browser"
	"github.com/runger/omnibar/internal/catalog"
	"github.com/runger/omnibar/internal/config"
	omnilog "github.com/runger/omnibar/internal/log"
	"github.com/runger/omnibar/internal/session"
)

// collectTimeout bounds a whole snapshot collection from the CLI.
const collectTimeout = 10 * time.Second

// snapshotCollector is the part of browser.Collector the commands use.
type snapshotCollector interface {
	Collect(ctx context.Context) (*catalog.Snapshot, []browser.SourceReport)
	Endpoints() []*browser.DevToolsClient
}

// newCollector builds the collector for a command. Tests replace it.
var newCollector = func(cfg *config.Config, paths *config.Paths, logger *slog.Logger) snapshotCollector {
	return browser.FromConfig(&cfg.Browser, paths.TempDir(), logger)
}

// newOpener builds the fallback URL opener. Tests replace it.
var newOpener = func(cfg *config.Config) browser.Opener {
	return browser.CommandOpener{Command: cfg.Browser.OpenCommand}
}

// env is what every browser-facing command needs.
type env struct {
	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	collector snapshotCollector
	closeLog  func()
}

// openEnv loads the configuration and opens the log file. Logging problems
// are reported on stderr and otherwise ignored.
func openEnv(component string) (*env, error) {
	paths := config.DefaultPaths()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = paths.LogFile()
	}
	logger, closer, err := omnilog.OpenFile(logPath, omnilog.ParseLevel(cfg.Log.Level))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%sWarning:%s logging disabled: %v\n", colorYellow, colorReset, err)
	}
	logger = logger.With("component", component)

	return &env{
		cfg:       cfg,
		paths:     paths,
		logger:    logger,
		collector: newCollector(cfg, paths, logger),
		closeLog:  func() { _ = closer() },
	}, nil
}

// snapshot collects a fresh snapshot, bounded by collectTimeout.
func (e *env) snapshot(ctx context.Context) (*catalog.Snapshot, []browser.SourceReport) {
	ctx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()
	return e.collector.Collect(ctx)
}

// searchOptions returns the session options configured for the CLI.
func (e *env) searchOptions() session.Options {
	return session.Options{
		MinQueryLen:    e.cfg.Search.MinQueryLen,
		MaxPerCategory: e.cfg.Search.MaxPerCategory,
		EmptyQueryTabs: e.cfg.Search.EmptyQueryTabs,
	}
}

// actions returns the action dispatcher for this environment.
func (e *env) actions() *browser.Actions {
	return browser.NewActions(e.collector.Endpoints(), newOpener(e.cfg), e.logger)
}

// commandContext returns the command's context, or Background when the
// command was invoked directly rather than through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// parseCategories converts --category values into categories.
func parseCategories(values []string) ([]catalog.Category, error) {
	var cats []catalog.Category
	for _, v := range values {
		c, err := catalog.ParseCategory(v)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, nil
}
