package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/runger/omnibar/internal/browser"
	"github.com/runger/omnibar/internal/config"
	omnilog "github.com/runger/omnibar/internal/log"
	"github.com/runger/omnibar/internal/picker"
)

// Version information (set via ldflags during build).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Exit codes.
// These match the expectations of hotkey wrappers:
//
//	0 = selection made and acted on (or printed)
//	1 = cancelled by user
//	2 = fallback (no TTY, lock held, error, etc.)
const (
	exitSuccess   = 0
	exitCancelled = 1
	exitFallback  = 2
)

// maxQueryLen is the maximum length of a query string in bytes.
const maxQueryLen = 4096

// actionTimeout bounds the browser call made for the selection.
const actionTimeout = 5 * time.Second

// pickerOpts holds the parsed command-line options.
type pickerOpts struct {
	tabs    string
	query   string
	print   bool
	help    bool
	version bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the main entry point, returning an exit code.
// It is separated from main() to enable testing.
func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "omnibar-picker: %v\n", err)
		return exitFallback
	}
	if opts.help {
		printUsage(os.Stderr)
		return exitSuccess
	}
	if opts.version {
		printVersion(os.Stdout)
		return exitSuccess
	}

	// Step 1: Check /dev/tty is openable.
	if err := checkTTY(); err != nil {
		fmt.Fprintf(os.Stderr, "omnibar-picker: %v\n", err)
		return exitFallback
	}

	// Step 2: Check TERM != "dumb".
	if err := checkTERM(); err != nil {
		fmt.Fprintf(os.Stderr, "omnibar-picker: %v\n", err)
		return exitFallback
	}

	// Step 3: Check terminal width >= 20 columns.
	if err := checkTermWidth(); err != nil {
		fmt.Fprintf(os.Stderr, "omnibar-picker: %v\n", err)
		return exitFallback
	}

	// Step 4: Ensure state directories exist.
	paths := config.DefaultPaths()
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "omnibar-picker: failed to create directories: %v\n", err)
		return exitFallback
	}

	// Step 5: Acquire advisory file lock so a second hotkey press does not
	// stack overlays.
	lockFd, err := acquireLock(paths.LockFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "omnibar-picker: %v\n", err)
		return exitFallback
	}
	defer releaseLock(lockFd)

	// Step 6: Load config.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "omnibar-picker: failed to load config: %v\n", err)
		return exitFallback
	}

	logger, closeLog := openLog(cfg, paths)
	defer closeLog()

	return runPicker(cfg, paths, opts, logger)
}

// parseFlags parses the command line.
func parseFlags(args []string, stderr io.Writer) (*pickerOpts, error) {
	fs := flag.NewFlagSet("omnibar-picker", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &pickerOpts{}
	fs.StringVar(&opts.tabs, "tabs", "", "comma-separated tab IDs to show")
	fs.StringVar(&opts.query, "query", "", "initial search query (max 4096 bytes)")
	fs.BoolVar(&opts.print, "print", false, "print the selected URL instead of opening it")
	fs.BoolVar(&opts.help, "help", false, "show this help message")
	fs.BoolVar(&opts.version, "version", false, "print version information")

	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Reject unknown positional arguments.
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	sanitized, err := sanitizeQuery(opts.query)
	if err != nil {
		return nil, fmt.Errorf("--query: %w", err)
	}
	opts.query = sanitized

	return opts, nil
}

// sanitizeQuery strips control characters and validates the query string.
func sanitizeQuery(q string) (string, error) {
	if q == "" {
		return "", nil
	}

	// Reject newlines before stripping.
	if strings.ContainsAny(q, "\n\r") {
		return "", fmt.Errorf("query must not contain newlines")
	}

	// Strip control characters (0x00-0x1F, 0x7F).
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		if r <= 0x1F || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	result := b.String()

	// Truncate to maxQueryLen bytes without splitting a rune.
	if len(result) > maxQueryLen {
		cut := maxQueryLen
		for cut > 0 && !isRuneStart(result[cut]) {
			cut--
		}
		result = result[:cut]
	}

	return result, nil
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// resolveTabs picks the configured tabs named in ids, in configured order.
// An empty list, or one naming no known tab, selects every tab.
func resolveTabs(all []config.TabDef, ids string) []config.TabDef {
	if ids == "" {
		return all
	}
	want := make(map[string]bool)
	for _, id := range strings.Split(ids, ",") {
		want[strings.TrimSpace(id)] = true
	}
	var tabs []config.TabDef
	for _, t := range all {
		if want[t.ID] {
			tabs = append(tabs, t)
		}
	}
	if len(tabs) == 0 {
		return all
	}
	return tabs
}

// openLog opens the log file named by the config. Logging failures never
// stop the picker.
func openLog(cfg *config.Config, paths *config.Paths) (*slog.Logger, func()) {
	path := cfg.Log.File
	if path == "" {
		path = paths.LogFile()
	}
	logger, closer, err := omnilog.OpenFile(path, omnilog.ParseLevel(cfg.Log.Level))
	if err != nil {
		fmt.Fprintf(os.Stderr, "omnibar-picker: logging disabled: %v\n", err)
	}
	return logger.With("component", "picker"), func() { _ = closer() }
}

// runPicker runs the overlay and acts on the selection.
func runPicker(cfg *config.Config, paths *config.Paths, opts *pickerOpts, logger *slog.Logger) int {
	collector := browser.FromConfig(&cfg.Browser, paths.TempDir(), logger)

	popts := picker.OptionsFromConfig(cfg)
	popts.Tabs = resolveTabs(cfg.Picker.Tabs, opts.tabs)
	popts.Logger = logger

	model := picker.NewModel(popts, collector)
	if opts.query != "" {
		model = model.WithQuery(opts.query)
	}

	// Open /dev/tty for TUI input/output so stdout stays free for --print.
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "omnibar-picker: cannot open /dev/tty: %v\n", err)
		return exitFallback
	}
	defer tty.Close()

	// Detect color profile from the tty and apply it to the default renderer.
	// SetColorProfile modifies the existing default renderer in-place so
	// package-level styles already created in picker/model.go pick it up.
	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
	)

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "omnibar-picker: TUI error: %v\n", err)
		return exitFallback
	}

	m, ok := finalModel.(picker.Model)
	if !ok {
		fmt.Fprintln(os.Stderr, "omnibar-picker: unexpected model type")
		return exitFallback
	}
	if m.IsCancelled() {
		return exitCancelled
	}

	item, ok := m.Result()
	if !ok {
		return exitCancelled
	}

	if opts.print {
		fmt.Fprintln(os.Stdout, item.URL)
		return exitSuccess
	}

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	actions := browser.NewActions(collector.Endpoints(), browser.CommandOpener{Command: cfg.Browser.OpenCommand}, logger)
	if _, err := actions.Dispatch(ctx, item); err != nil {
		logger.Error("action failed", "session_id", m.SessionID(), "url", item.URL, "error", err)
		fmt.Fprintf(os.Stderr, "omnibar-picker: %v\n", err)
		if errors.Is(err, browser.ErrNoEndpoint) {
			// Let the wrapper open the URL itself.
			fmt.Fprintln(os.Stdout, item.URL)
		}
		return exitFallback
	}
	return exitSuccess
}

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: omnibar-picker [flags]

Search open tabs, bookmarks and history, then switch to or open the selection.

Flags:
  --tabs IDS    Comma-separated tab IDs to show (default: all configured)
  --query TEXT  Initial search query
  --print       Print the selected URL instead of opening it
  --help        Show this help message
  --version     Print version information

Exit codes: 0 selection made, 1 cancelled, 2 fallback`)
}

// printVersion prints version information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "omnibar-picker %s\n", Version)
	fmt.Fprintf(w, "  commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  built:  %s\n", BuildDate)
}
