package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/google/shlex"

	"github.com/runger/omnibar/internal/catalog"
	omnilog "github.com/runger/omnibar/internal/log"
)

// Outcome reports what an action did.
type Outcome string

const (
	// OutcomeSwitched means an already open tab was brought to the front.
	OutcomeSwitched Outcome = "switched"
	// OutcomeOpened means the URL was opened in a new tab.
	OutcomeOpened Outcome = "opened"
)

// Opener opens a URL outside of DevTools, typically through the desktop.
type Opener interface {
	Open(ctx context.Context, rawURL string) error
}

// CommandOpener runs a shell-style command line with the URL appended.
type CommandOpener struct {
	Command string
}

// DefaultOpenCommand returns the desktop URL handler for the current OS.
func DefaultOpenCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "rundll32 url.dll,FileProtocolHandler"
	default:
		return "xdg-open"
	}
}

// Open starts the command and does not wait for it to exit. ctx only gates
// the start: the command outlives it, since callers cancel their context as
// soon as Open returns.
func (o CommandOpener) Open(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	command := o.Command
	if command == "" {
		command = DefaultOpenCommand()
	}
	args, err := shlex.Split(command)
	if err != nil {
		return fmt.Errorf("open command %q: %w", command, err)
	}
	if len(args) == 0 {
		return fmt.Errorf("open command is empty")
	}

	cmd := exec.Command(args[0], append(args[1:], rawURL)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open command %q: %w", args[0], err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Actions carries out the selection of a picker or CLI search.
type Actions struct {
	endpoints []*DevToolsClient
	opener    Opener
	logger    *slog.Logger
}

// NewActions creates Actions. Any of the arguments may be nil.
func NewActions(endpoints []*DevToolsClient, opener Opener, logger *slog.Logger) *Actions {
	if logger == nil {
		logger = omnilog.Discard()
	}
	return &Actions{endpoints: endpoints, opener: opener, logger: logger}
}

// Dispatch performs the natural action for item: tabs are switched to, all
// other items are navigated to. A tab whose endpoint is gone falls back to
// navigating to its URL.
func (a *Actions) Dispatch(ctx context.Context, item catalog.Item) (Outcome, error) {
	if item.Category == catalog.CategoryTab {
		err := a.SwitchToTab(ctx, item)
		if err == nil {
			return OutcomeSwitched, nil
		}
		if !errors.Is(err, ErrNoEndpoint) && !errors.Is(err, ErrTabNotFound) {
			return "", err
		}
		a.logger.Debug("tab switch fell back to navigate", "tab_id", item.ID, "error", err)
	}
	return a.Navigate(ctx, item.URL)
}

// SwitchToTab activates the tab through the endpoint that listed it.
func (a *Actions) SwitchToTab(ctx context.Context, item catalog.Item) error {
	client := a.clientFor(item.Source)
	if client == nil {
		return ErrNoEndpoint
	}
	if err := client.Activate(ctx, item.ID); err != nil {
		return err
	}
	omnilog.LogAction(a.logger, string(OutcomeSwitched), item.URL)
	return nil
}

// Navigate switches to an open tab showing rawURL or opens it in a new one.
// URLs are compared without fragment and trailing slash.
func (a *Actions) Navigate(ctx context.Context, rawURL string) (Outcome, error) {
	want := NormalizeURL(rawURL)

	var reachable *DevToolsClient
	for _, c := range a.endpoints {
		tabs, err := c.Fetch(ctx)
		if err != nil {
			a.logger.Debug("endpoint unreachable", "source", c.Name(), "error", err)
			continue
		}
		if reachable == nil {
			reachable = c
		}
		for _, t := range tabs {
			if NormalizeURL(t.URL) != want {
				continue
			}
			if err := c.Activate(ctx, t.ID); err != nil {
				return "", err
			}
			omnilog.LogAction(a.logger, string(OutcomeSwitched), rawURL)
			return OutcomeSwitched, nil
		}
	}

	switch {
	case reachable != nil:
		if err := reachable.Open(ctx, rawURL); err != nil {
			return "", err
		}
	case a.opener != nil:
		if err := a.opener.Open(ctx, rawURL); err != nil {
			return "", err
		}
	default:
		return "", ErrNoEndpoint
	}
	omnilog.LogAction(a.logger, string(OutcomeOpened), rawURL)
	return OutcomeOpened, nil
}

func (a *Actions) clientFor(source string) *DevToolsClient {
	for _, c := range a.endpoints {
		if c.Name() == source {
			return c
		}
	}
	return nil
}
