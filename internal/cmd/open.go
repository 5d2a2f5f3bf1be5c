package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/omnibar/internal/browser"
	"github.com/runger/omnibar/internal/catalog"
	"github.com/runger/omnibar/internal/session"
)

// openTimeout bounds the switch or open request sent to the browser.
const openTimeout = 5 * time.Second

var (
	openPrint      bool
	openCategories []string
)

var openCmd = &cobra.Command{
	Use:     "open <query|url>",
	Short:   "Switch to or open the best match",
	GroupID: groupCore,
	Long: `Switch to or open the best match for a query.

Tabs are activated in place. Bookmarks and history entries switch to a tab
already showing the URL, or open it in a new one. When nothing matches and
the argument is a URL, that URL is opened.

Examples:
  omnibar open github                   # Best match across all categories
  omnibar open -c bookmarks "go docs"   # Best bookmark
  omnibar open --print issues           # Print the URL instead`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().BoolVarP(&openPrint, "print", "p", false, "print the URL instead of opening it")
	openCmd.Flags().StringSliceVarP(&openCategories, "category", "c", nil, "categories to search: tabs, bookmarks, history")

	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	applyColorMode()

	cats, err := parseCategories(openCategories)
	if err != nil {
		return err
	}

	e, err := openEnv("open")
	if err != nil {
		return err
	}
	defer e.closeLog()

	opts := e.searchOptions()
	opts.Categories = cats

	query := strings.TrimSpace(args[0])
	snap, _ := e.snapshot(commandContext(cmd))
	results, notice := session.Evaluate(snap, query, opts)

	item, ok := bestMatch(results)
	if !ok {
		if !looksLikeURL(query) {
			if notice != "" {
				return errors.New(notice)
			}
			return fmt.Errorf("no match for %q", query)
		}
		item = catalog.Item{URL: query}
	}

	if openPrint {
		fmt.Println(item.URL)
		return nil
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), openTimeout)
	defer cancel()

	outcome, err := e.actions().Dispatch(ctx, item)
	if err != nil {
		if errors.Is(err, browser.ErrNoEndpoint) {
			return fmt.Errorf("no browser available to open %s", item.URL)
		}
		return err
	}

	switch outcome {
	case browser.OutcomeSwitched:
		fmt.Printf("%sSwitched to%s %s\n", colorGreen, colorReset, item.DisplayTitle())
	default:
		fmt.Printf("%sOpened%s %s\n", colorGreen, colorReset, item.URL)
	}
	return nil
}

// bestMatch returns the first hit in display order.
func bestMatch(results catalog.Results) (catalog.Item, bool) {
	hits := results.Flatten()
	if len(hits) == 0 {
		return catalog.Item{}, false
	}
	return hits[0].Item, true
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "file://")
}
