package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/omnibar/internal/catalog"
	"github.com/runger/omnibar/internal/session"
)

var (
	searchJSON       bool
	searchLimit      int
	searchCategories []string
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search tabs, bookmarks and history",
	GroupID: groupCore,
	Long: `Search open tabs, bookmarks and browsing history.

Results are grouped by category (tabs, bookmarks, history) and ranked by
how well the title or URL matches the query.

Examples:
  omnibar search github                  # Search everything
  omnibar search --category tabs docs    # Only open tabs
  omnibar search --json --limit 10 go    # JSON, up to 10 per category`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum results per category (default from config)")
	searchCmd.Flags().StringSliceVarP(&searchCategories, "category", "c", nil, "categories to search: tabs, bookmarks, history")
	searchCmd.Flags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")

	rootCmd.AddCommand(searchCmd)
}

type searchOutput struct {
	Category string  `json:"category"`
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Score    float64 `json:"score"`
	Folder   string  `json:"folder,omitempty"`
	Source   string  `json:"source,omitempty"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchOutput `json:"results"`
	Total   int            `json:"total"`
	Notice  string         `json:"notice,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	applyColorMode()

	cats, err := parseCategories(searchCategories)
	if err != nil {
		return err
	}

	e, err := openEnv("search")
	if err != nil {
		return err
	}
	defer e.closeLog()

	opts := e.searchOptions()
	opts.Categories = cats
	if searchLimit > 0 {
		opts.MaxPerCategory = searchLimit
	}

	query := strings.TrimSpace(args[0])
	snap, _ := e.snapshot(commandContext(cmd))
	results, notice := session.Evaluate(snap, query, opts)

	if searchJSON {
		return writeSearchJSON(results, notice)
	}

	if notice != "" {
		fmt.Println(notice)
		return nil
	}
	if results.Len() == 0 {
		fmt.Println("No results found.")
		return nil
	}

	printResults(results)
	return nil
}

// printResults prints hits grouped under category headings.
func printResults(results catalog.Results) {
	width := terminalWidth()
	for _, c := range catalog.Categories {
		hits := results.For(c)
		if len(hits) == 0 {
			continue
		}
		fmt.Printf("%s%s%s\n", colorBold, c.Label(), colorReset)
		for _, h := range hits {
			title := truncate(h.Item.DisplayTitle(), width-10)
			fmt.Printf("  %s %s(%.2f)%s\n", title, colorDim, h.Score, colorReset)
			fmt.Printf("    %s%s%s\n", colorCyan, truncate(h.Item.URL, width-4), colorReset)
		}
	}
}

func writeSearchJSON(results catalog.Results, notice string) error {
	hits := results.Flatten()
	output := make([]searchOutput, len(hits))
	for i, h := range hits {
		output[i] = searchOutput{
			Category: string(h.Item.Category),
			ID:       h.Item.ID,
			Title:    h.Item.DisplayTitle(),
			URL:      h.Item.URL,
			Score:    h.Score,
			Folder:   h.Item.Folder,
			Source:   h.Item.Source,
		}
	}

	resp := searchResponse{
		Query:   results.Query,
		Results: output,
		Total:   len(output),
		Notice:  notice,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
