package cmd

import (
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	groupCore  = "core"
	groupSetup = "setup"
)

var rootCmd = &cobra.Command{
	Use:   "omnibar",
	Short: "quick-switcher for browser tabs, bookmarks and history",
	Long: `omnibar - quick-switcher for browser tabs, bookmarks and history
  - fuzzy search across open tabs, bookmarks and recent history
  - switch to the matching tab or open the URL
  - bind omnibar-picker to a hotkey for the interactive overlay`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)
	rootCmd.AddCommand(versionCmd)
}
