package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/omnibar/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config [key] [value]",
	Short:   "Get or set configuration values",
	GroupID: groupSetup,
	Long: `Get or set omnibar configuration values.

Without arguments, lists all configuration keys.
With one argument, shows the value of that key.
With two arguments, sets the key to the value.

Configuration is stored in ~/.config/omnibar/config.yaml (XDG compliant).
Values may also be overridden through OMNIBAR_* environment variables,
optionally kept in ~/.config/omnibar/env.

Keys are in the format: section.key
Sections: browser, search, picker, log

Examples:
  omnibar config                                   # List all keys
  omnibar config browser.chrome_profile            # Show the Chrome profile
  omnibar config browser.firefox_profile auto      # Detect Firefox
  omnibar config search.max_per_category 8`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	applyColorMode()

	paths := config.DefaultPaths()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch len(args) {
	case 0:
		return listConfig(cfg, paths)
	case 1:
		return getConfig(cfg, args[0])
	default:
		return setConfig(cfg, paths, args[0], args[1])
	}
}

// listConfig prints every key, grouped under its section.
func listConfig(cfg *config.Config, paths *config.Paths) error {
	section := ""
	var failed []string
	for _, key := range config.ListKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			failed = append(failed, key)
			continue
		}

		if s, _, _ := strings.Cut(key, "."); s != section {
			if section != "" {
				fmt.Println()
			}
			section = s
			fmt.Printf("%s[%s]%s\n", colorBold, section, colorReset)
		}
		fmt.Printf("  %s%s%s = %s\n", colorCyan, key, colorReset, displayValue(value))
	}

	if len(failed) > 0 {
		fmt.Printf("\n%sWarning:%s Failed to retrieve keys: %s\n", colorYellow, colorReset, strings.Join(failed, ", "))
	}

	fmt.Printf("\nConfig file: %s\n", paths.ConfigFile())
	return nil
}

func getConfig(cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}
	fmt.Println(displayValue(value))
	return nil
}

// setConfig validates and saves a single change, printing old and new values.
func setConfig(cfg *config.Config, paths *config.Paths, key, value string) error {
	old, err := cfg.Get(key)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := cfg.SaveToFile(paths.ConfigFile()); err != nil {
		return err
	}

	updated, _ := cfg.Get(key)
	fmt.Printf("%s%s%s: %s -> %s\n", colorCyan, key, colorReset, displayValue(old), displayValue(updated))
	fmt.Printf("Saved to: %s\n", paths.ConfigFile())
	return nil
}

func displayValue(v string) string {
	if v == "" {
		return colorDim + "(not set)" + colorReset
	}
	return v
}
