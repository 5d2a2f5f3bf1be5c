package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/omnibar/internal/browser"
	"github.com/runger/omnibar/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Short:   "Check configuration and browser sources",
	GroupID: groupSetup,
	Long: `Run diagnostic checks on your omnibar setup.

This command checks:
- Data directories
- Configuration validity
- Every configured tab, bookmark and history source

Examples:
  omnibar doctor`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type checkResult struct {
	name    string
	status  string // "ok", "warn", "error"
	message string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	applyColorMode()

	fmt.Printf("%somnibar Doctor%s\n", colorBold, colorReset)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println()

	results := make([]checkResult, 0, 16)
	results = append(results, checkDirectories(config.DefaultPaths())...)

	cfgResult, cfg := checkConfiguration()
	results = append(results, cfgResult)

	if cfg != nil {
		e, err := openEnv("doctor")
		if err != nil {
			results = append(results, checkResult{name: "Sources", status: "error", message: err.Error()})
		} else {
			_, reports := e.snapshot(commandContext(cmd))
			e.closeLog()
			results = append(results, checkSources(reports)...)
		}
	}

	hasErrors := false
	hasWarnings := false

	for _, r := range results {
		var statusIcon string
		switch r.status {
		case "ok":
			statusIcon = colorGreen + "[OK]" + colorReset
		case "warn":
			statusIcon = colorYellow + "[WARN]" + colorReset
			hasWarnings = true
		case "error":
			statusIcon = colorRed + "[ERROR]" + colorReset
			hasErrors = true
		}

		fmt.Printf("  %s %s\n", statusIcon, r.name)
		if r.message != "" {
			fmt.Printf("       %s%s%s\n", colorDim, r.message, colorReset)
		}
	}

	fmt.Println()

	if hasErrors {
		fmt.Printf("%sSome checks failed. Please fix the errors above.%s\n", colorRed, colorReset)
		return fmt.Errorf("doctor found errors")
	}

	if hasWarnings {
		fmt.Printf("%sAll critical checks passed, but there are warnings.%s\n", colorYellow, colorReset)
	} else {
		fmt.Printf("%sAll checks passed!%s\n", colorGreen, colorReset)
	}

	return nil
}

func checkDirectories(paths *config.Paths) []checkResult {
	dirs := []struct {
		name string
		path string
	}{
		{"Config directory", paths.ConfigDir},
		{"Data directory", paths.DataDir},
		{"Cache directory", paths.CacheDir},
	}

	results := make([]checkResult, 0, len(dirs))
	for _, d := range dirs {
		_, err := os.Stat(d.path)
		switch {
		case os.IsNotExist(err):
			results = append(results, checkResult{
				name:    d.name,
				status:  "warn",
				message: fmt.Sprintf("Missing: %s (will be created when needed)", d.path),
			})
		case err != nil:
			results = append(results, checkResult{
				name:    d.name,
				status:  "error",
				message: fmt.Sprintf("Error accessing: %s", d.path),
			})
		default:
			results = append(results, checkResult{name: d.name, status: "ok", message: d.path})
		}
	}
	return results
}

func checkConfiguration() (checkResult, *config.Config) {
	cfg, err := config.Load()
	if err != nil {
		return checkResult{
			name:    "Configuration",
			status:  "error",
			message: err.Error(),
		}, nil
	}
	if err := cfg.Validate(); err != nil {
		return checkResult{
			name:    "Configuration",
			status:  "error",
			message: err.Error(),
		}, nil
	}
	return checkResult{
		name:    "Configuration",
		status:  "ok",
		message: config.DefaultPaths().ConfigFile(),
	}, cfg
}

// checkSources turns per-source reports into check results. A failing source
// is a warning since the others still work; no source at all is an error.
func checkSources(reports []browser.SourceReport) []checkResult {
	if len(reports) == 0 {
		return []checkResult{{
			name:    "Sources",
			status:  "error",
			message: "no tab, bookmark or history source is configured",
		}}
	}

	results := make([]checkResult, 0, len(reports))
	for _, r := range reports {
		name := fmt.Sprintf("%s (%s)", r.Name, r.Category)
		if r.Err != nil {
			results = append(results, checkResult{name: name, status: "warn", message: r.Err.Error()})
			continue
		}
		results = append(results, checkResult{
			name:    name,
			status:  "ok",
			message: fmt.Sprintf("%d items in %dms", r.Count, r.Took.Milliseconds()),
		})
	}
	return results
}
