package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunConfig_ListsAllKeys(t *testing.T) {
	withTestEnv(t, staticCollector{})

	output := captureStdout(t, func() {
		if err := runConfig(configCmd, nil); err != nil {
			t.Fatalf("runConfig error: %v", err)
		}
	})

	for _, key := range []string{
		"browser.devtools_endpoints",
		"browser.chrome_profile",
		"search.min_query_len",
		"picker.debounce_ms",
		"log.level",
	} {
		if !strings.Contains(output, key) {
			t.Errorf("expected key %q in output", key)
		}
	}
	for _, section := range []string{"[browser]", "[search]", "[picker]", "[log]"} {
		if !strings.Contains(output, section) {
			t.Errorf("expected section heading %q", section)
		}
	}
	if !strings.Contains(output, "(not set)") {
		t.Errorf("empty values should be shown as (not set), got %q", output)
	}
}

func TestRunConfig_Get(t *testing.T) {
	withTestEnv(t, staticCollector{})

	output := captureStdout(t, func() {
		if err := runConfig(configCmd, []string{"search.max_per_category"}); err != nil {
			t.Fatalf("runConfig error: %v", err)
		}
	})

	if strings.TrimSpace(output) != "5" {
		t.Errorf("output = %q, want 5", output)
	}
}

func TestRunConfig_SetPersists(t *testing.T) {
	withTestEnv(t, staticCollector{})

	output := captureStdout(t, func() {
		if err := runConfig(configCmd, []string{"search.max_per_category", "8"}); err != nil {
			t.Fatalf("runConfig error: %v", err)
		}
	})
	if !strings.Contains(output, "search.max_per_category: 5 -> 8") {
		t.Errorf("expected old and new value, got %q", output)
	}

	data, err := os.ReadFile(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "omnibar", "config.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "max_per_category: 8") {
		t.Errorf("config file missing new value:\n%s", data)
	}

	output = captureStdout(t, func() {
		if err := runConfig(configCmd, []string{"search.max_per_category"}); err != nil {
			t.Fatalf("runConfig error: %v", err)
		}
	})
	if strings.TrimSpace(output) != "8" {
		t.Errorf("reloaded value = %q, want 8", output)
	}
}

func TestRunConfig_SetRejectsInvalid(t *testing.T) {
	withTestEnv(t, staticCollector{})

	if err := runConfig(configCmd, []string{"log.level", "verbose"}); err == nil {
		t.Error("expected error for invalid log level")
	}
	if err := runConfig(configCmd, []string{"unknown.key", "x"}); err == nil {
		t.Error("expected error for unknown key")
	}
}
