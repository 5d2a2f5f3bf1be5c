package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the omnibar configuration.
type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	Search  SearchConfig  `yaml:"search"`
	Picker  PickerConfig  `yaml:"picker"`
	Log     LogConfig     `yaml:"log"`
}

// BrowserConfig tells omnibar where to collect tabs, bookmarks and history.
type BrowserConfig struct {
	DevToolsEndpoints []string `yaml:"devtools_endpoints"` // Remote-debugging base URLs (http://127.0.0.1:9222)
	TabsFile          string   `yaml:"tabs_file"`          // JSON tab dump written by a companion extension
	ChromeProfile     string   `yaml:"chrome_profile"`     // Dir with Bookmarks and History ("" = auto-detect, "none" = disabled)
	FirefoxProfile    string   `yaml:"firefox_profile"`    // Dir with places.sqlite ("" = disabled, "auto" = detect)
	HistoryLimit      int      `yaml:"history_limit"`      // Most recent history entries per browser
	OpenCommand       string   `yaml:"open_command"`       // Command used to open URLs ("" = platform default)
	TimeoutMs         int      `yaml:"timeout_ms"`         // Per-source fetch timeout
}

// SearchConfig controls how queries are presented.
type SearchConfig struct {
	MinQueryLen    int `yaml:"min_query_len"`    // Shorter non-empty queries show no results
	MaxPerCategory int `yaml:"max_per_category"` // Result cap per category
	EmptyQueryTabs int `yaml:"empty_query_tabs"` // Tabs listed before anything is typed
}

// TabDef defines a tab in the picker. Each tab restricts the categories
// searched.
type TabDef struct {
	ID         string   `yaml:"id"`
	Label      string   `yaml:"label"`
	Categories []string `yaml:"categories"` // Empty = all categories
}

// PickerConfig holds overlay settings.
type PickerConfig struct {
	DebounceMs int      `yaml:"debounce_ms"` // Idle time after a keystroke before searching
	Tabs       []TabDef `yaml:"tabs"`        // Tab definitions
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (overrides default)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			DevToolsEndpoints: []string{"http://127.0.0.1:9222"},
			TabsFile:          "",
			ChromeProfile:     "", // Auto-detect
			FirefoxProfile:    "",
			HistoryLimit:      1000,
			OpenCommand:       "",
			TimeoutMs:         2000,
		},
		Search: SearchConfig{
			MinQueryLen:    3,
			MaxPerCategory: 5,
			EmptyQueryTabs: 5,
		},
		Picker: PickerConfig{
			DebounceMs: 300,
			Tabs: []TabDef{
				{ID: "all", Label: "All"},
				{ID: "tabs", Label: "Tabs", Categories: []string{"tab"}},
				{ID: "bookmarks", Label: "Bookmarks", Categories: []string{"bookmark"}},
				{ID: "history", Label: "History", Categories: []string{"history"}},
			},
		},
		Log: LogConfig{
			Level: "info",
			File:  "", // Use default from paths
		},
	}
}

// Load loads configuration from the default path, after reading the optional
// dotenv file next to it.
func Load() (*Config, error) {
	paths := DefaultPaths()
	if err := LoadEnvFile(paths.EnvFile()); err != nil {
		return nil, err
	}
	return LoadFromFile(paths.ConfigFile())
}

// LoadEnvFile loads KEY=value pairs from path into the process environment.
// Variables already set are left alone. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}
	return nil
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	// Derive directory from path and ensure it exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "search.min_query_len" or "browser.history_limit"
func (c *Config) Get(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "browser":
		return c.getBrowserField(field)
	case "search":
		return c.getSearchField(field)
	case "picker":
		return c.getPickerField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "browser":
		return c.setBrowserField(field, value)
	case "search":
		return c.setSearchField(field, value)
	case "picker":
		return c.setPickerField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) getBrowserField(field string) (string, error) {
	switch field {
	case "devtools_endpoints":
		return strings.Join(c.Browser.DevToolsEndpoints, ","), nil
	case "tabs_file":
		return c.Browser.TabsFile, nil
	case "chrome_profile":
		return c.Browser.ChromeProfile, nil
	case "firefox_profile":
		return c.Browser.FirefoxProfile, nil
	case "history_limit":
		return strconv.Itoa(c.Browser.HistoryLimit), nil
	case "open_command":
		return c.Browser.OpenCommand, nil
	case "timeout_ms":
		return strconv.Itoa(c.Browser.TimeoutMs), nil
	default:
		return "", fmt.Errorf("unknown field: browser.%s", field)
	}
}

func (c *Config) setBrowserField(field, value string) error {
	switch field {
	case "devtools_endpoints":
		c.Browser.DevToolsEndpoints = splitList(value)
	case "tabs_file":
		c.Browser.TabsFile = value
	case "chrome_profile":
		c.Browser.ChromeProfile = value
	case "firefox_profile":
		c.Browser.FirefoxProfile = value
	case "history_limit":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for history_limit: %w", err)
		}
		if v < 0 {
			return errors.New("history_limit must be >= 0")
		}
		c.Browser.HistoryLimit = v
	case "open_command":
		c.Browser.OpenCommand = value
	case "timeout_ms":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for timeout_ms: %w", err)
		}
		if v < 0 {
			return errors.New("timeout_ms must be >= 0")
		}
		c.Browser.TimeoutMs = v
	default:
		return fmt.Errorf("unknown field: browser.%s", field)
	}
	return nil
}

func (c *Config) getSearchField(field string) (string, error) {
	switch field {
	case "min_query_len":
		return strconv.Itoa(c.Search.MinQueryLen), nil
	case "max_per_category":
		return strconv.Itoa(c.Search.MaxPerCategory), nil
	case "empty_query_tabs":
		return strconv.Itoa(c.Search.EmptyQueryTabs), nil
	default:
		return "", fmt.Errorf("unknown field: search.%s", field)
	}
}

func (c *Config) setSearchField(field, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	if v < 0 {
		return fmt.Errorf("%s must be >= 0", field)
	}

	switch field {
	case "min_query_len":
		c.Search.MinQueryLen = v
	case "max_per_category":
		c.Search.MaxPerCategory = v
	case "empty_query_tabs":
		c.Search.EmptyQueryTabs = v
	default:
		return fmt.Errorf("unknown field: search.%s", field)
	}
	return nil
}

func (c *Config) getPickerField(field string) (string, error) {
	switch field {
	case "debounce_ms":
		return strconv.Itoa(c.Picker.DebounceMs), nil
	default:
		return "", fmt.Errorf("unknown field: picker.%s", field)
	}
}

func (c *Config) setPickerField(field, value string) error {
	switch field {
	case "debounce_ms":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for debounce_ms: %w", err)
		}
		if v < 0 {
			v = 0
		}
		if v > 2000 {
			v = 2000
		}
		c.Picker.DebounceMs = v
	default:
		return fmt.Errorf("unknown field: picker.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Browser.HistoryLimit < 0 {
		return errors.New("browser.history_limit must be >= 0")
	}

	if c.Browser.TimeoutMs < 0 {
		return errors.New("browser.timeout_ms must be >= 0")
	}

	if c.Search.MinQueryLen < 0 {
		return errors.New("search.min_query_len must be >= 0")
	}

	if c.Search.MaxPerCategory < 0 {
		return errors.New("search.max_per_category must be >= 0")
	}

	if c.Search.EmptyQueryTabs < 0 {
		return errors.New("search.empty_query_tabs must be >= 0")
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	// Clamp debounce to [0, 2000]
	if c.Picker.DebounceMs < 0 {
		c.Picker.DebounceMs = 0
	}
	if c.Picker.DebounceMs > 2000 {
		c.Picker.DebounceMs = 2000
	}

	if len(c.Picker.Tabs) == 0 {
		c.Picker.Tabs = DefaultConfig().Picker.Tabs
	}
	seen := make(map[string]bool, len(c.Picker.Tabs))
	for _, t := range c.Picker.Tabs {
		if t.ID == "" {
			return errors.New("picker.tabs: every tab needs an id")
		}
		if seen[t.ID] {
			return fmt.Errorf("picker.tabs: duplicate id %q", t.ID)
		}
		seen[t.ID] = true
		for _, cat := range t.Categories {
			if !isValidCategory(cat) {
				return fmt.Errorf("picker.tabs[%s]: unknown category %q", t.ID, cat)
			}
		}
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidCategory(cat string) bool {
	switch cat {
	case "tab", "bookmark", "history":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("OMNIBAR_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("OMNIBAR_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("OMNIBAR_DEVTOOLS"); v != "" {
		c.Browser.DevToolsEndpoints = splitList(v)
	}
	if v := os.Getenv("OMNIBAR_TABS_FILE"); v != "" {
		c.Browser.TabsFile = v
	}
	if v := os.Getenv("OMNIBAR_CHROME_PROFILE"); v != "" {
		c.Browser.ChromeProfile = v
	}
	if v := os.Getenv("OMNIBAR_FIREFOX_PROFILE"); v != "" {
		c.Browser.FirefoxProfile = v
	}
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"browser.devtools_endpoints",
		"browser.tabs_file",
		"browser.chrome_profile",
		"browser.firefox_profile",
		"browser.history_limit",
		"browser.open_command",
		"browser.timeout_ms",
		"search.min_query_len",
		"search.max_per_category",
		"search.empty_query_tabs",
		"picker.debounce_ms",
		"log.level",
		"log.file",
	}
}
