// Package config provides configuration management for omnibar.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths locates omnibar's files on disk.
type Paths struct {
	ConfigDir string // config.yaml and env
	DataDir   string // logs
	CacheDir  string // picker lock, copies of browser databases
}

// DefaultPaths resolves the XDG base directories, or %APPDATA% and
// %LOCALAPPDATA% on Windows, each with an "omnibar" subdirectory.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		roaming := envOr("APPDATA", filepath.Join(home, "AppData", "Roaming"))
		local := envOr("LOCALAPPDATA", filepath.Join(home, "AppData", "Local"))
		return &Paths{
			ConfigDir: filepath.Join(roaming, appName),
			DataDir:   filepath.Join(local, appName),
			CacheDir:  filepath.Join(local, appName, "cache"),
		}
	}

	return &Paths{
		ConfigDir: filepath.Join(envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config")), appName),
		DataDir:   filepath.Join(envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share")), appName),
		CacheDir:  filepath.Join(envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache")), appName),
	}
}

const appName = "omnibar"

// envOr returns $name, or fallback when it is unset or empty.
func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// EnvFile returns the path to the optional dotenv file.
func (p *Paths) EnvFile() string {
	return filepath.Join(p.ConfigDir, "env")
}

// LogDir returns the path to the log directory.
func (p *Paths) LogDir() string {
	return filepath.Join(p.DataDir, "logs")
}

// LogFile returns the path to the log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogDir(), "omnibar.log")
}

// LockFile returns the path to the picker's advisory lock file.
func (p *Paths) LockFile() string {
	return filepath.Join(p.CacheDir, "picker.lock")
}

// TempDir returns the directory browser databases are copied into before
// they are read.
func (p *Paths) TempDir() string {
	return filepath.Join(p.CacheDir, "db")
}

// EnsureDirectories creates every directory omnibar writes to.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.CacheDir, p.LogDir(), p.TempDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("USERPROFILE")
	}
	return os.Getenv("HOME")
}
