package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil // No config file found, return defaults
	}
	return LoadFile(path)
}

// LoadFile parses the file at path, choosing TOML or RC by extension.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cfg, err = ParseTOML(f)
	} else {
		cfg, err = Parse(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	for _, p := range l.candidates() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultSavePath is where "config save" writes when no file exists yet.
func (l *Loader) DefaultSavePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "markview", "config.rc")
}

func (l *Loader) candidates() []string {
	var paths []string
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		paths = append(paths, filepath.Join(wd, ".markviewrc"))
	}
	home, _ := os.UserHomeDir()
	dir := filepath.Join(home, ".config", "markview")
	return append(paths,
		filepath.Join(dir, "config.rc"),
		filepath.Join(dir, "markview.rc"),
		filepath.Join(dir, "config.toml"),
	)
}
