// Package config resolves where the global rmnd configuration lives.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigName is the filename of both the global and every local config.
const ConfigName = "rmnd.toml"

// Paths is the resolved location of the global configuration. It is computed
// once at startup and passed explicitly to everything that needs it.
type Paths struct {
	Dir    string // directory holding the global config
	Source string // "flag" or "default"
}

// GlobalFile returns the path of the global config file.
func (p Paths) GlobalFile() string {
	return filepath.Join(p.Dir, ConfigName)
}

// LocalFile returns the path a local config in dir would have.
func LocalFile(dir string) string {
	return filepath.Join(dir, ConfigName)
}

// defaultConfigDir returns ~/.config.
func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return filepath.Abs(path)
}

// ResolveConfigDir returns the global config directory.
// Priority: override (the --config-dir flag) → ~/.config.
func ResolveConfigDir(override string) (Paths, error) {
	if override != "" {
		p, err := normalizePath(override)
		if err != nil {
			return Paths{}, err
		}
		return Paths{Dir: p, Source: "flag"}, nil
	}

	dir, err := defaultConfigDir()
	if err != nil {
		return Paths{}, err
	}
	return Paths{Dir: dir, Source: "default"}, nil
}
