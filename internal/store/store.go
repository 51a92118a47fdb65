// Package store reads, creates and rewrites single rmnd config files.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/go-ports/rmnd/internal/apperr"
	"github.com/go-ports/rmnd/internal/config"
	"github.com/go-ports/rmnd/internal/models"
)

const fileMode = 0o644

// Load reads and decodes the config file at path and stamps its Path field.
// Unreadable files (including missing ones) wrap apperr.ErrIO; files that do
// not decode or fail validation wrap apperr.ErrCorruptConfig.
func Load(path string) (*models.ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store.Load %s: %w: %w", path, apperr.ErrIO, err)
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("store.Load %s: %w: %w", path, apperr.ErrCorruptConfig, err)
	}
	cfg.Path = path

	slog.Debug("loaded config", "path", path,
		"reminders", len(cfg.Reminders), "priorities", len(cfg.Priorities))
	return cfg, nil
}

// EnsureGlobal makes sure the global config directory and file exist and
// returns the loaded global config. A missing file is created with
// models.DefaultGlobal content; anything other than a regular file at the
// expected location wraps apperr.ErrPathConflict.
func EnsureGlobal(dir string) (*models.ConfigFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store.EnsureGlobal: create dir: %w: %w", apperr.ErrIO, err)
	}
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, fmt.Errorf("store.EnsureGlobal: resolve dir: %w: %w", apperr.ErrIO, err)
	}
	if canonical, err = filepath.Abs(canonical); err != nil {
		return nil, fmt.Errorf("store.EnsureGlobal: resolve dir: %w: %w", apperr.ErrIO, err)
	}
	path := config.Paths{Dir: canonical}.GlobalFile()

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg := models.DefaultGlobal()
		cfg.Path = path
		if err := Persist(cfg); err != nil {
			return nil, err
		}
		slog.Debug("created global config", "path", path)
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("store.EnsureGlobal: %w: %w", apperr.ErrIO, err)
	case !info.Mode().IsRegular():
		return nil, fmt.Errorf("store.EnsureGlobal: something other than a file exists at %s, the global config location: %w",
			path, apperr.ErrPathConflict)
	}

	return Load(path)
}

// Persist encodes cfg and atomically replaces the file at cfg.Path: the new
// content is written to a temporary file in the same directory which is then
// renamed over the target. cfg.Path must be set.
func Persist(cfg *models.ConfigFile) error {
	if cfg.Path == "" {
		panic("store.Persist: config has no path")
	}

	data, err := encode(cfg)
	if err != nil {
		return fmt.Errorf("store.Persist %s: %w", cfg.Path, err)
	}
	if err := writeAtomic(cfg.Path, data); err != nil {
		return fmt.Errorf("store.Persist %s: %w: %w", cfg.Path, apperr.ErrIO, err)
	}

	slog.Debug("wrote config", "path", cfg.Path, "bytes", len(data))
	return nil
}

// Create writes cfg as a new file at path and stamps cfg.Path.
func Create(path string, cfg *models.ConfigFile) error {
	cfg.Path = path
	return Persist(cfg)
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

func decode(data []byte) (*models.ConfigFile, error) {
	var cfg models.ConfigFile
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func encode(cfg *models.ConfigFile) ([]byte, error) {
	out := *cfg
	out.Normalize()

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(&out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), fileMode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
