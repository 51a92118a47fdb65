// Package resolver decides which registered config files apply to a working
// directory.
//
// A registered config at /a/b/rmnd.toml covers /a/b and every directory below
// it. Only files listed in the global config_paths registry are considered,
// with one exception: a config file sitting directly in the working directory
// is always the nearest one.
package resolver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ports/rmnd/internal/apperr"
	"github.com/go-ports/rmnd/internal/config"
	"github.com/go-ports/rmnd/internal/models"
)

// Canonicalize returns the absolute, symlink-free form of p. p must exist.
func Canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Candidate is a registered config whose directory contains the working
// directory.
type Candidate struct {
	Path     string // canonical config file path
	Distance int    // path components between the config's directory and cwd
}

// Candidates returns every registered config covering cwd, in registration
// order. cwd must already be canonical. A registered path that cannot be
// canonicalized is an error.
func Candidates(cwd string, global *models.ConfigFile) ([]Candidate, error) {
	var out []Candidate
	for _, registered := range global.ConfigPaths {
		path, err := Canonicalize(registered)
		if err != nil {
			return nil, fmt.Errorf("resolver: registered config %s: %w: %w", registered, apperr.ErrIO, err)
		}
		distance, ok := depthBelow(filepath.Dir(path), cwd)
		if !ok {
			continue
		}
		out = append(out, Candidate{Path: path, Distance: distance})
	}
	return out, nil
}

// FindNearestLocal returns the config file that is the effective local scope
// for cwd:
//
//  1. cwd/rmnd.toml, if it is a regular file, registered or not;
//  2. otherwise the registered config with the smallest distance to cwd,
//     the first registered one winning ties;
//  3. otherwise the global config itself.
func FindNearestLocal(cwd string, global *models.ConfigFile) (string, error) {
	if global == nil || global.Path == "" {
		return "", fmt.Errorf("resolver: no global config: %w", apperr.ErrUnresolvedScope)
	}

	dir, err := Canonicalize(cwd)
	if err != nil {
		return "", fmt.Errorf("resolver: working directory %s: %w: %w", cwd, apperr.ErrIO, err)
	}

	direct := config.LocalFile(dir)
	if info, err := os.Stat(direct); err == nil && info.Mode().IsRegular() {
		slog.Debug("nearest config is in the working directory", "path", direct)
		return direct, nil
	}

	best, ok, err := nearestRegistered(dir, global)
	if err != nil {
		return "", err
	}
	if !ok {
		slog.Debug("no local config in scope, using global", "cwd", dir)
		return global.Path, nil
	}
	slog.Debug("nearest config resolved", "cwd", dir, "path", best.Path, "distance", best.Distance)
	return best.Path, nil
}

// NearestRegistered returns the registered config closest to cwd, the first
// registered one winning ties. Unlike FindNearestLocal it never returns an
// unregistered cwd/rmnd.toml or the global config; ok is false when no
// registered config covers cwd.
func NearestRegistered(cwd string, global *models.ConfigFile) (path string, ok bool, err error) {
	dir, err := Canonicalize(cwd)
	if err != nil {
		return "", false, fmt.Errorf("resolver: working directory %s: %w: %w", cwd, apperr.ErrIO, err)
	}
	best, ok, err := nearestRegistered(dir, global)
	if err != nil || !ok {
		return "", ok, err
	}
	return best.Path, true, nil
}

// nearestRegistered picks the minimum-distance candidate for the canonical
// dir.
func nearestRegistered(dir string, global *models.ConfigFile) (Candidate, bool, error) {
	candidates, err := Candidates(dir, global)
	if err != nil {
		return Candidate{}, false, err
	}
	if len(candidates) == 0 {
		return Candidate{}, false, nil
	}
	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.Distance < best.Distance {
			best = cand
		}
	}
	return best, true, nil
}

// FindAllInScope returns every registered config covering cwd, in
// registration order.
func FindAllInScope(cwd string, global *models.ConfigFile) ([]string, error) {
	dir, err := Canonicalize(cwd)
	if err != nil {
		return nil, fmt.Errorf("resolver: working directory %s: %w: %w", cwd, apperr.ErrIO, err)
	}
	candidates, err := Candidates(dir, global)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(candidates))
	for i, cand := range candidates {
		out[i] = cand.Path
	}
	return out, nil
}

// depthBelow reports whether dir is container or one of its descendants and,
// if so, how many path components lie between them.
func depthBelow(container, dir string) (int, bool) {
	rel, err := filepath.Rel(container, dir)
	if err != nil {
		return 0, false
	}
	if rel == "." {
		return 0, true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return 0, false
	}
	return len(strings.Split(rel, string(filepath.Separator))), true
}
