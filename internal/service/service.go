// Package service implements the rmnd operations: aggregating reminders across
// the global and local configs and mutating the right file.
package service

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ports/rmnd/internal/apperr"
	"github.com/go-ports/rmnd/internal/config"
	"github.com/go-ports/rmnd/internal/models"
	"github.com/go-ports/rmnd/internal/resolver"
	"github.com/go-ports/rmnd/internal/store"
)

// Scope selects the config file a mutation targets.
type Scope int

const (
	// ScopeLocal targets the nearest config for the working directory,
	// falling back to the global config.
	ScopeLocal Scope = iota
	// ScopeGlobal targets the global config.
	ScopeGlobal
)

func (s Scope) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "local"
}

// ScopeOf maps a --global flag to a Scope.
func ScopeOf(global bool) Scope {
	if global {
		return ScopeGlobal
	}
	return ScopeLocal
}

// Service runs rmnd operations against the global config in Paths.Dir.
type Service struct {
	Paths config.Paths
}

// New creates a Service. configDir overrides the global config directory;
// when empty it is resolved via config.ResolveConfigDir.
func New(configDir string) (*Service, error) {
	paths, err := config.ResolveConfigDir(configDir)
	if err != nil {
		return nil, fmt.Errorf("service.New: resolve config dir: %w", err)
	}
	return &Service{Paths: paths}, nil
}

// Global returns the global config, creating it on first use.
func (s *Service) Global() (*models.ConfigFile, error) {
	return store.EnsureGlobal(s.Paths.Dir)
}

// ---------------------------------------------------------------------------
// Aggregation
// ---------------------------------------------------------------------------

// AggregateLocal merges the reminders of every config covering cwd, in
// registration order, followed by a config sitting directly in cwd when it is
// not registered, followed by the global config's own reminders. Priorities
// come from the global config only. Any load failure aborts the whole call.
func (s *Service) AggregateLocal(cwd string) (*models.ConfigSum, error) {
	global, err := s.Global()
	if err != nil {
		return nil, err
	}

	paths, err := resolver.FindAllInScope(cwd, global)
	if err != nil {
		return nil, fmt.Errorf("AggregateLocal: %w", err)
	}
	if direct, ok := directConfig(cwd); ok {
		paths = append(paths, direct)
	}

	return s.merge(global, paths)
}

// AggregateAll merges every registered config regardless of cwd, followed by
// the global config's own reminders.
func (s *Service) AggregateAll() (*models.ConfigSum, error) {
	global, err := s.Global()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(global.ConfigPaths))
	for _, registered := range global.ConfigPaths {
		p, err := resolver.Canonicalize(registered)
		if err != nil {
			return nil, fmt.Errorf("AggregateAll: registered config %s: %w: %w", registered, apperr.ErrIO, err)
		}
		paths = append(paths, p)
	}

	return s.merge(global, paths)
}

func (s *Service) merge(global *models.ConfigFile, paths []string) (*models.ConfigSum, error) {
	sum := &models.ConfigSum{
		Priorities: global.Priorities,
		Reminders:  make([]models.LocalReminder, 0),
	}

	seen := map[string]bool{global.Path: true}
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true

		local, err := store.Load(p)
		if err != nil {
			return nil, err
		}
		appendReminders(sum, local)
	}
	appendReminders(sum, global)

	slog.Debug("aggregated reminders", "files", len(seen), "reminders", len(sum.Reminders))
	return sum, nil
}

func appendReminders(sum *models.ConfigSum, cfg *models.ConfigFile) {
	for i, r := range cfg.Reminders {
		sum.Reminders = append(sum.Reminders, models.LocalReminder{Reminder: r, Path: cfg.Path, Index: i + 1})
	}
}

// directConfig returns cwd/rmnd.toml in canonical form if it is a regular file.
func directConfig(cwd string) (string, bool) {
	dir, err := resolver.Canonicalize(cwd)
	if err != nil {
		return "", false
	}
	p := config.LocalFile(dir)
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return p, true
}

// ---------------------------------------------------------------------------
// Reminders
// ---------------------------------------------------------------------------

// target loads the config a scoped mutation applies to.
func (s *Service) target(scope Scope, cwd string) (global, target *models.ConfigFile, err error) {
	global, err = s.Global()
	if err != nil {
		return nil, nil, err
	}
	if scope == ScopeGlobal {
		return global, global, nil
	}

	path, err := resolver.FindNearestLocal(cwd, global)
	if err != nil {
		return nil, nil, err
	}
	if path == global.Path {
		return global, global, nil
	}
	target, err = store.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return global, target, nil
}

// AddResult describes where a reminder was stored.
type AddResult struct {
	Path  string
	Index int
}

// AddReminder appends a reminder to the config selected by scope. The
// priority must exist in the global priority list; otherwise nothing is
// written and the error wraps apperr.ErrUnknownPriority.
func (s *Service) AddReminder(scope Scope, cwd, text, priority, author string) (*AddResult, error) {
	global, target, err := s.target(scope, cwd)
	if err != nil {
		return nil, err
	}

	if _, ok := models.FindPriority(global.Priorities, priority); !ok {
		return nil, fmt.Errorf("AddReminder: could not find an existing priority named %q: %w", priority, apperr.ErrUnknownPriority)
	}

	r := models.Reminder{Priority: priority, Author: author, Text: strings.TrimSpace(text)}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("AddReminder: %w: %w", apperr.ErrInvalidInput, err)
	}

	target.Reminders = append(target.Reminders, r)
	if err := store.Persist(target); err != nil {
		return nil, err
	}
	return &AddResult{Path: target.Path, Index: len(target.Reminders)}, nil
}

// RemoveReminder deletes the reminder at the 1-based index from the config
// selected by scope and returns it.
func (s *Service) RemoveReminder(scope Scope, cwd string, index int) (*models.LocalReminder, error) {
	_, target, err := s.target(scope, cwd)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(target.Reminders) {
		return nil, fmt.Errorf("RemoveReminder: no reminder #%d in %s: %w", index, target.Path, apperr.ErrNotFound)
	}

	removed := target.Reminders[index-1]
	target.Reminders = append(target.Reminders[:index-1], target.Reminders[index:]...)
	if err := store.Persist(target); err != nil {
		return nil, err
	}
	return &models.LocalReminder{Reminder: removed, Path: target.Path, Index: index}, nil
}

// DefaultAuthor returns the author string built from the global settings.
func (s *Service) DefaultAuthor() (string, error) {
	global, err := s.Global()
	if err != nil {
		return "", err
	}
	return global.Settings.Author(), nil
}

// ---------------------------------------------------------------------------
// Priorities
// ---------------------------------------------------------------------------

// Priorities returns the global priority list.
func (s *Service) Priorities() ([]models.Priority, error) {
	global, err := s.Global()
	if err != nil {
		return nil, err
	}
	return global.Priorities, nil
}

// AddPriority appends a priority to the global config. Names are not checked
// for uniqueness.
func (s *Service) AddPriority(name string, color models.Color) (*models.Priority, error) {
	global, err := s.Global()
	if err != nil {
		return nil, err
	}

	p := models.Priority{Name: strings.TrimSpace(name), ID: models.PlaceholderID, Color: color}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("AddPriority: %w: %w", apperr.ErrInvalidInput, err)
	}

	global.Priorities = append(global.Priorities, p)
	if err := store.Persist(global); err != nil {
		return nil, err
	}
	return &p, nil
}

// RemovePriority deletes every global priority named name. Reminders that
// reference it are kept and render uncoloured.
func (s *Service) RemovePriority(name string) (int, error) {
	global, err := s.Global()
	if err != nil {
		return 0, err
	}

	kept := make([]models.Priority, 0, len(global.Priorities))
	for _, p := range global.Priorities {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	removed := len(global.Priorities) - len(kept)
	if removed == 0 {
		return 0, fmt.Errorf("RemovePriority: %q: %w", name, apperr.ErrNotFound)
	}

	global.Priorities = kept
	if err := store.Persist(global); err != nil {
		return 0, err
	}
	return removed, nil
}

// ---------------------------------------------------------------------------
// Locations
// ---------------------------------------------------------------------------

// Locations describes how configs resolve for a working directory.
type Locations struct {
	Global     string
	Source     string
	Nearest    string
	InScope    []string
	Registered []string
}

// Locations resolves the global, nearest and in-scope configs for cwd.
func (s *Service) Locations(cwd string) (*Locations, error) {
	global, err := s.Global()
	if err != nil {
		return nil, err
	}
	nearest, err := resolver.FindNearestLocal(cwd, global)
	if err != nil {
		return nil, err
	}
	inScope, err := resolver.FindAllInScope(cwd, global)
	if err != nil {
		return nil, err
	}
	return &Locations{
		Global:     global.Path,
		Source:     s.Paths.Source,
		Nearest:    nearest,
		InScope:    inScope,
		Registered: global.ConfigPaths,
	}, nil
}

// isRegistered reports whether path (canonical) is in the registry.
func isRegistered(global *models.ConfigFile, path string) bool {
	for _, registered := range global.ConfigPaths {
		if samePath(registered, path) {
			return true
		}
	}
	return false
}

// samePath compares a registry entry with a canonical path, by its stored
// string and, when it still resolves, by its canonical form.
func samePath(registered, canonical string) bool {
	if filepath.Clean(registered) == canonical {
		return true
	}
	resolved, err := resolver.Canonicalize(registered)
	return err == nil && resolved == canonical
}

// regularFile reports whether path exists and is a regular file. A
// non-regular entry wraps apperr.ErrPathConflict.
func regularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("%w: %w", apperr.ErrIO, err)
	case !info.Mode().IsRegular():
		return false, fmt.Errorf("something other than a file exists at %s: %w", path, apperr.ErrPathConflict)
	}
	return true, nil
}
