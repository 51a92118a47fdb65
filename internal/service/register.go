package service

import (
	"fmt"
	"log/slog"

	"github.com/go-ports/rmnd/internal/apperr"
	"github.com/go-ports/rmnd/internal/config"
	"github.com/go-ports/rmnd/internal/models"
	"github.com/go-ports/rmnd/internal/resolver"
	"github.com/go-ports/rmnd/internal/store"
)

// Decision is the answer to a confirmation question.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Confirmer asks the user a yes/no question. The CLI supplies an interactive
// implementation; the service never reads input itself.
type Confirmer interface {
	Confirm(question string) (Decision, error)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(question string) (Decision, error)

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(question string) (Decision, error) { return f(question) }

// InitStatus is the outcome of RegisterLocal.
type InitStatus string

const (
	InitAlreadyRegistered InitStatus = "already-registered"
	InitCreated           InitStatus = "created"
	InitAdopted           InitStatus = "adopted"
	InitDeclined          InitStatus = "declined"
)

// InitResult is returned from RegisterLocal.
type InitResult struct {
	Status InitStatus
	Path   string
}

// RegisterLocal makes cwd/rmnd.toml a registered local config.
//
// If the path is already registered nothing changes. If a file already exists
// there but is unregistered, confirm decides whether to register it as is. If
// no file exists, a default local config is written and registered.
func (s *Service) RegisterLocal(cwd string, confirm Confirmer) (*InitResult, error) {
	global, err := s.Global()
	if err != nil {
		return nil, err
	}

	dir, err := resolver.Canonicalize(cwd)
	if err != nil {
		return nil, fmt.Errorf("RegisterLocal: working directory %s: %w: %w", cwd, apperr.ErrIO, err)
	}
	local := config.LocalFile(dir)
	if local == global.Path {
		return nil, fmt.Errorf("RegisterLocal: %s is the global config: %w", local, apperr.ErrInvalidInput)
	}

	if isRegistered(global, local) {
		return &InitResult{Status: InitAlreadyRegistered, Path: local}, nil
	}

	exists, err := regularFile(local)
	if err != nil {
		return nil, fmt.Errorf("RegisterLocal: %w", err)
	}

	status := InitCreated
	if exists {
		decision := Deny
		if confirm != nil {
			question := fmt.Sprintf("Local config file %s found that is not in the global config, would you like to add it?", local)
			if decision, err = confirm.Confirm(question); err != nil {
				return nil, fmt.Errorf("RegisterLocal: confirm: %w", err)
			}
		}
		if decision != Allow {
			return &InitResult{Status: InitDeclined, Path: local}, nil
		}
		// Make sure the adopted file is usable before it enters the registry.
		if _, err := store.Load(local); err != nil {
			return nil, err
		}
		status = InitAdopted
	} else if err := store.Create(local, models.DefaultLocal()); err != nil {
		return nil, err
	}

	global.ConfigPaths = append(global.ConfigPaths, local)
	if err := store.Persist(global); err != nil {
		return nil, err
	}

	slog.Debug("registered local config", "path", local, "status", status)
	return &InitResult{Status: status, Path: local}, nil
}

// Unregister removes the nearest registered config for cwd from the global
// registry. The file itself is left on disk.
func (s *Service) Unregister(cwd string) (string, error) {
	global, err := s.Global()
	if err != nil {
		return "", err
	}

	nearest, ok, err := resolver.NearestRegistered(cwd, global)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("Unregister: no registered local config covers %s: %w", cwd, apperr.ErrNotFound)
	}

	kept := make([]string, 0, len(global.ConfigPaths))
	for _, registered := range global.ConfigPaths {
		if !samePath(registered, nearest) {
			kept = append(kept, registered)
		}
	}
	global.ConfigPaths = kept
	if err := store.Persist(global); err != nil {
		return "", err
	}
	return nearest, nil
}
