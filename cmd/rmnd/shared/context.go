// Package shared holds the context passed to all CLI commands.
package shared

import (
	"fmt"
	"os"

	"github.com/go-ports/rmnd/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// ConfigDir overrides the directory holding the global rmnd.toml.
	// When empty it resolves to ~/.config.
	ConfigDir string
	// WorkDir makes the command behave as if started in that directory.
	WorkDir string
	// Verbose enables debug logging on stderr.
	Verbose bool
}

// Service builds the service for the configured global location.
func (c *Context) Service() (*service.Service, error) {
	return service.New(c.ConfigDir)
}

// Cwd returns the effective working directory.
func (c *Context) Cwd() (string, error) {
	if c.WorkDir != "" {
		return c.WorkDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	return cwd, nil
}
