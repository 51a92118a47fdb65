// Package setup registers and unregisters the rmnd MCP server with supported
// coding agents (Claude Code, Cursor, Codex, OpenCode).
package setup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ServerName is the key the rmnd server is registered under.
const ServerName = "rmnd"

// Agent identifies a supported coding agent.
type Agent string

const (
	ClaudeCode Agent = "claude-code"
	Cursor     Agent = "cursor"
	Codex      Agent = "codex"
	OpenCode   Agent = "opencode"
)

// Agents lists the supported agents.
func Agents() []Agent {
	return []Agent{ClaudeCode, Cursor, Codex, OpenCode}
}

// ParseAgent validates an agent name.
func ParseAgent(name string) (Agent, error) {
	for _, a := range Agents() {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown agent %q", name)
}

// ConfigPath returns the agent config file that holds MCP server entries.
// A non-empty projectDir selects the per-project file below it; otherwise
// the user-level file below home is used.
func ConfigPath(a Agent, home, projectDir string) string {
	project := projectDir != ""
	switch a {
	case ClaudeCode:
		if project {
			return filepath.Join(projectDir, ".mcp.json")
		}
		return filepath.Join(home, ".claude.json")
	case Cursor:
		if project {
			return filepath.Join(projectDir, ".cursor", "mcp.json")
		}
		return filepath.Join(home, ".cursor", "mcp.json")
	case Codex:
		if project {
			return filepath.Join(projectDir, ".codex", "config.toml")
		}
		return filepath.Join(home, ".codex", "config.toml")
	case OpenCode:
		if project {
			return filepath.Join(projectDir, "opencode.json")
		}
		return filepath.Join(home, ".config", "opencode", "opencode.json")
	}
	return ""
}

// Install adds the rmnd server entry to the agent config at path. It reports
// false when the entry already exists.
func Install(a Agent, path string) (bool, error) {
	f, err := formatOf(a)
	if err != nil {
		return false, err
	}
	data, err := f.read(path)
	if err != nil {
		return false, err
	}

	servers, _ := data[f.table].(map[string]any)
	if servers == nil {
		servers = make(map[string]any)
		data[f.table] = servers
	}
	if _, exists := servers[ServerName]; exists {
		return false, nil
	}
	servers[ServerName] = f.entry
	return true, f.write(path, data)
}

// Uninstall removes the rmnd server entry from the agent config at path,
// deleting the file when nothing else is left in it. It reports false when
// there was no entry.
func Uninstall(a Agent, path string) (bool, error) {
	f, err := formatOf(a)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	data, err := f.read(path)
	if err != nil {
		return false, err
	}

	servers, _ := data[f.table].(map[string]any)
	if _, exists := servers[ServerName]; !exists {
		return false, nil
	}
	delete(servers, ServerName)
	if len(servers) == 0 {
		delete(data, f.table)
	}
	if len(data) == 0 {
		return true, os.Remove(path)
	}
	return true, f.write(path, data)
}

// ---------------------------------------------------------------------------
// Config formats
// ---------------------------------------------------------------------------

type format struct {
	table string
	entry map[string]any
	toml  bool
}

func formatOf(a Agent) (format, error) {
	switch a {
	case ClaudeCode, Cursor:
		return format{
			table: "mcpServers",
			entry: map[string]any{"command": "rmnd", "args": []any{"mcp"}, "type": "stdio"},
		}, nil
	case Codex:
		return format{
			table: "mcp_servers",
			entry: map[string]any{"command": "rmnd", "args": []any{"mcp"}},
			toml:  true,
		}, nil
	case OpenCode:
		return format{
			table: "mcp",
			entry: map[string]any{"type": "local", "command": []any{"rmnd", "mcp"}},
		}, nil
	}
	return format{}, fmt.Errorf("unknown agent %q", a)
}

// read decodes the file at path. A missing file yields an empty map; a file
// that does not decode is an error so that it is never overwritten.
func (f format) read(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, err
	}

	data := make(map[string]any)
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}
	if f.toml {
		err = toml.Unmarshal(raw, &data)
	} else {
		err = json.Unmarshal(raw, &data)
	}
	if err != nil {
		return nil, fmt.Errorf("setup: %s: %w", path, err)
	}
	return data, nil
}

func (f format) write(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var (
		b   []byte
		err error
	)
	if f.toml {
		b, err = toml.Marshal(data)
	} else {
		b, err = json.MarshalIndent(data, "", "  ")
		b = append(b, '\n')
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644) // #nosec G306 -- agent config files (MCP server entries) do not contain secrets
}
