// Package mcp provides the stdio MCP server exposing rmnd reminders to coding
// agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/rmnd/internal/buildinfo"
	"github.com/go-ports/rmnd/internal/models"
	"github.com/go-ports/rmnd/internal/service"
)

const showDescription = `Show the reminders that apply to a working directory: every registered local rmnd config covering it, followed by the global reminders. Call this at session start to learn what the user wants kept in mind for this project.` //nolint:lll

const addDescription = `Add a reminder. By default it goes to the nearest local rmnd config for the working directory, or the global config when none covers it. The priority must be one of the names returned by rmnd_priorities.` //nolint:lll

const prioritiesDescription = `List the reminder priorities defined in the global rmnd config.`

// NewServer creates and registers all rmnd tools on a new MCP server.
// It is separate from Serve so that tests can obtain a fully configured
// server without committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("rmnd", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server, blocking until stdin closes.
func Serve(_ context.Context, svc *service.Service) error {
	return mcpserver.ServeStdio(NewServer(svc))
}

func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("rmnd_show",
		mcp.WithDescription(showDescription),
		mcp.WithString("cwd",
			mcp.Description("Working directory. Defaults to the server's working directory."),
		),
		mcp.WithBoolean("all",
			mcp.Description("Show every registered config regardless of the working directory."),
		),
		mcp.WithString("priorities",
			mcp.Description("Comma-separated priority names or ids to keep."),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleShow(svc, req)
	})

	s.AddTool(mcp.NewTool("rmnd_add",
		mcp.WithDescription(addDescription),
		mcp.WithString("text",
			mcp.Description("Reminder text."),
			mcp.Required(),
		),
		mcp.WithString("priority",
			mcp.Description("Priority name (default "+models.DefaultPriority+")."),
		),
		mcp.WithBoolean("global",
			mcp.Description("Add to the global config instead of the nearest local one."),
		),
		mcp.WithString("author",
			mcp.Description("Author. Defaults to the user settings in the global config."),
		),
		mcp.WithString("cwd",
			mcp.Description("Working directory. Defaults to the server's working directory."),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAdd(svc, req)
	})

	s.AddTool(mcp.NewTool("rmnd_priorities",
		mcp.WithDescription(prioritiesDescription),
	), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handlePriorities(svc)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleShow(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		sum *models.ConfigSum
		err error
	)
	if req.GetBool("all", false) {
		sum, err = svc.AggregateAll()
	} else {
		cwd, cwdErr := workDir(req)
		if cwdErr != nil {
			return mcp.NewToolResultError(cwdErr.Error()), nil
		}
		sum, err = svc.AggregateLocal(cwd)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sum = sum.Filter(splitCSV(req.GetString("priorities", "")))

	reminders := make([]map[string]any, 0, len(sum.Reminders))
	for _, r := range sum.Reminders {
		entry := map[string]any{
			"path":     r.Path,
			"id":       r.Index,
			"priority": r.Priority,
			"author":   r.Author,
			"text":     r.Text,
		}
		if p, ok := sum.FindPriority(r.Priority); ok {
			entry["color"] = p.Color.String()
		}
		reminders = append(reminders, entry)
	}

	return jsonResult(map[string]any{
		"total":     len(reminders),
		"reminders": reminders,
	})
}

func handleAdd(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cwd, err := workDir(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	author := req.GetString("author", "")
	if author == "" {
		if author, err = svc.DefaultAuthor(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	scope := service.ScopeOf(req.GetBool("global", false))
	priority := req.GetString("priority", models.DefaultPriority)
	res, err := svc.AddReminder(scope, cwd, req.GetString("text", ""), priority, author)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"path":  res.Path,
		"id":    res.Index,
		"scope": scope.String(),
	})
}

func handlePriorities(svc *service.Service) (*mcp.CallToolResult, error) {
	prios, err := svc.Priorities()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]map[string]any, 0, len(prios))
	for _, p := range prios {
		out = append(out, map[string]any{
			"name":  p.Name,
			"id":    p.ID,
			"color": p.Color.String(),
		})
	}
	return jsonResult(out)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func workDir(req mcp.CallToolRequest) (string, error) {
	if cwd := req.GetString("cwd", ""); cwd != "" {
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("mcp: working directory: %w", err)
	}
	return cwd, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
