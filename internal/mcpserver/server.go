// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the bookmark catalog for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/foxdex/internal/catalog"
	"github.com/starford/foxdex/internal/profile"
	"github.com/starford/foxdex/internal/rebuild"
	"github.com/starford/foxdex/internal/settings"
)

// Server wraps the MCP server with Foxdex tools.
type Server struct {
	mcp      *server.MCPServer
	set      *catalog.Set
	locator  *profile.Locator
	settings *settings.Store
	coord    *rebuild.Coordinator
}

// New creates a new MCP server with all Foxdex tools registered.
func New(set *catalog.Set, locator *profile.Locator, st *settings.Store, coord *rebuild.Coordinator) *Server {
	s := &Server{set: set, locator: locator, settings: st, coord: coord}

	s.mcp = server.NewMCPServer(
		"Foxdex",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_items",
		mcp.WithDescription("Search indexed Firefox bookmarks and history by title or URL."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchItems)

	s.mcp.AddTool(mcp.NewTool("list_profiles",
		mcp.WithDescription("List discovered Firefox profiles; the first line marks the selected one."),
	), s.listProfiles)

	s.mcp.AddTool(mcp.NewTool("get_settings",
		mcp.WithDescription("Return the current indexing settings (selected profile, history toggle)."),
	), s.getSettings)

	s.mcp.AddTool(mcp.NewTool("rebuild_index",
		mcp.WithDescription("Schedule a background rebuild of the bookmark index."),
	), s.rebuildIndex)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results := s.set.Search(query, 20)
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listProfiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profiles := s.locator.List()
	if len(profiles) == 0 {
		return mcp.NewToolResultText("no profiles found"), nil
	}
	current := s.settings.Snapshot().ProfilePath
	lines := make([]string, 0, len(profiles)+1)
	lines = append(lines, fmt.Sprintf("selected: %s", current))
	lines = append(lines, profiles...)
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.settings.Snapshot(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) rebuildIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.coord.Trigger()
	return mcp.NewToolResultText("rebuild scheduled"), nil
}
