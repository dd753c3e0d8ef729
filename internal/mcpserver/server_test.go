package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/foxdex/internal/catalog"
	"github.com/starford/foxdex/internal/favicon"
	"github.com/starford/foxdex/internal/profile"
	"github.com/starford/foxdex/internal/rebuild"
	"github.com/starford/foxdex/internal/settings"
	"github.com/starford/foxdex/internal/testutil"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()

	root, rel := testutil.FirefoxRoot(t,
		[]testutil.Place{{ID: 1, URL: "https://ex.com", Title: "Example", Hash: 42, GUID: "p1"}},
		[]testutil.Bookmark{{ID: 10, FK: 1, GUID: "b1", Title: "Example"}},
		nil,
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	locator := profile.NewLocator(root, logger)

	dataDir := t.TempDir()
	st, err := settings.Open(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Update(func(v *settings.Settings) { v.ProfilePath = rel }); err != nil {
		t.Fatal(err)
	}

	defaults, err := favicon.WriteDefaults(dataDir)
	if err != nil {
		t.Fatal(err)
	}

	set := catalog.NewSet()
	pipeline := rebuild.NewPipeline(locator, st, set, defaults,
		filepath.Join(dataDir, favicon.DirName), nil, logger)
	if err := pipeline.Run(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	coord := rebuild.NewCoordinator(pipeline, nil)
	t.Cleanup(coord.Close)

	return New(set, locator, st, coord), rel
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper; call the handlers.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_items":
		result, err = srv.searchItems(ctx, req)
	case "list_profiles":
		result, err = srv.listProfiles(ctx, req)
	case "get_settings":
		result, err = srv.getSettings(ctx, req)
	case "rebuild_index":
		result, err = srv.rebuildIndex(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchItems(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "search_items", map[string]interface{}{"query": "example"})
	text := resultText(r)
	if !strings.Contains(text, `"id": "b1"`) || !strings.Contains(text, "https://ex.com") {
		t.Errorf("search result = %q", text)
	}

	r = callTool(t, srv, "search_items", map[string]interface{}{"query": "nomatch"})
	if text := resultText(r); !strings.Contains(text, "null") && !strings.Contains(text, "[]") {
		t.Errorf("no-match result = %q", text)
	}
}

func TestSearchItems_MissingQuery(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "search_items", map[string]interface{}{})
	if !r.IsError {
		t.Error("missing query should produce a tool error")
	}
}

func TestListProfiles(t *testing.T) {
	srv, rel := testServer(t)

	text := resultText(callTool(t, srv, "list_profiles", nil))
	if !strings.Contains(text, "selected: "+rel) {
		t.Errorf("list_profiles = %q", text)
	}
	if !strings.Contains(text, rel) {
		t.Errorf("profile missing from %q", text)
	}
}

func TestGetSettings(t *testing.T) {
	srv, rel := testServer(t)

	text := resultText(callTool(t, srv, "get_settings", nil))
	if !strings.Contains(text, rel) {
		t.Errorf("get_settings = %q", text)
	}
	if !strings.Contains(text, "index_history") {
		t.Errorf("get_settings missing history flag: %q", text)
	}
}

func TestRebuildIndex(t *testing.T) {
	srv, _ := testServer(t)

	text := resultText(callTool(t, srv, "rebuild_index", nil))
	if text != "rebuild scheduled" {
		t.Errorf("rebuild_index = %q", text)
	}
}
