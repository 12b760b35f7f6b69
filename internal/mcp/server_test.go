package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/publist/publist/internal/db"
	"github.com/publist/publist/internal/loader"
	"github.com/publist/publist/internal/loadlog"
	"github.com/publist/publist/internal/publication"
	"github.com/publist/publist/internal/state"
)

const testDoc = `{"publications":[
  {"title":"Depth From Focus","authors":["Pablo Algarrada","Ana Ruiz"],"venue":"CVPR 2025","award":"Best Paper","selected":1,
   "links":{"pdf":"dff.pdf","code":"https://github.com/x/dff"}},
  {"title":"Tiny Workshop Note","authors":["Luis Gil"],"venue":"Workshop","selected":0}
]}`

func newTestServer(t *testing.T, doc string, withLoads bool) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "publications.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	var opts []state.Option
	var loads *loadlog.Store
	if withLoads {
		database, err := db.OpenMemory()
		if err != nil {
			t.Fatalf("OpenMemory: %v", err)
		}
		t.Cleanup(func() { database.Close() })
		loads = loadlog.NewStore(database)
		opts = append(opts, state.WithRecorder(loads))
	}

	ctrl := state.New(loader.New(path, 0), opts...)
	ctrl.Load(context.Background())
	return NewServer(ctrl, publication.DefaultHighlight, loads)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_publications", listPublicationsTool, "list_publications"},
		{"get_view_state", getViewStateTool, "get_view_state"},
		{"recent_loads", recentLoadsTool, "recent_loads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t, testDoc, false)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.highlight != publication.DefaultHighlight {
		t.Errorf("highlight = %q, want %q", srv.highlight, publication.DefaultHighlight)
	}
}

func TestHandleListPublications(t *testing.T) {
	srv := newTestServer(t, testDoc, false)
	ctx := context.Background()

	t.Run("default selected", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleListPublications(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		for _, want := range []string{"Found 1 publication(s)", "Depth From Focus", "Pablo Algarrada, Ana Ruiz", "Award: Best Paper", "[PDF] dff.pdf", "[Code] https://github.com/x/dff"} {
			if !strings.Contains(text, want) {
				t.Errorf("result missing %q:\n%s", want, text)
			}
		}
		if strings.Contains(text, "Tiny Workshop Note") {
			t.Error("unselected publication should not be listed")
		}
	})

	t.Run("all", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"view": "all"}

		result, _ := srv.handleListPublications(ctx, req)
		if text := resultText(t, result); !strings.Contains(text, "Found 2 publication(s)") {
			t.Errorf("expected both publications:\n%s", text)
		}
	})

	t.Run("author filter", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"view": "all", "author": "luis"}

		result, _ := srv.handleListPublications(ctx, req)
		text := resultText(t, result)
		if !strings.Contains(text, "Tiny Workshop Note") || strings.Contains(text, "Depth From Focus") {
			t.Errorf("author filter not applied:\n%s", text)
		}
	})

	t.Run("invalid view", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"view": "recent"}

		result, err := srv.handleListPublications(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for invalid view")
		}
	})
}

func TestHandleListPublicationsLoadFailure(t *testing.T) {
	srv := newTestServer(t, "{not json", false)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}
	result, err := srv.handleListPublications(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error after a failed load")
	}
}

func TestHandleGetViewState(t *testing.T) {
	srv := newTestServer(t, testDoc, false)
	ctx := context.Background()

	result, err := srv.handleGetViewState(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	for _, want := range []string{"Mode: selected", "Header: Selected Publications", "Button: Show All", "Load: ok, 2 publications, 1 selected"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}

	srv.ctrl.Toggle()
	result, _ = srv.handleGetViewState(ctx, mcp.CallToolRequest{})
	if text := resultText(t, result); !strings.Contains(text, "Mode: all") || !strings.Contains(text, "Button: Show Selected") {
		t.Errorf("state after toggle:\n%s", text)
	}
}

func TestHandleRecentLoads(t *testing.T) {
	srv := newTestServer(t, testDoc, true)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"limit": 5}
	result, err := srv.handleRecentLoads(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if text := resultText(t, result); !strings.Contains(text, "2 publications, 1 selected") {
		t.Errorf("load entry missing counts:\n%s", text)
	}
}
