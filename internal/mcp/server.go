package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/publist/publist/internal/loadlog"
	"github.com/publist/publist/internal/state"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the publication list as tools.
type Server struct {
	ctrl      *state.Controller
	highlight string
	loads     *loadlog.Store
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server. loads may be nil, in which case the
// recent_loads tool is not registered.
func NewServer(ctrl *state.Controller, highlight string, loads *loadlog.Store) *Server {
	s := &Server{
		ctrl:      ctrl,
		highlight: highlight,
		loads:     loads,
	}

	s.mcp = server.NewMCPServer(
		"publist",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(listPublicationsTool, s.handleListPublications)
	s.mcp.AddTool(getViewStateTool, s.handleGetViewState)
	if s.loads != nil {
		s.mcp.AddTool(recentLoadsTool, s.handleRecentLoads)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
