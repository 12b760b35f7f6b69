package mcp

import "github.com/mark3labs/mcp-go/mcp"

var listPublicationsTool = mcp.NewTool("list_publications",
	mcp.WithDescription("List publications as they appear on the page: title, authors, venue, award and links."),
	mcp.WithString("view",
		mcp.Description("Which list to return (default selected)"),
		mcp.Enum("selected", "all"),
	),
	mcp.WithString("author",
		mcp.Description("Only return publications with an author containing this text (case-insensitive)"),
	),
)

var getViewStateTool = mcp.NewTool("get_view_state",
	mcp.WithDescription("Get the current view mode, the toggle button and header labels, and the last load status."),
)

var recentLoadsTool = mcp.NewTool("recent_loads",
	mcp.WithDescription("Show recent attempts to load the publication document."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of entries to return (default 10)"),
	),
)
