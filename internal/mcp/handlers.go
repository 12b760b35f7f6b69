package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/publist/publist/internal/loadlog"
	"github.com/publist/publist/internal/publication"
)

func (s *Server) handleListPublications(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view := request.GetString("view", "selected")
	if view != "selected" && view != "all" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid view %q: must be selected or all", view)), nil
	}

	snap := s.ctrl.Snapshot()
	if snap.Failed() {
		return mcp.NewToolResultError(fmt.Sprintf("publications failed to load: %v", snap.LoadErr)), nil
	}

	views, err := publication.BuildViews(snap.For(view == "selected"), s.highlight)
	if author := request.GetString("author", ""); author != "" {
		views = filterByAuthor(views, author)
	}

	text := formatViews(views)
	if err != nil {
		text += fmt.Sprintf("\nWarning: listing stopped early: %v\n", err)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleGetViewState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.ctrl.Snapshot()
	labels := snap.Labels()

	var sb strings.Builder
	mode := "all"
	if snap.ShowingSelected {
		mode = "selected"
	}
	fmt.Fprintf(&sb, "Mode: %s\n", mode)
	fmt.Fprintf(&sb, "Header: %s\n", labels.Header)
	fmt.Fprintf(&sb, "Button: %s\n", labels.Button)
	fmt.Fprintf(&sb, "Source: %s\n", s.ctrl.Source())

	switch {
	case snap.Failed():
		fmt.Fprintf(&sb, "Load: failed (%v)\n", snap.LoadErr)
	case !snap.Loaded:
		sb.WriteString("Load: pending\n")
	default:
		fmt.Fprintf(&sb, "Load: ok, %d publications, %d selected\n",
			len(snap.Publications), publication.CountSelected(snap.Publications))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleRecentLoads(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	events, err := s.loads.Recent(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading load log: %v", err)), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("No loads recorded yet."), nil
	}
	return mcp.NewToolResultText(formatEvents(events)), nil
}

func filterByAuthor(views []publication.View, author string) []publication.View {
	needle := strings.ToLower(author)
	var out []publication.View
	for _, v := range views {
		if strings.Contains(strings.ToLower(v.AuthorLine()), needle) {
			out = append(out, v)
		}
	}
	return out
}

// formatViews renders views as plain text for agent consumption.
func formatViews(views []publication.View) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d publication(s):\n", len(views))

	for i, v := range views {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, v.Title)
		fmt.Fprintf(&sb, "   Authors: %s\n", v.AuthorLine())
		fmt.Fprintf(&sb, "   Venue: %s\n", v.Venue)
		if v.Award != "" {
			fmt.Fprintf(&sb, "   Award: %s\n", v.Award)
		}
		for _, l := range v.Links {
			fmt.Fprintf(&sb, "   %s %s\n", l.Label, l.Href)
		}
	}
	return sb.String()
}

func formatEvents(events []loadlog.Event) string {
	var sb strings.Builder
	for _, e := range events {
		fmt.Fprintf(&sb, "%s  %-6s  %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Status, e.Source)
		if e.Status == loadlog.StatusOK {
			fmt.Fprintf(&sb, "  %d publications, %d selected", e.PublicationCount, e.SelectedCount)
		} else if e.Error != "" {
			fmt.Fprintf(&sb, "  %s", e.Error)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
