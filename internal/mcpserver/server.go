// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Pulse project tracking tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/halstein/pulse/internal/tracker"
)

// Server wraps the MCP server with Pulse tools.
type Server struct {
	mcp      *server.MCPServer
	projects *tracker.ProjectService
	updates  *tracker.UpdateService
}

// New creates a new MCP server with all Pulse tools registered.
func New(projects *tracker.ProjectService, updates *tracker.UpdateService) *Server {
	s := &Server{projects: projects, updates: updates}

	s.mcp = server.NewMCPServer(
		"Pulse",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List every tracked project, most recently updated first, with its latest update."),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("read_project",
		mcp.WithDescription("Read one project and all of its updates, newest first."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Project id")),
	), s.readProject)

	s.mcp.AddTool(mcp.NewTool("add_update",
		mcp.WithDescription("Attach a markdown status update to a project. "+
			"Bumps the project's updated_at timestamp."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Id of the project to attach to")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content of the update")),
		mcp.WithString("category", mcp.Description("Optional category: general, ip, marketing, or evaluation")),
	), s.addUpdate)

	s.mcp.AddTool(mcp.NewTool("search_updates",
		mcp.WithDescription("Search update plain text across all projects."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchUpdates)

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

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.projects.ListAll(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(list, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(p, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := req.RequireString("project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := tracker.CreateUpdateInput{ProjectID: projectID, Content: content}
	if c := req.GetString("category", ""); c != "" {
		in.Category = &c
	}

	u, err := s.updates.Create(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created update %s on project %s", u.ID, u.ProjectID)), nil
}

func (s *Server) searchUpdates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.updates.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
