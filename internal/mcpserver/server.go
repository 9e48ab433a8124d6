// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the portfolio's projects and contact box as tools for LLM
// integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/maurobossio/portfolio/internal/apperr"
	"github.com/maurobossio/portfolio/internal/browse"
	"github.com/maurobossio/portfolio/internal/siteservice"
)

// Server wraps the MCP server with portfolio tools.
type Server struct {
	mcp *server.MCPServer
	svc *siteservice.Service
}

// New creates a new MCP server with all portfolio tools registered.
func New(svc *siteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Portfolio",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List portfolio projects, optionally narrowed to one tag."),
		mcp.WithString("tag", mcp.Description("Optional tag to filter by (e.g. HTML); empty lists all")),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("search_projects",
		mcp.WithDescription("Search projects by title and description. Matching is "+
			"case-insensitive and ignores accents."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
		mcp.WithString("tag", mcp.Description("Optional tag to filter by before searching")),
	), s.searchProjects)

	s.mcp.AddTool(mcp.NewTool("leave_message",
		mcp.WithDescription("Leave a contact message for the site owner."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Sender name")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Sender email")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Message body")),
	), s.leaveMessage)

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
	tag := browse.AllTag
	if t, err := req.RequireString("tag"); err == nil && t != "" {
		tag = t
	}

	projects, err := s.svc.ListProjects(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filtered := browse.FilterProjects(projects, tag, "")
	out, _ := json.MarshalIndent(filtered, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tag := browse.AllTag
	if t, err := req.RequireString("tag"); err == nil && t != "" {
		tag = t
	}

	projects, err := s.svc.ListProjects(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filtered := browse.FilterProjects(projects, tag, query)
	out, _ := json.MarshalIndent(filtered, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) leaveMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	email, err := req.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	message, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg, err := s.svc.AddMessage(ctx, siteservice.ContactInput{
		Name:    name,
		Email:   email,
		Message: message,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError("could not store message"), nil
	}
	out, _ := json.MarshalIndent(msg, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
