// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the directory to LLM integrations via stdio transport: entity
// lookup, backlink queries, and reference resolution.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/directory"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/links"
)

// Server wraps the MCP server with directory tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *directory.Service
	engine *links.Service
}

// New creates a new MCP server with all directory tools registered.
func New(svc *directory.Service, engine *links.Service) *Server {
	s := &Server{svc: svc, engine: engine}

	s.mcp = server.NewMCPServer(
		"Silicon Harbour Directory",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_directory",
		mcp.WithDescription("Search the directory by free text. Searches every content type unless one is given."),
		mcp.WithString("type", mcp.Description("Optional content type (event, news, job, company, project, group, person, education, product)")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to search for")),
	), s.searchDirectory)

	s.mcp.AddTool(mcp.NewTool("get_entity",
		mcp.WithDescription("Fetch one entity's detail page: attributes, rendered body, resolved references, and backlink groups."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Content type")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Entity slug, e.g. acme")),
	), s.getEntity)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("List every entity whose body references the given entity."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Content type")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Entity slug")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("resolve_references",
		mcp.WithDescription("Resolve the [[...]] reference tokens in a markdown body against the directory, without writing anything."),
		mcp.WithString("body", mcp.Required(), mcp.Description("Markdown text possibly containing [[Name]] or [[{Relation} at {Name}]] tokens")),
	), s.resolveReferences)

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

func (s *Server) contentType(req mcp.CallToolRequest) (content.Type, error) {
	raw, err := req.RequireString("type")
	if err != nil {
		return "", err
	}
	return content.Parse(raw)
}

func (s *Server) searchDirectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if raw, tErr := req.RequireString("type"); tErr == nil && raw != "" {
		t, err := content.Parse(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		items, _, err := s.svc.List(ctx, t, 20, 0, query)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, _ := json.MarshalIndent(items, "", "  ")
		return mcp.NewToolResultText(string(out)), nil
	}

	hits, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getEntity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, err := s.contentType(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetDetail(ctx, t, slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s/%s", t, slug)), nil
	}
	out, _ := json.MarshalIndent(detail, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, err := s.contentType(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	refs, err := s.svc.References(ctx, t, slug)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(refs) == 0 {
		return mcp.NewToolResultText("no references found"), nil
	}
	out, _ := json.MarshalIndent(refs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) resolveReferences(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resolved, err := s.engine.ResolveForClient(body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(resolved, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
