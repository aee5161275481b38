// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido bookmark tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/navigator"
	"github.com/starford/raido/internal/session"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp  *server.MCPServer
	sess *session.Session
}

// New creates a new MCP server with all Raido tools registered.
func New(sess *session.Session) *Server {
	s := &Server{sess: sess}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_bookmarks",
		mcp.WithDescription("List bookmarks for one file, or for every file when path is omitted."),
		mcp.WithString("path", mcp.Description("Optional absolute file path (empty for all files)")),
	), s.listBookmarks)

	s.mcp.AddTool(mcp.NewTool("toggle_bookmark",
		mcp.WithDescription("Toggle a bookmark on a line: adds one when the line is bare, removes the existing one otherwise."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute file path")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Zero-based line number")),
		mcp.WithNumber("column", mcp.Description("Zero-based column (default 0)")),
		mcp.WithString("label", mcp.Description("Optional label for a new bookmark")),
	), s.toggleBookmark)

	s.mcp.AddTool(mcp.NewTool("next_bookmark",
		mcp.WithDescription("Find the next or previous bookmark from a position, rolling over to other "+
			"files when the current one is exhausted."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute file path of the cursor")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Zero-based cursor line")),
		mcp.WithNumber("column", mcp.Description("Zero-based cursor column (default 0)")),
		mcp.WithString("direction", mcp.Description("\"forward\" (default) or \"backward\"")),
	), s.nextBookmark)

	s.mcp.AddTool(mcp.NewTool("clear_bookmarks",
		mcp.WithDescription("Remove every bookmark in one file, or in all files when path is omitted."),
		mcp.WithString("path", mcp.Description("Optional absolute file path (empty for all files)")),
	), s.clearBookmarks)

	// Resource: snapshot format contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://snapshot-format", "Snapshot Format",
			mcp.WithResourceDescription("Persisted bookmark snapshot format."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSnapshotFormatResource,
	)

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

func (s *Server) listBookmarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		out, _ := json.MarshalIndent(s.sess.Files(), "", "  ")
		return mcp.NewToolResultText(string(out)), nil
	}
	marks, err := s.sess.Bookmarks(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(marks, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) toggleBookmark(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := req.RequireInt("line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	column := req.GetInt("column", 0)
	label := req.GetString("label", "")

	added, err := s.sess.Toggle(path, line, column, label)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if added {
		return mcp.NewToolResultText(fmt.Sprintf("added bookmark at %s:%d", path, line)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed bookmark at %s:%d", path, line)), nil
}

func (s *Server) nextBookmark(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := req.RequireInt("line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	column := req.GetInt("column", 0)

	dir, ok := navigator.ParseDirection(req.GetString("direction", ""))
	if !ok {
		return mcp.NewToolResultError("direction must be forward or backward"), nil
	}

	target, sentinel := s.sess.Navigate(path, line, column, dir)
	if sentinel != navigator.None {
		return mcp.NewToolResultText(sentinel.String()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"path":     target.Path,
		"bookmark": target.Bookmark,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) clearBookmarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		n := s.sess.ClearAll()
		return mcp.NewToolResultText(fmt.Sprintf("removed %d bookmarks", n)), nil
	}
	n, err := s.sess.ClearFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed %d bookmarks from %s", n, path)), nil
}

func (s *Server) readSnapshotFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://snapshot-format",
			MIMEType: "text/markdown",
			Text:     SnapshotFormatContract,
		},
	}, nil
}
