// Package mcp exposes document conversion over the Model Context
// Protocol using stdio transport.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/docsmith/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"doc_convert": {
		def: mcp.NewTool("doc_convert",
			mcp.WithDescription("Convert a single document file (pdf, docx, odt, pptx, xlsx, html, xml, csv, txt, md) to sanitized markdown with text statistics."),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Absolute path of the file to convert"),
			),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleConvert },
	},
	"doc_formats": {
		def: mcp.NewTool("doc_formats",
			mcp.WithDescription("List the file extensions the converter accepts."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFormats },
	},
}

// AllToolNames returns a list of all tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates an MCP server with the conversion tools registered.
func NewServer(cfg *config.Config, logger *slog.Logger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"docsmith",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(cfg, logger)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(cfg *config.Config, logger *slog.Logger, version string) error {
	return server.ServeStdio(NewServer(cfg, logger, version))
}
