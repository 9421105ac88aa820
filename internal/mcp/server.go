// Package mcp exposes window discovery and opacity control as MCP tools over
// stdio.
package mcp

import (
	"context"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/glasspane/internal/discovery"
	"github.com/1broseidon/glasspane/internal/platform"
)

const ServerName = "glasspane"

// Options configures a Server.
type Options struct {
	Backend    platform.Backend
	ConfigPath string
	Version    string
	Logger     *slog.Logger
}

// Server is the MCP server. Tool calls are serialized: the rule file is
// re-read on every call so edits made by a running UI are not lost.
type Server struct {
	mcpServer  *mcpsdk.Server
	enum       *discovery.Enumerator
	configPath string
	logger     *slog.Logger

	mu sync.Mutex
}

// NewServer creates a server and registers its tools.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		enum:       discovery.NewEnumerator(opts.Backend, logger),
		configPath: opts.ConfigPath,
		logger:     logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the visible top-level windows with their executable, size and current transparency. Scanning also re-applies the stored opacity rules.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_opacity",
		Description: "Set the opacity of windows selected by handle, or by title and/or executable substring. 100 removes transparency. Optionally persist a rule per window; windows sharing an executable keep only the last rule.",
	}, s.handleSetOpacity)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_rules",
		Description: "List the stored opacity rules in match order and the default opacity.",
	}, s.handleListRules)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_rule",
		Description: "Remove every stored rule whose title or executable equals the given text.",
	}, s.handleRemoveRule)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_default_opacity",
		Description: "Set or clear the default opacity for windows without a rule, then rescan so it takes effect.",
	}, s.handleSetDefaultOpacity)
}
