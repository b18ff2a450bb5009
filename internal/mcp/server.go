// ABOUTME: MCP server implementation for newsense
// ABOUTME: Provides tools, resources, and prompts for AI agents to read and triage the feed view

package mcp

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/feedview"
	"github.com/harper/newsense/internal/models"
	"github.com/harper/newsense/internal/source"
)

// Server wraps the MCP server with the engine it drives
type Server struct {
	mcpServer  *server.MCPServer
	engine     *feedview.Engine
	directory  source.FeedDirectory
	onSettings func(config.Settings)
	logger     *slog.Logger

	namesMu sync.RWMutex
	names   models.FeedNames
}

// Option configures a Server.
type Option func(*Server)

// WithFeedDirectory enables feed name resolution and the feeds resource.
func WithFeedDirectory(dir source.FeedDirectory) Option {
	return func(s *Server) {
		s.directory = dir
	}
}

// WithSettingsHook is called after a tool changes settings, e.g. to persist them.
func WithSettingsHook(fn func(config.Settings)) Option {
	return func(s *Server) {
		s.onSettings = fn
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP server instance
func NewServer(engine *feedview.Engine, options ...Option) *Server {
	s := &Server{
		engine: engine,
		names:  models.FeedNames{},
		logger: slog.Default(),
	}
	for _, option := range options {
		option(s)
	}

	s.mcpServer = server.NewMCPServer(
		"newsense",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// feedNames returns the cached feed names, loading them once from the directory.
func (s *Server) feedNames(ctx context.Context) models.FeedNames {
	s.namesMu.RLock()
	names := s.names
	s.namesMu.RUnlock()
	if len(names) > 0 || s.directory == nil {
		return names
	}

	feeds, err := s.directory.ListSubscribedFeeds(ctx)
	if err != nil {
		s.logger.Warn("failed to load feed names", "error", err)
		return names
	}
	names = models.NamesFromFeeds(feeds)
	s.namesMu.Lock()
	s.names = names
	s.namesMu.Unlock()
	return names
}
