// Package mcpserver wires the tutorial toolsets to the Model Context
// Protocol. Each tutorial binary builds one Server, registers its tools,
// resources, and prompts, and runs it over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/log"
)

// Config describes one tutorial server.
type Config struct {
	Name    string
	Version string
	Logger  log.Logger
}

func (c Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("server name is required")
	}
	if c.Version == "" {
		return fmt.Errorf("server version is required")
	}
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	return nil
}

// Server hosts one MCP server instance.
type Server struct {
	mcp    *mcp.Server
	name   string
	logger log.Logger
}

// New creates a named MCP server.
func New(cfg Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	impl := &mcp.Implementation{Name: cfg.Name, Version: cfg.Version}
	return &Server{
		mcp:    mcp.NewServer(impl, nil),
		name:   cfg.Name,
		logger: cfg.Logger,
	}, nil
}

// Run serves MCP over the transport until the context is canceled or the
// client disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("server starting", "name", s.name)
	err := s.mcp.Run(ctx, transport)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("serving %s: %w", s.name, err)
	}
	s.logger.Info("server stopped", "name", s.name)
	return nil
}

// MCP exposes the underlying SDK server for registration and tests.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// addTool derives the input schema from the input struct's jsonschema tags
// and registers the handler with request logging.
func addTool[In any](s *Server, name, description string, fn func(context.Context, In) *mcp.CallToolResult) error {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("building schema for %s: %w", name, err)
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}, logged(s.logger, name, fn))
	return nil
}

// logged wraps a tool invocation with a request id and duration logging.
// Panics inside handlers are not recovered here; the SDK reports them to
// the client.
func logged[In any](logger log.Logger, tool string, fn func(context.Context, In) *mcp.CallToolResult) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input In) (*mcp.CallToolResult, any, error) {
		requestID := uuid.NewString()
		start := time.Now()
		result := fn(ctx, input)
		logger.Info("tool call",
			"tool", tool,
			"request_id", requestID,
			"is_error", result.IsError,
			"duration", time.Since(start),
		)
		return result, nil, nil
	}
}
