// Package mcp implements the Model Context Protocol (MCP) server for filemcp
// using the mcp-go library.
//
// The server exposes the file-operation tools (read_file, write_file,
// edit_file, list_directory, init_project) over stdio using JSON-RPC 2.0 as
// specified by the MCP standard. Tool declarations published to clients are
// projected from the tool registry, so the introspection surface and the
// dispatch surface cannot drift apart.
package mcp

import (
	"context"
	"fmt"

	"filemcp/internal/config"
	"filemcp/internal/dispatch"
	"filemcp/internal/executor"
	"filemcp/internal/logging"
	"filemcp/internal/registry"
	"filemcp/internal/workspace"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "filemcp"
	serverVersion = "0.1.0"
)

// Server represents an MCP server instance using mcp-go
type Server struct {
	workspaceDir string
	logger       *logging.AppLogger

	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	executor   *executor.Executor
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance for the given workspace root.
func NewServer(workspaceDir string, logger *logging.AppLogger) *Server {
	return &Server{
		workspaceDir: workspaceDir,
		logger:       logger,
	}
}

// Initialize builds the workspace guard, executor, tool registry, and
// dispatcher, and wires every registered tool into the underlying MCP
// server. Registration happens exactly once, before any request is served;
// a registration failure is a startup defect and aborts initialization.
func (s *Server) Initialize() error {
	s.logger.Info("Initializing MCP server", "workspace", s.workspaceDir)

	ws, err := workspace.New(s.workspaceDir)
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}

	project, err := config.LoadProject(ws.Root())
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	s.executor = executor.New(ws, project, s.logger)
	s.registry = registry.NewRegistry()

	if err := s.registerTools(project); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	s.dispatcher = dispatch.New(s.registry, s.logger)

	s.mcpServer = server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, desc := range s.registry.All() {
		s.mcpServer.AddTool(desc.MCPTool(), s.handleToolCall)
	}

	s.logger.Info("MCP server initialized", "tools", len(s.registry.All()))
	return nil
}

// Start initializes the server and serves MCP over stdio until the client
// disconnects.
func (s *Server) Start() error {
	if err := s.Initialize(); err != nil {
		return err
	}

	s.logger.Info("MCP server starting stdio communication")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the MCP server
func (s *Server) Stop() error {
	s.logger.Info("Stopping MCP server")
	// The mcp-go server handles cleanup when the stdio stream closes
	return nil
}

// handleToolCall adapts an inbound MCP tool call onto the dispatcher.
// Failed dispatches become structured tool errors carrying the stable error
// kind; only a transport-level defect would surface as a protocol error.
func (s *Server) handleToolCall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.dispatcher.Dispatch(ctx, dispatch.Request{
		Tool: request.Params.Name,
		Args: request.GetArguments(),
	})

	if !result.OK {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", result.ErrKind, result.ErrMessage)), nil
	}
	return mcp.NewToolResultText(result.Payload), nil
}
