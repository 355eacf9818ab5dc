// Package mcp exposes the failure taxonomy and the graphics loader's
// instance capabilities to MCP clients over stdio.
package mcp

import (
	"context"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MartinNikolovMarinov/memviz/internal/errcode"
	"github.com/MartinNikolovMarinov/memviz/internal/logging"
	"github.com/MartinNikolovMarinov/memviz/internal/renderer"
)

const (
	ServerName    = "memviz"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for capability diagnostics.
type Server struct {
	mcpServer *mcpsdk.Server
	driver    renderer.Driver
	log       *logging.Tagged

	// mu serializes loader access; the capability cache is not safe for
	// concurrent use.
	mu     sync.Mutex
	loaded bool
	caps   *renderer.Capabilities
}

// NewServer creates a server backed by driver. The loader is resolved on the
// first tool call that needs it.
func NewServer(driver renderer.Driver) *Server {
	s := &Server{
		driver: driver,
		log:    logging.For(logging.TagRenderer),
		caps:   renderer.NewCapabilities(driver),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
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
		Name:        "list_errors",
		Description: "List every failure code memviz can exit with, in ordinal order.",
	}, s.handleListErrors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "describe_error",
		Description: "Describe one failure code, looked up by identifier or numeric value.",
	}, s.handleDescribeError)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_layers",
		Description: "List the instance layers the Vulkan loader reports. Results are cached until invalidated.",
	}, s.handleListLayers)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_extensions",
		Description: "List the instance extensions the Vulkan loader reports. Results are cached until invalidated.",
	}, s.handleListExtensions)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "check_support",
		Description: "Check whether the given layers and extensions are all supported by the loader.",
	}, s.handleCheckSupport)
}

// ensureLoaded must be called with mu held.
func (s *Server) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	if err := s.driver.Load(); err != nil {
		return errcode.Wrap(errcode.VulkanLoader, err)
	}
	s.loaded = true
	return nil
}
