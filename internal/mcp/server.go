package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/spicemodel/internal/store"
)

// Server manages the MCP server lifecycle: tool registration against a
// Store and graceful shutdown over stdio.
type Server struct {
	store *store.Store
	mcp   *server.MCPServer
}

// NewServer creates a new MCP server backed by s, registering the
// model_query and subckt_query tools.
func NewServer(s *store.Store) (*Server, error) {
	if s == nil {
		return nil, fmt.Errorf("store is required")
	}

	mcpServer := server.NewMCPServer(
		"spicemodel-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddModelQueryTool(mcpServer, s)
	AddSubcircuitQueryTool(mcpServer, s)

	return &Server{
		store: s,
		mcp:   mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("received shutdown signal, stopping gracefully...")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases resources owned by the server.
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
