// Package mcp exposes the document engine as Model Context Protocol tools.
package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	analyzeuc "github.com/kailas-cloud/docsense/internal/usecase/analyze"
	classifyuc "github.com/kailas-cloud/docsense/internal/usecase/classify"
	fallbackuc "github.com/kailas-cloud/docsense/internal/usecase/fallback"
	searchuc "github.com/kailas-cloud/docsense/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/docsense/internal/usecase/session"
	"github.com/kailas-cloud/docsense/internal/version"
)

// Server is the MCP tool server.
type Server struct {
	sessions    *sessionuc.Service
	analyzer    *analyzeuc.Service
	classifier  *classifyuc.Service
	searcher    *searchuc.Service
	fallback    *fallbackuc.Service
	ownerNumber string
	logger      *zap.Logger
	server      *mcp.Server

	searchContextChars int
	searchMaxHits      int
}

// NewServer creates an MCP server with all document tools registered.
// ownerNumber is the raw owner phone number returned by the validate tool.
func NewServer(
	sessions *sessionuc.Service,
	analyzer *analyzeuc.Service,
	classifier *classifyuc.Service,
	searcher *searchuc.Service,
	fallback *fallbackuc.Service,
	ownerNumber string,
	logger *zap.Logger,
) *Server {
	impl := &mcp.Implementation{
		Name:    "docsense",
		Version: version.Version,
	}

	s := &Server{
		sessions:    sessions,
		analyzer:    analyzer,
		classifier:  classifier,
		searcher:    searcher,
		fallback:    fallback,
		ownerNumber: ownerNumber,
		logger:      logger,
		server:      mcp.NewServer(impl, nil),
	}

	s.registerTools()

	return s
}

// WithSearchDefaults sets the context size and hit cap applied when a
// search tool call leaves them unset.
func (s *Server) WithSearchDefaults(contextChars, maxHits int) *Server {
	s.searchContextChars = contextChars
	s.searchMaxHits = maxHits
	return s
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns a streamable HTTP handler for mounting on an
// existing HTTP server.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
