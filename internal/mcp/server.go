package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/docrag-mcp/internal/embedder"
	"github.com/dshills/docrag-mcp/internal/extractor"
	"github.com/dshills/docrag-mcp/internal/store"
)

const (
	// ServerName is the MCP server name
	ServerName = "docrag-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultStorageDir is the default location for the document store
	DefaultStorageDir = "~/.docrag/storage"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp   *server.MCPServer
	store *store.Store
}

// NewServer creates a new MCP server instance backed by a document store at
// storageDir.
func NewServer(storageDir string) (*Server, error) {
	// Expand home directory if needed
	if storageDir == "" || storageDir == DefaultStorageDir {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		storageDir = filepath.Join(home, ".docrag", "storage")
	}

	// PDF extraction shells out to pdftotext; a missing binary only breaks
	// uploads, so warn instead of refusing to start.
	if err := extractor.CheckAvailable(); err != nil {
		log.Printf("warning: %v. %s", err, extractor.InstallInstructions())
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	st, err := store.Open(storageDir, extractor.New(), emb)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}

	log.Printf("document store at %s, embeddings via %s", storageDir, st.EmbedderInfo())
	return newServerWithStore(st), nil
}

// newServerWithStore wires an MCP server around an already open store.
// Split out so tests can inject fakes.
func newServerWithStore(st *store.Store) *Server {
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
	)

	s := &Server{
		mcp:   mcpServer,
		store: st,
	}
	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(uploadPDFTool(), s.handleUploadPDF)
	s.mcp.AddTool(searchDocumentsTool(), s.handleSearchDocuments)
	s.mcp.AddTool(listDocumentsTool(), s.handleListDocuments)
	s.mcp.AddTool(deleteDocumentTool(), s.handleDeleteDocument)
	s.mcp.AddTool(getRAGStatsTool(), s.handleGetRAGStats)
}
