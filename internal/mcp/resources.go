package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs exposed by the server
const (
	resourceDocuments        = "rag://documents"
	resourceStats            = "rag://stats"
	resourceDocumentTemplate = "rag://document/{document_id}"
	resourceDocumentPrefix   = "rag://document/"
)

// registerResources registers the rag:// resource surface
func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.Resource{
		URI:         resourceDocuments,
		Name:        "documents",
		Description: "List of all documents in the knowledge base",
		MIMEType:    "text/plain",
	}, s.handleDocumentsResource)

	s.mcp.AddResource(mcp.Resource{
		URI:         resourceStats,
		Name:        "stats",
		Description: "Knowledge base statistics",
		MIMEType:    "text/plain",
	}, s.handleStatsResource)

	s.mcp.AddResourceTemplate(mcp.NewResourceTemplate(
		resourceDocumentTemplate,
		"document-content",
		mcp.WithTemplateDescription("Full extracted text of a specific document"),
		mcp.WithTemplateMIMEType("text/plain"),
	), s.handleDocumentContentResource)
}

// handleDocumentsResource returns a human-readable document listing
func (s *Server) handleDocumentsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	docs := s.store.List()

	var text string
	if len(docs) == 0 {
		text = "No documents uploaded yet."
	} else {
		lines := make([]string, len(docs))
		for i, doc := range docs {
			lines[i] = fmt.Sprintf("- %s (ID: %s, Chunks: %d)", doc.Name, doc.ID, doc.ChunkCount)
		}
		text = "Documents in the knowledge base:\n" + strings.Join(lines, "\n")
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}

// handleStatsResource returns a human-readable statistics summary
func (s *Server) handleStatsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stats, err := s.store.Stats()
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf(`Knowledge base statistics:
- Total Documents: %d
- Total Chunks: %d
- Storage Size: %.2f MB
- Embedding Dimension: %d
- Storage Directory: %s`,
		stats.TotalDocuments, stats.TotalChunks, stats.StorageSizeMB,
		stats.EmbeddingDimension, stats.StorageDirectory)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}

// handleDocumentContentResource returns the full text of one document with a
// short metadata header
func (s *Server) handleDocumentContentResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	documentID := strings.TrimPrefix(request.Params.URI, resourceDocumentPrefix)
	if documentID == "" || documentID == request.Params.URI {
		return nil, fmt.Errorf("invalid document resource URI: %s", request.Params.URI)
	}

	doc, err := s.store.Get(documentID)
	if err != nil {
		return nil, fmt.Errorf("document not found: %s", documentID)
	}
	content, err := s.store.DocumentText(documentID)
	if err != nil {
		return nil, err
	}

	header := fmt.Sprintf("Document: %s\nCreated: %s\nChunks: %d\n%s\n\n",
		doc.Name,
		doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		doc.ChunkCount,
		strings.Repeat("=", 50))

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     header + content,
		},
	}, nil
}
