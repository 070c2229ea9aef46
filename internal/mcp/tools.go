package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/docrag-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeDocumentNotFound = -32001 // Unknown document ID
	ErrorCodeEmptyIndex       = -32002 // Search against an empty knowledge base
	ErrorCodeEmptyQuery       = -32004 // Query parameter is empty
)

// handleUploadPDF handles the upload_pdf tool invocation
func (s *Server) handleUploadPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	filePath, ok := args["file_path"].(string)
	if !ok || filePath == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "file_path parameter is required", map[string]interface{}{
			"param":  "file_path",
			"reason": "missing or empty",
		})
	}
	documentName := getStringDefault(args, "document_name", "")

	result, err := s.store.Ingest(ctx, filePath, documentName)
	if err != nil {
		// Unreadable or empty files are a caller problem, not a server fault.
		if errors.Is(err, types.ErrExtraction) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, newMCPError(ErrorCodeInternalError, "upload failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"success":        true,
		"document_id":    result.DocumentID,
		"document_name":  result.DocumentName,
		"chunks_created": result.ChunksCreated,
		"message":        fmt.Sprintf("Successfully processed %s into %d chunks", result.DocumentName, result.ChunksCreated),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchDocuments handles the search_documents tool invocation
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	topK := getIntDefault(args, "top_k", 5)
	if topK < 1 || topK > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "top_k must be between 1 and 100", map[string]interface{}{
			"param": "top_k",
			"value": topK,
		})
	}

	results, err := s.store.Search(ctx, query, topK)
	if err != nil {
		if errors.Is(err, types.ErrEmptyIndex) {
			return mcp.NewToolResultError("No documents in the knowledge base. Upload documents with upload_pdf before searching."), nil
		}
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	hits := make([]map[string]interface{}, len(results))
	for i, r := range results {
		hits[i] = map[string]interface{}{
			"chunk_id":      r.ChunkID,
			"score":         r.Score,
			"text":          r.Text,
			"document_name": r.DocumentName,
			"document_id":   r.DocumentID,
			"chunk_index":   r.ChunkIndex,
		}
	}

	response := map[string]interface{}{
		"success":       true,
		"query":         query,
		"results":       hits,
		"total_results": len(hits),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListDocuments handles the list_documents tool invocation
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs := s.store.List()

	documents := make([]map[string]interface{}, len(docs))
	for i, doc := range docs {
		documents[i] = map[string]interface{}{
			"document_id": doc.ID,
			"name":        doc.Name,
			"chunk_count": doc.ChunkCount,
			"created_at":  doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	response := map[string]interface{}{
		"success":         true,
		"documents":       documents,
		"total_documents": len(documents),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDeleteDocument handles the delete_document tool invocation
func (s *Server) handleDeleteDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	documentID, ok := args["document_id"].(string)
	if !ok || documentID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "document_id parameter is required", map[string]interface{}{
			"param":  "document_id",
			"reason": "missing or empty",
		})
	}

	doc, err := s.store.Delete(documentID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Document not found: %s", documentID)), nil
		}
		return nil, newMCPError(ErrorCodeInternalError, "delete failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Successfully deleted document: %s", doc.Name),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetRAGStats handles the get_rag_stats tool invocation
func (s *Server) handleGetRAGStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.store.Stats()
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get statistics", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"success": true,
		"statistics": map[string]interface{}{
			"total_documents":     stats.TotalDocuments,
			"total_chunks":        stats.TotalChunks,
			"storage_size_bytes":  stats.StorageSizeBytes,
			"storage_size_mb":     stats.StorageSizeMB,
			"embedding_dimension": stats.EmbeddingDimension,
			"storage_directory":   stats.StorageDirectory,
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
