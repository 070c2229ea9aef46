package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// uploadPDFTool returns the tool definition for upload_pdf
func uploadPDFTool() mcp.Tool {
	return mcp.Tool{
		Name:        "upload_pdf",
		Description: "Upload and process a PDF file into the RAG knowledge base",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the PDF file to ingest",
				},
				"document_name": map[string]interface{}{
					"type":        "string",
					"description": "Display name for the document (defaults to the file name without extension)",
				},
			},
			Required: []string{"file_path"},
		},
	}
}

// searchDocumentsTool returns the tool definition for search_documents
func searchDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_documents",
		Description: "Search uploaded documents with a natural language query using semantic similarity",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (natural language)",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of chunks to return (1-100)",
					"default":     5,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// listDocumentsTool returns the tool definition for list_documents
func listDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_documents",
		Description: "List all uploaded documents with their chunk counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// deleteDocumentTool returns the tool definition for delete_document
func deleteDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document and all of its chunks from the knowledge base",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the document to delete (as returned by upload_pdf or list_documents)",
				},
			},
			Required: []string{"document_id"},
		},
	}
}

// getRAGStatsTool returns the tool definition for get_rag_stats
func getRAGStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_rag_stats",
		Description: "Get statistics about the RAG knowledge base",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
