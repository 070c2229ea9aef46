package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRequest(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func promptRequest(name string, args map[string]string) mcp.GetPromptRequest {
	req := mcp.GetPromptRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func uploadDoc(t *testing.T, s *Server, path string) string {
	t.Helper()
	result, err := s.handleUploadPDF(context.Background(),
		callRequest("upload_pdf", map[string]interface{}{"file_path": path}))
	require.NoError(t, err)
	return resultJSON(t, result)["document_id"].(string)
}

func TestDocumentsResource(t *testing.T) {
	s := newTestServer(t, map[string]string{"/docs/solar.pdf": "solar power basics."})

	contents, err := s.handleDocumentsResource(context.Background(), readRequest(resourceDocuments))
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Contains(t, contents[0].(mcp.TextResourceContents).Text, "No documents uploaded yet")

	uploadDoc(t, s, "/docs/solar.pdf")

	contents, err = s.handleDocumentsResource(context.Background(), readRequest(resourceDocuments))
	require.NoError(t, err)
	text := contents[0].(mcp.TextResourceContents).Text
	assert.Contains(t, text, "solar")
	assert.Contains(t, text, "Chunks: 1")
}

func TestDocumentContentResource(t *testing.T) {
	s := newTestServer(t, map[string]string{"/docs/solar.pdf": "solar power basics."})
	docID := uploadDoc(t, s, "/docs/solar.pdf")

	contents, err := s.handleDocumentContentResource(context.Background(),
		readRequest(resourceDocumentPrefix+docID))
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].(mcp.TextResourceContents).Text
	assert.Contains(t, text, "Document: solar")
	assert.Contains(t, text, "solar power basics.")
}

func TestDocumentContentResourceUnknown(t *testing.T) {
	s := newTestServer(t, nil)

	_, err := s.handleDocumentContentResource(context.Background(),
		readRequest(resourceDocumentPrefix+"nope"))
	assert.Error(t, err)
}

func TestStatsResource(t *testing.T) {
	s := newTestServer(t, map[string]string{"/docs/solar.pdf": "solar power basics."})
	uploadDoc(t, s, "/docs/solar.pdf")

	contents, err := s.handleStatsResource(context.Background(), readRequest(resourceStats))
	require.NoError(t, err)
	text := contents[0].(mcp.TextResourceContents).Text
	assert.Contains(t, text, "Total Documents: 1")
	assert.Contains(t, text, "Total Chunks: 1")
}

func TestRAGQueryPrompt(t *testing.T) {
	s := newTestServer(t, map[string]string{"/docs/solar.pdf": "solar power basics."})
	uploadDoc(t, s, "/docs/solar.pdf")

	result, err := s.handleRAGQueryPrompt(context.Background(),
		promptRequest("rag_query", map[string]string{"query": "how does solar work"}))
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	text := result.Messages[0].Content.(mcp.TextContent).Text
	assert.Contains(t, text, "solar power basics.")
	assert.Contains(t, text, "how does solar work")
}

func TestRAGQueryPromptRequiresQuery(t *testing.T) {
	s := newTestServer(t, nil)

	_, err := s.handleRAGQueryPrompt(context.Background(),
		promptRequest("rag_query", map[string]string{}))
	assert.Error(t, err)
}

func TestDocumentSummaryPrompt(t *testing.T) {
	s := newTestServer(t, map[string]string{"/docs/solar.pdf": "solar power basics."})
	docID := uploadDoc(t, s, "/docs/solar.pdf")

	result, err := s.handleDocumentSummaryPrompt(context.Background(),
		promptRequest("document_summary", map[string]string{"document_id": docID}))
	require.NoError(t, err)

	text := result.Messages[0].Content.(mcp.TextContent).Text
	assert.Contains(t, text, "summary")
	assert.Contains(t, text, "solar power basics.")
}

func TestSearchSuggestionsPrompt(t *testing.T) {
	s := newTestServer(t, map[string]string{"/docs/solar.pdf": "solar power basics."})
	uploadDoc(t, s, "/docs/solar.pdf")

	result, err := s.handleSearchSuggestionsPrompt(context.Background(),
		promptRequest("search_suggestions", map[string]string{"query": "renewables"}))
	require.NoError(t, err)

	text := result.Messages[0].Content.(mcp.TextContent).Text
	assert.Contains(t, text, "renewables")
	assert.Contains(t, text, "solar")
}
