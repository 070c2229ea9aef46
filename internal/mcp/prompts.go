package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerPrompts registers the prompt templates
func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.Prompt{
		Name:        "rag_query",
		Description: "Answer a question using retrieved document context",
		Arguments: []mcp.PromptArgument{
			{Name: "query", Description: "Question to answer", Required: true},
			{Name: "context_chunks", Description: "Context to ground the answer in (retrieved via search when omitted)"},
			{Name: "top_k", Description: "Number of context chunks to retrieve (default 5)"},
		},
	}, s.handleRAGQueryPrompt)

	s.mcp.AddPrompt(mcp.Prompt{
		Name:        "document_summary",
		Description: "Summarize an uploaded document",
		Arguments: []mcp.PromptArgument{
			{Name: "document_id", Description: "ID of the document to summarize"},
			{Name: "document_content", Description: "Document text to summarize (looked up by document_id when omitted)"},
		},
	}, s.handleDocumentSummaryPrompt)

	s.mcp.AddPrompt(mcp.Prompt{
		Name:        "search_suggestions",
		Description: "Suggest refined search queries based on the uploaded documents",
		Arguments: []mcp.PromptArgument{
			{Name: "query", Description: "Original search query to refine", Required: true},
			{Name: "available_documents", Description: "Document listing to refine against (built from the store when omitted)"},
		},
	}, s.handleSearchSuggestionsPrompt)
}

// handleRAGQueryPrompt wraps the question and its context in a grounded
// question-answering prompt. Context comes from the context_chunks argument
// when given, otherwise from a semantic search for the question.
func (s *Server) handleRAGQueryPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	query := request.Params.Arguments["query"]
	if query == "" {
		return nil, fmt.Errorf("query argument is required")
	}

	contextText := request.Params.Arguments["context_chunks"]
	if contextText == "" {
		topK := 5
		if v := request.Params.Arguments["top_k"]; v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 100 {
				return nil, fmt.Errorf("top_k must be an integer between 1 and 100")
			}
			topK = n
		}

		results, err := s.store.Search(ctx, query, topK)
		if err != nil {
			return nil, err
		}

		var b strings.Builder
		for i, r := range results {
			if i > 0 {
				b.WriteString("\n\n---\n\n")
			}
			fmt.Fprintf(&b, "[%s, chunk %d]\n%s", r.DocumentName, r.ChunkIndex, r.Text)
		}
		contextText = b.String()
	}

	text := fmt.Sprintf("You are a helpful assistant that answers questions based on the provided context. "+
		"Use only the information from the context to answer. If the context does not contain enough "+
		"information to answer the question, say so clearly.\n\nContext:\n%s\n\nQuestion: %s\n\n"+
		"Please answer the question based on the provided context.", contextText, query)

	return mcp.NewGetPromptResult(
		"RAG-grounded question answering",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

// handleDocumentSummaryPrompt embeds the full document text in a
// summarization request. Content may be passed directly or looked up by
// document ID.
func (s *Server) handleDocumentSummaryPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	content := request.Params.Arguments["document_content"]
	label := "document"
	if content == "" {
		documentID := request.Params.Arguments["document_id"]
		if documentID == "" {
			return nil, fmt.Errorf("either document_id or document_content is required")
		}

		doc, err := s.store.Get(documentID)
		if err != nil {
			return nil, fmt.Errorf("document not found: %s", documentID)
		}
		content, err = s.store.DocumentText(documentID)
		if err != nil {
			return nil, err
		}
		label = doc.Name
	}

	text := fmt.Sprintf("Please provide a comprehensive summary of the following document (%s):\n\n%s",
		label, content)

	return mcp.NewGetPromptResult(
		"Document summarization",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

// handleSearchSuggestionsPrompt lists the corpus and asks for refined
// queries against it
func (s *Server) handleSearchSuggestionsPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	query := request.Params.Arguments["query"]
	if query == "" {
		return nil, fmt.Errorf("query argument is required")
	}

	available := request.Params.Arguments["available_documents"]
	if available == "" {
		docs := s.store.List()
		lines := make([]string, len(docs))
		for i, doc := range docs {
			lines[i] = fmt.Sprintf("- %s (%d chunks)", doc.Name, doc.ChunkCount)
		}
		available = "none"
		if len(lines) > 0 {
			available = strings.Join(lines, "\n")
		}
	}

	text := fmt.Sprintf("You are a helpful assistant that suggests better search queries based on the "+
		"available documents.\n\nAvailable documents:\n%s\n\nUser query: %q\n\nSuggest 3-5 alternative "+
		"or refined search queries that might yield better results from these documents.", available, query)

	return mcp.NewGetPromptResult(
		"Search query refinement",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}
