// Package mcp implements the Model Context Protocol (MCP) server for the
// document RAG store.
//
// The server exposes five tools to MCP clients:
//   - upload_pdf: Ingest a PDF into the knowledge base
//   - search_documents: Semantic search over uploaded documents
//   - list_documents: List uploaded documents
//   - delete_document: Remove a document and its chunks
//   - get_rag_stats: Knowledge base statistics
//
// It also serves read-only resources under the rag:// scheme
// (rag://documents, rag://document/{document_id}, rag://stats) and three
// prompt templates (rag_query, document_summary, search_suggestions).
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Because stdout carries the protocol stream, all logging goes to stderr.
// The server is typically started via the serve command:
//
//	docrag serve
package mcp
