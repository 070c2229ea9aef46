// Package types provides shared type definitions for the docrag MCP server.
//
// It defines the document and chunk records tracked by the metadata store,
// the search/ingest/stats results returned by store operations, and the
// error taxonomy every public operation reports failures through.
//
// # Core Types
//
// Document describes an ingested PDF and owns an ordered list of chunk IDs:
//
//	doc := &types.Document{
//	    ID:        docID,
//	    Name:      "whitepaper",
//	    ChunkIDs:  []int64{0, 1, 2},
//	    ChunkCount: 3,
//	}
//
// Chunk describes one bounded substring of the extracted text. Its ID is
// also its row position in the vector index.
//
// # Errors
//
// Operation failures are tagged with a taxonomy sentinel and matched with
// errors.Is:
//
//	_, err := store.Search(ctx, query, 5)
//	if errors.Is(err, types.ErrEmptyIndex) {
//	    // nothing ingested yet
//	}
package types
