package types

// SearchResult is one ranked hit from a semantic search, joining the vector
// index row back to its chunk text and document metadata.
type SearchResult struct {
	ChunkID      int64   `json:"chunk_id"`
	Score        float64 `json:"score"`
	Text         string  `json:"text"`
	DocumentName string  `json:"document_name"`
	DocumentID   string  `json:"document_id"`
	ChunkIndex   int     `json:"chunk_index"`
}

// IngestResult reports a completed document ingest.
type IngestResult struct {
	DocumentID    string `json:"document_id"`
	DocumentName  string `json:"document_name"`
	ChunksCreated int    `json:"chunks_created"`
}

// Stats is a derived snapshot of store contents; nothing here is persisted.
type Stats struct {
	TotalDocuments     int     `json:"total_documents"`
	TotalChunks        int     `json:"total_chunks"`
	StorageSizeBytes   int64   `json:"storage_size_bytes"`
	StorageSizeMB      float64 `json:"storage_size_mb"`
	EmbeddingDimension int     `json:"embedding_dimension"`
	StorageDirectory   string  `json:"storage_directory"`
}
