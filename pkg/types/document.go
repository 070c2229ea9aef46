package types

import (
	"errors"
	"time"
)

// PreviewLength is the number of characters kept in a chunk's text preview.
const PreviewLength = 100

// Document represents an ingested source document. A document is immutable
// after creation; the only mutation is wholesale deletion together with its
// chunks.
type Document struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OriginalPath string    `json:"original_path"`
	ChunkIDs     []int64   `json:"chunk_ids"`
	ChunkCount   int       `json:"chunk_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Chunk represents one bounded substring of a document's extracted text.
// The chunk's ID doubles as its row position in the vector index; keeping
// the two aligned is the central invariant of the store. The full chunk
// text is persisted separately; only the preview lives in metadata.
type Chunk struct {
	ID          int64     `json:"id"`
	DocumentID  string    `json:"document_id"`
	Index       int       `json:"chunk_index"`
	TextPreview string    `json:"text_preview"`
	CreatedAt   time.Time `json:"created_at"`
}

// MakePreview truncates chunk text for metadata summaries.
func MakePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength]) + "..."
}

// Validate checks document integrity before it is committed to metadata.
func (d *Document) Validate() error {
	if d.ID == "" {
		return errors.New("document ID is required")
	}
	if d.Name == "" {
		return errors.New("document name is required")
	}
	if len(d.ChunkIDs) != d.ChunkCount {
		return errors.New("chunk count does not match chunk ID list")
	}
	return nil
}

// Validate checks chunk integrity before it is committed to metadata.
func (c *Chunk) Validate() error {
	if c.ID < 0 {
		return errors.New("chunk ID must be non-negative")
	}
	if c.DocumentID == "" {
		return errors.New("chunk document ID is required")
	}
	if c.Index < 0 {
		return errors.New("chunk index must be non-negative")
	}
	return nil
}
