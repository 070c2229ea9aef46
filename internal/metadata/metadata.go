package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/dshills/docrag-mcp/pkg/types"
)

// Store is the source of truth for document and chunk identity. It is an
// in-memory map pair backed by a single JSON artifact that is replaced
// wholesale on every save, so readers never observe a partially written
// state on disk. Store itself is not safe for concurrent use; the document
// store serializes access.
type Store struct {
	path string
	data fileFormat
}

// fileFormat is the on-disk shape of the metadata artifact. DocumentOrder
// preserves insertion order for listings, which a JSON object alone cannot.
type fileFormat struct {
	Documents     map[string]*types.Document `json:"documents"`
	Chunks        map[int64]*types.Chunk     `json:"chunks"`
	DocumentOrder []string                   `json:"document_order"`
	NextChunkID   int64                      `json:"next_chunk_id"`
}

// Load reads the metadata artifact at path, or initializes an empty store
// when the artifact does not exist yet. A present but unparsable artifact is
// fatal: resetting state here would silently mask data loss.
func Load(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: fileFormat{
			Documents: make(map[string]*types.Document),
			Chunks:    make(map[int64]*types.Chunk),
		},
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, types.WrapError(types.ErrIO, err, "reading metadata artifact %s", path)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("metadata artifact %s is corrupted: %w", path, err)
	}
	if s.data.Documents == nil {
		s.data.Documents = make(map[string]*types.Document)
	}
	if s.data.Chunks == nil {
		s.data.Chunks = make(map[int64]*types.Chunk)
	}

	// Artifacts written before document ordering was tracked fall back to
	// creation time order.
	if len(s.data.DocumentOrder) != len(s.data.Documents) {
		s.data.DocumentOrder = s.data.DocumentOrder[:0]
		for id := range s.data.Documents {
			s.data.DocumentOrder = append(s.data.DocumentOrder, id)
		}
		slices.SortFunc(s.data.DocumentOrder, func(a, b string) int {
			return s.data.Documents[a].CreatedAt.Compare(s.data.Documents[b].CreatedAt)
		})
	}

	return s, nil
}

// Save writes the whole artifact to a temporary file and renames it into
// place, so a crash mid-write leaves the previous artifact intact.
func (s *Store) Save() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return types.WrapError(types.ErrIO, err, "encoding metadata")
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return types.WrapError(types.ErrIO, err, "creating metadata directory")
	}
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return types.WrapError(types.ErrIO, err, "writing metadata artifact")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return types.WrapError(types.ErrIO, err, "replacing metadata artifact")
	}
	return nil
}

// NextChunkID returns the next chunk identifier and advances the counter.
// IDs are monotonic for the lifetime of the store and never reused even
// after deletion, so stale references fail closed instead of aliasing a
// newer chunk.
func (s *Store) NextChunkID() int64 {
	id := s.data.NextChunkID
	s.data.NextChunkID++
	return id
}

// PeekNextChunkID returns the counter without advancing it.
func (s *Store) PeekNextChunkID() int64 {
	return s.data.NextChunkID
}

// PutDocument records a document and appends it to the listing order.
func (s *Store) PutDocument(doc *types.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if _, exists := s.data.Documents[doc.ID]; !exists {
		s.data.DocumentOrder = append(s.data.DocumentOrder, doc.ID)
	}
	s.data.Documents[doc.ID] = doc
	return nil
}

// PutChunk records a chunk.
func (s *Store) PutChunk(chunk *types.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}
	s.data.Chunks[chunk.ID] = chunk
	return nil
}

// GetDocument returns the document with the given ID.
func (s *Store) GetDocument(id string) (*types.Document, error) {
	doc, ok := s.data.Documents[id]
	if !ok {
		return nil, types.NewError(types.ErrNotFound, "document not found: %s", id)
	}
	return doc, nil
}

// GetChunk returns the chunk with the given ID.
func (s *Store) GetChunk(id int64) (*types.Chunk, error) {
	chunk, ok := s.data.Chunks[id]
	if !ok {
		return nil, types.NewError(types.ErrNotFound, "chunk not found: %d", id)
	}
	return chunk, nil
}

// HasChunk reports whether a chunk ID is live.
func (s *Store) HasChunk(id int64) bool {
	_, ok := s.data.Chunks[id]
	return ok
}

// ListDocuments returns all documents in insertion order.
func (s *Store) ListDocuments() []*types.Document {
	docs := make([]*types.Document, 0, len(s.data.DocumentOrder))
	for _, id := range s.data.DocumentOrder {
		if doc, ok := s.data.Documents[id]; ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// ChunkIDs returns the IDs of all live chunks in ascending order.
func (s *Store) ChunkIDs() []int64 {
	ids := make([]int64, 0, len(s.data.Chunks))
	for id := range s.data.Chunks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// DocumentCount returns the number of live documents.
func (s *Store) DocumentCount() int {
	return len(s.data.Documents)
}

// ChunkCount returns the number of live chunks.
func (s *Store) ChunkCount() int {
	return len(s.data.Chunks)
}

// DeleteDocument removes a document record and all of its chunk records as
// one unit. The caller never observes the document gone with chunks
// remaining, or the reverse.
func (s *Store) DeleteDocument(id string) (*types.Document, error) {
	doc, ok := s.data.Documents[id]
	if !ok {
		return nil, types.NewError(types.ErrNotFound, "document not found: %s", id)
	}

	for _, chunkID := range doc.ChunkIDs {
		delete(s.data.Chunks, chunkID)
	}
	delete(s.data.Documents, id)
	s.data.DocumentOrder = slices.DeleteFunc(s.data.DocumentOrder, func(d string) bool {
		return d == id
	})

	return doc, nil
}
