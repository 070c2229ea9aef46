package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/docrag-mcp/internal/chunker"
	"github.com/dshills/docrag-mcp/internal/embedder"
	"github.com/dshills/docrag-mcp/internal/extractor"
	"github.com/dshills/docrag-mcp/internal/metadata"
	"github.com/dshills/docrag-mcp/internal/vecindex"
	"github.com/dshills/docrag-mcp/pkg/types"
)

const (
	metadataFile = "metadata.json"
	indexFile    = "index.bin"
	documentsDir = "documents"
	chunksDir    = "chunks"

	// DefaultTopK is the search result count when the caller passes none.
	DefaultTopK = 5

	// embedConcurrency bounds parallel embedding calls during ingest.
	embedConcurrency = 8
)

// Store orchestrates extraction, chunking, embedding, the vector index and
// the metadata artifact behind a single mutex-guarded API. A coarse RWMutex
// is enough here: ingest and delete are rare and slow compared to search,
// and a single writer keeps the chunk-ID/index-row invariant trivial to
// reason about.
type Store struct {
	mu sync.RWMutex

	dir       string
	extractor extractor.Extractor
	embedder  embedder.Embedder
	chunker   *chunker.Chunker
	meta      *metadata.Store
	index     *vecindex.Index
}

// Open loads (or initializes) a document store rooted at dir. Index rows
// whose chunk IDs are no longer present in metadata are dropped on load;
// the metadata artifact is authoritative.
func Open(dir string, ext extractor.Extractor, emb embedder.Embedder) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, documentsDir), 0755); err != nil {
		return nil, types.WrapError(types.ErrIO, err, "creating storage directory")
	}
	if err := os.MkdirAll(filepath.Join(dir, chunksDir), 0755); err != nil {
		return nil, types.WrapError(types.ErrIO, err, "creating storage directory")
	}

	ck, err := chunker.New(chunker.DefaultOptions())
	if err != nil {
		return nil, err
	}

	meta, err := metadata.Load(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	index, err := vecindex.ReadFile(filepath.Join(dir, indexFile), emb.Dimension())
	if err != nil {
		return nil, err
	}

	s := &Store{
		dir:       dir,
		extractor: ext,
		embedder:  emb,
		chunker:   ck,
		meta:      meta,
		index:     index,
	}
	if err := s.reconcile(); err != nil {
		return nil, err
	}
	return s, nil
}

// reconcile drops index rows that have no live chunk, which happens when a
// delete flushed the metadata artifact but crashed before the index flush.
func (s *Store) reconcile() error {
	dropped, err := s.dropUnregisteredRows()
	if err != nil {
		return err
	}
	if dropped == 0 {
		return nil
	}

	log.Printf("dropping %d orphaned index rows", dropped)
	return s.index.WriteFile(filepath.Join(s.dir, indexFile))
}

// dropUnregisteredRows rebuilds the index from the rows whose chunk IDs are
// registered in metadata, reporting how many rows were shed. The metadata
// artifact is the source of truth for which chunks are live.
func (s *Store) dropUnregisteredRows() (int, error) {
	rows := s.index.Rows()
	live := rows[:0]
	for _, row := range rows {
		if s.meta.HasChunk(row.ID) {
			live = append(live, row)
		}
	}
	dropped := len(rows) - len(live)
	if dropped == 0 {
		return 0, nil
	}
	return dropped, s.index.Rebuild(live)
}

// Close flushes both persistence artifacts and releases the embedder.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flush(); err != nil {
		return err
	}
	return s.embedder.Close()
}

// flush writes the index artifact first and the metadata artifact second.
// If the process dies between the two, the extra index rows are dropped by
// reconcile on the next open; the reverse order could lose vectors for live
// chunks, which cannot be repaired without re-embedding.
func (s *Store) flush() error {
	if err := s.index.WriteFile(filepath.Join(s.dir, indexFile)); err != nil {
		return err
	}
	return s.meta.Save()
}

// DocumentID derives the stable identifier for a source path: the hex
// SHA-256 of its absolute path. Re-ingesting the same file therefore
// replaces the previous version rather than duplicating it.
func DocumentID(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", types.WrapError(types.ErrIngest, err, "resolving path %s", path)
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:]), nil
}

// Ingest extracts, chunks, embeds and commits one document. The operation
// is all-or-nothing: on any failure the store is left as it was, minus
// burned chunk IDs. If the document was ingested before, the old version is
// replaced, and it stays intact until the new version is fully staged.
func (s *Store) Ingest(ctx context.Context, path, name string) (*types.IngestResult, error) {
	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	docID, err := DocumentID(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = extractor.DisplayName(path)
	}

	chunks := s.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, types.NewError(types.ErrExtraction, "document produced no chunks: %s", path)
	}

	embeddings, err := s.embedAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A previously ingested version of the same file is replaced, but only
	// after the new version is fully staged: every failure before the commit
	// point below leaves the old version untouched and searchable.
	old, oldErr := s.meta.GetDocument(docID)
	replacing := oldErr == nil

	abs, _ := filepath.Abs(path)
	now := time.Now().UTC()
	doc := &types.Document{
		ID:           docID,
		Name:         name,
		OriginalPath: abs,
		CreatedAt:    now,
	}

	// Staged files are cleaned up on failure. Chunk IDs are never reused,
	// so the new chunk files cannot collide with the old version's.
	written := []string{}
	rollback := func() {
		for _, p := range written {
			_ = os.Remove(p)
		}
	}

	docPath := filepath.Join(s.dir, documentsDir, docID+".txt")
	stagePath := docPath + ".stage"
	if err := os.WriteFile(stagePath, []byte(text), 0644); err != nil {
		return nil, types.WrapError(types.ErrIO, err, "writing document text")
	}
	written = append(written, stagePath)

	ids := make([]int64, len(chunks))
	for i, chunkText := range chunks {
		id := s.meta.NextChunkID()
		ids[i] = id
		p := s.chunkPath(id)
		if err := os.WriteFile(p, []byte(chunkText), 0644); err != nil {
			rollback()
			return nil, types.WrapError(types.ErrIO, err, "writing chunk %d", id)
		}
		written = append(written, p)
	}

	for i, id := range ids {
		if err := s.index.Insert(id, embeddings[i].Vector); err != nil {
			rollback()
			// The staged rows are not registered in metadata yet, so this
			// sheds exactly the partial inserts.
			_, _ = s.dropUnregisteredRows()
			return nil, err
		}
	}

	// Commit point: swap in the new document text, then retire the old
	// version and register the new one.
	if err := os.Rename(stagePath, docPath); err != nil {
		rollback()
		_, _ = s.dropUnregisteredRows()
		return nil, types.WrapError(types.ErrIO, err, "committing document text")
	}

	if replacing {
		for _, chunkID := range old.ChunkIDs {
			if err := os.Remove(s.chunkPath(chunkID)); err != nil && !os.IsNotExist(err) {
				log.Printf("leaving stale chunk file %d: %v", chunkID, err)
			}
		}
		if _, err := s.meta.DeleteDocument(docID); err != nil {
			return nil, err
		}
	}

	for i, id := range ids {
		chunk := &types.Chunk{
			ID:          id,
			DocumentID:  docID,
			Index:       i,
			TextPreview: types.MakePreview(chunks[i]),
			CreatedAt:   now,
		}
		if err := s.meta.PutChunk(chunk); err != nil {
			return nil, types.WrapError(types.ErrIngest, err, "recording chunk %d", id)
		}
	}

	doc.ChunkIDs = ids
	doc.ChunkCount = len(ids)
	if err := s.meta.PutDocument(doc); err != nil {
		return nil, types.WrapError(types.ErrIngest, err, "recording document %s", docID)
	}

	// With the old chunk records gone, their index rows are shed here.
	if replacing {
		if _, err := s.dropUnregisteredRows(); err != nil {
			return nil, err
		}
	}

	if err := s.flush(); err != nil {
		return nil, err
	}

	log.Printf("ingested %s: %d chunks as document %s", name, len(ids), docID)
	return &types.IngestResult{
		DocumentID:    docID,
		DocumentName:  name,
		ChunksCreated: len(ids),
	}, nil
}

// embedAll embeds every chunk concurrently, preserving chunk order.
func (s *Store) embedAll(ctx context.Context, chunks []string) ([]*embedder.Embedding, error) {
	embeddings := make([]*embedder.Embedding, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, text := range chunks {
		g.Go(func() error {
			emb, err := s.embedder.Embed(ctx, text)
			if err != nil {
				return types.WrapError(types.ErrIngest, err, "embedding chunk %d", i)
			}
			embeddings[i] = emb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return embeddings, nil
}

// Search embeds the query and returns the topK most similar chunks with
// their document context. Searching an empty store is an ErrEmptyIndex
// failure rather than an empty result, so callers can distinguish "nothing
// ingested yet" from "no good match".
func (s *Store) Search(ctx context.Context, query string, topK int) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.NewError(types.ErrInvalidInput, "query must not be empty")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.meta.ChunkCount() == 0 {
		return nil, types.NewError(types.ErrEmptyIndex, "upload documents before searching")
	}

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.index.Search(emb.Vector, topK)
	if err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.meta.GetChunk(hit.ID)
		if err != nil {
			// Indexed row without metadata; skip rather than fail the search.
			log.Printf("search hit %d has no chunk record, skipping", hit.ID)
			continue
		}
		doc, err := s.meta.GetDocument(chunk.DocumentID)
		if err != nil {
			log.Printf("chunk %d references missing document %s, skipping", hit.ID, chunk.DocumentID)
			continue
		}
		text, err := os.ReadFile(s.chunkPath(hit.ID))
		if err != nil {
			return nil, types.WrapError(types.ErrIO, err, "reading chunk %d text", hit.ID)
		}
		results = append(results, types.SearchResult{
			ChunkID:      hit.ID,
			Score:        hit.Score,
			Text:         string(text),
			DocumentName: doc.Name,
			DocumentID:   doc.ID,
			ChunkIndex:   chunk.Index,
		})
	}
	return results, nil
}

// List returns all documents in ingestion order.
func (s *Store) List() []*types.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta.ListDocuments()
}

// Get returns a single document record.
func (s *Store) Get(docID string) (*types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta.GetDocument(docID)
}

// DocumentText returns the full extracted text of a document.
func (s *Store) DocumentText(docID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.meta.GetDocument(docID); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(filepath.Join(s.dir, documentsDir, docID+".txt"))
	if err != nil {
		return "", types.WrapError(types.ErrIO, err, "reading document %s text", docID)
	}
	return string(raw), nil
}

// Delete removes a document, its chunks, its files and its index rows as
// one unit, then rebuilds the index from the survivors.
func (s *Store) Delete(docID string) (*types.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.meta.GetDocument(docID)
	if err != nil {
		return nil, err
	}
	if err := s.deleteLocked(docID); err != nil {
		return nil, err
	}
	if err := s.flush(); err != nil {
		return nil, err
	}

	log.Printf("deleted document %s (%d chunks)", docID, doc.ChunkCount)
	return doc, nil
}

// deleteLocked removes one document under the write lock without flushing.
// Files are removed before metadata is touched; a file removal failure
// leaves the in-memory state intact.
func (s *Store) deleteLocked(docID string) error {
	doc, err := s.meta.GetDocument(docID)
	if err != nil {
		return err
	}

	for _, chunkID := range doc.ChunkIDs {
		if err := os.Remove(s.chunkPath(chunkID)); err != nil && !os.IsNotExist(err) {
			return types.WrapError(types.ErrIO, err, "removing chunk %d", chunkID)
		}
	}
	docPath := filepath.Join(s.dir, documentsDir, docID+".txt")
	if err := os.Remove(docPath); err != nil && !os.IsNotExist(err) {
		return types.WrapError(types.ErrIO, err, "removing document text")
	}

	if _, err := s.meta.DeleteDocument(docID); err != nil {
		return err
	}

	_, err = s.dropUnregisteredRows()
	return err
}

// Stats reports a snapshot of store contents, including the byte size of
// everything under the storage directory.
func (s *Store) Stats() (*types.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var size int64
	err := filepath.WalkDir(s.dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	if err != nil {
		return nil, types.WrapError(types.ErrIO, err, "measuring storage size")
	}

	return &types.Stats{
		TotalDocuments:     s.meta.DocumentCount(),
		TotalChunks:        s.meta.ChunkCount(),
		StorageSizeBytes:   size,
		StorageSizeMB:      math.Round(float64(size)/(1024*1024)*100) / 100,
		EmbeddingDimension: s.embedder.Dimension(),
		StorageDirectory:   s.dir,
	}, nil
}

// EmbedderInfo returns the active provider and model, for diagnostics.
func (s *Store) EmbedderInfo() string {
	return fmt.Sprintf("%s/%s (%d dims)", s.embedder.Provider(), s.embedder.Model(), s.embedder.Dimension())
}

func (s *Store) chunkPath(id int64) string {
	return filepath.Join(s.dir, chunksDir, fmt.Sprintf("%d.txt", id))
}
