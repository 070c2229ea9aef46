package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dshills/docrag-mcp/internal/store"
	"github.com/dshills/docrag-mcp/pkg/types"
)

// textExtractor reads plain text files from disk, standing in for pdftotext
// so the full ingest pipeline runs without poppler installed.
type textExtractor struct{}

func (textExtractor) Extract(_ context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", types.WrapError(types.ErrExtraction, err, "file not found: %s", path)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", types.NewError(types.ErrExtraction, "no text content found in %s", path)
	}
	return text, nil
}

// RAGTestSuite exercises the document store end to end: ingest, search,
// delete, persistence across restarts.
type RAGTestSuite struct {
	suite.Suite
	ctx        context.Context
	storageDir string
	docsDir    string
	store      *store.Store
}

func (s *RAGTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.storageDir = s.T().TempDir()
	s.docsDir = s.T().TempDir()

	st, err := store.Open(s.storageDir, textExtractor{}, NewMockEmbedder(64))
	s.Require().NoError(err)
	s.store = st
}

func (s *RAGTestSuite) TearDownTest() {
	if s.store != nil {
		s.Require().NoError(s.store.Close())
	}
}

// writeDoc creates a source file and returns its path.
func (s *RAGTestSuite) writeDoc(name, content string) string {
	path := filepath.Join(s.docsDir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0644))
	return path
}

func (s *RAGTestSuite) reopen() {
	s.Require().NoError(s.store.Close())
	st, err := store.Open(s.storageDir, textExtractor{}, NewMockEmbedder(64))
	s.Require().NoError(err)
	s.store = st
}

func (s *RAGTestSuite) TestUploadSearchLifecycle() {
	solarText := "Solar panels convert sunlight into electricity through photovoltaic cells."
	windText := "Wind turbines capture kinetic energy from moving air to generate power."

	solarPath := s.writeDoc("solar.txt", solarText)
	windPath := s.writeDoc("wind.txt", windText)

	resSolar, err := s.store.Ingest(s.ctx, solarPath, "Solar Guide")
	s.Require().NoError(err)
	s.Equal("Solar Guide", resSolar.DocumentName)
	s.Equal(1, resSolar.ChunksCreated)

	_, err = s.store.Ingest(s.ctx, windPath, "Wind Guide")
	s.Require().NoError(err)

	// An exact-text query embeds identically to its chunk, so that chunk
	// must rank first.
	results, err := s.store.Search(s.ctx, solarText, 2)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal("Solar Guide", results[0].DocumentName)
	s.Equal(solarText, results[0].Text)
	s.Greater(results[0].Score, results[1].Score)
	s.InDelta(1.0, results[0].Score, 1e-5)
}

func (s *RAGTestSuite) TestMultiChunkDocument() {
	var b strings.Builder
	for i := 0; i < 120; i++ {
		b.WriteString("Renewable energy systems need storage to smooth out production gaps. ")
	}
	path := s.writeDoc("long.txt", b.String())

	res, err := s.store.Ingest(s.ctx, path, "Storage Paper")
	s.Require().NoError(err)
	s.Greater(res.ChunksCreated, 1)

	doc, err := s.store.Get(res.DocumentID)
	s.Require().NoError(err)
	s.Len(doc.ChunkIDs, res.ChunksCreated)

	stats, err := s.store.Stats()
	s.Require().NoError(err)
	s.Equal(res.ChunksCreated, stats.TotalChunks)
}

func (s *RAGTestSuite) TestDeleteDocument() {
	solarPath := s.writeDoc("solar.txt", "Solar panels on rooftops.")
	windPath := s.writeDoc("wind.txt", "Wind farms offshore.")

	resSolar, err := s.store.Ingest(s.ctx, solarPath, "Solar")
	s.Require().NoError(err)
	_, err = s.store.Ingest(s.ctx, windPath, "Wind")
	s.Require().NoError(err)

	deleted, err := s.store.Delete(resSolar.DocumentID)
	s.Require().NoError(err)
	s.Equal("Solar", deleted.Name)

	_, err = s.store.Get(resSolar.DocumentID)
	s.ErrorIs(err, types.ErrNotFound)

	results, err := s.store.Search(s.ctx, "Wind farms offshore.", 5)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal("Wind", results[0].DocumentName)
}

func (s *RAGTestSuite) TestSearchEmptyStore() {
	_, err := s.store.Search(s.ctx, "anything", 5)
	s.ErrorIs(err, types.ErrEmptyIndex)
}

func (s *RAGTestSuite) TestPersistenceAcrossRestart() {
	text := "Geothermal plants tap heat from deep rock formations."
	path := s.writeDoc("geo.txt", text)

	res, err := s.store.Ingest(s.ctx, path, "Geothermal")
	s.Require().NoError(err)

	s.reopen()

	docs := s.store.List()
	s.Require().Len(docs, 1)
	s.Equal(res.DocumentID, docs[0].ID)

	results, err := s.store.Search(s.ctx, text, 5)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(text, results[0].Text)

	content, err := s.store.DocumentText(res.DocumentID)
	s.Require().NoError(err)
	s.Equal(text, content)
}

func (s *RAGTestSuite) TestChunkIDsSurviveRestart() {
	pathA := s.writeDoc("a.txt", "First document contents.")
	pathB := s.writeDoc("b.txt", "Second document contents.")

	resA, err := s.store.Ingest(s.ctx, pathA, "A")
	s.Require().NoError(err)
	docA, err := s.store.Get(resA.DocumentID)
	s.Require().NoError(err)
	maxID := docA.ChunkIDs[len(docA.ChunkIDs)-1]

	s.reopen()

	// The ID counter persists, so new chunks never collide with old ones.
	resB, err := s.store.Ingest(s.ctx, pathB, "B")
	s.Require().NoError(err)
	docB, err := s.store.Get(resB.DocumentID)
	s.Require().NoError(err)
	for _, id := range docB.ChunkIDs {
		s.Greater(id, maxID)
	}
}

func (s *RAGTestSuite) TestReingestReplaces() {
	path := s.writeDoc("draft.txt", "Draft version one of the report.")

	first, err := s.store.Ingest(s.ctx, path, "Report")
	s.Require().NoError(err)

	s.Require().NoError(os.WriteFile(path, []byte("Final version two of the report."), 0644))
	second, err := s.store.Ingest(s.ctx, path, "Report")
	s.Require().NoError(err)

	s.Equal(first.DocumentID, second.DocumentID)
	s.Len(s.store.List(), 1)

	content, err := s.store.DocumentText(second.DocumentID)
	s.Require().NoError(err)
	s.Contains(content, "Final version two")
}

func (s *RAGTestSuite) TestListOrderStableAcrossRestart() {
	names := []string{"first", "second", "third"}
	ids := make([]string, len(names))
	for i, n := range names {
		path := s.writeDoc(n+".txt", "Contents of "+n+" document.")
		res, err := s.store.Ingest(s.ctx, path, n)
		s.Require().NoError(err)
		ids[i] = res.DocumentID
	}

	s.reopen()

	docs := s.store.List()
	s.Require().Len(docs, len(names))
	for i, doc := range docs {
		s.Equal(names[i], doc.Name)
		s.Equal(ids[i], doc.ID)
	}
}

func TestRAGSuite(t *testing.T) {
	suite.Run(t, new(RAGTestSuite))
}
