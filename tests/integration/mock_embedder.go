package integration

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/dshills/docrag-mcp/internal/embedder"
)

// MockEmbedder generates deterministic unit vectors from a text hash, so
// identical text always embeds identically and distinct texts are nearly
// orthogonal. That makes exact-text queries rank their own chunk first
// without any network dependency.
type MockEmbedder struct {
	dimension int
}

// NewMockEmbedder creates a mock embedder with the given dimension.
func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

// Embed produces a deterministic pseudo-random unit vector for text.
func (m *MockEmbedder) Embed(_ context.Context, text string) (*embedder.Embedding, error) {
	if text == "" {
		return nil, embedder.ErrEmptyText
	}

	hash := sha256.Sum256([]byte(text))
	vector := make([]float32, m.dimension)
	for i := 0; i < m.dimension; i++ {
		idx := (i * 4) % 32
		val := binary.BigEndian.Uint32(hash[idx : idx+4])
		vector[i] = (float32(val)/float32(1<<32))*2 - 1
	}

	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum > 0 {
		inv := float32(1 / math.Sqrt(sum))
		for i := range vector {
			vector[i] *= inv
		}
	}

	return &embedder.Embedding{
		Vector:    vector,
		Dimension: m.dimension,
		Provider:  "mock",
		Model:     "mock-v1",
		Hash:      embedder.ComputeHash(text),
	}, nil
}

// EmbedBatch embeds each text in order.
func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]*embedder.Embedding, error) {
	out := make([]*embedder.Embedding, len(texts))
	for i, t := range texts {
		emb, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = emb
	}
	return out, nil
}

// Dimension returns the configured vector dimension.
func (m *MockEmbedder) Dimension() int { return m.dimension }

// Provider returns the provider name.
func (m *MockEmbedder) Provider() string { return "mock" }

// Model returns the model name.
func (m *MockEmbedder) Model() string { return "mock-v1" }

// Close is a no-op.
func (m *MockEmbedder) Close() error { return nil }
