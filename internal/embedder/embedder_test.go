package embedder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	cache := NewCache(10)

	emb := &Embedding{
		Vector:    []float32{0.1, 0.2, 0.3},
		Dimension: 3,
		Provider:  ProviderLocal,
		Model:     "test",
		Hash:      "abc",
	}
	cache.Set("abc", emb)

	got, ok := cache.Get("abc")
	require.True(t, ok)
	assert.Equal(t, emb.Vector, got.Vector)
	assert.Equal(t, emb.Model, got.Model)
}

func TestCache_GetReturnsCopy(t *testing.T) {
	cache := NewCache(10)
	cache.Set("k", &Embedding{Vector: []float32{1, 2, 3}, Dimension: 3})

	first, ok := cache.Get("k")
	require.True(t, ok)
	first.Vector[0] = 99

	second, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, float32(1), second.Vector[0])
}

func TestCache_Miss(t *testing.T) {
	cache := NewCache(10)
	_, ok := cache.Get("missing")
	assert.False(t, ok)
}

func TestCache_Eviction(t *testing.T) {
	cache := NewCache(2)
	cache.Set("a", &Embedding{Hash: "a"})
	cache.Set("b", &Embedding{Hash: "b"})
	cache.Set("c", &Embedding{Hash: "c"})

	assert.Equal(t, 2, cache.Size())
	_, ok := cache.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")
}

func TestComputeHash_Deterministic(t *testing.T) {
	h1 := ComputeHash("some chunk text")
	h2 := ComputeHash("some chunk text")
	h3 := ComputeHash("different text")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestLocalProvider_Deterministic(t *testing.T) {
	l, err := NewLocalProvider(nil)
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	ctx := context.Background()
	first, err := l.Embed(ctx, "the same input text")
	require.NoError(t, err)
	second, err := l.Embed(ctx, "the same input text")
	require.NoError(t, err)

	assert.Equal(t, first.Vector, second.Vector)
	assert.Len(t, first.Vector, LocalDimension)
	assert.Equal(t, LocalDimension, first.Dimension)
}

func TestLocalProvider_DistinctTexts(t *testing.T) {
	l, err := NewLocalProvider(nil)
	require.NoError(t, err)

	ctx := context.Background()
	a, err := l.Embed(ctx, "first document")
	require.NoError(t, err)
	b, err := l.Embed(ctx, "second document")
	require.NoError(t, err)

	assert.NotEqual(t, a.Vector, b.Vector)
}

func TestLocalProvider_UnitLength(t *testing.T) {
	l, err := NewLocalProvider(nil)
	require.NoError(t, err)

	emb, err := l.Embed(context.Background(), "normalize me")
	require.NoError(t, err)

	var sum float64
	for _, v := range emb.Vector {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func TestLocalProvider_EmptyText(t *testing.T) {
	l, err := NewLocalProvider(nil)
	require.NoError(t, err)

	_, err = l.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestLocalProvider_Batch(t *testing.T) {
	l, err := NewLocalProvider(NewCache(100))
	require.NoError(t, err)

	texts := []string{"alpha", "beta", "gamma"}
	embeddings, err := l.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, embeddings, 3)

	// Order must match input order
	single, err := l.Embed(context.Background(), "beta")
	require.NoError(t, err)
	assert.Equal(t, single.Vector, embeddings[1].Vector)
}

func TestLocalProvider_BatchRejectsEmptyMember(t *testing.T) {
	l, err := NewLocalProvider(nil)
	require.NoError(t, err)

	_, err = l.EmbedBatch(context.Background(), []string{"ok", ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	assert.Equal(t, v, NormalizeVector(v))
}
