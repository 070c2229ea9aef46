package embedder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnv_ExplicitLocal(t *testing.T) {
	t.Setenv(EnvProvider, "local")
	t.Setenv(EnvOpenAIAPIKey, "")
	t.Setenv(EnvJinaAPIKey, "")

	emb, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, emb.Provider())
	assert.Equal(t, LocalDimension, emb.Dimension())
}

func TestNewFromEnv_UnknownProvider(t *testing.T) {
	t.Setenv(EnvProvider, "sentencepiece")

	_, err := NewFromEnv()
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}

func TestNewFromEnv_AutoDetectOpenAI(t *testing.T) {
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvOpenAIAPIKey, "sk-test")
	t.Setenv(EnvJinaAPIKey, "")

	emb, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, emb.Provider())
	assert.Equal(t, OpenAIDimension, emb.Dimension())
}

func TestNewFromEnv_FallbackToLocal(t *testing.T) {
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvOpenAIAPIKey, "")
	t.Setenv(EnvJinaAPIKey, "")

	emb, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, emb.Provider())
}

func TestNew_ExplicitConfig(t *testing.T) {
	emb, err := New(Config{Provider: "local", CacheSize: 100})
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, emb.Provider())
}

func TestNew_OpenAIRequiresKey(t *testing.T) {
	_, err := New(Config{Provider: "openai"})
	assert.ErrorIs(t, err, ErrNoProviderEnabled)
}

func TestNew_JinaRequiresKey(t *testing.T) {
	_, err := New(Config{Provider: "jina"})
	assert.ErrorIs(t, err, ErrNoProviderEnabled)
}

func TestDetectProvider(t *testing.T) {
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvOpenAIAPIKey, "")
	t.Setenv(EnvJinaAPIKey, "key")

	assert.Equal(t, ProviderJina, DetectProvider())

	t.Setenv(EnvProvider, "LOCAL")
	assert.Equal(t, ProviderLocal, DetectProvider())
}
