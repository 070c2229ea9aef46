// Package embedder generates vector embeddings for document chunks and
// search queries.
//
// Three providers are supported: OpenAI (1536 dimensions, via the official
// API), Jina AI (1024 dimensions), and a local offline provider (384
// dimensions, deterministic hash-derived vectors). API providers retry with
// exponential backoff and share an LRU cache keyed by content hash, so
// re-ingesting an unchanged document costs no API calls.
//
// Provider selection follows the environment:
//
//  1. If DOCRAG_EMBEDDING_PROVIDER is set, use the named provider
//  2. Else if OPENAI_API_KEY is set, use OpenAI
//  3. Else if JINA_API_KEY is set, use Jina AI
//  4. Else fall back to the local provider (offline mode)
//
// The provider's Dimension() fixes the vector index dimension for the life
// of a store; switching providers over an existing store fails fast at
// startup rather than mixing vector spaces.
package embedder
