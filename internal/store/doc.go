// Package store is the document store: it ties the PDF extractor, the text
// chunker, the embedding provider, the vector index and the metadata
// artifact together behind one concurrency-safe API.
//
// The invariant everything else depends on: a chunk's ID in metadata is the
// same ID under which its vector lives in the index, IDs are assigned
// monotonically and never reused, and deletion rebuilds the index from the
// surviving rows so the surviving IDs keep their meaning.
package store
