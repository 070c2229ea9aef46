// Package chunker splits extracted document text into overlapping chunks
// suitable for embedding and retrieval.
//
// Chunks are cut from a sliding window of ChunkSize characters. When a
// window ends mid-text, the chunker searches backward for the last sentence
// terminator ('.') or line break and, if that break point lies past the
// window's midpoint, ends the chunk there instead of at the raw boundary.
// Each chunk shares up to Overlap characters of trailing context with its
// successor so that sentences spanning a boundary stay searchable.
//
// The break-point heuristic can produce uneven chunk sizes on text with no
// punctuation; the midpoint threshold is a tunable consequence of ChunkSize,
// not a hard-coded constant.
package chunker
