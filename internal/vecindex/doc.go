// Package vecindex implements a flat exact inner-product vector index.
//
// Every embedding is stored as a row keyed by its chunk ID, and search is a
// brute-force scan over all rows. With unit-normalized vectors the inner
// product equals cosine similarity. Deletion is handled by rebuilding the
// index from the surviving rows, which keeps the row ID space stable.
package vecindex
