package chunker

import (
	"fmt"
	"strings"
)

const (
	// DefaultChunkSize is the target window size in characters
	DefaultChunkSize = 1000

	// DefaultOverlap is the number of trailing characters each chunk shares
	// with its successor
	DefaultOverlap = 200
)

// Options configures the chunking window. The midpoint break heuristic is
// tied to ChunkSize: a sentence terminator only truncates a window when it
// falls past ChunkSize/2, which keeps chunks on natural boundaries without
// producing very short ones.
type Options struct {
	ChunkSize int
	Overlap   int
}

// DefaultOptions returns the standard 1000/200 window.
func DefaultOptions() Options {
	return Options{ChunkSize: DefaultChunkSize, Overlap: DefaultOverlap}
}

// Chunker splits document text into overlapping substrings at sentence or
// line boundaries.
type Chunker struct {
	size    int
	overlap int
}

// New validates options and creates a Chunker. Overlap must be strictly
// smaller than ChunkSize or the window could never advance.
func New(opts Options) (*Chunker, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", opts.ChunkSize)
	}
	if opts.Overlap < 0 {
		return nil, fmt.Errorf("overlap must be non-negative, got %d", opts.Overlap)
	}
	if opts.Overlap >= opts.ChunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", opts.Overlap, opts.ChunkSize)
	}
	return &Chunker{size: opts.ChunkSize, overlap: opts.Overlap}, nil
}

// Split scans text in windows of ChunkSize characters. For each window that
// ends before the end of the text, the last '.' or '\n' past the window's
// midpoint truncates the window there. The next window starts Overlap
// characters before the previous one ended. Whitespace-only chunks are
// dropped. Split is deterministic: identical input always yields the
// identical sequence.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < n {
		// end may run past the text; the advance below is computed from it
		// before clamping so the final window is not re-scanned.
		end := start + c.size
		sliceEnd := end
		if sliceEnd > n {
			sliceEnd = n
		}

		if sliceEnd < n {
			if bp := breakPoint(runes[start:sliceEnd]); bp > c.size/2 {
				end = start + bp + 1
				sliceEnd = end
			}
		}

		chunk := strings.TrimSpace(string(runes[start:sliceEnd]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		// Strict advance guarantees termination even for degenerate windows.
		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// breakPoint returns the index of the last sentence terminator or line break
// within the window, or -1 if the window has neither.
func breakPoint(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' || window[i] == '\n' {
			return i
		}
	}
	return -1
}
