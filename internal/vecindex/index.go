package vecindex

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/dshills/docrag-mcp/pkg/types"
)

// Binary artifact framing
const (
	magic         = 0x44524149 // "DRAI"
	formatVersion = 1
)

// Row pairs a chunk ID with its embedding. The ID is assigned by the
// metadata store; the index never invents identifiers.
type Row struct {
	ID  int64
	Vec []float32
}

// Hit is one search result: a row ID and its inner-product score.
type Hit struct {
	ID    int64
	Score float64
}

// Index is an exact inner-product nearest-neighbor index over fixed-
// dimension vectors. Rows are append-only; deletion happens only through
// Rebuild with the surviving row set, because a flat structure has no O(1)
// delete. Index is not safe for concurrent use; the document store
// serializes access.
type Index struct {
	dim  int
	rows []Row
}

// New creates an empty index with the given fixed dimension.
func New(dim int) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("index dimension must be positive, got %d", dim)
	}
	return &Index{dim: dim}, nil
}

// Dimension returns the fixed vector dimension.
func (ix *Index) Dimension() int {
	return ix.dim
}

// Len returns the number of live rows (ntotal).
func (ix *Index) Len() int {
	return len(ix.rows)
}

// Insert appends a vector under the given row ID. The caller is responsible
// for keeping row IDs aligned with chunk IDs.
func (ix *Index) Insert(id int64, vec []float32) error {
	if len(vec) != ix.dim {
		return types.NewError(types.ErrDimensionMismatch,
			"vector has dimension %d, index expects %d", len(vec), ix.dim)
	}
	stored := make([]float32, ix.dim)
	copy(stored, vec)
	ix.rows = append(ix.rows, Row{ID: id, Vec: stored})
	return nil
}

// Search returns up to k rows ordered by descending inner-product score,
// ties broken by ascending row ID for determinism. k is clamped to the
// current row count; an empty index yields an empty result.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, types.NewError(types.ErrDimensionMismatch,
			"query has dimension %d, index expects %d", len(query), ix.dim)
	}
	if len(ix.rows) == 0 || k <= 0 {
		return nil, nil
	}

	hits := make([]Hit, len(ix.rows))
	for i, row := range ix.rows {
		hits[i] = Hit{ID: row.ID, Score: dot(query, row.Vec)}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].ID < hits[b].ID
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Rows returns a copy of all live rows in insertion order, used for
// rebuilds and reconciliation.
func (ix *Index) Rows() []Row {
	out := make([]Row, len(ix.rows))
	for i, row := range ix.rows {
		vec := make([]float32, len(row.Vec))
		copy(vec, row.Vec)
		out[i] = Row{ID: row.ID, Vec: vec}
	}
	return out
}

// Vector returns the stored vector for a row ID.
func (ix *Index) Vector(id int64) ([]float32, bool) {
	for _, row := range ix.rows {
		if row.ID == id {
			vec := make([]float32, len(row.Vec))
			copy(vec, row.Vec)
			return vec, true
		}
	}
	return nil, false
}

// Rebuild replaces the index contents wholesale with exactly the given
// surviving rows, preserving their original IDs. This is how deletion
// punches a hole in the ID space without shifting other rows' identity.
func (ix *Index) Rebuild(rows []Row) error {
	fresh := make([]Row, 0, len(rows))
	for _, row := range rows {
		if len(row.Vec) != ix.dim {
			return types.NewError(types.ErrDimensionMismatch,
				"row %d has dimension %d, index expects %d", row.ID, len(row.Vec), ix.dim)
		}
		vec := make([]float32, ix.dim)
		copy(vec, row.Vec)
		fresh = append(fresh, Row{ID: row.ID, Vec: vec})
	}
	ix.rows = fresh
	return nil
}

// WriteFile serializes the index to a single binary artifact, written to a
// temporary file and renamed into place.
func (ix *Index) WriteFile(path string) error {
	buf := ix.marshal()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0644); err != nil {
		return types.WrapError(types.ErrIO, err, "writing index artifact")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return types.WrapError(types.ErrIO, err, "replacing index artifact")
	}
	return nil
}

// ReadFile loads an index artifact. A missing file yields an empty index of
// the expected dimension; an artifact whose dimension disagrees with
// expectDim fails fast instead of truncating or padding vectors.
func ReadFile(path string, expectDim int) (*Index, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(expectDim)
	}
	if err != nil {
		return nil, types.WrapError(types.ErrIO, err, "reading index artifact %s", path)
	}

	ix, err := unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("index artifact %s: %w", path, err)
	}
	if ix.Len() == 0 && ix.dim == 0 {
		// Empty artifact carries no dimension; adopt the embedder's.
		return New(expectDim)
	}
	if ix.dim != expectDim {
		return nil, types.NewError(types.ErrDimensionMismatch,
			"index artifact has dimension %d but the embedding provider produces %d; "+
				"the store must be rebuilt with a matching provider", ix.dim, expectDim)
	}
	return ix, nil
}

// marshal encodes: magic, version, dim, row count, then per row the ID as
// uint64 followed by dim little-endian float32 values.
func (ix *Index) marshal() []byte {
	size := 16 + len(ix.rows)*(8+4*ix.dim)
	buf := make([]byte, 0, size)

	buf = binary.LittleEndian.AppendUint32(buf, magic)
	buf = binary.LittleEndian.AppendUint32(buf, formatVersion)
	if len(ix.rows) == 0 {
		buf = binary.LittleEndian.AppendUint32(buf, 0)
		buf = binary.LittleEndian.AppendUint32(buf, 0)
		return buf
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(ix.dim))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ix.rows)))

	for _, row := range ix.rows {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(row.ID))
		for _, v := range row.Vec {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}
	return buf
}

func unmarshal(data []byte) (*Index, error) {
	if len(data) < 16 {
		return nil, fmt.Errorf("truncated header")
	}
	if binary.LittleEndian.Uint32(data[0:4]) != magic {
		return nil, fmt.Errorf("bad magic")
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != formatVersion {
		return nil, fmt.Errorf("unsupported format version %d", v)
	}

	dim := int(binary.LittleEndian.Uint32(data[8:12]))
	n := int(binary.LittleEndian.Uint32(data[12:16]))
	if dim == 0 && n == 0 {
		return &Index{}, nil
	}
	if dim <= 0 || n < 0 {
		return nil, fmt.Errorf("invalid dimensions dim=%d n=%d", dim, n)
	}

	rowSize := 8 + 4*dim
	if len(data) != 16+n*rowSize {
		return nil, fmt.Errorf("artifact size %d does not match dim=%d n=%d", len(data), dim, n)
	}

	ix := &Index{dim: dim, rows: make([]Row, n)}
	off := 16
	for i := 0; i < n; i++ {
		id := int64(binary.LittleEndian.Uint64(data[off : off+8]))
		off += 8
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
			off += 4
		}
		ix.rows[i] = Row{ID: id, Vec: vec}
	}
	return ix, nil
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
