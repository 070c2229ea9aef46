package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docrag-mcp/pkg/types"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func writeFakePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake pdf content"), 0644))
	return path
}

func TestNew(t *testing.T) {
	e := New()
	require.NotNil(t, e)
	assert.IsType(t, &PDFExtractor{}, e)
}

func TestExtract_MissingFile(t *testing.T) {
	e := NewWithRunner(&mockRunner{})

	_, err := e.Extract(context.Background(), "/nonexistent/file.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrExtraction)
}

func TestExtract_WrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

	e := NewWithRunner(&mockRunner{output: []byte("text")})
	_, err := e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrExtraction)
	assert.Contains(t, err.Error(), "must be a PDF")
}

func TestExtract_Directory(t *testing.T) {
	e := NewWithRunner(&mockRunner{})
	_, err := e.Extract(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrExtraction)
}

func TestExtract_RunnerOutput(t *testing.T) {
	path := writeFakePDF(t)
	e := NewWithRunner(&mockRunner{output: []byte("Title\n\nBody of the document.\n")})

	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Title\n\nBody of the document.", text)
}

func TestExtract_RunnerError(t *testing.T) {
	path := writeFakePDF(t)
	e := NewWithRunner(&mockRunner{err: errors.New("pdftotext crashed")})

	_, err := e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrExtraction)
	assert.Contains(t, err.Error(), "pdftotext failed")
}

func TestExtract_EmptyOutput(t *testing.T) {
	path := writeFakePDF(t)
	e := NewWithRunner(&mockRunner{output: []byte("   \n\n  ")})

	_, err := e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrExtraction)
	assert.Contains(t, err.Error(), "no text content")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "report", DisplayName("/data/in/report.pdf"))
	assert.Equal(t, "archive.2024", DisplayName("archive.2024.pdf"))
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Error(t, ErrPDFToolNotFound)
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}
