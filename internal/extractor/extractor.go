package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dshills/docrag-mcp/pkg/types"
)

// ErrPDFToolNotFound indicates the pdftotext binary is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Extractor converts a source document into plain text.
type Extractor interface {
	// Extract returns the full text of the document at path. It fails with
	// a types.ErrExtraction-tagged error when the document is unreadable
	// or yields no text.
	Extract(ctx context.Context, path string) (string, error)
}

// CommandRunner abstracts command execution so tests can inject fakes.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PDFExtractor extracts text from PDF files by shelling out to pdftotext
// (poppler-utils).
type PDFExtractor struct {
	runner CommandRunner
}

// New creates a PDFExtractor using the real pdftotext binary.
func New() *PDFExtractor {
	return &PDFExtractor{runner: execRunner{}}
}

// NewWithRunner creates a PDFExtractor with an injected command runner.
func NewWithRunner(runner CommandRunner) *PDFExtractor {
	return &PDFExtractor{runner: runner}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns a hint for installing the PDF tool.
func InstallInstructions() string {
	return "pdftotext is required for PDF ingestion. Install poppler: " +
		"`brew install poppler` (macOS) or `apt install poppler-utils` (Debian/Ubuntu)."
}

// Extract validates the path and runs pdftotext on it. Layout mode is
// disabled so paragraphs come out as flowing text suitable for chunking.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", types.WrapError(types.ErrExtraction, err, "file not found: %s", path)
	}
	if info.IsDir() {
		return "", types.NewError(types.ErrExtraction, "%s is a directory", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", types.NewError(types.ErrExtraction, "file must be a PDF: %s", path)
	}

	// "-" writes extracted text to stdout
	out, err := e.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", types.WrapError(types.ErrExtraction, err, "pdftotext failed for %s", path)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", types.NewError(types.ErrExtraction, "no text content found in %s", path)
	}
	return text, nil
}

// DisplayName derives a document display name from its file path, used when
// the caller does not supply one.
func DisplayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var _ Extractor = (*PDFExtractor)(nil)

// String identifies the extractor in startup logs.
func (e *PDFExtractor) String() string {
	return fmt.Sprintf("pdftotext (%s)", availability())
}

func availability() string {
	if CheckAvailable() != nil {
		return "missing"
	}
	return "available"
}
