// internal/runlog/runlog.go
// Package runlog persists one human-readable log file per benchmark run.
// The header is written and synced before the model is invoked, so a run that
// times out or crashes still leaves a diagnosable artifact on disk.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwiater/ossbench/internal/gpu"
	"github.com/mwiater/ossbench/internal/util"
)

// Section labels, in file order. The analyzer in internal/metrics parses
// these back out; keep the two in sync.
const (
	SectionMetadata = "=== Test metadata ==="
	SectionResponse = "=== Response ==="
	SectionMetrics  = "=== Metrics ==="
)

// Header is the per-run metadata written before invocation.
type Header struct {
	TestID    string
	Model     string
	Question  string
	Prompt    string
	Timestamp string
}

// Result is the per-run outcome appended after invocation.
type Result struct {
	Status          string
	Response        string
	DurationSeconds float64
	TTFTSeconds     float64
	EstimatedTokens int
	TokensPerSecond float64
	GPUBefore       *gpu.Snapshot
	GPUAfter        *gpu.Snapshot
	Error           string
}

// Writer owns one open run-log file.
type Writer struct {
	file *os.File
	path string
}

// Filename builds the deterministic log-file name for a run.
func Filename(testID, model, batchStamp string) string {
	return fmt.Sprintf("%s_%s_%s.log", testID, util.Slugify(model), batchStamp)
}

// Open creates the log directory if needed and opens the run's log file.
func Open(dir, testID, model, batchStamp string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, Filename(testID, model, batchStamp))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create run log: %w", err)
	}
	return &Writer{file: file, path: path}, nil
}

// Path returns the log file location.
func (w *Writer) Path() string { return w.path }

// WriteHeader records the test metadata and syncs it to disk. Call this
// before invoking the model.
func (w *Writer) WriteHeader(h Header) error {
	var b strings.Builder
	b.WriteString(SectionMetadata + "\n")
	fmt.Fprintf(&b, "Test: %s\n", h.TestID)
	fmt.Fprintf(&b, "Model: %s\n", h.Model)
	fmt.Fprintf(&b, "Timestamp: %s\n", h.Timestamp)
	if h.Question != "" {
		fmt.Fprintf(&b, "Question: %s\n", h.Question)
	}
	fmt.Fprintf(&b, "Prompt: %s\n", escapeNewlines(h.Prompt))
	b.WriteString("\n")

	if _, err := w.file.WriteString(b.String()); err != nil {
		return err
	}
	return w.file.Sync()
}

// WriteResult appends the response and metrics sections.
func (w *Writer) WriteResult(r Result) error {
	var b strings.Builder
	b.WriteString(SectionResponse + "\n")
	b.WriteString(r.Response)
	if !strings.HasSuffix(r.Response, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(SectionMetrics + "\n")
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	fmt.Fprintf(&b, "Duration: %.3fs\n", r.DurationSeconds)
	fmt.Fprintf(&b, "Time to first token: %.3fs\n", r.TTFTSeconds)
	fmt.Fprintf(&b, "Estimated tokens: %d\n", r.EstimatedTokens)
	fmt.Fprintf(&b, "Tokens/sec: %.2f\n", r.TokensPerSecond)
	fmt.Fprintf(&b, "GPU before: %s\n", snapshotLine(r.GPUBefore))
	fmt.Fprintf(&b, "GPU after: %s\n", snapshotLine(r.GPUAfter))
	if r.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", r.Error)
	}

	if _, err := w.file.WriteString(b.String()); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close releases the underlying file.
func (w *Writer) Close() error {
	return w.file.Close()
}

func snapshotLine(s *gpu.Snapshot) string {
	if s == nil {
		return "unavailable"
	}
	return s.String()
}

// escapeNewlines keeps the prompt on a single labeled line so the analyzer
// can parse it back with a line scan.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	return strings.ReplaceAll(s, "\n", "\\n")
}
