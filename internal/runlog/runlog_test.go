package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/ossbench/internal/gpu"
)

func TestFilename(t *testing.T) {
	got := Filename("test01", "gpt-oss:20b", "20260824_153000")
	want := "test01_gpt-oss_20b_20260824_153000.log"
	if got != want {
		t.Fatalf("Filename: got %q, want %q", got, want)
	}

	// Distinct model tags must never collide on disk.
	other := Filename("test01", "gpt-oss:120b", "20260824_153000")
	if got == other {
		t.Fatalf("colliding filenames for distinct models: %q", got)
	}
}

func TestHeaderSurvivesWithoutResult(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, "test01", "gpt-oss:20b", "20260824_153000")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	header := Header{
		TestID:    "test01",
		Model:     "gpt-oss:20b",
		Question:  "What is Go?",
		Prompt:    "Answer briefly:\nWhat is Go?",
		Timestamp: "20260824_153000",
	}
	if err := w.WriteHeader(header); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	// Simulate a run that never completed: close without a result.
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(w.Path())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		SectionMetadata,
		"Model: gpt-oss:20b",
		"Timestamp: 20260824_153000",
		"Prompt: Answer briefly:\\nWhat is Go?",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("header missing %q:\n%s", want, content)
		}
	}
}

func TestWriteResultSections(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, "test02", "gpt-oss:20b", "20260824_153000")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer w.Close()

	if err := w.WriteHeader(Header{TestID: "test02", Model: "gpt-oss:20b", Prompt: "p", Timestamp: "ts"}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	result := Result{
		Status:          "success",
		Response:        "Go is a programming language.",
		DurationSeconds: 1.234,
		TTFTSeconds:     0.123,
		EstimatedTokens: 7,
		TokensPerSecond: 5.67,
		GPUBefore:       &gpu.Snapshot{UtilizationPct: 10, MemoryUsedMB: 512, MemoryTotalMB: 8192, TemperatureC: 45},
		GPUAfter:        nil,
	}
	if err := w.WriteResult(result); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	data, err := os.ReadFile(w.Path())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)

	// Sections appear in order.
	mi := strings.Index(content, SectionMetadata)
	ri := strings.Index(content, SectionResponse)
	xi := strings.Index(content, SectionMetrics)
	if mi == -1 || ri == -1 || xi == -1 || !(mi < ri && ri < xi) {
		t.Fatalf("sections missing or out of order:\n%s", content)
	}

	for _, want := range []string{
		"Duration: 1.234s",
		"Time to first token: 0.123s",
		"Estimated tokens: 7",
		"Tokens/sec: 5.67",
		"GPU after: unavailable",
		"Status: success",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("result missing %q:\n%s", want, content)
		}
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs", "nested")
	w, err := Open(dir, "test01", "m", "ts")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer w.Close()
	if _, err := os.Stat(w.Path()); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}
