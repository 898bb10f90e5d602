package harness

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/ossbench/internal/ollama"
	"github.com/mwiater/ossbench/internal/prompts"
	"github.com/mwiater/ossbench/internal/runlog"
)

// fakeClient replays scripted outcomes in order.
type fakeClient struct {
	outcomes []ollama.Outcome
	errs     []error
	calls    int
	prompts  []string
}

func (f *fakeClient) Invoke(ctx context.Context, model, prompt string, timeout time.Duration) (ollama.Outcome, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if i < len(f.outcomes) {
		return f.outcomes[i], err
	}
	return ollama.Outcome{}, err
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("abcdefgh", 4); got != 2 {
		t.Fatalf("tokens: %d", got)
	}
	if got := EstimateTokens("abcdefghi", 4); got != 2 {
		t.Fatalf("tokens should round down: %d", got)
	}
	if got := EstimateTokens("abcdefgh", 0); got != 2 {
		t.Fatalf("zero divisor should fall back to 4: %d", got)
	}
	if got := EstimateTokens("", 4); got != 0 {
		t.Fatalf("empty text: %d", got)
	}
}

func TestTokensPerSecond(t *testing.T) {
	if got := TokensPerSecond(100, 2*time.Second); got != 50 {
		t.Fatalf("throughput: %v", got)
	}
	if got := TokensPerSecond(100, 0); got != 0 {
		t.Fatalf("zero duration must report 0, got %v", got)
	}
}

func TestTestsFromPrompts(t *testing.T) {
	tests := TestsFromPrompts([]prompts.Prompt{
		{Question: "q1", FullPrompt: "p1"},
		{Question: "q2", FullPrompt: "p2"},
	})
	if len(tests) != 2 {
		t.Fatalf("test count: %d", len(tests))
	}
	if tests[0].ID != "test01" || tests[1].ID != "test02" {
		t.Fatalf("test IDs: %q %q", tests[0].ID, tests[1].ID)
	}
	if tests[1].Prompt != "p2" {
		t.Fatalf("prompt: %q", tests[1].Prompt)
	}
}

func TestRunBatch(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	client := &fakeClient{
		outcomes: []ollama.Outcome{
			{Response: "first answer here", Status: ollama.StatusSuccess, TTFT: 250 * time.Millisecond},
			{Response: "partial out", Status: ollama.StatusTimedOut},
		},
	}

	batch := NewBatchContext("gpt-oss:20b", logDir, time.Minute, 0, 4)
	runner := &Runner{Client: client, Out: &bytes.Buffer{}}
	tests := []Test{
		{ID: "test01", Question: "q1", Prompt: "p1"},
		{ID: "test02", Question: "q2", Prompt: "p2"},
	}

	records, batch, err := runner.RunBatch(context.Background(), batch, tests)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("record count: %d", len(records))
	}
	if batch.Completed != 2 || batch.Succeeded != 1 {
		t.Fatalf("batch counters: completed=%d succeeded=%d", batch.Completed, batch.Succeeded)
	}
	if client.prompts[0] != "p1" || client.prompts[1] != "p2" {
		t.Fatalf("prompts sent: %v", client.prompts)
	}
	if records[0].TTFTSeconds != 0.25 {
		t.Fatalf("ttft: %v", records[0].TTFTSeconds)
	}

	// Timed-out run keeps its partial output and per-byte token estimate.
	if records[1].Status != ollama.StatusTimedOut {
		t.Fatalf("status: %s", records[1].Status)
	}
	if records[1].Response != "partial out" {
		t.Fatalf("partial output lost: %q", records[1].Response)
	}
	if records[1].EstimatedTokens != len("partial out")/4 {
		t.Fatalf("tokens: %d", records[1].EstimatedTokens)
	}

	// One log file per run, each with all three sections.
	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("log file count: %d", len(entries))
	}
	for _, rec := range records {
		data, err := os.ReadFile(rec.LogPath)
		if err != nil {
			t.Fatalf("read %s: %v", rec.LogPath, err)
		}
		content := string(data)
		for _, section := range []string{runlog.SectionMetadata, runlog.SectionResponse, runlog.SectionMetrics} {
			if !strings.Contains(content, section) {
				t.Fatalf("%s missing %q:\n%s", rec.LogPath, section, content)
			}
		}
		if !strings.Contains(content, "Duration: ") {
			t.Fatalf("%s missing duration line:\n%s", rec.LogPath, content)
		}
		if !strings.Contains(content, "Time to first token: ") {
			t.Fatalf("%s missing TTFT line:\n%s", rec.LogPath, content)
		}
	}
}

func TestRunBatchInvokerError(t *testing.T) {
	logDir := t.TempDir()
	client := &fakeClient{
		outcomes: []ollama.Outcome{{}},
		errs:     []error{os.ErrNotExist},
	}
	batch := NewBatchContext("gpt-oss:20b", logDir, time.Minute, 0, 4)
	runner := &Runner{Client: client, Out: &bytes.Buffer{}}

	records, batch, err := runner.RunBatch(context.Background(), batch, []Test{{ID: "test01", Prompt: "p"}})
	if err != nil {
		t.Fatalf("invoker error should be recorded, not returned: %v", err)
	}
	if len(records) != 1 || records[0].Status != ollama.StatusFailed {
		t.Fatalf("records: %+v", records)
	}
	if records[0].Error == "" {
		t.Fatal("record should carry the invoker error")
	}
	if batch.Succeeded != 0 {
		t.Fatalf("succeeded: %d", batch.Succeeded)
	}
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeClient{outcomes: []ollama.Outcome{{Status: ollama.StatusSuccess}}}
	batch := NewBatchContext("m", t.TempDir(), time.Minute, 0, 4)
	runner := &Runner{Client: client, Out: &bytes.Buffer{}}

	records, _, err := runner.RunBatch(ctx, batch, []Test{{ID: "test01", Prompt: "p"}})
	if err == nil {
		t.Fatal("cancelled context should stop the batch")
	}
	if len(records) != 0 {
		t.Fatalf("no runs should start after cancellation, got %d", len(records))
	}
}

func TestRunBatchStopsOnMidRunCancellation(t *testing.T) {
	logDir := t.TempDir()
	client := &fakeClient{
		outcomes: []ollama.Outcome{{}},
		errs:     []error{context.Canceled},
	}
	batch := NewBatchContext("gpt-oss:20b", logDir, time.Minute, 0, 4)
	runner := &Runner{Client: client, Out: &bytes.Buffer{}}

	records, batch, err := runner.RunBatch(context.Background(), batch, []Test{{ID: "test01", Prompt: "p"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	// No bogus failed record for the interrupted run.
	if len(records) != 0 {
		t.Fatalf("records: %+v", records)
	}
	if batch.Completed != 0 {
		t.Fatalf("completed: %d", batch.Completed)
	}
}

func TestNewBatchContext(t *testing.T) {
	a := NewBatchContext("m", "logs", time.Minute, time.Second, 4)
	b := NewBatchContext("m", "logs", time.Minute, time.Second, 4)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("batch IDs must be unique: %q vs %q", a.ID, b.ID)
	}
	if len(a.Timestamp) != len("20060102_150405") {
		t.Fatalf("timestamp format: %q", a.Timestamp)
	}
}
