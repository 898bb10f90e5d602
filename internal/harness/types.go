// internal/harness/types.go
package harness

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwiater/ossbench/internal/gpu"
	"github.com/mwiater/ossbench/internal/ollama"
	"github.com/mwiater/ossbench/internal/prompts"
)

// Test is one scheduled invocation: an identifier plus its prompt pair.
type Test struct {
	ID       string
	Question string
	Prompt   string
}

// TestsFromPrompts assigns sequential test IDs to sampled prompt records.
func TestsFromPrompts(records []prompts.Prompt) []Test {
	tests := make([]Test, 0, len(records))
	for i, p := range records {
		tests = append(tests, Test{
			ID:       fmt.Sprintf("test%02d", i+1),
			Question: p.Question,
			Prompt:   p.FullPrompt,
		})
	}
	return tests
}

// TestsFromSuite converts fixed suite cases into scheduled tests.
func TestsFromSuite(cases []prompts.SuiteCase) []Test {
	tests := make([]Test, 0, len(cases))
	for i, c := range cases {
		tests = append(tests, Test{
			ID:       fmt.Sprintf("suite%02d", i+1),
			Question: c.Name,
			Prompt:   c.FullPrompt(),
		})
	}
	return tests
}

// RunRecord is the immutable result of one run. It is finalized when the
// invocation ends and owned by the run log once written.
type RunRecord struct {
	TestID          string        `json:"test_id"`
	Model           string        `json:"model"`
	Question        string        `json:"question,omitempty"`
	Prompt          string        `json:"prompt"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Duration        time.Duration `json:"-"`
	DurationSeconds float64       `json:"duration_seconds"`
	TTFTSeconds     float64       `json:"ttft_seconds"`
	Response        string        `json:"response"`
	EstimatedTokens int           `json:"estimated_tokens"`
	TokensPerSecond float64       `json:"tokens_per_second"`
	GPUBefore       *gpu.Snapshot `json:"gpu_before,omitempty"`
	GPUAfter        *gpu.Snapshot `json:"gpu_after,omitempty"`
	Status          ollama.Status `json:"status"`
	Error           string        `json:"error,omitempty"`
	LogPath         string        `json:"log_path,omitempty"`
}

// Succeeded reports whether the run reached the success state.
func (r RunRecord) Succeeded() bool { return r.Status == ollama.StatusSuccess }

// BatchContext carries the shared identity and running counters of one
// benchmark batch. It is threaded through the run loop by value; callers
// receive the updated context back rather than sharing mutable state.
type BatchContext struct {
	ID           string
	Timestamp    string
	Model        string
	LogDir       string
	Timeout      time.Duration
	Cooldown     time.Duration
	TokenDivisor int

	Completed int
	Succeeded int
}

// NewBatchContext stamps a new batch with a UUID and a shared timestamp used
// in every run-log filename of the batch.
func NewBatchContext(model, logDir string, timeout, cooldown time.Duration, tokenDivisor int) BatchContext {
	return BatchContext{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().Format("20060102_150405"),
		Model:        model,
		LogDir:       logDir,
		Timeout:      timeout,
		Cooldown:     cooldown,
		TokenDivisor: tokenDivisor,
	}
}
