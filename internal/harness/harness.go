// internal/harness/harness.go
// Package harness runs benchmark batches: sequential model invocations with
// per-run logging, timing, and GPU telemetry bracketing.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/mwiater/ossbench/internal/gpu"
	"github.com/mwiater/ossbench/internal/logging"
	"github.com/mwiater/ossbench/internal/ollama"
	"github.com/mwiater/ossbench/internal/runlog"
	"github.com/mwiater/ossbench/internal/util"
)

// EstimateTokens approximates the token count of text as len(text)/divisor,
// rounded down. A divisor below 1 falls back to the default of 4 bytes per
// token.
func EstimateTokens(text string, divisor int) int {
	if divisor < 1 {
		divisor = 4
	}
	return len(text) / divisor
}

// TokensPerSecond computes throughput, reporting 0 for non-positive
// durations rather than dividing by zero.
func TokensPerSecond(tokens int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(tokens) / d.Seconds()
}

// Runner executes batches against a model client. The zero value is not
// usable; Client must be set. A nil Sampler disables GPU telemetry.
type Runner struct {
	Client       ollama.Client
	Sampler      gpu.Sampler
	Out          io.Writer
	ShowProgress bool
}

// RunBatch executes the tests sequentially, writing one run log per test and
// sleeping for the batch cooldown between runs. It stops early only when the
// context is cancelled or a log file cannot be written; a failed or timed-out
// invocation is recorded and the batch moves on. The updated batch context is
// returned alongside the records.
func (r *Runner) RunBatch(ctx context.Context, batch BatchContext, tests []Test) ([]RunRecord, BatchContext, error) {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	var bar *progressbar.ProgressBar
	if r.ShowProgress {
		bar = progressbar.NewOptions(len(tests),
			progressbar.OptionSetDescription(fmt.Sprintf("benchmarking %s", batch.Model)),
			progressbar.OptionSetWriter(out),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionShowCount(),
		)
	}

	records := make([]RunRecord, 0, len(tests))
	for i, test := range tests {
		if err := ctx.Err(); err != nil {
			return records, batch, err
		}

		logging.Event("run %s starting (model=%s)", test.ID, batch.Model)
		record, err := r.runOne(ctx, batch, test)
		if err != nil {
			return records, batch, err
		}

		batch.Completed++
		if record.Succeeded() {
			batch.Succeeded++
		}
		records = append(records, record)
		printRunStatus(out, record)
		if bar != nil {
			bar.Add(1)
		}

		if i < len(tests)-1 && batch.Cooldown > 0 {
			select {
			case <-ctx.Done():
				return records, batch, ctx.Err()
			case <-time.After(batch.Cooldown):
			}
		}
	}
	return records, batch, nil
}

// runOne performs a single invocation. The run-log header is written and
// synced before the model is called, so even a hung run leaves metadata on
// disk. Only log I/O errors propagate; invocation problems are captured in
// the record.
func (r *Runner) runOne(ctx context.Context, batch BatchContext, test Test) (RunRecord, error) {
	w, err := runlog.Open(batch.LogDir, test.ID, batch.Model, batch.Timestamp)
	if err != nil {
		return RunRecord{}, err
	}
	defer w.Close()

	header := runlog.Header{
		TestID:    test.ID,
		Model:     batch.Model,
		Question:  test.Question,
		Prompt:    test.Prompt,
		Timestamp: batch.Timestamp,
	}
	if err := w.WriteHeader(header); err != nil {
		return RunRecord{}, fmt.Errorf("write run log header: %w", err)
	}

	record := RunRecord{
		TestID:   test.ID,
		Model:    batch.Model,
		Question: test.Question,
		Prompt:   test.Prompt,
		LogPath:  w.Path(),
	}
	record.GPUBefore = r.sample()

	record.StartTime = time.Now()
	outcome, invokeErr := r.Client.Invoke(ctx, batch.Model, test.Prompt, batch.Timeout)
	record.EndTime = time.Now()
	record.Duration = record.EndTime.Sub(record.StartTime)
	record.DurationSeconds = record.Duration.Seconds()

	if invokeErr != nil {
		// A cancelled batch is not a failed run; stop instead of recording.
		if errors.Is(invokeErr, context.Canceled) {
			return RunRecord{}, invokeErr
		}
		record.Status = ollama.StatusFailed
		record.Error = invokeErr.Error()
	} else {
		record.Status = outcome.Status
		record.Response = outcome.Response
		record.TTFTSeconds = outcome.TTFT.Seconds()
		if outcome.Status == ollama.StatusFailed && outcome.Stderr != "" {
			record.Error = outcome.Stderr
		}
	}

	record.EstimatedTokens = EstimateTokens(record.Response, batch.TokenDivisor)
	record.TokensPerSecond = TokensPerSecond(record.EstimatedTokens, record.Duration)
	record.GPUAfter = r.sample()

	result := runlog.Result{
		Status:          string(record.Status),
		Response:        record.Response,
		DurationSeconds: record.DurationSeconds,
		TTFTSeconds:     record.TTFTSeconds,
		EstimatedTokens: record.EstimatedTokens,
		TokensPerSecond: record.TokensPerSecond,
		GPUBefore:       record.GPUBefore,
		GPUAfter:        record.GPUAfter,
		Error:           record.Error,
	}
	if err := w.WriteResult(result); err != nil {
		return RunRecord{}, fmt.Errorf("write run log result: %w", err)
	}

	logging.Event("run %s finished: status=%s duration=%.3fs tokens=%d",
		test.ID, record.Status, record.DurationSeconds, record.EstimatedTokens)
	return record, nil
}

func (r *Runner) sample() *gpu.Snapshot {
	if r.Sampler == nil {
		return nil
	}
	return r.Sampler.Sample()
}

func printRunStatus(out io.Writer, rec RunRecord) {
	label := rec.TestID
	if snippet := util.TruncateRunes(util.FirstLine(rec.Question), 48); snippet != "" {
		label = fmt.Sprintf("%s (%s)", rec.TestID, snippet)
	}
	switch rec.Status {
	case ollama.StatusSuccess:
		color.New(color.FgGreen).Fprintf(out, "✓ %s", label)
		fmt.Fprintf(out, "  %.3fs  %d tokens  %.2f tok/s\n",
			rec.DurationSeconds, rec.EstimatedTokens, rec.TokensPerSecond)
	case ollama.StatusTimedOut:
		color.New(color.FgYellow).Fprintf(out, "⏱ %s", label)
		fmt.Fprintf(out, "  timed out after %.3fs\n", rec.DurationSeconds)
	default:
		color.New(color.FgRed).Fprintf(out, "✗ %s", label)
		fmt.Fprintf(out, "  failed after %.3fs\n", rec.DurationSeconds)
	}
}
