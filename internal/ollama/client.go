// internal/ollama/client.go
// Package ollama invokes a local Ollama server through its command-line
// interface. The CLI is treated as an opaque collaborator; this package only
// shells out, captures output, and maps exit status.
package ollama

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Output larger than these bounds is truncated rather than buffered without
// limit; a runaway generation should not exhaust memory.
const (
	maxStdoutBytes = 25 << 20
	maxStderrBytes = 5 << 20
)

// Status is the terminal state of one invocation.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusTimedOut Status = "timed_out"
)

// Outcome is the result of one model invocation. Response holds captured
// stdout on success, captured stderr on failure, and whatever partial output
// arrived before the deadline on timeout. TTFT is the latency from process
// start to the first non-whitespace stdout output, or zero when the model
// never produced any.
type Outcome struct {
	Response string
	Stderr   string
	ExitCode int
	Status   Status
	TTFT     time.Duration
}

// Client is the seam between the harness and the model server. Production
// code shells out; tests substitute a scripted fake.
type Client interface {
	Invoke(ctx context.Context, model, prompt string, timeout time.Duration) (Outcome, error)
}

// CLIClient invokes models via `<binary> run <model> <prompt>`.
type CLIClient struct {
	Binary string
}

// NewCLIClient returns a client for the given binary, defaulting to "ollama".
func NewCLIClient(binary string) *CLIClient {
	if binary == "" {
		binary = "ollama"
	}
	return &CLIClient{Binary: binary}
}

// Invoke runs one prompt against the named model, blocking until the process
// exits or the timeout elapses. One-shot semantics: no retries here.
func (c *CLIClient) Invoke(ctx context.Context, model, prompt string, timeout time.Duration) (Outcome, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	stdout, stderr, code, ttft, err := runCommand(ctx, c.Binary, []string{"run", model, prompt})

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return Outcome{Response: stdout, Stderr: stderr, ExitCode: code, Status: StatusTimedOut, TTFT: ttft}, nil
		}
		// Cancellation from the caller is not a model failure; surface it so
		// the batch stops instead of recording a bogus failed run.
		return Outcome{}, ctxErr
	}
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			// Non-zero exit: surface stderr as the response for diagnosis.
			return Outcome{Response: stderr, Stderr: stderr, ExitCode: code, Status: StatusFailed, TTFT: ttft}, nil
		}
		return Outcome{}, err
	}

	return Outcome{Response: stdout, Stderr: stderr, ExitCode: 0, Status: StatusSuccess, TTFT: ttft}, nil
}

// boundedBuffer captures a command stream up to a byte limit, discarding the
// rest, and records when the first non-whitespace output arrived.
type boundedBuffer struct {
	buf   bytes.Buffer
	limit int
	first time.Time
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if b.first.IsZero() && len(bytes.TrimSpace(p)) > 0 {
		b.first = time.Now()
	}
	if remaining := b.limit - b.buf.Len(); remaining > 0 {
		chunk := p
		if len(chunk) > remaining {
			chunk = chunk[:remaining]
		}
		b.buf.Write(chunk)
	}
	// Report the full length so exec keeps draining past the limit.
	return len(p), nil
}

// runCommand executes bin with args, capturing bounded stdout and stderr and
// the time to first stdout output. The buffers are handed to exec directly so
// that Wait, not this function, synchronizes with the copy goroutines.
func runCommand(ctx context.Context, bin string, args []string) (stdout, stderr string, exitCode int, ttft time.Duration, err error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	// A killed process can leave children holding the pipes open; don't let
	// that stall the harness past the deadline.
	cmd.WaitDelay = time.Second

	outBuf := &boundedBuffer{limit: maxStdoutBytes}
	errBuf := &boundedBuffer{limit: maxStderrBytes}
	cmd.Stdout = outBuf
	cmd.Stderr = errBuf

	start := time.Now()
	runErr := cmd.Run()

	if !outBuf.first.IsZero() {
		ttft = outBuf.first.Sub(start)
	}
	stdout = outBuf.buf.String()
	stderr = errBuf.buf.String()

	if runErr != nil {
		return stdout, stderr, exitStatus(runErr), ttft, runErr
	}
	return stdout, stderr, 0, ttft, nil
}

func exitStatus(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 1
}
