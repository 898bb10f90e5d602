// internal/gpu/monitor.go
package gpu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	monitorHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	monitorRowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	monitorWarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// monitorRecord is one JSONL entry appended to the monitor log file.
type monitorRecord struct {
	Timestamp time.Time `json:"timestamp"`
	GPU       *Snapshot `json:"gpu"`
}

// Monitor periodically samples GPU state, printing readings and optionally
// appending JSONL records to a log file.
type Monitor struct {
	Sampler  Sampler
	Interval time.Duration
	Duration time.Duration // 0 means run until the context is cancelled
	LogPath  string
	Out      io.Writer
}

// Run samples until the context is cancelled or Duration elapses. It returns
// an error only when no telemetry is available at all on the first sample.
func (m *Monitor) Run(ctx context.Context) error {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	interval := m.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	first := m.Sampler.Sample()
	if first == nil {
		return fmt.Errorf("no GPU telemetry available (is nvidia-smi installed?)")
	}

	var logFile *os.File
	if m.LogPath != "" {
		f, err := os.OpenFile(m.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open monitor log: %w", err)
		}
		logFile = f
		defer logFile.Close()
	}

	fmt.Fprintln(out, monitorHeaderStyle.Render("TIME      GPU%   MEMORY              TEMP"))

	deadline := time.Time{}
	if m.Duration > 0 {
		deadline = time.Now().Add(m.Duration)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	emit := func(snap *Snapshot) error {
		now := time.Now()
		if snap == nil {
			fmt.Fprintln(out, monitorWarnStyle.Render(now.Format("15:04:05")+"  telemetry unavailable"))
		} else {
			line := fmt.Sprintf("%s  %4.0f%%  %7.0f/%.0fMB (%4.1f%%)  %3.0fC",
				now.Format("15:04:05"), snap.UtilizationPct,
				snap.MemoryUsedMB, snap.MemoryTotalMB, snap.MemoryPct(), snap.TemperatureC)
			fmt.Fprintln(out, monitorRowStyle.Render(line))
		}
		if logFile != nil {
			data, err := json.Marshal(monitorRecord{Timestamp: now, GPU: snap})
			if err != nil {
				return err
			}
			if _, err := logFile.Write(append(data, '\n')); err != nil {
				return err
			}
		}
		return nil
	}

	if err := emit(first); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !deadline.IsZero() && time.Now().After(deadline) {
				return nil
			}
			if err := emit(m.Sampler.Sample()); err != nil {
				return err
			}
		}
	}
}
