// internal/metrics/analyze.go
package metrics

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/ossbench/internal/runlog"
)

// ParsedRun is one benchmark run recovered from a log file on disk.
type ParsedRun struct {
	Path            string
	TestID          string
	Model           string
	Timestamp       string
	Status          string
	DurationSeconds float64
	TTFTSeconds     float64
	EstimatedTokens int
	TokensPerSecond float64
}

// ModelReport aggregates all parsed runs of one model.
type ModelReport struct {
	Model           string  `json:"model"`
	Runs            int     `json:"runs"`
	Successes       int     `json:"successes"`
	AvgDuration     float64 `json:"avg_duration_seconds"`
	MedianDuration  float64 `json:"median_duration_seconds"`
	MinDuration     float64 `json:"min_duration_seconds"`
	MaxDuration     float64 `json:"max_duration_seconds"`
	AvgTTFT         float64 `json:"avg_ttft_seconds"`
	AvgTokensPerSec float64 `json:"avg_tokens_per_second"`
}

// LoadLogDir parses every *.log file under dir. Files missing a metrics
// section (for example a run that hung before completing) are kept with
// whatever metadata their header carried.
func LoadLogDir(dir string) ([]ParsedRun, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no run logs found in %s", dir)
	}
	sort.Strings(paths)

	runs := make([]ParsedRun, 0, len(paths))
	for _, path := range paths {
		run, err := parseRunLog(path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func parseRunLog(path string) (ParsedRun, error) {
	f, err := os.Open(path)
	if err != nil {
		return ParsedRun{}, err
	}
	defer f.Close()

	run := ParsedRun{Path: path}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 32*1024*1024)
	// Section tracking keeps labeled lines inside the response body from
	// being mistaken for metadata.
	section := ""
	inMetadata := func() bool { return section == runlog.SectionMetadata }
	inMetrics := false
	for scanner.Scan() {
		line := scanner.Text()
		switch line {
		case runlog.SectionMetadata, runlog.SectionResponse, runlog.SectionMetrics:
			section = line
			inMetrics = section == runlog.SectionMetrics
			continue
		}
		switch {
		case inMetadata() && strings.HasPrefix(line, "Test: "):
			run.TestID = strings.TrimPrefix(line, "Test: ")
		case inMetadata() && strings.HasPrefix(line, "Model: "):
			run.Model = strings.TrimPrefix(line, "Model: ")
		case inMetadata() && strings.HasPrefix(line, "Timestamp: "):
			run.Timestamp = strings.TrimPrefix(line, "Timestamp: ")
		case inMetrics && strings.HasPrefix(line, "Status: "):
			run.Status = strings.TrimPrefix(line, "Status: ")
		case inMetrics && strings.HasPrefix(line, "Duration: "):
			value := strings.TrimSuffix(strings.TrimPrefix(line, "Duration: "), "s")
			run.DurationSeconds, _ = strconv.ParseFloat(value, 64)
		case inMetrics && strings.HasPrefix(line, "Time to first token: "):
			value := strings.TrimSuffix(strings.TrimPrefix(line, "Time to first token: "), "s")
			run.TTFTSeconds, _ = strconv.ParseFloat(value, 64)
		case inMetrics && strings.HasPrefix(line, "Estimated tokens: "):
			run.EstimatedTokens, _ = strconv.Atoi(strings.TrimPrefix(line, "Estimated tokens: "))
		case inMetrics && strings.HasPrefix(line, "Tokens/sec: "):
			run.TokensPerSecond, _ = strconv.ParseFloat(strings.TrimPrefix(line, "Tokens/sec: "), 64)
		}
	}
	if err := scanner.Err(); err != nil {
		return ParsedRun{}, err
	}
	if run.Model == "" {
		return ParsedRun{}, fmt.Errorf("no model line in log")
	}
	return run, nil
}

// Aggregate groups parsed runs by model and computes per-model statistics
// over the successful runs, sorted by model name.
func Aggregate(runs []ParsedRun) []ModelReport {
	byModel := make(map[string][]ParsedRun)
	for _, run := range runs {
		byModel[run.Model] = append(byModel[run.Model], run)
	}

	models := make([]string, 0, len(byModel))
	for model := range byModel {
		models = append(models, model)
	}
	sort.Strings(models)

	reports := make([]ModelReport, 0, len(models))
	for _, model := range models {
		report := ModelReport{Model: model}
		var duration, ttft, tps RunningStat
		var durations []float64
		for _, run := range byModel[model] {
			report.Runs++
			if run.Status != "success" {
				continue
			}
			report.Successes++
			duration.Add(run.DurationSeconds)
			ttft.Add(run.TTFTSeconds)
			tps.Add(run.TokensPerSecond)
			durations = append(durations, run.DurationSeconds)
		}
		if duration.Count > 0 {
			report.AvgDuration = duration.Mean
			report.MedianDuration = Median(durations)
			report.MinDuration = duration.Min
			report.MaxDuration = duration.Max
			report.AvgTTFT = ttft.Mean
			report.AvgTokensPerSec = tps.Mean
		}
		reports = append(reports, report)
	}
	return reports
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	tableRowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
)

// RenderTable prints the per-model comparison table.
func RenderTable(w io.Writer, reports []ModelReport) {
	header := fmt.Sprintf("%-28s %5s %5s %9s %9s %9s %9s %9s %9s",
		"MODEL", "RUNS", "OK", "AVG(s)", "MED(s)", "MIN(s)", "MAX(s)", "TTFT(s)", "TOK/S")
	fmt.Fprintln(w, tableHeaderStyle.Render(header))
	for _, r := range reports {
		row := fmt.Sprintf("%-28s %5d %5d %9.3f %9.3f %9.3f %9.3f %9.3f %9.2f",
			r.Model, r.Runs, r.Successes,
			r.AvgDuration, r.MedianDuration, r.MinDuration, r.MaxDuration, r.AvgTTFT, r.AvgTokensPerSec)
		fmt.Fprintln(w, tableRowStyle.Render(row))
	}
}

// ExportRunsCSV writes the parsed runs to a CSV file for external tooling.
func ExportRunsCSV(path string, runs []ParsedRun) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write analysis CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"test_id", "model", "timestamp", "status", "duration_seconds", "ttft_seconds", "estimated_tokens", "tokens_per_second"}); err != nil {
		return err
	}
	for _, run := range runs {
		row := []string{
			run.TestID,
			run.Model,
			run.Timestamp,
			run.Status,
			strconv.FormatFloat(run.DurationSeconds, 'f', 3, 64),
			strconv.FormatFloat(run.TTFTSeconds, 'f', 3, 64),
			strconv.Itoa(run.EstimatedTokens),
			strconv.FormatFloat(run.TokensPerSecond, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
