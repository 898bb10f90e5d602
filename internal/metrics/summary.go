// internal/metrics/summary.go
// Package metrics summarizes benchmark runs: in-memory batch summaries,
// JSON/CSV exports, run-log analysis, and a standalone HTML report.
package metrics

import (
	"math"
	"sort"

	"github.com/mwiater/ossbench/internal/harness"
	"github.com/mwiater/ossbench/internal/ollama"
)

// RunningStat tracks min/max/mean/variance with Welford's online algorithm.
type RunningStat struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"`
}

// Add folds a new observation into the running statistic.
func (s *RunningStat) Add(value float64) {
	s.Count++
	if s.Count == 1 {
		s.Min = value
		s.Max = value
	} else {
		if value < s.Min {
			s.Min = value
		}
		if value > s.Max {
			s.Max = value
		}
	}
	delta := value - s.Mean
	s.Mean += delta / float64(s.Count)
	delta2 := value - s.Mean
	s.M2 += delta * delta2
}

// StdDev returns the population standard deviation.
func (s *RunningStat) StdDev() float64 {
	if s.Count < 2 {
		return 0
	}
	return math.Sqrt(s.M2 / float64(s.Count))
}

// Median returns the middle value of a sample, averaging the two middle
// values for even-length input. Zero for an empty sample.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// BatchSummary aggregates one batch of run records. Averages cover only
// successful runs.
type BatchSummary struct {
	TotalTests             int     `json:"total_tests"`
	SuccessfulTests        int     `json:"successful_tests"`
	TimedOutTests          int     `json:"timed_out_tests"`
	FailedTests            int     `json:"failed_tests"`
	AverageDuration        float64 `json:"average_duration_seconds"`
	MedianDuration         float64 `json:"median_duration_seconds"`
	MinDuration            float64 `json:"min_duration_seconds"`
	MaxDuration            float64 `json:"max_duration_seconds"`
	AverageTTFT            float64 `json:"average_ttft_seconds"`
	AverageTokensPerSecond float64 `json:"average_tokens_per_second"`
	TotalEstimatedTokens   int     `json:"total_estimated_tokens"`
}

// Summarize reduces a batch to its summary. An empty or all-failed batch
// yields zeroed aggregates rather than NaN.
func Summarize(records []harness.RunRecord) BatchSummary {
	summary := BatchSummary{TotalTests: len(records)}

	var duration, ttft, tps RunningStat
	var durations []float64
	for _, rec := range records {
		switch rec.Status {
		case ollama.StatusSuccess:
			summary.SuccessfulTests++
			summary.TotalEstimatedTokens += rec.EstimatedTokens
			duration.Add(rec.DurationSeconds)
			ttft.Add(rec.TTFTSeconds)
			tps.Add(rec.TokensPerSecond)
			durations = append(durations, rec.DurationSeconds)
		case ollama.StatusTimedOut:
			summary.TimedOutTests++
		default:
			summary.FailedTests++
		}
	}

	if duration.Count > 0 {
		summary.AverageDuration = duration.Mean
		summary.MedianDuration = Median(durations)
		summary.MinDuration = duration.Min
		summary.MaxDuration = duration.Max
		summary.AverageTTFT = ttft.Mean
		summary.AverageTokensPerSecond = tps.Mean
	}
	return summary
}
