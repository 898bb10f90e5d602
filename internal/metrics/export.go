// internal/metrics/export.go
package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mwiater/ossbench/internal/harness"
)

// batchExport is the JSON document written after a batch completes.
type batchExport struct {
	BatchID     string              `json:"batch_id"`
	Model       string              `json:"model"`
	Timestamp   string              `json:"timestamp"`
	GeneratedAt time.Time           `json:"generated_at"`
	Summary     BatchSummary        `json:"summary"`
	Results     []harness.RunRecord `json:"results"`
}

// WriteBatchJSON saves the full batch (summary plus per-run records) as an
// indented JSON file under dir, named with the batch timestamp. It returns
// the path written.
func WriteBatchJSON(dir string, batch harness.BatchContext, records []harness.RunRecord, summary BatchSummary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	doc := batchExport{
		BatchID:     batch.ID,
		Model:       batch.Model,
		Timestamp:   batch.Timestamp,
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Results:     records,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("benchmark_results_%s.json", batch.Timestamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write batch JSON: %w", err)
	}
	return path, nil
}

// WriteBatchCSV saves one row per run for spreadsheet analysis. It returns
// the path written.
func WriteBatchCSV(dir string, batch harness.BatchContext, records []harness.RunRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("benchmark_results_%s.csv", batch.Timestamp))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write batch CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"test_id", "model", "status", "duration_seconds", "ttft_seconds", "estimated_tokens", "tokens_per_second", "question"}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, rec := range records {
		row := []string{
			rec.TestID,
			rec.Model,
			string(rec.Status),
			strconv.FormatFloat(rec.DurationSeconds, 'f', 3, 64),
			strconv.FormatFloat(rec.TTFTSeconds, 'f', 3, 64),
			strconv.Itoa(rec.EstimatedTokens),
			strconv.FormatFloat(rec.TokensPerSecond, 'f', 2, 64),
			rec.Question,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}
