// internal/prompts/prompts.go
// Package prompts supplies benchmark prompts, either sampled from a tabular
// dataset or taken from a fixed suite.
package prompts

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
)

// questionColumns are accepted headers for the human-readable question, in
// preference order. The dataset format carries its question under
// "User Search Question"; plain "question" is accepted for hand-built files.
var questionColumns = []string{"User Search Question", "question"}

// promptColumn is the required header holding the full prompt string.
const promptColumn = "full_prompt"

// Prompt is one (question, full prompt) pair. Immutable once loaded.
type Prompt struct {
	Question   string
	FullPrompt string
}

// DataSourceError reports a missing, empty, or malformed prompt dataset.
// It is fatal to a benchmark batch; no runs start once it is raised.
type DataSourceError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prompt source %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("prompt source %q: %s", e.Path, e.Reason)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// Source is a read-only collection of prompt records.
type Source struct {
	path    string
	records []Prompt
}

// LoadCSV reads a prompt dataset. The file must have a header row containing
// a full_prompt column; rows with an empty prompt are skipped.
func LoadCSV(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DataSourceError{Path: path, Reason: "cannot open dataset", Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &DataSourceError{Path: path, Reason: "dataset is empty"}
	}
	if err != nil {
		return nil, &DataSourceError{Path: path, Reason: "cannot read header", Err: err}
	}

	promptIdx := -1
	questionIdx := -1
	for i, col := range header {
		name := strings.TrimSpace(col)
		if name == promptColumn {
			promptIdx = i
		}
		for _, q := range questionColumns {
			if questionIdx == -1 && strings.EqualFold(name, q) {
				questionIdx = i
			}
		}
	}
	if promptIdx == -1 {
		return nil, &DataSourceError{Path: path, Reason: fmt.Sprintf("missing required column %q", promptColumn)}
	}

	var records []Prompt
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataSourceError{Path: path, Reason: "malformed row", Err: err}
		}
		if promptIdx >= len(row) {
			continue
		}
		full := strings.TrimSpace(row[promptIdx])
		if full == "" {
			continue
		}
		question := ""
		if questionIdx >= 0 && questionIdx < len(row) {
			question = strings.TrimSpace(row[questionIdx])
		}
		records = append(records, Prompt{Question: question, FullPrompt: full})
	}

	if len(records) == 0 {
		return nil, &DataSourceError{Path: path, Reason: "dataset has no usable rows"}
	}

	return &Source{path: path, records: records}, nil
}

// FromRecords wraps an in-memory prompt list as a Source.
func FromRecords(records []Prompt) *Source {
	return &Source{path: "(inline)", records: records}
}

// Len reports the number of available records.
func (s *Source) Len() int { return len(s.records) }

// Path reports where the source was loaded from.
func (s *Source) Path() string { return s.path }

// All returns a copy of every record.
func (s *Source) All() []Prompt {
	out := make([]Prompt, len(s.records))
	copy(out, s.records)
	return out
}

// Sample returns n records drawn uniformly at random without replacement.
// Requesting more records than exist returns all of them. Each call may
// select a different subset; benchmark variability is intentional.
func (s *Source) Sample(n int) []Prompt {
	if n >= len(s.records) {
		return s.All()
	}
	if n <= 0 {
		return nil
	}
	perm := rand.Perm(len(s.records))
	out := make([]Prompt, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, s.records[idx])
	}
	return out
}
