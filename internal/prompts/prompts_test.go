package prompts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeDataset(t, "User Search Question,full_prompt\n"+
		"What is Go?,Answer the question: What is Go?\n"+
		"What is a goroutine?,Answer the question: What is a goroutine?\n"+
		",\n"+
		"What is a channel?,Answer the question: What is a channel?\n")

	src, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if src.Len() != 3 {
		t.Fatalf("expected 3 records (blank row skipped), got %d", src.Len())
	}
	first := src.All()[0]
	if first.Question != "What is Go?" {
		t.Fatalf("question: %q", first.Question)
	}
	if first.FullPrompt != "Answer the question: What is Go?" {
		t.Fatalf("prompt: %q", first.FullPrompt)
	}
}

func TestLoadCSVErrors(t *testing.T) {
	var dsErr *DataSourceError

	if _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv")); !errors.As(err, &dsErr) {
		t.Fatalf("missing file: expected DataSourceError, got %v", err)
	}

	empty := writeDataset(t, "")
	if _, err := LoadCSV(empty); !errors.As(err, &dsErr) {
		t.Fatalf("empty file: expected DataSourceError, got %v", err)
	}

	noColumn := writeDataset(t, "question,answer\nfoo,bar\n")
	if _, err := LoadCSV(noColumn); !errors.As(err, &dsErr) {
		t.Fatalf("missing column: expected DataSourceError, got %v", err)
	}

	headerOnly := writeDataset(t, "question,full_prompt\n")
	if _, err := LoadCSV(headerOnly); !errors.As(err, &dsErr) {
		t.Fatalf("no rows: expected DataSourceError, got %v", err)
	}
}

func TestSample(t *testing.T) {
	src := FromRecords([]Prompt{
		{Question: "a", FullPrompt: "pa"},
		{Question: "b", FullPrompt: "pb"},
		{Question: "c", FullPrompt: "pc"},
		{Question: "d", FullPrompt: "pd"},
		{Question: "e", FullPrompt: "pe"},
	})

	sample := src.Sample(3)
	if len(sample) != 3 {
		t.Fatalf("expected 3 records, got %d", len(sample))
	}
	seen := make(map[string]struct{})
	for _, p := range sample {
		if _, dup := seen[p.Question]; dup {
			t.Fatalf("duplicate record %q in sample", p.Question)
		}
		seen[p.Question] = struct{}{}
	}

	if got := src.Sample(10); len(got) != 5 {
		t.Fatalf("oversized request should return all records, got %d", len(got))
	}
	if got := src.Sample(0); got != nil {
		t.Fatalf("zero request should return nil, got %v", got)
	}
}

func TestSampleDoesNotMutateSource(t *testing.T) {
	src := FromRecords([]Prompt{
		{Question: "a"}, {Question: "b"}, {Question: "c"},
	})
	_ = src.Sample(2)
	all := src.All()
	if all[0].Question != "a" || all[1].Question != "b" || all[2].Question != "c" {
		t.Fatalf("source order mutated: %+v", all)
	}
}
