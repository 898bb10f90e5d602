package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/ossbench/internal/ollama"
)

type stubBackend struct {
	models  []string
	listErr error
	outcome ollama.Outcome
}

func (s *stubBackend) ListModels(ctx context.Context) ([]string, error) {
	return s.models, s.listErr
}

func (s *stubBackend) Invoke(ctx context.Context, model, prompt string, timeout time.Duration) (ollama.Outcome, error) {
	return s.outcome, nil
}

func newTestModel(backend Backend) *sessionModel {
	m := newSessionModel(context.Background(), backend, time.Minute, 4)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func TestModelSelection(t *testing.T) {
	backend := &stubBackend{models: []string{"gpt-oss:20b", "llama3:8b"}}
	m := newTestModel(backend)

	msg := fetchModelsCmd(context.Background(), backend)()
	ready, ok := msg.(modelsReadyMsg)
	if !ok {
		t.Fatalf("unexpected msg type: %T", msg)
	}
	m.Update(ready)
	if len(m.modelList.Items()) != 2 {
		t.Fatalf("model list items: %d", len(m.modelList.Items()))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != viewPrompt {
		t.Fatalf("state after selection: %v", m.state)
	}
	if m.selectedModel != "gpt-oss:20b" {
		t.Fatalf("selected model: %q", m.selectedModel)
	}
}

func TestModelListError(t *testing.T) {
	backend := &stubBackend{listErr: errors.New("connection refused")}
	m := newTestModel(backend)

	msg := fetchModelsCmd(context.Background(), backend)()
	if _, ok := msg.(modelsLoadErr); !ok {
		t.Fatalf("unexpected msg type: %T", msg)
	}
	m.Update(msg)
	if m.err == nil {
		t.Fatal("list error should be surfaced")
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Fatalf("view missing error: %s", m.View())
	}
}

func TestInvokeRoundTrip(t *testing.T) {
	backend := &stubBackend{outcome: ollama.Outcome{Response: "hello there", Status: ollama.StatusSuccess}}
	m := newTestModel(backend)
	m.state = viewPrompt
	m.selectedModel = "gpt-oss:20b"
	m.textArea.SetValue("hi")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != viewWaiting {
		t.Fatalf("state while invoking: %v", m.state)
	}
	if cmd == nil {
		t.Fatal("expected an invoke command")
	}

	m.Update(invokeDoneMsg{
		outcome:  backend.outcome,
		duration: 2 * time.Second,
	})
	if m.state != viewPrompt {
		t.Fatalf("state after response: %v", m.state)
	}
	if !strings.Contains(m.lastMeta, "success") || !strings.Contains(m.lastMeta, "2.000s") {
		t.Fatalf("meta line: %q", m.lastMeta)
	}
}

func TestEmptyPromptIgnored(t *testing.T) {
	m := newTestModel(&stubBackend{})
	m.state = viewPrompt
	m.selectedModel = "m"
	m.textArea.SetValue("   ")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != viewPrompt {
		t.Fatalf("blank prompt should not start an invocation, state: %v", m.state)
	}
}
