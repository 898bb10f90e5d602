// internal/tui/tui.go
// Package tui provides the interactive prompt session: pick a model, type a
// prompt, watch timing come back.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/ossbench/internal/harness"
	"github.com/mwiater/ossbench/internal/ollama"
)

// Backend is the slice of the model client the interactive session needs.
type Backend interface {
	Invoke(ctx context.Context, model, prompt string, timeout time.Duration) (ollama.Outcome, error)
	ListModels(ctx context.Context) ([]string, error)
}

// viewState represents the current screen of the session.
type viewState int

const (
	// viewModelSelector is the state where the user picks a model.
	viewModelSelector viewState = iota
	// viewPrompt is the state where the user types a prompt.
	viewPrompt
	// viewWaiting is the state while the model is generating.
	viewWaiting
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// item represents a selectable model in the list.
type item struct{ name string }

func (i item) Title() string       { return i.name }
func (i item) Description() string { return "Select this model" }
func (i item) FilterValue() string { return i.name }

// modelsReadyMsg carries the fetched model list.
type modelsReadyMsg struct{ models []list.Item }

// modelsLoadErr is sent when the model list could not be fetched.
type modelsLoadErr struct{ error }

// invokeDoneMsg carries a finished invocation.
type invokeDoneMsg struct {
	outcome  ollama.Outcome
	duration time.Duration
}

// invokeErr is sent when the invocation could not start at all.
type invokeErr struct{ error }

type sessionModel struct {
	ctx           context.Context
	backend       Backend
	timeout       time.Duration
	tokenDivisor  int
	state         viewState
	modelList     list.Model
	textArea      textarea.Model
	viewport      viewport.Model
	spinner       spinner.Model
	selectedModel string
	lastMeta      string
	err           error
	width, height int
	quitting      bool
}

func newSessionModel(ctx context.Context, backend Backend, timeout time.Duration, tokenDivisor int) *sessionModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Type a prompt..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	ml := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	ml.Title = "Select a Model"

	return &sessionModel{
		ctx:          ctx,
		backend:      backend,
		timeout:      timeout,
		tokenDivisor: tokenDivisor,
		state:        viewModelSelector,
		modelList:    ml,
		textArea:     ta,
		viewport:     viewport.New(100, 10),
		spinner:      s,
	}
}

func fetchModelsCmd(ctx context.Context, backend Backend) tea.Cmd {
	return func() tea.Msg {
		names, err := backend.ListModels(ctx)
		if err != nil {
			return modelsLoadErr{error: err}
		}
		items := make([]list.Item, len(names))
		for i, name := range names {
			items[i] = item{name: name}
		}
		return modelsReadyMsg{models: items}
	}
}

func invokeCmd(ctx context.Context, backend Backend, model, prompt string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		outcome, err := backend.Invoke(ctx, model, prompt, timeout)
		if err != nil {
			return invokeErr{error: err}
		}
		return invokeDoneMsg{outcome: outcome, duration: time.Since(start)}
	}
}

func (m *sessionModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchModelsCmd(m.ctx, m.backend))
}

func (m *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.modelList.SetSize(msg.Width, msg.Height-4)
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 6
		m.textArea.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			switch m.state {
			case viewModelSelector:
				if selected, ok := m.modelList.SelectedItem().(item); ok {
					m.selectedModel = selected.name
					m.state = viewPrompt
					m.textArea.Focus()
				}
				return m, nil
			case viewPrompt:
				prompt := strings.TrimSpace(m.textArea.Value())
				if prompt == "" {
					return m, nil
				}
				m.state = viewWaiting
				m.err = nil
				return m, tea.Batch(m.spinner.Tick,
					invokeCmd(m.ctx, m.backend, m.selectedModel, prompt, m.timeout))
			}
		}

	case modelsReadyMsg:
		m.modelList.SetItems(msg.models)
		return m, nil

	case modelsLoadErr:
		m.err = msg.error
		m.quitting = true
		return m, tea.Quit

	case invokeDoneMsg:
		m.state = viewPrompt
		m.textArea.Reset()
		tokens := harness.EstimateTokens(msg.outcome.Response, m.tokenDivisor)
		m.lastMeta = fmt.Sprintf("%s | %.3fs | ttft %.3fs | ~%d tokens | %.2f tok/s",
			msg.outcome.Status, msg.duration.Seconds(), msg.outcome.TTFT.Seconds(), tokens,
			harness.TokensPerSecond(tokens, msg.duration))
		body := msg.outcome.Response
		if msg.outcome.Status == ollama.StatusFailed && body == "" {
			body = msg.outcome.Stderr
		}
		m.viewport.SetContent(body)
		m.viewport.GotoTop()
		return m, nil

	case invokeErr:
		m.state = viewPrompt
		m.err = msg.error
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.state {
	case viewModelSelector:
		m.modelList, cmd = m.modelList.Update(msg)
	case viewPrompt:
		m.textArea, cmd = m.textArea.Update(msg)
	}
	return m, cmd
}

func (m *sessionModel) View() string {
	if m.quitting {
		if m.err != nil {
			return errStyle.Render("error: "+m.err.Error()) + "\n"
		}
		return ""
	}

	switch m.state {
	case viewModelSelector:
		return m.modelList.View()
	case viewWaiting:
		return fmt.Sprintf("\n %s generating with %s...\n", m.spinner.View(), titleStyle.Render(m.selectedModel))
	default:
		var b strings.Builder
		b.WriteString(titleStyle.Render("Model: "+m.selectedModel) + "\n\n")
		if m.err != nil {
			b.WriteString(errStyle.Render("error: "+m.err.Error()) + "\n\n")
		}
		if m.lastMeta != "" {
			b.WriteString(m.viewport.View() + "\n")
			b.WriteString(metaStyle.Render(m.lastMeta) + "\n\n")
		}
		b.WriteString(m.textArea.View() + "\n")
		b.WriteString(metaStyle.Render("enter to send, esc to quit"))
		return b.String()
	}
}

// Run starts the interactive session and blocks until the user quits.
func Run(ctx context.Context, backend Backend, timeout time.Duration, tokenDivisor int) error {
	m := newSessionModel(ctx, backend, timeout, tokenDivisor)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	if m.err != nil {
		return m.err
	}
	return nil
}
