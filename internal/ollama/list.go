// internal/ollama/list.go
package ollama

import (
	"context"
	"fmt"
	"strings"
)

// ListModels returns the model names visible to the Ollama CLI.
func (c *CLIClient) ListModels(ctx context.Context) ([]string, error) {
	stdout, stderr, _, _, err := runCommand(ctx, c.Binary, []string{"list"})
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			return nil, fmt.Errorf("ollama list: %w", err)
		}
		return nil, fmt.Errorf("ollama list: %s: %w", msg, err)
	}
	return parseModelList(stdout), nil
}

// parseModelList extracts model names from `ollama list` output. The first
// line is a column header; the model name is the first whitespace-delimited
// field of each following line.
func parseModelList(output string) []string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) <= 1 {
		return nil
	}

	var models []string
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		models = append(models, fields[0])
	}
	return models
}
