// internal/prompts/suite.go
package prompts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SuiteCase is one named prompt in the fixed benchmark suite. Effort is
// folded into the prompt text as a reasoning-effort hint.
type SuiteCase struct {
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
	Effort string `yaml:"effort"`
}

// FullPrompt returns the prompt with the reasoning-effort hint prepended.
func (c SuiteCase) FullPrompt() string {
	effort := c.Effort
	if effort == "" {
		effort = "medium"
	}
	return fmt.Sprintf("[Reasoning effort: %s] %s", effort, c.Prompt)
}

// DefaultSuite returns the built-in benchmark suite covering code, math,
// creative, and technical prompts.
func DefaultSuite() []SuiteCase {
	return []SuiteCase{
		{
			Name:   "Code Generation",
			Prompt: "Write a Python class for a binary search tree with insert, search, and delete methods. Include proper error handling.",
			Effort: "high",
		},
		{
			Name:   "Mathematical Reasoning",
			Prompt: "Solve this step by step: If a train travels 240 miles in 3 hours, and then increases its speed by 20 mph for the next 2 hours, how far did it travel in total?",
			Effort: "medium",
		},
		{
			Name:   "Creative Writing",
			Prompt: "Write a short story (200 words) about an AI discovering emotions for the first time.",
			Effort: "low",
		},
		{
			Name:   "Technical Analysis",
			Prompt: "Explain the differences between REST and GraphQL APIs, including pros and cons of each approach.",
			Effort: "medium",
		},
	}
}

// LoadSuite reads a custom suite from a YAML file: a list of
// {name, prompt, effort} entries. Every entry needs a non-empty prompt.
func LoadSuite(path string) ([]SuiteCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataSourceError{Path: path, Reason: "cannot open suite file", Err: err}
	}

	var cases []SuiteCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, &DataSourceError{Path: path, Reason: "malformed suite file", Err: err}
	}
	if len(cases) == 0 {
		return nil, &DataSourceError{Path: path, Reason: "suite file has no cases"}
	}
	for i, c := range cases {
		if c.Prompt == "" {
			return nil, &DataSourceError{Path: path, Reason: fmt.Sprintf("case %d has no prompt", i+1)}
		}
	}
	return cases, nil
}
