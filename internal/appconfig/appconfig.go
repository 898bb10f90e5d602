// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultModel is benchmarked when the config and flags name none.
	defaultModel = "gpt-oss:20b"
	// defaultInvokeTimeout bounds a single model invocation.
	defaultInvokeTimeout = 300 * time.Second
	// defaultCooldown is the pause between sequential runs, letting GPU
	// memory and temperature settle before the next invocation.
	defaultCooldown = 2 * time.Second
	// defaultTokenDivisor is the response-bytes-per-token heuristic. One
	// token is roughly four bytes of output; this is a documented
	// approximation, not a tokenizer count.
	defaultTokenDivisor = 4
	// defaultTestCount is how many prompts a benchmark batch samples.
	defaultTestCount = 10
)

// Config represents the top-level application configuration.
type Config struct {
	Model           string `json:"model"`
	DataFile        string `json:"dataFile,omitempty"`
	SuiteFile       string `json:"suiteFile,omitempty"`
	LogDir          string `json:"logDir,omitempty"`
	LogFile         string `json:"logFile,omitempty"`
	TestCount       int    `json:"testCount,omitempty"`
	TimeoutSeconds  int    `json:"timeout,omitempty"`
	CooldownSeconds int    `json:"cooldown,omitempty"`
	TokenDivisor    int    `json:"tokenDivisor,omitempty"`
	OllamaBinary    string `json:"ollamaBinary,omitempty"`
	Debug           bool   `json:"debug"`
	SaveResults     bool   `json:"saveResults"`
	ConfigPath      string `json:"-"`
}

// ModelName returns the configured model, falling back to the default.
func (c Config) ModelName() string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	return defaultModel
}

// InvokeTimeout returns the per-invocation timeout, falling back to the default.
func (c Config) InvokeTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultInvokeTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Cooldown returns the inter-run delay.
func (c Config) Cooldown() time.Duration {
	if c.CooldownSeconds < 0 {
		return 0
	}
	if c.CooldownSeconds == 0 {
		return defaultCooldown
	}
	return time.Duration(c.CooldownSeconds) * time.Second
}

// Divisor returns the token-estimation divisor.
func (c Config) Divisor() int {
	if c.TokenDivisor <= 0 {
		return defaultTokenDivisor
	}
	return c.TokenDivisor
}

// BatchSize returns the number of prompts per benchmark batch.
func (c Config) BatchSize() int {
	if c.TestCount <= 0 {
		return defaultTestCount
	}
	return c.TestCount
}

// LogDirPath returns the run-log directory, applying a default if not set.
func (c Config) LogDirPath() string {
	if dir := strings.TrimSpace(c.LogDir); dir != "" {
		return dir
	}
	return "logs"
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return "ossbench.log"
}

// Binary returns the Ollama CLI binary name or path.
func (c Config) Binary() string {
	if b := strings.TrimSpace(c.OllamaBinary); b != "" {
		return b
	}
	return "ollama"
}

// Load reads the application configuration from the specified path. A missing
// file is not an error; defaults apply.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{SaveResults: true, ConfigPath: path}, nil
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := validate(data); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}

	// Defaults are set before unmarshalling so that a file omitting a key
	// gets the same value as no file at all.
	config := Config{SaveResults: true}
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}

	return config, nil
}
