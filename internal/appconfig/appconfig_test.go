// internal/appconfig/appconfig_test.go
package appconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoad verifies that a valid configuration file is loaded without error,
// that defaults fill unset fields, and that invalid JSON or schema violations
// surface as errors. A nonexistent file yields a default configuration.
func TestLoad(t *testing.T) {
	validConfig := `{
        "model": "gpt-oss:20b",
        "dataFile": "data/prompts.csv",
        "testCount": 5,
        "timeout": 120,
        "saveResults": true
    }`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(validConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.ModelName() != "gpt-oss:20b" {
		t.Fatalf("model: %q", cfg.ModelName())
	}
	if cfg.InvokeTimeout() != 120*time.Second {
		t.Fatalf("timeout: %v", cfg.InvokeTimeout())
	}
	if cfg.Cooldown() != 2*time.Second {
		t.Fatalf("expected default cooldown of 2s, got %v", cfg.Cooldown())
	}
	if cfg.Divisor() != 4 {
		t.Fatalf("expected default token divisor of 4, got %d", cfg.Divisor())
	}
	if cfg.BatchSize() != 5 {
		t.Fatalf("batch size: %d", cfg.BatchSize())
	}
	if cfg.LogDirPath() != "logs" {
		t.Fatalf("log dir: %q", cfg.LogDirPath())
	}

	invalidJSON := `{ "model": `
	path2 := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path2, []byte(invalidJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path2); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	wrongType := `{ "testCount": "ten" }`
	path3 := filepath.Join(dir, "wrongtype.json")
	if err := os.WriteFile(path3, []byte(wrongType), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path3); err == nil {
		t.Fatal("Load() with schema violation should have failed")
	}

	cfg, err = Load(filepath.Join(dir, "nonexistent.json"))
	if err != nil {
		t.Fatalf("Load() with missing file should fall back to defaults: %v", err)
	}
	if cfg.ModelName() != "gpt-oss:20b" {
		t.Fatalf("default model: %q", cfg.ModelName())
	}
	if !cfg.SaveResults {
		t.Fatal("default config should save results")
	}
}

func TestLoadSaveResultsDefault(t *testing.T) {
	dir := t.TempDir()

	// A file that never mentions the key behaves like no file at all.
	omitted := filepath.Join(dir, "omitted.json")
	if err := os.WriteFile(omitted, []byte(`{"model": "gpt-oss:20b"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(omitted)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.SaveResults {
		t.Fatal("omitting saveResults should default to true")
	}

	// An explicit false still wins.
	explicit := filepath.Join(dir, "explicit.json")
	if err := os.WriteFile(explicit, []byte(`{"saveResults": false}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(explicit)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SaveResults {
		t.Fatal("explicit saveResults=false should be honored")
	}
}

func TestValidateRejectsUnknownFields(t *testing.T) {
	if err := validate([]byte(`{"modle": "typo"}`)); err == nil {
		t.Fatal("expected unknown field to fail validation")
	}
	if err := validate([]byte(`{"tokenDivisor": 0}`)); err == nil {
		t.Fatal("expected zero tokenDivisor to fail validation")
	}
	if err := validate([]byte(`{"tokenDivisor": 4, "debug": true}`)); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}
}
