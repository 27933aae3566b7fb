package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Orchestration.MaxSteps != 5 {
		t.Errorf("expected default max_steps 5, got %d", cfg.Orchestration.MaxSteps)
	}

	if cfg.Orchestration.MaxDepth != 2 {
		t.Errorf("expected default max_depth 2, got %d", cfg.Orchestration.MaxDepth)
	}

	if cfg.Orchestration.MaxTasks != 10 {
		t.Errorf("expected default max_tasks 10, got %d", cfg.Orchestration.MaxTasks)
	}

	if cfg.Orchestration.BranchingCap != 3 {
		t.Errorf("expected default branching_cap 3, got %d", cfg.Orchestration.BranchingCap)
	}

	if cfg.TUI.RefreshRate != 100*time.Millisecond {
		t.Errorf("expected refresh rate 100ms, got %v", cfg.TUI.RefreshRate)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
  bedrock: true
  aws_region: us-west-2
orchestration:
  max_steps: 8
  max_depth: 3
  max_tasks: 25
tui:
  refresh_rate: 200ms
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("unexpected model %q", cfg.Anthropic.Model)
	}

	if !cfg.Anthropic.Bedrock {
		t.Error("expected bedrock to be enabled")
	}

	if cfg.Orchestration.MaxSteps != 8 {
		t.Errorf("expected max_steps 8, got %d", cfg.Orchestration.MaxSteps)
	}

	if cfg.Orchestration.MaxDepth != 3 {
		t.Errorf("expected max_depth 3, got %d", cfg.Orchestration.MaxDepth)
	}

	if cfg.Orchestration.MaxTasks != 25 {
		t.Errorf("expected max_tasks 25, got %d", cfg.Orchestration.MaxTasks)
	}

	// Unset keys keep their defaults.
	if cfg.Orchestration.BranchingCap != 3 {
		t.Errorf("expected default branching_cap 3, got %d", cfg.Orchestration.BranchingCap)
	}

	if cfg.TUI.RefreshRate != 200*time.Millisecond {
		t.Errorf("expected refresh rate 200ms, got %v", cfg.TUI.RefreshRate)
	}
}

func TestLoadFromPathRejectsBadCeilings(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
orchestration:
  max_tasks: 0
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadFromPath(configPath); err == nil {
		t.Fatal("expected validation error for max_tasks 0")
	}
}

func TestExpandEnvInAPIKey(t *testing.T) {
	os.Setenv("TEST_MAESTRO_KEY", "expanded-value")
	defer os.Unsetenv("TEST_MAESTRO_KEY")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: ${TEST_MAESTRO_KEY}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "expanded-value" {
		t.Errorf("expected expanded api_key, got %q", cfg.Anthropic.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero steps", func(c *Config) { c.Orchestration.MaxSteps = 0 }, true},
		{"negative depth", func(c *Config) { c.Orchestration.MaxDepth = -1 }, true},
		{"zero depth", func(c *Config) { c.Orchestration.MaxDepth = 0 }, false},
		{"zero tasks", func(c *Config) { c.Orchestration.MaxTasks = 0 }, true},
		{"zero branching", func(c *Config) { c.Orchestration.BranchingCap = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	cfg := Default()
	cfg.Anthropic.Model = "claude-opus-4-1-20250805"
	cfg.Orchestration.MaxTasks = 15

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFromPath(GetUserConfigPath())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if loaded.Anthropic.Model != cfg.Anthropic.Model {
		t.Errorf("model round-trip: got %q, want %q", loaded.Anthropic.Model, cfg.Anthropic.Model)
	}

	if loaded.Orchestration.MaxTasks != 15 {
		t.Errorf("max_tasks round-trip: got %d, want 15", loaded.Orchestration.MaxTasks)
	}
}
