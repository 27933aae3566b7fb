// Package config handles configuration loading and management for maestro.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for maestro.
type Config struct {
	Anthropic     AnthropicConfig     `mapstructure:"anthropic"`
	Orchestration OrchestrationConfig `mapstructure:"orchestration"`
	TUI           TUIConfig           `mapstructure:"tui"`
}

// AnthropicConfig holds completion provider settings.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// Model is the model identifier used for every completion call.
	Model string `mapstructure:"model"`
	// Bedrock routes completion calls through AWS Bedrock instead of the
	// Anthropic API.
	Bedrock bool `mapstructure:"bedrock"`
	// AWSRegion is the Bedrock region (Bedrock only).
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the AWS credentials profile (Bedrock only).
	AWSProfile string `mapstructure:"aws_profile"`
}

// OrchestrationConfig holds the run-shaping ceilings.
type OrchestrationConfig struct {
	// MaxSteps bounds the reasoning loop of each agent.
	MaxSteps int `mapstructure:"max_steps"`
	// MaxDepth bounds recursive decomposition.
	MaxDepth int `mapstructure:"max_depth"`
	// MaxTasks bounds the total tasks dispatched per run.
	MaxTasks int `mapstructure:"max_tasks"`
	// BranchingCap bounds subtasks per decomposition.
	BranchingCap int `mapstructure:"branching_cap"`
}

// TUIConfig holds TUI display settings.
type TUIConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, ANTHROPIC_MODEL)
// 2. Project config (.maestro.yaml in current directory or parent)
// 3. User config (~/.config/maestro/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "ANTHROPIC_MODEL")
	v.BindEnv("anthropic.aws_region", "AWS_REGION")
	v.BindEnv("anthropic.aws_profile", "AWS_PROFILE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects ceilings that would make a run impossible.
func (c *Config) Validate() error {
	if c.Orchestration.MaxSteps < 1 {
		return fmt.Errorf("orchestration.max_steps must be at least 1, got %d", c.Orchestration.MaxSteps)
	}
	if c.Orchestration.MaxDepth < 0 {
		return fmt.Errorf("orchestration.max_depth must not be negative, got %d", c.Orchestration.MaxDepth)
	}
	if c.Orchestration.MaxTasks < 1 {
		return fmt.Errorf("orchestration.max_tasks must be at least 1, got %d", c.Orchestration.MaxTasks)
	}
	if c.Orchestration.BranchingCap < 1 {
		return fmt.Errorf("orchestration.branching_cap must be at least 1, got %d", c.Orchestration.BranchingCap)
	}
	return nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.bedrock", cfg.Anthropic.Bedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("orchestration.max_steps", cfg.Orchestration.MaxSteps)
	v.Set("orchestration.max_depth", cfg.Orchestration.MaxDepth)
	v.Set("orchestration.max_tasks", cfg.Orchestration.MaxTasks)
	v.Set("orchestration.branching_cap", cfg.Orchestration.BranchingCap)
	v.Set("tui.refresh_rate", cfg.TUI.RefreshRate.String())

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.bedrock", false)

	v.SetDefault("orchestration.max_steps", 5)
	v.SetDefault("orchestration.max_depth", 2)
	v.SetDefault("orchestration.max_tasks", 10)
	v.SetDefault("orchestration.branching_cap", 3)

	v.SetDefault("tui.refresh_rate", "100ms")
}

// getUserConfigDir returns the XDG config directory for maestro.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "maestro")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "maestro")
	}
	return filepath.Join(home, ".config", "maestro")
}

// findProjectConfig searches for .maestro.yaml in the current directory and
// parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".maestro.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Orchestration: OrchestrationConfig{
			MaxSteps:     5,
			MaxDepth:     2,
			MaxTasks:     10,
			BranchingCap: 3,
		},
		TUI: TUIConfig{
			RefreshRate: 100 * time.Millisecond,
		},
	}
}
