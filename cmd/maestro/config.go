package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/maestro-ai/maestro/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify maestro configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/maestro/config.yaml
Project-specific overrides can be placed in .maestro.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
			return nil
		case 1:
			return displayConfigKey(cfg, args[0])
		default:
			return setConfigKey(cfg, args[0], args[1])
		}
	},
}

func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s (%s)\n", config.MaskAPIKey(cfg.Anthropic.APIKey), config.GetAPIKeySource(cfg))
	fmt.Printf("anthropic.model: %s\n", orDefault(cfg.Anthropic.Model, "(provider default)"))
	fmt.Printf("anthropic.bedrock: %t\n", cfg.Anthropic.Bedrock)
	fmt.Printf("anthropic.aws_region: %s\n", orDefault(cfg.Anthropic.AWSRegion, "(not set)"))
	fmt.Printf("anthropic.aws_profile: %s\n", orDefault(cfg.Anthropic.AWSProfile, "(not set)"))
	fmt.Printf("orchestration.max_steps: %d\n", cfg.Orchestration.MaxSteps)
	fmt.Printf("orchestration.max_depth: %d\n", cfg.Orchestration.MaxDepth)
	fmt.Printf("orchestration.max_tasks: %d\n", cfg.Orchestration.MaxTasks)
	fmt.Printf("orchestration.branching_cap: %d\n", cfg.Orchestration.BranchingCap)
	fmt.Printf("tui.refresh_rate: %s\n", cfg.TUI.RefreshRate)

	if path := config.GetProjectConfigPath(); path != "" {
		fmt.Printf("\nproject config: %s\n", path)
	}
	fmt.Printf("user config: %s\n", config.GetUserConfigPath())
}

func displayConfigKey(cfg *config.Config, key string) error {
	switch key {
	case "anthropic.api_key":
		fmt.Println(config.MaskAPIKey(cfg.Anthropic.APIKey))
	case "anthropic.model":
		fmt.Println(cfg.Anthropic.Model)
	case "anthropic.bedrock":
		fmt.Println(cfg.Anthropic.Bedrock)
	case "anthropic.aws_region":
		fmt.Println(cfg.Anthropic.AWSRegion)
	case "anthropic.aws_profile":
		fmt.Println(cfg.Anthropic.AWSProfile)
	case "orchestration.max_steps":
		fmt.Println(cfg.Orchestration.MaxSteps)
	case "orchestration.max_depth":
		fmt.Println(cfg.Orchestration.MaxDepth)
	case "orchestration.max_tasks":
		fmt.Println(cfg.Orchestration.MaxTasks)
	case "orchestration.branching_cap":
		fmt.Println(cfg.Orchestration.BranchingCap)
	case "tui.refresh_rate":
		fmt.Println(cfg.TUI.RefreshRate)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func setConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "anthropic.api_key":
		if err := config.ValidateAPIKey(os.ExpandEnv(value)); err != nil {
			return err
		}
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		cfg.Anthropic.Bedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "orchestration.max_steps", "orchestration.max_depth",
		"orchestration.max_tasks", "orchestration.branching_cap":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		switch key {
		case "orchestration.max_steps":
			cfg.Orchestration.MaxSteps = n
		case "orchestration.max_depth":
			cfg.Orchestration.MaxDepth = n
		case "orchestration.max_tasks":
			cfg.Orchestration.MaxTasks = n
		case "orchestration.branching_cap":
			cfg.Orchestration.BranchingCap = n
		}
	case "tui.refresh_rate":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q", value)
		}
		cfg.TUI.RefreshRate = d
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Printf("Set %s\n", key)
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
