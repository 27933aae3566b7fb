package main

import (
	"testing"

	"github.com/maestro-ai/maestro/internal/config"
)

func TestApplyRunFlags(t *testing.T) {
	cfg := config.Default()

	runModel = "claude-opus-4-1-20250805"
	runMaxSteps = 7
	runMaxDepth = 0
	runMaxTasks = 0
	runBranchingCap = 0
	defer func() {
		runModel = ""
		runMaxSteps = 0
		runMaxDepth = -1
	}()

	applyRunFlags(runCmd, cfg)

	if cfg.Anthropic.Model != "claude-opus-4-1-20250805" {
		t.Errorf("model override not applied, got %q", cfg.Anthropic.Model)
	}
	if cfg.Orchestration.MaxSteps != 7 {
		t.Errorf("max_steps override not applied, got %d", cfg.Orchestration.MaxSteps)
	}
	// Depth 0 is a valid override: solve at the root without decomposition.
	if cfg.Orchestration.MaxDepth != 0 {
		t.Errorf("max_depth override not applied, got %d", cfg.Orchestration.MaxDepth)
	}
	// Unset flags keep config values.
	if cfg.Orchestration.MaxTasks != 10 {
		t.Errorf("max_tasks should keep its config value, got %d", cfg.Orchestration.MaxTasks)
	}
	if cfg.Orchestration.BranchingCap != 3 {
		t.Errorf("branching_cap should keep its config value, got %d", cfg.Orchestration.BranchingCap)
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("short", 10); got != "short" {
		t.Errorf("truncateLine(short) = %q", got)
	}
	if got := truncateLine("a very long line that needs trimming", 10); got != "a very ..." {
		t.Errorf("truncateLine = %q", got)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}
