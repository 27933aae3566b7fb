package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maestro-ai/maestro/internal/config"
	"github.com/maestro-ai/maestro/internal/control"
	"github.com/maestro-ai/maestro/internal/llm"
	"github.com/maestro-ai/maestro/internal/orchestrator"
	"github.com/maestro-ai/maestro/internal/roles"
	"github.com/maestro-ai/maestro/internal/state"
	"github.com/maestro-ai/maestro/internal/tool"
	"github.com/maestro-ai/maestro/internal/tui"
)

var (
	runHeadless     bool
	runNoStore      bool
	runModel        string
	runBedrock      bool
	runMaxSteps     int
	runMaxDepth     int
	runMaxTasks     int
	runBranchingCap int
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Run a task with hierarchical subagent orchestration",
	Long: `Run a task by decomposing it into subtasks and fanning them out to
parallel subagents.

A planning call first decides whether the task should be split. Subtasks run
concurrently on role-specific subagents (researcher, writer, analyst, ...),
recursing until the depth ceiling, and their results are synthesized into one
answer. A failed branch never aborts its siblings; the synthesis works around
it as long as at least one branch produced output.

Budgets (all tunable by flag or config):
  --max-steps      reasoning steps per agent before best-effort cutoff
  --max-depth      recursive decomposition depth
  --max-tasks      total tasks dispatched per run
  --branching-cap  subtasks per decomposition

A run can be interrupted with Ctrl-C or with 'maestro stop' from another
terminal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "Run without TUI (plain log output)")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "Skip run-history persistence")
	runCmd.Flags().StringVar(&runModel, "model", "", "Override the configured model")
	runCmd.Flags().BoolVar(&runBedrock, "bedrock", false, "Route completion calls through AWS Bedrock")
	runCmd.Flags().IntVar(&runMaxSteps, "max-steps", 0, "Reasoning steps per agent (default from config)")
	runCmd.Flags().IntVar(&runMaxDepth, "max-depth", -1, "Decomposition depth ceiling (default from config)")
	runCmd.Flags().IntVar(&runMaxTasks, "max-tasks", 0, "Task budget per run (default from config)")
	runCmd.Flags().IntVar(&runBranchingCap, "branching-cap", 0, "Subtasks per decomposition (default from config)")
}

func runTask(cmd *cobra.Command, args []string) error {
	task := strings.TrimSpace(strings.Join(args, " "))
	if task == "" {
		return fmt.Errorf("task must not be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyRunFlags(cmd, cfg)

	projectRoot, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(projectRoot)
	if err != nil {
		return err
	}

	opts := []orchestrator.Option{
		orchestrator.WithMaxSteps(cfg.Orchestration.MaxSteps),
		orchestrator.WithMaxDepth(cfg.Orchestration.MaxDepth),
		orchestrator.WithMaxTasks(cfg.Orchestration.MaxTasks),
		orchestrator.WithBranchingCap(cfg.Orchestration.BranchingCap),
		orchestrator.WithCatalog(catalog),
		orchestrator.WithTools(tool.DefaultRegistry()),
	}

	if !runNoStore {
		db, err := state.Open(state.ProjectDBPath(projectRoot))
		if err != nil {
			return fmt.Errorf("open run history: %w", err)
		}
		defer db.Close()
		opts = append(opts, orchestrator.WithStateStore(db))
	}

	orch, err := orchestrator.New(orchestrator.RequiredConfig{Completer: client}, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := interruptibleContext(projectRoot)
	defer cancel()

	var answer string
	runDone := make(chan error, 1)
	go func() {
		var runErr error
		answer, runErr = orch.Orchestrate(ctx, task)
		runDone <- runErr
	}()

	if runHeadless {
		streamEvents(orch.Events())
	} else {
		if err := tui.Run(task, orch.Events()); err != nil {
			// The run keeps going; fall back to waiting silently.
			fmt.Fprintf(os.Stderr, "tui unavailable: %v\n", err)
		}
	}

	if err := <-runDone; err != nil {
		printUsage(client)
		return err
	}

	fmt.Println()
	fmt.Println(answer)
	printUsage(client)
	return nil
}

// applyRunFlags lets explicit flags override the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if runModel != "" {
		cfg.Anthropic.Model = runModel
	}
	if cmd.Flags().Changed("bedrock") {
		cfg.Anthropic.Bedrock = runBedrock
	}
	if runMaxSteps > 0 {
		cfg.Orchestration.MaxSteps = runMaxSteps
	}
	if runMaxDepth >= 0 {
		cfg.Orchestration.MaxDepth = runMaxDepth
	}
	if runMaxTasks > 0 {
		cfg.Orchestration.MaxTasks = runMaxTasks
	}
	if runBranchingCap > 0 {
		cfg.Orchestration.BranchingCap = runBranchingCap
	}
}

func buildClient(cfg *config.Config) (*llm.Client, error) {
	clientCfg := llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		UseAWSBedrock: cfg.Anthropic.Bedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	}

	if !cfg.Anthropic.Bedrock {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w\n\nSet ANTHROPIC_API_KEY or run 'maestro config anthropic.api_key <key>'", err)
		}
		clientCfg.APIKey = key
	}

	return llm.NewClient(clientCfg)
}

// loadCatalog merges the project's roles.yaml over the built-in roles.
func loadCatalog(projectRoot string) (*roles.Catalog, error) {
	path := rolesPath(projectRoot)
	if _, err := os.Stat(path); err != nil {
		return roles.DefaultCatalog(), nil
	}

	catalog, err := roles.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return catalog, nil
}

// interruptibleContext cancels on Ctrl-C, SIGTERM, or a stop signal file
// written by 'maestro stop'.
func interruptibleContext(projectRoot string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	control.ClearSignals(projectRoot)
	watcher, werr := control.NewWatcher(projectRoot)
	if werr != nil {
		watcher = nil
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		if watcher != nil {
			defer watcher.Close()
			select {
			case <-sigCh:
			case <-watcher.Stopped():
			case <-ctx.Done():
			}
		} else {
			select {
			case <-sigCh:
			case <-ctx.Done():
			}
		}
		cancel()
	}()

	return ctx, cancel
}

// streamEvents prints the run's progress in headless mode.
func streamEvents(events <-chan orchestrator.Event) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)
	dim := color.New(color.Faint)

	for ev := range events {
		indent := strings.Repeat("  ", ev.Depth)
		switch ev.Type {
		case orchestrator.EventTaskStarted:
			cyan.Printf("%s▶ %s", indent, ev.TaskDescription)
			if ev.Role != "" {
				dim.Printf(" (%s)", ev.Role)
			}
			fmt.Println()
		case orchestrator.EventTaskCompleted:
			green.Printf("%s✓ task %s done\n", indent, shortID(ev.TaskID))
		case orchestrator.EventTaskFailed:
			red.Printf("%s✗ task %s failed: %v\n", indent, shortID(ev.TaskID), ev.Error)
		case orchestrator.EventDecomposed:
			dim.Printf("%s  split into %d subtasks\n", indent, ev.Subtasks)
		case orchestrator.EventSynthesisStarted:
			dim.Printf("%s  synthesizing results...\n", indent)
		case orchestrator.EventRunDone:
			if ev.Error != nil {
				red.Printf("run failed: %v\n", ev.Error)
			}
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printUsage(client *llm.Client) {
	input, output := client.Tracker().Total()
	if input == 0 && output == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\n%d completion calls, %d input / %d output tokens, ~$%.4f\n",
		client.Tracker().Calls(), input, output, client.Tracker().Cost())
}
