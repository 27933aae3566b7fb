package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maestro-ai/maestro/internal/state"
	"github.com/maestro-ai/maestro/pkg/models"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent runs",
	Long: `Display recent orchestration runs from the project history.

Shows for each run: when it started, how long it took, how many tasks were
dispatched, and whether it produced an answer.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "Number of runs to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	dbPath := state.ProjectDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No run history. Run 'maestro run <task>' to start.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer db.Close()

	runs, err := db.RecentRuns(statusLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No run history. Run 'maestro run <task>' to start.")
		return nil
	}

	for _, run := range runs {
		printRun(run)
	}
	return nil
}

func printRun(run state.Run) {
	var mark string
	switch run.Status {
	case models.TaskStatusDone:
		mark = color.GreenString("✓")
	case models.TaskStatusFailed:
		mark = color.RedString("✗")
	default:
		mark = color.CyanString("▶")
	}

	duration := ""
	if run.FinishedAt != nil {
		duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
	}

	fmt.Printf("%s %s  %s\n", mark, run.StartedAt.Local().Format("2006-01-02 15:04"), truncateLine(run.Task, 70))
	fmt.Printf("  %s tasks: %d", color.New(color.Faint).Sprintf("run %s", shortID(run.ID)), run.TasksDispatched)
	if duration != "" {
		fmt.Printf("  took: %s", duration)
	}
	fmt.Println()
	if run.Error != "" {
		color.New(color.Faint).Printf("  error: %s\n", truncateLine(run.Error, 90))
	}
}

func truncateLine(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
