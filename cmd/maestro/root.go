package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Hierarchical subagent orchestrator",
	Long: `Maestro answers complex tasks by orchestrating a hierarchy of LLM
subagents. A planning call decides whether a task should be split into
independent subtasks; each subtask runs in parallel on a dedicated subagent
with its own role, system prompt, and tools, recursing until a depth bound.
Partial results are synthesized back into a single answer.

Every run is bounded: a step budget per agent, a recursion depth ceiling,
a per-run task budget, and a branching cap per decomposition.

Core capabilities:
- Recursive task decomposition with a split-or-solve planning call
- Parallel fan-out of subtasks to role-specific subagents
- Bounded Thought/Action/Observation reasoning loops with tools
- Synthesis of partial results, tolerating failed branches
- Run history persisted per project under .maestro/`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(rolesCmd)
}
