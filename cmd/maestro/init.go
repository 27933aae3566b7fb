package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maestro-ai/maestro/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a maestro project",
	Long: `Initialize a directory for use with maestro.

This command creates the .maestro directory structure:
  .maestro/roles.yaml   editable role definitions for subagents
  .maestro/signals/     stop-signal files written by 'maestro stop'
  .maestro/history.db   run history (created on first run)

The directory argument is optional and defaults to the current directory.

Examples:
  maestro init              # Initialize current directory
  maestro init ./myproject  # Initialize specific directory
  maestro init --force      # Reinitialize even if already set up`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if already set up")
}

// rolesPath is where a project's role overrides live.
func rolesPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".maestro", "roles.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	fmt.Printf("Initializing maestro in %s...\n\n", absPath)

	maestroDir := filepath.Join(absPath, ".maestro")
	if _, err := os.Stat(maestroDir); err == nil && !initForce {
		fmt.Println("Directory already initialized. Use --force to reinitialize.")
		return nil
	}

	if err := os.MkdirAll(filepath.Join(maestroDir, "signals"), 0755); err != nil {
		return fmt.Errorf("creating .maestro directory: %w", err)
	}
	printStatus("✓", "Created .maestro/", color.FgGreen)

	examplePath := rolesPath(absPath)
	if err := os.WriteFile(examplePath, []byte(exampleRolesYAML), 0644); err != nil {
		return fmt.Errorf("writing roles.yaml: %w", err)
	}
	printStatus("✓", "Created .maestro/roles.yaml", color.FgGreen)

	if key := os.Getenv("ANTHROPIC_API_KEY"); key == "" {
		printStatus("⚠", "ANTHROPIC_API_KEY not set (you can set it later)", color.FgYellow)
	} else if err := config.ValidateAPIKey(key); err != nil {
		printStatus("⚠", fmt.Sprintf("ANTHROPIC_API_KEY looks invalid: %v", err), color.FgYellow)
	} else {
		printStatus("✓", "ANTHROPIC_API_KEY is set", color.FgGreen)
	}

	fmt.Println("\nReady. Try:")
	fmt.Println("  maestro run \"Summarize the history of the Go programming language\"")
	return nil
}

func printStatus(mark, message string, attr color.Attribute) {
	color.New(attr).Printf("%s ", mark)
	fmt.Println(message)
}

const exampleRolesYAML = `# Role definitions for maestro subagents.
# Entries here replace built-in roles with the same name.
# A tools entry may name another role; the agent then gets a delegation
# tool that hands sub-questions to an agent of that role.
#
# roles:
#   - name: researcher
#     system_prompt: >
#       You are a research agent for the ACME codebase. Gather relevant
#       facts and report them as a concise brief.
#   - name: sql-analyst
#     system_prompt: You analyze data questions and draft SQL.
#     tools: [calculator, researcher]
roles: []
`
