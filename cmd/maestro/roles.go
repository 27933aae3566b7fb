package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List available subagent roles",
	Long: `List the roles available to subagents in this project: the built-in
catalog merged with .maestro/roles.yaml overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}

		catalog, err := loadCatalog(cwd)
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		dim := color.New(color.Faint)
		for _, name := range catalog.Names() {
			role, _ := catalog.Get(name)
			bold.Println(name)
			if len(role.Tools) > 0 {
				dim.Printf("  tools: %v\n", role.Tools)
			}
			dim.Printf("  %s\n", truncateLine(role.SystemPrompt, 100))
		}
		return nil
	},
}
