package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maestro-ai/maestro/internal/control"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the run in this project",
	Long: `Write a stop signal for the orchestration run in the current project.

The running 'maestro run' process watches .maestro/signals/ and cancels the
run when the signal appears. In-flight completion calls are interrupted;
already persisted tasks stay in the run history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		if err := control.RequestStop(cwd); err != nil {
			return fmt.Errorf("request stop: %w", err)
		}
		fmt.Println("Stop requested.")
		return nil
	},
}
