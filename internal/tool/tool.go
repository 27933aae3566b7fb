// Package tool provides the polymorphic tool interface and registry.
// Plain tools and agent-backed tools satisfy the same interface, so a
// planner dispatches to either without knowing which it holds.
package tool

import "context"

// Result is the output of a tool invocation.
type Result struct {
	// Content is the tool's textual output.
	Content string
}

// Tool is a unit of work an agent can invoke by name.
type Tool interface {
	// Name returns the tool's identifier.
	Name() string

	// Description returns what the tool does, shown to the model when
	// choosing an action.
	Description() string

	// Run executes the tool with the given input.
	Run(ctx context.Context, input string) (Result, error)
}
