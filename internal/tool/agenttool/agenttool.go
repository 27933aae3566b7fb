// Package agenttool wraps an agent behind the tool interface so a parent's
// tool-selection logic treats a child agent the same as a calculator or
// search tool.
package agenttool

import (
	"context"

	"github.com/maestro-ai/maestro/internal/agent"
	"github.com/maestro-ai/maestro/internal/tool"
)

type agentTool struct {
	agent       *agent.Agent
	description string
}

// New wraps the given agent as a tool. The tool name is the agent's role.
// If description is empty a generic delegation description is used.
func New(a *agent.Agent, description string) tool.Tool {
	if description == "" {
		description = "Delegate a task to the " + a.Role() + " agent"
	}
	return &agentTool{agent: a, description: description}
}

// Name returns the wrapped agent's role.
func (t *agentTool) Name() string {
	return t.agent.Role()
}

// Description returns the delegation description.
func (t *agentTool) Description() string {
	return t.description
}

// Run delegates the input to the wrapped agent's Complete call.
func (t *agentTool) Run(ctx context.Context, input string) (tool.Result, error) {
	output, err := t.agent.Complete(ctx, input)
	if err != nil {
		return tool.Result{}, err
	}
	return tool.Result{Content: output}, nil
}

var _ tool.Tool = (*agentTool)(nil)
